// Package exchange defines the on-chain collaborators the engine consumes as
// black boxes. The engine never retries them on its own.
package exchange

import (
	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/listing"
	"github.com/brickmark/goapi/domain/trade"
)

// OwnershipVerifier checks that an address holds a deed token. Used at
// listing creation; a false result is a validation rejection, not a fatal
// error.
type OwnershipVerifier interface {
	VerifyOwnership(c ctx.Ctx, asset domain.AssetId, claimedOwner domain.Address) (bool, error)
}

// Executor submits the settlement transaction for a trade. At most once from
// the engine's perspective; a failure surfaces as trade status failed.
type Executor interface {
	Execute(c ctx.Ctx, t *trade.Trade) (txHash string, err error)
	// Cancel is the best effort on-chain listing cancellation. Failures are
	// logged by the caller, never propagated; local state stays authoritative.
	Cancel(c ctx.Ctx, l *listing.Listing) error
}
