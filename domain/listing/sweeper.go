package listing

import (
	"github.com/brickmark/goapi/base/ctx"
)

// SweepReport summarizes one sweeper pass
type SweepReport struct {
	Scanned   int
	Finalized int
	Expired   int
	Failed    int
}

// Sweeper finalizes auctions past their end time and expires stale listings.
// A pass is idempotent, listings already in a terminal status are skipped.
type Sweeper interface {
	ProcessExpirations(c ctx.Ctx) (*SweepReport, error)
}
