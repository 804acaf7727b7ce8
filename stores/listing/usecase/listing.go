package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/keylock"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/base/ptr"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/event"
	"github.com/brickmark/goapi/domain/exchange"
	"github.com/brickmark/goapi/domain/listing"
)

type ListingUseCaseCfg struct {
	ListingRepo listing.Repo
	Verifier    exchange.OwnershipVerifier
	Executor    exchange.Executor
	Emitter     event.Emitter
	Locks       *keylock.KeyLock
}

type impl struct {
	listingRepo listing.Repo
	verifier    exchange.OwnershipVerifier
	executor    exchange.Executor
	emitter     event.Emitter
	locks       *keylock.KeyLock
}

func New(cfg *ListingUseCaseCfg) listing.UseCase {
	return &impl{
		listingRepo: cfg.ListingRepo,
		verifier:    cfg.Verifier,
		executor:    cfg.Executor,
		emitter:     cfg.Emitter,
		locks:       cfg.Locks,
	}
}

func (im *impl) CreateListing(c ctx.Ctx, l *listing.Listing) (*listing.Listing, error) {
	l.LowerCase()

	if err := validateListing(l); err != nil {
		return nil, err
	}

	owns, err := im.verifier.VerifyOwnership(c, l.Asset, l.Seller)
	if err != nil {
		c.WithFields(log.Fields{
			"err":    err,
			"asset":  l.Asset,
			"seller": l.Seller,
		}).Error("failed to verifier.VerifyOwnership")
		return nil, err
	}
	if !owns {
		return nil, domain.Validation("seller does not own the asset")
	}

	now := time.Now()
	l.Id = listing.Id(uuid.NewString())
	l.Status = listing.StatusActive
	l.CreatedAt = now
	l.UpdatedAt = now

	if l.Auction != nil {
		l.Auction.CurrentBid = ""
		l.Auction.BidCount = 0
		l.Auction.HighestBidder = nil
	}
	if l.Fractional != nil {
		l.Fractional.AvailableShares = l.Fractional.TotalShares
	}

	if err := im.listingRepo.Create(c, l); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"listing": *l,
		}).Error("failed to listingRepo.Create")
		return nil, err
	}

	im.emitter.Emit(c, event.TopicListingCreated, l)

	return l, nil
}

func validateListing(l *listing.Listing) error {
	if _, ok := listing.ToType(string(l.Type)); !ok {
		return domain.Validation("unknown listing type")
	}

	if !l.PriceDecimal().IsPositive() {
		return domain.Validation("price must be positive")
	}

	switch l.Type {
	case listing.TypeAuction:
		if l.Auction == nil || l.Fractional != nil {
			return domain.Validation("auction listing requires exactly the auction terms")
		}
		if !l.Auction.StartPriceDecimal().IsPositive() {
			return domain.Validation("auction start price must be positive")
		}
		if !l.Auction.EndTime.After(l.Auction.StartTime) {
			return domain.Validation("auction end time must be after start time")
		}
		if l.Auction.BidIncrementDecimal().IsNegative() {
			return domain.Validation("bid increment must not be negative")
		}
	case listing.TypeFractionalSale:
		if l.Fractional == nil || l.Auction != nil {
			return domain.Validation("fractional listing requires exactly the fractional terms")
		}
		f := l.Fractional
		if f.TotalShares <= 0 {
			return domain.Validation("total shares must be positive")
		}
		if f.MinPurchase < 1 {
			return domain.Validation("min purchase must be at least 1")
		}
		if f.MinPurchase > f.TotalShares {
			return domain.Validation("min purchase exceeds total shares")
		}
		if f.MaxPurchase != nil && *f.MaxPurchase < f.MinPurchase {
			return domain.Validation("max purchase below min purchase")
		}
		if !f.SharePriceDecimal().IsPositive() {
			return domain.Validation("share price must be positive")
		}
	default:
		if l.Auction != nil || l.Fractional != nil {
			return domain.Validation("listing type does not take auction or fractional terms")
		}
	}

	return nil
}

func (im *impl) CancelListing(c ctx.Ctx, id listing.Id, requester domain.Address) error {
	var cancelled *listing.Listing

	err := im.locks.WithLock(string(id), func() error {
		l, err := im.listingRepo.FindOne(c, id)
		if err != nil {
			return err
		}

		if !l.Seller.Equals(requester) {
			return domain.ErrUnauthorized
		}

		if l.Status != listing.StatusActive {
			return domain.ErrInvalidState
		}

		err = im.listingRepo.Update(c, id, listing.ListingPatchable{
			Status:    statusPtr(listing.StatusCancelled),
			UpdatedAt: ptr.Time(time.Now()),
		})
		if err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("failed to listingRepo.Update")
			return err
		}

		cancelled = l
		return nil
	})
	if err != nil {
		return err
	}

	// on-chain cancel is best effort, local state stays authoritative
	if err := im.executor.Cancel(c, cancelled); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Warn("failed to executor.Cancel")
	}

	im.emitter.Emit(c, event.TopicListingCancelled, cancelled)

	return nil
}

func (im *impl) GetListing(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	l, err := im.listingRepo.FindOne(c, id)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("failed to listingRepo.FindOne")
		}
		return nil, err
	}

	return l, nil
}

func (im *impl) ListListings(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	res, err := im.listingRepo.FindAll(c, opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("failed to listingRepo.FindAll")
		return nil, err
	}

	return res, nil
}

func statusPtr(s listing.Status) *listing.Status {
	return &s
}
