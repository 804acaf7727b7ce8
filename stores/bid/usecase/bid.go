package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/keylock"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/base/ptr"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/bid"
	"github.com/brickmark/goapi/domain/event"
	"github.com/brickmark/goapi/domain/listing"
)

const (
	// offers against non auction listings stay open this long
	offerLifetime = 7 * 24 * time.Hour
	// an auction closing within this window is extended by every accepted bid
	antiSnipeWindow = 5 * time.Minute
	// how far past now the extended auction end is pushed
	antiSnipeExtension = 10 * time.Minute
)

type BidUseCaseCfg struct {
	BidRepo     bid.Repo
	ListingRepo listing.Repo
	Emitter     event.Emitter
	Locks       *keylock.KeyLock
}

type impl struct {
	bidRepo     bid.Repo
	listingRepo listing.Repo
	emitter     event.Emitter
	locks       *keylock.KeyLock
}

func New(cfg *BidUseCaseCfg) bid.UseCase {
	return &impl{
		bidRepo:     cfg.BidRepo,
		listingRepo: cfg.ListingRepo,
		emitter:     cfg.Emitter,
		locks:       cfg.Locks,
	}
}

func (im *impl) PlaceBid(c ctx.Ctx, payload bid.PlaceBidPayload) (*bid.Bid, error) {
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		return nil, domain.Validation("amount is not a decimal")
	}

	var placed *bid.Bid

	err = im.locks.WithLock(string(payload.ListingId), func() error {
		l, err := im.listingRepo.FindOne(c, payload.ListingId)
		if err != nil {
			return err
		}

		if l.Status != listing.StatusActive {
			return domain.BidRejected("listing is not active")
		}

		if l.Seller.Equals(payload.Bidder) {
			return domain.BidRejected("seller can not bid on own listing")
		}

		switch l.Type {
		case listing.TypeAuction:
			placed, err = im.placeAuctionBid(c, l, payload, amount)
			return err
		case listing.TypeFixedPrice, listing.TypeBuyoutOffer:
			placed, err = im.placeOffer(c, l, payload, amount)
			return err
		default:
			return domain.BidRejected("listing does not accept bids")
		}
	})
	if err != nil {
		return nil, err
	}

	im.emitter.Emit(c, event.TopicBidPlaced, placed)

	return placed, nil
}

// placeAuctionBid runs the auction rules and applies the listing side effects.
// Caller holds the listing lock.
func (im *impl) placeAuctionBid(c ctx.Ctx, l *listing.Listing, payload bid.PlaceBidPayload, amount decimal.Decimal) (*bid.Bid, error) {
	now := time.Now()
	auction := l.Auction

	if now.Before(auction.StartTime) {
		return nil, domain.BidRejected("auction has not started")
	}

	if !now.Before(auction.EndTime) {
		return nil, domain.BidRejected("auction has ended")
	}

	if amount.LessThan(auction.StartPriceDecimal()) {
		return nil, domain.BidRejected("amount below start price")
	}

	if auction.BidCount > 0 {
		// accepted bids are strictly increasing even when the increment is zero
		if !amount.GreaterThan(auction.CurrentBidDecimal()) {
			return nil, domain.BidRejected("amount must exceed current bid")
		}
		floor := auction.CurrentBidDecimal().Add(auction.BidIncrementDecimal())
		if amount.LessThan(floor) {
			return nil, domain.BidRejected("amount below current bid plus increment")
		}
	}

	b := &bid.Bid{
		Id:        bid.Id(uuid.NewString()),
		ListingId: l.Id,
		Bidder:    payload.Bidder,
		Amount:    amount.String(),
		Currency:  payload.Currency,
		Status:    bid.StatusActive,
		CreatedAt: now,
	}

	if err := im.bidRepo.Create(c, b); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"bid": *b,
		}).Error("failed to bidRepo.Create")
		return nil, err
	}

	auction.CurrentBid = amount.String()
	auction.HighestBidder = payload.Bidder.ToLowerPtr()
	auction.BidCount++

	if auction.ExtendOnBid && auction.EndTime.Sub(now) < antiSnipeWindow {
		auction.EndTime = now.Add(antiSnipeExtension)
	}

	err := im.listingRepo.Update(c, l.Id, listing.ListingPatchable{
		Auction:   auction,
		UpdatedAt: ptr.Time(now),
	})
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  l.Id,
		}).Error("failed to listingRepo.Update")
		return nil, err
	}

	return b, nil
}

// placeOffer records an open offer against a fixed price or buyout listing.
// Caller holds the listing lock.
func (im *impl) placeOffer(c ctx.Ctx, l *listing.Listing, payload bid.PlaceBidPayload, amount decimal.Decimal) (*bid.Bid, error) {
	if !amount.IsPositive() {
		return nil, domain.BidRejected("amount must be positive")
	}

	now := time.Now()
	b := &bid.Bid{
		Id:        bid.Id(uuid.NewString()),
		ListingId: l.Id,
		Bidder:    payload.Bidder,
		Amount:    amount.String(),
		Currency:  payload.Currency,
		Status:    bid.StatusActive,
		CreatedAt: now,
		ExpiresAt: ptr.Time(now.Add(offerLifetime)),
	}

	if err := im.bidRepo.Create(c, b); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"bid": *b,
		}).Error("failed to bidRepo.Create")
		return nil, err
	}

	return b, nil
}

func (im *impl) WithdrawBid(c ctx.Ctx, id bid.Id, requester domain.Address) error {
	b, err := im.bidRepo.FindOne(c, id)
	if err != nil {
		return err
	}

	var withdrawn *bid.Bid

	err = im.locks.WithLock(string(b.ListingId), func() error {
		b, err := im.bidRepo.FindOne(c, id)
		if err != nil {
			return err
		}

		if !b.Bidder.Equals(requester) {
			return domain.ErrUnauthorized
		}

		if b.Status != bid.StatusActive {
			return domain.ErrInvalidState
		}

		l, err := im.listingRepo.FindOne(c, b.ListingId)
		if err != nil {
			return err
		}

		// the highest auction bid is binding until the auction resolves
		if l.Type == listing.TypeAuction && l.Auction.HighestBidder != nil &&
			l.Auction.HighestBidder.Equals(b.Bidder) && l.Auction.CurrentBid == b.Amount {
			return domain.ErrInvalidState
		}

		status := bid.StatusWithdrawn
		if err := im.bidRepo.Update(c, id, bid.BidPatchable{Status: &status}); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("failed to bidRepo.Update")
			return err
		}

		withdrawn = b
		return nil
	})
	if err != nil {
		return err
	}

	im.emitter.Emit(c, event.TopicBidWithdrawn, withdrawn)

	return nil
}

func (im *impl) ListBids(c ctx.Ctx, listingId listing.Id) ([]*bid.Bid, error) {
	res, err := im.bidRepo.FindAll(c, bid.WithListingId(listingId))
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("failed to bidRepo.FindAll")
		return nil, err
	}

	return res, nil
}
