package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/keylock"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/base/ptr"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/bid"
	"github.com/brickmark/goapi/domain/event"
	"github.com/brickmark/goapi/domain/exchange"
	"github.com/brickmark/goapi/domain/listing"
	"github.com/brickmark/goapi/domain/trade"
)

type TradeUseCaseCfg struct {
	TradeRepo   trade.Repo
	ListingRepo listing.Repo
	BidRepo     bid.Repo
	Executor    exchange.Executor
	Emitter     event.Emitter
	Locks       *keylock.KeyLock
	// GasEstimate is the flat per trade gas fee in the trade currency
	GasEstimate decimal.Decimal
}

type impl struct {
	tradeRepo   trade.Repo
	listingRepo listing.Repo
	bidRepo     bid.Repo
	executor    exchange.Executor
	emitter     event.Emitter
	locks       *keylock.KeyLock
	gasEstimate decimal.Decimal
}

func New(cfg *TradeUseCaseCfg) trade.UseCase {
	return &impl{
		tradeRepo:   cfg.TradeRepo,
		listingRepo: cfg.ListingRepo,
		bidRepo:     cfg.BidRepo,
		executor:    cfg.Executor,
		emitter:     cfg.Emitter,
		locks:       cfg.Locks,
		gasEstimate: cfg.GasEstimate,
	}
}

// settlement carries one prepared trade through execution and the follow up
// listing bookkeeping. rollback undoes the listing (and bid) mutations when
// the executor fails, onSuccess runs the mutations that must only happen once
// the trade is final.
type settlement struct {
	t         *trade.Trade
	listingId listing.Id
	rollback  func(ctx.Ctx) error
	onSuccess func(ctx.Ctx) error
	sold      bool
}

func (im *impl) AcceptBid(c ctx.Ctx, listingId listing.Id, bidId bid.Id, requester domain.Address) (*trade.Trade, error) {
	var st *settlement

	err := im.locks.WithLock(string(listingId), func() error {
		l, err := im.listingRepo.FindOne(c, listingId)
		if err != nil {
			return err
		}

		b, err := im.bidRepo.FindOne(c, bidId)
		if err != nil {
			return err
		}

		if b.ListingId != listingId {
			return domain.Validation("bid does not belong to the listing")
		}

		if !l.Seller.Equals(requester) {
			return domain.ErrUnauthorized
		}

		if l.Status != listing.StatusActive || b.Status != bid.StatusActive {
			return domain.ErrInvalidState
		}

		now := time.Now()
		if b.ExpiresAt != nil && now.After(*b.ExpiresAt) {
			return domain.ErrInvalidState
		}

		if err := im.guardPendingTrade(c, listingId); err != nil {
			return err
		}

		accepted := bid.StatusAccepted
		if err := im.bidRepo.Update(c, bidId, bid.BidPatchable{Status: &accepted}); err != nil {
			return err
		}

		t := im.buildTrade(l, b.Bidder, b.AmountDecimal(), 1)
		t.BidId = &b.Id
		if err := im.tradeRepo.Create(c, t); err != nil {
			return err
		}

		if err := im.markSold(c, l, now); err != nil {
			return err
		}

		st = &settlement{
			t:         t,
			listingId: listingId,
			sold:      true,
			rollback: func(c ctx.Ctx) error {
				active := bid.StatusActive
				if err := im.bidRepo.Update(c, bidId, bid.BidPatchable{Status: &active}); err != nil {
					return err
				}
				return im.listingRepo.Update(c, listingId, listing.ListingPatchable{
					Status:    statusPtr(listing.StatusActive),
					UpdatedAt: ptr.Time(time.Now()),
				})
			},
			onSuccess: func(c ctx.Ctx) error {
				im.emitter.Emit(c, event.TopicBidAccepted, b)
				return im.rejectOpenBids(c, listingId, bidId)
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	im.emitter.Emit(c, event.TopicTradeCreated, st.t)

	return im.execute(c, st)
}

func (im *impl) ExecutePurchase(c ctx.Ctx, payload trade.PurchasePayload) (*trade.Trade, error) {
	var st *settlement

	err := im.locks.WithLock(string(payload.ListingId), func() error {
		l, err := im.listingRepo.FindOne(c, payload.ListingId)
		if err != nil {
			return err
		}

		if l.Status != listing.StatusActive {
			return domain.ErrInvalidState
		}

		if l.Seller.Equals(payload.Buyer) {
			return domain.Validation("buyer is the seller")
		}

		if err := im.guardPendingTrade(c, payload.ListingId); err != nil {
			return err
		}

		switch l.Type {
		case listing.TypeFixedPrice:
			st, err = im.prepareFixedPricePurchase(c, l, payload)
		case listing.TypeFractionalSale:
			st, err = im.prepareFractionalPurchase(c, l, payload)
		default:
			return domain.ErrInvalidState
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	im.emitter.Emit(c, event.TopicTradeCreated, st.t)

	return im.execute(c, st)
}

// caller holds the listing lock
func (im *impl) prepareFixedPricePurchase(c ctx.Ctx, l *listing.Listing, payload trade.PurchasePayload) (*settlement, error) {
	if payload.Quantity > 1 {
		return nil, domain.Validation("fixed price listings settle a single unit")
	}

	t := im.buildTrade(l, payload.Buyer, l.PriceDecimal(), 1)
	if err := im.tradeRepo.Create(c, t); err != nil {
		return nil, err
	}

	if err := im.markSold(c, l, time.Now()); err != nil {
		return nil, err
	}

	return &settlement{
		t:         t,
		listingId: l.Id,
		sold:      true,
		rollback: func(c ctx.Ctx) error {
			return im.listingRepo.Update(c, l.Id, listing.ListingPatchable{
				Status:    statusPtr(listing.StatusActive),
				UpdatedAt: ptr.Time(time.Now()),
			})
		},
	}, nil
}

// caller holds the listing lock
func (im *impl) prepareFractionalPurchase(c ctx.Ctx, l *listing.Listing, payload trade.PurchasePayload) (*settlement, error) {
	f := l.Fractional
	qty := payload.Quantity

	if qty < f.MinPurchase {
		return nil, domain.Validation("quantity below minimum purchase")
	}

	if f.MaxPurchase != nil && qty > *f.MaxPurchase {
		return nil, domain.Validation("quantity above maximum purchase")
	}

	if qty > f.AvailableShares {
		return nil, domain.Validation("quantity exceeds available shares")
	}

	t := im.buildTrade(l, payload.Buyer, f.SharePriceDecimal(), qty)
	if err := im.tradeRepo.Create(c, t); err != nil {
		return nil, err
	}

	now := time.Now()
	prev := *f
	updated := *f
	updated.AvailableShares -= qty

	patch := listing.ListingPatchable{
		Fractional: &updated,
		UpdatedAt:  ptr.Time(now),
	}
	sold := updated.AvailableShares == 0
	if sold {
		patch.Status = statusPtr(listing.StatusSold)
	}

	if err := im.listingRepo.Update(c, l.Id, patch); err != nil {
		return nil, err
	}
	l.Fractional = &updated
	if sold {
		l.Status = listing.StatusSold
	}

	return &settlement{
		t:         t,
		listingId: l.Id,
		sold:      sold,
		rollback: func(c ctx.Ctx) error {
			restore := listing.ListingPatchable{
				Fractional: &prev,
				UpdatedAt:  ptr.Time(time.Now()),
			}
			if sold {
				restore.Status = statusPtr(listing.StatusActive)
			}
			err := im.listingRepo.Update(c, l.Id, restore)
			if err == nil {
				l.Fractional = &prev
				if sold {
					l.Status = listing.StatusActive
				}
			}
			return err
		},
	}, nil
}

// buildTrade assembles a pending trade, fees deducted from seller proceeds
func (im *impl) buildTrade(l *listing.Listing, buyer domain.Address, price decimal.Decimal, quantity int64) *trade.Trade {
	now := time.Now()
	totalValue := price.Mul(decimal.NewFromInt(quantity))
	fees := trade.CalculateFees(totalValue, im.gasEstimate)

	return &trade.Trade{
		Id:          trade.Id(uuid.NewString()),
		ListingId:   l.Id,
		Asset:       l.Asset,
		Buyer:       buyer.ToLower(),
		Seller:      l.Seller,
		Price:       price.String(),
		Quantity:    quantity,
		TotalValue:  totalValue.String(),
		Fees:        fees,
		NetProceeds: trade.NetProceeds(totalValue, fees).String(),
		Currency:    l.Currency,
		Status:      trade.StatusPending,
		Settlement: trade.Settlement{
			ReleaseConditions: []trade.ReleaseCondition{
				{Kind: trade.ConditionPaymentConfirmed},
				{Kind: trade.ConditionOwnershipTransferred},
			},
			RequiredSignatures:  []domain.Address{buyer.ToLower(), l.Seller},
			CompletedSignatures: []domain.Address{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// guardPendingTrade refuses a second settlement while one is in flight.
// caller holds the listing lock.
func (im *impl) guardPendingTrade(c ctx.Ctx, listingId listing.Id) error {
	cnt, err := im.tradeRepo.CountPending(c, listingId)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (im *impl) markSold(c ctx.Ctx, l *listing.Listing, now time.Time) error {
	err := im.listingRepo.Update(c, l.Id, listing.ListingPatchable{
		Status:    statusPtr(listing.StatusSold),
		UpdatedAt: ptr.Time(now),
	})
	if err != nil {
		return err
	}
	l.Status = listing.StatusSold
	return nil
}

// rejectOpenBids turns down every still active bid except the accepted one.
// caller holds the listing lock.
func (im *impl) rejectOpenBids(c ctx.Ctx, listingId listing.Id, accepted bid.Id) error {
	open, err := im.bidRepo.FindAll(c, bid.WithListingId(listingId), bid.WithStatus(bid.StatusActive))
	if err != nil {
		return err
	}

	rejected := bid.StatusRejected
	for _, b := range open {
		if b.Id == accepted {
			continue
		}
		if err := im.bidRepo.Update(c, b.Id, bid.BidPatchable{Status: &rejected}); err != nil {
			c.WithFields(log.Fields{
				"err": err,
				"id":  b.Id,
			}).Error("failed to bidRepo.Update")
			return err
		}
	}
	return nil
}

// execute runs the on-chain settlement outside the listing lock and applies
// the outcome under it. The settlement transaction carries both parties'
// signed intents, so a successful execution completes the sign off.
func (im *impl) execute(c ctx.Ctx, st *settlement) (*trade.Trade, error) {
	txHash, execErr := im.executor.Execute(c, st.t)

	err := im.locks.WithLock(string(st.listingId), func() error {
		now := time.Now()

		if execErr != nil {
			c.WithFields(log.Fields{
				"err":     execErr,
				"tradeId": st.t.Id,
			}).Error("failed to executor.Execute")

			st.t.Status = trade.StatusFailed
			st.t.UpdatedAt = now
			if err := im.tradeRepo.Update(c, st.t.Id, trade.TradePatchable{
				Status:    tradeStatusPtr(trade.StatusFailed),
				UpdatedAt: ptr.Time(now),
			}); err != nil {
				return err
			}

			return st.rollback(c)
		}

		settlement := st.t.Settlement
		for i := range settlement.ReleaseConditions {
			settlement.ReleaseConditions[i].Met = true
			settlement.ReleaseConditions[i].MetAt = ptr.Time(now)
		}
		settlement.CompletedSignatures = append([]domain.Address{}, settlement.RequiredSignatures...)

		st.t.Status = trade.StatusCompleted
		st.t.TxHash = txHash
		st.t.Settlement = settlement
		st.t.UpdatedAt = now

		if err := im.tradeRepo.Update(c, st.t.Id, trade.TradePatchable{
			Status:     tradeStatusPtr(trade.StatusCompleted),
			TxHash:     &txHash,
			Settlement: &settlement,
			UpdatedAt:  ptr.Time(now),
		}); err != nil {
			return err
		}

		if st.onSuccess != nil {
			return st.onSuccess(c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if execErr != nil {
		im.emitter.Emit(c, event.TopicTradeFailed, st.t)
		return st.t, xerrors.Errorf("settlement execution: %w", domain.ErrExternalExecution)
	}

	im.emitter.Emit(c, event.TopicTradeCompleted, st.t)
	if st.sold {
		im.emitter.Emit(c, event.TopicListingSold, st.t)
	}

	return st.t, nil
}

func (im *impl) SignSettlement(c ctx.Ctx, id trade.Id, signer domain.Address) (*trade.Trade, error) {
	t, err := im.tradeRepo.FindOne(c, id)
	if err != nil {
		return nil, err
	}

	if !t.Settlement.Requires(signer) {
		return nil, domain.ErrUnauthorized
	}

	if t.Settlement.HasSigned(signer) {
		return t, nil
	}

	now := time.Now()
	settlement := t.Settlement
	settlement.CompletedSignatures = append(settlement.CompletedSignatures, signer.ToLower())

	err = im.tradeRepo.Update(c, id, trade.TradePatchable{
		Settlement: &settlement,
		UpdatedAt:  ptr.Time(now),
	})
	if err != nil {
		return nil, err
	}

	t.Settlement = settlement
	t.UpdatedAt = now
	return t, nil
}

func (im *impl) DisputeTrade(c ctx.Ctx, id trade.Id, party domain.Address, reason string) (*trade.Trade, error) {
	t, err := im.tradeRepo.FindOne(c, id)
	if err != nil {
		return nil, err
	}

	if !t.Buyer.Equals(party) && !t.Seller.Equals(party) {
		return nil, domain.ErrUnauthorized
	}

	if t.Status != trade.StatusCompleted && t.Status != trade.StatusFailed {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	dispute := trade.Dispute{
		Party:     party.ToLower(),
		Reason:    reason,
		CreatedAt: now,
	}

	if err := im.tradeRepo.AppendDispute(c, id, dispute); err != nil {
		return nil, err
	}

	err = im.tradeRepo.Update(c, id, trade.TradePatchable{
		Status:    tradeStatusPtr(trade.StatusDisputed),
		UpdatedAt: ptr.Time(now),
	})
	if err != nil {
		return nil, err
	}

	t.Status = trade.StatusDisputed
	t.Disputes = append(t.Disputes, dispute)
	t.UpdatedAt = now

	im.emitter.Emit(c, event.TopicTradeDisputed, t)

	return t, nil
}

func (im *impl) GetTrade(c ctx.Ctx, id trade.Id) (*trade.Trade, error) {
	t, err := im.tradeRepo.FindOne(c, id)
	if err != nil {
		if err != domain.ErrNotFound {
			c.WithFields(log.Fields{
				"err": err,
				"id":  id,
			}).Error("failed to tradeRepo.FindOne")
		}
		return nil, err
	}

	return t, nil
}

func (im *impl) ListTrades(c ctx.Ctx, opts ...trade.FindAllOptionsFunc) ([]*trade.Trade, error) {
	res, err := im.tradeRepo.FindAll(c, opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("failed to tradeRepo.FindAll")
		return nil, err
	}

	return res, nil
}

func statusPtr(s listing.Status) *listing.Status {
	return &s
}

func tradeStatusPtr(s trade.Status) *trade.Status {
	return &s
}
