package usecase

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/viney-shih/goroutines"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/keylock"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/base/ptr"
	"github.com/brickmark/goapi/domain/bid"
	"github.com/brickmark/goapi/domain/event"
	"github.com/brickmark/goapi/domain/listing"
	"github.com/brickmark/goapi/domain/trade"
)

const (
	// listings are independent, each finalization still serializes on its
	// own listing lock
	sweepWorkers     = 8
	sweepQueueLength = 256
)

type SweeperUseCaseCfg struct {
	ListingRepo listing.Repo
	BidRepo     bid.Repo
	TradeUC     trade.UseCase
	Emitter     event.Emitter
	Locks       *keylock.KeyLock
}

type impl struct {
	listingRepo listing.Repo
	bidRepo     bid.Repo
	tradeUC     trade.UseCase
	emitter     event.Emitter
	locks       *keylock.KeyLock
	workerPool  *goroutines.Pool
}

func New(cfg *SweeperUseCaseCfg) listing.Sweeper {
	return &impl{
		listingRepo: cfg.ListingRepo,
		bidRepo:     cfg.BidRepo,
		tradeUC:     cfg.TradeUC,
		emitter:     cfg.Emitter,
		locks:       cfg.Locks,
		workerPool:  goroutines.NewPool(sweepWorkers, goroutines.WithTaskQueueLength(sweepQueueLength)),
	}
}

// ProcessExpirations finalizes ended auctions and expires stale listings,
// fanning the per listing work out over a bounded worker pool. A pass is
// idempotent, per listing failures are logged and skipped so one bad listing
// can not wedge the sweep.
func (im *impl) ProcessExpirations(c ctx.Ctx) (*listing.SweepReport, error) {
	now := time.Now()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report = &listing.SweepReport{}
	)
	bump := func(update func(r *listing.SweepReport)) {
		mu.Lock()
		defer mu.Unlock()
		update(report)
	}
	schedule := func(task func()) {
		wg.Add(1)
		if err := im.workerPool.Schedule(func() {
			defer wg.Done()
			task()
		}); err != nil {
			wg.Done()
			bump(func(r *listing.SweepReport) { r.Failed++ })
			c.WithField("err", err).Error("failed to workerPool.Schedule")
		}
	}

	ended, err := im.listingRepo.FindAll(c,
		listing.WithStatus(listing.StatusActive),
		listing.WithType(listing.TypeAuction),
		listing.WithAuctionEndedAt(now),
	)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("failed to listingRepo.FindAll")
		return nil, err
	}

	for _, l := range ended {
		l := l
		bump(func(r *listing.SweepReport) { r.Scanned++ })
		schedule(func() {
			finalized, err := im.finalizeAuction(c, l)
			if err != nil {
				bump(func(r *listing.SweepReport) { r.Failed++ })
				c.WithFields(log.Fields{
					"err": err,
					"id":  l.Id,
				}).Error("failed to finalizeAuction")
				return
			}
			if finalized {
				bump(func(r *listing.SweepReport) { r.Finalized++ })
			} else {
				bump(func(r *listing.SweepReport) { r.Expired++ })
			}
		})
	}

	stale, err := im.listingRepo.FindAll(c,
		listing.WithStatus(listing.StatusActive),
		listing.WithExpiredAt(now),
	)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("failed to listingRepo.FindAll")
		wg.Wait()
		return report, err
	}

	for _, l := range stale {
		if l.Type == listing.TypeAuction {
			// auctions end on their auction clock, not on expiresAt
			continue
		}
		l := l
		bump(func(r *listing.SweepReport) { r.Scanned++ })
		schedule(func() {
			if err := im.expire(c, l.Id); err != nil {
				bump(func(r *listing.SweepReport) { r.Failed++ })
				c.WithFields(log.Fields{
					"err": err,
					"id":  l.Id,
				}).Error("failed to expire")
				return
			}
			bump(func(r *listing.SweepReport) { r.Expired++ })
		})
	}

	wg.Wait()
	return report, nil
}

// finalizeAuction settles an ended auction with its winning bid, or expires
// it when no bid clears the reserve. Returns true when a trade was settled.
func (im *impl) finalizeAuction(c ctx.Ctx, l *listing.Listing) (bool, error) {
	winner, err := im.winningBid(c, l)
	if err != nil {
		return false, err
	}

	if winner == nil {
		return false, im.expire(c, l.Id)
	}

	if _, err := im.tradeUC.AcceptBid(c, l.Id, winner.Id, l.Seller); err != nil {
		return false, err
	}
	return true, nil
}

// winningBid picks the highest still active bid meeting the reserve. A nil
// result with nil error means the auction goes unsold.
func (im *impl) winningBid(c ctx.Ctx, l *listing.Listing) (*bid.Bid, error) {
	bids, err := im.bidRepo.FindAll(c,
		bid.WithListingId(l.Id),
		bid.WithStatus(bid.StatusActive),
	)
	if err != nil {
		return nil, err
	}

	var (
		best       *bid.Bid
		bestAmount decimal.Decimal
	)
	for _, b := range bids {
		amount := b.AmountDecimal()
		if best == nil || amount.GreaterThan(bestAmount) {
			best = b
			bestAmount = amount
		}
	}

	if best == nil || bestAmount.LessThan(l.Auction.ReservePriceDecimal()) {
		return nil, nil
	}
	return best, nil
}

func (im *impl) expire(c ctx.Ctx, id listing.Id) error {
	var expired *listing.Listing

	err := im.locks.WithLock(string(id), func() error {
		l, err := im.listingRepo.FindOne(c, id)
		if err != nil {
			return err
		}

		// another path may have resolved the listing since the scan
		if l.Status != listing.StatusActive {
			return nil
		}

		err = im.listingRepo.Update(c, id, listing.ListingPatchable{
			Status:    statusPtr(listing.StatusExpired),
			UpdatedAt: ptr.Time(time.Now()),
		})
		if err != nil {
			return err
		}

		expired = l
		return nil
	})
	if err != nil {
		return err
	}

	if expired != nil {
		im.emitter.Emit(c, event.TopicListingExpired, expired)
	}

	return nil
}

func statusPtr(s listing.Status) *listing.Status {
	return &s
}
