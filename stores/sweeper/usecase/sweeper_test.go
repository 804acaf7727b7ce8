package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/keylock"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/bid"
	mockBid "github.com/brickmark/goapi/domain/bid/mocks"
	mockEvent "github.com/brickmark/goapi/domain/event/mocks"
	"github.com/brickmark/goapi/domain/listing"
	mockListing "github.com/brickmark/goapi/domain/listing/mocks"
	"github.com/brickmark/goapi/domain/trade"
	mockTrade "github.com/brickmark/goapi/domain/trade/mocks"
)

var mockCtx = ctx.Background()

type testsuite struct {
	suite.Suite
	mockListingRepo *mockListing.Repo
	mockBidRepo     *mockBid.Repo
	mockTradeUC     *mockTrade.UseCase
	mockEmitter     *mockEvent.Emitter
	subject         *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockListingRepo = &mockListing.Repo{}
	t.mockBidRepo = &mockBid.Repo{}
	t.mockTradeUC = &mockTrade.UseCase{}
	t.mockEmitter = &mockEvent.Emitter{}
	t.mockEmitter.On("Emit", mock.Anything, mock.Anything, mock.Anything)
	t.subject = New(&SweeperUseCaseCfg{
		ListingRepo: t.mockListingRepo,
		BidRepo:     t.mockBidRepo,
		TradeUC:     t.mockTradeUC,
		Emitter:     t.mockEmitter,
		Locks:       keylock.New(),
	}).(*impl)
}

func (t *testsuite) endedAuction(id listing.Id, reserve string) *listing.Listing {
	now := time.Now()
	return &listing.Listing{
		Id:     id,
		Seller: "0xseller",
		Type:   listing.TypeAuction,
		Status: listing.StatusActive,
		Price:  "100",
		Auction: &listing.Auction{
			StartPrice:   "100",
			ReservePrice: reserve,
			StartTime:    now.Add(-2 * time.Hour),
			EndTime:      now.Add(-time.Hour),
		},
	}
}

func (t *testsuite) expectEndedAuctions(ls ...*listing.Listing) {
	t.mockListingRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything, mock.Anything).Return(ls, nil).Once()
	t.mockListingRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything).Return([]*listing.Listing{}, nil).Once()
}

func (t *testsuite) TestFinalizesAuctionWithWinner() {
	l := t.endedAuction("listing1", "")
	t.expectEndedAuctions(l)
	t.mockBidRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything).Return([]*bid.Bid{
		{Id: "bid1", ListingId: "listing1", Bidder: "0xa", Amount: "100", Status: bid.StatusActive},
		{Id: "bid2", ListingId: "listing1", Bidder: "0xb", Amount: "120", Status: bid.StatusActive},
	}, nil)
	t.mockTradeUC.On("AcceptBid", mockCtx, listing.Id("listing1"), bid.Id("bid2"), domain.Address("0xseller")).
		Return(&trade.Trade{Id: "trade1", Status: trade.StatusCompleted}, nil)

	report, err := t.subject.ProcessExpirations(mockCtx)
	t.NoError(err)
	t.Equal(1, report.Scanned)
	t.Equal(1, report.Finalized)
	t.Equal(0, report.Expired)
	t.Equal(0, report.Failed)
}

func (t *testsuite) TestExpiresAuctionBelowReserve() {
	l := t.endedAuction("listing1", "500")
	t.expectEndedAuctions(l)
	t.mockBidRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything).Return([]*bid.Bid{
		{Id: "bid1", ListingId: "listing1", Bidder: "0xa", Amount: "120", Status: bid.StatusActive},
	}, nil)
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockListingRepo.On("Update", mockCtx, listing.Id("listing1"), mock.Anything).Return(nil)

	report, err := t.subject.ProcessExpirations(mockCtx)
	t.NoError(err)
	t.Equal(1, report.Expired)
	t.Equal(0, report.Finalized)
	t.mockTradeUC.AssertNotCalled(t.T(), "AcceptBid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestExpiresAuctionWithoutBids() {
	l := t.endedAuction("listing1", "")
	t.expectEndedAuctions(l)
	t.mockBidRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything).Return([]*bid.Bid{}, nil)
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockListingRepo.On("Update", mockCtx, listing.Id("listing1"), mock.Anything).Return(nil)

	report, err := t.subject.ProcessExpirations(mockCtx)
	t.NoError(err)
	t.Equal(1, report.Expired)
}

func (t *testsuite) TestExpiresStaleListings() {
	past := time.Now().Add(-time.Hour)
	stale := &listing.Listing{
		Id:        "listing2",
		Seller:    "0xseller",
		Type:      listing.TypeFixedPrice,
		Status:    listing.StatusActive,
		Price:     "100",
		ExpiresAt: &past,
	}

	t.mockListingRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything, mock.Anything).Return([]*listing.Listing{}, nil).Once()
	t.mockListingRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything).Return([]*listing.Listing{stale}, nil).Once()
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing2")).Return(stale, nil)
	t.mockListingRepo.On("Update", mockCtx, listing.Id("listing2"), mock.Anything).Return(nil)

	report, err := t.subject.ProcessExpirations(mockCtx)
	t.NoError(err)
	t.Equal(1, report.Scanned)
	t.Equal(1, report.Expired)
}

func (t *testsuite) TestFailuresAreSkipped() {
	bad := t.endedAuction("listing1", "")
	good := t.endedAuction("listing2", "")
	t.expectEndedAuctions(bad, good)

	t.mockBidRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything).Return([]*bid.Bid{
		{Id: "bid1", ListingId: bad.Id, Bidder: "0xa", Amount: "100", Status: bid.StatusActive},
	}, nil)
	t.mockTradeUC.On("AcceptBid", mockCtx, listing.Id("listing1"), mock.Anything, mock.Anything).
		Return(nil, errors.New("executor down"))
	t.mockTradeUC.On("AcceptBid", mockCtx, listing.Id("listing2"), mock.Anything, mock.Anything).
		Return(&trade.Trade{Id: "trade1"}, nil)

	report, err := t.subject.ProcessExpirations(mockCtx)
	t.NoError(err)
	t.Equal(2, report.Scanned)
	t.Equal(1, report.Failed)
	t.Equal(1, report.Finalized)
}

func (t *testsuite) TestSweepsManyListingsConcurrently() {
	ls := make([]*listing.Listing, 0, 20)
	for i := 0; i < 20; i++ {
		id := listing.Id("listing" + string(rune('a'+i)))
		l := t.endedAuction(id, "")
		ls = append(ls, l)
		t.mockListingRepo.On("FindOne", mockCtx, id).Return(l, nil)
		t.mockListingRepo.On("Update", mockCtx, id, mock.Anything).Return(nil)
	}
	t.expectEndedAuctions(ls...)
	t.mockBidRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything).Return([]*bid.Bid{}, nil)

	report, err := t.subject.ProcessExpirations(mockCtx)
	t.NoError(err)
	t.Equal(20, report.Scanned)
	t.Equal(20, report.Expired)
	t.Equal(0, report.Failed)
}

func (t *testsuite) TestIdempotentWhenAlreadyResolved() {
	l := t.endedAuction("listing1", "")
	t.expectEndedAuctions(l)
	t.mockBidRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything).Return([]*bid.Bid{}, nil)

	// resolved by another pass between the scan and the lock
	resolved := t.endedAuction("listing1", "")
	resolved.Status = listing.StatusExpired
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(resolved, nil)

	report, err := t.subject.ProcessExpirations(mockCtx)
	t.NoError(err)
	t.Equal(1, report.Expired)
	t.mockListingRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
	t.mockEmitter.AssertNotCalled(t.T(), "Emit", mockCtx, mock.Anything, mock.Anything)
}
