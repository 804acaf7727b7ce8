package usecase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/keylock"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/bid"
	mockBid "github.com/brickmark/goapi/domain/bid/mocks"
	mockEvent "github.com/brickmark/goapi/domain/event/mocks"
	mockExchange "github.com/brickmark/goapi/domain/exchange/mocks"
	"github.com/brickmark/goapi/domain/listing"
	mockListing "github.com/brickmark/goapi/domain/listing/mocks"
	"github.com/brickmark/goapi/domain/trade"
	mockTrade "github.com/brickmark/goapi/domain/trade/mocks"
)

var mockCtx = ctx.Background()

type testsuite struct {
	suite.Suite
	mockTradeRepo   *mockTrade.Repo
	mockListingRepo *mockListing.Repo
	mockBidRepo     *mockBid.Repo
	mockExecutor    *mockExchange.Executor
	mockEmitter     *mockEvent.Emitter
	subject         *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockTradeRepo = &mockTrade.Repo{}
	t.mockListingRepo = &mockListing.Repo{}
	t.mockBidRepo = &mockBid.Repo{}
	t.mockExecutor = &mockExchange.Executor{}
	t.mockEmitter = &mockEvent.Emitter{}
	t.mockEmitter.On("Emit", mock.Anything, mock.Anything, mock.Anything)
	t.subject = &impl{
		tradeRepo:   t.mockTradeRepo,
		listingRepo: t.mockListingRepo,
		bidRepo:     t.mockBidRepo,
		executor:    t.mockExecutor,
		emitter:     t.mockEmitter,
		locks:       keylock.New(),
		gasEstimate: decimal.RequireFromString("0.002"),
	}
}

func (t *testsuite) fixedPriceListing() *listing.Listing {
	return &listing.Listing{
		Id:       "listing1",
		Seller:   "0xseller",
		Asset:    domain.AssetId{ChainId: 1, Contract: "0xdeed", TokenId: "42"},
		Type:     listing.TypeFixedPrice,
		Status:   listing.StatusActive,
		Price:    "1000",
		Currency: "0xusdc",
	}
}

func (t *testsuite) fractionalListing() *listing.Listing {
	l := t.fixedPriceListing()
	l.Type = listing.TypeFractionalSale
	l.Price = "10"
	l.Fractional = &listing.Fractional{
		TotalShares:     1000,
		AvailableShares: 1000,
		MinPurchase:     5,
		SharePrice:      "10",
	}
	return l
}

func (t *testsuite) expectHappyPath() {
	t.mockTradeRepo.On("CountPending", mockCtx, listing.Id("listing1")).Return(0, nil)
	t.mockTradeRepo.On("Create", mockCtx, mock.Anything).Return(nil)
	t.mockTradeRepo.On("Update", mockCtx, mock.Anything, mock.Anything).Return(nil)
	t.mockListingRepo.On("Update", mockCtx, listing.Id("listing1"), mock.Anything).Return(nil)
}

func (t *testsuite) TestFixedPricePurchase() {
	l := t.fixedPriceListing()
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.expectHappyPath()
	t.mockExecutor.On("Execute", mockCtx, mock.Anything).Return("0xhash", nil)

	res, err := t.subject.ExecutePurchase(mockCtx, trade.PurchasePayload{
		ListingId: "listing1",
		Buyer:     "0xbuyer",
		Quantity:  1,
	})
	t.NoError(err)

	t.Equal(trade.StatusCompleted, res.Status)
	t.Equal("0xhash", res.TxHash)
	t.Equal("1000", res.TotalValue)
	t.Equal("25", res.Fees.Platform)
	t.Equal("10", res.Fees.Royalty)
	t.Equal("35.002", res.Fees.Total)
	t.Equal("964.998", res.NetProceeds)
	t.Equal(listing.StatusSold, l.Status)

	// execution carries both signed intents, sign off is complete
	t.True(res.Settlement.Signed())
	for _, cond := range res.Settlement.ReleaseConditions {
		t.True(cond.Met)
	}
}

func (t *testsuite) TestExecutorFailureRollsBack() {
	l := t.fixedPriceListing()
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.expectHappyPath()
	t.mockExecutor.On("Execute", mockCtx, mock.Anything).Return("", errors.New("revert"))

	res, err := t.subject.ExecutePurchase(mockCtx, trade.PurchasePayload{
		ListingId: "listing1",
		Buyer:     "0xbuyer",
		Quantity:  1,
	})
	t.True(errors.Is(err, domain.ErrExternalExecution))
	t.Equal(trade.StatusFailed, res.Status)

	// rollback restores the listing to active
	t.mockListingRepo.AssertCalled(t.T(), "Update", mockCtx, listing.Id("listing1"), mock.MatchedBy(func(p listing.ListingPatchable) bool {
		return p.Status != nil && *p.Status == listing.StatusActive
	}))
}

func (t *testsuite) TestFractionalPurchase() {
	l := t.fractionalListing()
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.expectHappyPath()
	t.mockExecutor.On("Execute", mockCtx, mock.Anything).Return("0xhash", nil)

	res, err := t.subject.ExecutePurchase(mockCtx, trade.PurchasePayload{
		ListingId: "listing1",
		Buyer:     "0xbuyer",
		Quantity:  10,
	})
	t.NoError(err)
	t.Equal(int64(10), res.Quantity)
	t.Equal("100", res.TotalValue)
	t.Equal(int64(990), l.Fractional.AvailableShares)
	t.Equal(listing.StatusActive, l.Status)
}

func (t *testsuite) TestFractionalPurchaseBelowMinimum() {
	l := t.fractionalListing()
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockTradeRepo.On("CountPending", mockCtx, listing.Id("listing1")).Return(0, nil)

	_, err := t.subject.ExecutePurchase(mockCtx, trade.PurchasePayload{
		ListingId: "listing1",
		Buyer:     "0xbuyer",
		Quantity:  3,
	})
	t.True(errors.Is(err, domain.ErrBadParamInput))
}

func (t *testsuite) TestFractionalPurchaseExceedsAvailable() {
	l := t.fractionalListing()
	l.Fractional.AvailableShares = 7
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockTradeRepo.On("CountPending", mockCtx, listing.Id("listing1")).Return(0, nil)

	_, err := t.subject.ExecutePurchase(mockCtx, trade.PurchasePayload{
		ListingId: "listing1",
		Buyer:     "0xbuyer",
		Quantity:  10,
	})
	t.True(errors.Is(err, domain.ErrBadParamInput))
}

func (t *testsuite) TestFractionalPurchaseSellsOut() {
	l := t.fractionalListing()
	l.Fractional.AvailableShares = 10
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.expectHappyPath()
	t.mockExecutor.On("Execute", mockCtx, mock.Anything).Return("0xhash", nil)

	_, err := t.subject.ExecutePurchase(mockCtx, trade.PurchasePayload{
		ListingId: "listing1",
		Buyer:     "0xbuyer",
		Quantity:  10,
	})
	t.NoError(err)
	t.Equal(int64(0), l.Fractional.AvailableShares)
	t.Equal(listing.StatusSold, l.Status)
}

func (t *testsuite) TestPendingTradeBlocksSettlement() {
	l := t.fixedPriceListing()
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockTradeRepo.On("CountPending", mockCtx, listing.Id("listing1")).Return(1, nil)

	_, err := t.subject.ExecutePurchase(mockCtx, trade.PurchasePayload{
		ListingId: "listing1",
		Buyer:     "0xbuyer",
		Quantity:  1,
	})
	t.Equal(domain.ErrInvalidState, err)
	t.mockTradeRepo.AssertNotCalled(t.T(), "Create", mock.Anything, mock.Anything)
}

func (t *testsuite) TestAcceptBid() {
	l := t.fixedPriceListing()
	b := &bid.Bid{
		Id:        "bid1",
		ListingId: "listing1",
		Bidder:    "0xbuyer",
		Amount:    "900",
		Status:    bid.StatusActive,
	}
	other := &bid.Bid{
		Id:        "bid2",
		ListingId: "listing1",
		Bidder:    "0xother",
		Amount:    "800",
		Status:    bid.StatusActive,
	}

	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockBidRepo.On("FindOne", mockCtx, bid.Id("bid1")).Return(b, nil)
	t.mockBidRepo.On("Update", mockCtx, mock.Anything, mock.Anything).Return(nil)
	t.mockBidRepo.On("FindAll", mockCtx, mock.Anything, mock.Anything).Return([]*bid.Bid{b, other}, nil)
	t.expectHappyPath()
	t.mockExecutor.On("Execute", mockCtx, mock.Anything).Return("0xhash", nil)

	res, err := t.subject.AcceptBid(mockCtx, "listing1", "bid1", "0xseller")
	t.NoError(err)
	t.Equal(trade.StatusCompleted, res.Status)
	t.Equal("900", res.TotalValue)
	t.Equal(&b.Id, res.BidId)

	// losing bids get rejected once the trade is final
	t.mockBidRepo.AssertCalled(t.T(), "Update", mockCtx, bid.Id("bid2"), mock.MatchedBy(func(p bid.BidPatchable) bool {
		return p.Status != nil && *p.Status == bid.StatusRejected
	}))
}

func (t *testsuite) TestAcceptBidNotSeller() {
	l := t.fixedPriceListing()
	b := &bid.Bid{Id: "bid1", ListingId: "listing1", Bidder: "0xbuyer", Amount: "900", Status: bid.StatusActive}

	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockBidRepo.On("FindOne", mockCtx, bid.Id("bid1")).Return(b, nil)

	_, err := t.subject.AcceptBid(mockCtx, "listing1", "bid1", "0xstranger")
	t.Equal(domain.ErrUnauthorized, err)
}

func (t *testsuite) TestAcceptBidFailureRestoresBid() {
	l := t.fixedPriceListing()
	b := &bid.Bid{Id: "bid1", ListingId: "listing1", Bidder: "0xbuyer", Amount: "900", Status: bid.StatusActive}

	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockBidRepo.On("FindOne", mockCtx, bid.Id("bid1")).Return(b, nil)
	t.mockBidRepo.On("Update", mockCtx, mock.Anything, mock.Anything).Return(nil)
	t.expectHappyPath()
	t.mockExecutor.On("Execute", mockCtx, mock.Anything).Return("", errors.New("revert"))

	res, err := t.subject.AcceptBid(mockCtx, "listing1", "bid1", "0xseller")
	t.True(errors.Is(err, domain.ErrExternalExecution))
	t.Equal(trade.StatusFailed, res.Status)

	t.mockBidRepo.AssertCalled(t.T(), "Update", mockCtx, bid.Id("bid1"), mock.MatchedBy(func(p bid.BidPatchable) bool {
		return p.Status != nil && *p.Status == bid.StatusActive
	}))
	t.mockBidRepo.AssertNotCalled(t.T(), "FindAll", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) pendingTrade() *trade.Trade {
	return &trade.Trade{
		Id:        "trade1",
		ListingId: "listing1",
		Buyer:     "0xbuyer",
		Seller:    "0xseller",
		Status:    trade.StatusPending,
		Settlement: trade.Settlement{
			RequiredSignatures:  []domain.Address{"0xbuyer", "0xseller"},
			CompletedSignatures: []domain.Address{},
		},
	}
}

func (t *testsuite) TestSignSettlement() {
	tr := t.pendingTrade()
	t.mockTradeRepo.On("FindOne", mockCtx, trade.Id("trade1")).Return(tr, nil)
	t.mockTradeRepo.On("Update", mockCtx, trade.Id("trade1"), mock.Anything).Return(nil)

	res, err := t.subject.SignSettlement(mockCtx, "trade1", "0xBuyer")
	t.NoError(err)
	t.True(res.Settlement.HasSigned("0xbuyer"))
	t.False(res.Settlement.Signed())

	// second signature from the same party is a no-op
	res, err = t.subject.SignSettlement(mockCtx, "trade1", "0xbuyer")
	t.NoError(err)
	t.Len(res.Settlement.CompletedSignatures, 1)
}

func (t *testsuite) TestSignSettlementNotAParty() {
	tr := t.pendingTrade()
	t.mockTradeRepo.On("FindOne", mockCtx, trade.Id("trade1")).Return(tr, nil)

	_, err := t.subject.SignSettlement(mockCtx, "trade1", "0xstranger")
	t.Equal(domain.ErrUnauthorized, err)
}

func (t *testsuite) TestDisputeTrade() {
	tr := t.pendingTrade()
	tr.Status = trade.StatusCompleted
	t.mockTradeRepo.On("FindOne", mockCtx, trade.Id("trade1")).Return(tr, nil)
	t.mockTradeRepo.On("AppendDispute", mockCtx, trade.Id("trade1"), mock.Anything).Return(nil)
	t.mockTradeRepo.On("Update", mockCtx, trade.Id("trade1"), mock.Anything).Return(nil)

	res, err := t.subject.DisputeTrade(mockCtx, "trade1", "0xbuyer", "deed transfer never landed")
	t.NoError(err)
	t.Equal(trade.StatusDisputed, res.Status)
	t.Len(res.Disputes, 1)
	t.Equal("deed transfer never landed", res.Disputes[0].Reason)
}

func (t *testsuite) TestDisputePendingTrade() {
	tr := t.pendingTrade()
	t.mockTradeRepo.On("FindOne", mockCtx, trade.Id("trade1")).Return(tr, nil)

	_, err := t.subject.DisputeTrade(mockCtx, "trade1", "0xbuyer", "too early")
	t.Equal(domain.ErrInvalidState, err)
}

func (t *testsuite) TestDisputeByOutsider() {
	tr := t.pendingTrade()
	tr.Status = trade.StatusFailed
	t.mockTradeRepo.On("FindOne", mockCtx, trade.Id("trade1")).Return(tr, nil)

	_, err := t.subject.DisputeTrade(mockCtx, "trade1", "0xstranger", "not involved")
	t.Equal(domain.ErrUnauthorized, err)
}
