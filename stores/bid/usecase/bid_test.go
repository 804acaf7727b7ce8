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
	"github.com/brickmark/goapi/domain/event"
	mockEvent "github.com/brickmark/goapi/domain/event/mocks"
	"github.com/brickmark/goapi/domain/listing"
	mockListing "github.com/brickmark/goapi/domain/listing/mocks"
)

var mockCtx = ctx.Background()

type testsuite struct {
	suite.Suite
	mockBidRepo     *mockBid.Repo
	mockListingRepo *mockListing.Repo
	mockEmitter     *mockEvent.Emitter
	subject         *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockBidRepo = &mockBid.Repo{}
	t.mockListingRepo = &mockListing.Repo{}
	t.mockEmitter = &mockEvent.Emitter{}
	t.subject = &impl{
		bidRepo:     t.mockBidRepo,
		listingRepo: t.mockListingRepo,
		emitter:     t.mockEmitter,
		locks:       keylock.New(),
	}
}

func (t *testsuite) auctionListing() *listing.Listing {
	now := time.Now()
	return &listing.Listing{
		Id:     "listing1",
		Seller: "0xseller",
		Type:   listing.TypeAuction,
		Status: listing.StatusActive,
		Price:  "100",
		Auction: &listing.Auction{
			StartPrice:   "100",
			BidIncrement: "10",
			StartTime:    now.Add(-time.Hour),
			EndTime:      now.Add(time.Hour),
		},
	}
}

func (t *testsuite) payload(amount string) bid.PlaceBidPayload {
	return bid.PlaceBidPayload{
		ListingId: "listing1",
		Bidder:    "0xbidder",
		Amount:    amount,
		Currency:  "0xusdc",
	}
}

func (t *testsuite) expectAccepted() {
	t.mockBidRepo.On("Create", mockCtx, mock.Anything).Return(nil)
	t.mockListingRepo.On("Update", mockCtx, listing.Id("listing1"), mock.Anything).Return(nil)
	t.mockEmitter.On("Emit", mockCtx, event.TopicBidPlaced, mock.Anything)
}

func (t *testsuite) TestAuctionBidRules() {
	l := t.auctionListing()
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.expectAccepted()

	// below start price
	_, err := t.subject.PlaceBid(mockCtx, t.payload("90"))
	t.True(errors.Is(err, domain.ErrBidRejected))

	// first valid bid at start price
	b, err := t.subject.PlaceBid(mockCtx, t.payload("100"))
	t.NoError(err)
	t.Equal("100", b.Amount)
	t.Equal("100", l.Auction.CurrentBid)

	// below current bid plus increment
	_, err = t.subject.PlaceBid(mockCtx, t.payload("105"))
	t.True(errors.Is(err, domain.ErrBidRejected))

	// meets the increment floor
	b, err = t.subject.PlaceBid(mockCtx, t.payload("110"))
	t.NoError(err)
	t.Equal("110", b.Amount)
	t.Equal("110", l.Auction.CurrentBid)
	t.Equal(2, l.Auction.BidCount)
}

func (t *testsuite) TestZeroIncrementStillStrictlyIncreasing() {
	l := t.auctionListing()
	l.Auction.BidIncrement = "0"
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.expectAccepted()

	b, err := t.subject.PlaceBid(mockCtx, t.payload("100"))
	t.NoError(err)
	t.Equal("100", b.Amount)

	// matching the current bid is not enough
	_, err = t.subject.PlaceBid(mockCtx, t.payload("100"))
	t.True(errors.Is(err, domain.ErrBidRejected))
	t.Equal("100", l.Auction.CurrentBid)
	t.Equal(1, l.Auction.BidCount)

	b, err = t.subject.PlaceBid(mockCtx, t.payload("100.01"))
	t.NoError(err)
	t.Equal("100.01", b.Amount)
	t.Equal("100.01", l.Auction.CurrentBid)
	t.Equal(2, l.Auction.BidCount)
}

func (t *testsuite) TestSellerCannotBid() {
	l := t.auctionListing()
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)

	payload := t.payload("100")
	payload.Bidder = "0xSeller"
	_, err := t.subject.PlaceBid(mockCtx, payload)
	t.True(errors.Is(err, domain.ErrBidRejected))
}

func (t *testsuite) TestAuctionNotStarted() {
	l := t.auctionListing()
	l.Auction.StartTime = time.Now().Add(time.Hour)
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)

	_, err := t.subject.PlaceBid(mockCtx, t.payload("100"))
	t.True(errors.Is(err, domain.ErrBidRejected))
}

func (t *testsuite) TestAuctionEnded() {
	l := t.auctionListing()
	l.Auction.EndTime = time.Now().Add(-time.Minute)
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)

	_, err := t.subject.PlaceBid(mockCtx, t.payload("100"))
	t.True(errors.Is(err, domain.ErrBidRejected))
}

func (t *testsuite) TestInactiveListingRejectsBids() {
	l := t.auctionListing()
	l.Status = listing.StatusCancelled
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)

	_, err := t.subject.PlaceBid(mockCtx, t.payload("100"))
	t.True(errors.Is(err, domain.ErrBidRejected))
}

func (t *testsuite) TestAntiSnipeExtension() {
	l := t.auctionListing()
	l.Auction.ExtendOnBid = true
	l.Auction.EndTime = time.Now().Add(2 * time.Minute)
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.expectAccepted()

	before := time.Now()
	_, err := t.subject.PlaceBid(mockCtx, t.payload("100"))
	t.NoError(err)

	// end time pushed out past now plus the extension, minus scheduling slack
	t.True(l.Auction.EndTime.After(before.Add(9 * time.Minute)))
}

func (t *testsuite) TestNoExtensionOutsideWindow() {
	l := t.auctionListing()
	l.Auction.ExtendOnBid = true
	end := time.Now().Add(time.Hour)
	l.Auction.EndTime = end
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.expectAccepted()

	_, err := t.subject.PlaceBid(mockCtx, t.payload("100"))
	t.NoError(err)
	t.Equal(end, l.Auction.EndTime)
}

func (t *testsuite) TestOfferOnFixedPriceListing() {
	l := t.auctionListing()
	l.Type = listing.TypeFixedPrice
	l.Auction = nil
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockBidRepo.On("Create", mockCtx, mock.Anything).Return(nil)
	t.mockEmitter.On("Emit", mockCtx, event.TopicBidPlaced, mock.Anything)

	b, err := t.subject.PlaceBid(mockCtx, t.payload("80"))
	t.NoError(err)
	t.NotNil(b.ExpiresAt)

	_, err = t.subject.PlaceBid(mockCtx, t.payload("0"))
	t.True(errors.Is(err, domain.ErrBidRejected))

	// offers never touch the listing
	t.mockListingRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestWithdrawBid() {
	l := t.auctionListing()
	l.Auction.CurrentBid = "120"
	l.Auction.HighestBidder = ptrAddress("0xother")
	b := &bid.Bid{
		Id:        "bid1",
		ListingId: "listing1",
		Bidder:    "0xbidder",
		Amount:    "100",
		Status:    bid.StatusActive,
	}

	t.mockBidRepo.On("FindOne", mockCtx, bid.Id("bid1")).Return(b, nil)
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockBidRepo.On("Update", mockCtx, bid.Id("bid1"), mock.Anything).Return(nil)
	t.mockEmitter.On("Emit", mockCtx, event.TopicBidWithdrawn, mock.Anything)

	t.NoError(t.subject.WithdrawBid(mockCtx, "bid1", "0xbidder"))
}

func (t *testsuite) TestWithdrawHighestBidRejected() {
	l := t.auctionListing()
	l.Auction.CurrentBid = "100"
	l.Auction.HighestBidder = ptrAddress("0xbidder")
	b := &bid.Bid{
		Id:        "bid1",
		ListingId: "listing1",
		Bidder:    "0xbidder",
		Amount:    "100",
		Status:    bid.StatusActive,
	}

	t.mockBidRepo.On("FindOne", mockCtx, bid.Id("bid1")).Return(b, nil)
	t.mockListingRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)

	err := t.subject.WithdrawBid(mockCtx, "bid1", "0xbidder")
	t.Equal(domain.ErrInvalidState, err)
}

func (t *testsuite) TestWithdrawSomeoneElsesBid() {
	b := &bid.Bid{
		Id:        "bid1",
		ListingId: "listing1",
		Bidder:    "0xbidder",
		Amount:    "100",
		Status:    bid.StatusActive,
	}

	t.mockBidRepo.On("FindOne", mockCtx, bid.Id("bid1")).Return(b, nil)

	err := t.subject.WithdrawBid(mockCtx, "bid1", "0xstranger")
	t.Equal(domain.ErrUnauthorized, err)
}

func ptrAddress(a domain.Address) *domain.Address {
	return &a
}
