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
	"github.com/brickmark/goapi/domain/event"
	mockEvent "github.com/brickmark/goapi/domain/event/mocks"
	mockExchange "github.com/brickmark/goapi/domain/exchange/mocks"
	"github.com/brickmark/goapi/domain/listing"
	mockListing "github.com/brickmark/goapi/domain/listing/mocks"
)

var mockCtx = ctx.Background()

type testsuite struct {
	suite.Suite
	mockRepo     *mockListing.Repo
	mockVerifier *mockExchange.OwnershipVerifier
	mockExecutor *mockExchange.Executor
	mockEmitter  *mockEvent.Emitter
	subject      *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockRepo = &mockListing.Repo{}
	t.mockVerifier = &mockExchange.OwnershipVerifier{}
	t.mockExecutor = &mockExchange.Executor{}
	t.mockEmitter = &mockEvent.Emitter{}
	t.subject = &impl{
		listingRepo: t.mockRepo,
		verifier:    t.mockVerifier,
		executor:    t.mockExecutor,
		emitter:     t.mockEmitter,
		locks:       keylock.New(),
	}
}

func (t *testsuite) fixedPriceListing() *listing.Listing {
	return &listing.Listing{
		Seller:   "0xseller",
		Asset:    domain.AssetId{ChainId: 1, Contract: "0xdeed", TokenId: "42"},
		Type:     listing.TypeFixedPrice,
		Price:    "1000",
		Currency: "0xusdc",
	}
}

func (t *testsuite) TestCreateListing() {
	l := t.fixedPriceListing()

	t.mockVerifier.On("VerifyOwnership", mockCtx, l.Asset, l.Seller).Return(true, nil)
	t.mockRepo.On("Create", mockCtx, mock.Anything).Return(nil)
	t.mockEmitter.On("Emit", mockCtx, event.TopicListingCreated, mock.Anything)

	res, err := t.subject.CreateListing(mockCtx, l)
	t.NoError(err)
	t.NotEmpty(res.Id)
	t.Equal(listing.StatusActive, res.Status)
	t.mockEmitter.AssertCalled(t.T(), "Emit", mockCtx, event.TopicListingCreated, mock.Anything)
}

func (t *testsuite) TestCreateListingSellerNotOwner() {
	l := t.fixedPriceListing()

	t.mockVerifier.On("VerifyOwnership", mockCtx, l.Asset, l.Seller).Return(false, nil)

	_, err := t.subject.CreateListing(mockCtx, l)
	t.True(errors.Is(err, domain.ErrBadParamInput))
	t.mockRepo.AssertNotCalled(t.T(), "Create", mock.Anything, mock.Anything)
}

func (t *testsuite) TestCreateListingNonPositivePrice() {
	l := t.fixedPriceListing()
	l.Price = "0"

	_, err := t.subject.CreateListing(mockCtx, l)
	t.True(errors.Is(err, domain.ErrBadParamInput))
}

func (t *testsuite) TestCreateListingAuctionEndBeforeStart() {
	now := time.Now()
	l := t.fixedPriceListing()
	l.Type = listing.TypeAuction
	l.Auction = &listing.Auction{
		StartPrice: "100",
		StartTime:  now,
		EndTime:    now.Add(-time.Hour),
	}

	_, err := t.subject.CreateListing(mockCtx, l)
	t.True(errors.Is(err, domain.ErrBadParamInput))
}

func (t *testsuite) TestCreateListingFractionalResetsAvailableShares() {
	l := t.fixedPriceListing()
	l.Type = listing.TypeFractionalSale
	l.Fractional = &listing.Fractional{
		TotalShares:     1000,
		AvailableShares: 3,
		MinPurchase:     5,
		SharePrice:      "10",
	}

	t.mockVerifier.On("VerifyOwnership", mockCtx, l.Asset, l.Seller).Return(true, nil)
	t.mockRepo.On("Create", mockCtx, mock.Anything).Return(nil)
	t.mockEmitter.On("Emit", mockCtx, event.TopicListingCreated, mock.Anything)

	res, err := t.subject.CreateListing(mockCtx, l)
	t.NoError(err)
	t.Equal(int64(1000), res.Fractional.AvailableShares)
}

func (t *testsuite) TestCreateListingSubRecordMismatch() {
	l := t.fixedPriceListing()
	l.Auction = &listing.Auction{StartPrice: "100"}

	_, err := t.subject.CreateListing(mockCtx, l)
	t.True(errors.Is(err, domain.ErrBadParamInput))
}

func (t *testsuite) TestCancelListing() {
	l := t.fixedPriceListing()
	l.Id = "listing1"
	l.Status = listing.StatusActive

	t.mockRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockRepo.On("Update", mockCtx, listing.Id("listing1"), mock.Anything).Return(nil)
	t.mockExecutor.On("Cancel", mockCtx, l).Return(nil)
	t.mockEmitter.On("Emit", mockCtx, event.TopicListingCancelled, l)

	err := t.subject.CancelListing(mockCtx, "listing1", "0xSELLER")
	t.NoError(err)
	t.mockEmitter.AssertCalled(t.T(), "Emit", mockCtx, event.TopicListingCancelled, l)
}

func (t *testsuite) TestCancelListingChainFailureIsNotFatal() {
	l := t.fixedPriceListing()
	l.Id = "listing1"
	l.Status = listing.StatusActive

	t.mockRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)
	t.mockRepo.On("Update", mockCtx, listing.Id("listing1"), mock.Anything).Return(nil)
	t.mockExecutor.On("Cancel", mockCtx, l).Return(errors.New("rpc down"))
	t.mockEmitter.On("Emit", mockCtx, event.TopicListingCancelled, l)

	err := t.subject.CancelListing(mockCtx, "listing1", "0xseller")
	t.NoError(err)
}

func (t *testsuite) TestCancelListingNotOwner() {
	l := t.fixedPriceListing()
	l.Id = "listing1"
	l.Status = listing.StatusActive

	t.mockRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)

	err := t.subject.CancelListing(mockCtx, "listing1", "0xstranger")
	t.Equal(domain.ErrUnauthorized, err)
	t.mockRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestCancelListingNotActive() {
	l := t.fixedPriceListing()
	l.Id = "listing1"
	l.Status = listing.StatusSold

	t.mockRepo.On("FindOne", mockCtx, listing.Id("listing1")).Return(l, nil)

	err := t.subject.CancelListing(mockCtx, "listing1", "0xseller")
	t.Equal(domain.ErrInvalidState, err)
}

func (t *testsuite) TestCancelListingNotFound() {
	t.mockRepo.On("FindOne", mockCtx, listing.Id("missing")).Return(nil, domain.ErrNotFound)

	err := t.subject.CancelListing(mockCtx, "missing", "0xseller")
	t.Equal(domain.ErrNotFound, err)
}

func (t *testsuite) TestGetListingNotFound() {
	t.mockRepo.On("FindOne", mockCtx, listing.Id("missing")).Return(nil, domain.ErrNotFound)

	_, err := t.subject.GetListing(mockCtx, "missing")
	t.Equal(domain.ErrNotFound, err)
}
