package bid

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/listing"
)

type Id string

type Status string

const (
	StatusActive    Status = "active"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
	StatusWithdrawn Status = "withdrawn"
)

// Bid is one buyer's offer against a listing. Accepted and rejected bids are
// immutable.
type Bid struct {
	Id        Id             `json:"id" bson:"id"`
	ListingId listing.Id     `json:"listingId" bson:"listingId"`
	Bidder    domain.Address `json:"bidder" bson:"bidder"`
	Amount    string         `json:"amount" bson:"amount"`
	Currency  domain.Address `json:"currency" bson:"currency"`
	Status    Status         `json:"status" bson:"status"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
}

func (b *Bid) AmountDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(b.Amount)
	return d
}

type BidPatchable struct {
	Status *Status `json:"status" bson:"status,omitempty"`
}

type FindAllOptions struct {
	ListingId *listing.Id
	Bidder    *domain.Address
	Status    *Status
	SortBy    *string
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithListingId(id listing.Id) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ListingId = &id
		return nil
	}
}

func WithBidder(bidder domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Bidder = bidder.ToLowerPtr()
		return nil
	}
}

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithSort(sortBy string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SortBy = &sortBy
		return nil
	}
}

type Repo interface {
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Bid, error)
	FindOne(ctx ctx.Ctx, id Id) (*Bid, error)
	Create(ctx ctx.Ctx, bid *Bid) error
	Update(ctx ctx.Ctx, id Id, patchable BidPatchable) error
}

// PlaceBidPayload is the engine facing input of UseCase.PlaceBid
type PlaceBidPayload struct {
	ListingId listing.Id     `json:"listingId"`
	Bidder    domain.Address `json:"bidder"`
	Amount    string         `json:"amount"`
	Currency  domain.Address `json:"currency"`
}

type UseCase interface {
	PlaceBid(ctx ctx.Ctx, payload PlaceBidPayload) (*Bid, error)
	WithdrawBid(ctx ctx.Ctx, id Id, requester domain.Address) error
	ListBids(ctx ctx.Ctx, listingId listing.Id) ([]*Bid, error)
}
