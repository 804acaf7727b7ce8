package trade

import (
	"time"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/bid"
	"github.com/brickmark/goapi/domain/listing"
)

type Id string

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusDisputed  Status = "disputed"
)

type ReleaseConditionKind string

const (
	ConditionPaymentConfirmed     ReleaseConditionKind = "payment_confirmed"
	ConditionOwnershipTransferred ReleaseConditionKind = "ownership_transferred"
)

// ReleaseCondition is one gate that must hold before a settled trade may be
// released to the parties
type ReleaseCondition struct {
	Kind  ReleaseConditionKind `json:"kind" bson:"kind"`
	Met   bool                 `json:"met" bson:"met"`
	MetAt *time.Time           `json:"metAt,omitempty" bson:"metAt,omitempty"`
}

// Settlement tracks multi party sign-off. A trade may not complete until
// CompletedSignatures covers RequiredSignatures.
type Settlement struct {
	ReleaseConditions   []ReleaseCondition `json:"releaseConditions" bson:"releaseConditions"`
	RequiredSignatures  []domain.Address   `json:"requiredSignatures" bson:"requiredSignatures"`
	CompletedSignatures []domain.Address   `json:"completedSignatures" bson:"completedSignatures"`
}

// Signed reports whether every required party has signed off
func (s *Settlement) Signed() bool {
	for _, req := range s.RequiredSignatures {
		found := false
		for _, got := range s.CompletedSignatures {
			if got.Equals(req) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Requires reports whether signer is one of the required parties
func (s *Settlement) Requires(signer domain.Address) bool {
	for _, req := range s.RequiredSignatures {
		if req.Equals(signer) {
			return true
		}
	}
	return false
}

// HasSigned reports whether signer already signed off
func (s *Settlement) HasSigned(signer domain.Address) bool {
	for _, got := range s.CompletedSignatures {
		if got.Equals(signer) {
			return true
		}
	}
	return false
}

// Dispute is append-only information attached after completion or failure
type Dispute struct {
	Party     domain.Address `json:"party" bson:"party"`
	Reason    string         `json:"reason" bson:"reason"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

// Trade is one settled (or settling) purchase against a listing. Never
// mutated once completed or failed, except to append dispute information.
type Trade struct {
	Id          Id             `json:"id" bson:"id"`
	ListingId   listing.Id     `json:"listingId" bson:"listingId"`
	BidId       *bid.Id        `json:"bidId,omitempty" bson:"bidId,omitempty"`
	Asset       domain.AssetId `json:"asset" bson:"asset"`
	Buyer       domain.Address `json:"buyer" bson:"buyer"`
	Seller      domain.Address `json:"seller" bson:"seller"`
	Price       string         `json:"price" bson:"price"`
	Quantity    int64          `json:"quantity" bson:"quantity"`
	TotalValue  string         `json:"totalValue" bson:"totalValue"`
	Fees        Fees           `json:"fees" bson:"fees"`
	NetProceeds string         `json:"netProceeds" bson:"netProceeds"`
	Currency    domain.Address `json:"currency" bson:"currency"`
	Status      Status         `json:"status" bson:"status"`
	TxHash      string         `json:"txHash,omitempty" bson:"txHash,omitempty"`
	Settlement  Settlement     `json:"settlement" bson:"settlement"`
	Disputes    []Dispute      `json:"disputes,omitempty" bson:"disputes,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type TradePatchable struct {
	Status     *Status     `json:"status" bson:"status,omitempty"`
	TxHash     *string     `json:"txHash" bson:"txHash,omitempty"`
	Settlement *Settlement `json:"settlement" bson:"settlement,omitempty"`
	UpdatedAt  *time.Time  `json:"updatedAt" bson:"updatedAt,omitempty"`
}

type FindAllOptions struct {
	ListingId *listing.Id
	Buyer     *domain.Address
	Seller    *domain.Address
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

func WithBuyer(buyer domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Buyer = buyer.ToLowerPtr()
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Seller = seller.ToLowerPtr()
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
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Trade, error)
	FindOne(ctx ctx.Ctx, id Id) (*Trade, error)
	Create(ctx ctx.Ctx, trade *Trade) error
	Update(ctx ctx.Ctx, id Id, patchable TradePatchable) error
	AppendDispute(ctx ctx.Ctx, id Id, dispute Dispute) error
	CountPending(ctx ctx.Ctx, listingId listing.Id) (int, error)
}

// PurchasePayload is the engine facing input of UseCase.ExecutePurchase,
// covering both the fixed price and the fractional path
type PurchasePayload struct {
	ListingId listing.Id     `json:"listingId"`
	Buyer     domain.Address `json:"buyer"`
	Quantity  int64          `json:"quantity"`
}

type UseCase interface {
	AcceptBid(ctx ctx.Ctx, listingId listing.Id, bidId bid.Id, requester domain.Address) (*Trade, error)
	ExecutePurchase(ctx ctx.Ctx, payload PurchasePayload) (*Trade, error)
	SignSettlement(ctx ctx.Ctx, id Id, signer domain.Address) (*Trade, error)
	DisputeTrade(ctx ctx.Ctx, id Id, party domain.Address, reason string) (*Trade, error)
	GetTrade(ctx ctx.Ctx, id Id) (*Trade, error)
	ListTrades(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Trade, error)
}
