package listing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/domain"
)

type Id string

type Type string

const (
	TypeFixedPrice     Type = "fixed_price"
	TypeAuction        Type = "auction"
	TypeFractionalSale Type = "fractional_sale"
	TypeBuyoutOffer    Type = "buyout_offer"
)

func ToType(name string) (Type, bool) {
	switch Type(name) {
	case TypeFixedPrice, TypeAuction, TypeFractionalSale, TypeBuyoutOffer:
		return Type(name), true
	}
	return "", false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSold      Status = "sold"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Terminal reports whether no further transition is allowed out of s
func (s Status) Terminal() bool {
	return s == StatusSold || s == StatusCancelled || s == StatusExpired
}

// Auction is the sub-record carried by auction listings only. Prices are
// decimal strings in the listing currency.
type Auction struct {
	StartPrice    string          `json:"startPrice" bson:"startPrice"`
	ReservePrice  string          `json:"reservePrice,omitempty" bson:"reservePrice,omitempty"`
	CurrentBid    string          `json:"currentBid" bson:"currentBid"`
	BidCount      int             `json:"bidCount" bson:"bidCount"`
	HighestBidder *domain.Address `json:"highestBidder,omitempty" bson:"highestBidder,omitempty"`
	StartTime     time.Time       `json:"startTime" bson:"startTime"`
	EndTime       time.Time       `json:"endTime" bson:"endTime"`
	BidIncrement  string          `json:"bidIncrement" bson:"bidIncrement"`
	ExtendOnBid   bool            `json:"extendOnBid" bson:"extendOnBid"`
}

func (a *Auction) StartPriceDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(a.StartPrice)
	return d
}

func (a *Auction) CurrentBidDecimal() decimal.Decimal {
	if a.CurrentBid == "" {
		return decimal.Zero
	}
	d, _ := decimal.NewFromString(a.CurrentBid)
	return d
}

// ReservePriceDecimal defaults to zero when no reserve was set
func (a *Auction) ReservePriceDecimal() decimal.Decimal {
	if a.ReservePrice == "" {
		return decimal.Zero
	}
	d, _ := decimal.NewFromString(a.ReservePrice)
	return d
}

func (a *Auction) BidIncrementDecimal() decimal.Decimal {
	if a.BidIncrement == "" {
		return decimal.Zero
	}
	d, _ := decimal.NewFromString(a.BidIncrement)
	return d
}

// Fractional is the sub-record carried by fractional sale listings only
type Fractional struct {
	TotalShares     int64  `json:"totalShares" bson:"totalShares"`
	AvailableShares int64  `json:"availableShares" bson:"availableShares"`
	MinPurchase     int64  `json:"minPurchase" bson:"minPurchase"`
	MaxPurchase     *int64 `json:"maxPurchase,omitempty" bson:"maxPurchase,omitempty"`
	SharePrice      string `json:"sharePrice" bson:"sharePrice"`
}

func (f *Fractional) SharePriceDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(f.SharePrice)
	return d
}

// Listing is one property put up for sale. Exactly one of Auction and
// Fractional is non-nil, matching Type; fixed price and buyout offer
// listings carry neither.
type Listing struct {
	Id        Id             `json:"id" bson:"id"`
	Seller    domain.Address `json:"seller" bson:"seller"`
	Asset     domain.AssetId `json:"asset" bson:"asset"`
	Type      Type           `json:"type" bson:"type"`
	Status    Status         `json:"status" bson:"status"`
	Price     string         `json:"price" bson:"price"`
	Currency  domain.Address `json:"currency" bson:"currency"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`

	Auction    *Auction    `json:"auction,omitempty" bson:"auction,omitempty"`
	Fractional *Fractional `json:"fractional,omitempty" bson:"fractional,omitempty"`
}

func (l *Listing) LowerCase() {
	l.Seller = l.Seller.ToLower()
	l.Currency = l.Currency.ToLower()
	l.Asset = l.Asset.ToLower()
}

func (l *Listing) PriceDecimal() decimal.Decimal {
	d, _ := decimal.NewFromString(l.Price)
	return d
}

// ListingPatchable carries partial updates, nil fields are left untouched
type ListingPatchable struct {
	Status     *Status     `json:"status" bson:"status,omitempty"`
	Auction    *Auction    `json:"auction" bson:"auction,omitempty"`
	Fractional *Fractional `json:"fractional" bson:"fractional,omitempty"`
	UpdatedAt  *time.Time  `json:"updatedAt" bson:"updatedAt,omitempty"`
}

type FindAllOptions struct {
	Status          *Status
	Type            *Type
	Seller          *domain.Address
	ChainId         *domain.ChainId
	AuctionEndedAt  *time.Time
	ExpiredAt       *time.Time
	Offset          *int
	Limit           *int
	SortBy          *string
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

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithType(typ Type) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Type = &typ
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Seller = seller.ToLowerPtr()
		return nil
	}
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

// WithAuctionEndedAt selects auction listings whose end time has passed t
func WithAuctionEndedAt(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.AuctionEndedAt = &t
		return nil
	}
}

// WithExpiredAt selects listings whose expiresAt has passed t
func WithExpiredAt(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ExpiredAt = &t
		return nil
	}
}

func WithPagination(offset, limit int) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
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
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	FindOne(ctx ctx.Ctx, id Id) (*Listing, error)
	Create(ctx ctx.Ctx, listing *Listing) error
	Update(ctx ctx.Ctx, id Id, patchable ListingPatchable) error
}

type UseCase interface {
	CreateListing(ctx ctx.Ctx, listing *Listing) (*Listing, error)
	CancelListing(ctx ctx.Ctx, id Id, requester domain.Address) error
	GetListing(ctx ctx.Ctx, id Id) (*Listing, error)
	ListListings(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
}
