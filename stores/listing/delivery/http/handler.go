package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/delivery"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/listing"
	"github.com/brickmark/goapi/middleware"
)

type handler struct {
	listingUC listing.UseCase
}

func New(e *echo.Echo, listingUC listing.UseCase) {
	h := &handler{
		listingUC: listingUC,
	}

	g := e.Group("/listings")
	g.POST("", h.createListing)
	g.GET("", h.listListings, middleware.CacheHttp(30*time.Second))
	g.GET("/:listingId", h.getListing)
	g.DELETE("/:listingId", h.cancelListing)
}

func (h *handler) createListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Seller     domain.Address      `json:"seller" validate:"required,address"`
		Asset      domain.AssetId      `json:"asset" validate:"required"`
		Type       string              `json:"type" validate:"required"`
		Price      string              `json:"price" validate:"required"`
		Currency   domain.Address      `json:"currency" validate:"required"`
		ExpiresAt  *int64              `json:"expiresAt"`
		Auction    *listing.Auction    `json:"auction"`
		Fractional *listing.Fractional `json:"fractional"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	typ, ok := listing.ToType(p.Type)
	if !ok {
		return delivery.MakeJsonResp(c, http.StatusUnprocessableEntity, domain.Validation("unknown listing type"))
	}

	l := &listing.Listing{
		Seller:     p.Seller,
		Asset:      p.Asset,
		Type:       typ,
		Price:      p.Price,
		Currency:   p.Currency,
		Auction:    p.Auction,
		Fractional: p.Fractional,
	}
	if p.ExpiresAt != nil {
		t := unixTime(*p.ExpiresAt)
		l.ExpiresAt = &t
	}

	res, err := h.listingUC.CreateListing(ctx, l)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) listListings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		Status  string         `query:"status"`
		Type    string         `query:"type"`
		Seller  domain.Address `query:"seller"`
		ChainId int32          `query:"chainId"`
		Offset  int            `query:"offset"`
		Limit   int            `query:"limit"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []listing.FindAllOptionsFunc{}
	if p.Status != "" {
		opts = append(opts, listing.WithStatus(listing.Status(p.Status)))
	}
	if p.Type != "" {
		typ, ok := listing.ToType(p.Type)
		if !ok {
			return delivery.MakeJsonResp(c, http.StatusUnprocessableEntity, domain.Validation("unknown listing type"))
		}
		opts = append(opts, listing.WithType(typ))
	}
	if !p.Seller.IsEmpty() {
		opts = append(opts, listing.WithSeller(p.Seller))
	}
	if p.ChainId != 0 {
		opts = append(opts, listing.WithChainId(domain.ChainId(p.ChainId)))
	}
	if p.Limit > 0 {
		opts = append(opts, listing.WithPagination(p.Offset, p.Limit))
	}

	res, err := h.listingUC.ListListings(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingId string `param:"listingId" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.listingUC.GetListing(ctx, listing.Id(p.ListingId))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) cancelListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingId string         `param:"listingId" validate:"required"`
		Requester domain.Address `json:"requester" validate:"required,address"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.listingUC.CancelListing(ctx, listing.Id(p.ListingId), p.Requester); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0)
}
