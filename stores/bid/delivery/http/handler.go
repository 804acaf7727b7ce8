package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/delivery"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/bid"
	"github.com/brickmark/goapi/domain/listing"
)

type handler struct {
	bidUC bid.UseCase
}

func New(e *echo.Echo, bidUC bid.UseCase) {
	h := &handler{
		bidUC: bidUC,
	}

	e.POST("/bids", h.placeBid)
	e.DELETE("/bids/:bidId", h.withdrawBid)
	e.GET("/listings/:listingId/bids", h.listBids)
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := bid.PlaceBidPayload{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if p.ListingId == "" || p.Bidder.IsEmpty() || p.Amount == "" {
		return delivery.MakeJsonResp(c, http.StatusUnprocessableEntity, domain.Validation("listingId, bidder and amount are required"))
	}

	res, err := h.bidUC.PlaceBid(ctx, p)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) withdrawBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		BidId     string         `param:"bidId" validate:"required"`
		Requester domain.Address `json:"requester" validate:"required,address"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.bidUC.WithdrawBid(ctx, bid.Id(p.BidId), p.Requester); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) listBids(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingId string `param:"listingId" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.bidUC.ListBids(ctx, listing.Id(p.ListingId))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
