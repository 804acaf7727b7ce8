package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/delivery"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/bid"
	"github.com/brickmark/goapi/domain/listing"
	"github.com/brickmark/goapi/domain/trade"
)

type handler struct {
	tradeUC trade.UseCase
}

func New(e *echo.Echo, tradeUC trade.UseCase) {
	h := &handler{
		tradeUC: tradeUC,
	}

	e.POST("/listings/:listingId/bids/:bidId/accept", h.acceptBid)
	e.POST("/listings/:listingId/purchase", h.executePurchase)

	g := e.Group("/trades")
	g.GET("", h.listTrades)
	g.GET("/:tradeId", h.getTrade)
	g.POST("/:tradeId/sign", h.signSettlement)
	g.POST("/:tradeId/dispute", h.disputeTrade)
}

func (h *handler) acceptBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingId string         `param:"listingId" validate:"required"`
		BidId     string         `param:"bidId" validate:"required"`
		Requester domain.Address `json:"requester" validate:"required,address"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.tradeUC.AcceptBid(ctx, listing.Id(p.ListingId), bid.Id(p.BidId), p.Requester)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) executePurchase(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingId string         `param:"listingId" validate:"required"`
		Buyer     domain.Address `json:"buyer" validate:"required,address"`
		Quantity  int64          `json:"quantity"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.tradeUC.ExecutePurchase(ctx, trade.PurchasePayload{
		ListingId: listing.Id(p.ListingId),
		Buyer:     p.Buyer,
		Quantity:  p.Quantity,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) listTrades(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		ListingId string         `query:"listingId"`
		Buyer     domain.Address `query:"buyer"`
		Seller    domain.Address `query:"seller"`
		Status    string         `query:"status"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	opts := []trade.FindAllOptionsFunc{}
	if p.ListingId != "" {
		opts = append(opts, trade.WithListingId(listing.Id(p.ListingId)))
	}
	if !p.Buyer.IsEmpty() {
		opts = append(opts, trade.WithBuyer(p.Buyer))
	}
	if !p.Seller.IsEmpty() {
		opts = append(opts, trade.WithSeller(p.Seller))
	}
	if p.Status != "" {
		opts = append(opts, trade.WithStatus(trade.Status(p.Status)))
	}

	res, err := h.tradeUC.ListTrades(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getTrade(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		TradeId string `param:"tradeId" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.tradeUC.GetTrade(ctx, trade.Id(p.TradeId))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) signSettlement(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		TradeId string         `param:"tradeId" validate:"required"`
		Signer  domain.Address `json:"signer" validate:"required,address"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.tradeUC.SignSettlement(ctx, trade.Id(p.TradeId), p.Signer)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) disputeTrade(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := struct {
		TradeId string         `param:"tradeId" validate:"required"`
		Party   domain.Address `json:"party" validate:"required,address"`
		Reason  string         `json:"reason" validate:"required"`
	}{}

	if err := c.Bind(&p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.tradeUC.DisputeTrade(ctx, trade.Id(p.TradeId), p.Party, p.Reason)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
