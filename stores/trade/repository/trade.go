package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/database/mongoclient"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/listing"
	"github.com/brickmark/goapi/domain/trade"
	"github.com/brickmark/goapi/service/query"
)

type tradeRepoImpl struct {
	q query.Mongo
}

func NewTradeRepo(q query.Mongo) trade.Repo {
	return &tradeRepoImpl{q}
}

func (im *tradeRepoImpl) makeQuery(opts ...trade.FindAllOptionsFunc) (bson.M, string, error) {
	options, err := trade.GetFindAllOptions(opts...)
	if err != nil {
		return nil, "", err
	}

	qry := bson.M{}
	sort := "_id"

	if options.ListingId != nil {
		qry["listingId"] = *options.ListingId
	}

	if options.Buyer != nil {
		qry["buyer"] = *options.Buyer
	}

	if options.Seller != nil {
		qry["seller"] = *options.Seller
	}

	if options.Status != nil {
		qry["status"] = *options.Status
	}

	if options.SortBy != nil {
		sort = *options.SortBy
	}

	return qry, sort, nil
}

func (im *tradeRepoImpl) FindAll(c ctx.Ctx, opts ...trade.FindAllOptionsFunc) ([]*trade.Trade, error) {
	qry, sort, err := im.makeQuery(opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	res := []*trade.Trade{}
	err = im.q.Search(c, domain.TableTrades, 0, 0, sort, qry, &res)
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *tradeRepoImpl) FindOne(c ctx.Ctx, id trade.Id) (*trade.Trade, error) {
	res := trade.Trade{}
	err := im.q.FindOne(c, domain.TableTrades, bson.M{"id": id}, &res)
	if err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.FindOne")
		return nil, err
	}

	return &res, nil
}

func (im *tradeRepoImpl) Create(c ctx.Ctx, t *trade.Trade) error {
	t.Buyer = t.Buyer.ToLower()
	t.Seller = t.Seller.ToLower()
	t.Currency = t.Currency.ToLower()
	t.Asset = t.Asset.ToLower()
	if err := im.q.Insert(c, domain.TableTrades, t); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"trade": *t,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *tradeRepoImpl) Update(c ctx.Ctx, id trade.Id, patchable trade.TradePatchable) error {
	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"patchable": patchable,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	err = im.q.Patch(c, domain.TableTrades, bson.M{"id": id}, updater)
	if err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"id":      id,
			"updater": updater,
		}).Error("failed to q.Patch")
		return err
	}

	return nil
}

func (im *tradeRepoImpl) AppendDispute(c ctx.Ctx, id trade.Id, dispute trade.Dispute) error {
	res := trade.Trade{}
	err := im.q.Push(c, domain.TableTrades, bson.M{"id": id}, &res, "disputes", dispute)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("failed to q.Push")
		return err
	}
	return nil
}

func (im *tradeRepoImpl) CountPending(c ctx.Ctx, listingId listing.Id) (int, error) {
	cnt, err := im.q.Count(c, domain.TableTrades, bson.M{
		"listingId": listingId,
		"status":    trade.StatusPending,
	})
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"listingId": listingId,
		}).Error("failed to q.Count")
		return 0, err
	}

	return cnt, nil
}
