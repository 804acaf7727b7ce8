package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/database/mongoclient"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/bid"
	"github.com/brickmark/goapi/service/query"
)

type bidRepoImpl struct {
	q query.Mongo
}

func NewBidRepo(q query.Mongo) bid.Repo {
	return &bidRepoImpl{q}
}

func (im *bidRepoImpl) makeQuery(opts ...bid.FindAllOptionsFunc) (bson.M, string, error) {
	options, err := bid.GetFindAllOptions(opts...)
	if err != nil {
		return nil, "", err
	}

	qry := bson.M{}
	sort := "_id"

	if options.ListingId != nil {
		qry["listingId"] = *options.ListingId
	}

	if options.Bidder != nil {
		qry["bidder"] = *options.Bidder
	}

	if options.Status != nil {
		qry["status"] = *options.Status
	}

	if options.SortBy != nil {
		sort = *options.SortBy
	}

	return qry, sort, nil
}

func (im *bidRepoImpl) FindAll(c ctx.Ctx, opts ...bid.FindAllOptionsFunc) ([]*bid.Bid, error) {
	qry, sort, err := im.makeQuery(opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	res := []*bid.Bid{}
	err = im.q.Search(c, domain.TableBids, 0, 0, sort, qry, &res)
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *bidRepoImpl) FindOne(c ctx.Ctx, id bid.Id) (*bid.Bid, error) {
	res := bid.Bid{}
	err := im.q.FindOne(c, domain.TableBids, bson.M{"id": id}, &res)
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

func (im *bidRepoImpl) Create(c ctx.Ctx, b *bid.Bid) error {
	b.Bidder = b.Bidder.ToLower()
	b.Currency = b.Currency.ToLower()
	if err := im.q.Insert(c, domain.TableBids, b); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"bid": *b,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *bidRepoImpl) Update(c ctx.Ctx, id bid.Id, patchable bid.BidPatchable) error {
	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"patchable": patchable,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	err = im.q.Patch(c, domain.TableBids, bson.M{"id": id}, updater)
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
