package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/database/mongoclient"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/listing"
	"github.com/brickmark/goapi/service/cache"
	"github.com/brickmark/goapi/service/cache/provider"
	"github.com/brickmark/goapi/service/cache/provider/compound"
	"github.com/brickmark/goapi/service/cache/provider/primitive"
	redisCache "github.com/brickmark/goapi/service/cache/provider/redis"
	"github.com/brickmark/goapi/service/query"
	"github.com/brickmark/goapi/service/redis"
)

type listingRepoImpl struct {
	q            query.Mongo
	listingCache cache.Service
}

// NewListingRepo creates the mongo backed listing repo. Reads of single
// listings go through a layered cache, every mutation drops the cached entry.
func NewListingRepo(q query.Mongo, redis redis.Service) listing.Repo {
	cacheProviders := []provider.Provider{
		primitive.NewPrimitive("listing", 64),
	}

	if redis != nil {
		cacheProviders = append(cacheProviders, redisCache.NewRedis(redis))
	}

	return &listingRepoImpl{
		q: q,
		listingCache: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   "listing",
			Cache: compound.NewCompound(cacheProviders),
		}),
	}
}

func (im *listingRepoImpl) makeQuery(opts ...listing.FindAllOptionsFunc) (bson.M, int, int, string, error) {
	options, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return nil, 0, 0, "", err
	}

	qry := bson.M{}
	offset := 0
	limit := 0
	sort := "_id"

	if options.Status != nil {
		qry["status"] = *options.Status
	}

	if options.Type != nil {
		qry["type"] = *options.Type
	}

	if options.Seller != nil {
		qry["seller"] = *options.Seller
	}

	if options.ChainId != nil {
		qry["asset.chainId"] = *options.ChainId
	}

	if options.AuctionEndedAt != nil {
		qry["auction.endTime"] = bson.M{"$lt": *options.AuctionEndedAt}
	}

	if options.ExpiredAt != nil {
		qry["expiresAt"] = bson.M{"$lt": *options.ExpiredAt}
	}

	if options.Offset != nil {
		offset = *options.Offset
	}

	if options.Limit != nil {
		limit = *options.Limit
	}

	if options.SortBy != nil {
		sort = *options.SortBy
	}

	return qry, offset, limit, sort, nil
}

func (im *listingRepoImpl) FindAll(c ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Listing, error) {
	qry, offset, limit, sort, err := im.makeQuery(opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	res := []*listing.Listing{}
	err = im.q.Search(c, domain.TableListings, offset, limit, sort, qry, &res)
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": qry,
		}).Error("failed to q.Search")
		return nil, err
	}

	return res, nil
}

func (im *listingRepoImpl) FindOne(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	res := &listing.Listing{}

	if err := im.listingCache.GetByFunc(c, string(id), res, func() (interface{}, error) {
		return im.findOne(c, id)
	}); err != nil {
		return nil, err
	}

	return res, nil
}

func (im *listingRepoImpl) findOne(c ctx.Ctx, id listing.Id) (*listing.Listing, error) {
	res := listing.Listing{}
	err := im.q.FindOne(c, domain.TableListings, bson.M{"id": id}, &res)
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

func (im *listingRepoImpl) Create(c ctx.Ctx, l *listing.Listing) error {
	l.LowerCase()
	if err := im.q.Insert(c, domain.TableListings, l); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"listing": *l,
		}).Error("failed to q.Insert")
		return err
	}
	return nil
}

func (im *listingRepoImpl) Update(c ctx.Ctx, id listing.Id, patchable listing.ListingPatchable) error {
	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"patchable": patchable,
		}).Error("failed to mongoclient.MakeBsonM")
		return err
	}

	err = im.q.Patch(c, domain.TableListings, bson.M{"id": id}, updater)
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

	if err := im.listingCache.Del(c, string(id)); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("listingCache.Del failed")
	}

	return nil
}
