package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/database/mongoclient"
	"github.com/brickmark/goapi/base/database/redisclient"
	"github.com/brickmark/goapi/base/keylock"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/base/metrics"
	bValidator "github.com/brickmark/goapi/base/validator"
	"github.com/brickmark/goapi/domain"
	mmiddleware "github.com/brickmark/goapi/middleware"
	"github.com/brickmark/goapi/service/chain"
	"github.com/brickmark/goapi/service/event"
	"github.com/brickmark/goapi/service/query"
	"github.com/brickmark/goapi/service/redis"
	bid_delivery "github.com/brickmark/goapi/stores/bid/delivery/http"
	bid_repository "github.com/brickmark/goapi/stores/bid/repository"
	bid_usecase "github.com/brickmark/goapi/stores/bid/usecase"
	hc_delivery "github.com/brickmark/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/brickmark/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/brickmark/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/brickmark/goapi/stores/listing/delivery/http"
	listing_repository "github.com/brickmark/goapi/stores/listing/repository"
	listing_usecase "github.com/brickmark/goapi/stores/listing/usecase"
	trade_delivery "github.com/brickmark/goapi/stores/trade/delivery/http"
	trade_repository "github.com/brickmark/goapi/stores/trade/repository"
	trade_usecase "github.com/brickmark/goapi/stores/trade/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	mmiddleware.SetupCache(redisCache)

	// init chain service
	networks := viper.Sub("networks")
	keys := networks.AllSettings()
	rpcs := make(map[int32]string)
	for k := range keys {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcUrl := networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		rpcs[chainId] = rpcUrl
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls: rpcs,
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}

	settlements := viper.Sub("settlement")
	contracts := make(map[domain.ChainId]domain.Address)
	for k := range settlements.GetStringMap("contracts") {
		chainId := settlements.GetInt(fmt.Sprintf("contracts.%s.chainId", k))
		addr := settlements.GetString(fmt.Sprintf("contracts.%s.address", k))
		contracts[domain.ChainId(chainId)] = domain.Address(addr).ToLower()
	}
	relayerKey, err := crypto.HexToECDSA(settlements.GetString("relayerKey"))
	if err != nil {
		context.WithField("err", err).Panic("invalid relayer key")
	}
	gasEstimate, err := decimal.NewFromString(settlements.GetString("gasEstimate"))
	if err != nil {
		context.WithField("err", err).Panic("invalid gas estimate")
	}
	exchange := chain.NewExchange(chainService, &chain.ExchangeCfg{
		Contracts:        contracts,
		RelayerKey:       relayerKey,
		CurrencyDecimals: int32(settlements.GetInt("currencyDecimals")),
	})

	emitter := event.New(redisCache)
	locks := keylock.New()

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	listingRepo := listing_repository.NewListingRepo(q, redisCache)
	bidRepo := bid_repository.NewBidRepo(q)
	tradeRepo := trade_repository.NewTradeRepo(q)

	hc := hc_usecase.New(hcRepo)
	listingUC := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		ListingRepo: listingRepo,
		Verifier:    exchange,
		Executor:    exchange,
		Emitter:     emitter,
		Locks:       locks,
	})
	bidUC := bid_usecase.New(&bid_usecase.BidUseCaseCfg{
		BidRepo:     bidRepo,
		ListingRepo: listingRepo,
		Emitter:     emitter,
		Locks:       locks,
	})
	tradeUC := trade_usecase.New(&trade_usecase.TradeUseCaseCfg{
		TradeRepo:   tradeRepo,
		ListingRepo: listingRepo,
		BidRepo:     bidRepo,
		Executor:    exchange,
		Emitter:     emitter,
		Locks:       locks,
		GasEstimate: gasEstimate,
	})

	hc_delivery.New(e, hc)
	listing_delivery.New(e, listingUC)
	bid_delivery.New(e, bidUC)
	trade_delivery.New(e, tradeUC)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
