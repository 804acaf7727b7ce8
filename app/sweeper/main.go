package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/brickmark/goapi/base/backoff"
	bCtx "github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/database/mongoclient"
	"github.com/brickmark/goapi/base/database/redisclient"
	"github.com/brickmark/goapi/base/goroutine"
	"github.com/brickmark/goapi/base/keylock"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/base/metrics"
	"github.com/brickmark/goapi/domain"
	mmiddleware "github.com/brickmark/goapi/middleware"
	"github.com/brickmark/goapi/service/chain"
	"github.com/brickmark/goapi/service/event"
	"github.com/brickmark/goapi/service/query"
	"github.com/brickmark/goapi/service/redis"
	bid_repository "github.com/brickmark/goapi/stores/bid/repository"
	listing_repository "github.com/brickmark/goapi/stores/listing/repository"
	sweeper_usecase "github.com/brickmark/goapi/stores/sweeper/usecase"
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
	ctx, cancel := bCtx.WithCancel(bCtx.Background())

	// health endpoint so the platform can probe the worker
	startEchoServer()

	sweepInterval := viper.GetDuration("sweeper.interval")
	if sweepInterval == 0 {
		sweepInterval = time.Minute
	}

	ctx.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	ctx.Info("init redis cache")
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

	networks := viper.Sub("networks")
	rpcs := make(map[int32]string)
	for k := range networks.AllSettings() {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcs[chainId] = networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
	}
	chainService, err := chain.NewClient(ctx, &chain.ClientCfg{
		RpcUrls: rpcs,
	})
	if err != nil {
		ctx.WithField("err", err).Warn("chainService started with error")
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
		ctx.WithField("err", err).Panic("invalid relayer key")
	}
	gasEstimate, err := decimal.NewFromString(settlements.GetString("gasEstimate"))
	if err != nil {
		ctx.WithField("err", err).Panic("invalid gas estimate")
	}
	exchange := chain.NewExchange(chainService, &chain.ExchangeCfg{
		Contracts:        contracts,
		RelayerKey:       relayerKey,
		CurrencyDecimals: int32(settlements.GetInt("currencyDecimals")),
	})

	emitter := event.New(redisCache)
	locks := keylock.New()

	listingRepo := listing_repository.NewListingRepo(q, redisCache)
	bidRepo := bid_repository.NewBidRepo(q)
	tradeRepo := trade_repository.NewTradeRepo(q)

	tradeUC := trade_usecase.New(&trade_usecase.TradeUseCaseCfg{
		TradeRepo:   tradeRepo,
		ListingRepo: listingRepo,
		BidRepo:     bidRepo,
		Executor:    exchange,
		Emitter:     emitter,
		Locks:       locks,
		GasEstimate: gasEstimate,
	})
	sweeper := sweeper_usecase.New(&sweeper_usecase.SweeperUseCaseCfg{
		ListingRepo: listingRepo,
		BidRepo:     bidRepo,
		TradeUC:     tradeUC,
		Emitter:     emitter,
		Locks:       locks,
	})

	mtr := metrics.New("sweeper")
	bkoff := backoff.NewExponentialBackoff(sweepInterval, 10*sweepInterval)

	done := make(chan struct{})
	goroutine.RecoverableGo(func() {
		defer close(done)
		for {
			report, err := sweeper.ProcessExpirations(ctx)
			if err != nil {
				ctx.WithField("err", err).Error("sweep pass failed")
				mtr.BumpSum("sweep.err", 1)
			} else {
				mtr.BumpSum("sweep.scanned", float64(report.Scanned))
				mtr.BumpSum("sweep.finalized", float64(report.Finalized))
				mtr.BumpSum("sweep.expired", float64(report.Expired))
				mtr.BumpSum("sweep.failed", float64(report.Failed))
				bkoff.Reset()
			}
			if err := bkoff.Backoff(ctx); err != nil {
				// context canceled, stop sweeping
				return
			}
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	cancel()
	<-done
	log.Log().Info("sweeper stopped")
}

func startEchoServer() {
	context := bCtx.Background()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	address := viper.GetString("sweeper.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.Error("shutting down the server")
		}
	}()
}
