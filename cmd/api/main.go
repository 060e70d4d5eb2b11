package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"max.ks1230/earnings-tracker/internal/api"
	"max.ks1230/earnings-tracker/internal/clients/cache"
	"max.ks1230/earnings-tracker/internal/clients/kafka"
	"max.ks1230/earnings-tracker/internal/config"
	"max.ks1230/earnings-tracker/internal/logger"
	"max.ks1230/earnings-tracker/internal/model/analytics"
	"max.ks1230/earnings-tracker/internal/model/auth"
	"max.ks1230/earnings-tracker/internal/model/records"
	"max.ks1230/earnings-tracker/internal/model/storage"
	"max.ks1230/earnings-tracker/internal/tracing"
)

func main() {
	defer logger.Sync()
	logger.Info("Api init - start")

	decimal.MarshalJSONWithoutQuotes = true
	if os.Getenv("LOG_ENV") == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}
	if len(conf.Auth().SigningKey()) == 0 {
		logger.Fatal("jwt secret is not configured")
	}

	tracer, err := tracing.Init(conf.App().Name()+"-api", conf.Jaeger())
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer tracer.Close()

	st, closeStorage, err := storage.Open(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init storage:", zap.Error(err))
	}
	defer closeStorage()

	reportCache, err := cache.New(conf.Cache())
	if err != nil {
		logger.Fatal("failed to init cache:", zap.Error(err))
	}
	defer func() {
		if err := cache.Close(reportCache); err != nil {
			logger.Error("failed to close cache", zap.Error(err))
		}
	}()

	location := conf.App().Location()
	clock := func() time.Time { return time.Now().In(location) }
	analyticsService := analytics.NewService(st, reportCache, analytics.NewAggregator(clock))

	recordsService := records.NewService(st, analyticsService, nil)
	if conf.Kafka().Enabled() {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Fatal("failed to init kafka producer:", zap.Error(err))
		}
		defer producer.Close()
		recordsService = records.NewService(st, analyticsService, producer)
	}

	server := api.NewServer(conf.HTTP(), api.Deps{
		Auth:      auth.NewService(st, conf.Auth()),
		Records:   recordsService,
		Analytics: analyticsService,
		Health:    st,
		Clock:     clock,
	})

	logger.Info("Api init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = server.Run(ctx); err != nil {
		logger.Error("http server stopped with error", zap.Error(err))
	}
}
