package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/databoard/databoard-backend/config"
	"github.com/databoard/databoard-backend/internal/bootstrap"
	"github.com/databoard/databoard-backend/internal/metrics"
	"github.com/databoard/databoard-backend/internal/perf"
	"github.com/databoard/databoard-backend/internal/repository"
	"github.com/databoard/databoard-backend/internal/storage/mongostore"
	"github.com/databoard/databoard-backend/internal/storage/mysqlstore"
)

const serviceName = "databoard-api"

func main() {
	log := newLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = newLogger(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mysqlDB, err := bootstrap.OpenMySQL(ctx, cfg.MySQL)
	if err != nil {
		log.Fatal().Err(err).Msg("open mysql")
	}
	defer mysqlDB.Close()

	mongoClient, mongoDB, err := bootstrap.OpenMongo(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("open mongo")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	mongoStore := mongostore.New(mongoDB)
	if err := mongoStore.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure mongo schema")
	}

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("open redis")
	}
	var recorder *metrics.Recorder
	if redisClient != nil {
		defer redisClient.Close()
		recorder = metrics.NewRecorder(redisClient, log)
	}

	repo := repository.NewDispatcher(mysqlstore.New(mysqlDB, log), mongoStore).
		WithObserver(recorder)
	harness := perf.NewHarness(mysqlDB, mongoDB)

	if cfg.App.PerfSampleCron != "" {
		sampler := perf.NewSampler(harness, recorder, log)
		if err := sampler.Start(cfg.App.PerfSampleCron); err != nil {
			log.Fatal().Err(err).Msg("start performance sampler")
		}
		defer sampler.Stop()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Log:         log,
		MySQL:       mysqlDB,
		Mongo:       mongoDB,
		Repo:        repo,
		Harness:     harness,
		Recorder:    recorder,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
