package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MichalMitros/product-sync/cmd/syncer/config"
	"github.com/MichalMitros/product-sync/internal/audit"
	"github.com/MichalMitros/product-sync/internal/connector"
	"github.com/MichalMitros/product-sync/internal/connector/httpconnector"
	"github.com/MichalMitros/product-sync/internal/handler"
	"github.com/MichalMitros/product-sync/internal/job"
	"github.com/MichalMitros/product-sync/internal/mapping"
	"github.com/MichalMitros/product-sync/internal/orchestrator"
	"github.com/MichalMitros/product-sync/internal/platform/rabbitmq"
	"github.com/MichalMitros/product-sync/internal/platform/storage"
	"github.com/MichalMitros/product-sync/internal/retry"
	"github.com/MichalMitros/product-sync/internal/syncrecord"
	"github.com/MichalMitros/product-sync/internal/watchdog"
	"github.com/MichalMitros/product-sync/pkg/v1/commander"
	"github.com/caarlos0/env/v6"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	// UserAgent is user agent header value sent to targets.
	UserAgent = "product-sync/0.0.1"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg config.Config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse env variables")
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().
			Err(err).
			Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse log level")
	}
	logger = logger.Level(level)

	targets, err := cfg.Targets()
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse targets")
	}

	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}

	if err := storage.Migrate(pgDB); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't migrate database")
	}

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	conn, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Concurrency)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	if err := conn.Setup(cfg.RabbitMQ.Queue, cfg.RabbitMQ.RoutingKey); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't set up RabbitMQ topology")
	}

	store := storage.NewPostgres(pgDB)

	events := audit.NewPublisherSink(conn, cfg.RabbitMQ.EventsRoutingKey, cfg.RabbitMQ.EventsBufferSize, &logger)
	events.Start(ctx)
	sink := audit.Multi{audit.NewLogSink(&logger), events}

	records := syncrecord.NewService(
		syncrecord.NewMachine(syncrecord.WithBackoff(retry.Backoff{
			Base: cfg.Retry.RecordBase,
			Cap:  cfg.Retry.RecordCap,
		})),
		store,
		sink,
	)
	lifecycle := job.NewLifecycle(sink)

	client := &http.Client{Timeout: cfg.HTTPTimeout}
	connectors := connector.NewRegistry()
	for target, endpoint := range targets {
		connectors.Register(target, httpconnector.NewConnector(client, endpoint, UserAgent))
	}

	runnerOps := []orchestrator.Option{orchestrator.WithParallelism(cfg.WorkerParallelism)}
	telemetry, err := orchestrator.NewProcessTelemetry(ctx)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("can't sample process resources, job metrics won't include them")
	} else {
		runnerOps = append(runnerOps, orchestrator.WithTelemetry(telemetry))
	}

	runner := orchestrator.NewRunner(
		store,
		records,
		connectors,
		mapping.NewResolver(store, mapping.WithIgnoredTargetIDs(cfg.IgnoredTargetCategoryIDs...)),
		lifecycle,
		&logger,
		runnerOps...,
	)

	han := handler.NewHandler(
		conn,
		runner,
		store,
		records,
		lifecycle,
		handler.Defaults{
			RecordMaxRetries: cfg.Retry.RecordMaxRetries,
			JobTimeout:       cfg.Retry.JobTimeout,
			JobMaxRetries:    cfg.Retry.JobMaxRetries,
			JobRetryDelay:    cfg.Retry.JobRetryDelay,
		},
		&logger,
	)

	// start consuming and handling commands
	err = han.Start(ctx, cfg.RabbitMQ.Queue, cfg.RabbitMQ.Concurrency)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start consuming")
	}

	dog := watchdog.New(
		store,
		records,
		commander.NewSyncCommander(commander.NewRabbitMQSender(conn, cfg.RabbitMQ.RoutingKey)),
		lifecycle,
		watchdog.Config{
			Schedule:   cfg.Watchdog.Schedule,
			StaleAfter: cfg.Watchdog.StaleAfter,
			JobTimeout: cfg.Retry.JobTimeout,
			BatchLimit: cfg.Watchdog.DispatchLimit,
			Targets:    lo.Keys(targets),
		},
		&logger,
	)

	if err := dog.Start(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start watchdog")
	}

	logger.Info().
		Int("targets", len(targets)).
		Msg("product sync up and running")

	// handle graceful shutdown and context cancellation
	termChan := make(chan os.Signal, 1)
	signal.Notify(termChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-termChan:
		cancel()
	case <-ctx.Done():
	}

	logger.Info().Msg("graceful shutdown start")

	// wait for consumer and in-flight jobs to finish
	<-conn.Done()
	<-events.Done()

	// close connections
	wg := sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := pgDB.Close(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't close Postgres connection")
		}
	}()

	go func() {
		defer wg.Done()
		if err := amqpConnection.Close(); err != nil {
			logger.Fatal().
				Err(err).
				Msg("can't close RabbitMQ connection")
		}
	}()

	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}
