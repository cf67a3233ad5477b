package config

import (
	"fmt"
	"time"

	"github.com/MichalMitros/product-sync/internal/platform/models"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string        `env:"DATABASE_URL"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPTimeout       time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	WorkerParallelism int           `env:"WORKER_PARALLELISM" envDefault:"4"`

	// TargetEndpoints maps targets to connector base URLs, e.g. "shop:1=https://shop.example.com/api".
	TargetEndpoints map[string]string `env:"TARGET_ENDPOINTS" envKeyValSeparator:"="`
	// IgnoredTargetCategoryIDs are target root categories skipped when mapping pulled categories.
	IgnoredTargetCategoryIDs []int64 `env:"IGNORED_TARGET_CATEGORY_IDS" envDefault:"1,2"`

	RabbitMQ RabbitMQ
	Retry    Retry
	Watchdog Watchdog
}

// RabbitMQ holds RabbitMQ configuration.
type RabbitMQ struct {
	URL              string `env:"RABBITMQ_URL"`
	Exchange         string `env:"RABBITMQ_EXCHANGE" envDefault:"product-sync-ex"`
	Queue            string `env:"RABBITMQ_QUEUE" envDefault:"product-sync.commands"`
	RoutingKey       string `env:"RABBITMQ_ROUTING_KEY" envDefault:"product-sync.command"`
	EventsRoutingKey string `env:"RABBITMQ_EVENTS_ROUTING_KEY" envDefault:"product-sync.event"`
	Concurrency      int    `env:"RABBITMQ_CONCURRENCY" envDefault:"4"`
	EventsBufferSize int    `env:"RABBITMQ_EVENTS_BUFFER" envDefault:"1000"`
}

// Retry holds record and job retry configuration.
type Retry struct {
	RecordBase       time.Duration `env:"RECORD_RETRY_BASE" envDefault:"1h"`
	RecordCap        time.Duration `env:"RECORD_RETRY_CAP" envDefault:"24h"`
	RecordMaxRetries int           `env:"RECORD_MAX_RETRIES" envDefault:"5"`
	JobMaxRetries    int           `env:"JOB_MAX_RETRIES" envDefault:"3"`
	JobRetryDelay    time.Duration `env:"JOB_RETRY_DELAY" envDefault:"60s"`
	JobTimeout       time.Duration `env:"JOB_TIMEOUT" envDefault:"1h"`
}

// Watchdog holds watchdog configuration.
type Watchdog struct {
	Schedule string `env:"WATCHDOG_SCHEDULE" envDefault:"@every 1m"`
	// StaleAfter defaults to JOB_TIMEOUT and can't be shorter.
	StaleAfter    time.Duration `env:"WATCHDOG_STALE_AFTER"`
	DispatchLimit int           `env:"DISPATCH_LIMIT" envDefault:"20"`
}

// Validate rejects settings which can't work together.
func (c Config) Validate() error {
	if c.Watchdog.StaleAfter != 0 && c.Watchdog.StaleAfter < c.Retry.JobTimeout {
		return fmt.Errorf(
			"can't use WATCHDOG_STALE_AFTER %s shorter than JOB_TIMEOUT %s: records of running jobs would be reclaimed",
			c.Watchdog.StaleAfter, c.Retry.JobTimeout,
		)
	}

	return nil
}

// Targets returns parsed target endpoints.
func (c Config) Targets() (map[models.TargetRef]string, error) {
	targets := make(map[models.TargetRef]string, len(c.TargetEndpoints))
	for key, endpoint := range c.TargetEndpoints {
		target, err := models.ParseTargetRef(key)
		if err != nil {
			return nil, fmt.Errorf("can't parse TARGET_ENDPOINTS: %w", err)
		}
		if endpoint == "" {
			return nil, fmt.Errorf("can't parse TARGET_ENDPOINTS: empty endpoint of %s", target)
		}

		targets[target] = endpoint
	}

	return targets, nil
}
