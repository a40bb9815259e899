/*
Copyright 2025 The Timer Service Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config parses the timer service's configuration from flags,
// environment variables, and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// StorageDriver selects a TimerPersistence adapter.
type StorageDriver string

const (
	StoragePostgres StorageDriver = "postgres"
	StorageInMemory StorageDriver = "inmemory"
)

// BrokerDriver selects an EventBus adapter.
type BrokerDriver string

const (
	BrokerRabbitMQ BrokerDriver = "rabbitmq"
	BrokerKafka    BrokerDriver = "kafka"
	BrokerInMemory BrokerDriver = "inmemory"
)

// Config is the timer service's full runtime configuration.
type Config struct {
	StorageDriver StorageDriver
	PostgresDSN   string

	BrokerDriver BrokerDriver
	RabbitMQURL  string
	KafkaBrokers []string

	PollInterval time.Duration

	RetryBaseDelay   time.Duration
	RetryFactor      float64
	RetryMaxAttempts int

	MetricsAddr string
	Development bool
}

// defaults mirrors what a zero-configuration local run should use.
func defaults() Config {
	return Config{
		StorageDriver:    StorageInMemory,
		BrokerDriver:     BrokerInMemory,
		PollInterval:     5 * time.Second,
		RetryBaseDelay:   100 * time.Millisecond,
		RetryFactor:      2,
		RetryMaxAttempts: 3,
		MetricsAddr:      ":9090",
	}
}

// Load parses configuration from args (typically os.Args[1:]), an
// optional .env file at envFile (ignored if it does not exist), and
// environment variables, in that order of increasing precedence except
// that explicit flags always win.
func Load(args []string, envFile string, getenv func(string) string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := defaults()

	if v := getenv("TIMER_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = StorageDriver(v)
	}
	cfg.PostgresDSN = getenv("TIMER_POSTGRES_DSN")

	if v := getenv("TIMER_BROKER_DRIVER"); v != "" {
		cfg.BrokerDriver = BrokerDriver(v)
	}
	cfg.RabbitMQURL = getenv("TIMER_RABBITMQ_URL")
	if v := getenv("TIMER_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = strings.Split(v, ",")
	}

	if v := getenv("TIMER_POLL_INTERVAL"); v != "" {
		d, err := str2duration.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse TIMER_POLL_INTERVAL %q: %w", v, err)
		}
		cfg.PollInterval = d
	}
	if v := getenv("TIMER_RETRY_BASE_DELAY"); v != "" {
		d, err := str2duration.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse TIMER_RETRY_BASE_DELAY %q: %w", v, err)
		}
		cfg.RetryBaseDelay = d
	}
	if v := getenv("TIMER_RETRY_FACTOR"); v != "" {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse TIMER_RETRY_FACTOR %q: %w", v, err)
		}
		cfg.RetryFactor = f
	}
	if v := getenv("TIMER_RETRY_MAX_ATTEMPTS"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse TIMER_RETRY_MAX_ATTEMPTS %q: %w", v, err)
		}
		cfg.RetryMaxAttempts = n
	}
	if v := getenv("TIMER_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	flags := pflag.NewFlagSet("timer-service", pflag.ContinueOnError)
	storageDriver := flags.String("storage", string(cfg.StorageDriver), "TimerPersistence driver: postgres|inmemory")
	postgresDSN := flags.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	brokerDriver := flags.String("broker", string(cfg.BrokerDriver), "EventBus driver: rabbitmq|kafka|inmemory")
	rabbitmqURL := flags.String("rabbitmq-url", cfg.RabbitMQURL, "RabbitMQ connection URL")
	kafkaBrokers := flags.String("kafka-brokers", strings.Join(cfg.KafkaBrokers, ","), "Comma-separated Kafka broker addresses")
	pollInterval := flags.Duration("poll-interval", cfg.PollInterval, "Fixed interval between due-timer scans")
	metricsAddr := flags.String("metrics-addr", cfg.MetricsAddr, "Prometheus /metrics listen address")
	development := flags.Bool("development", false, "Enable human-readable development logging")

	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	cfg.StorageDriver = StorageDriver(*storageDriver)
	cfg.PostgresDSN = *postgresDSN
	cfg.BrokerDriver = BrokerDriver(*brokerDriver)
	cfg.RabbitMQURL = *rabbitmqURL
	if *kafkaBrokers != "" {
		cfg.KafkaBrokers = strings.Split(*kafkaBrokers, ",")
	}
	cfg.PollInterval = *pollInterval
	cfg.MetricsAddr = *metricsAddr
	cfg.Development = *development

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("storage driver %q requires TIMER_POSTGRES_DSN/-postgres-dsn", c.StorageDriver)
		}
	case StorageInMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	switch c.BrokerDriver {
	case BrokerRabbitMQ:
		if c.RabbitMQURL == "" {
			return fmt.Errorf("broker driver %q requires TIMER_RABBITMQ_URL/-rabbitmq-url", c.BrokerDriver)
		}
	case BrokerKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("broker driver %q requires TIMER_KAFKA_BROKERS/-kafka-brokers", c.BrokerDriver)
		}
	case BrokerInMemory:
	default:
		return fmt.Errorf("unknown broker driver %q", c.BrokerDriver)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	return nil
}
