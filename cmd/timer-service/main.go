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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/kedacore/timer-service/internal/clock"
	"github.com/kedacore/timer-service/internal/config"
	"github.com/kedacore/timer-service/internal/eventbus/inmemory"
	"github.com/kedacore/timer-service/internal/eventbus/kafka"
	"github.com/kedacore/timer-service/internal/eventbus/rabbitmq"
	"github.com/kedacore/timer-service/internal/logging"
	"github.com/kedacore/timer-service/internal/observability"
	"github.com/kedacore/timer-service/internal/ports"
	"github.com/kedacore/timer-service/internal/service"
	"github.com/kedacore/timer-service/internal/signals"
	storageinmemory "github.com/kedacore/timer-service/internal/storage/inmemory"
	"github.com/kedacore/timer-service/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], ".env", os.Getenv)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Development)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	observability.InstallNoopTracerProvider()

	ctx := signals.Context(logger)

	persistence, closePersistence, err := buildPersistence(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build persistence: %w", err)
	}
	defer closePersistence()

	bus, closeBus, err := buildEventBus(cfg, logger)
	if err != nil {
		return fmt.Errorf("build event bus: %w", err)
	}
	defer closeBus()

	svc := service.Service{
		Persistence:  persistence,
		Bus:          bus,
		Clock:        clock.System{},
		Logger:       logger,
		PollInterval: cfg.PollInterval,
		Retry: service.RetryPolicy{
			BaseDelay:   cfg.RetryBaseDelay,
			Factor:      cfg.RetryFactor,
			MaxAttempts: cfg.RetryMaxAttempts,
			Logger:      logger,
		},
		MetricsAddr: cfg.MetricsAddr,
	}

	return svc.Run(ctx)
}

func buildPersistence(ctx context.Context, cfg config.Config, logger logr.Logger) (ports.TimerPersistence, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		store, err := postgres.Connect(ctx, cfg.PostgresDSN, logger.WithName("postgres"))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StorageInMemory:
		return storageinmemory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func buildEventBus(cfg config.Config, logger logr.Logger) (ports.EventBus, func(), error) {
	switch cfg.BrokerDriver {
	case config.BrokerRabbitMQ:
		bus, err := rabbitmq.Connect(cfg.RabbitMQURL, logger.WithName("rabbitmq"))
		if err != nil {
			return nil, nil, err
		}
		return bus, bus.Close, nil
	case config.BrokerKafka:
		bus, err := kafka.Connect(cfg.KafkaBrokers, "timer-service", logger.WithName("kafka"))
		if err != nil {
			return nil, nil, err
		}
		return bus, func() { _ = bus.Close() }, nil
	case config.BrokerInMemory:
		return inmemory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown broker driver %q", cfg.BrokerDriver)
	}
}
