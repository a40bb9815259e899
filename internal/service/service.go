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

// Package service wires the timer core's ports into a running process:
// the polling worker and the command subscription, bound to one lifetime.
package service

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/kedacore/timer-service/internal/clock"
	"github.com/kedacore/timer-service/internal/envelope"
	"github.com/kedacore/timer-service/internal/metadata"
	"github.com/kedacore/timer-service/internal/observability"
	"github.com/kedacore/timer-service/internal/ports"
	"github.com/kedacore/timer-service/internal/worker"
	"github.com/kedacore/timer-service/internal/workflow"
)

// Service ties a TimerPersistence and EventBus together with the
// scheduling/ingest workflows that operate on them.
type Service struct {
	Persistence ports.TimerPersistence
	Bus         ports.EventBus
	Clock       clock.Clock
	Logger      logr.Logger

	PollInterval time.Duration
	Retry        RetryPolicy
	MetricsAddr  string
}

// Run blocks until ctx is cancelled or any of the service's activities
// fails. Shutdown order follows ctx cancellation: the poller and the
// subscription both observe the same context, so cancelling it stops new
// poll cycles and new command deliveries together; an in-flight poll pass
// or handler invocation is allowed to finish.
func (s Service) Run(parentCtx context.Context) error {
	g, ctx := errgroup.WithContext(parentCtx)

	poller := worker.Poller{
		Poll: workflow.PollDueTimers{
			Persistence: s.Persistence,
			Bus:         s.Bus,
			Clock:       s.Clock,
			Logger:      s.Logger.WithName("poller"),
		},
		Interval: s.PollInterval,
		Logger:   s.Logger.WithName("poller"),
	}
	g.Go(func() error { return poller.Run(ctx) })

	scheduleTimer := workflow.ScheduleTimer{
		Persistence: s.Persistence,
		Clock:       s.Clock,
		Logger:      s.Logger.WithName("schedule"),
	}
	handler := s.Retry.Wrap(func(ctx context.Context, env envelope.Envelope) error {
		return scheduleTimer.Handle(ctx, env)
	})
	g.Go(func() error {
		return s.Bus.Subscribe(ctx, []string{envelope.TopicCommands}, withMetadata(handler))
	})

	if s.MetricsAddr != "" {
		g.Go(func() error { return observability.Server(ctx, s.MetricsAddr) })
	}

	err := g.Wait()
	if parentCtx.Err() != nil {
		return nil
	}
	return err
}

// withMetadata attaches the envelope's correlation/causation identifiers
// to the context before invoking next, so downstream workflows and spans
// can read them back without threading extra parameters.
func withMetadata(next ports.Handler) ports.Handler {
	return func(ctx context.Context, env envelope.Envelope) error {
		ctx = metadata.WithMessage(ctx, metadata.Message{
			CorrelationID: env.CorrelationID,
			CausationID:   &env.ID,
		})
		return next(ctx, env)
	}
}
