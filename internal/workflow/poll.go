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

package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kedacore/timer-service/internal/apperrors"
	"github.com/kedacore/timer-service/internal/clock"
	"github.com/kedacore/timer-service/internal/envelope"
	"github.com/kedacore/timer-service/internal/observability"
	"github.com/kedacore/timer-service/internal/ports"
	"github.com/kedacore/timer-service/internal/timer"
	"github.com/kedacore/timer-service/internal/timerid"
)

// PollDueTimers is one pass of the polling loop. It scans for due
// timers across all tenants, publishes a DueTimeReached envelope for each,
// and marks it fired — sequentially, so a crash mid-batch leaves
// at-least-once, never at-most-once, redelivery semantics.
type PollDueTimers struct {
	Persistence ports.TimerPersistence
	Bus         ports.EventBus
	Clock       clock.Clock
	Logger      logr.Logger
}

// Run executes one poll pass. It returns a *apperrors.PersistenceError if
// FindDue itself fails (no side effects happened), a
// *apperrors.BatchProcessingError if at least one timer in the batch
// failed to publish or mark fired, or nil if every due timer in the batch
// fired cleanly (including the empty-batch case).
func (w PollDueTimers) Run(ctx context.Context) error {
	start := time.Now()
	now := w.Clock.Now()

	ctx, span := tracer.Start(ctx, "Timer.PollDueTimers", trace.WithAttributes(
		attribute.String("now", now.String()),
	))
	defer span.End()
	defer func() { observability.PollDuration.Observe(time.Since(start).Seconds()) }()

	batch, err := w.Persistence.FindDue(ctx, now)
	if err != nil {
		var persistErr *apperrors.PersistenceError
		if !errors.As(err, &persistErr) {
			err = apperrors.NewPersistenceError("findDue", err)
		}
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.Int("batchSize", len(batch)))
	observability.PollBatchSize.Observe(float64(len(batch)))
	if len(batch) == 0 {
		return nil
	}

	failed := 0
	for _, t := range batch {
		if err := w.fireOne(ctx, t, now); err != nil {
			failed++
			w.Logger.Error(err, "failed to fire timer", "tenantId", t.TenantID, "serviceCallId", t.ServiceCallID)
			continue
		}
		observability.TimersFiredTotal.WithLabelValues(t.TenantID.String()).Inc()
	}

	if failed > 0 {
		return &apperrors.BatchProcessingError{FailedCount: failed, TotalCount: len(batch)}
	}
	return nil
}

// fireOne publishes the DueTimeReached envelope for t and, only on publish
// success, marks it fired. Publish strictly precedes MarkFired: a crash
// between the two leaves t Scheduled, so the next poll re-publishes it.
func (w PollDueTimers) fireOne(ctx context.Context, t timer.Timer, now time.Time) error {
	envID, err := timerid.NewEnvelopeID()
	if err != nil {
		return err
	}

	env, err := envelope.NewDueTimeReached(envID, t.TenantID, t.ServiceCallID, t.CorrelationID, now)
	if err != nil {
		return err
	}

	if err := w.Bus.Publish(ctx, env); err != nil {
		return err
	}

	if err := w.Persistence.MarkFired(ctx, t.Key, now); err != nil {
		return err
	}

	return nil
}
