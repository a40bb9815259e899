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

// Package workflow implements the two units of effectful work the timer
// core is built from: ScheduleTimer and PollDueTimers.
package workflow

import (
	"context"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kedacore/timer-service/internal/clock"
	"github.com/kedacore/timer-service/internal/command"
	"github.com/kedacore/timer-service/internal/envelope"
	"github.com/kedacore/timer-service/internal/metadata"
	"github.com/kedacore/timer-service/internal/observability"
	"github.com/kedacore/timer-service/internal/ports"
	"github.com/kedacore/timer-service/internal/timer"
)

var tracer = otel.Tracer("github.com/kedacore/timer-service/internal/workflow")

// ScheduleTimer is the per-envelope ingest workflow. It extracts
// correlation/causation metadata, stamps the aggregate with the current
// time as RegisteredAt, persists it, and returns nil on success so the
// caller's subscription layer can ack.
type ScheduleTimer struct {
	Persistence ports.TimerPersistence
	Clock       clock.Clock
	Logger      logr.Logger
}

// Handle runs one pass of the ScheduleTimer workflow for env.
func (w ScheduleTimer) Handle(ctx context.Context, env envelope.Envelope) error {
	cmd, err := envelope.DecodeScheduleTimer(env)
	if err != nil {
		return err
	}
	if err := command.ValidateScheduleTimer(cmd); err != nil {
		return err
	}

	meta := metadata.FromContext(ctx)

	ctx, span := tracer.Start(ctx, "Timer.ScheduleTimer", trace.WithAttributes(
		attribute.String("tenantId", cmd.TenantID.String()),
		attribute.String("serviceCallId", cmd.ServiceCallID.String()),
		attribute.String("dueAt", cmd.DueAt.String()),
	))
	defer span.End()
	if meta.CorrelationID != nil {
		span.SetAttributes(attribute.String("correlationId", meta.CorrelationID.String()))
	}
	if meta.CausationID != nil {
		span.SetAttributes(attribute.String("causationId", meta.CausationID.String()))
	}

	registeredAt := w.Clock.Now()
	key := timer.Key{TenantID: cmd.TenantID, ServiceCallID: cmd.ServiceCallID}
	t := timer.Schedule(key, cmd.DueAt, registeredAt, meta.CorrelationID)

	if err := w.Persistence.Save(ctx, t); err != nil {
		span.RecordError(err)
		w.Logger.Error(err, "failed to save scheduled timer", "tenantId", cmd.TenantID, "serviceCallId", cmd.ServiceCallID)
		return err
	}

	observability.TimersScheduledTotal.WithLabelValues(cmd.TenantID.String()).Inc()
	w.Logger.V(1).Info("scheduled timer", "tenantId", cmd.TenantID, "serviceCallId", cmd.ServiceCallID, "dueAt", cmd.DueAt)
	return nil
}
