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

// Package ports declares the two abstract collaborators the timer core
// depends on: TimerPersistence and EventBus. Concrete adapters live under
// internal/storage and internal/eventbus; run `go generate ./...` to
// regenerate their go.uber.org/mock doubles used by the workflow/worker
// unit tests.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mocks

import (
	"context"
	"time"

	"github.com/kedacore/timer-service/internal/envelope"
	"github.com/kedacore/timer-service/internal/timer"
)

// TimerPersistence is the durable, multi-tenant store for timers.
type TimerPersistence interface {
	// Save upserts a Scheduled timer under its Key: a second save for
	// the same key overwrites DueAt, RegisteredAt, and CorrelationID,
	// including dropping CorrelationID to nil.
	Save(ctx context.Context, t timer.Timer) error

	// Find returns the timer stored under key in any state, or
	// (Timer{}, false, nil) if none exists. Tenant-scoped: a key
	// belonging to another tenant must not be returned.
	Find(ctx context.Context, key timer.Key) (timer.Timer, bool, error)

	// FindScheduledTimer is like Find but excludes timers already
	// Reached.
	FindScheduledTimer(ctx context.Context, key timer.Key) (timer.Timer, bool, error)

	// FindDue returns every Scheduled timer across all tenants whose
	// DueAt is less than or equal to now (inclusive), ordered by DueAt
	// ascending.
	FindDue(ctx context.Context, now time.Time) ([]timer.Timer, error)

	// MarkFired transitions the timer at key from Scheduled to Reached
	// at reachedAt. It is a no-op if no timer exists at key, and a
	// no-op that preserves the original ReachedAt if the timer is
	// already Reached.
	MarkFired(ctx context.Context, key timer.Key, reachedAt time.Time) error

	// Delete removes any row at key. Exposed for operational use; the
	// core workflows never call it.
	Delete(ctx context.Context, key timer.Key) error
}

// Handler processes one envelope delivered by an EventBus subscription. A
// nil return acks the message; a non-nil return naks it, subject to the
// adapter's redelivery/DLQ policy. Handlers must be idempotent: redelivery
// is possible even after a successful ack was requested, if the ack itself
// is lost.
type Handler func(ctx context.Context, env envelope.Envelope) error

// EventBus is the abstract message broker contract.
type EventBus interface {
	// Publish places every envelope in envs, in order. envs must be
	// non-empty. The adapters in this module place envelopes one at a
	// time: a failure on one envelope leaves the envelopes before it
	// placed and does not send the rest, so only a single-envelope call is
	// all-or-nothing.
	Publish(ctx context.Context, envs ...envelope.Envelope) error

	// Subscribe joins a durable, shared consumer on topics and delivers
	// one message at a time to handler. It blocks until ctx is
	// cancelled or a subscription-level error occurs.
	Subscribe(ctx context.Context, topics []string, handler Handler) error
}
