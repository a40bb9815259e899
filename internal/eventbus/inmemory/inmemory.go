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

// Package inmemory is a process-local EventBus adapter used by tests and
// local/dev runs. It has no topic partitioning: every Subscribe call on a
// topic a Publish targets receives that envelope, in publish order.
package inmemory

import (
	"context"
	"sync"

	"github.com/kedacore/timer-service/internal/envelope"
	"github.com/kedacore/timer-service/internal/ports"
)

// Bus is a goroutine-safe, unbuffered fan-out bus.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]ports.Handler
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]ports.Handler)}
}

// Publish delivers every envelope in envs synchronously to every handler
// subscribed to its topic (envelope.TopicCommands for ScheduleTimer,
// envelope.TopicEvents for DueTimeReached). A handler error is logged to
// nothing but returned to the caller as-is; this adapter performs no
// retry since tests generally want publish failures surfaced directly.
// Delivery stops at the first handler error: envelopes before it have
// already been delivered and the rest are not.
func (b *Bus) Publish(ctx context.Context, envs ...envelope.Envelope) error {
	for _, env := range envs {
		topic := topicFor(env.Type)
		b.mu.RLock()
		handlers := append([]ports.Handler(nil), b.subs[topic]...)
		b.mu.RUnlock()

		for _, h := range handlers {
			if err := h(ctx, env); err != nil {
				return err
			}
		}
	}
	return nil
}

// Subscribe registers handler against every topic in topics and blocks
// until ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, topics []string, handler ports.Handler) error {
	b.mu.Lock()
	for _, topic := range topics {
		b.subs[topic] = append(b.subs[topic], handler)
	}
	b.mu.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

func topicFor(t envelope.Type) string {
	switch t {
	case envelope.TypeScheduleTimer:
		return envelope.TopicCommands
	case envelope.TypeDueTimeReached:
		return envelope.TopicEvents
	default:
		return string(t)
	}
}
