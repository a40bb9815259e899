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

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"

	"github.com/kedacore/timer-service/internal/clock"
	"github.com/kedacore/timer-service/internal/envelope"
	eventbusinmemory "github.com/kedacore/timer-service/internal/eventbus/inmemory"
	"github.com/kedacore/timer-service/internal/ports"
	storageinmemory "github.com/kedacore/timer-service/internal/storage/inmemory"
)

// failingBus fails Subscribe with a fixed, non-context error so tests can
// distinguish a genuine goroutine failure from graceful shutdown.
type failingBus struct {
	err error
}

func (b failingBus) Publish(context.Context, ...envelope.Envelope) error { return nil }
func (b failingBus) Subscribe(context.Context, []string, ports.Handler) error {
	return b.err
}

func TestServiceRunReturnsNilOnGracefulShutdown(t *testing.T) {
	svc := Service{
		Persistence:  storageinmemory.New(),
		Bus:          eventbusinmemory.New(),
		Clock:        clock.System{},
		Logger:       testr.New(t),
		PollInterval: 5 * time.Millisecond,
		Retry:        RetryPolicy{BaseDelay: time.Millisecond, Factor: 2, MaxAttempts: 1, Logger: testr.New(t)},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := svc.Run(ctx)
	assert.NoError(t, err)
}

func TestServiceRunPropagatesGenuineFailure(t *testing.T) {
	wantErr := errors.New("amqp channel closed")
	svc := Service{
		Persistence:  storageinmemory.New(),
		Bus:          failingBus{err: wantErr},
		Clock:        clock.System{},
		Logger:       testr.New(t),
		PollInterval: 5 * time.Millisecond,
		Retry:        RetryPolicy{BaseDelay: time.Millisecond, Factor: 2, MaxAttempts: 1, Logger: testr.New(t)},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := svc.Run(ctx)
	assert.ErrorIs(t, err, wantErr)
}
