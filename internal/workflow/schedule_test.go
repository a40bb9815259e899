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
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kedacore/timer-service/internal/clock"
	"github.com/kedacore/timer-service/internal/envelope"
	"github.com/kedacore/timer-service/internal/ports/mocks"
	"github.com/kedacore/timer-service/internal/timer"
	"github.com/kedacore/timer-service/internal/timerid"
)

func scheduleTimerEnvelope(t *testing.T, tenant timerid.TenantID, call timerid.ServiceCallID, dueAt time.Time) envelope.Envelope {
	t.Helper()
	payload, err := json.Marshal(envelope.ScheduleTimerCommand{
		Type:          envelope.TypeScheduleTimer,
		TenantID:      tenant,
		ServiceCallID: call,
		DueAt:         dueAt,
	})
	require.NoError(t, err)
	envID, err := timerid.NewEnvelopeID()
	require.NoError(t, err)
	return envelope.Envelope{ID: envID, Type: envelope.TypeScheduleTimer, TenantID: tenant, Payload: payload}
}

func TestScheduleTimerHandleSavesTimer(t *testing.T) {
	ctrl := gomock.NewController(t)
	persistence := mocks.NewMockTimerPersistence(ctrl)

	tenant, err := timerid.NewTenantID()
	require.NoError(t, err)
	call, err := timerid.NewServiceCallID()
	require.NoError(t, err)
	dueAt := time.Now().Add(time.Hour)
	registeredAt := time.Now()
	fixedClock := clock.NewFixed(registeredAt)

	env := scheduleTimerEnvelope(t, tenant, call, dueAt)

	persistence.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, saved timer.Timer) error {
			assert.Equal(t, tenant, saved.TenantID)
			assert.Equal(t, call, saved.ServiceCallID)
			assert.True(t, dueAt.Equal(saved.DueAt))
			assert.Equal(t, registeredAt, saved.RegisteredAt)
			assert.True(t, timer.IsScheduled(saved))
			return nil
		})

	w := ScheduleTimer{Persistence: persistence, Clock: fixedClock, Logger: testr.New(t)}
	assert.NoError(t, w.Handle(context.Background(), env))
}

func TestScheduleTimerHandleRejectsWrongEnvelopeType(t *testing.T) {
	ctrl := gomock.NewController(t)
	persistence := mocks.NewMockTimerPersistence(ctrl)

	envID, err := timerid.NewEnvelopeID()
	require.NoError(t, err)
	env := envelope.Envelope{ID: envID, Type: envelope.TypeDueTimeReached, Payload: json.RawMessage(`{}`)}

	w := ScheduleTimer{Persistence: persistence, Clock: clock.System{}, Logger: testr.New(t)}
	assert.Error(t, w.Handle(context.Background(), env))
}

func TestScheduleTimerHandleRejectsMalformedCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	persistence := mocks.NewMockTimerPersistence(ctrl)

	tenant, err := timerid.NewTenantID()
	require.NoError(t, err)
	payload, err := json.Marshal(envelope.ScheduleTimerCommand{
		Type:     envelope.TypeScheduleTimer,
		TenantID: tenant,
		// ServiceCallID intentionally left zero-valued: fails the non-nil-UUID check.
		DueAt: time.Now(),
	})
	require.NoError(t, err)
	envID, err := timerid.NewEnvelopeID()
	require.NoError(t, err)
	env := envelope.Envelope{ID: envID, Type: envelope.TypeScheduleTimer, TenantID: tenant, Payload: payload}

	w := ScheduleTimer{Persistence: persistence, Clock: clock.System{}, Logger: testr.New(t)}
	assert.Error(t, w.Handle(context.Background(), env))
}

func TestScheduleTimerHandlePropagatesPersistenceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	persistence := mocks.NewMockTimerPersistence(ctrl)

	tenant, err := timerid.NewTenantID()
	require.NoError(t, err)
	call, err := timerid.NewServiceCallID()
	require.NoError(t, err)
	env := scheduleTimerEnvelope(t, tenant, call, time.Now().Add(time.Hour))

	wantErr := errors.New("connection reset")
	persistence.EXPECT().Save(gomock.Any(), gomock.Any()).Return(wantErr)

	w := ScheduleTimer{Persistence: persistence, Clock: clock.System{}, Logger: testr.New(t)}
	err = w.Handle(context.Background(), env)
	assert.ErrorIs(t, err, wantErr)
}
