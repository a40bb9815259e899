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

package envelope

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedacore/timer-service/internal/timerid"
)

func TestDecodeScheduleTimer(t *testing.T) {
	tenant, err := timerid.NewTenantID()
	require.NoError(t, err)
	call, err := timerid.NewServiceCallID()
	require.NoError(t, err)
	dueAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	payload, err := json.Marshal(ScheduleTimerCommand{
		Type:          TypeScheduleTimer,
		TenantID:      tenant,
		ServiceCallID: call,
		DueAt:         dueAt,
	})
	require.NoError(t, err)

	envID, err := timerid.NewEnvelopeID()
	require.NoError(t, err)
	env := Envelope{ID: envID, Type: TypeScheduleTimer, TenantID: tenant, Payload: payload}

	cmd, err := DecodeScheduleTimer(env)
	require.NoError(t, err)
	assert.Equal(t, tenant, cmd.TenantID)
	assert.Equal(t, call, cmd.ServiceCallID)
	assert.True(t, dueAt.Equal(cmd.DueAt))
}

func TestDecodeScheduleTimerWrongType(t *testing.T) {
	envID, err := timerid.NewEnvelopeID()
	require.NoError(t, err)
	env := Envelope{ID: envID, Type: TypeDueTimeReached, Payload: json.RawMessage(`{}`)}

	_, err = DecodeScheduleTimer(env)
	assert.Error(t, err)
}

func TestDecodeScheduleTimerMalformedPayload(t *testing.T) {
	envID, err := timerid.NewEnvelopeID()
	require.NoError(t, err)
	env := Envelope{ID: envID, Type: TypeScheduleTimer, Payload: json.RawMessage(`not json`)}

	_, err = DecodeScheduleTimer(env)
	assert.Error(t, err)
}

func TestNewDueTimeReached(t *testing.T) {
	envID, err := timerid.NewEnvelopeID()
	require.NoError(t, err)
	tenant, err := timerid.NewTenantID()
	require.NoError(t, err)
	call, err := timerid.NewServiceCallID()
	require.NoError(t, err)
	corr, err := timerid.NewCorrelationID()
	require.NoError(t, err)
	reachedAt := time.Now()

	env, err := NewDueTimeReached(envID, tenant, call, &corr, reachedAt)
	require.NoError(t, err)

	assert.Equal(t, envID, env.ID)
	assert.Equal(t, TypeDueTimeReached, env.Type)
	assert.Equal(t, tenant, env.TenantID)
	require.NotNil(t, env.AggregateID)
	assert.Equal(t, call.String(), *env.AggregateID)
	assert.Equal(t, &corr, env.CorrelationID)
	assert.Nil(t, env.CausationID)

	var decoded DueTimeReachedEvent
	require.NoError(t, json.Unmarshal(env.Payload, &decoded))
	assert.Equal(t, tenant, decoded.TenantID)
	assert.Equal(t, call, decoded.ServiceCallID)
	assert.True(t, reachedAt.Equal(decoded.ReachedAt))
}

func TestNewDueTimeReachedNilCorrelation(t *testing.T) {
	envID, err := timerid.NewEnvelopeID()
	require.NoError(t, err)
	tenant, err := timerid.NewTenantID()
	require.NoError(t, err)
	call, err := timerid.NewServiceCallID()
	require.NoError(t, err)

	env, err := NewDueTimeReached(envID, tenant, call, nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, env.CorrelationID)
}
