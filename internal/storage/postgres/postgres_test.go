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

// This package talks to PostgreSQL exclusively through pgxpool.Pool, which
// has no in-process fake: these tests exercise the adapter's row-shape and
// schema logic directly rather than standing up a database.
package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kedacore/timer-service/internal/timer"
	"github.com/kedacore/timer-service/internal/timerid"
)

// fakeRow implements rowScanner by copying fixed values into the
// destinations Scan receives, mirroring what pgx.Row.Scan would do for one
// result row.
type fakeRow struct {
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch v := d.(type) {
		case *timerid.TenantID:
			*v = r.values[i].(timerid.TenantID)
		case *timerid.ServiceCallID:
			*v = r.values[i].(timerid.ServiceCallID)
		case *time.Time:
			*v = r.values[i].(time.Time)
		case **timerid.CorrelationID:
			*v, _ = r.values[i].(*timerid.CorrelationID)
		case *string:
			*v = r.values[i].(string)
		case **time.Time:
			*v, _ = r.values[i].(*time.Time)
		}
	}
	return nil
}

func TestScanTimerScheduled(t *testing.T) {
	tenant, err := timerid.NewTenantID()
	require.NoError(t, err)
	call, err := timerid.NewServiceCallID()
	require.NoError(t, err)
	dueAt := time.Now().Add(time.Hour)
	registeredAt := time.Now()

	row := fakeRow{values: []any{tenant, call, dueAt, registeredAt, (*timerid.CorrelationID)(nil), "Scheduled", (*time.Time)(nil)}}

	tm, err := scanTimer(row)
	require.NoError(t, err)
	assert.Equal(t, tenant, tm.TenantID)
	assert.Equal(t, call, tm.ServiceCallID)
	assert.True(t, timer.IsScheduled(tm))
	assert.Nil(t, tm.CorrelationID)
	assert.Nil(t, tm.ReachedAt)
}

func TestScanTimerReached(t *testing.T) {
	tenant, err := timerid.NewTenantID()
	require.NoError(t, err)
	call, err := timerid.NewServiceCallID()
	require.NoError(t, err)
	corr, err := timerid.NewCorrelationID()
	require.NoError(t, err)
	dueAt := time.Now().Add(-time.Hour)
	registeredAt := dueAt.Add(-time.Hour)
	reachedAt := dueAt.Add(time.Minute)

	row := fakeRow{values: []any{tenant, call, dueAt, registeredAt, &corr, "Reached", &reachedAt}}

	tm, err := scanTimer(row)
	require.NoError(t, err)
	assert.True(t, timer.IsReached(tm))
	require.NotNil(t, tm.CorrelationID)
	assert.Equal(t, corr, *tm.CorrelationID)
	require.NotNil(t, tm.ReachedAt)
	assert.True(t, reachedAt.Equal(*tm.ReachedAt))
}

func TestScanTimerUnrecognizedState(t *testing.T) {
	tenant, err := timerid.NewTenantID()
	require.NoError(t, err)
	call, err := timerid.NewServiceCallID()
	require.NoError(t, err)

	row := fakeRow{values: []any{tenant, call, time.Now(), time.Now(), (*timerid.CorrelationID)(nil), "Cancelled", (*time.Time)(nil)}}

	_, err = scanTimer(row)
	assert.Error(t, err)
}

func TestNullableID(t *testing.T) {
	assert.Nil(t, nullableID(nil))

	corr, err := timerid.NewCorrelationID()
	require.NoError(t, err)
	assert.Equal(t, corr, nullableID(&corr))
}

func TestSchemaDefinesExpectedShape(t *testing.T) {
	assert.Contains(t, Schema, "timers")
	assert.Contains(t, Schema, "PRIMARY KEY (tenant_id, service_call_id)")
	assert.Contains(t, Schema, "timers_due_idx")
}
