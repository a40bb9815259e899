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

// Package postgres is the reference TimerPersistence adapter, backed by
// jackc/pgx/v5's connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kedacore/timer-service/internal/apperrors"
	"github.com/kedacore/timer-service/internal/timer"
	"github.com/kedacore/timer-service/internal/timerid"
)

// Schema is the reference DDL this adapter expects. Callers are
// responsible for applying it (or an equivalent migration) before use.
const Schema = `
CREATE TABLE IF NOT EXISTS timers (
	tenant_id       uuid        NOT NULL,
	service_call_id uuid        NOT NULL,
	due_at          timestamptz NOT NULL,
	registered_at   timestamptz NOT NULL,
	correlation_id  uuid,
	state           text        NOT NULL CHECK (state IN ('Scheduled', 'Reached')),
	reached_at      timestamptz,
	PRIMARY KEY (tenant_id, service_call_id)
);

CREATE INDEX IF NOT EXISTS timers_due_idx ON timers (state, due_at);
`

// Store is a TimerPersistence adapter over a pgxpool.Pool.
type Store struct {
	pool   *pgxpool.Pool
	logger logr.Logger
}

// New wraps an already-constructed pool. Callers own the pool's lifetime.
func New(pool *pgxpool.Pool, logger logr.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Connect builds a pool from dsn and wraps it.
func Connect(ctx context.Context, dsn string, logger logr.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperrors.NewPersistenceError("connect", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.NewPersistenceError("connect", err)
	}
	return New(pool, logger), nil
}

// Close releases the underlying pool.
func (s *Store) Close() { s.pool.Close() }

// Save upserts t. A second Save for the same Key overwrites DueAt,
// RegisteredAt, and CorrelationID unconditionally, including dropping
// CorrelationID back to NULL.
func (s *Store) Save(ctx context.Context, t timer.Timer) error {
	const q = `
INSERT INTO timers (tenant_id, service_call_id, due_at, registered_at, correlation_id, state)
VALUES ($1, $2, $3, $4, $5, 'Scheduled')
ON CONFLICT (tenant_id, service_call_id) DO UPDATE
SET due_at = EXCLUDED.due_at,
    registered_at = EXCLUDED.registered_at,
    correlation_id = EXCLUDED.correlation_id`

	_, err := s.pool.Exec(ctx, q, t.TenantID, t.ServiceCallID, t.DueAt, t.RegisteredAt, nullableID(t.CorrelationID))
	if err != nil {
		return apperrors.NewPersistenceError("save", err)
	}
	return nil
}

// Find returns the timer at key in any state.
func (s *Store) Find(ctx context.Context, key timer.Key) (timer.Timer, bool, error) {
	return s.find(ctx, key, false)
}

// FindScheduledTimer returns the timer at key, excluding Reached timers.
func (s *Store) FindScheduledTimer(ctx context.Context, key timer.Key) (timer.Timer, bool, error) {
	return s.find(ctx, key, true)
}

func (s *Store) find(ctx context.Context, key timer.Key, scheduledOnly bool) (timer.Timer, bool, error) {
	q := `
SELECT tenant_id, service_call_id, due_at, registered_at, correlation_id, state, reached_at
FROM timers WHERE tenant_id = $1 AND service_call_id = $2`
	if scheduledOnly {
		q += ` AND state = 'Scheduled'`
	}

	row := s.pool.QueryRow(ctx, q, key.TenantID, key.ServiceCallID)
	t, err := scanTimer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return timer.Timer{}, false, nil
	}
	if err != nil {
		return timer.Timer{}, false, apperrors.NewPersistenceError("find", err)
	}
	return t, true, nil
}

// FindDue returns every Scheduled timer across all tenants whose DueAt is
// at or before now, ordered by DueAt ascending.
func (s *Store) FindDue(ctx context.Context, now time.Time) ([]timer.Timer, error) {
	const q = `
SELECT tenant_id, service_call_id, due_at, registered_at, correlation_id, state, reached_at
FROM timers WHERE state = 'Scheduled' AND due_at <= $1
ORDER BY due_at ASC`

	rows, err := s.pool.Query(ctx, q, now)
	if err != nil {
		return nil, apperrors.NewPersistenceError("findDue", err)
	}
	defer rows.Close()

	var out []timer.Timer
	for rows.Next() {
		t, err := scanTimer(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError("findDue", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("findDue", err)
	}
	return out, nil
}

// MarkFired transitions the timer at key to Reached, conditional on it
// still being Scheduled. Firing an already-Reached or nonexistent timer is
// a silent no-op.
func (s *Store) MarkFired(ctx context.Context, key timer.Key, reachedAt time.Time) error {
	const q = `
UPDATE timers SET state = 'Reached', reached_at = $3
WHERE tenant_id = $1 AND service_call_id = $2 AND state = 'Scheduled'`

	_, err := s.pool.Exec(ctx, q, key.TenantID, key.ServiceCallID, reachedAt)
	if err != nil {
		return apperrors.NewPersistenceError("markFired", err)
	}
	return nil
}

// Delete removes any row at key.
func (s *Store) Delete(ctx context.Context, key timer.Key) error {
	const q = `DELETE FROM timers WHERE tenant_id = $1 AND service_call_id = $2`
	_, err := s.pool.Exec(ctx, q, key.TenantID, key.ServiceCallID)
	if err != nil {
		return apperrors.NewPersistenceError("delete", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTimer(row rowScanner) (timer.Timer, error) {
	var (
		t             timer.Timer
		state         string
		correlationID *timerid.CorrelationID
		reachedAt     *time.Time
	)
	if err := row.Scan(&t.TenantID, &t.ServiceCallID, &t.DueAt, &t.RegisteredAt, &correlationID, &state, &reachedAt); err != nil {
		return timer.Timer{}, err
	}
	t.CorrelationID = correlationID
	t.ReachedAt = reachedAt
	switch state {
	case "Scheduled":
		t.State = timer.Scheduled
	case "Reached":
		t.State = timer.Reached
	default:
		return timer.Timer{}, fmt.Errorf("unrecognized timer state %q", state)
	}
	return t, nil
}

func nullableID(id *timerid.CorrelationID) any {
	if id == nil {
		return nil
	}
	return *id
}
