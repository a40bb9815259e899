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

// Package envelope defines the routing/metadata wrapper and the two
// payload types the timer service speaks on the wire.
package envelope

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kedacore/timer-service/internal/timerid"
)

// Type discriminates envelope payloads on the wire.
type Type string

const (
	// TypeScheduleTimer is the inbound command type.
	TypeScheduleTimer Type = "ScheduleTimer"
	// TypeDueTimeReached is the outbound event type.
	TypeDueTimeReached Type = "DueTimeReached"
)

// TopicCommands is the logical topic ScheduleTimer commands arrive on.
const TopicCommands = "Timer.Commands"

// TopicEvents is the logical topic DueTimeReached events are published on.
const TopicEvents = "Timer.Events"

// Envelope carries a typed payload plus the routing metadata every message
// in the system shares.
type Envelope struct {
	ID            timerid.EnvelopeID     `json:"id"`
	Type          Type                   `json:"type"`
	TenantID      timerid.TenantID       `json:"tenantId"`
	AggregateID   *string                `json:"aggregateId,omitempty"`
	TimestampMs   time.Time              `json:"timestampMs"`
	CorrelationID *timerid.CorrelationID `json:"correlationId,omitempty"`
	CausationID   *timerid.EnvelopeID    `json:"causationId,omitempty"`
	Payload       json.RawMessage        `json:"payload"`
}

// ScheduleTimerCommand is the inbound command payload.
type ScheduleTimerCommand struct {
	Type          Type                  `json:"type"`
	TenantID      timerid.TenantID      `json:"tenantId"`
	ServiceCallID timerid.ServiceCallID `json:"serviceCallId"`
	DueAt         time.Time             `json:"dueAt"`
}

// DueTimeReachedEvent is the outbound event payload.
type DueTimeReachedEvent struct {
	Type          Type                  `json:"type"`
	TenantID      timerid.TenantID      `json:"tenantId"`
	ServiceCallID timerid.ServiceCallID `json:"serviceCallId"`
	ReachedAt     time.Time             `json:"reachedAt"`
}

// DecodeScheduleTimer extracts the ScheduleTimerCommand payload of env,
// failing if env isn't of that type.
func DecodeScheduleTimer(env Envelope) (ScheduleTimerCommand, error) {
	if env.Type != TypeScheduleTimer {
		return ScheduleTimerCommand{}, fmt.Errorf("envelope %s: expected type %s, got %s", env.ID, TypeScheduleTimer, env.Type)
	}
	var cmd ScheduleTimerCommand
	if err := json.Unmarshal(env.Payload, &cmd); err != nil {
		return ScheduleTimerCommand{}, fmt.Errorf("decode ScheduleTimer payload: %w", err)
	}
	return cmd, nil
}

// NewDueTimeReached builds the outbound envelope for a fired timer: a
// fresh EnvelopeID, no causation, correlation carried over from the Timer,
// and AggregateID set to the ServiceCallID so ordered delivery can
// partition on it.
func NewDueTimeReached(id timerid.EnvelopeID, tenantID timerid.TenantID, serviceCallID timerid.ServiceCallID, correlationID *timerid.CorrelationID, reachedAt time.Time) (Envelope, error) {
	payload, err := json.Marshal(DueTimeReachedEvent{
		Type:          TypeDueTimeReached,
		TenantID:      tenantID,
		ServiceCallID: serviceCallID,
		ReachedAt:     reachedAt,
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal DueTimeReached payload: %w", err)
	}
	aggregateID := serviceCallID.String()
	return Envelope{
		ID:            id,
		Type:          TypeDueTimeReached,
		TenantID:      tenantID,
		AggregateID:   &aggregateID,
		TimestampMs:   reachedAt,
		CorrelationID: correlationID,
		CausationID:   nil,
		Payload:       payload,
	}, nil
}
