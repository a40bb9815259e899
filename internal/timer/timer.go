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

// Package timer implements the Timer aggregate: a tagged variant over the
// Scheduled and Reached states, with pure, total state transitions. Nothing
// in this package performs I/O or returns an error — persistence and
// messaging are the concern of the ports this aggregate is handed to.
package timer

import (
	"time"

	"github.com/kedacore/timer-service/internal/timerid"
)

// State discriminates the two shapes a Timer can take.
type State int

const (
	// Scheduled is the waiting state: the timer has not yet fired.
	Scheduled State = iota
	// Reached is the terminal state: the timer has fired exactly once,
	// from the aggregate's point of view (the port may still re-deliver
	// the corresponding event at-least-once).
	Reached
)

func (s State) String() string {
	switch s {
	case Scheduled:
		return "Scheduled"
	case Reached:
		return "Reached"
	default:
		return "Unknown"
	}
}

// Key is the composite primary identity of a Timer: at most one Timer may
// exist per Key at any time.
type Key struct {
	TenantID      timerid.TenantID
	ServiceCallID timerid.ServiceCallID
}

// Timer is the aggregate. ReachedAt is non-nil if and only if State ==
// Reached; callers should prefer IsScheduled/IsReached over inspecting
// State directly, so that future additional states
// (there are none planned) can't silently break exhaustiveness.
type Timer struct {
	Key

	DueAt         time.Time
	RegisteredAt  time.Time
	CorrelationID *timerid.CorrelationID

	State     State
	ReachedAt *time.Time
}

// Schedule constructs a new Timer in the Scheduled state.
func Schedule(key Key, dueAt, registeredAt time.Time, correlationID *timerid.CorrelationID) Timer {
	return Timer{
		Key:           key,
		DueAt:         dueAt,
		RegisteredAt:  registeredAt,
		CorrelationID: correlationID,
		State:         Scheduled,
	}
}

// MarkReached transitions a Scheduled timer to Reached at reachedAt,
// preserving every other field. Calling it on a Timer that is already
// Reached is a no-op that returns the original, unchanged: the caller (the
// TimerPersistence port) owns idempotency, but the aggregate itself stays
// monotone if asked to transition twice.
func MarkReached(t Timer, reachedAt time.Time) Timer {
	if t.State == Reached {
		return t
	}
	reached := t
	reached.State = Reached
	reached.ReachedAt = &reachedAt
	return reached
}

// IsDue reports whether a Scheduled timer's due moment has arrived,
// inclusive of the boundary: a timer due exactly at now counts as due.
func IsDue(t Timer, now time.Time) bool {
	return !t.DueAt.After(now)
}

// IsScheduled reports whether t is still waiting to fire.
func IsScheduled(t Timer) bool { return t.State == Scheduled }

// IsReached reports whether t has already fired.
func IsReached(t Timer) bool { return t.State == Reached }
