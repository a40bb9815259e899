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

// Package worker runs the fixed-cadence loop that drives PollDueTimers.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"

	"github.com/kedacore/timer-service/internal/apperrors"
	"github.com/kedacore/timer-service/internal/workflow"
)

// Poller repeatedly runs a PollDueTimers pass on a fixed cadence,
// independent of how long any individual pass takes.
type Poller struct {
	Poll     workflow.PollDueTimers
	Interval time.Duration
	Logger   logr.Logger
}

// Run blocks until ctx is cancelled. Each pass fires at a fixed schedule:
// the timer for the next tick is armed before the pass runs, so a slow
// pass shortens the wait before the next one rather than pushing every
// subsequent tick later.
func (p Poller) Run(ctx context.Context) error {
	next := time.Now()

	for {
		delay := time.Since(next)
		p.Logger.V(1).Info("poll tick", "scheduleDelay", delay)

		tmr := time.NewTimer(p.Interval)
		next = time.Now().Add(p.Interval)

		p.runOnce(ctx)

		select {
		case <-tmr.C:
			tmr.Stop()
		case <-ctx.Done():
			tmr.Stop()
			return ctx.Err()
		}
	}
}

// runOnce executes a single PollDueTimers pass. Partial-batch failures
// (*apperrors.BatchProcessingError) and transient persistence failures are
// logged and swallowed so the loop keeps running; any other error would
// indicate a programming mistake and is also logged, never propagated,
// since a single bad pass must not take down the whole poller.
func (p Poller) runOnce(ctx context.Context) {
	err := p.Poll.Run(ctx)
	if err == nil {
		return
	}

	var batchErr *apperrors.BatchProcessingError
	var persistErr *apperrors.PersistenceError
	switch {
	case errors.As(err, &batchErr):
		p.Logger.Error(err, "poll pass completed with failures", "failed", batchErr.FailedCount, "total", batchErr.TotalCount)
	case errors.As(err, &persistErr):
		p.Logger.Error(err, "poll pass failed to read due timers")
	default:
		p.Logger.Error(err, "poll pass failed")
	}
}
