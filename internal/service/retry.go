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
	"math"
	"time"

	"github.com/go-logr/logr"

	"github.com/kedacore/timer-service/internal/envelope"
	"github.com/kedacore/timer-service/internal/ports"
)

// RetryPolicy wraps a Handler in bounded exponential backoff, retrying
// the handler in place before its error is allowed to reach the broker as
// a nak.
type RetryPolicy struct {
	BaseDelay   time.Duration
	Factor      float64
	MaxAttempts int
	Logger      logr.Logger
}

// Wrap returns a Handler that retries next on failure according to p,
// sleeping BaseDelay * Factor^(n-1) before the n-th retry (so BaseDelay
// before the first), and returns the last error once MaxAttempts is
// exhausted.
func (p RetryPolicy) Wrap(next ports.Handler) ports.Handler {
	return func(ctx context.Context, env envelope.Envelope) error {
		var err error
		for attempt := 0; attempt < p.MaxAttempts; attempt++ {
			if attempt > 0 {
				delay := time.Duration(float64(p.BaseDelay) * math.Pow(p.Factor, float64(attempt-1)))
				p.Logger.V(1).Info("retrying envelope handler", "envelopeId", env.ID, "attempt", attempt+1, "delay", delay)
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			err = next(ctx, env)
			if err == nil {
				return nil
			}
		}
		return err
	}
}
