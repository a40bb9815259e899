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

// Package metadata carries correlation/causation identifiers on the
// ambient context rather than threading them through every workflow
// signature.
package metadata

import (
	"context"

	"github.com/kedacore/timer-service/internal/timerid"
)

// Message is the immutable metadata attached to a context at subscription
// entry and read back at publish time.
type Message struct {
	CorrelationID *timerid.CorrelationID
	CausationID   *timerid.EnvelopeID
}

type contextKey struct{}

// WithMessage returns a context carrying m.
func WithMessage(ctx context.Context, m Message) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// FromContext returns the Message attached to ctx, or the zero Message if
// none was attached.
func FromContext(ctx context.Context) Message {
	m, _ := ctx.Value(contextKey{}).(Message)
	return m
}
