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

package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	noop "go.opentelemetry.io/otel/trace/noop"
)

// InstallNoopTracerProvider registers a no-op global TracerProvider. The
// timer service always opens spans named Timer.ScheduleTimer and
// Timer.PollDueTimers; wiring a real exporter (OTLP, Jaeger, ...) only
// requires replacing the provider otel.SetTracerProvider is called with.
func InstallNoopTracerProvider() {
	otel.SetTracerProvider(noop.NewTracerProvider())
}

// SetTracerProvider installs tp as the global TracerProvider.
func SetTracerProvider(tp trace.TracerProvider) {
	otel.SetTracerProvider(tp)
}

// ForceFlush is a hook for tracer providers that buffer spans (e.g. an
// OTLP batch exporter); the no-op provider ignores it.
func ForceFlush(_ context.Context) error { return nil }
