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

// Package observability wires Prometheus metrics and an HTTP /metrics
// endpoint for the timer service.
package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	// TimersScheduledTotal counts ScheduleTimer commands successfully
	// persisted.
	TimersScheduledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "timer_service",
			Subsystem: "schedule",
			Name:      "timers_scheduled_total",
			Help:      "Total number of timers persisted by ScheduleTimer",
		},
		[]string{"tenant"},
	)

	// TimersFiredTotal counts DueTimeReached events successfully published
	// and marked fired.
	TimersFiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "timer_service",
			Subsystem: "poll",
			Name:      "timers_fired_total",
			Help:      "Total number of timers successfully fired by PollDueTimers",
		},
		[]string{"tenant"},
	)

	// PollBatchSize observes the number of due timers found per poll pass.
	PollBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "timer_service",
			Subsystem: "poll",
			Name:      "batch_size",
			Help:      "Number of due timers returned by a single FindDue call",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// PollDuration observes the wall-clock time of a single poll pass.
	PollDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "timer_service",
			Subsystem: "poll",
			Name:      "pass_duration_seconds",
			Help:      "Duration of one PollDueTimers pass",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	registry.MustRegister(TimersScheduledTotal, TimersFiredTotal, PollBatchSize, PollDuration)
}

// Server serves the registered metrics over HTTP until ctx is cancelled.
func Server(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		return err
	}
}
