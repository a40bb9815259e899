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

// Package signals turns SIGINT/SIGTERM into context cancellation.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
)

// Context returns a context cancelled on the first SIGINT or SIGTERM. A
// second signal during shutdown exits the process immediately, so an
// operator can force a stuck shutdown rather than waiting it out.
func Context(logger logr.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, beginning shutdown", "signal", sig.String())
		cancel()

		sig = <-sigCh
		logger.Info("received second signal during shutdown, exiting immediately", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx
}
