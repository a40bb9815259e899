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

// Package command validates decoded commands before they reach a
// workflow, so a malformed ScheduleTimer envelope fails fast with a
// descriptive error instead of propagating a zero-valued DueAt or empty
// ID into persistence.
package command

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kedacore/timer-service/internal/envelope"
)

var validate = validator.New()

type scheduleTimerShape struct {
	TenantID      string `validate:"required,uuid,ne=00000000-0000-0000-0000-000000000000"`
	ServiceCallID string `validate:"required,uuid,ne=00000000-0000-0000-0000-000000000000"`
	DueAt         string `validate:"required"`
}

// ValidateScheduleTimer checks that cmd carries well-formed, non-zero
// identifiers and a due time. It does not check DueAt against the current
// time: a due time in the past is valid (the timer fires on the next
// poll) and a due time far in the future is valid (it simply waits).
func ValidateScheduleTimer(cmd envelope.ScheduleTimerCommand) error {
	shape := scheduleTimerShape{
		TenantID:      cmd.TenantID.String(),
		ServiceCallID: cmd.ServiceCallID.String(),
	}
	if !cmd.DueAt.IsZero() {
		shape.DueAt = cmd.DueAt.String()
	}

	if err := validate.Struct(shape); err != nil {
		return fmt.Errorf("invalid ScheduleTimer command: %w", err)
	}
	return nil
}
