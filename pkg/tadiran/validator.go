// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tadiran

import "fmt"

// ValidationError describes a command field outside the range a Tadiran
// unit accepts.
type ValidationError struct {
	Field   string
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidateCommand checks the user-facing ranges of a command.
//
// The codec itself never rejects input: out-of-range values silently
// truncate to the byte fields. Callers that take values from users should
// run this first. Ranges are checked for power-off commands too, matching
// the web remote, which rejects mode 0 with a bad temperature.
func ValidateCommand(c Command) []ValidationError {
	errors := []ValidationError{}

	if c.Mode > MaxMode {
		errors = append(errors, ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("Invalid mode: %d (must be %d-%d)", c.Mode, ModeOff, MaxMode),
			Details: map[string]interface{}{"mode": uint8(c.Mode), "max": uint8(MaxMode)},
		})
	}

	if c.Temperature < MinTemperature || c.Temperature > MaxTemperature {
		errors = append(errors, ValidationError{
			Field:   "temperature",
			Message: fmt.Sprintf("Invalid temperature: %d (must be %d-%d)", c.Temperature, MinTemperature, MaxTemperature),
			Details: map[string]interface{}{"temperature": c.Temperature, "min": MinTemperature, "max": MaxTemperature},
		})
	}

	if c.Fan < MinFan || c.Fan > MaxFan {
		errors = append(errors, ValidationError{
			Field:   "fan",
			Message: fmt.Sprintf("Invalid fan speed: %d (must be %d-%d)", c.Fan, MinFan, MaxFan),
			Details: map[string]interface{}{"fan": c.Fan, "min": MinFan, "max": MaxFan},
		})
	}

	return errors
}
