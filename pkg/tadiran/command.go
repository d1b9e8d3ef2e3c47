// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tadiran

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is a structured remote-control command.
//
// When Power is false every other field is ignored and the fixed off-frame
// is sent.
type Command struct {
	Power       bool
	Mode        Mode
	Fan         uint8
	Temperature uint8
	Swing       bool
}

// String returns the command in the form used by logs and the CLI.
func (c Command) String() string {
	if !c.Power {
		return "power=off"
	}
	swing := "off"
	if c.Swing {
		swing = "on"
	}
	return fmt.Sprintf("power=on mode=%s fan=%d temp=%dC swing=%s", c.Mode, c.Fan, c.Temperature, swing)
}

var modeNames = []string{"OFF", "COOL", "HEAT", "CIRCULATE", "DRY"}

// String returns the mode name, or MODE_<n> for codes without one.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("MODE_%d", uint8(m))
}

// ParseMode accepts a mode name (case-insensitive, "fan" is an alias for
// circulate) or a decimal mode code.
func ParseMode(s string) (Mode, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "FAN" {
		return ModeCirculate, nil
	}
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}

	code, err := strconv.ParseUint(name, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown mode %q", s)
	}
	return Mode(code), nil
}

// CommandFromMode builds a command the way the web remote does: mode 0 turns
// the unit off, any other mode turns it on.
func CommandFromMode(mode Mode, temperature, fan uint8, swing bool) Command {
	return Command{
		Power:       mode != ModeOff,
		Mode:        mode,
		Fan:         fan,
		Temperature: temperature,
		Swing:       swing,
	}
}
