// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acwebremote/acremote/pkg/tadiran"
)

// commandFlags are the remote settings shared by send and encode
type commandFlags struct {
	mode        string
	temperature uint8
	fan         uint8
	swing       bool
	off         bool
}

func (f *commandFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "cool", "Mode: off, cool, heat, circulate (fan), dry or 0-4")
	cmd.Flags().Uint8VarP(&f.temperature, "temp", "t", 24, fmt.Sprintf("Temperature in Celsius (%d-%d)", tadiran.MinTemperature, tadiran.MaxTemperature))
	cmd.Flags().Uint8VarP(&f.fan, "fan", "f", 1, fmt.Sprintf("Fan level (%d-%d)", tadiran.MinFan, tadiran.MaxFan))
	cmd.Flags().BoolVarP(&f.swing, "swing", "s", false, "Enable vane swing")
	cmd.Flags().BoolVar(&f.off, "off", false, "Turn the unit off (other settings are ignored)")
}

// command converts the flags to a validated remote command. Mode 0 (off)
// and --off both produce a power-off command; only --off skips range checks.
func (f *commandFlags) command() (tadiran.Command, error) {
	if f.off {
		return tadiran.Command{Power: false}, nil
	}

	mode, err := tadiran.ParseMode(f.mode)
	if err != nil {
		return tadiran.Command{}, err
	}

	c := tadiran.CommandFromMode(mode, f.temperature, f.fan, f.swing)
	if errs := tadiran.ValidateCommand(c); len(errs) > 0 {
		return c, validationFailure(errs)
	}
	return c, nil
}

// validationFailure folds validation errors into a single error
func validationFailure(errs []tadiran.ValidationError) error {
	msgs := make([]string, len(errs))
	for i := range errs {
		msgs[i] = errs[i].Message
	}
	return fmt.Errorf("invalid command: %s", strings.Join(msgs, "; "))
}
