// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tadiran

import (
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"cool", ModeCool, false},
		{"HEAT", ModeHeat, false},
		{" dry ", ModeDry, false},
		{"fan", ModeCirculate, false},
		{"circulate", ModeCirculate, false},
		{"off", ModeOff, false},
		{"3", ModeCirculate, false},
		{"12", Mode(12), false},
		{"turbo", 0, true},
		{"300", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	if ModeCool.String() != "COOL" {
		t.Errorf("ModeCool.String() = %q", ModeCool.String())
	}
	if Mode(9).String() != "MODE_9" {
		t.Errorf("Mode(9).String() = %q", Mode(9).String())
	}
}

func TestCommandFromMode(t *testing.T) {
	off := CommandFromMode(ModeOff, 24, 1, true)
	if off.Power {
		t.Error("mode 0 should produce a power-off command")
	}
	if off.String() != "power=off" {
		t.Errorf("String() = %q", off.String())
	}

	on := CommandFromMode(ModeHeat, 22, 2, false)
	if !on.Power || on.Mode != ModeHeat || on.Temperature != 22 || on.Fan != 2 {
		t.Errorf("unexpected command %+v", on)
	}
	if !strings.Contains(on.String(), "mode=HEAT") {
		t.Errorf("String() = %q, want mode=HEAT", on.String())
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name       string
		cmd        Command
		wantFields []string
	}{
		{
			name: "valid cool",
			cmd:  Command{Power: true, Mode: ModeCool, Fan: 1, Temperature: 24},
		},
		{
			name: "valid power off",
			cmd:  Command{Power: false, Mode: ModeOff, Fan: 1, Temperature: 24},
		},
		{
			name:       "power off still checks ranges",
			cmd:        Command{Power: false, Mode: Mode(9), Fan: 0, Temperature: 0},
			wantFields: []string{"mode", "temperature", "fan"},
		},
		{
			name:       "mode 0 with bad temperature",
			cmd:        CommandFromMode(ModeOff, 99, 1, false),
			wantFields: []string{"temperature"},
		},
		{
			name:       "temperature too low",
			cmd:        Command{Power: true, Mode: ModeCool, Fan: 1, Temperature: 15},
			wantFields: []string{"temperature"},
		},
		{
			name:       "temperature too high",
			cmd:        Command{Power: true, Mode: ModeHeat, Fan: 4, Temperature: 31},
			wantFields: []string{"temperature"},
		},
		{
			name:       "everything wrong",
			cmd:        Command{Power: true, Mode: Mode(7), Fan: 5, Temperature: 99},
			wantFields: []string{"mode", "temperature", "fan"},
		},
		{
			name:       "fan zero",
			cmd:        Command{Power: true, Mode: ModeDry, Fan: 0, Temperature: 20},
			wantFields: []string{"fan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCommand(tt.cmd)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.wantFields))
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("error %d field = %q, want %q", i, errs[i].Field, field)
				}
				if errs[i].Error() == "" {
					t.Errorf("error %d has an empty message", i)
				}
			}
		})
	}
}

func TestDescribeFrame(t *testing.T) {
	f := NewFrame()
	f.ApplyPowerOn(ModeCool, 2, 24, true)
	desc := DescribeFrame(f)
	for _, want := range []string{"power=on", "mode=COOL", "fan=2", "temp=24C", "swing=on", "(valid)"} {
		if !strings.Contains(desc, want) {
			t.Errorf("DescribeFrame() = %q, missing %q", desc, want)
		}
	}

	off := OffFrame()
	if desc := DescribeFrame(off); !strings.Contains(desc, "off literal") {
		t.Errorf("DescribeFrame(off) = %q", desc)
	}

	f[7]++
	if desc := DescribeFrame(f); !strings.Contains(desc, "INVALID") {
		t.Errorf("DescribeFrame(corrupt) = %q", desc)
	}

	afterOff := OffFrame()
	afterOff.ApplyPowerOn(ModeHeat, 1, 22, false)
	desc = DescribeFrame(afterOff)
	for _, want := range []string{"power=off", "mode=HEAT", "temp=22C", "(valid)"} {
		if !strings.Contains(desc, want) {
			t.Errorf("DescribeFrame(on after off) = %q, missing %q", desc, want)
		}
	}
}

func TestFormatFrame(t *testing.T) {
	if got := FormatFrame(OffFrame()); got != "01 14 30 00 00 C0 00 15" {
		t.Errorf("FormatFrame(off) = %q", got)
	}
}
