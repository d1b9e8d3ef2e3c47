// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/acwebremote/acremote/pkg/tadiran"
)

var coolCommand = tadiran.Command{Power: true, Mode: tadiran.ModeCool, Fan: 2, Temperature: 24}

func TestWriteEncoding_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEncoding(&buf, coolCommand, "text"))

	out := buf.String()
	assert.Contains(t, out, "Frame:   01 31 30 00 00 30 00 0B")
	assert.Contains(t, out, "at 38 kHz")
	assert.Contains(t, out, "header")
	assert.Contains(t, out, "trailer")
}

func TestWriteEncoding_Raw(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEncoding(&buf, coolCommand, "raw"))

	durations, err := parseDurations(&buf)
	require.NoError(t, err)
	require.Len(t, durations, tadiran.WaveformLength)

	f, err := tadiran.DecodeDurations(durations, 0)
	require.NoError(t, err)
	assert.Equal(t, "01 31 30 00 00 30 00 0B", tadiran.FormatFrame(f))
}

func TestWriteEncoding_JSON(t *testing.T) {
	tests := []struct {
		name      string
		command   tadiran.Command
		wantFrame string
		wantPower bool
	}{
		{"cool", coolCommand, "01 31 30 00 00 30 00 0B", true},
		{"off", tadiran.Command{Power: false}, "01 14 30 00 00 C0 00 15", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeEncoding(&buf, tt.command, "json"))

			var doc map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

			assert.Equal(t, tt.wantFrame, doc["frame"])
			assert.Equal(t, tt.wantPower, doc["power"])
			assert.Equal(t, true, doc["checksum_valid"])
			assert.Equal(t, float64(38), doc["carrier_khz"])

			pairs, ok := doc["pairs"].([]interface{})
			require.True(t, ok)
			assert.Len(t, pairs, tadiran.WaveformLength/2)
			assert.Equal(t, map[string]interface{}{"mark": float64(8000), "space": float64(4000)}, pairs[0])
		})
	}
}

func TestWriteEncoding_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeEncoding(&buf, coolCommand, "yaml"))
	assert.True(t, strings.HasPrefix(buf.String(), "command: "))

	var got encoding
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "01 31 30 00 00 30 00 0B", got.Frame)
	assert.Equal(t, "COOL", got.Mode)
	assert.Equal(t, uint8(2), got.Fan)
	assert.Equal(t, uint8(24), got.Celsius)
	assert.Equal(t, "0x0B", got.Checksum)
	assert.True(t, got.Valid)
	require.Len(t, got.Pairs, tadiran.WaveformLength/2)
	assert.Equal(t, tadiran.Pair{Mark: 1618, Space: 1618}, got.Pairs[len(got.Pairs)-1])
}

func TestWriteEncoding_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeEncoding(&buf, coolCommand, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
