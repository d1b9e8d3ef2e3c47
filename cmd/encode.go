// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/acwebremote/acremote/pkg/tadiran"
)

var (
	encodeFlags  commandFlags
	encodeFormat string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Show the Tadiran frame and waveform for a command",
	Long: `Build the 8-byte Tadiran frame for a command and render its IR waveform.

Output formats:
  text - frame, decoded fields and one line per mark/space pair
  raw  - durations only, space separated (for capture/replay tools)
  json - structured document
  yaml - structured document

Nothing is transmitted.`,
	Example: `  acremote encode --mode cool --temp 24 --fan 2
  acremote encode --off --format json`,
	Args: cobra.NoArgs,
	RunE: runEncode,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeFlags.register(encodeCmd)
	encodeCmd.Flags().StringVarP(&encodeFormat, "format", "o", "text", "Output format: text, raw, json or yaml")
}

// encoding is the structured form of an encoded command
type encoding struct {
	Command    string         `json:"command" yaml:"command"`
	Frame      string         `json:"frame" yaml:"frame"`
	Power      bool           `json:"power" yaml:"power"`
	Mode       string         `json:"mode" yaml:"mode"`
	Fan        uint8          `json:"fan" yaml:"fan"`
	Celsius    uint8          `json:"temperature" yaml:"temperature"`
	Swing      bool           `json:"swing" yaml:"swing"`
	Checksum   string         `json:"checksum" yaml:"checksum"`
	Valid      bool           `json:"checksum_valid" yaml:"checksum_valid"`
	CarrierKHz int            `json:"carrier_khz" yaml:"carrier_khz"`
	AirTimeUs  int64          `json:"air_time_us" yaml:"air_time_us"`
	Pairs      []tadiran.Pair `json:"pairs" yaml:"pairs"`
}

func runEncode(cmd *cobra.Command, args []string) error {
	command, err := encodeFlags.command()
	if err != nil {
		return err
	}
	return writeEncoding(os.Stdout, command, encodeFormat)
}

func newEncoding(command tadiran.Command, f tadiran.Frame, w tadiran.Waveform) encoding {
	return encoding{
		Command:    command.String(),
		Frame:      tadiran.FormatFrame(f),
		Power:      f.PowerOn(),
		Mode:       f.Mode().String(),
		Fan:        f.FanLevel(),
		Celsius:    f.Temperature(),
		Swing:      f.SwingOn(),
		Checksum:   fmt.Sprintf("0x%02X", f[tadiran.FrameSize-1]),
		Valid:      f.ChecksumValid(),
		CarrierKHz: tadiran.CarrierKHz,
		AirTimeUs:  w.Duration().Microseconds(),
		Pairs:      w.Pairs(),
	}
}

// writeEncoding encodes command on a fresh remote and writes it in format
func writeEncoding(out io.Writer, command tadiran.Command, format string) error {
	remote := tadiran.NewRemote(nil)
	w := remote.Prepare(command)
	f := remote.Frame()

	switch format {
	case "text":
		fmt.Fprintf(out, "Command: %s\n", command)
		fmt.Fprintf(out, "Frame:   %s\n", tadiran.FormatFrame(f))
		fmt.Fprintf(out, "         %s\n", tadiran.DescribeFrame(f))
		fmt.Fprintf(out, "Air time: %v at %d kHz\n\n", w.Duration(), tadiran.CarrierKHz)
		fmt.Fprint(out, tadiran.FormatWaveform(w))
		return nil

	case "raw":
		fmt.Fprintln(out, tadiran.FormatRaw(w))
		return nil

	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(newEncoding(command, f, w))

	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(newEncoding(command, f, w)); err != nil {
			return err
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown format %q (use text, raw, json or yaml)", format)
	}
}
