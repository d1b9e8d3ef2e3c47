// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acwebremote/acremote/pkg/tadiran"
)

var decodeTolerance float64

var decodeCmd = &cobra.Command{
	Use:   "decode [durations...]",
	Short: "Decode captured IR timings back into a Tadiran frame",
	Long: `Decode a mark/space duration sequence (microseconds) into a Tadiran frame.

Durations are taken from the arguments, or from stdin when no arguments are
given. Numbers may be separated by spaces, commas or newlines; the words
"pulse" and "space" (mode2 capture output) are ignored.

Captured timings drift, so each duration is accepted within --tolerance of
its nominal value. At least one full repeat (130 durations) is required; when
both repeats are present they must agree.`,
	Example: `  acremote encode --format raw | acremote decode
  mode2 -d /dev/lirc0 | head -130 | acremote decode --tolerance 0.3`,
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().Float64Var(&decodeTolerance, "tolerance", tadiran.DefaultTolerance, "Relative timing tolerance (0 requires exact values)")
}

func runDecode(cmd *cobra.Command, args []string) error {
	var durations []uint16
	var err error
	if len(args) > 0 {
		durations, err = parseDurations(strings.NewReader(strings.Join(args, " ")))
	} else {
		durations, err = parseDurations(os.Stdin)
	}
	if err != nil {
		return err
	}

	f, err := tadiran.DecodeDurations(durations, decodeTolerance)
	if err != nil {
		return err
	}

	fmt.Printf("Frame: %s\n", tadiran.FormatFrame(f))
	fmt.Printf("       %s\n", tadiran.DescribeFrame(f))
	if !f.ChecksumValid() {
		return fmt.Errorf("checksum mismatch: got 0x%02X, expected 0x%02X", f[tadiran.FrameSize-1], f.Checksum())
	}
	return nil
}

// parseDurations reads microsecond durations separated by whitespace or commas
func parseDurations(r io.Reader) ([]uint16, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var durations []uint16
	for scanner.Scan() {
		for _, field := range strings.Split(scanner.Text(), ",") {
			field = strings.TrimLeft(field, "+-")
			switch strings.ToLower(field) {
			case "", "pulse", "space":
				continue
			}
			v, err := strconv.ParseUint(field, 10, 16)
			if err != nil {
				return nil, fmt.Errorf("invalid duration %q: %w", field, err)
			}
			durations = append(durations, uint16(v))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read durations: %w", err)
	}
	if len(durations) == 0 {
		return nil, fmt.Errorf("no durations given")
	}
	return durations, nil
}
