// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tadiran

import (
	"fmt"
	"strings"
)

// FormatFrame returns the frame as space-separated hex bytes.
func FormatFrame(f Frame) string {
	parts := make([]string, FrameSize)
	for i, b := range f {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}

// DescribeFrame decodes the frame fields into a human-readable line.
func DescribeFrame(f Frame) string {
	status := "valid"
	switch {
	case f.IsOffFrame():
		status = "off literal"
	case !f.ChecksumValid():
		status = fmt.Sprintf("INVALID, expected 0x%02X", f.Checksum())
	}

	if f.IsOffFrame() {
		return fmt.Sprintf("power=off checksum=0x%02X (%s)", f[byteChecksum], status)
	}

	power := "off"
	if f.PowerOn() {
		power = "on"
	}
	swing := "off"
	if f.SwingOn() {
		swing = "on"
	}
	return fmt.Sprintf("power=%s mode=%s fan=%d temp=%dC swing=%s checksum=0x%02X (%s)",
		power, f.Mode(), f.FanLevel(), f.Temperature(), swing, f[byteChecksum], status)
}

// FormatWaveform formats the waveform as one mark/space pair per line,
// labelling the header, gap and trailer pairs.
func FormatWaveform(w Waveform) string {
	var s strings.Builder
	for i, p := range w.Pairs() {
		s.WriteString(fmt.Sprintf("%3d  %5d %5d", i, p.Mark, p.Space))
		switch {
		case p.Mark == HeaderMark && p.Space == HeaderSpace:
			s.WriteString("  header")
		case p.Mark == GapMark && p.Space == GapSpace:
			s.WriteString("  gap")
		case i == WaveformLength/2-1:
			s.WriteString("  trailer")
		case p.Mark == LongPulse && p.Space == ShortPulse:
			s.WriteString("  1")
		default:
			s.WriteString("  0")
		}
		s.WriteString("\n")
	}
	return s.String()
}

// FormatRaw formats the durations space-separated on a single line, the
// layout accepted by DecodeDurations callers and most raw IR tools.
func FormatRaw(w Waveform) string {
	parts := make([]string, WaveformLength)
	for i, d := range w {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return strings.Join(parts, " ")
}
