// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tadiran

import (
	"errors"
	"fmt"
)

// ErrMalformedWaveform is returned when durations do not follow the frame layout.
var ErrMalformedWaveform = errors.New("malformed waveform")

// repeatLength is the number of durations in one header + frame section.
const repeatLength = 2 + bitsPerFrame*2

// DefaultTolerance is the relative timing tolerance used for captured signals.
const DefaultTolerance = 0.25

// Decode recovers the frame carried by an encoded waveform.
//
// A data pair decodes to 1 only for (LongPulse, ShortPulse); every other
// pair decodes to 0. The header, gap and trailer pairs must be exact and
// both repeats must carry the same frame.
func Decode(w Waveform) (Frame, error) {
	var frames [Repeats]Frame

	for r := 0; r < Repeats; r++ {
		offset := r * (repeatLength + 2)
		if w[offset] != HeaderMark || w[offset+1] != HeaderSpace {
			return Frame{}, fmt.Errorf("%w: repeat %d header is %d/%d", ErrMalformedWaveform, r, w[offset], w[offset+1])
		}

		pos := offset + 2
		for j := 0; j < FrameSize; j++ {
			for bit := 0; bit < 8; bit++ {
				if w[pos] == LongPulse && w[pos+1] == ShortPulse {
					frames[r][j] |= 1 << bit
				}
				pos += 2
			}
		}

		if r < Repeats-1 && (w[pos] != GapMark || w[pos+1] != GapSpace) {
			return Frame{}, fmt.Errorf("%w: gap after repeat %d is %d/%d", ErrMalformedWaveform, r, w[pos], w[pos+1])
		}
	}

	if w[WaveformLength-2] != TrailerMark || w[WaveformLength-1] != TrailerSpace {
		return Frame{}, fmt.Errorf("%w: trailer is %d/%d", ErrMalformedWaveform, w[WaveformLength-2], w[WaveformLength-1])
	}

	for r := 1; r < Repeats; r++ {
		if frames[r] != frames[0] {
			return Frame{}, fmt.Errorf("%w: repeat %d differs from repeat 0", ErrMalformedWaveform, r)
		}
	}

	return frames[0], nil
}

// DecodeDurations decodes captured timings, matching each duration against
// the nominal value within the relative tolerance.
//
// At least one header and 64 data pairs are required. When a second repeat
// is present it must carry the same frame. Gap and trailer pairs are not
// checked, since receivers commonly clip them.
func DecodeDurations(d []uint16, tolerance float64) (Frame, error) {
	if len(d) < repeatLength {
		return Frame{}, fmt.Errorf("%w: %d durations, need at least %d", ErrMalformedWaveform, len(d), repeatLength)
	}

	first, err := decodeRepeat(d, 0, tolerance)
	if err != nil {
		return Frame{}, err
	}

	second := repeatLength + 2
	if len(d) >= second+repeatLength {
		again, err := decodeRepeat(d, second, tolerance)
		if err != nil {
			return Frame{}, err
		}
		if again != first {
			return Frame{}, fmt.Errorf("%w: repeat 1 differs from repeat 0", ErrMalformedWaveform)
		}
	}

	return first, nil
}

func decodeRepeat(d []uint16, offset int, tolerance float64) (Frame, error) {
	var f Frame

	if !near(d[offset], HeaderMark, tolerance) || !near(d[offset+1], HeaderSpace, tolerance) {
		return f, fmt.Errorf("%w: no header at index %d (%d/%d)", ErrMalformedWaveform, offset, d[offset], d[offset+1])
	}

	pos := offset + 2
	for j := 0; j < FrameSize; j++ {
		for bit := 0; bit < 8; bit++ {
			mark, space := d[pos], d[pos+1]
			switch {
			case near(mark, LongPulse, tolerance) && near(space, ShortPulse, tolerance):
				f[j] |= 1 << bit
			case near(mark, ShortPulse, tolerance) && near(space, LongPulse, tolerance):
			default:
				return f, fmt.Errorf("%w: unrecognised pair %d/%d at index %d", ErrMalformedWaveform, mark, space, pos)
			}
			pos += 2
		}
	}

	return f, nil
}

func near(got uint16, want int, tolerance float64) bool {
	diff := float64(int(got) - want)
	if diff < 0 {
		diff = -diff
	}
	return diff <= float64(want)*tolerance
}
