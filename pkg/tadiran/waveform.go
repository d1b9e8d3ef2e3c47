// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tadiran

import "time"

// Waveform is the raw IR signal for one command: alternating mark and space
// durations in microseconds, starting with a mark.
type Waveform [WaveformLength]uint16

// Pair is one mark/space pair of a Waveform.
type Pair struct {
	Mark  uint16 `json:"mark" yaml:"mark"`
	Space uint16 `json:"space" yaml:"space"`
}

// Encode expands a frame into its waveform.
//
// The frame is sent twice. Each repeat is a header pair followed by the 64
// frame bits, least-significant bit of each byte first. Repeats are separated
// by a gap pair and the signal ends with a trailer pair.
func Encode(f Frame) Waveform {
	var w Waveform
	i := 0
	emit := func(mark, space uint16) {
		w[i] = mark
		w[i+1] = space
		i += 2
	}

	for r := 0; r < Repeats; r++ {
		emit(HeaderMark, HeaderSpace)

		for _, b := range f {
			for mask := 1; mask < 256; mask <<= 1 {
				if int(b)&mask != 0 {
					emit(LongPulse, ShortPulse)
				} else {
					emit(ShortPulse, LongPulse)
				}
			}
		}

		if r < Repeats-1 {
			emit(GapMark, GapSpace)
		}
	}

	emit(TrailerMark, TrailerSpace)
	return w
}

// Pairs returns the waveform as mark/space pairs.
func (w *Waveform) Pairs() []Pair {
	pairs := make([]Pair, 0, WaveformLength/2)
	for i := 0; i < WaveformLength; i += 2 {
		pairs = append(pairs, Pair{Mark: w[i], Space: w[i+1]})
	}
	return pairs
}

// Durations returns a copy of the waveform as a slice.
func (w *Waveform) Durations() []uint16 {
	d := make([]uint16, WaveformLength)
	copy(d, w[:])
	return d
}

// Duration returns the total air time of the signal.
func (w *Waveform) Duration() time.Duration {
	var total time.Duration
	for _, d := range w {
		total += time.Duration(d) * time.Microsecond
	}
	return total
}
