// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tadiran

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// decodeBits applies the plain bit rule to the data pairs of the first
// repeat: (1618, 545) is 1, anything else is 0.
func decodeBits(w Waveform) Frame {
	var f Frame
	pos := 2
	for j := 0; j < FrameSize; j++ {
		for bit := 0; bit < 8; bit++ {
			if w[pos] == 1618 && w[pos+1] == 545 {
				f[j] |= 1 << bit
			}
			pos += 2
		}
	}
	return f
}

// ============================================================
// Encoder Tests
// ============================================================

func TestWaveformLength(t *testing.T) {
	if WaveformLength != 264 {
		t.Fatalf("WaveformLength = %d, want 264", WaveformLength)
	}
	want := 8*8*2*2 + 2*2 + 2 + 2
	if WaveformLength != want {
		t.Errorf("WaveformLength = %d, want %d", WaveformLength, want)
	}
}

func TestEncode_Layout(t *testing.T) {
	frames := []Frame{NewFrame(), OffFrame(), {}, {0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}}

	for _, f := range frames {
		w := Encode(f)

		if w[0] != 8000 || w[1] != 4000 {
			t.Errorf("header = %d/%d, want 8000/4000", w[0], w[1])
		}
		if w[262] != 1618 || w[263] != 1618 {
			t.Errorf("trailer = %d/%d, want 1618/1618", w[262], w[263])
		}
		if w[130] != 1618 || w[131] != 31000 {
			t.Errorf("gap = %d/%d, want 1618/31000", w[130], w[131])
		}
		if w[132] != 8000 || w[133] != 4000 {
			t.Errorf("second header = %d/%d, want 8000/4000", w[132], w[133])
		}

		gaps := 0
		for i := 0; i < WaveformLength; i += 2 {
			if w[i] == 1618 && w[i+1] == 31000 {
				gaps++
			}
			if w[i] == 0 || w[i+1] == 0 {
				t.Fatalf("zero duration at index %d", i)
			}
		}
		if gaps != 1 {
			t.Errorf("found %d gap pairs, want exactly 1", gaps)
		}
	}
}

func TestEncode_BitOrder(t *testing.T) {
	f := Frame{0x01}
	w := Encode(f)

	// Byte 0 bit 0 is the first data pair.
	if w[2] != 1618 || w[3] != 545 {
		t.Errorf("first data pair = %d/%d, want 1618/545", w[2], w[3])
	}
	// Byte 0 bit 1 is clear.
	if w[4] != 545 || w[5] != 1618 {
		t.Errorf("second data pair = %d/%d, want 545/1618", w[4], w[5])
	}
}

func TestEncode_RepeatsAreIdentical(t *testing.T) {
	w := Encode(NewFrame())
	for i := 0; i < 130; i++ {
		if w[i] != w[i+132] {
			t.Fatalf("repeat mismatch at index %d: %d vs %d", i, w[i], w[i+132])
		}
	}
}

func TestEncode_FreshBuffer(t *testing.T) {
	f := NewFrame()
	a := Encode(f)
	a[0] = 1
	b := Encode(f)
	if b[0] != HeaderMark {
		t.Error("Encode should return an independent waveform per call")
	}
}

// ============================================================
// Decoder Tests
// ============================================================

func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func() Frame
	}{
		{"default", NewFrame},
		{"off", func() Frame { f := NewFrame(); f.ApplyPowerOff(); return f }},
		{"cool swing", func() Frame { f := NewFrame(); f.ApplyPowerOn(ModeCool, 4, 18, true); return f }},
		{"heat", func() Frame { f := NewFrame(); f.ApplyPowerOn(ModeHeat, 1, 30, false); return f }},
		{"wrapped", func() Frame { f := NewFrame(); f.SetTemperature(250); f.SetFan(200); return f }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.build()
			w := Encode(f)

			if got := decodeBits(w); got != f {
				t.Errorf("bit rule decoded %s, want %s", FormatFrame(got), FormatFrame(f))
			}

			got, err := Decode(w)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got != f {
				t.Errorf("Decode() = %s, want %s", FormatFrame(got), FormatFrame(f))
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(w *Waveform)
	}{
		{"bad header", func(w *Waveform) { w[0] = 9000 }},
		{"bad gap", func(w *Waveform) { w[131] = 20000 }},
		{"bad trailer", func(w *Waveform) { w[263] = 545 }},
		{"repeats differ", func(w *Waveform) { w[134], w[135] = w[135], w[134] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Encode(NewFrame())
			tt.mutate(&w)
			_, err := Decode(w)
			if !errors.Is(err, ErrMalformedWaveform) {
				t.Errorf("Decode() error = %v, want ErrMalformedWaveform", err)
			}
		})
	}
}

func TestDecodeDurations_Tolerance(t *testing.T) {
	f := NewFrame()
	f.ApplyPowerOn(ModeCool, 2, 24, true)
	w := Encode(f)

	// Simulate receiver jitter: marks stretched, spaces shortened by 10%.
	captured := w.Durations()
	for i := range captured {
		if i%2 == 0 {
			captured[i] = uint16(float64(captured[i]) * 1.1)
		} else {
			captured[i] = uint16(float64(captured[i]) * 0.9)
		}
	}

	got, err := DecodeDurations(captured, DefaultTolerance)
	if err != nil {
		t.Fatalf("DecodeDurations failed: %v", err)
	}
	if got != f {
		t.Errorf("DecodeDurations() = %s, want %s", FormatFrame(got), FormatFrame(f))
	}
}

func TestDecodeDurations_SingleRepeat(t *testing.T) {
	f := OffFrame()
	w := Encode(f)

	got, err := DecodeDurations(w[:130], DefaultTolerance)
	if err != nil {
		t.Fatalf("DecodeDurations failed: %v", err)
	}
	if got != f {
		t.Errorf("DecodeDurations() = %s, want %s", FormatFrame(got), FormatFrame(f))
	}
}

func TestDecodeDurations_Errors(t *testing.T) {
	w := Encode(NewFrame())

	short := w.Durations()[:100]
	if _, err := DecodeDurations(short, DefaultTolerance); !errors.Is(err, ErrMalformedWaveform) {
		t.Errorf("short input: error = %v, want ErrMalformedWaveform", err)
	}

	noise := w.Durations()
	noise[10] = 3000
	if _, err := DecodeDurations(noise, DefaultTolerance); !errors.Is(err, ErrMalformedWaveform) {
		t.Errorf("noisy pair: error = %v, want ErrMalformedWaveform", err)
	}
}

// ============================================================
// Waveform Helper Tests
// ============================================================

func TestWaveformPairs(t *testing.T) {
	w := Encode(NewFrame())
	pairs := w.Pairs()
	if len(pairs) != 132 {
		t.Fatalf("len(Pairs()) = %d, want 132", len(pairs))
	}
	if pairs[0] != (Pair{Mark: 8000, Space: 4000}) {
		t.Errorf("first pair = %+v", pairs[0])
	}
	if pairs[65] != (Pair{Mark: 1618, Space: 31000}) {
		t.Errorf("gap pair = %+v", pairs[65])
	}
}

func TestWaveformDuration(t *testing.T) {
	w := Encode(Frame{})
	// All-zero frame: every data pair is 545+1618.
	want := 2*(12000+64*2163) + 32618 + 3236
	if got := w.Duration(); got != time.Duration(want)*time.Microsecond {
		t.Errorf("Duration() = %v, want %dus", got, want)
	}
}

func TestFormatWaveform(t *testing.T) {
	out := FormatWaveform(Encode(NewFrame()))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 132 {
		t.Fatalf("got %d lines, want 132", len(lines))
	}
	if !strings.HasSuffix(lines[0], "header") {
		t.Errorf("first line %q should be labelled header", lines[0])
	}
	if !strings.HasSuffix(lines[65], "gap") {
		t.Errorf("line 65 %q should be labelled gap", lines[65])
	}
	if !strings.HasSuffix(lines[131], "trailer") {
		t.Errorf("last line %q should be labelled trailer", lines[131])
	}
}

func TestFormatRaw(t *testing.T) {
	raw := FormatRaw(Encode(NewFrame()))
	fields := strings.Fields(raw)
	if len(fields) != WaveformLength {
		t.Fatalf("got %d fields, want %d", len(fields), WaveformLength)
	}
	if fields[0] != "8000" || fields[1] != "4000" {
		t.Errorf("raw starts with %s %s", fields[0], fields[1])
	}
}
