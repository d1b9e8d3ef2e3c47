// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// TestFuzzDecoder_RandomBytes feeds random byte streams to the decoder and
// verifies it never panics and that anything it accepts passes the CRC.
func TestFuzzDecoder_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	d := NewDecoder()
	for i := 0; i < rounds; i++ {
		data := make([]byte, rng.Intn(256))
		rng.Read(data)
		// Bias towards framing bytes so the state machine gets exercised
		for j := range data {
			switch rng.Intn(16) {
			case 0:
				data[j] = StartByte
			case 1:
				data[j] = EndByte
			case 2:
				data[j] = EscByte
			}
		}
		for _, b := range data {
			p, err := d.DecodeByte(b)
			if p != nil && err != nil {
				t.Fatalf("Round %d: decoder returned both a packet and %v", i, err)
			}
			if p != nil {
				p.PayloadMap()
			}
		}
	}
}

// TestFuzzSendRaw_RoundTrip encodes random waveforms and decodes them again,
// including with line noise in front of the packet.
func TestFuzzSendRaw_RoundTrip(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		durations := make([]uint16, rng.Intn(400))
		for j := range durations {
			durations[j] = uint16(rng.Intn(65536))
		}
		seq := rng.Uint32()
		carrier := uint8(rng.Intn(256))

		wire := MustEncodePacket(NewSendRaw(seq, carrier, durations))

		noise := make([]byte, rng.Intn(8))
		rng.Read(noise)
		for j := range noise {
			if noise[j] == StartByte {
				noise[j] = 0
			}
		}

		p, err := DecodePacket(append(noise, wire...))
		if err != nil {
			t.Fatalf("Round %d: decode error: %v", i, err)
		}
		gotSeq, gotCarrier, got, err := SendRawFields(p)
		if err != nil {
			t.Fatalf("Round %d: %v", i, err)
		}
		if gotSeq != seq || gotCarrier != carrier || len(got) != len(durations) {
			t.Fatalf("Round %d: got seq=%d carrier=%d n=%d, want %d/%d/%d",
				i, gotSeq, gotCarrier, len(got), seq, carrier, len(durations))
		}
		for j := range durations {
			if got[j] != durations[j] {
				t.Fatalf("Round %d: duration %d = %d, want %d", i, j, got[j], durations[j])
			}
		}
	}
}
