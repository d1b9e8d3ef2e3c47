// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package tadiran encodes Tadiran air-conditioner remote commands.
//
// A command is packed into an 8-byte checksummed Frame, which is then
// expanded into a fixed Waveform of 264 mark/space durations (microseconds)
// for an IR LED modulated at 38 kHz.
package tadiran

// Frame layout
const (
	FrameSize = 8

	byteMarker   = 0
	byteFanMode  = 1
	byteTemp     = 2
	bytePower    = 5
	byteSwing    = 6
	byteChecksum = 7

	frameMarker = 0x01
)

// Bit masks
const (
	fanMask      = 0xF0
	modeMask     = 0x0F
	powerOnBits  = 0x30
	powerOffBits = 0xC0
	powerLowMask = 0x0F
	swingMask    = 0xC0
)

// Checksum constants
const (
	checksumStep  = 15
	checksumBase  = 3
	checksumSwing = 180
)

// offFrame is sent verbatim for power off. Its last byte is not the formula checksum.
var offFrame = Frame{0x01, 0x14, 0x30, 0x00, 0x00, 0xC0, 0x00, 0x15}

// Carrier frequency in kHz
const CarrierKHz = 38

// Pulse timings in microseconds
const (
	HeaderMark   = 8000
	HeaderSpace  = 4000
	ShortPulse   = 545
	LongPulse    = 1618
	GapMark      = 1618
	GapSpace     = 31000
	TrailerMark  = 1618
	TrailerSpace = 1618
)

// Waveform layout
const (
	Repeats        = 2
	bitsPerFrame   = FrameSize * 8
	WaveformLength = Repeats*(2+bitsPerFrame*2) + (Repeats-1)*2 + 2 // 264
)

// Mode is the 4-bit operating mode code carried in byte 1.
type Mode uint8

// Mode values. ModeOff is what callers use to request power off.
const (
	ModeOff       Mode = 0
	ModeCool      Mode = 1
	ModeHeat      Mode = 2
	ModeCirculate Mode = 3
	ModeDry       Mode = 4
)

// Caller-side command limits
const (
	MinTemperature = 16
	MaxTemperature = 30
	MinFan         = 1
	MaxFan         = 4
	MaxMode        = ModeDry
)
