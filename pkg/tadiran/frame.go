// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tadiran

// Frame is the 8-byte Tadiran command payload.
//
// Frame has value semantics: copying a Frame copies the command. Mutators
// rewrite one field and then refresh the checksum in byte 7. A field update
// is two writes, so concurrent callers must serialise access to a Frame.
type Frame [FrameSize]byte

// NewFrame returns the default frame: dry mode, fan level 0, 24°C, power on,
// swing off.
func NewFrame() Frame {
	f := Frame{frameMarker, 0x14, 0x30, 0x00, 0x00, powerOnBits, 0x00, 0x00}
	f.UpdateChecksum()
	return f
}

// OffFrame returns the fixed power-off frame.
func OffFrame() Frame {
	return offFrame
}

// Checksum computes the checksum of bytes 0-6 with 8-bit wraparound.
func (f Frame) Checksum() byte {
	var sum byte
	for i := 0; i < byteChecksum; i++ {
		sum += f[i]
	}

	temp := int(f[byteTemp] / 2)
	fan := int((f[byteFanMode] & fanMask) >> 4)
	swing := 0
	if f[byteSwing]&swingMask != 0 {
		swing = checksumSwing
	}

	return sum - byte(checksumStep*(checksumBase+temp/8)+fan*checksumStep+swing)
}

// UpdateChecksum stores the computed checksum in byte 7.
func (f *Frame) UpdateChecksum() {
	f[byteChecksum] = f.Checksum()
}

// ChecksumValid reports whether byte 7 matches the checksum, accepting the
// off-frame literal.
func (f Frame) ChecksumValid() bool {
	return f.IsOffFrame() || f[byteChecksum] == f.Checksum()
}

// IsOffFrame reports whether f is the fixed power-off frame.
func (f Frame) IsOffFrame() bool {
	return f == offFrame
}

// SetTemperature sets byte 2 to twice celsius. Values above 127 wrap.
func (f *Frame) SetTemperature(celsius uint8) {
	f[byteTemp] = 2 * celsius
	f.UpdateChecksum()
}

// SetFan sets the fan nibble to level+1, keeping the mode nibble.
func (f *Frame) SetFan(level uint8) {
	f[byteFanMode] = ((1 + level) << 4) | (f[byteFanMode] & modeMask)
	f.UpdateChecksum()
}

// SetMode sets the mode nibble, keeping the fan nibble.
func (f *Frame) SetMode(mode Mode) {
	f[byteFanMode] = (f[byteFanMode] & fanMask) | (byte(mode) & modeMask)
	f.UpdateChecksum()
}

// SetPower sets the power bits of byte 5, keeping its low nibble.
func (f *Frame) SetPower(on bool) {
	bits := byte(powerOffBits)
	if on {
		bits = powerOnBits
	}
	f[bytePower] = bits | (f[bytePower] & powerLowMask)
	f.UpdateChecksum()
}

// SetSwing sets or clears bits 6-7 of byte 6. The other bits of byte 6 are
// left as they are.
func (f *Frame) SetSwing(on bool) {
	if on {
		f[byteSwing] |= swingMask
	} else {
		f[byteSwing] &^= swingMask
	}
	f.UpdateChecksum()
}

// ApplyPowerOff overwrites the whole frame with the off-frame literal.
func (f *Frame) ApplyPowerOff() {
	*f = offFrame
}

// ApplyPowerOn writes temperature, fan, mode and swing and refreshes the
// checksum. Byte 5 is left as it is, so after ApplyPowerOff it keeps the
// off literal's power bits. Swing is applied against whatever byte 6
// currently holds.
func (f *Frame) ApplyPowerOn(mode Mode, fan uint8, celsius uint8, swing bool) {
	f[byteTemp] = 2 * celsius
	f[byteFanMode] = ((1 + fan) << 4) | (f[byteFanMode] & modeMask)
	f[byteFanMode] = (f[byteFanMode] & fanMask) | (byte(mode) & modeMask)
	f.SetSwing(swing)
}

// Apply applies a full command: power off or power on with its fields.
func (f *Frame) Apply(cmd Command) {
	if !cmd.Power {
		f.ApplyPowerOff()
		return
	}
	f.ApplyPowerOn(cmd.Mode, cmd.Fan, cmd.Temperature, cmd.Swing)
}

// Temperature returns the encoded temperature in °C.
func (f Frame) Temperature() uint8 {
	return f[byteTemp] / 2
}

// FanLevel returns the encoded fan level (nibble minus one, wrapping).
func (f Frame) FanLevel() uint8 {
	return ((f[byteFanMode] & fanMask) >> 4) - 1
}

// Mode returns the mode nibble.
func (f Frame) Mode() Mode {
	return Mode(f[byteFanMode] & modeMask)
}

// PowerOn reports whether byte 5 carries the power-on bits.
func (f Frame) PowerOn() bool {
	return f[bytePower]&^powerLowMask == powerOnBits
}

// SwingOn reports whether either swing bit is set.
func (f Frame) SwingOn() bool {
	return f[byteSwing]&swingMask != 0
}

// Bytes returns a copy of the frame as a slice.
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameSize)
	copy(b, f[:])
	return b
}
