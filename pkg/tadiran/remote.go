// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package tadiran

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoTransmitter is returned by Send when the Remote was built without a
// Transmitter.
var ErrNoTransmitter = errors.New("no transmitter configured")

// Transmitter emits raw IR durations on a carrier. Transmit blocks for the
// physical duration of the signal; any timeout belongs to the implementation.
type Transmitter interface {
	Transmit(ctx context.Context, durations []uint16, carrierKHz uint8) error
}

// TransmitterFunc adapts a function to the Transmitter interface.
type TransmitterFunc func(ctx context.Context, durations []uint16, carrierKHz uint8) error

// Transmit calls fn.
func (fn TransmitterFunc) Transmit(ctx context.Context, durations []uint16, carrierKHz uint8) error {
	return fn(ctx, durations, carrierKHz)
}

// Remote holds the frame of one air conditioner and sends commands to it.
//
// Remote is not safe for concurrent use.
type Remote struct {
	frame Frame
	tx    Transmitter
}

// NewRemote creates a Remote with the default frame. tx may be nil when the
// Remote is only used to prepare waveforms.
func NewRemote(tx Transmitter) *Remote {
	return &Remote{
		frame: NewFrame(),
		tx:    tx,
	}
}

// Frame returns a copy of the current frame.
func (r *Remote) Frame() Frame {
	return r.frame
}

// Prepare applies cmd to the frame and returns the encoded waveform without
// transmitting it.
//
// Powering off replaces the frame with the off-frame, so a later power-on
// starts from the fields it is given rather than from earlier field history.
func (r *Remote) Prepare(cmd Command) Waveform {
	r.frame.Apply(cmd)
	return Encode(r.frame)
}

// Send applies cmd, encodes the frame and hands the waveform to the
// transmitter. A nil error means the command was sent.
func (r *Remote) Send(ctx context.Context, cmd Command) error {
	w := r.Prepare(cmd)
	return r.transmit(ctx, w)
}

// Transmit sends the current frame as it is.
func (r *Remote) Transmit(ctx context.Context) error {
	return r.transmit(ctx, Encode(r.frame))
}

func (r *Remote) transmit(ctx context.Context, w Waveform) error {
	if r.tx == nil {
		return ErrNoTransmitter
	}
	if err := r.tx.Transmit(ctx, w[:], CarrierKHz); err != nil {
		return fmt.Errorf("transmit %s: %w", FormatFrame(r.frame), err)
	}
	return nil
}

// SetTemperature updates the temperature of the held frame.
func (r *Remote) SetTemperature(celsius uint8) {
	r.frame.SetTemperature(celsius)
}

// SetFan updates the fan level of the held frame.
func (r *Remote) SetFan(level uint8) {
	r.frame.SetFan(level)
}

// SetMode updates the mode of the held frame.
func (r *Remote) SetMode(mode Mode) {
	r.frame.SetMode(mode)
}

// SetPower updates the power bits of the held frame.
func (r *Remote) SetPower(on bool) {
	r.frame.SetPower(on)
}

// SetSwing updates the swing bits of the held frame.
func (r *Remote) SetSwing(on bool) {
	r.frame.SetSwing(on)
}
