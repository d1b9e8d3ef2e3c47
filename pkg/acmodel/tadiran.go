// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package acmodel

import (
	"sync"

	"github.com/acwebremote/acremote/pkg/tadiran"
)

// TadiranEncoder encodes commands with the Tadiran protocol. It keeps the
// frame between commands, like a physical remote does.
type TadiranEncoder struct {
	mu     sync.Mutex
	remote *tadiran.Remote
}

// NewTadiranEncoder creates an encoder starting from the default frame.
func NewTadiranEncoder() *TadiranEncoder {
	return &TadiranEncoder{remote: tadiran.NewRemote(nil)}
}

// Encode applies cmd and returns the 264-duration waveform at 38 kHz.
func (e *TadiranEncoder) Encode(cmd Command) (Signal, error) {
	e.mu.Lock()
	w := e.remote.Prepare(cmd)
	e.mu.Unlock()

	return Signal{Durations: w.Durations(), CarrierKHz: tadiran.CarrierKHz}, nil
}

// Frame returns a copy of the frame produced by the last command.
func (e *TadiranEncoder) Frame() tadiran.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remote.Frame()
}
