// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import "errors"

var (
	ErrCRCMismatch     = errors.New("CRC mismatch")
	ErrPayloadTooLarge = errors.New("CBOR payload too large")
	ErrAckTimeout      = errors.New("timed out waiting for TRANSMIT_DONE")
	ErrBridgeBusy      = errors.New("bridge busy")
	ErrRejected        = errors.New("bridge rejected command")
	ErrClosed          = errors.New("bridge connection closed")
)
