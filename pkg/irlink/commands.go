// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"encoding/binary"
	"fmt"
)

// NewSendRaw creates a SEND_RAW command carrying mark/space durations in
// microseconds. Durations travel as a little-endian uint16 byte string.
func NewSendRaw(seq uint32, carrierKHz uint8, durations []uint16) *Packet {
	return NewPacketWithPayload(MsgSendRaw, map[int]interface{}{
		keySequence:  uint64(seq),
		keyCarrier:   uint64(carrierKHz),
		keyDurations: PackDurations(durations),
	})
}

// NewPingRequest creates a PING_REQUEST command
func NewPingRequest() *Packet {
	return NewPacketWithPayload(MsgPingRequest, nil)
}

// NewTransmitDone creates a TRANSMIT_DONE response
func NewTransmitDone(seq uint32, airTimeUs uint64) *Packet {
	return NewPacketWithPayload(MsgTransmitDone, map[int]interface{}{
		keySequence: uint64(seq),
		keyAirTime:  airTimeUs,
	})
}

// NewPingResponse creates a PING_RESPONSE
func NewPingResponse(uptimeMs uint64) *Packet {
	return NewPacketWithPayload(MsgPingResponse, map[int]interface{}{
		keyUptime: uptimeMs,
	})
}

// NewErrorInvalidCmd creates an ERROR_INVALID_CMD response for the rejected message type
func NewErrorInvalidCmd(msgType uint8) *Packet {
	return NewPacketWithPayload(MsgErrorInvalidCmd, map[int]interface{}{
		keyRejectType: uint64(msgType),
	})
}

// NewErrorBusy creates an ERROR_BUSY response
func NewErrorBusy(seq uint32) *Packet {
	return NewPacketWithPayload(MsgErrorBusy, map[int]interface{}{
		keySequence: uint64(seq),
	})
}

// PackDurations serialises durations as little-endian uint16 values
func PackDurations(durations []uint16) []byte {
	b := make([]byte, 2*len(durations))
	for i, d := range durations {
		binary.LittleEndian.PutUint16(b[2*i:], d)
	}
	return b
}

// UnpackDurations is the inverse of PackDurations
func UnpackDurations(b []byte) ([]uint16, error) {
	if len(b)%2 != 0 {
		return nil, fmt.Errorf("duration payload has odd length %d", len(b))
	}
	durations := make([]uint16, len(b)/2)
	for i := range durations {
		durations[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return durations, nil
}

// SendRawFields extracts the fields of a SEND_RAW packet
func SendRawFields(p *Packet) (seq uint32, carrierKHz uint8, durations []uint16, err error) {
	if p.Type() != MsgSendRaw {
		return 0, 0, nil, fmt.Errorf("expected SEND_RAW, got %s", FormatMessageType(p.Type()))
	}
	m := p.PayloadMap()
	seq, ok := p.Sequence()
	if !ok {
		return 0, 0, nil, fmt.Errorf("SEND_RAW missing sequence")
	}
	carrier, ok := GetMapUint(m, keyCarrier)
	if !ok || carrier > 255 {
		return 0, 0, nil, fmt.Errorf("SEND_RAW missing or invalid carrier")
	}
	raw, ok := GetMapBytes(m, keyDurations)
	if !ok {
		return 0, 0, nil, fmt.Errorf("SEND_RAW missing durations")
	}
	durations, err = UnpackDurations(raw)
	if err != nil {
		return 0, 0, nil, err
	}
	return seq, uint8(carrier), durations, nil
}
