// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"fmt"
	"time"
)

// Decoder implements the bridge protocol packet decoder state machine
type Decoder struct {
	state       int
	buffer      []byte
	bufferIndex int
	escapeNext  bool
	packet      *Packet
	rawBuffer   []byte // Accumulate raw bytes including framing
}

// NewDecoder creates a new protocol decoder
func NewDecoder() *Decoder {
	return &Decoder{
		state:     stateIdle,
		buffer:    make([]byte, MaxPacketSize),
		rawBuffer: make([]byte, 0, MaxPacketSize*2),
	}
}

// Reset resets the decoder state to idle
func (d *Decoder) Reset() {
	d.state = stateIdle
	d.bufferIndex = 0
	d.escapeNext = false
	d.packet = nil
	d.rawBuffer = d.rawBuffer[:0]
}

// GetRawBytes returns the accumulated raw bytes since the last packet
func (d *Decoder) GetRawBytes() []byte {
	return d.rawBuffer
}

// DecodeByte processes a single byte through the decoder state machine.
// Returns a completed packet, or nil if the packet is incomplete.
// Returns an error if decoding fails; the decoder resynchronises on the next START.
func (d *Decoder) DecodeByte(b byte) (*Packet, error) {
	if len(d.rawBuffer) < cap(d.rawBuffer) {
		d.rawBuffer = append(d.rawBuffer, b)
	}

	// Framing bytes are never escaped on the wire
	if b == StartByte {
		d.Reset()
		d.rawBuffer = append(d.rawBuffer[:0], b)
		d.state = stateLengthLo
		return nil, nil
	}

	if b == EndByte {
		state := d.state
		if state == stateEnd && !d.escapeNext {
			return d.finish()
		}
		d.Reset()
		if state == stateIdle {
			return nil, nil
		}
		return nil, fmt.Errorf("unexpected END byte in state %d", state)
	}

	if d.state == stateIdle {
		return nil, nil
	}

	if b == EscByte && !d.escapeNext {
		d.escapeNext = true
		return nil, nil
	}
	if d.escapeNext {
		b ^= EscXor
		d.escapeNext = false
	}

	switch d.state {
	case stateLengthLo:
		d.packet = &Packet{length: uint16(b)}
		d.store(b)
		d.state = stateLengthHi
		return nil, nil

	case stateLengthHi:
		d.packet.length |= uint16(b) << 8
		if d.packet.length > MaxPayloadSize {
			length := d.packet.length
			d.Reset()
			return nil, fmt.Errorf("invalid length: %d (max %d)", length, MaxPayloadSize)
		}
		d.store(b)
		d.packet.cborPayload = make([]byte, 0, d.packet.length)
		if d.packet.length == 0 {
			d.state = stateCRC1
		} else {
			d.state = statePayload
		}
		return nil, nil

	case statePayload:
		if d.bufferIndex >= MaxPacketSize {
			d.Reset()
			return nil, fmt.Errorf("buffer overflow: packet exceeds max size")
		}
		d.packet.cborPayload = append(d.packet.cborPayload, b)
		d.store(b)
		if len(d.packet.cborPayload) >= int(d.packet.length) {
			d.state = stateCRC1
		}
		return nil, nil

	case stateCRC1:
		d.packet.crc = uint16(b) << 8
		d.state = stateCRC2
		return nil, nil

	case stateCRC2:
		d.packet.crc |= uint16(b)
		d.state = stateEnd
		return nil, nil

	case stateEnd:
		// A data byte where END was expected
		d.Reset()
		return nil, fmt.Errorf("missing END byte after CRC")

	default:
		state := d.state
		d.Reset()
		return nil, fmt.Errorf("invalid state: %d", state)
	}
}

// store appends a byte to the CRC'd section of the buffer
func (d *Decoder) store(b byte) {
	d.buffer[d.bufferIndex] = b
	d.bufferIndex++
}

// finish validates the CRC of a fully received packet
func (d *Decoder) finish() (*Packet, error) {
	packet := d.packet
	err := verifyCRC(d.buffer[:d.bufferIndex], packet.crc)
	d.Reset()

	if err != nil {
		return nil, err
	}

	packet.timestamp = time.Now()
	return packet, nil
}

// DecodePacket decodes one complete wire-formatted packet.
func DecodePacket(data []byte) (*Packet, error) {
	d := NewDecoder()
	for _, b := range data {
		p, err := d.DecodeByte(b)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("incomplete packet")
}
