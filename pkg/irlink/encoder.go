// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncodePacketFromValues creates a complete wire-formatted packet.
// Returns the packet bytes ready for transmission, including framing and byte stuffing.
func EncodePacketFromValues(msgType uint8, payloadMap map[int]interface{}) ([]byte, error) {
	cborPayload, err := encodeCBORPayload(msgType, payloadMap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode CBOR payload: %w", err)
	}

	if len(cborPayload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(cborPayload), MaxPayloadSize)
	}

	// Length (little-endian) + CBOR payload is what gets CRC'd and stuffed
	data := make([]byte, LengthSize+len(cborPayload), LengthSize+len(cborPayload)+CRCSize)
	binary.LittleEndian.PutUint16(data[0:LengthSize], uint16(len(cborPayload)))
	copy(data[LengthSize:], cborPayload)

	data = appendCRC(data)

	stuffed := stuffBytes(data)

	packet := make([]byte, 0, len(stuffed)+2)
	packet = append(packet, StartByte)
	packet = append(packet, stuffed...)
	packet = append(packet, EndByte)

	return packet, nil
}

// EncodePacket encodes a Packet to wire format.
func EncodePacket(p *Packet) ([]byte, error) {
	return EncodePacketFromValues(p.Type(), p.PayloadMap())
}

// MustEncodePacket encodes a Packet and panics on error.
// Only use it for packets built by the constructors in this package.
func MustEncodePacket(p *Packet) []byte {
	data, err := EncodePacket(p)
	if err != nil {
		panic(fmt.Sprintf("irlink: encode error: %v", err))
	}
	return data
}

// encodeCBORPayload creates the CBOR-encoded payload for a message.
func encodeCBORPayload(msgType uint8, payloadMap map[int]interface{}) ([]byte, error) {
	var msg interface{}
	if len(payloadMap) == 0 {
		msg = []interface{}{uint64(msgType), nil}
	} else {
		msg = []interface{}{uint64(msgType), payloadMap}
	}

	return cbor.Marshal(msg)
}

// stuffBytes applies byte stuffing to escape special bytes.
// Special bytes (START, END, ESC) are replaced with ESC + (byte XOR EscXor).
func stuffBytes(data []byte) []byte {
	result := make([]byte, 0, len(data)*2)

	for _, b := range data {
		if b == StartByte || b == EndByte || b == EscByte {
			result = append(result, EscByte, b^EscXor)
		} else {
			result = append(result, b)
		}
	}

	return result
}

// UnstuffBytes removes byte stuffing from escaped data.
// This is the inverse of stuffBytes.
func UnstuffBytes(data []byte) ([]byte, error) {
	result := make([]byte, 0, len(data))
	escapeNext := false

	for _, b := range data {
		if escapeNext {
			result = append(result, b^EscXor)
			escapeNext = false
		} else if b == EscByte {
			escapeNext = true
		} else {
			result = append(result, b)
		}
	}

	if escapeNext {
		return nil, fmt.Errorf("incomplete escape sequence at end of data")
	}

	return result, nil
}
