// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package irlink implements the serial protocol spoken by the IR bridge.
//
// The bridge is a small microcontroller that owns the IR LED. The host sends
// it raw mark/space durations and the bridge plays them on a carrier. Every
// packet is framed with START/END bytes, byte stuffed, and protected by a
// CRC-16-CCITT over the length and CBOR body:
//
//	START | LEN_LO LEN_HI | CBOR [msg_type, payload_map] | CRC_HI CRC_LO | END
package irlink

// Protocol framing bytes
const (
	StartByte = 0x7E
	EndByte   = 0x7F
	EscByte   = 0x7D
	EscXor    = 0x20
)

// Packet size limits
const (
	LengthSize     = 2
	CRCSize        = 2
	MaxPayloadSize = 1024
	MaxPacketSize  = LengthSize + MaxPayloadSize + CRCSize // unstuffed, without framing
)

// Message types - Commands (Host → Bridge) 0x20-0x2F
const (
	MsgSendRaw     = 0x20
	MsgPingRequest = 0x2F
)

// Message types - Responses (Bridge → Host) 0x30-0x3F
const (
	MsgTransmitDone = 0x30
	MsgPingResponse = 0x3F
)

// Message types - Errors (Bridge → Host) 0xE0-0xEF
const (
	MsgErrorInvalidCmd = 0xE0
	MsgErrorBusy       = 0xE1
)

// Payload keys
const (
	keySequence   = 0
	keyCarrier    = 1
	keyDurations  = 2
	keyAirTime    = 1
	keyUptime     = 0
	keyRejectType = 0
)

// Decoder states (internal)
const (
	stateIdle = iota
	stateLengthLo
	stateLengthHi
	statePayload
	stateCRC1
	stateCRC2
	stateEnd
)
