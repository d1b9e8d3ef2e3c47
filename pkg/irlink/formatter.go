// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"fmt"
	"time"
)

// FormatPacket formats a packet into a human-readable string
func FormatPacket(p *Packet) string {
	timestamp := p.timestamp.Format("15:04:05.000")
	msgType := FormatMessageType(p.Type())

	result := fmt.Sprintf("[%s] %s (0x%02X) len=%d\n", timestamp, msgType, p.Type(), p.length)

	if err := p.ParseError(); err != nil {
		return result + fmt.Sprintf("  CBOR error: %v\n", err)
	}

	return result + FormatPayloadMap(p.Type(), p.PayloadMap())
}

// FormatMessageType returns the human-readable name for a message type
func FormatMessageType(msgType uint8) string {
	switch msgType {
	case MsgSendRaw:
		return "SEND_RAW"
	case MsgPingRequest:
		return "PING_REQUEST"
	case MsgTransmitDone:
		return "TRANSMIT_DONE"
	case MsgPingResponse:
		return "PING_RESPONSE"
	case MsgErrorInvalidCmd:
		return "ERROR_INVALID_CMD"
	case MsgErrorBusy:
		return "ERROR_BUSY"
	default:
		return "UNKNOWN"
	}
}

// FormatPayloadMap formats the CBOR payload map based on message type
func FormatPayloadMap(msgType uint8, m map[int]interface{}) string {
	switch msgType {
	case MsgPingRequest:
		return "  (no payload)\n"

	case MsgSendRaw:
		seq, _ := GetMapUint(m, keySequence)
		carrier, _ := GetMapUint(m, keyCarrier)
		raw, _ := GetMapBytes(m, keyDurations)
		durations, err := UnpackDurations(raw)
		if err != nil {
			return fmt.Sprintf("  Seq: %d, Carrier: %d kHz, Durations: %v\n", seq, carrier, err)
		}
		var total uint64
		for _, d := range durations {
			total += uint64(d)
		}
		return fmt.Sprintf("  Seq: %d, Carrier: %d kHz, Durations: %d (%s on air)\n",
			seq, carrier, len(durations), formatMicros(total))

	case MsgTransmitDone:
		seq, _ := GetMapUint(m, keySequence)
		air, _ := GetMapUint(m, keyAirTime)
		return fmt.Sprintf("  Seq: %d, Air time: %s\n", seq, formatMicros(air))

	case MsgPingResponse:
		uptime, _ := GetMapUint(m, keyUptime)
		return fmt.Sprintf("  Uptime: %s\n", formatDuration(uptime))

	case MsgErrorInvalidCmd:
		rejected, _ := GetMapUint(m, keyRejectType)
		return fmt.Sprintf("  Rejected: %s (0x%02X)\n", FormatMessageType(uint8(rejected)), rejected)

	case MsgErrorBusy:
		seq, _ := GetMapUint(m, keySequence)
		return fmt.Sprintf("  Seq: %d\n", seq)

	default:
		return fmt.Sprintf("  Payload: %v\n", m)
	}
}

// formatDuration formats milliseconds as a human-readable duration
func formatDuration(ms uint64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return d.String()
	}
	return d.Truncate(time.Second).String()
}

func formatMicros(us uint64) string {
	return (time.Duration(us) * time.Microsecond).String()
}
