// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import "fmt"

// AnomalyType represents different types of packet anomalies
type AnomalyType int

const (
	AnomalyMissingField AnomalyType = iota
	AnomalyOddDurations
	AnomalyZeroDuration
	AnomalyInvalidCarrier
	AnomalyInvalidValue
)

// Carrier range accepted by the bridge LED driver
const (
	MinCarrierKHz = 30
	MaxCarrierKHz = 60
)

// ValidationError represents a packet validation failure
type ValidationError struct {
	Type    AnomalyType
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// ValidatePacket validates packet structure and detects anomalies
// Returns a slice of validation errors (empty if packet is valid)
func ValidatePacket(p *Packet) []ValidationError {
	errors := []ValidationError{}

	if err := p.ParseError(); err != nil {
		return append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: fmt.Sprintf("CBOR parse error: %v", err),
		})
	}

	switch p.Type() {
	case MsgSendRaw:
		errors = append(errors, validateSendRaw(p)...)
	case MsgTransmitDone, MsgErrorBusy:
		if _, ok := p.Sequence(); !ok {
			errors = append(errors, missingField(p, "sequence"))
		}
	case MsgPingResponse:
		if _, ok := GetMapUint(p.PayloadMap(), keyUptime); !ok {
			errors = append(errors, missingField(p, "uptime"))
		}
	}

	return errors
}

func missingField(p *Packet, field string) ValidationError {
	return ValidationError{
		Type:    AnomalyMissingField,
		Message: fmt.Sprintf("%s missing %s", FormatMessageType(p.Type()), field),
		Details: map[string]interface{}{"field": field},
	}
}

// validateSendRaw validates a SEND_RAW packet
func validateSendRaw(p *Packet) []ValidationError {
	errors := []ValidationError{}
	m := p.PayloadMap()

	if _, ok := p.Sequence(); !ok {
		errors = append(errors, missingField(p, "sequence"))
	}

	carrier, ok := GetMapUint(m, keyCarrier)
	if !ok {
		errors = append(errors, missingField(p, "carrier"))
	} else if carrier < MinCarrierKHz || carrier > MaxCarrierKHz {
		errors = append(errors, ValidationError{
			Type:    AnomalyInvalidCarrier,
			Message: fmt.Sprintf("carrier %d kHz out of range [%d, %d]", carrier, MinCarrierKHz, MaxCarrierKHz),
			Details: map[string]interface{}{"carrier": carrier},
		})
	}

	raw, ok := GetMapBytes(m, keyDurations)
	if !ok {
		return append(errors, missingField(p, "durations"))
	}
	durations, err := UnpackDurations(raw)
	if err != nil {
		return append(errors, ValidationError{
			Type:    AnomalyInvalidValue,
			Message: err.Error(),
			Details: map[string]interface{}{"length": len(raw)},
		})
	}

	if len(durations)%2 != 0 {
		errors = append(errors, ValidationError{
			Type:    AnomalyOddDurations,
			Message: fmt.Sprintf("%d durations do not form mark/space pairs", len(durations)),
			Details: map[string]interface{}{"count": len(durations)},
		})
	}

	for i, d := range durations {
		if d == 0 {
			errors = append(errors, ValidationError{
				Type:    AnomalyZeroDuration,
				Message: fmt.Sprintf("zero duration at index %d", i),
				Details: map[string]interface{}{"index": i},
			})
			break
		}
	}

	return errors
}
