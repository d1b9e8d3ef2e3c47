// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Counters is a point-in-time copy of link statistics
type Counters struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Receive side
	TotalPackets uint64
	ValidPackets uint64
	CRCErrors    uint64
	DecodeErrors uint64

	// Transmit side
	Sent     uint64
	Acked    uint64
	Timeouts uint64
	Rejected uint64

	// Rates (calculated)
	PacketRate float64 // packets/sec
	ErrorRate  float64 // errors/sec
}

// Statistics tracks packet statistics and error rates.
// It is safe for concurrent use.
type Statistics struct {
	mu sync.Mutex
	c  Counters
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	s := &Statistics{}
	s.Reset()
	return s
}

// Update updates statistics based on a received packet or decode error
func (s *Statistics) Update(packet *Packet, decodeErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.c.TotalPackets++
	switch {
	case errors.Is(decodeErr, ErrCRCMismatch):
		s.c.CRCErrors++
	case decodeErr != nil:
		s.c.DecodeErrors++
	case packet != nil:
		s.c.ValidPackets++
	}
	s.c.LastUpdateTime = time.Now()
}

// RecordSent counts a packet written to the bridge
func (s *Statistics) RecordSent() {
	s.mu.Lock()
	s.c.Sent++
	s.mu.Unlock()
}

// RecordAck counts a TRANSMIT_DONE that matched a sent packet
func (s *Statistics) RecordAck() {
	s.mu.Lock()
	s.c.Acked++
	s.mu.Unlock()
}

// RecordTimeout counts a SEND_RAW that was never acknowledged
func (s *Statistics) RecordTimeout() {
	s.mu.Lock()
	s.c.Timeouts++
	s.mu.Unlock()
}

// RecordRejected counts an ERROR_BUSY or ERROR_INVALID_CMD reply
func (s *Statistics) RecordRejected() {
	s.mu.Lock()
	s.c.Rejected++
	s.mu.Unlock()
}

// Snapshot returns the current counters with rates calculated
func (s *Statistics) Snapshot() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.c
	elapsed := time.Since(c.StartTime).Seconds()
	if elapsed > 0 {
		c.PacketRate = float64(c.TotalPackets) / elapsed
		c.ErrorRate = float64(c.CRCErrors+c.DecodeErrors) / elapsed
	}
	return c
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	c := s.Snapshot()

	var validPercent, crcErrorPercent, decodeErrorPercent float64
	if c.TotalPackets > 0 {
		validPercent = float64(c.ValidPackets) * 100.0 / float64(c.TotalPackets)
		crcErrorPercent = float64(c.CRCErrors) * 100.0 / float64(c.TotalPackets)
		decodeErrorPercent = float64(c.DecodeErrors) * 100.0 / float64(c.TotalPackets)
	}

	elapsed := time.Since(c.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Packets:   %8d\n", c.TotalPackets)
	result += fmt.Sprintf("Valid Packets:   %8d (%.1f%%)\n", c.ValidPackets, validPercent)

	if c.CRCErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d (%.1f%%)\n", c.CRCErrors, crcErrorPercent)
	}
	if c.DecodeErrors > 0 {
		result += fmt.Sprintf("Decode Errors:   %8d (%.1f%%)\n", c.DecodeErrors, decodeErrorPercent)
	}
	if c.Sent > 0 {
		result += fmt.Sprintf("Sent:            %8d\n", c.Sent)
		result += fmt.Sprintf("  Acknowledged:     %5d\n", c.Acked)
		if c.Timeouts > 0 {
			result += fmt.Sprintf("  Timeouts:         %5d\n", c.Timeouts)
		}
		if c.Rejected > 0 {
			result += fmt.Sprintf("  Rejected:         %5d\n", c.Rejected)
		}
	}

	result += fmt.Sprintf("Packet Rate:     %8.1f pkts/sec\n", c.PacketRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", c.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.c = Counters{StartTime: now, LastUpdateTime: now}
}
