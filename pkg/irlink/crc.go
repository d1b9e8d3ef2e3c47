// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package irlink

import "fmt"

// The frame CRC is CRC-16-CCITT (poly 0x1021, init 0xFFFF, no reflection,
// no final XOR) over the unstuffed LEN_LO LEN_HI and CBOR body. It goes on
// the wire big-endian as CRC_HI CRC_LO, before stuffing.
const (
	crcPolynomial = 0x1021
	crcInitial    = 0xFFFF
)

// CalculateCRC computes the irlink CRC-16-CCITT of data
func CalculateCRC(data []byte) uint16 {
	crc := uint16(crcInitial)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 == 0 {
				crc <<= 1
				continue
			}
			crc = (crc << 1) ^ crcPolynomial
		}
	}
	return crc
}

// appendCRC appends the CRC of the length and body section to it, high byte first
func appendCRC(section []byte) []byte {
	crc := CalculateCRC(section)
	return append(section, byte(crc>>8), byte(crc))
}

// verifyCRC checks a received CRC against the length and body section
func verifyCRC(section []byte, received uint16) error {
	if want := CalculateCRC(section); received != want {
		return fmt.Errorf("%w: expected 0x%04X, got 0x%04X", ErrCRCMismatch, want, received)
	}
	return nil
}
