// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"
)

// Device info record sizes.
const (
	// InfoHeaderSize is the fixed header portion of a full info
	// response, including the leading tag and reserved bytes.
	InfoHeaderSize = 38
	// InfoMaxSize bounds header plus model name plus terminator.
	InfoMaxSize = 64
	// InfoMaxModelNameSize bounds the model name field.
	InfoMaxModelNameSize = InfoMaxSize - InfoHeaderSize
)

// Fixed byte offsets within the info header. Unlisted offsets are
// reserved: written as zero on encode, ignored on decode.
const (
	infoOffFWMajor      = 3
	infoOffFWMinor      = 4
	infoOffStatus       = 5
	infoOffDACRate      = 11
	infoOffMaxDACRate   = 15
	infoOffRXBufferFree = 20
	infoOffRXBufferSize = 22
	infoOffBattery      = 24
	infoOffTemperature  = 25
	infoOffSerial       = 26
	infoOffIPAddr       = 32
	infoOffModelNumber  = 37
)

// LaserInfoHeader is the fixed-size portion of the full info response.
// All multi-byte fields are little-endian on the wire.
type LaserInfoHeader struct {
	// Firmware version. Selects the StatusFlags bit layout.
	FWMajor uint8
	FWMinor uint8
	// Status is the raw status/capability byte.
	Status StatusFlags
	// DAC rates in points per second.
	DACRate    uint32
	MaxDACRate uint32
	// Receive ring buffer occupancy in points.
	RXBufferFree   uint16
	RXBufferSize   uint16
	BatteryPercent uint8
	Temperature    uint8
	// SerialNumber's first byte doubles as the connection type.
	SerialNumber [6]byte
	IPAddr       netip.Addr
	ModelNumber  uint8
}

// LaserInfo is the header plus the variable-length model name.
type LaserInfo struct {
	Header    LaserInfoHeader
	ModelName string
}

// ParseLaserInfoHeader decodes the fixed header from the start of data.
func ParseLaserInfoHeader(data []byte) (LaserInfoHeader, error) {
	if len(data) < InfoHeaderSize {
		return LaserInfoHeader{}, &TooShortError{
			Context:  "info header",
			Expected: InfoHeaderSize,
			Actual:   len(data),
		}
	}
	var ip [4]byte
	copy(ip[:], data[infoOffIPAddr:infoOffIPAddr+4])
	h := LaserInfoHeader{
		FWMajor:        data[infoOffFWMajor],
		FWMinor:        data[infoOffFWMinor],
		Status:         StatusFlags(data[infoOffStatus]),
		DACRate:        binary.LittleEndian.Uint32(data[infoOffDACRate:]),
		MaxDACRate:     binary.LittleEndian.Uint32(data[infoOffMaxDACRate:]),
		RXBufferFree:   binary.LittleEndian.Uint16(data[infoOffRXBufferFree:]),
		RXBufferSize:   binary.LittleEndian.Uint16(data[infoOffRXBufferSize:]),
		BatteryPercent: data[infoOffBattery],
		Temperature:    data[infoOffTemperature],
		IPAddr:         netip.AddrFrom4(ip),
		ModelNumber:    data[infoOffModelNumber],
	}
	copy(h.SerialNumber[:], data[infoOffSerial:infoOffSerial+6])
	return h, nil
}

// ParseLaserInfo decodes the header and the null-terminated model name.
// A missing terminator is a distinct failure from a short header. The
// name is decoded as UTF-8 with lossy substitution of invalid bytes.
func ParseLaserInfo(data []byte) (LaserInfo, error) {
	header, err := ParseLaserInfoHeader(data)
	if err != nil {
		return LaserInfo{}, err
	}
	rest := data[InfoHeaderSize:]
	nul := bytes.IndexByte(rest, 0)
	if nul < 0 {
		return LaserInfo{}, ErrMissingNullTerminator
	}
	return LaserInfo{
		Header:    header,
		ModelName: strings.ToValidUTF8(string(rest[:nul]), "�"),
	}, nil
}

// appendHeader writes the fixed header into buf with reserved offsets
// zeroed. buf must be at least InfoHeaderSize long.
func (h LaserInfoHeader) appendHeader(buf []byte) {
	buf[infoOffFWMajor] = h.FWMajor
	buf[infoOffFWMinor] = h.FWMinor
	buf[infoOffStatus] = byte(h.Status)
	binary.LittleEndian.PutUint32(buf[infoOffDACRate:], h.DACRate)
	binary.LittleEndian.PutUint32(buf[infoOffMaxDACRate:], h.MaxDACRate)
	binary.LittleEndian.PutUint16(buf[infoOffRXBufferFree:], h.RXBufferFree)
	binary.LittleEndian.PutUint16(buf[infoOffRXBufferSize:], h.RXBufferSize)
	buf[infoOffBattery] = h.BatteryPercent
	buf[infoOffTemperature] = h.Temperature
	copy(buf[infoOffSerial:infoOffSerial+6], h.SerialNumber[:])
	if h.IPAddr.Is4() {
		ip := h.IPAddr.As4()
		copy(buf[infoOffIPAddr:infoOffIPAddr+4], ip[:])
	}
	buf[infoOffModelNumber] = h.ModelNumber
}

// Bytes encodes the header with reserved bytes zeroed.
func (h LaserInfoHeader) Bytes() [InfoHeaderSize]byte {
	var buf [InfoHeaderSize]byte
	h.appendHeader(buf[:])
	return buf
}

// Bytes encodes the record as header + model name + null terminator.
// Names longer than InfoMaxModelNameSize-1 are truncated so the total
// stays within InfoMaxSize.
func (i LaserInfo) Bytes() []byte {
	name := i.ModelName
	if len(name) > InfoMaxModelNameSize-1 {
		name = name[:InfoMaxModelNameSize-1]
	}
	buf := make([]byte, InfoHeaderSize+len(name)+1)
	i.Header.appendHeader(buf)
	copy(buf[InfoHeaderSize:], name)
	return buf
}

// OutputEnabled reports whether laser output is enabled.
func (h LaserInfoHeader) OutputEnabled() bool {
	return h.Status.OutputEnabled()
}

// ConnectionType is derived from the first serial number byte.
func (h LaserInfoHeader) ConnectionType() ConnectionType {
	return ConnectionTypeFromByte(h.SerialNumber[0])
}

// FirmwareVersion returns the firmware version as "major.minor".
func (i LaserInfo) FirmwareVersion() string {
	return fmt.Sprintf("%d.%d", i.Header.FWMajor, i.Header.FWMinor)
}

// SerialNumberString returns the serial number as colon-separated
// lowercase hex, e.g. "02:1a:30:04:05:06".
func (i LaserInfo) SerialNumberString() string {
	var sb strings.Builder
	sb.Grow(17)
	for n, b := range i.Header.SerialNumber {
		if n > 0 {
			sb.WriteByte(':')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}

// ConnectionType is derived from the first serial number byte.
func (i LaserInfo) ConnectionType() ConnectionType {
	return i.Header.ConnectionType()
}
