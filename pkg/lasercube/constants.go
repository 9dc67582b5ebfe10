// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package lasercube implements the LaserCube network wire protocol.
//
// LaserCube lasers are driven over UDP: commands and point-stream data go
// out as datagrams, and the device answers with tagged responses including
// a versioned status/capability block. This package provides the protocol
// codec (command/response framing, the fixed-offset device info record,
// point serialization) and the receive-buffer occupancy estimator used to
// throttle point output.
//
// Transport, discovery scheduling and CLI surfaces live in pkg/client and
// cmd; this package is pure data transformation and is safe to call from
// any goroutine as long as each BufferState has a single owner.
package lasercube

// UDP ports the device listens on.
const (
	// PortAlive receives "alive" messages (simple pings).
	PortAlive = 45456
	// PortCmd receives commands (get info, enable/disable output, etc.).
	PortCmd = 45457
	// PortData receives point sample data.
	PortData = 45458
)

// DefaultBroadcastAddr is the discovery broadcast target.
const DefaultBroadcastAddr = "255.255.255.255"

// MaxPointsPerMessage is the practical cap on points per SampleData
// message to stay under typical network MTU. The codec itself does not
// enforce it; senders must.
const MaxPointsPerMessage = 140

// CommandType identifies a command (and its echoed response) by the tag
// byte that leads every datagram.
type CommandType byte

// Command tag bytes. The set is fixed by the device firmware.
const (
	CmdGetFullInfo                    CommandType = 0x77
	CmdEnableBufferSizeResponseOnData CommandType = 0x78
	CmdSetOutput                      CommandType = 0x80
	CmdGetRingbufferEmptySampleCount  CommandType = 0x8a
	CmdSampleData                     CommandType = 0xa9
)

// Valid reports whether b is a recognized command tag.
func (c CommandType) Valid() bool {
	switch c {
	case CmdGetFullInfo, CmdEnableBufferSizeResponseOnData, CmdSetOutput,
		CmdGetRingbufferEmptySampleCount, CmdSampleData:
		return true
	}
	return false
}

// String returns the protocol name for the command type.
func (c CommandType) String() string {
	switch c {
	case CmdGetFullInfo:
		return "GET_FULL_INFO"
	case CmdEnableBufferSizeResponseOnData:
		return "ENABLE_BUFFER_SIZE_RESPONSE_ON_DATA"
	case CmdSetOutput:
		return "SET_OUTPUT"
	case CmdGetRingbufferEmptySampleCount:
		return "GET_RINGBUFFER_EMPTY_SAMPLE_COUNT"
	case CmdSampleData:
		return "SAMPLE_DATA"
	default:
		return "UNKNOWN"
	}
}

// ConnectionType is how the device is attached, reported in the full
// info response.
type ConnectionType byte

// Connection type values.
const (
	ConnectionUnknown  ConnectionType = 0
	ConnectionUSB      ConnectionType = 1
	ConnectionEthernet ConnectionType = 2
	ConnectionWifi     ConnectionType = 3
)

// ConnectionTypeFromByte maps the wire byte to a connection type.
// Anything outside 1-3 (including 0) is Unknown.
func ConnectionTypeFromByte(b byte) ConnectionType {
	switch b {
	case 1:
		return ConnectionUSB
	case 2:
		return ConnectionEthernet
	case 3:
		return ConnectionWifi
	default:
		return ConnectionUnknown
	}
}

// String returns the human-readable connection type name.
func (c ConnectionType) String() string {
	switch c {
	case ConnectionUSB:
		return "USB"
	case ConnectionEthernet:
		return "Ethernet"
	case ConnectionWifi:
		return "Wifi"
	default:
		return "Unknown"
	}
}
