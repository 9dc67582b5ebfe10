// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import "encoding/binary"

// Command is a closed sum over the five outbound datagram kinds. Each
// variant serializes itself behind its 1-byte tag; the tag set is fixed
// by the hardware protocol, so no open registration exists.
type Command interface {
	// CommandType returns the tag byte for this command.
	CommandType() CommandType
	// Size returns the serialized size in bytes.
	Size() int
	// AppendBytes appends the wire form to buf and returns the result.
	AppendBytes(buf []byte) []byte
}

// CommandBytes serializes a command into a fresh buffer.
func CommandBytes(c Command) []byte {
	return c.AppendBytes(make([]byte, 0, c.Size()))
}

// GetFullInfo requests the full device info record.
type GetFullInfo struct{}

// EnableBufferSizeResponseOnData enables or disables buffer-size
// responses piggy-backed on data packets.
type EnableBufferSizeResponseOnData bool

// SetOutput enables or disables laser output.
type SetOutput bool

// GetRingbufferEmptySampleCount requests the free sample count of the
// device's receive ring buffer.
type GetRingbufferEmptySampleCount struct{}

// SampleData carries a batch of points to render. The codec serializes
// any point count; senders must stay within MaxPointsPerMessage to keep
// datagrams transport-safe.
type SampleData struct {
	// MessageNum is the wrapping message sequence number.
	MessageNum uint8
	// FrameNum is the wrapping frame sequence number.
	FrameNum uint8
	Points   []Point
}

func (GetFullInfo) CommandType() CommandType { return CmdGetFullInfo }
func (GetFullInfo) Size() int                { return 1 }
func (c GetFullInfo) AppendBytes(buf []byte) []byte {
	return append(buf, byte(CmdGetFullInfo))
}

func (EnableBufferSizeResponseOnData) CommandType() CommandType {
	return CmdEnableBufferSizeResponseOnData
}
func (EnableBufferSizeResponseOnData) Size() int { return 2 }
func (c EnableBufferSizeResponseOnData) AppendBytes(buf []byte) []byte {
	return append(buf, byte(CmdEnableBufferSizeResponseOnData), boolByte(bool(c)))
}

func (SetOutput) CommandType() CommandType { return CmdSetOutput }
func (SetOutput) Size() int                { return 2 }
func (c SetOutput) AppendBytes(buf []byte) []byte {
	return append(buf, byte(CmdSetOutput), boolByte(bool(c)))
}

func (GetRingbufferEmptySampleCount) CommandType() CommandType {
	return CmdGetRingbufferEmptySampleCount
}
func (GetRingbufferEmptySampleCount) Size() int { return 1 }
func (c GetRingbufferEmptySampleCount) AppendBytes(buf []byte) []byte {
	return append(buf, byte(CmdGetRingbufferEmptySampleCount))
}

func (SampleData) CommandType() CommandType { return CmdSampleData }
func (c SampleData) Size() int              { return 4 + len(c.Points)*PointSize }
func (c SampleData) AppendBytes(buf []byte) []byte {
	// Header: tag, reserved 0x00, message num, frame num.
	buf = append(buf, byte(CmdSampleData), 0x00, c.MessageNum, c.FrameNum)
	for _, p := range c.Points {
		pb := p.Bytes()
		buf = append(buf, pb[:]...)
	}
	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Response is a closed sum over the reply kinds a device produces.
type Response interface {
	isResponse()
}

// FullInfo is the device info record replied to GetFullInfo.
type FullInfo struct {
	Info LaserInfo
}

// BufferFree is the free sample count of the device's ring buffer,
// replied to GetRingbufferEmptySampleCount or piggy-backed on data
// packets when enabled.
type BufferFree uint16

// Ack is the bare acknowledgment replied to payload-less commands.
type Ack struct{}

func (FullInfo) isResponse()   {}
func (BufferFree) isResponse() {}
func (Ack) isResponse()        {}

// ParseResponse decodes a response datagram. The first byte selects the
// command type the reply echoes; the remainder is interpreted per tag.
func ParseResponse(data []byte) (Response, error) {
	if len(data) == 0 {
		return nil, ErrEmptyResponse
	}
	tag := CommandType(data[0])
	if !tag.Valid() {
		return nil, &UnknownCommandTypeError{Type: data[0]}
	}

	switch tag {
	case CmdGetFullInfo:
		// The info record spans the whole datagram; the tag byte sits
		// in the header's reserved region.
		info, err := ParseLaserInfo(data)
		if err != nil {
			return nil, err
		}
		return FullInfo{Info: info}, nil

	case CmdGetRingbufferEmptySampleCount:
		if len(data) < 4 {
			return nil, &TooShortError{
				Context:  tag.String() + " response",
				Expected: 4,
				Actual:   len(data),
			}
		}
		return BufferFree(binary.LittleEndian.Uint16(data[2:4])), nil

	case CmdSampleData:
		// Data packets echo the tag with the free buffer space when
		// buffer-size-on-data is enabled.
		if len(data) < 3 {
			return nil, &TooShortError{
				Context:  tag.String() + " response",
				Expected: 3,
				Actual:   len(data),
			}
		}
		return BufferFree(binary.LittleEndian.Uint16(data[1:3])), nil

	default:
		// EnableBufferSizeResponseOnData and SetOutput carry no
		// payload; trailing bytes are ignored.
		return Ack{}, nil
	}
}
