// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import (
	"bytes"
	"errors"
	"testing"
)

func TestCommandBytes(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want []byte
	}{
		{"get full info", GetFullInfo{}, []byte{0x77}},
		{"enable buffer size response", EnableBufferSizeResponseOnData(true), []byte{0x78, 0x01}},
		{"disable buffer size response", EnableBufferSizeResponseOnData(false), []byte{0x78, 0x00}},
		{"output on", SetOutput(true), []byte{0x80, 0x01}},
		{"output off", SetOutput(false), []byte{0x80, 0x00}},
		{"get ringbuffer empty sample count", GetRingbufferEmptySampleCount{}, []byte{0x8a}},
		{
			name: "sample data",
			cmd: SampleData{
				MessageNum: 7,
				FrameNum:   3,
				Points: []Point{
					{X: 0x0102, Y: 0x0304, R: 0x0506, G: 0x0708, B: 0x090A},
				},
			},
			want: []byte{
				0xa9, 0x00, 0x07, 0x03,
				0x02, 0x01, 0x04, 0x03, 0x06, 0x05, 0x08, 0x07, 0x0A, 0x09,
			},
		},
		{"empty sample data", SampleData{MessageNum: 1, FrameNum: 2}, []byte{0xa9, 0x00, 0x01, 0x02}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommandBytes(tt.cmd)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("CommandBytes() = % X, want % X", got, tt.want)
			}
			if tt.cmd.Size() != len(tt.want) {
				t.Errorf("Size() = %d, want %d", tt.cmd.Size(), len(tt.want))
			}
		})
	}
}

func TestSampleData_SizeScalesWithPoints(t *testing.T) {
	for _, count := range []int{0, 1, 50, 140, 500} {
		cmd := SampleData{Points: make([]Point, count)}
		want := 4 + PointSize*count
		if got := len(CommandBytes(cmd)); got != want {
			t.Errorf("len(CommandBytes) with %d points = %d, want %d", count, got, want)
		}
	}
}

func TestParseResponse_BufferFree(t *testing.T) {
	// GetRingbufferEmptySampleCount reply, 1000 free samples.
	resp, err := ParseResponse([]byte{0x8a, 0x00, 0xe8, 0x03})
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	free, ok := resp.(BufferFree)
	if !ok {
		t.Fatalf("response type = %T, want BufferFree", resp)
	}
	if free != 1000 {
		t.Errorf("BufferFree = %d, want 1000", free)
	}
}

func TestParseResponse_DataPacketBufferFree(t *testing.T) {
	// SampleData-tagged reply carries free space at offset 1.
	resp, err := ParseResponse([]byte{0xa9, 0x10, 0x27})
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	free, ok := resp.(BufferFree)
	if !ok {
		t.Fatalf("response type = %T, want BufferFree", resp)
	}
	if free != 10000 {
		t.Errorf("BufferFree = %d, want 10000", free)
	}
}

func TestParseResponse_Ack(t *testing.T) {
	for _, data := range [][]byte{{0x80}, {0x78}, {0x80, 0xAA, 0xBB}} {
		resp, err := ParseResponse(data)
		if err != nil {
			t.Fatalf("ParseResponse(% X) failed: %v", data, err)
		}
		if _, ok := resp.(Ack); !ok {
			t.Errorf("ParseResponse(% X) = %T, want Ack", data, resp)
		}
	}
}

func TestParseResponse_FullInfo(t *testing.T) {
	resp, err := ParseResponse(testInfoBytes(t, "LaserCube"))
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	full, ok := resp.(FullInfo)
	if !ok {
		t.Fatalf("response type = %T, want FullInfo", resp)
	}
	if full.Info.ModelName != "LaserCube" {
		t.Errorf("ModelName = %q, want \"LaserCube\"", full.Info.ModelName)
	}
	if full.Info.Header.RXBufferSize != 6000 {
		t.Errorf("RXBufferSize = %d, want 6000", full.Info.Header.RXBufferSize)
	}
}

func TestParseResponse_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := ParseResponse(nil)
		if !errors.Is(err, ErrEmptyResponse) {
			t.Fatalf("err = %v, want ErrEmptyResponse", err)
		}
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := ParseResponse([]byte{0xFF})
		var unknown *UnknownCommandTypeError
		if !errors.As(err, &unknown) {
			t.Fatalf("err = %v, want UnknownCommandTypeError", err)
		}
		if unknown.Type != 0xFF {
			t.Errorf("Type = 0x%02X, want 0xFF", unknown.Type)
		}
	})

	t.Run("short ringbuffer reply", func(t *testing.T) {
		_, err := ParseResponse([]byte{0x8a, 0x00})
		var short *TooShortError
		if !errors.As(err, &short) {
			t.Fatalf("err = %v, want TooShortError", err)
		}
		if short.Expected != 4 || short.Actual != 2 {
			t.Errorf("TooShortError = %+v, want expected=4 actual=2", short)
		}
	})

	t.Run("short data reply", func(t *testing.T) {
		_, err := ParseResponse([]byte{0xa9, 0x00})
		var short *TooShortError
		if !errors.As(err, &short) {
			t.Fatalf("err = %v, want TooShortError", err)
		}
		if short.Expected != 3 {
			t.Errorf("Expected = %d, want 3", short.Expected)
		}
	})

	t.Run("full info propagates record errors", func(t *testing.T) {
		_, err := ParseResponse(make([]byte, 10)) // starts 0x00: unknown tag
		var unknown *UnknownCommandTypeError
		if !errors.As(err, &unknown) {
			t.Fatalf("err = %v, want UnknownCommandTypeError", err)
		}

		short := make([]byte, 20)
		short[0] = byte(CmdGetFullInfo)
		_, err = ParseResponse(short)
		var tooShort *TooShortError
		if !errors.As(err, &tooShort) {
			t.Fatalf("err = %v, want TooShortError", err)
		}
	})
}
