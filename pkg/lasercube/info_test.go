// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import (
	"errors"
	"net/netip"
	"testing"
)

// testInfoBytes builds a full info response datagram with known field
// values at the protocol's fixed offsets.
func testInfoBytes(t *testing.T, modelName string) []byte {
	t.Helper()

	buf := make([]byte, InfoHeaderSize+len(modelName)+1)
	buf[0] = byte(CmdGetFullInfo)
	buf[3] = 0  // fw major
	buf[4] = 13 // fw minor
	buf[5] = 0x01
	// DAC rate 6000, max 30000
	buf[11], buf[12] = 0x70, 0x17
	buf[15], buf[16] = 0x30, 0x75
	// RX buffer 5000 free of 6000
	buf[20], buf[21] = 0x88, 0x13
	buf[22], buf[23] = 0x70, 0x17
	buf[24] = 87 // battery
	buf[25] = 31 // temperature
	copy(buf[26:32], []byte{0x02, 0x1A, 0x30, 0x04, 0x05, 0x06})
	copy(buf[32:36], []byte{192, 168, 1, 100})
	buf[37] = 5 // model number
	copy(buf[InfoHeaderSize:], modelName)
	return buf
}

func TestParseLaserInfo(t *testing.T) {
	info, err := ParseLaserInfo(testInfoBytes(t, "LaserCube Pro"))
	if err != nil {
		t.Fatalf("ParseLaserInfo failed: %v", err)
	}

	h := info.Header
	if h.FWMajor != 0 || h.FWMinor != 13 {
		t.Errorf("firmware = %d.%d, want 0.13", h.FWMajor, h.FWMinor)
	}
	if !h.OutputEnabled() {
		t.Error("OutputEnabled() = false, want true")
	}
	if h.DACRate != 6000 {
		t.Errorf("DACRate = %d, want 6000", h.DACRate)
	}
	if h.MaxDACRate != 30000 {
		t.Errorf("MaxDACRate = %d, want 30000", h.MaxDACRate)
	}
	if h.RXBufferFree != 5000 || h.RXBufferSize != 6000 {
		t.Errorf("RX buffer = %d/%d, want 5000/6000", h.RXBufferFree, h.RXBufferSize)
	}
	if h.BatteryPercent != 87 {
		t.Errorf("BatteryPercent = %d, want 87", h.BatteryPercent)
	}
	if h.Temperature != 31 {
		t.Errorf("Temperature = %d, want 31", h.Temperature)
	}
	if h.SerialNumber != [6]byte{0x02, 0x1A, 0x30, 0x04, 0x05, 0x06} {
		t.Errorf("SerialNumber = %v", h.SerialNumber)
	}
	if want := netip.AddrFrom4([4]byte{192, 168, 1, 100}); h.IPAddr != want {
		t.Errorf("IPAddr = %s, want %s", h.IPAddr, want)
	}
	if h.ModelNumber != 5 {
		t.Errorf("ModelNumber = %d, want 5", h.ModelNumber)
	}
	if info.ModelName != "LaserCube Pro" {
		t.Errorf("ModelName = %q, want %q", info.ModelName, "LaserCube Pro")
	}
}

func TestParseLaserInfo_DerivedAccessors(t *testing.T) {
	info, err := ParseLaserInfo(testInfoBytes(t, "LaserCube"))
	if err != nil {
		t.Fatalf("ParseLaserInfo failed: %v", err)
	}

	if got := info.FirmwareVersion(); got != "0.13" {
		t.Errorf("FirmwareVersion() = %q, want \"0.13\"", got)
	}
	if got := info.SerialNumberString(); got != "02:1a:30:04:05:06" {
		t.Errorf("SerialNumberString() = %q, want \"02:1a:30:04:05:06\"", got)
	}
	if got := info.ConnectionType(); got != ConnectionEthernet {
		t.Errorf("ConnectionType() = %v, want Ethernet", got)
	}
}

func TestConnectionTypeFromByte(t *testing.T) {
	tests := []struct {
		b    byte
		want ConnectionType
	}{
		{0, ConnectionUnknown},
		{1, ConnectionUSB},
		{2, ConnectionEthernet},
		{3, ConnectionWifi},
		{4, ConnectionUnknown},
		{0xFF, ConnectionUnknown},
	}
	for _, tt := range tests {
		if got := ConnectionTypeFromByte(tt.b); got != tt.want {
			t.Errorf("ConnectionTypeFromByte(%d) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

func TestParseLaserInfo_Errors(t *testing.T) {
	t.Run("short header", func(t *testing.T) {
		_, err := ParseLaserInfo(make([]byte, InfoHeaderSize-1))
		var short *TooShortError
		if !errors.As(err, &short) {
			t.Fatalf("err = %v, want TooShortError", err)
		}
		if short.Expected != InfoHeaderSize || short.Actual != InfoHeaderSize-1 {
			t.Errorf("TooShortError = %+v, want expected=%d actual=%d", short, InfoHeaderSize, InfoHeaderSize-1)
		}
	})

	t.Run("missing null terminator", func(t *testing.T) {
		data := testInfoBytes(t, "LaserCube")
		data = data[:len(data)-1] // drop the terminator
		_, err := ParseLaserInfo(data)
		if !errors.Is(err, ErrMissingNullTerminator) {
			t.Fatalf("err = %v, want ErrMissingNullTerminator", err)
		}
	})

	t.Run("invalid utf8 is substituted not rejected", func(t *testing.T) {
		data := testInfoBytes(t, "Cube\xFF\xFE")
		info, err := ParseLaserInfo(data)
		if err != nil {
			t.Fatalf("ParseLaserInfo failed: %v", err)
		}
		if info.ModelName != "Cube�" {
			t.Errorf("ModelName = %q, want lossy substitution", info.ModelName)
		}
	})
}

func TestLaserInfo_EncodeRoundTrip(t *testing.T) {
	want, err := ParseLaserInfo(testInfoBytes(t, "LaserCube Ultra"))
	if err != nil {
		t.Fatalf("ParseLaserInfo failed: %v", err)
	}

	encoded := want.Bytes()
	if len(encoded) > InfoMaxSize {
		t.Fatalf("encoded length %d exceeds max %d", len(encoded), InfoMaxSize)
	}

	// Reserved offsets encode as zero. Offset 0 held the tag byte in
	// the received form; the record encoder does not reproduce it.
	for _, off := range []int{0, 1, 2, 6, 7, 8, 9, 10, 19, 36} {
		if encoded[off] != 0 {
			t.Errorf("reserved offset %d = 0x%02X, want 0", off, encoded[off])
		}
	}

	got, err := ParseLaserInfo(encoded)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLaserInfo_EncodeTruncatesLongName(t *testing.T) {
	info := LaserInfo{ModelName: string(make([]byte, 100))}
	encoded := info.Bytes()
	if len(encoded) != InfoMaxSize {
		t.Errorf("encoded length = %d, want %d", len(encoded), InfoMaxSize)
	}
}
