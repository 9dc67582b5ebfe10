// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import "testing"

func TestStatusFlags_OutputEnabled(t *testing.T) {
	if !StatusFlags(0x01).OutputEnabled() {
		t.Error("bit 0 set: OutputEnabled() = false, want true")
	}
	if StatusFlags(0xFE).OutputEnabled() {
		t.Error("bit 0 clear: OutputEnabled() = true, want false")
	}
}

func TestStatusFlags_FirmwareVersionedBits(t *testing.T) {
	tests := []struct {
		name             string
		flags            StatusFlags
		fwMajor, fwMinor uint8
		interlock        bool
		tempWarning      bool
		overTemp         bool
	}{
		{
			name:  "v0.13 layout bits 1-3",
			flags: 0x0E, fwMajor: 0, fwMinor: 13,
			interlock: true, tempWarning: true, overTemp: true,
		},
		{
			name:  "v1.0 uses the v0.13 layout",
			flags: 0x02, fwMajor: 1, fwMinor: 0,
			interlock: true,
		},
		{
			name:  "v0.12 ignores bits 1-2",
			flags: 0x06, fwMajor: 0, fwMinor: 12,
		},
		{
			name:  "v0.12 legacy bits 3-5",
			flags: 0x38, fwMajor: 0, fwMinor: 12,
			interlock: true, tempWarning: true, overTemp: true,
		},
		{
			name:  "v0.13 reads legacy interlock bit as over-temp",
			flags: 0x08, fwMajor: 0, fwMinor: 13,
			overTemp: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.InterlockEnabled(tt.fwMajor, tt.fwMinor); got != tt.interlock {
				t.Errorf("InterlockEnabled(%d, %d) = %v, want %v", tt.fwMajor, tt.fwMinor, got, tt.interlock)
			}
			if got := tt.flags.TemperatureWarning(tt.fwMajor, tt.fwMinor); got != tt.tempWarning {
				t.Errorf("TemperatureWarning(%d, %d) = %v, want %v", tt.fwMajor, tt.fwMinor, got, tt.tempWarning)
			}
			if got := tt.flags.OverTemperature(tt.fwMajor, tt.fwMinor); got != tt.overTemp {
				t.Errorf("OverTemperature(%d, %d) = %v, want %v", tt.fwMajor, tt.fwMinor, got, tt.overTemp)
			}
		})
	}
}

// The same physical byte must decode differently under the two firmware
// eras.
func TestStatusFlags_SameByteTwoLayouts(t *testing.T) {
	f := StatusFlags(0x2F) // 0b0010_1111

	// Firmware 0.13: output + interlock + temp warning + over temp,
	// packet error counter in the top nibble.
	if !f.OutputEnabled() {
		t.Error("0x2F v0.13: output disabled, want enabled")
	}
	if !f.InterlockEnabled(0, 13) || !f.TemperatureWarning(0, 13) || !f.OverTemperature(0, 13) {
		t.Error("0x2F v0.13: want interlock, temp warning and over temp all set")
	}
	if got := f.PacketErrors(); got != 2 {
		t.Errorf("0x2F PacketErrors() = %d, want 2", got)
	}

	// Firmware 0.12: bit 3 is interlock, bit 4 (clear) is temp
	// warning, bit 5 is over temp.
	if !f.InterlockEnabled(0, 12) {
		t.Error("0x2F v0.12: interlock clear, want set")
	}
	if f.TemperatureWarning(0, 12) {
		t.Error("0x2F v0.12: temp warning set, want clear")
	}
	if !f.OverTemperature(0, 12) {
		t.Error("0x2F v0.12: over temp clear, want set")
	}
}

func TestStatusFlags_PacketErrors(t *testing.T) {
	tests := []struct {
		flags StatusFlags
		want  uint8
	}{
		{0x00, 0},
		{0x50, 5},
		{0xF0, 15},
		{0x0F, 0},
	}

	for _, tt := range tests {
		if got := tt.flags.PacketErrors(); got != tt.want {
			t.Errorf("StatusFlags(0x%02X).PacketErrors() = %d, want %d", byte(tt.flags), got, tt.want)
		}
	}
}
