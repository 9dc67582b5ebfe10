// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

// StatusFlags is the status/capability byte from the full info response
// (offset 5). Firmware 0.13 moved the interlock and temperature bits and
// introduced the packet-error counter in the top nibble, so the same
// physical byte has two layouts. Interpretation is a pure function of
// the byte plus the co-located firmware version fields; the raw byte is
// never rewritten.
type StatusFlags byte

// Bit positions, firmware >= 0.13.
const (
	FlagOutputEnabled         StatusFlags = 1 << 0 // valid in both layouts
	FlagInterlockEnabled013   StatusFlags = 1 << 1
	FlagTemperatureWarning013 StatusFlags = 1 << 2
	FlagOverTemperature013    StatusFlags = 1 << 3
	// FlagPacketErrorsMask covers the 4-bit packet-error counter
	// (firmware >= 0.13 only).
	FlagPacketErrorsMask StatusFlags = 0xF0
)

// Legacy bit positions, firmware <= 0.12.
const (
	FlagInterlockEnabled012   StatusFlags = 1 << 3
	FlagTemperatureWarning012 StatusFlags = 1 << 4
	FlagOverTemperature012    StatusFlags = 1 << 5
)

// firmwareHasV013Layout selects between the two historical bit layouts.
func firmwareHasV013Layout(fwMajor, fwMinor uint8) bool {
	return fwMajor > 0 || fwMinor >= 13
}

// OutputEnabled reports whether laser output is enabled. Bit 0 is
// firmware-independent.
func (f StatusFlags) OutputEnabled() bool {
	return f&FlagOutputEnabled != 0
}

// InterlockEnabled reports the safety interlock state for the given
// firmware version.
func (f StatusFlags) InterlockEnabled(fwMajor, fwMinor uint8) bool {
	if firmwareHasV013Layout(fwMajor, fwMinor) {
		return f&FlagInterlockEnabled013 != 0
	}
	return f&FlagInterlockEnabled012 != 0
}

// TemperatureWarning reports the temperature warning condition for the
// given firmware version.
func (f StatusFlags) TemperatureWarning(fwMajor, fwMinor uint8) bool {
	if firmwareHasV013Layout(fwMajor, fwMinor) {
		return f&FlagTemperatureWarning013 != 0
	}
	return f&FlagTemperatureWarning012 != 0
}

// OverTemperature reports the over-temperature condition for the given
// firmware version.
func (f StatusFlags) OverTemperature(fwMajor, fwMinor uint8) bool {
	if firmwareHasV013Layout(fwMajor, fwMinor) {
		return f&FlagOverTemperature013 != 0
	}
	return f&FlagOverTemperature012 != 0
}

// PacketErrors returns the 4-bit packet-error counter from the top
// nibble. Only meaningful on firmware >= 0.13.
func (f StatusFlags) PacketErrors() uint8 {
	return uint8(f&FlagPacketErrorsMask) >> 4
}
