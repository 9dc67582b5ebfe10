// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import (
	"fmt"
	"strings"
)

// FormatLaserInfo formats a full info record into a human-readable
// multi-line string.
func FormatLaserInfo(info LaserInfo) string {
	h := info.Header

	var sb strings.Builder
	fmt.Fprintf(&sb, "Model:        %s (#%d)\n", info.ModelName, h.ModelNumber)
	fmt.Fprintf(&sb, "Firmware:     v%s\n", info.FirmwareVersion())
	fmt.Fprintf(&sb, "Serial:       %s\n", info.SerialNumberString())
	fmt.Fprintf(&sb, "Connection:   %s\n", info.ConnectionType())
	fmt.Fprintf(&sb, "IP Address:   %s\n", h.IPAddr)
	fmt.Fprintf(&sb, "DAC Rate:     %d pps (max %d)\n", h.DACRate, h.MaxDACRate)
	fmt.Fprintf(&sb, "RX Buffer:    %d/%d points free\n", h.RXBufferFree, h.RXBufferSize)
	fmt.Fprintf(&sb, "Battery:      %d%%\n", h.BatteryPercent)
	fmt.Fprintf(&sb, "Temperature:  %d C\n", h.Temperature)
	fmt.Fprintf(&sb, "Status:       %s\n", FormatStatus(h.Status, h.FWMajor, h.FWMinor))
	return sb.String()
}

// FormatStatus formats the status byte under the bit layout selected by
// the firmware version.
func FormatStatus(f StatusFlags, fwMajor, fwMinor uint8) string {
	parts := make([]string, 0, 5)
	if f.OutputEnabled() {
		parts = append(parts, "output")
	}
	if f.InterlockEnabled(fwMajor, fwMinor) {
		parts = append(parts, "interlock")
	}
	if f.TemperatureWarning(fwMajor, fwMinor) {
		parts = append(parts, "temp-warning")
	}
	if f.OverTemperature(fwMajor, fwMinor) {
		parts = append(parts, "OVER-TEMP")
	}
	if firmwareHasV013Layout(fwMajor, fwMinor) {
		if n := f.PacketErrors(); n > 0 {
			parts = append(parts, fmt.Sprintf("pkt-errors=%d", n))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("0x%02X (idle)", byte(f))
	}
	return fmt.Sprintf("0x%02X (%s)", byte(f), strings.Join(parts, ", "))
}

// FormatResponse formats a parsed response into a one-shot summary.
func FormatResponse(r Response) string {
	switch r := r.(type) {
	case FullInfo:
		return "FULL_INFO:\n" + FormatLaserInfo(r.Info)
	case BufferFree:
		return fmt.Sprintf("BUFFER_FREE: %d points", uint16(r))
	case Ack:
		return "ACK"
	default:
		return fmt.Sprintf("UNKNOWN RESPONSE %T", r)
	}
}
