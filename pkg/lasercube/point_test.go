// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import "testing"

func TestPointBytes_Layout(t *testing.T) {
	p := Point{X: 0x1234, Y: 0x5678, R: 0x9ABC, G: 0xDEF0, B: 0x1234}
	b := p.Bytes()

	want := [PointSize]byte{0x34, 0x12, 0x78, 0x56, 0xBC, 0x9A, 0xF0, 0xDE, 0x34, 0x12}
	if b != want {
		t.Errorf("Bytes() = %#v, want %#v", b, want)
	}
}

func TestPointBytes_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		p    Point
	}{
		{"center blank", CenterBlank},
		{"zero", Point{}},
		{"max 12-bit", Point{X: MaxCoord, Y: MaxCoord, R: MaxColor, G: MaxColor, B: MaxColor}},
		{"out of range passes through", Point{X: 0xFFFF, Y: 0x8000, R: 0xF000, G: 0x1001, B: 0xABCD}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointFromBytes(tt.p.Bytes())
			if got != tt.p {
				t.Errorf("PointFromBytes(Bytes()) = %+v, want %+v", got, tt.p)
			}
		})
	}
}

func TestCoordFromNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want uint16
	}{
		{"minimum", -1.0, 0},
		{"maximum", 1.0, MaxCoord},
		{"clamped below", -5.0, 0},
		{"clamped above", 2.5, MaxCoord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoordFromNormalized(tt.in); got != tt.want {
				t.Errorf("CoordFromNormalized(%v) = 0x%03X, want 0x%03X", tt.in, got, tt.want)
			}
		})
	}

	// Center maps within one unit of 0x800 (truncating conversion).
	center := CoordFromNormalized(0)
	if center < CenterCoord-1 || center > CenterCoord {
		t.Errorf("CoordFromNormalized(0) = 0x%03X, want 0x%03X +/- 1", center, CenterCoord)
	}
}

func TestColorFromNormalized(t *testing.T) {
	if got := ColorFromNormalized(0); got != 0 {
		t.Errorf("ColorFromNormalized(0) = %d, want 0", got)
	}
	if got := ColorFromNormalized(1); got != MaxColor {
		t.Errorf("ColorFromNormalized(1) = %d, want %d", got, MaxColor)
	}
	if got := ColorFromNormalized(-0.5); got != 0 {
		t.Errorf("ColorFromNormalized(-0.5) = %d, want 0 (clamped)", got)
	}
	if got := ColorFromNormalized(1.5); got != MaxColor {
		t.Errorf("ColorFromNormalized(1.5) = %d, want %d (clamped)", got, MaxColor)
	}
}

func TestNormalization_RoundTripWithinOneUnit(t *testing.T) {
	// Truncation may lose at most one unit in the 12-bit domain.
	for coord := 0; coord <= MaxCoord; coord += 0x111 {
		back := CoordFromNormalized(NormalizedFromCoord(uint16(coord)))
		if diff := int(back) - coord; diff < -1 || diff > 1 {
			t.Errorf("coord round trip: 0x%03X -> 0x%03X (diff %d)", coord, back, diff)
		}
	}
	for color := 0; color <= MaxColor; color += 0x111 {
		back := ColorFromNormalized(NormalizedFromColor(uint16(color)))
		if diff := int(back) - color; diff < -1 || diff > 1 {
			t.Errorf("color round trip: 0x%03X -> 0x%03X (diff %d)", color, back, diff)
		}
	}
}

func TestPointNormalized_RoundTrip(t *testing.T) {
	original := Point{X: 0x400, Y: 0xC00, R: 0x800, G: 0, B: MaxColor}
	x, y, r, g, b := original.Normalized()
	restored := PointFromNormalized(x, y, r, g, b)

	within := func(a, b uint16) bool {
		d := int(a) - int(b)
		return d >= -1 && d <= 1
	}
	if !within(restored.X, original.X) || !within(restored.Y, original.Y) ||
		!within(restored.R, original.R) || !within(restored.G, original.G) ||
		!within(restored.B, original.B) {
		t.Errorf("round trip %+v -> %+v exceeds one-unit tolerance", original, restored)
	}
}
