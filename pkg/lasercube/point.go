// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import "encoding/binary"

// Point size and value-domain constants.
const (
	// PointSize is the serialized size of one point: 5 u16 fields.
	PointSize = 10
	// MaxCoord is the maximum coordinate value (12-bit).
	MaxCoord = 0xFFF
	// CenterCoord is the coordinate value at the center of the field.
	CenterCoord = 0x800
	// MaxColor is the maximum color channel value (12-bit).
	MaxColor = 0xFFF
)

// Point is a single steerable point. Coordinates are 0x000-0xFFF with
// 0x800 at center; color channels are 0x000-0xFFF. The codec passes
// out-of-range values through uninterpreted; the device clamps.
type Point struct {
	X, Y    uint16
	R, G, B uint16
}

// CenterBlank is a centered point with all channels off.
var CenterBlank = Point{X: CenterCoord, Y: CenterCoord}

// Bytes serializes the point as little-endian [x, y, r, g, b].
// The field order is part of the wire contract.
func (p Point) Bytes() [PointSize]byte {
	var b [PointSize]byte
	binary.LittleEndian.PutUint16(b[0:2], p.X)
	binary.LittleEndian.PutUint16(b[2:4], p.Y)
	binary.LittleEndian.PutUint16(b[4:6], p.R)
	binary.LittleEndian.PutUint16(b[6:8], p.G)
	binary.LittleEndian.PutUint16(b[8:10], p.B)
	return b
}

// PointFromBytes deserializes a point. No range validation is applied.
func PointFromBytes(b [PointSize]byte) Point {
	return Point{
		X: binary.LittleEndian.Uint16(b[0:2]),
		Y: binary.LittleEndian.Uint16(b[2:4]),
		R: binary.LittleEndian.Uint16(b[4:6]),
		G: binary.LittleEndian.Uint16(b[6:8]),
		B: binary.LittleEndian.Uint16(b[8:10]),
	}
}

// PointFromNormalized builds a point from normalized coordinates in
// [-1, 1] (0 is center) and colors in [0, 1]. Inputs are clamped first.
func PointFromNormalized(x, y float32, r, g, b float32) Point {
	return Point{
		X: CoordFromNormalized(x),
		Y: CoordFromNormalized(y),
		R: ColorFromNormalized(r),
		G: ColorFromNormalized(g),
		B: ColorFromNormalized(b),
	}
}

// Normalized returns the point's coordinates in [-1, 1] and colors in
// [0, 1]. A from/to round trip may differ by one unit in the 12-bit
// domain because conversion truncates.
func (p Point) Normalized() (x, y float32, r, g, b float32) {
	return NormalizedFromCoord(p.X), NormalizedFromCoord(p.Y),
		NormalizedFromColor(p.R), NormalizedFromColor(p.G), NormalizedFromColor(p.B)
}

// CoordFromNormalized maps a normalized coordinate in [-1, 1] to the
// 12-bit device domain, truncating per the device convention.
func CoordFromNormalized(coord float32) uint16 {
	if coord < -1 {
		coord = -1
	}
	if coord > 1 {
		coord = 1
	}
	return uint16((coord + 1) / 2 * MaxCoord)
}

// ColorFromNormalized maps a normalized color value in [0, 1] to the
// 12-bit device domain, truncating per the device convention.
func ColorFromNormalized(color float32) uint16 {
	if color < 0 {
		color = 0
	}
	if color > 1 {
		color = 1
	}
	return uint16(color * MaxColor)
}

// NormalizedFromCoord maps a 12-bit coordinate to [-1, 1].
func NormalizedFromCoord(coord uint16) float32 {
	return float32(coord)/MaxCoord*2 - 1
}

// NormalizedFromColor maps a 12-bit color value to [0, 1].
func NormalizedFromColor(color uint16) float32 {
	return float32(color) / MaxColor
}
