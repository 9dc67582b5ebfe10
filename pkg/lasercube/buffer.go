// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

// Default buffer geometry from observed devices.
const (
	// DefaultBufferSize is the ring buffer size observed on shipping
	// hardware.
	DefaultBufferSize uint16 = 6000
	// DefaultBufferThreshold trades stability against latency.
	DefaultBufferThreshold uint16 = 5000
)

// BufferState is the sender's belief about the device's receive ring
// buffer. The device reports true occupancy only intermittently (on
// request, or piggy-backed on data acknowledgments); between samples
// the estimator extrapolates drain at the DAC rate so a sender always
// has an admission signal.
//
// All arithmetic saturates: lagging or adversarial timing inputs must
// degrade the estimate, never wrap it into authorizing an overflow.
//
// A BufferState has a single owner per device stream; it provides no
// internal locking.
type BufferState struct {
	// TotalSize is the ring buffer capacity in points.
	TotalSize uint16
	// FreeSpace is the last authoritative-or-locally-adjusted free
	// point count. It is not refreshed on a timer; call
	// EstimateCurrentFreeSpace for the extrapolated value.
	FreeSpace uint16
	// Threshold is the send-admission watermark.
	Threshold uint16
	// LastUpdateTime is the monotonic-millisecond timestamp of the
	// last authoritative sample, zero if none has been taken.
	LastUpdateTime uint64
}

// NewBufferState returns a state with the default device geometry.
func NewBufferState() BufferState {
	return BufferState{
		TotalSize: DefaultBufferSize,
		FreeSpace: DefaultBufferSize,
		Threshold: DefaultBufferThreshold,
	}
}

// UpdateFreeSpace overwrites the believed free space with an
// authoritative device sample taken at now (monotonic milliseconds).
// This is the sole source of ground truth.
func (b *BufferState) UpdateFreeSpace(free uint16, now uint64) {
	b.FreeSpace = free
	b.LastUpdateTime = now
}

// UpdateTotalSize sets the capacity and recomputes the threshold:
// roughly 1000 points of overflow slack on normal buffers, a
// proportional watermark on unusually small ones.
func (b *BufferState) UpdateTotalSize(total uint16) {
	b.TotalSize = total
	if total > 1000 {
		b.Threshold = total - 1000
	} else {
		b.Threshold = total / 6 * 5
	}
}

// Consume models the local effect of a just-sent batch before any
// acknowledgment arrives. Saturates at zero.
func (b *BufferState) Consume(pointsSent uint16) {
	if pointsSent > b.FreeSpace {
		b.FreeSpace = 0
		return
	}
	b.FreeSpace -= pointsSent
}

// ShouldSend reports whether the sender may transmit another batch.
// Callers re-evaluate before every send, typically on a copy carrying
// the estimated free space from EstimateCurrentFreeSpace.
func (b *BufferState) ShouldSend() bool {
	return b.FreeSpace >= b.Threshold
}

// EstimateCurrentFreeSpace extrapolates the free space at now
// (monotonic milliseconds) assuming the device drains dacRate points
// per second since the last sample. With no rate or no sample the last
// known value is returned unchanged. A now earlier than the last
// sample is treated as zero elapsed time rather than an error, so
// timer wraparound or clock skew can only make the estimate
// conservative. The result is capped at the total capacity.
func (b *BufferState) EstimateCurrentFreeSpace(now uint64, dacRate uint32) uint16 {
	if dacRate == 0 || b.LastUpdateTime == 0 {
		return b.FreeSpace
	}

	var elapsedMs uint64
	if now > b.LastUpdateTime {
		elapsedMs = now - b.LastUpdateTime
	}

	// elapsedMs beyond 2^32 would overflow the product; anything that
	// large saturates the 16-bit buffer domain regardless.
	var consumed uint64
	if elapsedMs >= 1<<32 {
		consumed = 1 << 32
	} else {
		consumed = elapsedMs * uint64(dacRate) / 1000
	}
	estimated := uint64(b.FreeSpace) + consumed
	if estimated > uint64(b.TotalSize) {
		return b.TotalSize
	}
	return uint16(estimated)
}
