// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package client

import (
	"context"
	"math"
	"net"
	"time"

	"github.com/Thermoquad/lasercube/pkg/lasercube"
)

// PointSource yields successive points of a repeating pattern. The
// second result reports that the pattern just wrapped, which advances
// the frame counter.
type PointSource interface {
	Next() (p lasercube.Point, endOfFrame bool)
}

// CirclePattern traces a circle of the given normalized radius with
// pointCount points per revolution.
type CirclePattern struct {
	Radius     float32
	PointCount int
	R, G, B    float32

	index int
}

// NewCirclePattern returns a white circle pattern.
func NewCirclePattern(radius float32, pointCount int) *CirclePattern {
	return &CirclePattern{Radius: radius, PointCount: pointCount, R: 1, G: 1, B: 1}
}

// Next returns the next point on the circle.
func (c *CirclePattern) Next() (lasercube.Point, bool) {
	angle := 2 * math.Pi * float64(c.index) / float64(c.PointCount)
	x := c.Radius * float32(math.Cos(angle))
	y := c.Radius * float32(math.Sin(angle))

	c.index++
	wrapped := c.index >= c.PointCount
	if wrapped {
		c.index = 0
	}
	return lasercube.PointFromNormalized(x, y, c.R, c.G, c.B), wrapped
}

// Streamer drives a continuous point stream to one device, using a
// BufferState to admit batches: between device feedback samples the
// estimator extrapolates drain at the DAC rate, and every BufferFree
// reply re-anchors the belief.
type Streamer struct {
	client *Client
	src    PointSource

	// State is the flow-control belief for this session.
	State lasercube.BufferState
	// Stats counts datagrams and decode outcomes for the session.
	Stats *lasercube.Statistics

	dacRate  uint32
	msgNum   uint8
	frameNum uint8
	start    time.Time
}

// NewStreamer sizes the flow-control state from a fresh info record.
func NewStreamer(c *Client, info lasercube.LaserInfo, src PointSource) *Streamer {
	s := &Streamer{
		client:  c,
		src:     src,
		State:   lasercube.NewBufferState(),
		Stats:   lasercube.NewStatistics(),
		dacRate: info.Header.DACRate,
		start:   time.Now(),
	}
	s.State.UpdateTotalSize(info.Header.RXBufferSize)
	s.State.UpdateFreeSpace(info.Header.RXBufferFree, s.nowMs())
	return s
}

// nowMs is the session-monotonic millisecond clock. Offset by one so
// zero stays the estimator's "never sampled" sentinel.
func (s *Streamer) nowMs() uint64 {
	return uint64(time.Since(s.start).Milliseconds()) + 1
}

// Run streams until ctx is done. The admission decision substitutes the
// extrapolated free space into a copy of the state; the state itself
// only changes on sends and on authoritative feedback.
func (s *Streamer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		est := s.State.EstimateCurrentFreeSpace(s.nowMs(), s.dacRate)
		probe := s.State
		probe.FreeSpace = est
		if !probe.ShouldSend() {
			// Below the watermark: wait for drain or feedback.
			s.pollFeedback(5 * time.Millisecond)
			continue
		}

		batch := est
		if batch > lasercube.MaxPointsPerMessage {
			batch = lasercube.MaxPointsPerMessage
		}
		points := make([]lasercube.Point, 0, batch)
		for range batch {
			p, endOfFrame := s.src.Next()
			points = append(points, p)
			if endOfFrame {
				s.frameNum++
			}
		}

		sd := lasercube.SampleData{
			MessageNum: s.msgNum,
			FrameNum:   s.frameNum,
			Points:     points,
		}
		if err := s.client.SendSampleData(sd); err != nil {
			return err
		}
		s.msgNum++
		s.Stats.RecordSend(len(points))
		s.State.Consume(uint16(len(points)))

		s.pollFeedback(10 * time.Millisecond)
	}
}

// pollFeedback reads one data-port reply if any arrives within the
// timeout, updating the flow-control state on BufferFree.
func (s *Streamer) pollFeedback(timeout time.Duration) {
	resp, err := s.client.ReadDataResponse(timeout)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return
		}
		s.Stats.RecordResponse(err)
		return
	}
	s.Stats.RecordResponse(nil)
	if free, ok := resp.(lasercube.BufferFree); ok {
		s.State.UpdateFreeSpace(uint16(free), s.nowMs())
	}
}
