// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks datagram and decode-error counters for one device
// session. Used by the monitor TUI and the capture command.
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	DatagramsSent     uint64
	PointsSent        uint64
	DatagramsReceived uint64
	ValidResponses    uint64
	EmptyResponses    uint64
	UnknownTags       uint64
	ShortResponses    uint64
	InfoParseErrors   uint64

	// Rates (calculated)
	DatagramRate float64 // datagrams/sec received
	PointRate    float64 // points/sec sent
	ErrorRate    float64 // decode errors/sec
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// RecordSend counts an outbound datagram carrying the given points.
func (s *Statistics) RecordSend(points int) {
	s.DatagramsSent++
	s.PointsSent += uint64(points)
	s.LastUpdateTime = time.Now()
}

// RecordResponse counts an inbound datagram and classifies its decode
// outcome.
func (s *Statistics) RecordResponse(decodeErr error) {
	s.DatagramsReceived++

	if decodeErr == nil {
		s.ValidResponses++
		s.LastUpdateTime = time.Now()
		return
	}

	var unknown *UnknownCommandTypeError
	var short *TooShortError
	switch {
	case errors.Is(decodeErr, ErrEmptyResponse):
		s.EmptyResponses++
	case errors.As(decodeErr, &unknown):
		s.UnknownTags++
	case errors.As(decodeErr, &short):
		s.ShortResponses++
	default:
		// Info record failures (missing terminator etc.)
		s.InfoParseErrors++
	}
	s.LastUpdateTime = time.Now()
}

// DecodeErrors returns the total decode failure count.
func (s *Statistics) DecodeErrors() uint64 {
	return s.EmptyResponses + s.UnknownTags + s.ShortResponses + s.InfoParseErrors
}

// CalculateRates recalculates the datagram, point and error rates.
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.DatagramRate = float64(s.DatagramsReceived) / elapsed
		s.PointRate = float64(s.PointsSent) / elapsed
		s.ErrorRate = float64(s.DecodeErrors()) / elapsed
	}
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	s.CalculateRates()

	var validPercent float64
	if s.DatagramsReceived > 0 {
		validPercent = float64(s.ValidResponses) * 100.0 / float64(s.DatagramsReceived)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Session statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Datagrams Sent:  %8d (%d points)\n", s.DatagramsSent, s.PointsSent)
	result += fmt.Sprintf("Datagrams Rcvd:  %8d\n", s.DatagramsReceived)
	result += fmt.Sprintf("Valid Responses: %8d (%.1f%%)\n", s.ValidResponses, validPercent)

	if s.EmptyResponses > 0 {
		result += fmt.Sprintf("Empty Responses: %8d\n", s.EmptyResponses)
	}
	if s.UnknownTags > 0 {
		result += fmt.Sprintf("Unknown Tags:    %8d\n", s.UnknownTags)
	}
	if s.ShortResponses > 0 {
		result += fmt.Sprintf("Short Responses: %8d\n", s.ShortResponses)
	}
	if s.InfoParseErrors > 0 {
		result += fmt.Sprintf("Info Parse Errs: %8d\n", s.InfoParseErrors)
	}

	result += fmt.Sprintf("Receive Rate:    %8.1f datagrams/sec\n", s.DatagramRate)
	result += fmt.Sprintf("Point Rate:      %8.1f points/sec\n", s.PointRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "========================================\n"

	return result
}

// Reset resets all counters.
func (s *Statistics) Reset() {
	now := time.Now()
	*s = Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}
