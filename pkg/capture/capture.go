// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package capture records protocol sessions as a stream of CBOR-framed
// records for later replay and offline analysis. CBOR keeps the raw
// datagram bytes intact without base64 inflation and stays decodable by
// other tooling.
package capture

import (
	"errors"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Direction of a captured datagram relative to the host.
type Direction string

// Capture directions.
const (
	DirSent     Direction = "sent"
	DirReceived Direction = "received"
)

// Record is one captured datagram.
type Record struct {
	Timestamp time.Time `cbor:"ts"`
	Direction Direction `cbor:"dir"`
	Addr      string    `cbor:"addr"`
	Data      []byte    `cbor:"data"`
}

// Writer appends records to a capture stream.
type Writer struct {
	enc *cbor.Encoder
}

// NewWriter wraps w with a CBOR record encoder.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: cbor.NewEncoder(w)}
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	return w.enc.Encode(rec)
}

// Record captures a datagram with the current timestamp.
func (w *Writer) Record(dir Direction, addr string, data []byte) error {
	// Copy: callers reuse their receive buffers.
	buf := make([]byte, len(data))
	copy(buf, data)
	return w.Write(Record{
		Timestamp: time.Now(),
		Direction: dir,
		Addr:      addr,
		Data:      buf,
	})
}

// Reader iterates over a capture stream.
type Reader struct {
	dec *cbor.Decoder
}

// NewReader wraps r with a CBOR record decoder.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at end of stream.
func (r *Reader) Next() (Record, error) {
	var rec Record
	err := r.dec.Decode(&rec)
	if err != nil && errors.Is(err, io.EOF) {
		return Record{}, io.EOF
	}
	return rec, err
}
