// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package capture

import (
	"bytes"
	"io"
	"testing"
	"time"
)

func TestCapture_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	records := []Record{
		{
			Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Direction: DirSent,
			Addr:      "192.168.1.50:45457",
			Data:      []byte{0x77},
		},
		{
			Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 5e8, time.UTC),
			Direction: DirReceived,
			Addr:      "192.168.1.50:45457",
			Data:      append([]byte{0x77}, make([]byte, 63)...),
		},
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	r := NewReader(&buf)
	for i, want := range records {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		if !got.Timestamp.Equal(want.Timestamp) {
			t.Errorf("record %d: timestamp %v, want %v", i, got.Timestamp, want.Timestamp)
		}
		if got.Direction != want.Direction {
			t.Errorf("record %d: direction %q, want %q", i, got.Direction, want.Direction)
		}
		if got.Addr != want.Addr {
			t.Errorf("record %d: addr %q, want %q", i, got.Addr, want.Addr)
		}
		if !bytes.Equal(got.Data, want.Data) {
			t.Errorf("record %d: data %x, want %x", i, got.Data, want.Data)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last record, got %v", err)
	}
}

func TestWriter_RecordCopiesData(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	scratch := []byte{0x8a, 0x00, 0xe8, 0x03}
	if err := w.Record(DirReceived, "127.0.0.1:45457", scratch); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	// Overwrite the caller's buffer: the stored record must not change.
	for i := range scratch {
		scratch[i] = 0xFF
	}

	rec, err := NewReader(&buf).Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !bytes.Equal(rec.Data, []byte{0x8a, 0x00, 0xe8, 0x03}) {
		t.Errorf("stored data %x mutated by caller buffer reuse", rec.Data)
	}
}
