// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package lasercube

import (
	"errors"
	"fmt"
)

// Decode failures are local and recoverable: the caller can log the
// error and discard the datagram. Nothing in this package panics on
// malformed input.

// ErrEmptyResponse is returned when a response datagram has no bytes.
var ErrEmptyResponse = errors.New("empty response")

// ErrMissingNullTerminator is returned when the model name in a full
// info response has no null terminator within the remaining buffer.
var ErrMissingNullTerminator = errors.New("missing null terminator in model name")

// UnknownCommandTypeError is returned when a response's tag byte is not
// a recognized command type.
type UnknownCommandTypeError struct {
	Type byte
}

func (e *UnknownCommandTypeError) Error() string {
	return fmt.Sprintf("unknown command type: 0x%02X", e.Type)
}

// TooShortError is returned when a datagram is shorter than the fixed
// layout it claims to carry. Context names the layout being decoded.
type TooShortError struct {
	Context  string
	Expected int
	Actual   int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("%s too short: expected at least %d bytes, got %d",
		e.Context, e.Expected, e.Actual)
}
