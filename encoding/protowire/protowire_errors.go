// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package protowire

import (
	"fmt"
)

type Error struct {
	code    uint32
	message string
	offset  int
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// Offset is the stream position at which decoding failed.
func (err *Error) Offset() int {
	return err.offset
}

func errMalformedVarint(offset int) error {
	return &Error{
		code: 4000,
		message: fmt.Sprintf(
			"Malformed varint at offset %d (no terminating byte within %d bytes)",
			offset, maxVarintLen,
		),
		offset: offset,
	}
}

func errTruncated(offset, want, got int) error {
	return &Error{
		code: 4001,
		message: fmt.Sprintf(
			"Truncated stream at offset %d (want %d bytes, have %d)",
			offset, want, got,
		),
		offset: offset,
	}
}

func errLengthOverflow(offset int, length uint64) error {
	return &Error{
		code: 4002,
		message: fmt.Sprintf(
			"Declared length %d at offset %d exceeds the maximum payload size",
			length, offset,
		),
		offset: offset,
	}
}

func errInvalidWireType(offset int, wire WireType) error {
	return &Error{
		code:    4003,
		message: fmt.Sprintf("Invalid wire type %d at offset %d", uint8(wire), offset),
		offset:  offset,
	}
}
