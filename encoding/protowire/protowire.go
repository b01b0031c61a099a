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

// Package protowire implements the proto3 wire format at the level of
// individual values: varints, ZigZag varints, fixed-width integers, floats,
// and length-delimited payloads, read from and written to a Stream.
package protowire

import (
	"fmt"
)

type WireType uint8

const (
	WireVarint     WireType = 0
	WireFixed64    WireType = 1
	WireBytes      WireType = 2
	WireStartGroup WireType = 3
	WireEndGroup   WireType = 4
	WireFixed32    WireType = 5
)

func (w WireType) String() string {
	switch w {
	case WireVarint:
		return "VARINT"
	case WireFixed64:
		return "FIXED64"
	case WireBytes:
		return "BYTES"
	case WireStartGroup:
		return "START_GROUP"
	case WireEndGroup:
		return "END_GROUP"
	case WireFixed32:
		return "FIXED32"
	default:
		return fmt.Sprintf("WireType(%d)", uint8(w))
	}
}

// MaxFieldNumber is the largest field number representable in a tag.
const MaxFieldNumber = (1 << 29) - 1

func MakeTag(number int32, wire WireType) uint64 {
	return uint64(number)<<3 | uint64(wire)
}

func SplitTag(tag uint64) (int32, WireType) {
	return int32(tag >> 3), WireType(tag & 0b111)
}

// Stream is an in-memory byte stream shared by encode and decode. Reads
// advance the position monotonically; writes overwrite at the position and
// extend the backing buffer when the position reaches the end.
//
// The zero Stream is an empty write stream.
type Stream struct {
	buf []byte
	pos int
}

func NewStream(buf []byte) *Stream {
	return &Stream{buf: buf}
}

func (s *Stream) ReadByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, errTruncated(s.pos, 1, 0)
	}
	c := s.buf[s.pos]
	s.pos++
	return c, nil
}

func (s *Stream) ReadN(n int) ([]byte, error) {
	if rem := len(s.buf) - s.pos; rem < n {
		return nil, errTruncated(s.pos, n, rem)
	}
	out := s.buf[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

func (s *Stream) WriteByte(c byte) {
	if s.pos < len(s.buf) {
		s.buf[s.pos] = c
		s.pos++
		return
	}
	s.buf = append(s.buf, c)
	s.pos = len(s.buf)
}

func (s *Stream) WriteN(buf []byte) {
	if s.pos == len(s.buf) {
		s.buf = append(s.buf, buf...)
		s.pos = len(s.buf)
		return
	}
	n := copy(s.buf[s.pos:], buf)
	if n < len(buf) {
		s.buf = append(s.buf, buf[n:]...)
	}
	s.pos += len(buf)
}

func (s *Stream) Position() int {
	return s.pos
}

func (s *Stream) SetPosition(pos int) {
	s.pos = pos
}

func (s *Stream) AtEnd() bool {
	return s.pos >= len(s.buf)
}

func (s *Stream) Len() int {
	return len(s.buf)
}

func (s *Stream) Bytes() []byte {
	return s.buf
}
