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
	"encoding/binary"
	"math"
)

const maxVarintLen = 10

func ReadVarint(s *Stream) (uint64, error) {
	start := s.pos
	var v uint64
	for ii := 0; ii < maxVarintLen; ii++ {
		c, err := s.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint64(c&0x7F) << (7 * ii)
		if c&0x80 == 0 {
			return v, nil
		}
	}
	return 0, errMalformedVarint(start)
}

func WriteVarint(s *Stream, v uint64) {
	for v >= 0x80 {
		s.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	s.WriteByte(byte(v))
}

// VarintLen reports how many bytes WriteVarint would emit for v.
func VarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

func ReadZigzag32(s *Stream) (int32, error) {
	v, err := ReadVarint(s)
	if err != nil {
		return 0, err
	}
	x := uint32(v)
	return int32(x>>1) ^ -int32(x&1), nil
}

func WriteZigzag32(s *Stream, v int32) {
	WriteVarint(s, uint64(uint32(v<<1)^uint32(v>>31)))
}

func ZigzagLen32(v int32) int {
	return VarintLen(uint64(uint32(v<<1) ^ uint32(v>>31)))
}

func ReadZigzag64(s *Stream) (int64, error) {
	v, err := ReadVarint(s)
	if err != nil {
		return 0, err
	}
	return int64(v>>1) ^ -int64(v&1), nil
}

func WriteZigzag64(s *Stream, v int64) {
	WriteVarint(s, uint64(v<<1)^uint64(v>>63))
}

func ZigzagLen64(v int64) int {
	return VarintLen(uint64(v<<1) ^ uint64(v>>63))
}

func ReadFixed32(s *Stream) (uint32, error) {
	buf, err := s.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func WriteFixed32(s *Stream, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	s.WriteN(buf[:])
}

func ReadFixed64(s *Stream) (uint64, error) {
	buf, err := s.ReadN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

func WriteFixed64(s *Stream, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	s.WriteN(buf[:])
}

func ReadFloat(s *Stream) (float32, error) {
	bits, err := ReadFixed32(s)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

func WriteFloat(s *Stream, v float32) {
	WriteFixed32(s, math.Float32bits(v))
}

func ReadDouble(s *Stream) (float64, error) {
	bits, err := ReadFixed64(s)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func WriteDouble(s *Stream, v float64) {
	WriteFixed64(s, math.Float64bits(v))
}

func ReadBool(s *Stream) (bool, error) {
	v, err := ReadVarint(s)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func WriteBool(s *Stream, v bool) {
	if v {
		s.WriteByte(1)
	} else {
		s.WriteByte(0)
	}
}

// ReadLength reads the length prefix of a length-delimited payload and
// bounds-checks it against the remaining stream.
func ReadLength(s *Stream) (int, error) {
	start := s.pos
	v, err := ReadVarint(s)
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt32 {
		return 0, errLengthOverflow(start, v)
	}
	if rem := len(s.buf) - s.pos; int(v) > rem {
		return 0, errTruncated(s.pos, int(v), rem)
	}
	return int(v), nil
}

func ReadLengthDelimited(s *Stream) ([]byte, error) {
	n, err := ReadLength(s)
	if err != nil {
		return nil, err
	}
	return s.ReadN(n)
}

func WriteLengthDelimited(s *Stream, buf []byte) {
	WriteVarint(s, uint64(len(buf)))
	s.WriteN(buf)
}

func LengthDelimitedLen(n int) int {
	return VarintLen(uint64(n)) + n
}

// SkipField consumes the payload of an unrecognized field. Group markers
// carry no payload of their own; the group interior decodes as further
// unknown fields.
func SkipField(s *Stream, wire WireType) error {
	switch wire {
	case WireVarint:
		_, err := ReadVarint(s)
		return err
	case WireFixed64:
		_, err := s.ReadN(8)
		return err
	case WireBytes:
		n, err := ReadLength(s)
		if err != nil {
			return err
		}
		_, err = s.ReadN(n)
		return err
	case WireStartGroup, WireEndGroup:
		return nil
	case WireFixed32:
		_, err := s.ReadN(4)
		return err
	default:
		return errInvalidWireType(s.Position(), wire)
	}
}
