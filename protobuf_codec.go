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

package protobuf

import (
	"github.com/beef331/protobuf-go/encoding/protowire"
)

// Write encodes a message onto a stream in declaration order, skipping
// fields whose presence bit is unset. Encode is total over a well-typed
// instance. With prependLength the payload is preceded by its own length
// as a varint.
func Write(s *protowire.Stream, m *Message, prependLength bool) {
	if prependLength {
		protowire.WriteVarint(s, uint64(Len(m)))
	}
	writeMessage(s, m)
}

// Marshal encodes a message into a fresh buffer without an outer length
// prefix.
func Marshal(m *Message) []byte {
	s := protowire.NewStream(nil)
	writeMessage(s, m)
	return s.Bytes()
}

func writeMessage(s *protowire.Stream, m *Message) {
	for ii, slot := range m.typ.slots {
		if !m.presence.has(ii) {
			continue
		}
		if slot.field != nil {
			writeField(s, slot.field, m.slots[ii])
			continue
		}
		oneof := m.slots[ii].(*Oneof)
		writeField(s, oneof.Field(), oneof.value)
	}
}

func writeField(s *protowire.Stream, fd *FieldDescriptor, v any) {
	if fd.repeated {
		writeRepeated(s, fd, v.([]any))
		return
	}
	if fd.kind == KindMessage {
		sub := v.(*Message)
		protowire.WriteVarint(s, protowire.MakeTag(fd.number, protowire.WireBytes))
		protowire.WriteVarint(s, uint64(Len(sub)))
		writeMessage(s, sub)
		return
	}
	protowire.WriteVarint(s, protowire.MakeTag(fd.number, fd.wire))
	fd.codec.encode(s, v)
}

func writeRepeated(s *protowire.Stream, fd *FieldDescriptor, elems []any) {
	if fd.kind == KindMessage {
		for _, elem := range elems {
			sub := elem.(*Message)
			protowire.WriteVarint(s, protowire.MakeTag(fd.number, protowire.WireBytes))
			protowire.WriteVarint(s, uint64(Len(sub)))
			writeMessage(s, sub)
		}
		return
	}
	if fd.wire == protowire.WireBytes {
		// proto3 does not pack length-delimited fields.
		for _, elem := range elems {
			protowire.WriteVarint(s, protowire.MakeTag(fd.number, fd.wire))
			fd.codec.encode(s, elem)
		}
		return
	}
	protowire.WriteVarint(s, protowire.MakeTag(fd.number, protowire.WireBytes))
	payload := 0
	for _, elem := range elems {
		payload += fd.codec.size(elem)
	}
	protowire.WriteVarint(s, uint64(payload))
	for _, elem := range elems {
		fd.codec.encode(s, elem)
	}
}

// Len is the exact byte count Write would produce without an outer length
// prefix.
func Len(m *Message) int {
	n := 0
	for ii, slot := range m.typ.slots {
		if !m.presence.has(ii) {
			continue
		}
		if slot.field != nil {
			n += fieldLen(slot.field, m.slots[ii])
			continue
		}
		oneof := m.slots[ii].(*Oneof)
		n += fieldLen(oneof.Field(), oneof.value)
	}
	return n
}

func fieldLen(fd *FieldDescriptor, v any) int {
	if fd.repeated {
		return repeatedLen(fd, v.([]any))
	}
	if fd.kind == KindMessage {
		tagLen := protowire.VarintLen(protowire.MakeTag(fd.number, protowire.WireBytes))
		return tagLen + protowire.LengthDelimitedLen(Len(v.(*Message)))
	}
	tagLen := protowire.VarintLen(protowire.MakeTag(fd.number, fd.wire))
	return tagLen + fd.codec.size(v)
}

func repeatedLen(fd *FieldDescriptor, elems []any) int {
	if fd.kind == KindMessage {
		tagLen := protowire.VarintLen(protowire.MakeTag(fd.number, protowire.WireBytes))
		n := 0
		for _, elem := range elems {
			n += tagLen + protowire.LengthDelimitedLen(Len(elem.(*Message)))
		}
		return n
	}
	if fd.wire == protowire.WireBytes {
		tagLen := protowire.VarintLen(protowire.MakeTag(fd.number, fd.wire))
		n := 0
		for _, elem := range elems {
			n += tagLen + fd.codec.size(elem)
		}
		return n
	}
	tagLen := protowire.VarintLen(protowire.MakeTag(fd.number, protowire.WireBytes))
	payload := 0
	for _, elem := range elems {
		payload += fd.codec.size(elem)
	}
	return tagLen + protowire.VarintLen(uint64(payload)) + payload
}

// Read decodes one message from the stream. A maxSize of 0 means read until
// end of stream; otherwise decoding stops once maxSize bytes have been
// consumed past the start position. Unknown field numbers are skipped by
// wire type; a partially populated record is a valid result.
func (mt *MessageType) Read(s *protowire.Stream, maxSize int) (*Message, error) {
	m := mt.New()
	start := s.Position()
	for !s.AtEnd() && (maxSize == 0 || s.Position() < start+maxSize) {
		tag, err := protowire.ReadVarint(s)
		if err != nil {
			return nil, err
		}
		number, wire := protowire.SplitTag(tag)
		fd, ok := mt.byNumber[number]
		if !ok {
			if err := protowire.SkipField(s, wire); err != nil {
				return nil, err
			}
			continue
		}
		if err := readField(s, m, fd, wire); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Unmarshal decodes a message from a byte buffer.
func (mt *MessageType) Unmarshal(buf []byte) (*Message, error) {
	return mt.Read(protowire.NewStream(buf), 0)
}

func readField(s *protowire.Stream, m *Message, fd *FieldDescriptor, wire protowire.WireType) error {
	if fd.kind == KindMessage {
		if wire != protowire.WireBytes {
			return protowire.SkipField(s, wire)
		}
		n, err := protowire.ReadLength(s)
		if err != nil {
			return err
		}
		// A zero length is an empty sub-message; Read would treat a
		// maxSize of 0 as unbounded and consume the parent's fields.
		sub := fd.message.New()
		if n > 0 {
			sub, err = fd.message.Read(s, n)
			if err != nil {
				return err
			}
		}
		if fd.repeated {
			m.appendFieldValue(fd, sub)
		} else {
			m.setFieldValue(fd, sub)
		}
		return nil
	}

	if fd.repeated {
		if wire == protowire.WireBytes && fd.wire != protowire.WireBytes {
			// Packed payload of a varint or fixed-width scalar. The tag
			// alone marks the field present, so a zero-length payload
			// round-trips an explicitly set empty field.
			n, err := protowire.ReadLength(s)
			if err != nil {
				return err
			}
			m.touchRepeated(fd)
			end := s.Position() + n
			for s.Position() < end {
				v, err := fd.codec.decode(s)
				if err != nil {
					return err
				}
				m.appendFieldValue(fd, v)
			}
			return nil
		}
		if wire != fd.wire {
			return protowire.SkipField(s, wire)
		}
		v, err := fd.codec.decode(s)
		if err != nil {
			return err
		}
		m.appendFieldValue(fd, v)
		return nil
	}

	if wire != fd.wire {
		// Wire type disagrees with the schema; treat the payload as an
		// unknown field to preserve forward compatibility.
		return protowire.SkipField(s, wire)
	}
	v, err := fd.codec.decode(s)
	if err != nil {
		return err
	}
	m.setFieldValue(fd, v)
	return nil
}
