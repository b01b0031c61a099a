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
	"math"
)

type presence []uint64

func newPresence(n int) presence {
	return make(presence, (n+63)/64)
}

func (p presence) set(ii int) {
	p[ii/64] |= 1 << (ii % 64)
}

func (p presence) clear(ii int) {
	p[ii/64] &^= 1 << (ii % 64)
}

func (p presence) has(ii int) bool {
	return p[ii/64]&(1<<(ii%64)) != 0
}

// Fields is the named-argument surface of Init: declared field names (case-
// and underscore-insensitive) to values.
type Fields map[string]any

// Message is a dynamic record of one MessageType. Every slot is reachable
// only through the presence-aware accessors: a write sets the slot's
// presence bit, a read of an unset slot fails.
//
// A Message is not safe for concurrent mutation.
type Message struct {
	typ      *MessageType
	presence presence
	slots    []any
}

// Oneof is a tagged variant value: the selector of the active member plus
// its payload. Assigning any member replaces the whole variant.
type Oneof struct {
	typ   *OneofType
	which int
	value any
}

func (o *Oneof) Type() *OneofType {
	return o.typ
}

// Which is the selector of the active member, in 0..N-1.
func (o *Oneof) Which() int {
	return o.which
}

// Field is the descriptor of the active member.
func (o *Oneof) Field() *FieldDescriptor {
	return o.typ.members[o.which]
}

func (o *Oneof) Value() any {
	return o.value
}

func (mt *MessageType) New() *Message {
	return &Message{
		typ:      mt,
		presence: newPresence(len(mt.slots)),
		slots:    make([]any, len(mt.slots)),
	}
}

// Init constructs a message with the given fields set. Names of undeclared
// fields are an error; apart from decoding, Init and the Set accessor are
// the only ways to put contents into a message.
func (mt *MessageType) Init(fields Fields) (*Message, error) {
	m := mt.New()
	for name, v := range fields {
		if err := m.Set(name, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Message) Type() *MessageType {
	return m.typ
}

// Get returns the value of a field, oneof member, or oneof. Reading an
// unset field (or an inactive oneof member) fails with a presence error.
// Repeated fields read as []any; oneofs read as *Oneof.
func (m *Message) Get(name string) (any, error) {
	if fd, ok := m.typ.FieldByName(name); ok {
		if fd.oneof != nil {
			if !m.presence.has(fd.oneof.index) {
				return nil, errFieldNotInitialized(name)
			}
			oneof := m.slots[fd.oneof.index].(*Oneof)
			if oneof.which != fd.oneofIdx {
				return nil, errFieldNotInitialized(name)
			}
			return oneof.value, nil
		}
		if !m.presence.has(fd.index) {
			return nil, errFieldNotInitialized(name)
		}
		return m.slots[fd.index], nil
	}
	if ot, ok := m.typ.OneofByName(name); ok {
		if !m.presence.has(ot.index) {
			return nil, errFieldNotInitialized(name)
		}
		return m.slots[ot.index].(*Oneof), nil
	}
	return nil, errUnknownField(m.typ.name, name)
}

// Set assigns a field or oneof member and sets its presence bit. Oneofs
// cannot be assigned directly; assigning a member overwrites the variant.
func (m *Message) Set(name string, v any) error {
	if fd, ok := m.typ.FieldByName(name); ok {
		if fd.repeated {
			elems, err := coerceSlice(fd, name, v)
			if err != nil {
				return err
			}
			m.slots[fd.index] = elems
			m.presence.set(fd.index)
			return nil
		}
		cv, err := coerceScalar(fd, name, v)
		if err != nil {
			return err
		}
		m.setFieldValue(fd, cv)
		return nil
	}
	if _, ok := m.typ.OneofByName(name); ok {
		return errCannotSetOneof(name)
	}
	return errUnknownField(m.typ.name, name)
}

// Has conjoins presence tests over one or more names. A oneof member is
// present only while it is the active member.
func (m *Message) Has(names ...string) (bool, error) {
	for _, name := range names {
		if fd, ok := m.typ.FieldByName(name); ok {
			if fd.oneof != nil {
				if !m.presence.has(fd.oneof.index) {
					return false, nil
				}
				oneof := m.slots[fd.oneof.index].(*Oneof)
				if oneof.which != fd.oneofIdx {
					return false, nil
				}
				continue
			}
			if !m.presence.has(fd.index) {
				return false, nil
			}
			continue
		}
		if ot, ok := m.typ.OneofByName(name); ok {
			if !m.presence.has(ot.index) {
				return false, nil
			}
			continue
		}
		return false, errUnknownField(m.typ.name, name)
	}
	return true, nil
}

// Reset clears the presence bit and zeroes the underlying slot. Resetting
// an inactive oneof member is a no-op.
func (m *Message) Reset(name string) error {
	if fd, ok := m.typ.FieldByName(name); ok {
		if fd.oneof != nil {
			if m.presence.has(fd.oneof.index) {
				oneof := m.slots[fd.oneof.index].(*Oneof)
				if oneof.which == fd.oneofIdx {
					m.slots[fd.oneof.index] = nil
					m.presence.clear(fd.oneof.index)
				}
			}
			return nil
		}
		m.slots[fd.index] = nil
		m.presence.clear(fd.index)
		return nil
	}
	if ot, ok := m.typ.OneofByName(name); ok {
		m.slots[ot.index] = nil
		m.presence.clear(ot.index)
		return nil
	}
	return errUnknownField(m.typ.name, name)
}

// setFieldValue assigns an already-coerced value, routing oneof members
// through their variant slot.
func (m *Message) setFieldValue(fd *FieldDescriptor, v any) {
	if fd.oneof != nil {
		m.slots[fd.oneof.index] = &Oneof{
			typ:   fd.oneof,
			which: fd.oneofIdx,
			value: v,
		}
		m.presence.set(fd.oneof.index)
		return
	}
	m.slots[fd.index] = v
	m.presence.set(fd.index)
}

// touchRepeated marks a repeated slot present with no elements yet.
func (m *Message) touchRepeated(fd *FieldDescriptor) {
	if !m.presence.has(fd.index) {
		m.slots[fd.index] = []any{}
		m.presence.set(fd.index)
	}
}

// appendFieldValue grows a repeated slot by one decoded element.
func (m *Message) appendFieldValue(fd *FieldDescriptor, v any) {
	var elems []any
	if m.presence.has(fd.index) {
		elems = m.slots[fd.index].([]any)
	}
	m.slots[fd.index] = append(elems, v)
	m.presence.set(fd.index)
}

func elemTypeName(fd *FieldDescriptor) string {
	if fd.kind == KindMessage {
		return "*" + fd.message.ident
	}
	return fd.codec.goType
}

func coerceScalar(fd *FieldDescriptor, name string, v any) (any, error) {
	switch fd.kind {
	case KindInt32, KindSint32, KindSfixed32, KindEnum:
		switch v := v.(type) {
		case int32:
			return v, nil
		case int:
			if v < math.MinInt32 || v > math.MaxInt32 {
				return nil, errValueOutOfRange(name, v, "int32")
			}
			return int32(v), nil
		}
	case KindInt64, KindSint64, KindSfixed64:
		switch v := v.(type) {
		case int64:
			return v, nil
		case int32:
			return int64(v), nil
		case int:
			return int64(v), nil
		}
	case KindUint32, KindFixed32:
		switch v := v.(type) {
		case uint32:
			return v, nil
		case int:
			if v < 0 || v > math.MaxUint32 {
				return nil, errValueOutOfRange(name, v, "uint32")
			}
			return uint32(v), nil
		}
	case KindUint64, KindFixed64:
		switch v := v.(type) {
		case uint64:
			return v, nil
		case int:
			if v < 0 {
				return nil, errValueOutOfRange(name, v, "uint64")
			}
			return uint64(v), nil
		}
	case KindFloat:
		if v, ok := v.(float32); ok {
			return v, nil
		}
	case KindDouble:
		if v, ok := v.(float64); ok {
			return v, nil
		}
	case KindBool:
		if v, ok := v.(bool); ok {
			return v, nil
		}
	case KindString:
		if v, ok := v.(string); ok {
			return v, nil
		}
	case KindBytes:
		if v, ok := v.([]byte); ok {
			return v, nil
		}
	case KindMessage:
		if sub, ok := v.(*Message); ok && sub.typ == fd.message {
			return sub, nil
		}
	}
	return nil, errTypeMismatch(name, v, elemTypeName(fd))
}

func coerceElems[E any](fd *FieldDescriptor, name string, vs []E) ([]any, error) {
	out := make([]any, 0, len(vs))
	for _, v := range vs {
		cv, err := coerceScalar(fd, name, v)
		if err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, nil
}

func coerceSlice(fd *FieldDescriptor, name string, v any) ([]any, error) {
	switch v := v.(type) {
	case []any:
		return coerceElems(fd, name, v)
	case []int:
		return coerceElems(fd, name, v)
	case []int32:
		return coerceElems(fd, name, v)
	case []int64:
		return coerceElems(fd, name, v)
	case []uint32:
		return coerceElems(fd, name, v)
	case []uint64:
		return coerceElems(fd, name, v)
	case []float32:
		return coerceElems(fd, name, v)
	case []float64:
		return coerceElems(fd, name, v)
	case []bool:
		return coerceElems(fd, name, v)
	case []string:
		return coerceElems(fd, name, v)
	case [][]byte:
		return coerceElems(fd, name, v)
	case []*Message:
		return coerceElems(fd, name, v)
	}
	return nil, errTypeMismatch(name, v, "[]"+elemTypeName(fd))
}
