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
	"fmt"

	"github.com/beef331/protobuf-go/encoding/protowire"
)

type Kind uint8

const (
	KindInt32 Kind = iota
	KindInt64
	KindUint32
	KindUint64
	KindSint32
	KindSint64
	KindFixed32
	KindSfixed32
	KindFixed64
	KindSfixed64
	KindFloat
	KindDouble
	KindBool
	KindString
	KindBytes
	KindEnum
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindSint32:
		return "sint32"
	case KindSint64:
		return "sint64"
	case KindFixed32:
		return "fixed32"
	case KindSfixed32:
		return "sfixed32"
	case KindFixed64:
		return "fixed64"
	case KindSfixed64:
		return "sfixed64"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindEnum:
		return "enum"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// scalarCodec is one row of the type mapping table: the emitted Go type
// identity, the wire type, and the bound encode/decode/size routines for a
// proto type token. Messages have no row; the generator routes them through
// the length-delimited sub-message protocol.
type scalarCodec struct {
	kind   Kind
	goType string
	wire   protowire.WireType
	encode func(s *protowire.Stream, v any)
	decode func(s *protowire.Stream) (any, error)
	size   func(v any) int
}

// newTypeMap builds a fresh table of the built-in scalar rows. User-defined
// enums are added per compilation under their FQN token.
func newTypeMap() map[string]*scalarCodec {
	tm := make(map[string]*scalarCodec, 16)
	tm["int32"] = &scalarCodec{
		kind:   KindInt32,
		goType: "int32",
		wire:   protowire.WireVarint,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteVarint(s, uint64(int64(v.(int32))))
		},
		decode: func(s *protowire.Stream) (any, error) {
			u, err := protowire.ReadVarint(s)
			return int32(u), err
		},
		size: func(v any) int {
			return protowire.VarintLen(uint64(int64(v.(int32))))
		},
	}
	tm["int64"] = &scalarCodec{
		kind:   KindInt64,
		goType: "int64",
		wire:   protowire.WireVarint,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteVarint(s, uint64(v.(int64)))
		},
		decode: func(s *protowire.Stream) (any, error) {
			u, err := protowire.ReadVarint(s)
			return int64(u), err
		},
		size: func(v any) int {
			return protowire.VarintLen(uint64(v.(int64)))
		},
	}
	tm["uint32"] = &scalarCodec{
		kind:   KindUint32,
		goType: "uint32",
		wire:   protowire.WireVarint,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteVarint(s, uint64(v.(uint32)))
		},
		decode: func(s *protowire.Stream) (any, error) {
			u, err := protowire.ReadVarint(s)
			return uint32(u), err
		},
		size: func(v any) int {
			return protowire.VarintLen(uint64(v.(uint32)))
		},
	}
	tm["uint64"] = &scalarCodec{
		kind:   KindUint64,
		goType: "uint64",
		wire:   protowire.WireVarint,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteVarint(s, v.(uint64))
		},
		decode: func(s *protowire.Stream) (any, error) {
			return protowire.ReadVarint(s)
		},
		size: func(v any) int {
			return protowire.VarintLen(v.(uint64))
		},
	}
	tm["sint32"] = &scalarCodec{
		kind:   KindSint32,
		goType: "int32",
		wire:   protowire.WireVarint,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteZigzag32(s, v.(int32))
		},
		decode: func(s *protowire.Stream) (any, error) {
			return protowire.ReadZigzag32(s)
		},
		size: func(v any) int {
			return protowire.ZigzagLen32(v.(int32))
		},
	}
	tm["sint64"] = &scalarCodec{
		kind:   KindSint64,
		goType: "int64",
		wire:   protowire.WireVarint,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteZigzag64(s, v.(int64))
		},
		decode: func(s *protowire.Stream) (any, error) {
			return protowire.ReadZigzag64(s)
		},
		size: func(v any) int {
			return protowire.ZigzagLen64(v.(int64))
		},
	}
	tm["fixed32"] = &scalarCodec{
		kind:   KindFixed32,
		goType: "uint32",
		wire:   protowire.WireFixed32,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteFixed32(s, v.(uint32))
		},
		decode: func(s *protowire.Stream) (any, error) {
			return protowire.ReadFixed32(s)
		},
		size: func(v any) int {
			return 4
		},
	}
	tm["sfixed32"] = &scalarCodec{
		kind:   KindSfixed32,
		goType: "int32",
		wire:   protowire.WireFixed32,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteFixed32(s, uint32(v.(int32)))
		},
		decode: func(s *protowire.Stream) (any, error) {
			u, err := protowire.ReadFixed32(s)
			return int32(u), err
		},
		size: func(v any) int {
			return 4
		},
	}
	tm["fixed64"] = &scalarCodec{
		kind:   KindFixed64,
		goType: "uint64",
		wire:   protowire.WireFixed64,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteFixed64(s, v.(uint64))
		},
		decode: func(s *protowire.Stream) (any, error) {
			return protowire.ReadFixed64(s)
		},
		size: func(v any) int {
			return 8
		},
	}
	tm["sfixed64"] = &scalarCodec{
		kind:   KindSfixed64,
		goType: "int64",
		wire:   protowire.WireFixed64,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteFixed64(s, uint64(v.(int64)))
		},
		decode: func(s *protowire.Stream) (any, error) {
			u, err := protowire.ReadFixed64(s)
			return int64(u), err
		},
		size: func(v any) int {
			return 8
		},
	}
	tm["float"] = &scalarCodec{
		kind:   KindFloat,
		goType: "float32",
		wire:   protowire.WireFixed32,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteFloat(s, v.(float32))
		},
		decode: func(s *protowire.Stream) (any, error) {
			return protowire.ReadFloat(s)
		},
		size: func(v any) int {
			return 4
		},
	}
	tm["double"] = &scalarCodec{
		kind:   KindDouble,
		goType: "float64",
		wire:   protowire.WireFixed64,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteDouble(s, v.(float64))
		},
		decode: func(s *protowire.Stream) (any, error) {
			return protowire.ReadDouble(s)
		},
		size: func(v any) int {
			return 8
		},
	}
	tm["bool"] = &scalarCodec{
		kind:   KindBool,
		goType: "bool",
		wire:   protowire.WireVarint,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteBool(s, v.(bool))
		},
		decode: func(s *protowire.Stream) (any, error) {
			return protowire.ReadBool(s)
		},
		size: func(v any) int {
			return 1
		},
	}
	tm["string"] = &scalarCodec{
		kind:   KindString,
		goType: "string",
		wire:   protowire.WireBytes,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteLengthDelimited(s, []byte(v.(string)))
		},
		decode: func(s *protowire.Stream) (any, error) {
			buf, err := protowire.ReadLengthDelimited(s)
			return string(buf), err
		},
		size: func(v any) int {
			return protowire.LengthDelimitedLen(len(v.(string)))
		},
	}
	tm["bytes"] = &scalarCodec{
		kind:   KindBytes,
		goType: "[]byte",
		wire:   protowire.WireBytes,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteLengthDelimited(s, v.([]byte))
		},
		decode: func(s *protowire.Stream) (any, error) {
			buf, err := protowire.ReadLengthDelimited(s)
			if err != nil {
				return nil, err
			}
			out := make([]byte, len(buf))
			copy(out, buf)
			return out, nil
		},
		size: func(v any) int {
			return protowire.LengthDelimitedLen(len(v.([]byte)))
		},
	}
	return tm
}

// enumCodec builds the type mapping row for a user-defined enum. Numbers
// outside the declared value set pass through unchanged so unknown values
// round-trip numerically.
func enumCodec(et *EnumType) *scalarCodec {
	return &scalarCodec{
		kind:   KindEnum,
		goType: et.ident,
		wire:   protowire.WireVarint,
		encode: func(s *protowire.Stream, v any) {
			protowire.WriteVarint(s, uint64(int64(v.(int32))))
		},
		decode: func(s *protowire.Stream) (any, error) {
			u, err := protowire.ReadVarint(s)
			return int32(u), err
		},
		size: func(v any) int {
			return protowire.VarintLen(uint64(int64(v.(int32))))
		},
	}
}
