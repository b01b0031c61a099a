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
	"strings"

	"github.com/beef331/protobuf-go/encoding/protowire"
	"github.com/beef331/protobuf-go/syntax"
)

// Schema is the compiled artifact: every message and enum of one schema,
// keyed by fully-qualified name, with bound wire codecs. The type mapping
// table is built fresh per compilation.
type Schema struct {
	messages  map[string]*MessageType
	enums     map[string]*EnumType
	msgOrder  []string
	enumOrder []string
	typemap   map[string]*scalarCodec
}

// Message looks up a message type by FQN or by its flat identifier (dots
// replaced with underscores).
func (s *Schema) Message(name string) (*MessageType, error) {
	if mt, ok := s.messages[name]; ok {
		return mt, nil
	}
	for _, mt := range s.messages {
		if mt.ident == name {
			return mt, nil
		}
	}
	return nil, errUnknownType(name)
}

// Enum looks up an enum type by FQN or flat identifier.
func (s *Schema) Enum(name string) (*EnumType, error) {
	if et, ok := s.enums[name]; ok {
		return et, nil
	}
	for _, et := range s.enums {
		if et.ident == name {
			return et, nil
		}
	}
	return nil, errUnknownType(name)
}

func (s *Schema) Messages() []*MessageType {
	out := make([]*MessageType, 0, len(s.msgOrder))
	for _, name := range s.msgOrder {
		out = append(out, s.messages[name])
	}
	return out
}

func (s *Schema) Enums() []*EnumType {
	out := make([]*EnumType, 0, len(s.enumOrder))
	for _, name := range s.enumOrder {
		out = append(out, s.enums[name])
	}
	return out
}

// MessageExport bundles the declarations a downstream module needs for one
// message: the type handle plus its bound init, read, write and len
// routines. Sub-message and enum types must be exported explicitly.
type MessageExport struct {
	Type  *MessageType
	Init  func(Fields) (*Message, error)
	Read  func(*protowire.Stream, int) (*Message, error)
	Write func(*protowire.Stream, *Message, bool)
	Len   func(*Message) int
}

func (s *Schema) ExportMessage(name string) (*MessageExport, error) {
	mt, err := s.Message(name)
	if err != nil {
		return nil, err
	}
	return &MessageExport{
		Type:  mt,
		Init:  mt.Init,
		Read:  mt.Read,
		Write: Write,
		Len:   Len,
	}, nil
}

// MessageType describes one message: its field and oneof slots in
// declaration order, with presence indices and lookup tables by canonical
// folded name and by field number.
type MessageType struct {
	name  string
	ident string
	slots []slotRef

	fieldsByName map[string]*FieldDescriptor
	oneofsByName map[string]*OneofType
	byNumber     map[int32]*FieldDescriptor
}

// slotRef is one record slot: exactly one of field or oneof is set.
type slotRef struct {
	field *FieldDescriptor
	oneof *OneofType
}

func (mt *MessageType) Name() string {
	return mt.name
}

// Ident is the flat identifier: the FQN with dots replaced by underscores.
func (mt *MessageType) Ident() string {
	return mt.ident
}

// Fields returns the plain field descriptors in declaration order (oneof
// members excluded).
func (mt *MessageType) Fields() []*FieldDescriptor {
	var out []*FieldDescriptor
	for _, slot := range mt.slots {
		if slot.field != nil {
			out = append(out, slot.field)
		}
	}
	return out
}

func (mt *MessageType) Oneofs() []*OneofType {
	var out []*OneofType
	for _, slot := range mt.slots {
		if slot.oneof != nil {
			out = append(out, slot.oneof)
		}
	}
	return out
}

// FieldByName resolves a plain field or oneof member by case- and
// underscore-insensitive name.
func (mt *MessageType) FieldByName(name string) (*FieldDescriptor, bool) {
	fd, ok := mt.fieldsByName[foldName(name)]
	return fd, ok
}

func (mt *MessageType) OneofByName(name string) (*OneofType, bool) {
	ot, ok := mt.oneofsByName[foldName(name)]
	return ot, ok
}

func (mt *MessageType) FieldByNumber(number int32) (*FieldDescriptor, bool) {
	fd, ok := mt.byNumber[number]
	return fd, ok
}

type FieldDescriptor struct {
	name      string
	canonical string
	number    int32
	kind      Kind
	wire      protowire.WireType
	repeated  bool
	index     int
	codec     *scalarCodec
	message   *MessageType
	enum      *EnumType
	oneof     *OneofType
	oneofIdx  int
}

func (fd *FieldDescriptor) Name() string {
	return fd.name
}

func (fd *FieldDescriptor) Number() int32 {
	return fd.number
}

func (fd *FieldDescriptor) Kind() Kind {
	return fd.kind
}

func (fd *FieldDescriptor) Repeated() bool {
	return fd.repeated
}

// Index is the presence bit this field occupies on its record. Oneof
// members share their oneof's index.
func (fd *FieldDescriptor) Index() int {
	if fd.oneof != nil {
		return fd.oneof.index
	}
	return fd.index
}

// MessageType is the referenced message type for message-kind fields.
func (fd *FieldDescriptor) MessageType() *MessageType {
	return fd.message
}

// EnumType is the referenced enum type for enum-kind fields.
func (fd *FieldDescriptor) EnumType() *EnumType {
	return fd.enum
}

func (fd *FieldDescriptor) Oneof() *OneofType {
	return fd.oneof
}

// goType is the emitted type identity shown in Describe output.
func (fd *FieldDescriptor) goType() string {
	var elem string
	switch fd.kind {
	case KindMessage:
		elem = "*" + fd.message.ident
	default:
		elem = fd.codec.goType
	}
	if fd.repeated {
		return "[]" + elem
	}
	return elem
}

// OneofType describes a oneof as a tagged variant: members in declaration
// order, selectors 0..N-1.
type OneofType struct {
	name    string
	ident   string
	index   int
	members []*FieldDescriptor
}

func (ot *OneofType) Name() string {
	return ot.name
}

func (ot *OneofType) Ident() string {
	return ot.ident
}

func (ot *OneofType) Index() int {
	return ot.index
}

func (ot *OneofType) Members() []*FieldDescriptor {
	return ot.members
}

type EnumValue struct {
	Name   string
	Number int32
}

// EnumType is an open enum: declared values are addressable by name, and
// undeclared numbers round-trip by their numeric representation.
type EnumType struct {
	name     string
	ident    string
	values   []EnumValue
	byName   map[string]int32
	byNumber map[int32]string
}

func (et *EnumType) Name() string {
	return et.name
}

func (et *EnumType) Ident() string {
	return et.ident
}

func (et *EnumType) Values() []EnumValue {
	return et.values
}

// ValueName maps a number to its declared name. Undeclared numbers report
// ok == false; they are still legal values.
func (et *EnumType) ValueName(number int32) (string, bool) {
	name, ok := et.byNumber[number]
	return name, ok
}

func (et *EnumType) ValueNumber(name string) (int32, bool) {
	number, ok := et.byName[name]
	return number, ok
}

func (et *EnumType) Read(s *protowire.Stream) (int32, error) {
	u, err := protowire.ReadVarint(s)
	return int32(u), err
}

func (et *EnumType) Write(s *protowire.Stream, v int32) {
	protowire.WriteVarint(s, uint64(int64(v)))
}

func (et *EnumType) Len(v int32) int {
	return protowire.VarintLen(uint64(int64(v)))
}

// foldName folds a field name to its canonical form: lower case with
// underscores removed.
func foldName(name string) string {
	var buf strings.Builder
	buf.Grow(len(name))
	for ii := 0; ii < len(name); ii++ {
		c := name[ii]
		if c == '_' {
			continue
		}
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		buf.WriteByte(c)
	}
	return buf.String()
}

func flatIdent(fqn string) string {
	return strings.ReplaceAll(fqn, ".", "_")
}

// generate consumes a resolved schema tree and materializes descriptors
// with bound codecs. Enums register first so the type mapping table is
// complete before fields bind to it.
func generate(def *syntax.ProtoDef) (*Schema, error) {
	s := &Schema{
		messages: make(map[string]*MessageType),
		enums:    make(map[string]*EnumType),
		typemap:  newTypeMap(),
	}

	var collectEnums func(enums []*syntax.Enum)
	collectEnums = func(enums []*syntax.Enum) {
		for _, enum := range enums {
			et := &EnumType{
				name:     enum.Name(),
				ident:    flatIdent(enum.Name()),
				byName:   make(map[string]int32),
				byNumber: make(map[int32]string),
			}
			for _, value := range enum.Values() {
				et.values = append(et.values, EnumValue{
					Name:   value.Name(),
					Number: value.Number(),
				})
				et.byName[value.Name()] = value.Number()
				if _, ok := et.byNumber[value.Number()]; !ok {
					et.byNumber[value.Number()] = value.Name()
				}
			}
			s.enums[et.name] = et
			s.enumOrder = append(s.enumOrder, et.name)
			s.typemap[et.name] = enumCodec(et)
		}
	}

	var collectMessages func(msgs []*syntax.Message)
	collectMessages = func(msgs []*syntax.Message) {
		for _, msg := range msgs {
			mt := &MessageType{
				name:         msg.Name(),
				ident:        flatIdent(msg.Name()),
				fieldsByName: make(map[string]*FieldDescriptor),
				oneofsByName: make(map[string]*OneofType),
				byNumber:     make(map[int32]*FieldDescriptor),
			}
			s.messages[mt.name] = mt
			s.msgOrder = append(s.msgOrder, mt.name)
			collectEnums(msg.Enums())
			collectMessages(msg.Messages())
		}
	}

	for _, pkg := range def.Packages() {
		collectEnums(pkg.Enums())
		collectMessages(pkg.Messages())
	}

	var fillMessage func(msg *syntax.Message) error
	fillMessage = func(msg *syntax.Message) error {
		mt := s.messages[msg.Name()]
		for _, decl := range msg.Decls() {
			index := len(mt.slots)
			switch decl := decl.(type) {
			case *syntax.Field:
				fd, err := s.buildField(mt, decl)
				if err != nil {
					return err
				}
				fd.index = index
				mt.slots = append(mt.slots, slotRef{field: fd})
				mt.fieldsByName[fd.canonical] = fd
				mt.byNumber[fd.number] = fd
			case *syntax.Oneof:
				ot := &OneofType{
					name:  decl.Name(),
					ident: flatIdent(decl.Name()),
					index: index,
				}
				for ii, member := range decl.Fields() {
					fd, err := s.buildField(mt, member)
					if err != nil {
						return err
					}
					fd.oneof = ot
					fd.oneofIdx = ii
					ot.members = append(ot.members, fd)
					mt.fieldsByName[fd.canonical] = fd
					mt.byNumber[fd.number] = fd
				}
				mt.slots = append(mt.slots, slotRef{oneof: ot})
				localName := ot.name[strings.LastIndexByte(ot.name, '.')+1:]
				mt.oneofsByName[foldName(localName)] = ot
			}
		}
		for _, child := range msg.Messages() {
			if err := fillMessage(child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, pkg := range def.Packages() {
		for _, msg := range pkg.Messages() {
			if err := fillMessage(msg); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Schema) buildField(mt *MessageType, field *syntax.Field) (*FieldDescriptor, error) {
	fd := &FieldDescriptor{
		name:      field.Name(),
		canonical: foldName(field.Name()),
		number:    field.Number(),
		repeated:  field.Repeated(),
	}
	typeName := field.TypeName()
	if codec, ok := s.typemap[typeName]; ok {
		fd.kind = codec.kind
		fd.wire = codec.wire
		fd.codec = codec
		if codec.kind == KindEnum {
			fd.enum = s.enums[typeName]
		}
		return fd, nil
	}
	if sub, ok := s.messages[typeName]; ok {
		fd.kind = KindMessage
		fd.wire = protowire.WireBytes
		fd.message = sub
		return fd, nil
	}
	return nil, errUnresolvedType(mt.name, typeName)
}

// Describe renders the generated artifact in human-readable form: one block
// per message with slot layout and the generated routine signatures, then
// the enums.
func (s *Schema) Describe() string {
	var buf strings.Builder
	for _, mt := range s.Messages() {
		fmt.Fprintf(&buf, "message %s {\n", mt.ident)
		for _, slot := range mt.slots {
			if slot.field != nil {
				fd := slot.field
				fmt.Fprintf(
					&buf, "  %s %s = %d [slot %d, wire %s]\n",
					fd.name, fd.goType(), fd.number, fd.index, fd.wire,
				)
				continue
			}
			ot := slot.oneof
			fmt.Fprintf(&buf, "  oneof %s [slot %d] {\n", ot.ident, ot.index)
			for ii, member := range ot.members {
				fmt.Fprintf(
					&buf, "    %s %s = %d [case %d, wire %s]\n",
					member.name, member.goType(), member.number, ii, member.wire,
				)
			}
			buf.WriteString("  }\n")
		}
		buf.WriteString("}\n")
		var names []string
		for _, fd := range mt.Fields() {
			names = append(names, fd.name)
		}
		for _, ot := range mt.Oneofs() {
			for _, member := range ot.members {
				names = append(names, member.name)
			}
		}
		fmt.Fprintf(&buf, "  init_%s(%s)\n", mt.ident, strings.Join(names, ", "))
		fmt.Fprintf(&buf, "  read_%s(stream, max_size = 0) -> %s\n", mt.ident, mt.ident)
		fmt.Fprintf(&buf, "  write(stream, %s, prepend_length = false)\n", mt.ident)
		fmt.Fprintf(&buf, "  len(%s) -> int\n\n", mt.ident)
	}
	for _, et := range s.Enums() {
		fmt.Fprintf(&buf, "enum %s {\n", et.ident)
		for _, value := range et.values {
			fmt.Fprintf(&buf, "  %s = %d\n", value.Name, value.Number)
		}
		buf.WriteString("}\n\n")
	}
	return buf.String()
}
