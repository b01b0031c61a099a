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

package syntax

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s *Span) Start() uint32 {
	return s.start
}

func (s *Span) End() uint32 {
	return s.start + s.len
}

func (s *Span) Len() uint32 {
	return s.len
}

// ProtoDef is the root of a parsed schema. The resolver rewrites field type
// references and message, enum and oneof names in place; everything else is
// immutable after parsing.
type ProtoDef struct {
	packages []*Package
}

func (d *ProtoDef) Packages() []*Package {
	return d.packages
}

// Package groups the top-level declarations following a `package` statement.
// Declarations before any such statement belong to the unnamed package.
type Package struct {
	span     Span
	name     string
	messages []*Message
	enums    []*Enum
}

func (p *Package) Span() Span {
	return p.span
}

func (p *Package) Name() string {
	return p.name
}

func (p *Package) Messages() []*Message {
	return p.messages
}

func (p *Package) Enums() []*Enum {
	return p.enums
}

// FieldDecl is a member of a message body: a *Field or a *Oneof, in
// declaration order.
type FieldDecl interface {
	Span() Span

	fieldDecl()
}

type Message struct {
	span     Span
	name     string
	decls    []FieldDecl
	messages []*Message
	enums    []*Enum
	reserved []*Reserved
}

func (m *Message) Span() Span {
	return m.span
}

// Name is the local name after parsing and the fully-qualified name after
// resolution.
func (m *Message) Name() string {
	return m.name
}

func (m *Message) SetName(name string) {
	m.name = name
}

func (m *Message) Decls() []FieldDecl {
	return m.decls
}

func (m *Message) Messages() []*Message {
	return m.messages
}

func (m *Message) Enums() []*Enum {
	return m.enums
}

func (m *Message) Reserved() []*Reserved {
	return m.reserved
}

type Field struct {
	span     Span
	name     string
	number   int32
	typeName string
	repeated bool
}

var _ FieldDecl = (*Field)(nil)

func (f *Field) fieldDecl() {}

func (f *Field) Span() Span {
	return f.span
}

func (f *Field) Name() string {
	return f.name
}

func (f *Field) Number() int32 {
	return f.number
}

// TypeName is a scalar keyword, or a type reference (absolute references
// keep their leading dot until the resolver rewrites them to an FQN).
func (f *Field) TypeName() string {
	return f.typeName
}

func (f *Field) SetTypeName(typeName string) {
	f.typeName = typeName
}

func (f *Field) Repeated() bool {
	return f.repeated
}

type Oneof struct {
	span   Span
	name   string
	fields []*Field
}

var _ FieldDecl = (*Oneof)(nil)

func (o *Oneof) fieldDecl() {}

func (o *Oneof) Span() Span {
	return o.span
}

func (o *Oneof) Name() string {
	return o.name
}

func (o *Oneof) SetName(name string) {
	o.name = name
}

func (o *Oneof) Fields() []*Field {
	return o.fields
}

type Enum struct {
	span   Span
	name   string
	values []*EnumValue
}

func (e *Enum) Span() Span {
	return e.span
}

func (e *Enum) Name() string {
	return e.name
}

func (e *Enum) SetName(name string) {
	e.name = name
}

func (e *Enum) Values() []*EnumValue {
	return e.values
}

type EnumValue struct {
	span   Span
	name   string
	number int32
}

func (v *EnumValue) Span() Span {
	return v.span
}

func (v *EnumValue) Name() string {
	return v.name
}

func (v *EnumValue) Number() int32 {
	return v.number
}

// Reserved is one reservation out of a `reserved` statement: a field name,
// a single number (Lo == Hi), or an inclusive number range.
type Reserved struct {
	span   Span
	name   string
	lo, hi int32
}

func (r *Reserved) Span() Span {
	return r.span
}

func (r *Reserved) IsName() bool {
	return r.name != ""
}

func (r *Reserved) Name() string {
	return r.name
}

func (r *Reserved) Lo() int32 {
	return r.lo
}

func (r *Reserved) Hi() int32 {
	return r.hi
}

var scalarTypes = map[string]struct{}{
	"int32":    {},
	"int64":    {},
	"uint32":   {},
	"uint64":   {},
	"sint32":   {},
	"sint64":   {},
	"fixed32":  {},
	"sfixed32": {},
	"fixed64":  {},
	"sfixed64": {},
	"float":    {},
	"double":   {},
	"bool":     {},
	"string":   {},
	"bytes":    {},
}

// IsScalarType reports whether name is one of the proto3 scalar type
// keywords.
func IsScalarType(name string) bool {
	_, ok := scalarTypes[name]
	return ok
}
