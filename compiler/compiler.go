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

// Package compiler resolves a parsed schema tree in place: it gathers the
// set of fully-qualified type names, rewrites every field's type reference
// to its fully-qualified form, and enforces duplicate and reserved field
// rules. After a successful resolve the tree is self-describing.
package compiler

import (
	"strings"

	"github.com/beef331/protobuf-go/syntax"
)

const (
	maxFieldNumber = (1 << 29) - 1

	// Field numbers 19000-19999 are reserved by the protobuf
	// implementation itself.
	implReservedLo = 19000
	implReservedHi = 19999
)

type ResolveResult struct {
	// TypeSet holds the fully-qualified name of every message and enum
	// in the schema.
	TypeSet map[string]struct{}

	Errors []*Error
}

func Resolve(def *syntax.ProtoDef) ResolveResult {
	r := &resolver{
		typeSet: make(map[string]struct{}),
	}
	r.gather(def)
	r.resolve(def)
	return ResolveResult{
		TypeSet: r.typeSet,
		Errors:  r.errors,
	}
}

type resolver struct {
	typeSet map[string]struct{}
	errors  []*Error
}

func (r *resolver) err(err error) {
	r.errors = append(r.errors, err.(*Error))
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// gather is pass 1: collect the type set.
func (r *resolver) gather(def *syntax.ProtoDef) {
	seenPackages := make(map[string]struct{})
	for _, pkg := range def.Packages() {
		if _, dup := seenPackages[pkg.Name()]; dup {
			r.err(errDuplicatePackage(pkg.Name(), pkg.Span()))
			continue
		}
		seenPackages[pkg.Name()] = struct{}{}

		for _, msg := range pkg.Messages() {
			r.gatherMessage(pkg.Name(), msg)
		}
		for _, enum := range pkg.Enums() {
			r.addType(joinName(pkg.Name(), enum.Name()), enum.Span())
		}
	}
}

func (r *resolver) gatherMessage(prefix string, msg *syntax.Message) {
	fqn := joinName(prefix, msg.Name())
	r.addType(fqn, msg.Span())
	for _, child := range msg.Messages() {
		r.gatherMessage(fqn, child)
	}
	for _, enum := range msg.Enums() {
		r.addType(joinName(fqn, enum.Name()), enum.Span())
	}
}

func (r *resolver) addType(fqn string, span syntax.Span) {
	if _, dup := r.typeSet[fqn]; dup {
		r.err(errDuplicateTypeName(fqn, span))
		return
	}
	r.typeSet[fqn] = struct{}{}
}

// resolve is pass 2: rewrite type references and local names to FQNs, and
// enforce duplicate and reserved field rules.
func (r *resolver) resolve(def *syntax.ProtoDef) {
	for _, pkg := range def.Packages() {
		var scopes []string
		if pkg.Name() != "" {
			scopes = []string{pkg.Name()}
		}
		for _, msg := range pkg.Messages() {
			r.resolveMessage(pkg.Name(), scopes, msg)
		}
		for _, enum := range pkg.Enums() {
			r.resolveEnum(pkg.Name(), enum)
		}
	}
}

// resolveMessage handles one message. scopes lists the enclosing scope
// prefixes from innermost to outermost, not including the message itself.
func (r *resolver) resolveMessage(prefix string, scopes []string, msg *syntax.Message) {
	fqn := joinName(prefix, msg.Name())
	innerScopes := append([]string{fqn}, scopes...)

	for _, decl := range msg.Decls() {
		switch decl := decl.(type) {
		case *syntax.Field:
			r.resolveTypeRef(innerScopes, fqn, decl)
		case *syntax.Oneof:
			for _, field := range decl.Fields() {
				r.resolveTypeRef(innerScopes, fqn, field)
			}
			decl.SetName(joinName(fqn, decl.Name()))
		}
	}

	for _, child := range msg.Messages() {
		r.resolveMessage(fqn, innerScopes, child)
	}
	for _, enum := range msg.Enums() {
		r.resolveEnum(fqn, enum)
	}

	r.checkMessage(fqn, msg)
	msg.SetName(fqn)
}

func (r *resolver) resolveEnum(prefix string, enum *syntax.Enum) {
	fqn := joinName(prefix, enum.Name())
	names := make(map[string]struct{})
	numbers := make(map[int32]struct{})
	for _, value := range enum.Values() {
		if _, dup := names[value.Name()]; dup {
			r.err(errDuplicateEnumValueName(fqn, value.Name(), value.Span()))
		}
		names[value.Name()] = struct{}{}
		if _, dup := numbers[value.Number()]; dup {
			r.err(errDuplicateEnumValueNumber(fqn, value.Number(), value.Span()))
		}
		numbers[value.Number()] = struct{}{}
	}
	enum.SetName(fqn)
}

// resolveTypeRef rewrites a field's type reference to an FQN in the type
// set. Absolute references (leading dot) must match exactly, then fall back
// to prefixing enclosing scopes outermost-in. Relative references search
// enclosing scopes innermost-out, then the bare name.
func (r *resolver) resolveTypeRef(scopes []string, container string, field *syntax.Field) {
	ref := field.TypeName()
	if syntax.IsScalarType(ref) {
		return
	}

	if strings.HasPrefix(ref, ".") {
		bare := ref[1:]
		if _, ok := r.typeSet[bare]; ok {
			field.SetTypeName(bare)
			return
		}
		for ii := len(scopes) - 1; ii >= 0; ii-- {
			candidate := scopes[ii] + "." + bare
			if _, ok := r.typeSet[candidate]; ok {
				field.SetTypeName(candidate)
				return
			}
		}
		r.err(errTypeNotRecognized(ref, container, field.Span()))
		return
	}

	for _, scope := range scopes {
		candidate := scope + "." + ref
		if _, ok := r.typeSet[candidate]; ok {
			field.SetTypeName(candidate)
			return
		}
	}
	if _, ok := r.typeSet[ref]; ok {
		field.SetTypeName(ref)
		return
	}
	r.err(errTypeNotRecognized(ref, container, field.Span()))
}

// checkMessage enforces duplicate and reserved rules over the message's
// flattened field list (oneof members inline).
func (r *resolver) checkMessage(fqn string, msg *syntax.Message) {
	var fields []*syntax.Field
	for _, decl := range msg.Decls() {
		switch decl := decl.(type) {
		case *syntax.Field:
			fields = append(fields, decl)
		case *syntax.Oneof:
			fields = append(fields, decl.Fields()...)
		}
	}

	names := make(map[string]struct{})
	numbers := make(map[int32]struct{})
	for _, field := range fields {
		if _, dup := names[field.Name()]; dup {
			r.err(errDuplicateFieldName(fqn, field.Name(), field.Span()))
		}
		names[field.Name()] = struct{}{}

		if _, dup := numbers[field.Number()]; dup {
			r.err(errDuplicateFieldNumber(fqn, field.Number(), field.Span()))
		}
		numbers[field.Number()] = struct{}{}

		if field.Number() > maxFieldNumber {
			r.err(errFieldNumberTooLarge(fqn, field.Name(), field.Number(), field.Span()))
		} else if field.Number() >= implReservedLo && field.Number() <= implReservedHi {
			r.err(errFieldNumberImplReserved(fqn, field.Name(), field.Number(), field.Span()))
		}

		for _, reserved := range msg.Reserved() {
			if reserved.IsName() {
				if reserved.Name() == field.Name() {
					r.err(errFieldNameReserved(fqn, field.Name(), field.Span()))
				}
			} else if field.Number() >= reserved.Lo() && field.Number() <= reserved.Hi() {
				r.err(errFieldNumberReserved(fqn, field.Name(), field.Number(), field.Span()))
			}
		}
	}
}
