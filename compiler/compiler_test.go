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

package compiler_test

import (
	"testing"

	"github.com/beef331/protobuf-go/compiler"
	"github.com/beef331/protobuf-go/internal/testutil"
	"github.com/beef331/protobuf-go/syntax"
)

func resolve(t *testing.T, src string) (*syntax.ProtoDef, compiler.ResolveResult) {
	t.Helper()
	def, err := syntax.Parse([]byte(src))
	testutil.AssertNoError(t, err)
	return def, compiler.Resolve(def)
}

func resolveOK(t *testing.T, src string) *syntax.ProtoDef {
	t.Helper()
	def, result := resolve(t, src)
	for _, err := range result.Errors {
		testutil.ExpectNoError(t, err)
	}
	if len(result.Errors) > 0 {
		t.FailNow()
	}
	return def
}

func resolveErrCodes(t *testing.T, src string) []uint32 {
	t.Helper()
	_, result := resolve(t, src)
	var codes []uint32
	for _, err := range result.Errors {
		codes = append(codes, err.Code())
	}
	return codes
}

func TestResolveTypeSet(t *testing.T) {
	t.Parallel()

	_, result := resolve(t, `
		syntax = "proto3";
		package pkg;
		message Outer {
			message Inner {
				bool b = 1;
			}
			enum Color { RED = 0; }
			Inner i = 1;
		}
		enum Top { A = 0; }
	`)
	testutil.ExpectEq(t, 0, len(result.Errors))

	want := []string{"pkg.Outer", "pkg.Outer.Inner", "pkg.Outer.Color", "pkg.Top"}
	testutil.ExpectEq(t, len(want), len(result.TypeSet))
	for _, name := range want {
		_, ok := result.TypeSet[name]
		testutil.ExpectTrue(t, ok)
	}
}

func TestResolveRewritesNames(t *testing.T) {
	t.Parallel()

	def := resolveOK(t, `
		syntax = "proto3";
		package pkg;
		message Outer {
			message Inner {
				Sibling s = 1;
			}
			message Sibling {
				bool b = 1;
			}
			Inner i = 1;
			oneof c {
				Inner a = 2;
			}
			enum Color { RED = 0; }
		}
	`)

	outer := def.Packages()[0].Messages()[0]
	testutil.ExpectEq(t, "pkg.Outer", outer.Name())

	inner := outer.Messages()[0]
	testutil.ExpectEq(t, "pkg.Outer.Inner", inner.Name())
	testutil.ExpectEq(t, "pkg.Outer.Color", outer.Enums()[0].Name())

	// Relative reference from a nested scope resolved innermost-out.
	s := inner.Decls()[0].(*syntax.Field)
	testutil.ExpectEq(t, "pkg.Outer.Sibling", s.TypeName())

	i := outer.Decls()[0].(*syntax.Field)
	testutil.ExpectEq(t, "pkg.Outer.Inner", i.TypeName())

	oneof := outer.Decls()[1].(*syntax.Oneof)
	testutil.ExpectEq(t, "pkg.Outer.c", oneof.Name())
	testutil.ExpectEq(t, "pkg.Outer.Inner", oneof.Fields()[0].TypeName())
}

func TestResolveAbsoluteReference(t *testing.T) {
	t.Parallel()

	def := resolveOK(t, `
		syntax = "proto3";
		package pkg;
		message A {
			.pkg.B b = 1;
		}
		message B {
			bool x = 1;
		}
	`)
	a := def.Packages()[0].Messages()[0]
	b := a.Decls()[0].(*syntax.Field)
	testutil.ExpectEq(t, "pkg.B", b.TypeName())
}

func TestResolveBareNameFallback(t *testing.T) {
	t.Parallel()

	// The reference is only valid as a bare lookup across packages.
	def := resolveOK(t, `
		syntax = "proto3";
		message Shared { bool b = 1; }
		package pkg;
		message M {
			Shared s = 1;
		}
	`)
	m := def.Packages()[1].Messages()[0]
	s := m.Decls()[0].(*syntax.Field)
	testutil.ExpectEq(t, "Shared", s.TypeName())
}

// Resolver totality: after a clean resolve, every field's type is a scalar
// keyword or a member of the gathered type set.
func TestResolverTotality(t *testing.T) {
	t.Parallel()

	def, result := resolve(t, `
		syntax = "proto3";
		package pkg;
		message Outer {
			message Inner { Color c = 1; }
			enum Color { RED = 0; }
			Inner i = 1;
			repeated Outer more = 2;
			string s = 3;
		}
	`)
	testutil.ExpectEq(t, 0, len(result.Errors))

	var checkMessage func(msg *syntax.Message)
	checkMessage = func(msg *syntax.Message) {
		var fields []*syntax.Field
		for _, decl := range msg.Decls() {
			switch decl := decl.(type) {
			case *syntax.Field:
				fields = append(fields, decl)
			case *syntax.Oneof:
				fields = append(fields, decl.Fields()...)
			}
		}
		for _, field := range fields {
			if syntax.IsScalarType(field.TypeName()) {
				continue
			}
			_, ok := result.TypeSet[field.TypeName()]
			testutil.ExpectTrue(t, ok)
		}
		for _, child := range msg.Messages() {
			checkMessage(child)
		}
	}
	for _, pkg := range def.Packages() {
		for _, msg := range pkg.Messages() {
			checkMessage(msg)
		}
	}
}

func TestResolveUnknownType(t *testing.T) {
	t.Parallel()

	_, result := resolve(t, `
		syntax = "proto3";
		message M { Missing x = 1; }
	`)
	if len(result.Errors) != 1 {
		t.Fatalf("Expected one error, got: %v", result.Errors)
	}
	err := result.Errors[0]
	testutil.ExpectEq(t, uint32(3002), err.Code())
	testutil.ExpectMatch(t, `"Missing" not recognized inside "M"`, err.Message())
}

func TestDuplicateFieldName(t *testing.T) {
	t.Parallel()

	codes := resolveErrCodes(t, `
		syntax = "proto3";
		message M {
			int32 n = 1;
			string n = 2;
		}
	`)
	testutil.ExpectSliceEq(t, []uint32{3003}, codes)
}

func TestDuplicateFieldNumber(t *testing.T) {
	t.Parallel()

	// Oneof members share the message's tag space.
	codes := resolveErrCodes(t, `
		syntax = "proto3";
		message M {
			int32 n = 1;
			oneof c {
				string s = 1;
			}
		}
	`)
	testutil.ExpectSliceEq(t, []uint32{3004}, codes)
}

func TestFieldNumberLimits(t *testing.T) {
	t.Parallel()

	codes := resolveErrCodes(t, `
		syntax = "proto3";
		message M { int32 big = 536870912; }
	`)
	testutil.ExpectSliceEq(t, []uint32{3005}, codes)

	codes = resolveErrCodes(t, `
		syntax = "proto3";
		message M { int32 impl = 19500; }
	`)
	testutil.ExpectSliceEq(t, []uint32{3006}, codes)

	def := resolveOK(t, `
		syntax = "proto3";
		message M { int32 max = 536870911; }
	`)
	_ = def
}

// Reserved enforcement, including both failing variants and the passing one.
func TestReservedEnforcement(t *testing.T) {
	t.Parallel()

	codes := resolveErrCodes(t, `
		syntax = "proto3";
		message M {
			int32 n = 1;
			reserved 2, 4 to 6;
			reserved "old";
			int32 old = 3;
		}
	`)
	testutil.ExpectSliceEq(t, []uint32{3007}, codes)

	codes = resolveErrCodes(t, `
		syntax = "proto3";
		message M {
			int32 n = 1;
			reserved 2, 4 to 6;
			reserved "old";
			int32 fresh = 5;
		}
	`)
	testutil.ExpectSliceEq(t, []uint32{3008}, codes)

	resolveOK(t, `
		syntax = "proto3";
		message M {
			int32 n = 1;
			reserved 2, 4 to 6;
			reserved "old";
			int32 fresh = 7;
		}
	`)
}

func TestReservedInNestedMessage(t *testing.T) {
	t.Parallel()

	codes := resolveErrCodes(t, `
		syntax = "proto3";
		message Outer {
			message Inner {
				reserved 1;
				int32 n = 1;
			}
		}
	`)
	testutil.ExpectSliceEq(t, []uint32{3008}, codes)
}

func TestDuplicateTypes(t *testing.T) {
	t.Parallel()

	codes := resolveErrCodes(t, `
		syntax = "proto3";
		message M { bool b = 1; }
		enum M { A = 0; }
	`)
	testutil.ExpectSliceEq(t, []uint32{3001}, codes)
}

func TestDuplicateEnumValues(t *testing.T) {
	t.Parallel()

	codes := resolveErrCodes(t, `
		syntax = "proto3";
		enum E {
			A = 0;
			A = 1;
		}
	`)
	testutil.ExpectSliceEq(t, []uint32{3009}, codes)

	codes = resolveErrCodes(t, `
		syntax = "proto3";
		enum E {
			A = 0;
			B = 0;
		}
	`)
	testutil.ExpectSliceEq(t, []uint32{3010}, codes)
}
