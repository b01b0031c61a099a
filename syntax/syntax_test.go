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

package syntax_test

import (
	"testing"

	"github.com/beef331/protobuf-go/internal/testutil"
	"github.com/beef331/protobuf-go/syntax"
)

func parse(t *testing.T, src string) *syntax.ProtoDef {
	t.Helper()
	def, err := syntax.Parse([]byte(src))
	testutil.AssertNoError(t, err)
	return def
}

func parseErr(t *testing.T, src string) *syntax.Error {
	t.Helper()
	_, err := syntax.Parse([]byte(src))
	testutil.AssertError(t, err)
	return err.(*syntax.Error)
}

func TestParseSchema(t *testing.T) {
	t.Parallel()

	def := parse(t, `
		syntax = "proto3";
		package foo.bar;

		// A test message.
		message Outer {
			int32 n = 1;
			repeated string names = 2;
			Inner inner = 3;
			.foo.bar.Outer.Inner abs = 4;

			message Inner {
				sint64 s = 1;
			}

			enum Color {
				RED = 0;
				BLUE = 5;
			}
		}
	`)

	pkgs := def.Packages()
	testutil.ExpectEq(t, 1, len(pkgs))
	testutil.ExpectEq(t, "foo.bar", pkgs[0].Name())

	msgs := pkgs[0].Messages()
	testutil.ExpectEq(t, 1, len(msgs))
	outer := msgs[0]
	testutil.ExpectEq(t, "Outer", outer.Name())

	decls := outer.Decls()
	testutil.ExpectEq(t, 4, len(decls))

	n := decls[0].(*syntax.Field)
	testutil.ExpectEq(t, "n", n.Name())
	testutil.ExpectEq(t, int32(1), n.Number())
	testutil.ExpectEq(t, "int32", n.TypeName())
	testutil.ExpectFalse(t, n.Repeated())

	names := decls[1].(*syntax.Field)
	testutil.ExpectEq(t, "names", names.Name())
	testutil.ExpectTrue(t, names.Repeated())
	testutil.ExpectEq(t, "string", names.TypeName())

	inner := decls[2].(*syntax.Field)
	testutil.ExpectEq(t, "Inner", inner.TypeName())

	abs := decls[3].(*syntax.Field)
	testutil.ExpectEq(t, ".foo.bar.Outer.Inner", abs.TypeName())

	testutil.ExpectEq(t, 1, len(outer.Messages()))
	testutil.ExpectEq(t, "Inner", outer.Messages()[0].Name())

	testutil.ExpectEq(t, 1, len(outer.Enums()))
	color := outer.Enums()[0]
	testutil.ExpectEq(t, "Color", color.Name())
	testutil.ExpectEq(t, 2, len(color.Values()))
	testutil.ExpectEq(t, "RED", color.Values()[0].Name())
	testutil.ExpectEq(t, int32(0), color.Values()[0].Number())
	testutil.ExpectEq(t, int32(5), color.Values()[1].Number())
}

func TestParseUnnamedPackage(t *testing.T) {
	t.Parallel()

	def := parse(t, `syntax = "proto3"; message M { bool b = 1; }`)
	pkgs := def.Packages()
	testutil.ExpectEq(t, 1, len(pkgs))
	testutil.ExpectEq(t, "", pkgs[0].Name())
	testutil.ExpectEq(t, 1, len(pkgs[0].Messages()))
}

func TestParseMultiplePackages(t *testing.T) {
	t.Parallel()

	def := parse(t, `
		syntax = "proto3";
		message Loose { bool b = 1; }
		package one;
		message A { bool b = 1; }
		package two;
		message B { bool b = 1; }
	`)
	pkgs := def.Packages()
	testutil.ExpectEq(t, 3, len(pkgs))
	testutil.ExpectEq(t, "", pkgs[0].Name())
	testutil.ExpectEq(t, "one", pkgs[1].Name())
	testutil.ExpectEq(t, "two", pkgs[2].Name())
}

func TestParseOneof(t *testing.T) {
	t.Parallel()

	def := parse(t, `
		syntax = "proto3";
		message M {
			oneof choice {
				int32 a = 1;
				string b = 2;
			}
			bool tail = 3;
		}
	`)
	msg := def.Packages()[0].Messages()[0]
	decls := msg.Decls()
	testutil.ExpectEq(t, 2, len(decls))

	oneof := decls[0].(*syntax.Oneof)
	testutil.ExpectEq(t, "choice", oneof.Name())
	testutil.ExpectEq(t, 2, len(oneof.Fields()))
	testutil.ExpectEq(t, "a", oneof.Fields()[0].Name())
	testutil.ExpectEq(t, int32(2), oneof.Fields()[1].Number())
}

func TestParseReserved(t *testing.T) {
	t.Parallel()

	def := parse(t, `
		syntax = "proto3";
		message M {
			int32 n = 1;
			reserved 2, 4 to 6;
			reserved "old", "older";
		}
	`)
	msg := def.Packages()[0].Messages()[0]
	reserved := msg.Reserved()
	testutil.ExpectEq(t, 4, len(reserved))

	testutil.ExpectFalse(t, reserved[0].IsName())
	testutil.ExpectEq(t, int32(2), reserved[0].Lo())
	testutil.ExpectEq(t, int32(2), reserved[0].Hi())

	testutil.ExpectEq(t, int32(4), reserved[1].Lo())
	testutil.ExpectEq(t, int32(6), reserved[1].Hi())

	testutil.ExpectTrue(t, reserved[2].IsName())
	testutil.ExpectEq(t, "old", reserved[2].Name())
	testutil.ExpectEq(t, "older", reserved[3].Name())
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		code uint32
	}{
		{"missing syntax", `message M {}`, 2006},
		{"proto2", `syntax = "proto2";`, 2007},
		{"import", `syntax = "proto3"; import "other.proto";`, 2009},
		{"option", `syntax = "proto3"; option java_package = "x";`, 2009},
		{"service", `syntax = "proto3"; service S {}`, 2009},
		{"extend", `syntax = "proto3"; extend M {}`, 2009},
		{"optional field", `syntax = "proto3"; message M { optional int32 n = 1; }`, 2009},
		{"required field", `syntax = "proto3"; message M { required int32 n = 1; }`, 2009},
		{"map field", `syntax = "proto3"; message M { map<string, int32> m = 1; }`, 2009},
		{"extensions", `syntax = "proto3"; message M { extensions 100 to 199; }`, 2009},
		{"field options", `syntax = "proto3"; message M { int32 n = 1 [deprecated = true]; }`, 2009},
		{"message option", `syntax = "proto3"; message M { option deprecated = true; }`, 2009},
		{"enum option", `syntax = "proto3"; enum E { option allow_alias = true; A = 0; }`, 2009},
		{"zero field number", `syntax = "proto3"; message M { int32 n = 0; }`, 2010},
		{"negative field number", `syntax = "proto3"; message M { int32 n = -1; }`, 2010},
		{"enum missing zero", `syntax = "proto3"; enum E { A = 1; }`, 2011},
		{"empty enum", `syntax = "proto3"; enum E {}`, 2011},
		{"repeated in oneof", `syntax = "proto3"; message M { oneof c { repeated int32 a = 1; } }`, 2012},
		{"inverted reserved range", `syntax = "proto3"; message M { reserved 6 to 4; }`, 2013},
		{"non-positive reserved", `syntax = "proto3"; message M { reserved 0; }`, 2014},
		{"stray declaration", `syntax = "proto3"; 42`, 2008},
		{"missing semicolon", `syntax = "proto3"; message M { int32 n = 1 }`, 2000},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := parseErr(t, test.src)
			testutil.ExpectEq(t, test.code, err.Code())
		})
	}
}
