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

package compiler

import (
	"fmt"

	"github.com/beef331/protobuf-go/syntax"
)

type Error struct {
	code    uint32
	message string
	span    syntax.Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() syntax.Span {
	return err.span
}

func errDuplicatePackage(name string, span syntax.Span) error {
	if name == "" {
		name = "(unnamed)"
	}
	return &Error{
		code:    3000,
		message: fmt.Sprintf("Package %q declared more than once", name),
		span:    span,
	}
}

func errDuplicateTypeName(fqn string, span syntax.Span) error {
	return &Error{
		code:    3001,
		message: fmt.Sprintf("Type %q declared more than once", fqn),
		span:    span,
	}
}

func errTypeNotRecognized(ref, container string, span syntax.Span) error {
	return &Error{
		code: 3002,
		message: fmt.Sprintf(
			"Type %q not recognized inside %q",
			ref, container,
		),
		span: span,
	}
}

func errDuplicateFieldName(fqn, name string, span syntax.Span) error {
	return &Error{
		code: 3003,
		message: fmt.Sprintf(
			"Message %q declares field name %q more than once",
			fqn, name,
		),
		span: span,
	}
}

func errDuplicateFieldNumber(fqn string, number int32, span syntax.Span) error {
	return &Error{
		code: 3004,
		message: fmt.Sprintf(
			"Message %q declares field number %d more than once",
			fqn, number,
		),
		span: span,
	}
}

func errFieldNumberTooLarge(fqn, name string, number int32, span syntax.Span) error {
	return &Error{
		code: 3005,
		message: fmt.Sprintf(
			"Field %q in message %q has field number %d (maximum is %d)",
			name, fqn, number, maxFieldNumber,
		),
		span: span,
	}
}

func errFieldNumberImplReserved(fqn, name string, number int32, span syntax.Span) error {
	return &Error{
		code: 3006,
		message: fmt.Sprintf(
			"Field %q in message %q has field number %d inside the"+
				" implementation-reserved range %d-%d",
			name, fqn, number, implReservedLo, implReservedHi,
		),
		span: span,
	}
}

func errFieldNameReserved(fqn, name string, span syntax.Span) error {
	return &Error{
		code: 3007,
		message: fmt.Sprintf(
			"Field name %q is reserved in message %q",
			name, fqn,
		),
		span: span,
	}
}

func errFieldNumberReserved(fqn, name string, number int32, span syntax.Span) error {
	return &Error{
		code: 3008,
		message: fmt.Sprintf(
			"Field %q in message %q has reserved field number %d",
			name, fqn, number,
		),
		span: span,
	}
}

func errDuplicateEnumValueName(fqn, name string, span syntax.Span) error {
	return &Error{
		code: 3009,
		message: fmt.Sprintf(
			"Enum %q declares value name %q more than once",
			fqn, name,
		),
		span: span,
	}
}

func errDuplicateEnumValueNumber(fqn string, number int32, span syntax.Span) error {
	return &Error{
		code: 3010,
		message: fmt.Sprintf(
			"Enum %q declares value number %d more than once",
			fqn, number,
		),
		span: span,
	}
}
