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
)

type Error struct {
	code    uint32
	message string
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

func errFieldNotInitialized(name string) error {
	return &Error{
		code:    5000,
		message: fmt.Sprintf("field %q isn't initialized", name),
	}
}

func errUnknownField(typeName, name string) error {
	return &Error{
		code:    5001,
		message: fmt.Sprintf("message %q has no field %q", typeName, name),
	}
}

func errTypeMismatch(name string, got any, want string) error {
	return &Error{
		code: 5002,
		message: fmt.Sprintf(
			"field %q expects %s, got %T",
			name, want, got,
		),
	}
}

func errCannotSetOneof(name string) error {
	return &Error{
		code: 5003,
		message: fmt.Sprintf(
			"oneof %q cannot be assigned directly (assign one of its members)",
			name,
		),
	}
}

func errValueOutOfRange(name string, got any, want string) error {
	return &Error{
		code: 5004,
		message: fmt.Sprintf(
			"field %q value %v out of range for %s",
			name, got, want,
		),
	}
}

func errUnknownType(name string) error {
	return &Error{
		code:    5005,
		message: fmt.Sprintf("schema declares no type %q", name),
	}
}

func errUnresolvedType(typeName, ref string) error {
	return &Error{
		code: 5006,
		message: fmt.Sprintf(
			"message %q references unresolved type %q",
			typeName, ref,
		),
	}
}
