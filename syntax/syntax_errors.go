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

import (
	"fmt"
	"math"
	"unicode/utf8"
)

type Error struct {
	code    uint32
	message string
	span    Span
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

func (err *Error) Span() Span {
	return err.span
}

func errSourceTooLong(srcLen int) error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(srcLen) < math.MaxUint32 {
		lenUint32 = uint32(srcLen)
	}
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, lenUint32},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		message: "Source file contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune) error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		span:    Span{start, uint32(utf8.RuneLen(r))},
	}
}

func errForbiddenControlCharacter(start uint32, c byte) error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		span:    Span{start, 1},
	}
}

func errTokenTooLong(start uint32, tokenLen int) error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(tokenLen) < math.MaxUint32 {
		lenUint32 = uint32(tokenLen)
	}
	return &Error{
		code: 1004,
		message: fmt.Sprintf(
			"Token size (%d bytes) exceeds maximum (%d bytes)",
			tokenLen, maxTokenLen,
		),
		span: Span{start, lenUint32},
	}
}

func errIntLitInvalid(start uint32, token []byte) error {
	tokenLen := uint32(math.MaxUint32)
	if uint64(len(token)) < math.MaxUint32 {
		tokenLen = uint32(len(token))
	}
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid integer literal %q", token),
		span:    Span{start, tokenLen},
	}
}

func errStrLitUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1006,
		message: "Unterminated string literal",
		span:    Span{start, tokenLen},
	}
}

func errStrLitContainsNewline(start uint32) error {
	return &Error{
		code:    1007,
		message: "String literal contains unescaped newline",
		span:    Span{start, 1},
	}
}

func errUnterminatedComment(start uint32) error {
	return &Error{
		code:    1008,
		message: "Unterminated block comment",
		span:    Span{start, 2},
	}
}

func errExpectedSigil(
	wantKind TokenKind,
	gotKind TokenKind,
	gotToken string,
	span Span,
) error {
	var want string
	switch wantKind {
	case T_SEMI:
		want = ";"
	case T_EQ:
		want = "="
	case T_COMMA:
		want = ","
	case T_DOT:
		want = "."
	case T_OPEN_CURL:
		want = "{"
	case T_CLOSE_CURL:
		want = "}"
	case T_OPEN_SQUARE:
		want = "["
	case T_CLOSE_SQUARE:
		want = "]"
	default:
		panic("unreachable")
	}
	return &Error{
		code:    2000,
		message: fmt.Sprintf("Expected sigil '%s', got (%s %q)", want, gotKind, gotToken),
		span:    span,
	}
}

func errExpectedIdent(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2001,
		message: fmt.Sprintf("Expected identifier, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedIntLit(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2002,
		message: fmt.Sprintf("Expected integer literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedStrLit(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2003,
		message: fmt.Sprintf("Expected string literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errStrLitInvalid(token string, span Span) error {
	return &Error{
		code:    2004,
		message: fmt.Sprintf("Invalid string literal %s", token),
		span:    span,
	}
}

func errIntLitOutOfRange(token string, span Span) error {
	return &Error{
		code:    2005,
		message: fmt.Sprintf("Integer literal %s out of range", token),
		span:    span,
	}
}

func errMissingSyntax(span Span) error {
	return &Error{
		code:    2006,
		message: `Schema must begin with 'syntax = "proto3";'`,
		span:    span,
	}
}

func errUnsupportedSyntaxVersion(version string, span Span) error {
	return &Error{
		code:    2007,
		message: fmt.Sprintf("Unsupported syntax %q (only proto3 is supported)", version),
		span:    span,
	}
}

func errExpectedDeclaration(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2008,
		message: fmt.Sprintf("Expected declaration, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errUnsupportedConstruct(construct string, span Span) error {
	return &Error{
		code:    2009,
		message: fmt.Sprintf("Unsupported construct %q", construct),
		span:    span,
	}
}

func errFieldNumberNotPositive(name string, number int32, span Span) error {
	return &Error{
		code: 2010,
		message: fmt.Sprintf(
			"Field %q has non-positive field number %d",
			name, number,
		),
		span: span,
	}
}

func errEnumMissingZero(name string, span Span) error {
	return &Error{
		code:    2011,
		message: fmt.Sprintf("Enum %q must declare a value for 0", name),
		span:    span,
	}
}

func errRepeatedInOneof(span Span) error {
	return &Error{
		code:    2012,
		message: "Repeated fields are not allowed inside a oneof",
		span:    span,
	}
}

func errReservedRangeInverted(lo, hi int32, span Span) error {
	return &Error{
		code:    2013,
		message: fmt.Sprintf("Reserved range %d to %d is inverted", lo, hi),
		span:    span,
	}
}

func errReservedNumberNotPositive(number int32, span Span) error {
	return &Error{
		code:    2014,
		message: fmt.Sprintf("Reserved field number %d is not positive", number),
		span:    span,
	}
}

func errReservedEmptyName(span Span) error {
	return &Error{
		code:    2015,
		message: "Reserved field name must not be empty",
		span:    span,
	}
}
