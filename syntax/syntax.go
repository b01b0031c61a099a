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

// Package syntax tokenizes and parses proto3 schema source into a schema
// tree. Comments and whitespace are stripped; proto2-only and otherwise
// unsupported constructs are parse errors naming the construct.
package syntax

import (
	"strconv"
	"strings"
)

func Parse(src []byte) (*ProtoDef, error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		src:    src,
		tokens: tokens,
	}
	return p.parseProtoDef()
}

type parser struct {
	src    []byte
	tokens *Tokens
	token  Token
	have   bool
	offset uint32
	err    error
}

func (p *parser) ensureToken() error {
	if p.err != nil {
		return p.err
	}
	if p.have {
		return nil
	}
	if err := p.tokens.Next(&p.token); err != nil {
		p.err = err
		return p.err
	}
	p.have = true
	return nil
}

func (p *parser) readToken() string {
	return string(p.src[:p.token.Len])
}

func (p *parser) consumeToken() {
	p.src = p.src[p.token.Len:]
	p.offset += uint32(p.token.Len)
	p.have = false
}

func (p *parser) tokenSpan() Span {
	return Span{
		start: p.offset,
		len:   uint32(p.token.Len),
	}
}

func (p *parser) skipTrivia() {
	for {
		if err := p.ensureToken(); err != nil {
			return
		}
		switch p.token.Kind {
		case T_SPACE, T_NEWLINE, T_COMMENT:
			p.consumeToken()
		default:
			return
		}
	}
}

func (p *parser) sigil(kind TokenKind) {
	p.skipTrivia()
	if p.err != nil {
		return
	}
	if p.token.Kind != kind {
		p.err = errExpectedSigil(kind, p.token.Kind, p.readToken(), p.tokenSpan())
		return
	}
	p.consumeToken()
}

func (p *parser) trySigil(kind TokenKind) bool {
	p.skipTrivia()
	if p.err != nil {
		return false
	}
	if p.token.Kind != kind {
		return false
	}
	p.consumeToken()
	return true
}

// keyword returns the current identifier without consuming it, or "" when
// the current token is not an identifier.
func (p *parser) keyword() string {
	p.skipTrivia()
	if p.err != nil || p.token.Kind != T_IDENT {
		return ""
	}
	return p.readToken()
}

func (p *parser) tryKeyword(keyword string) bool {
	if p.keyword() != keyword {
		return false
	}
	p.consumeToken()
	return true
}

func (p *parser) ident() string {
	p.skipTrivia()
	if p.err != nil {
		return ""
	}
	if p.token.Kind != T_IDENT {
		p.err = errExpectedIdent(p.token.Kind, p.readToken(), p.tokenSpan())
		return ""
	}
	name := p.readToken()
	p.consumeToken()
	return name
}

func (p *parser) intLit() int32 {
	p.skipTrivia()
	if p.err != nil {
		return 0
	}
	if p.token.Kind != T_INT_LIT {
		p.err = errExpectedIntLit(p.token.Kind, p.readToken(), p.tokenSpan())
		return 0
	}
	token := p.readToken()
	span := p.tokenSpan()
	v, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		p.err = errIntLitOutOfRange(token, span)
		return 0
	}
	p.consumeToken()
	return int32(v)
}

func (p *parser) strLit() string {
	p.skipTrivia()
	if p.err != nil {
		return ""
	}
	if p.token.Kind != T_STR_LIT {
		p.err = errExpectedStrLit(p.token.Kind, p.readToken(), p.tokenSpan())
		return ""
	}
	token := p.readToken()
	span := p.tokenSpan()
	decoded, ok := unquote(token)
	if !ok {
		p.err = errStrLitInvalid(token, span)
		return ""
	}
	p.consumeToken()
	return decoded
}

func unquote(token string) (string, bool) {
	if len(token) < 2 {
		return "", false
	}
	body := token[1 : len(token)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}
	var buf strings.Builder
	for ii := 0; ii < len(body); ii++ {
		c := body[ii]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		ii++
		if ii >= len(body) {
			return "", false
		}
		switch body[ii] {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case '\\', '"', '\'':
			buf.WriteByte(body[ii])
		default:
			return "", false
		}
	}
	return buf.String(), true
}

// dottedName parses `ident ("." ident)*`.
func (p *parser) dottedName() string {
	var buf strings.Builder
	buf.WriteString(p.ident())
	for p.trySigil(T_DOT) {
		buf.WriteByte('.')
		buf.WriteString(p.ident())
	}
	return buf.String()
}

// typeRef parses a field type: a scalar keyword or a possibly-dotted type
// reference. Absolute references keep their leading dot for the resolver.
func (p *parser) typeRef() string {
	var buf strings.Builder
	if p.trySigil(T_DOT) {
		buf.WriteByte('.')
	}
	buf.WriteString(p.ident())
	for {
		if p.err != nil {
			return ""
		}
		if !p.trySigil(T_DOT) {
			break
		}
		buf.WriteByte('.')
		buf.WriteString(p.ident())
	}
	return buf.String()
}

func (p *parser) parseProtoDef() (*ProtoDef, error) {
	p.skipTrivia()
	if p.err != nil {
		return nil, p.err
	}
	if !p.tryKeyword("syntax") {
		return nil, errMissingSyntax(p.tokenSpan())
	}
	p.sigil(T_EQ)
	p.skipTrivia()
	versionSpan := p.tokenSpan()
	version := p.strLit()
	p.sigil(T_SEMI)
	if p.err != nil {
		return nil, p.err
	}
	if version != "proto3" {
		return nil, errUnsupportedSyntaxVersion(version, versionSpan)
	}

	def := &ProtoDef{}
	var pkg *Package
	current := func() *Package {
		if pkg == nil {
			pkg = &Package{}
			def.packages = append(def.packages, pkg)
		}
		return pkg
	}

	for {
		p.skipTrivia()
		if p.err != nil {
			return nil, p.err
		}
		if p.token.Kind == T_EOF {
			break
		}
		switch kw := p.keyword(); kw {
		case "package":
			start := p.offset
			p.consumeToken()
			name := p.dottedName()
			p.sigil(T_SEMI)
			if p.err != nil {
				return nil, p.err
			}
			pkg = &Package{
				span: NewSpan(start, p.offset-start),
				name: name,
			}
			def.packages = append(def.packages, pkg)
		case "message":
			msg := p.parseMessage()
			if p.err != nil {
				return nil, p.err
			}
			cur := current()
			cur.messages = append(cur.messages, msg)
		case "enum":
			enum := p.parseEnum()
			if p.err != nil {
				return nil, p.err
			}
			cur := current()
			cur.enums = append(cur.enums, enum)
		case "import", "option", "service", "extend":
			return nil, errUnsupportedConstruct(kw, p.tokenSpan())
		default:
			return nil, errExpectedDeclaration(p.token.Kind, p.readToken(), p.tokenSpan())
		}
	}
	return def, nil
}

func (p *parser) parseMessage() *Message {
	start := p.offset
	p.tryKeyword("message")
	name := p.ident()
	p.sigil(T_OPEN_CURL)
	msg := &Message{
		name: name,
	}
	for {
		p.skipTrivia()
		if p.err != nil {
			return nil
		}
		if p.trySigil(T_CLOSE_CURL) {
			break
		}
		switch kw := p.keyword(); kw {
		case "message":
			child := p.parseMessage()
			if p.err != nil {
				return nil
			}
			msg.messages = append(msg.messages, child)
		case "enum":
			enum := p.parseEnum()
			if p.err != nil {
				return nil
			}
			msg.enums = append(msg.enums, enum)
		case "oneof":
			oneof := p.parseOneof()
			if p.err != nil {
				return nil
			}
			msg.decls = append(msg.decls, oneof)
		case "reserved":
			p.parseReserved(msg)
		case "optional", "required", "map", "extensions", "extend", "option", "group":
			p.err = errUnsupportedConstruct(kw, p.tokenSpan())
			return nil
		case "repeated":
			p.consumeToken()
			field := p.parseField(true)
			msg.decls = append(msg.decls, field)
		default:
			field := p.parseField(false)
			msg.decls = append(msg.decls, field)
		}
		if p.err != nil {
			return nil
		}
	}
	msg.span = NewSpan(start, p.offset-start)
	return msg
}

func (p *parser) parseField(repeated bool) *Field {
	start := p.offset
	typeName := p.typeRef()
	name := p.ident()
	p.sigil(T_EQ)
	p.skipTrivia()
	numberSpan := p.tokenSpan()
	number := p.intLit()
	if p.err != nil {
		return nil
	}
	if number <= 0 {
		p.err = errFieldNumberNotPositive(name, number, numberSpan)
		return nil
	}
	p.skipTrivia()
	if p.err == nil && p.token.Kind == T_OPEN_SQUARE {
		p.err = errUnsupportedConstruct("field options", p.tokenSpan())
		return nil
	}
	p.sigil(T_SEMI)
	if p.err != nil {
		return nil
	}
	return &Field{
		span:     NewSpan(start, p.offset-start),
		name:     name,
		number:   number,
		typeName: typeName,
		repeated: repeated,
	}
}

func (p *parser) parseOneof() *Oneof {
	start := p.offset
	p.tryKeyword("oneof")
	name := p.ident()
	p.sigil(T_OPEN_CURL)
	oneof := &Oneof{
		name: name,
	}
	for {
		p.skipTrivia()
		if p.err != nil {
			return nil
		}
		if p.trySigil(T_CLOSE_CURL) {
			break
		}
		switch kw := p.keyword(); kw {
		case "repeated":
			p.err = errRepeatedInOneof(p.tokenSpan())
			return nil
		case "option", "group":
			p.err = errUnsupportedConstruct(kw, p.tokenSpan())
			return nil
		}
		field := p.parseField(false)
		if p.err != nil {
			return nil
		}
		oneof.fields = append(oneof.fields, field)
	}
	oneof.span = NewSpan(start, p.offset-start)
	return oneof
}

func (p *parser) parseEnum() *Enum {
	start := p.offset
	p.tryKeyword("enum")
	name := p.ident()
	p.sigil(T_OPEN_CURL)
	enum := &Enum{
		name: name,
	}
	hasZero := false
	for {
		p.skipTrivia()
		if p.err != nil {
			return nil
		}
		if p.trySigil(T_CLOSE_CURL) {
			break
		}
		if kw := p.keyword(); kw == "option" || kw == "reserved" {
			p.err = errUnsupportedConstruct(kw, p.tokenSpan())
			return nil
		}
		valueStart := p.offset
		valueName := p.ident()
		p.sigil(T_EQ)
		number := p.intLit()
		p.sigil(T_SEMI)
		if p.err != nil {
			return nil
		}
		if number == 0 {
			hasZero = true
		}
		enum.values = append(enum.values, &EnumValue{
			span:   NewSpan(valueStart, p.offset-valueStart),
			name:   valueName,
			number: number,
		})
	}
	enum.span = NewSpan(start, p.offset-start)
	if !hasZero {
		p.err = errEnumMissingZero(name, enum.span)
		return nil
	}
	return enum
}

func (p *parser) parseReserved(msg *Message) {
	p.tryKeyword("reserved")
	p.skipTrivia()
	if p.err != nil {
		return
	}
	if p.token.Kind == T_STR_LIT {
		for {
			start := p.offset
			span := p.tokenSpan()
			name := p.strLit()
			if p.err != nil {
				return
			}
			if name == "" {
				p.err = errReservedEmptyName(span)
				return
			}
			msg.reserved = append(msg.reserved, &Reserved{
				span: NewSpan(start, p.offset-start),
				name: name,
			})
			if !p.trySigil(T_COMMA) {
				break
			}
		}
	} else {
		for {
			start := p.offset
			p.skipTrivia()
			span := p.tokenSpan()
			lo := p.intLit()
			hi := lo
			if p.tryKeyword("to") {
				hi = p.intLit()
			}
			if p.err != nil {
				return
			}
			if lo <= 0 {
				p.err = errReservedNumberNotPositive(lo, span)
				return
			}
			if hi < lo {
				p.err = errReservedRangeInverted(lo, hi, span)
				return
			}
			msg.reserved = append(msg.reserved, &Reserved{
				span: NewSpan(start, p.offset-start),
				lo:   lo,
				hi:   hi,
			})
			if !p.trySigil(T_COMMA) {
				break
			}
		}
	}
	p.sigil(T_SEMI)
}
