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

// Package protobuf compiles proto3 schemas into dynamic message types with
// presence-aware accessors and standard proto3 wire codecs. There is no
// external code generator: Compile runs the parser, resolver, and type
// generator in one synchronous pass, typically at program initialization.
package protobuf

import (
	"errors"
	"io"
	"os"

	"github.com/beef331/protobuf-go/compiler"
	"github.com/beef331/protobuf-go/syntax"
)

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	trace io.Writer
}

// WithTrace renders the generated artifact to w after a successful compile,
// for inspection.
func WithTrace(w io.Writer) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.trace = w
	})
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

// Compile compiles literal schema text.
func Compile(src string, opts ...CompileOption) (*Schema, error) {
	return NewCompileOptions(opts...).Compile([]byte(src))
}

// CompileFile compiles the schema at path. The file is read synchronously.
func CompileFile(path string, opts ...CompileOption) (*Schema, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewCompileOptions(opts...).Compile(src)
}

func (opts *CompileOptions) Compile(src []byte) (*Schema, error) {
	def, err := syntax.Parse(src)
	if err != nil {
		return nil, err
	}
	result := compiler.Resolve(def)
	if len(result.Errors) > 0 {
		errs := make([]error, 0, len(result.Errors))
		for _, resolveErr := range result.Errors {
			errs = append(errs, resolveErr)
		}
		return nil, errors.Join(errs...)
	}
	schema, err := generate(def)
	if err != nil {
		return nil, err
	}
	if opts.trace != nil {
		if _, err := io.WriteString(opts.trace, schema.Describe()); err != nil {
			return nil, err
		}
	}
	return schema, nil
}
