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

package main

import (
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/beef331/protobuf-go"
)

func newDescribeCmd() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "describe SCHEMA",
		Short: "Print the generated artifact for a proto3 schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			schema, err := protobuf.CompileFile(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stdout.WriteString(schema.Describe()); err != nil {
				return err
			}
			if !dump {
				return nil
			}
			dumper := spew.ConfigState{
				Indent:                  "  ",
				DisablePointerAddresses: true,
				MaxDepth:                8,
			}
			for _, mt := range schema.Messages() {
				dumper.Fdump(os.Stdout, mt)
			}
			for _, et := range schema.Enums() {
				dumper.Fdump(os.Stdout, et)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "also dump the raw descriptor tree")
	return cmd
}
