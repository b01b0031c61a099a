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

	"github.com/spf13/cobra"

	"github.com/beef331/protobuf-go"
)

func newCompileCmd() *cobra.Command {
	var outPath string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "compile SCHEMA",
		Short: "Compile a proto3 schema and write the generated artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			schema, err := protobuf.CompileFile(args[0])
			if err != nil {
				return err
			}
			if quiet {
				return nil
			}
			output := schema.Describe()
			if outPath == "" {
				_, err := os.Stdout.WriteString(output)
				return err
			}
			return os.WriteFile(outPath, []byte(output), 0o666)
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the artifact to a file instead of stdout")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "validate only, write nothing on success")
	return cmd
}
