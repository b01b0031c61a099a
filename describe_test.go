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

package protobuf_test

import (
	"testing"

	"github.com/beef331/protobuf-go"
	"github.com/beef331/protobuf-go/internal/testutil"
)

func TestDescribeGolden(t *testing.T) {
	t.Parallel()

	schema, err := protobuf.Compile(`
		syntax = "proto3";
		package pb;
		message Msg {
			int32 n = 1;
			repeated string tags = 2;
			Sub sub = 3;
			oneof kind {
				bool flag = 4;
				sfixed64 stamp = 5;
			}
			message Sub { bytes raw = 1; }
		}
	`)
	testutil.AssertNoError(t, err)

	want := `message pb_Msg {
  n int32 = 1 [slot 0, wire VARINT]
  tags []string = 2 [slot 1, wire BYTES]
  sub *pb_Msg_Sub = 3 [slot 2, wire BYTES]
  oneof pb_Msg_kind [slot 3] {
    flag bool = 4 [case 0, wire VARINT]
    stamp int64 = 5 [case 1, wire FIXED64]
  }
}
  init_pb_Msg(n, tags, sub, flag, stamp)
  read_pb_Msg(stream, max_size = 0) -> pb_Msg
  write(stream, pb_Msg, prepend_length = false)
  len(pb_Msg) -> int

message pb_Msg_Sub {
  raw []byte = 1 [slot 0, wire BYTES]
}
  init_pb_Msg_Sub(raw)
  read_pb_Msg_Sub(stream, max_size = 0) -> pb_Msg_Sub
  write(stream, pb_Msg_Sub, prepend_length = false)
  len(pb_Msg_Sub) -> int

`
	testutil.ExpectNoDiff(t, want, schema.Describe())
}
