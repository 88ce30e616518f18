// Copyright 2026 The KuiBa Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReduce(t *testing.T) {
	tests := []struct {
		expr string
		want int64
	}{
		{"0", 0},
		{"8192", 8192},
		{"-1", -1},
		{"2 * 1024 * 1024", 2097152},
		{"16*1024*1024", 16777216},
		{"1 + 2 * 3", 7},
		{"2 * 3 + 4 * 5", 26},
		{"  100 +  -5 ", 95},
		{"1\t+\t1", 2},
		{"9223372036854775807", 9223372036854775807},
		{"-9223372036854775808", -9223372036854775808},
	}
	for _, tt := range tests {
		got, err := Reduce(tt.expr)
		require.NoError(t, err, tt.expr)
		require.Equal(t, tt.want, got, tt.expr)
	}
}

func TestReduceMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"   ",
		"1 +",
		"* 2",
		"1 ++ 2",
		"1 + + 2",
		"abc",
		"1 / 2",
		"(1 + 2)",
		"1 2",
		"0x10",
		"--1",
	} {
		_, err := Reduce(s)
		require.Error(t, err, s)
		require.True(t, ErrSyntax.Equal(err), "%q: %v", s, err)
	}
}

func TestReduceOverflow(t *testing.T) {
	for _, s := range []string{
		"9223372036854775808",
		"9223372036854775807 + 1",
		"4294967296 * 4294967296",
		"-9223372036854775808 * -1",
		"-9223372036854775808 + -1",
	} {
		_, err := Reduce(s)
		require.Error(t, err, s)
		require.True(t, ErrOverflow.Equal(err), "%q: %v", s, err)
	}
}
