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

// Package expr reduces the integer expressions allowed in boot values.
//
// The grammar:
//
//	expr    := literal (('+' | '*') literal)*
//	literal := ['-'] digit+
//
// '*' binds tighter than '+'. There are no parentheses and no names, so a
// reduction is a single left-to-right pass that always terminates.
package expr

import (
	"strconv"

	"github.com/pingcap/errors"
)

var (
	// ErrSyntax is returned when the expression does not match the grammar.
	ErrSyntax = errors.Normalize("malformed integer expression %q: %s", errors.RFCCodeText("KuiBa:GUC:ErrExprSyntax"))
	// ErrOverflow is returned when a literal or an intermediate result does not fit in int64.
	ErrOverflow = errors.Normalize("integer expression %q overflows int64", errors.RFCCodeText("KuiBa:GUC:ErrExprOverflow"))
)

// Reduce evaluates expr to a single integer.
func Reduce(expr string) (int64, error) {
	var (
		sum  int64
		term int64 = 1
		pos  int
		ok   bool
	)
	for {
		pos = skipSpace(expr, pos)
		lit, next, err := scanLiteral(expr, pos)
		if err != nil {
			return 0, err
		}
		pos = skipSpace(expr, next)
		if term, ok = mulInt64(term, lit); !ok {
			return 0, ErrOverflow.GenWithStackByArgs(expr)
		}
		if pos == len(expr) {
			if sum, ok = addInt64(sum, term); !ok {
				return 0, ErrOverflow.GenWithStackByArgs(expr)
			}
			return sum, nil
		}
		switch expr[pos] {
		case '*':
		case '+':
			if sum, ok = addInt64(sum, term); !ok {
				return 0, ErrOverflow.GenWithStackByArgs(expr)
			}
			term = 1
		default:
			return 0, ErrSyntax.GenWithStackByArgs(expr, "unexpected "+strconv.QuoteRune(rune(expr[pos]))+" at offset "+strconv.Itoa(pos))
		}
		pos++
	}
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}

func scanLiteral(s string, pos int) (int64, int, error) {
	start := pos
	if pos < len(s) && s[pos] == '-' {
		pos++
	}
	digits := pos
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		pos++
	}
	if pos == digits {
		if start == len(s) {
			return 0, pos, ErrSyntax.GenWithStackByArgs(s, "missing integer at end of input")
		}
		return 0, pos, ErrSyntax.GenWithStackByArgs(s, "expected integer at offset "+strconv.Itoa(start))
	}
	v, err := strconv.ParseInt(s[start:pos], 10, 64)
	if err != nil {
		return 0, pos, ErrOverflow.GenWithStackByArgs(s)
	}
	return v, pos, nil
}

func addInt64(a, b int64) (int64, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if (c < 0) != ((a < 0) != (b < 0)) || c/b != a {
		return c, false
	}
	return c, true
}
