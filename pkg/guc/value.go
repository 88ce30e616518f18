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

package guc

import (
	"math"
	"strconv"
	"strings"
)

// Value is an immutable typed configuration value.
type Value struct {
	typ VarType
	i   int64
	f   float64
	b   bool
	s   string
}

// IntValue returns an INT value.
func IntValue(v int64) Value { return Value{typ: TypeInt, i: v} }

// BoolValue returns a BOOL value.
func BoolValue(v bool) Value { return Value{typ: TypeBool, b: v} }

// RealValue returns a REAL value.
func RealValue(v float64) Value { return Value{typ: TypeReal, f: v} }

// StrValue returns a STR value.
func StrValue(v string) Value { return Value{typ: TypeStr, s: v} }

// Type returns the type of v.
func (v Value) Type() VarType { return v.typ }

// Int returns the integer held by an INT value.
func (v Value) Int() int64 { return v.i }

// Bool returns the boolean held by a BOOL value.
func (v Value) Bool() bool { return v.b }

// Real returns the float held by a REAL value.
func (v Value) Real() float64 { return v.f }

// Str returns the string held by a STR value.
func (v Value) Str() string { return v.s }

// Equal reports whether v and o have the same type and value.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeInt:
		return v.i == o.i
	case TypeBool:
		return v.b == o.b
	case TypeReal:
		return v.f == o.f
	default:
		return v.s == o.s
	}
}

// String returns the canonical literal of v. Parsing it back with the
// same type yields an equal Value.
func (v Value) String() string {
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// less orders two values of the same numeric type.
func (v Value) less(o Value) bool {
	if v.typ == TypeReal {
		return v.f < o.f
	}
	return v.i < o.i
}

// parseLiteral converts a runtime literal. INT literals are plain decimal
// integers; boot-value expressions never reach this path.
func parseLiteral(t VarType, literal string) (Value, bool) {
	switch t {
	case TypeInt:
		i, err := strconv.ParseInt(strings.TrimSpace(literal), 10, 64)
		if err != nil {
			return Value{}, false
		}
		return IntValue(i), true
	case TypeBool:
		b, ok := parseBool(literal)
		if !ok {
			return Value{}, false
		}
		return BoolValue(b), true
	case TypeReal:
		f, err := strconv.ParseFloat(strings.TrimSpace(literal), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, false
		}
		return RealValue(f), true
	case TypeStr:
		return StrValue(literal), true
	}
	return Value{}, false
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "yes", "1":
		return true, true
	case "false", "off", "no", "0":
		return false, true
	}
	return false, false
}
