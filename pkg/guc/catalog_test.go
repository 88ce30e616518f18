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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogLookup(t *testing.T) {
	c, err := NewCatalog(testSchema(), testHooks())
	require.NoError(t, err)
	require.Equal(t, len(testSchema()), c.Len())

	d, err := c.Lookup("GREETING")
	require.NoError(t, err)
	require.Equal(t, "Greeting", d.Name())
	require.Equal(t, TypeStr, d.Type())
	require.True(t, d.HasFlag(FlagReport))

	d, err = c.Lookup("buffer_size")
	require.NoError(t, err)
	require.Equal(t, int64(2097152), d.Boot().Int())
	require.Equal(t, "2048kB", d.Display(d.Boot()))

	d, err = c.Lookup("worker_count")
	require.NoError(t, err)
	lo, hasLo, hi, hasHi := d.Bounds()
	require.True(t, hasLo)
	require.True(t, hasHi)
	require.Equal(t, int64(1), lo.Int())
	require.Equal(t, int64(64), hi.Int())

	_, err = c.Lookup("nope")
	require.True(t, ErrUnknownVariable.Equal(err))

	names := make([]string, 0, c.Len())
	for _, d := range c.Enumerate() {
		names = append(names, d.Name())
	}
	require.Equal(t, "buffer_size", names[0])
	require.Equal(t, "secret", names[len(names)-1])
}

func TestCatalogBuildErrors(t *testing.T) {
	base := SchemaEntry{Type: TypeInt, Name: "x", Context: ContextSessionSettable, BootVal: "1", ShortDesc: "x"}
	with := func(f func(e *SchemaEntry)) []SchemaEntry {
		e := base
		f(&e)
		return []SchemaEntry{e}
	}
	cases := []struct {
		name    string
		entries []SchemaEntry
		check   func(error) bool
	}{
		{"duplicate", []SchemaEntry{base, func() SchemaEntry { e := base; e.Name = "X"; return e }()}, ErrDuplicateName.Equal},
		{"bool boot", with(func(e *SchemaEntry) { e.Type = TypeBool; e.BootVal = "on" }), ErrTypeMismatch.Equal},
		{"real boot", with(func(e *SchemaEntry) { e.Type = TypeReal; e.BootVal = "fast" }), ErrTypeMismatch.Equal},
		{"int expr", with(func(e *SchemaEntry) { e.BootVal = "2 * * 3" }), ErrParse.Equal},
		{"int overflow", with(func(e *SchemaEntry) { e.BootVal = "9223372036854775807 + 1" }), ErrParse.Equal},
		{"preassign", with(func(e *SchemaEntry) { e.Preassign = "missing" }), ErrUnresolvedHook.Equal},
		{"show", with(func(e *SchemaEntry) { e.Show = "missing" }), ErrUnresolvedHook.Equal},
		{"boot out of range", with(func(e *SchemaEntry) { e.Min = "10" }), ErrValueOutOfRange.Equal},
		{"inverted bounds", with(func(e *SchemaEntry) { e.Min = "5"; e.Max = "2"; e.BootVal = "3" }), ErrInvalidSchema.Equal},
		{"bounds on bool", with(func(e *SchemaEntry) { e.Type = TypeBool; e.BootVal = "true"; e.Max = "1" }), ErrInvalidSchema.Equal},
		{"no description", with(func(e *SchemaEntry) { e.ShortDesc = "" }), ErrInvalidSchema.Equal},
		{"empty name", with(func(e *SchemaEntry) { e.Name = " " }), ErrInvalidSchema.Equal},
	}
	for _, c := range cases {
		cat, err := NewCatalog(c.entries, testHooks())
		require.Nil(t, cat, c.name)
		require.True(t, c.check(err), "%s: %v", c.name, err)
	}
}

func TestBootExpression(t *testing.T) {
	c, err := NewCatalog([]SchemaEntry{
		{Type: TypeInt, Name: "a", Context: ContextInternal, BootVal: "2 * 1024 * 1024", ShortDesc: "a"},
		{Type: TypeInt, Name: "b", Context: ContextInternal, BootVal: "1 + 2 * 3", ShortDesc: "b"},
		{Type: TypeInt, Name: "c", Context: ContextInternal, BootVal: "-4", ShortDesc: "c"},
	}, nil)
	require.NoError(t, err)
	for name, expect := range map[string]int64{"a": 2097152, "b": 7, "c": -4} {
		d, err := c.Lookup(name)
		require.NoError(t, err)
		require.Equal(t, expect, d.Boot().Int(), name)
	}
}

func TestRegisterAfterBuildPanics(t *testing.T) {
	b := NewBuilder(nil)
	require.NoError(t, b.Register(SchemaEntry{Type: TypeBool, Name: "a", BootVal: "true", ShortDesc: "a"}))
	b.Build()
	require.Panics(t, func() {
		_ = b.Register(SchemaEntry{Type: TypeBool, Name: "b", BootVal: "true", ShortDesc: "b"})
	})
}

func TestHookRegistryDuplicate(t *testing.T) {
	r := NewHookRegistry().RegisterShow("s", func(v Value) string { return "" })
	require.Panics(t, func() { r.RegisterShow("s", func(v Value) string { return "" }) })
	r.RegisterPreassign("p", func(*Assignment) bool { return true })
	require.Panics(t, func() { r.RegisterPreassign("p", func(*Assignment) bool { return true }) })
}
