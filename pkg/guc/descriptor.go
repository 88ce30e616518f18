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
	"github.com/kuiba-db/kuiba/pkg/guc/expr"
	"github.com/kuiba-db/kuiba/pkg/util/naming"
	"github.com/pingcap/errors"
)

// SchemaEntry is one record of the declarative schema.
type SchemaEntry struct {
	Type      VarType
	Name      string
	Context   Context
	ShortDesc string
	LongDesc  string
	// BootVal is a literal of Type. INT boot values may be an expression
	// of '+' and '*' over integer literals.
	BootVal string
	// Min and Max optionally bound INT and REAL variables. INT bounds
	// accept the same expressions as BootVal.
	Min string
	Max string
	// Preassign and Show name hooks in the HookRegistry.
	Preassign string
	Show      string
	Flags     Flag
}

// Descriptor is the immutable definition of a variable.
type Descriptor struct {
	slot      int
	name      string
	typ       VarType
	context   Context
	boot      Value
	hasMin    bool
	min       Value
	hasMax    bool
	max       Value
	flags     Flag
	shortDesc string
	longDesc  string

	preassignName string
	preassign     PreassignHook
	showName      string
	show          ShowHook
}

// Name returns the declared name.
func (d *Descriptor) Name() string { return d.name }

// Type returns the variable type.
func (d *Descriptor) Type() VarType { return d.typ }

// Context returns the mutability context.
func (d *Descriptor) Context() Context { return d.context }

// Boot returns the reduced boot value.
func (d *Descriptor) Boot() Value { return d.boot }

// Flags returns the descriptor flags.
func (d *Descriptor) Flags() Flag { return d.flags }

// HasFlag reports whether every bit of f is set.
func (d *Descriptor) HasFlag(f Flag) bool { return d.flags&f == f }

// ShortDesc returns the one-line description.
func (d *Descriptor) ShortDesc() string { return d.shortDesc }

// LongDesc returns the optional long description.
func (d *Descriptor) LongDesc() string { return d.longDesc }

// Bounds returns the declared lower and upper bounds. hasLo and hasHi are
// false for a bound that is not declared.
func (d *Descriptor) Bounds() (lo Value, hasLo bool, hi Value, hasHi bool) {
	return d.min, d.hasMin, d.max, d.hasMax
}

// Display renders v with the show hook, or canonically if there is none.
func (d *Descriptor) Display(v Value) string {
	if d.show != nil {
		return d.show(v)
	}
	return v.String()
}

// parse converts a runtime literal and checks it against the bounds.
func (d *Descriptor) parse(literal string) (Value, error) {
	v, ok := parseLiteral(d.typ, literal)
	if !ok {
		return Value{}, ErrParse.GenWithStackByArgs(d.name, literal)
	}
	if err := d.check(v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// check verifies the type and bounds of v.
func (d *Descriptor) check(v Value) error {
	if v.typ != d.typ {
		return ErrTypeMismatch.GenWithStackByArgs("value", v.String(), d.name, d.typ)
	}
	if (d.hasMin && v.less(d.min)) || (d.hasMax && d.max.less(v)) {
		return ErrValueOutOfRange.GenWithStackByArgs(v.String(), d.name, d.boundString(d.min, d.hasMin), d.boundString(d.max, d.hasMax))
	}
	return nil
}

func (d *Descriptor) boundString(v Value, ok bool) string {
	if !ok {
		return "unbounded"
	}
	return v.String()
}

// newDescriptor type-checks e and resolves its hooks.
func newDescriptor(e SchemaEntry, hooks *HookRegistry) (*Descriptor, error) {
	if err := naming.Check(e.Name); err != nil {
		return nil, ErrInvalidSchema.GenWithStackByArgs(e.Name, err.Error())
	}
	if e.ShortDesc == "" {
		return nil, ErrInvalidSchema.GenWithStackByArgs(e.Name, "short description is required")
	}
	if e.Type > TypeStr {
		return nil, ErrInvalidSchema.GenWithStackByArgs(e.Name, "unknown type")
	}
	if e.Context > ContextSessionSettable {
		return nil, ErrInvalidSchema.GenWithStackByArgs(e.Name, "unknown context")
	}
	d := &Descriptor{
		name:      e.Name,
		typ:       e.Type,
		context:   e.Context,
		flags:     e.Flags,
		shortDesc: e.ShortDesc,
		longDesc:  e.LongDesc,
	}
	var err error
	if d.boot, err = reduceBootLiteral(e.Type, e.Name, "boot value", e.BootVal); err != nil {
		return nil, err
	}
	if e.Min != "" || e.Max != "" {
		if e.Type != TypeInt && e.Type != TypeReal {
			return nil, ErrInvalidSchema.GenWithStackByArgs(e.Name, "bounds only apply to INT and REAL")
		}
		if e.Min != "" {
			if d.min, err = reduceBootLiteral(e.Type, e.Name, "min", e.Min); err != nil {
				return nil, err
			}
			d.hasMin = true
		}
		if e.Max != "" {
			if d.max, err = reduceBootLiteral(e.Type, e.Name, "max", e.Max); err != nil {
				return nil, err
			}
			d.hasMax = true
		}
		if d.hasMin && d.hasMax && d.max.less(d.min) {
			return nil, ErrInvalidSchema.GenWithStackByArgs(e.Name, "max is below min")
		}
	}
	if err = d.check(d.boot); err != nil {
		return nil, err
	}
	if e.Preassign != "" {
		fn, ok := hooks.resolvePreassign(e.Preassign)
		if !ok {
			return nil, ErrUnresolvedHook.GenWithStackByArgs(e.Name, "preassign", e.Preassign)
		}
		d.preassignName, d.preassign = e.Preassign, fn
	}
	if e.Show != "" {
		fn, ok := hooks.resolveShow(e.Show)
		if !ok {
			return nil, ErrUnresolvedHook.GenWithStackByArgs(e.Name, "show", e.Show)
		}
		d.showName, d.show = e.Show, fn
	}
	return d, nil
}

// reduceBootLiteral type-checks a schema literal. INT literals go through
// the expression reducer; a malformed expression is a parse error, any
// other non-conforming literal a type mismatch.
func reduceBootLiteral(t VarType, name, what, literal string) (Value, error) {
	switch t {
	case TypeInt:
		i, err := expr.Reduce(literal)
		if err != nil {
			return Value{}, errors.Annotate(ErrParse.GenWithStackByArgs(name, literal), err.Error())
		}
		return IntValue(i), nil
	case TypeBool:
		switch literal {
		case "true":
			return BoolValue(true), nil
		case "false":
			return BoolValue(false), nil
		}
	default:
		if v, ok := parseLiteral(t, literal); ok {
			return v, nil
		}
	}
	return Value{}, ErrTypeMismatch.GenWithStackByArgs(what, literal, name, t)
}
