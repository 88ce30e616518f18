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
	"strings"
)

// Builder collects descriptors during startup. Build freezes the result;
// registering after Build is a programming error and panics.
type Builder struct {
	hooks   *HookRegistry
	byName  map[string]*Descriptor
	ordered []*Descriptor
	built   bool
}

// NewBuilder returns a Builder that resolves hooks against hooks.
func NewBuilder(hooks *HookRegistry) *Builder {
	return &Builder{
		hooks:  hooks,
		byName: make(map[string]*Descriptor),
	}
}

// Register adds one schema entry.
func (b *Builder) Register(e SchemaEntry) error {
	if b.built {
		panic("guc: Register called on a frozen catalog")
	}
	key := strings.ToLower(e.Name)
	if _, ok := b.byName[key]; ok {
		return ErrDuplicateName.GenWithStackByArgs(e.Name)
	}
	d, err := newDescriptor(e, b.hooks)
	if err != nil {
		return err
	}
	d.slot = len(b.ordered)
	b.byName[key] = d
	b.ordered = append(b.ordered, d)
	return nil
}

// Build freezes the builder and returns the catalog.
func (b *Builder) Build() *Catalog {
	b.built = true
	return &Catalog{byName: b.byName, ordered: b.ordered}
}

// Catalog is the frozen descriptor table. It is safe for concurrent use.
type Catalog struct {
	byName  map[string]*Descriptor
	ordered []*Descriptor
}

// NewCatalog registers every entry and freezes the table. Any error is a
// fatal startup error; no partially built catalog is returned.
func NewCatalog(entries []SchemaEntry, hooks *HookRegistry) (*Catalog, error) {
	b := NewBuilder(hooks)
	for _, e := range entries {
		if err := b.Register(e); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Lookup finds a descriptor by case-insensitive name.
func (c *Catalog) Lookup(name string) (*Descriptor, error) {
	if d, ok := c.byName[strings.ToLower(name)]; ok {
		return d, nil
	}
	return nil, ErrUnknownVariable.GenWithStackByArgs(name)
}

// Enumerate returns every descriptor in registration order.
func (c *Catalog) Enumerate() []*Descriptor {
	out := make([]*Descriptor, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int { return len(c.ordered) }
