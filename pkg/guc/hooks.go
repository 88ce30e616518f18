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
	"runtime/debug"

	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"go.uber.org/zap"
)

// PreassignHook validates a new value before it is committed. It may
// replace a.New with a transformed value of the same type. Returning false
// rejects the change. Hooks run inside the exclusive update section, so they
// must be fast and must not block.
type PreassignHook func(a *Assignment) bool

// ShowHook computes the display string of a value. It must not change state.
type ShowHook func(v Value) string

// Assignment is the request a preassign hook inspects.
type Assignment struct {
	// Name is the declared name of the variable.
	Name string
	// Current is the value in effect for the requester.
	Current Value
	// New is the proposed value.
	New Value
	// Actor is who asked for the change.
	Actor Actor
	// Local is set for session-scoped changes.
	Local bool

	onCommit []func()
}

func newAssignment(d *Descriptor, current, proposed Value, actor Actor, local bool) *Assignment {
	return &Assignment{
		Name:    d.name,
		Current: current,
		New:     proposed,
		Actor:   actor,
		Local:   local,
	}
}

// OnCommit defers fn until the value is committed. A hook that keeps
// auxiliary state must publish it here: a rejected or cancelled change
// never runs its callbacks.
func (a *Assignment) OnCommit(fn func()) {
	a.onCommit = append(a.onCommit, fn)
}

func (a *Assignment) commit() {
	for _, fn := range a.onCommit {
		fn()
	}
	a.onCommit = nil
}

// HookRegistry maps hook names to implementations. Names are resolved
// when the catalog is built; an unknown name fails the build.
type HookRegistry struct {
	preassign map[string]PreassignHook
	show      map[string]ShowHook
}

// NewHookRegistry returns an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{
		preassign: make(map[string]PreassignHook),
		show:      make(map[string]ShowHook),
	}
}

// RegisterPreassign adds a preassign hook. It panics if name is taken.
func (r *HookRegistry) RegisterPreassign(name string, fn PreassignHook) *HookRegistry {
	if _, ok := r.preassign[name]; ok {
		panic("guc: preassign hook " + name + " registered twice")
	}
	r.preassign[name] = fn
	return r
}

// RegisterShow adds a show hook. It panics if name is taken.
func (r *HookRegistry) RegisterShow(name string, fn ShowHook) *HookRegistry {
	if _, ok := r.show[name]; ok {
		panic("guc: show hook " + name + " registered twice")
	}
	r.show[name] = fn
	return r
}

func (r *HookRegistry) resolvePreassign(name string) (PreassignHook, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.preassign[name]
	return fn, ok
}

func (r *HookRegistry) resolveShow(name string) (ShowHook, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.show[name]
	return fn, ok
}

// invokePreassign runs the descriptor's preassign hook. A panicking hook
// counts as a rejection.
func invokePreassign(d *Descriptor, a *Assignment) (accepted bool) {
	if d.preassign == nil {
		return true
	}
	defer func() {
		if r := recover(); r != nil {
			logutil.BgLogger().Error("preassign hook panicked",
				zap.String("name", d.name),
				zap.String("hook", d.preassignName),
				zap.Any("recover", r),
				zap.ByteString("stack", debug.Stack()))
			accepted = false
		}
	}()
	return d.preassign(a)
}
