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
	"context"
	"sort"

	"github.com/kuiba-db/kuiba/pkg/metrics"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ScopeEnd says how a scope finishes.
type ScopeEnd uint8

const (
	// ScopeCommit keeps the scope's values: they move to the enclosing
	// scope, or to the global values when the outermost scope commits.
	ScopeCommit ScopeEnd = iota
	// ScopeAbort discards the scope's values.
	ScopeAbort
)

func (e ScopeEnd) String() string {
	if e == ScopeCommit {
		return "commit"
	}
	return "abort"
}

// override is one frame of a variable's per-session stack. A reset frame
// hides every frame below it and resolves to the global value.
type override struct {
	depth int
	value Value
	reset bool
}

// Session is the per-connection view of the store. It owns its override
// stacks, and must only be used by the one goroutine serving the
// connection.
type Session struct {
	store    *Store
	connID   uint64
	depth    int
	stacks   map[int][]override
	listener Listener
}

// NewSession opens a session. listener, if not nil, is told when the
// session's effective value of a reported variable changes through a
// session-local change.
func (s *Store) NewSession(listener Listener) *Session {
	return &Session{
		store:    s,
		connID:   s.connIDs.Inc(),
		stacks:   make(map[int][]override),
		listener: listener,
	}
}

// ConnID returns the id used to tag this session's log lines.
func (se *Session) ConnID() uint64 { return se.connID }

// Depth returns the number of open scopes.
func (se *Session) Depth() int { return se.depth }

func (se *Session) effective(d *Descriptor) (Value, ValueSource) {
	if st := se.stacks[d.slot]; len(st) > 0 && !st[len(st)-1].reset {
		return st[len(st)-1].value, SourceSession
	}
	gv := se.store.global(d)
	return gv.value, gv.source
}

func (se *Session) effectiveValue(d *Descriptor) Value {
	v, _ := se.effective(d)
	return v
}

// Get returns the effective value of name for this session.
func (se *Session) Get(name string) (Value, error) {
	d, err := se.store.catalog.Lookup(name)
	if err != nil {
		return Value{}, err
	}
	return se.effectiveValue(d), nil
}

// Show returns the display string of the effective value of name.
func (se *Session) Show(name string) (string, error) {
	d, err := se.store.catalog.Lookup(name)
	if err != nil {
		return "", err
	}
	return d.Display(se.effectiveValue(d)), nil
}

// EnumerateAll lists the effective value of every visible variable.
func (se *Session) EnumerateAll() []Setting {
	return se.store.enumerate(se.effective)
}

// Set changes the global value of name as a client session. An override
// the session holds for name still takes precedence for this session.
func (se *Session) Set(ctx context.Context, name, literal string) error {
	return se.store.Set(logutil.WithConnID(ctx, se.connID), name, literal, ActorClientSession)
}

// SetLocal changes name for this session inside the innermost open scope.
func (se *Session) SetLocal(ctx context.Context, name, literal string) error {
	d, err := se.store.catalog.Lookup(name)
	if err == nil {
		err = se.setLocal(logutil.WithConnID(ctx, se.connID), d, literal)
	}
	metrics.GUCSetCounter.WithLabelValues(metrics.LblLocal, resultLabel(err)).Inc()
	return err
}

func (se *Session) setLocal(ctx context.Context, d *Descriptor, literal string) error {
	if se.depth == 0 {
		return ErrNoActiveScope.GenWithStackByArgs("SET LOCAL")
	}
	if err := checkContext(d, ActorClientSession, se.store.Started()); err != nil {
		return err
	}
	v, err := d.parse(literal)
	if err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	old := se.effectiveValue(d)
	a := newAssignment(d, old, v, ActorClientSession, true)
	if !invokePreassign(d, a) {
		logutil.Logger(ctx).Warn("parameter change rejected",
			zap.String("name", d.name),
			zap.String("value", v.String()),
			zap.Bool("local", true))
		return ErrValidationRejected.GenWithStackByArgs(d.name, v.String())
	}
	if err = d.check(a.New); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	se.put(d, override{depth: se.depth, value: a.New})
	a.commit()
	se.report(d, old)
	return nil
}

// Reset drops the session's override of name so the global value applies
// again. Inside a scope the reset itself is undone by an abort.
func (se *Session) Reset(name string) error {
	d, err := se.store.catalog.Lookup(name)
	if err != nil {
		return err
	}
	if err = checkContext(d, ActorClientSession, se.store.Started()); err != nil {
		return err
	}
	if len(se.stacks[d.slot]) == 0 {
		return nil
	}
	old := se.effectiveValue(d)
	se.put(d, override{depth: se.depth, reset: true})
	se.report(d, old)
	return nil
}

// put writes o as the frame of its depth, replacing a frame of the same depth.
func (se *Session) put(d *Descriptor, o override) {
	st := se.stacks[d.slot]
	if n := len(st); n > 0 && st[n-1].depth == o.depth {
		st[n-1] = o
	} else {
		st = append(st, o)
	}
	se.stacks[d.slot] = st
}

// PushScope opens a nested scope.
func (se *Session) PushScope() {
	se.depth++
	metrics.GUCOpenScopeGauge.Inc()
}

// PopScope closes the innermost scope. Committing the outermost scope
// pushes every value it holds to the global value through the full
// pipeline, hooks included, since the global state may differ from what
// the session saw. Failures there are combined into the returned error;
// the scope is closed regardless.
func (se *Session) PopScope(ctx context.Context, end ScopeEnd) error {
	if se.depth == 0 {
		return ErrNoActiveScope.GenWithStackByArgs("scope "+end.String())
	}
	ctx = logutil.WithConnID(ctx, se.connID)
	depth := se.depth
	slots := se.framesAt(depth)
	before := make([]Value, len(slots))
	for i, slot := range slots {
		before[i] = se.effectiveValue(se.store.catalog.ordered[slot])
	}

	var errs error
	for _, slot := range slots {
		st := se.stacks[slot]
		top := st[len(st)-1]
		st = st[:len(st)-1]
		if end == ScopeCommit {
			if depth > 1 {
				top.depth = depth - 1
				if n := len(st); n > 0 && st[n-1].depth == top.depth {
					st[n-1] = top
				} else {
					st = append(st, top)
				}
			} else if !top.reset {
				errs = multierr.Append(errs, se.propagate(ctx, se.store.catalog.ordered[slot], top.value))
			}
		}
		if len(st) == 0 {
			delete(se.stacks, slot)
		} else {
			se.stacks[slot] = st
		}
	}
	se.depth--
	metrics.GUCOpenScopeGauge.Dec()

	for i, slot := range slots {
		se.report(se.store.catalog.ordered[slot], before[i])
	}
	if errs != nil {
		logutil.Logger(ctx).Warn("scope commit could not apply every parameter", zap.Error(errs))
	}
	return errs
}

func (se *Session) propagate(ctx context.Context, d *Descriptor, v Value) error {
	err := checkContext(d, ActorClientSession, se.store.Started())
	if err == nil {
		_, err = se.store.assign(ctx, d, v, ActorClientSession, SourceClient)
	}
	metrics.GUCSetCounter.WithLabelValues(metrics.LblCommit, resultLabel(err)).Inc()
	return err
}

// framesAt returns the slots whose top frame belongs to depth, in slot order.
func (se *Session) framesAt(depth int) []int {
	var slots []int
	for slot, st := range se.stacks {
		if st[len(st)-1].depth == depth {
			slots = append(slots, slot)
		}
	}
	sort.Ints(slots)
	return slots
}

func (se *Session) report(d *Descriptor, old Value) {
	if se.listener == nil || !d.HasFlag(FlagReport) {
		return
	}
	if cur := se.effectiveValue(d); !cur.Equal(old) {
		deliver(se.listener, d.name, d.Display(cur))
	}
}

// Close discards every override without touching global values.
func (se *Session) Close() {
	metrics.GUCOpenScopeGauge.Sub(float64(se.depth))
	se.depth = 0
	se.stacks = make(map[int][]override)
}
