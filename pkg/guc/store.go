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
	"sync"
	"sync/atomic"

	"github.com/kuiba-db/kuiba/pkg/metrics"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/pingcap/errors"
	uatomic "go.uber.org/atomic"
	"go.uber.org/zap"
)

// globalValue is an immutable snapshot of one variable. A commit replaces
// the pointer, so readers see the old or the new snapshot, never a mix.
type globalValue struct {
	value  Value
	source ValueSource
}

// Store holds the global value of every variable in a Catalog.
//
// Reads never block. Global writes are serialized by mu, which is held
// while preassign hooks run and released before listeners are notified.
type Store struct {
	catalog *Catalog
	slots   []atomic.Pointer[globalValue]
	emitter *Emitter
	// written marks the slots that took a startup write.
	written []uatomic.Bool

	mu       sync.Mutex
	reloadMu sync.Mutex
	started  uatomic.Bool
	connIDs  uatomic.Uint64
}

// NewStore seeds a store with the boot value of every variable. Boot
// values pass through their preassign hooks so that auxiliary state is
// initialized; a rejected boot value is a fatal startup error.
func NewStore(c *Catalog) (*Store, error) {
	s := &Store{
		catalog: c,
		slots:   make([]atomic.Pointer[globalValue], c.Len()),
		emitter: NewEmitter(),
		written: make([]uatomic.Bool, c.Len()),
	}
	for _, d := range c.ordered {
		a := newAssignment(d, d.boot, d.boot, ActorStartupLoader, false)
		if !invokePreassign(d, a) {
			return nil, ErrValidationRejected.GenWithStackByArgs(d.name, d.boot.String())
		}
		if err := d.check(a.New); err != nil {
			return nil, err
		}
		s.slots[d.slot].Store(&globalValue{value: a.New, source: SourceDefault})
		a.commit()
	}
	return s, nil
}

// Catalog returns the descriptor table.
func (s *Store) Catalog() *Catalog { return s.catalog }

// Emitter returns the emitter that receives global changes of reported variables.
func (s *Store) Emitter() *Emitter { return s.emitter }

// Start ends the startup phase. Afterwards the startup loader may no
// longer change anything.
func (s *Store) Start() { s.started.Store(true) }

// Started reports whether Start has been called.
func (s *Store) Started() bool { return s.started.Load() }

func (s *Store) global(d *Descriptor) *globalValue {
	return s.slots[d.slot].Load()
}

// Get returns the global value of name.
func (s *Store) Get(name string) (Value, error) {
	d, err := s.catalog.Lookup(name)
	if err != nil {
		return Value{}, err
	}
	return s.global(d).value, nil
}

// Show returns the display string of the global value of name.
func (s *Store) Show(name string) (string, error) {
	d, err := s.catalog.Lookup(name)
	if err != nil {
		return "", err
	}
	return d.Display(s.global(d).value), nil
}

// SourceOf returns where the global value of name came from.
func (s *Store) SourceOf(name string) (ValueSource, error) {
	d, err := s.catalog.Lookup(name)
	if err != nil {
		return SourceDefault, err
	}
	return s.global(d).source, nil
}

// Set changes the global value of name on behalf of actor.
func (s *Store) Set(ctx context.Context, name, literal string, actor Actor) error {
	scope := metrics.LblGlobal
	if actor == ActorStartupLoader {
		scope = metrics.LblStartup
	}
	d, err := s.catalog.Lookup(name)
	if err == nil {
		_, err = s.set(ctx, d, literal, actor, sourceOf(actor))
	}
	metrics.GUCSetCounter.WithLabelValues(scope, resultLabel(err)).Inc()
	return err
}

// LoadStartup applies a configuration source with the startup loader.
// The first failure aborts it: the server must not start with a
// configuration it could not apply.
func (s *Store) LoadStartup(ctx context.Context, src Source) error {
	for _, name := range src.names() {
		if err := s.Set(ctx, name, src[name], ActorStartupLoader); err != nil {
			return errors.Annotate(err, "apply configuration file")
		}
	}
	return nil
}

func sourceOf(actor Actor) ValueSource {
	if actor == ActorClientSession {
		return SourceClient
	}
	return SourceConfigFile
}

// set is the global pipeline: context check, parse and bounds, preassign, commit.
func (s *Store) set(ctx context.Context, d *Descriptor, literal string, actor Actor, src ValueSource) (bool, error) {
	if err := checkContext(d, actor, s.started.Load()); err != nil {
		return false, err
	}
	if err := checkSetOnce(d, actor, s.written[d.slot].Load()); err != nil {
		return false, err
	}
	v, err := d.parse(literal)
	if err != nil {
		return false, err
	}
	return s.assign(ctx, d, v, actor, src)
}

// assign commits a parsed value and notifies listeners. The caller has
// already checked the context.
func (s *Store) assign(ctx context.Context, d *Descriptor, v Value, actor Actor, src ValueSource) (bool, error) {
	old, committed, ticket, err := s.publish(ctx, d, v, actor, src)
	if err != nil {
		return false, err
	}
	s.emitter.notify(d, committed, ticket)
	return !old.Equal(committed), nil
}

func (s *Store) publish(ctx context.Context, d *Descriptor, v Value, actor Actor, src ValueSource) (old, committed Value, ticket uint64, err error) {
	if err = ctx.Err(); err != nil {
		return old, committed, 0, errors.Trace(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Rechecked under mu: two startup writes may race past the check in set.
	if err = checkSetOnce(d, actor, s.written[d.slot].Load()); err != nil {
		return old, committed, 0, err
	}
	old = s.global(d).value
	a := newAssignment(d, old, v, actor, false)
	if !invokePreassign(d, a) {
		logutil.Logger(ctx).Warn("parameter change rejected",
			zap.String("name", d.name),
			zap.String("value", v.String()),
			zap.Stringer("actor", actor))
		return old, committed, 0, ErrValidationRejected.GenWithStackByArgs(d.name, v.String())
	}
	if err = d.check(a.New); err != nil {
		return old, committed, 0, err
	}
	// Cancellation is honored up to the publish; after it the change is visible.
	if err = ctx.Err(); err != nil {
		return old, committed, 0, errors.Trace(err)
	}
	s.slots[d.slot].Store(&globalValue{value: a.New, source: src})
	if actor == ActorStartupLoader {
		s.written[d.slot].Store(true)
	}
	a.commit()
	return old, a.New, s.emitter.ticket(d, old, a.New), nil
}

// Setting is one row of an enumeration.
type Setting struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Type      string `json:"type"`
	Context   string `json:"context"`
	Source    string `json:"source"`
	ShortDesc string `json:"short_desc"`
}

// Enumerate lists the global value of every visible variable, sorted by name.
func (s *Store) Enumerate() []Setting {
	return s.enumerate(func(d *Descriptor) (Value, ValueSource) {
		gv := s.global(d)
		return gv.value, gv.source
	})
}

func (s *Store) enumerate(resolve func(*Descriptor) (Value, ValueSource)) []Setting {
	out := make([]Setting, 0, len(s.catalog.ordered))
	for _, d := range s.catalog.ordered {
		if d.HasFlag(FlagNoShowAll) {
			continue
		}
		v, src := resolve(d)
		out = append(out, settingRow(d, v, src))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Setting returns the global row of name, hidden variables included. Value
// and source come from the same snapshot.
func (s *Store) Setting(name string) (Setting, error) {
	d, err := s.catalog.Lookup(name)
	if err != nil {
		return Setting{}, err
	}
	gv := s.global(d)
	return settingRow(d, gv.value, gv.source), nil
}

func settingRow(d *Descriptor, v Value, src ValueSource) Setting {
	return Setting{
		Name:      d.name,
		Value:     d.Display(v),
		Type:      d.typ.String(),
		Context:   d.context.String(),
		Source:    src.String(),
		ShortDesc: d.shortDesc,
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.LblOK
	case ErrUnknownVariable.Equal(err):
		return metrics.LblUnknown
	case ErrPermissionDenied.Equal(err), ErrNoActiveScope.Equal(err):
		return metrics.LblDenied
	case ErrParse.Equal(err), ErrValueOutOfRange.Equal(err), ErrTypeMismatch.Equal(err):
		return metrics.LblInvalid
	case ErrValidationRejected.Equal(err):
		return metrics.LblRejected
	case errors.Cause(err) == context.Canceled, errors.Cause(err) == context.DeadlineExceeded:
		return metrics.LblCanceled
	}
	return metrics.LblError
}
