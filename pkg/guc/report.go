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
	"sync"

	"github.com/kuiba-db/kuiba/pkg/metrics"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"go.uber.org/zap"
)

// Listener receives the new display value of a reported variable.
type Listener interface {
	OnReportChange(name, value string)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(name, value string)

// OnReportChange implements Listener.
func (f ListenerFunc) OnReportChange(name, value string) { f(name, value) }

// Emitter fans reported changes out to subscribed listeners. Delivery is
// synchronous and happens after the change is committed. Changes of one
// variable are delivered in commit order; there is no ordering guarantee
// across variables. A listener must not synchronously change the
// variable it is being notified about.
type Emitter struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]Listener

	orderMu   sync.Mutex
	turn      *sync.Cond
	issued    map[string]uint64
	delivered map[string]uint64
}

// NewEmitter returns an emitter with no listeners.
func NewEmitter() *Emitter {
	e := &Emitter{
		listeners: make(map[uint64]Listener),
		issued:    make(map[string]uint64),
		delivered: make(map[string]uint64),
	}
	e.turn = sync.NewCond(&e.orderMu)
	return e
}

// Subscribe adds l and returns a function that removes it.
func (e *Emitter) Subscribe(l Listener) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = l
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

func (e *Emitter) snapshot() []Listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	ls := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		ls = append(ls, l)
	}
	return ls
}

// ticket reserves the delivery position of a change of d from old to
// updated. It returns 0 when nothing is to be delivered. Callers hold the
// store's write lock, so tickets of one variable follow commit order.
func (e *Emitter) ticket(d *Descriptor, old, updated Value) uint64 {
	if !d.HasFlag(FlagReport) || old.Equal(updated) {
		return 0
	}
	e.orderMu.Lock()
	defer e.orderMu.Unlock()
	e.issued[d.name]++
	return e.issued[d.name]
}

// notify delivers updated, the change of d holding ticket, once every
// earlier change of d has been delivered.
func (e *Emitter) notify(d *Descriptor, updated Value, ticket uint64) {
	if ticket == 0 {
		return
	}
	e.orderMu.Lock()
	for e.delivered[d.name] != ticket-1 {
		e.turn.Wait()
	}
	e.orderMu.Unlock()

	display := d.Display(updated)
	for _, l := range e.snapshot() {
		deliver(l, d.name, display)
	}

	e.orderMu.Lock()
	e.delivered[d.name] = ticket
	e.orderMu.Unlock()
	e.turn.Broadcast()
}

func deliver(l Listener, name, value string) {
	if l == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logutil.BgLogger().Error("report listener panicked",
				zap.String("name", name),
				zap.Any("recover", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	l.OnReportChange(name, value)
	metrics.GUCReportCounter.Inc()
}
