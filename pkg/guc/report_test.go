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
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEmitterNotifiesOncePerChange(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()
	l := &recordingListener{}
	unsubscribe := s.Emitter().Subscribe(l)

	require.NoError(t, s.Set(ctx, "greeting", "Hey", ActorClientSession))
	require.Equal(t, []string{"Greeting=hey"}, l.changes)

	// Same value after the hook: no notification.
	require.NoError(t, s.Set(ctx, "greeting", "HEY", ActorClientSession))
	require.Len(t, l.changes, 1)

	// Unreported variables are never delivered.
	require.NoError(t, s.Set(ctx, "batch_size", "12", ActorClientSession))
	require.Len(t, l.changes, 1)

	// Rejected changes are never delivered.
	require.Error(t, s.Set(ctx, "greeting", "", ActorClientSession))
	require.Len(t, l.changes, 1)

	unsubscribe()
	require.NoError(t, s.Set(ctx, "greeting", "bye", ActorClientSession))
	require.Len(t, l.changes, 1)
}

func TestEmitterReload(t *testing.T) {
	s := newTestStore(t, true)
	var got []string
	s.Emitter().Subscribe(ListenerFunc(func(name, value string) {
		got = append(got, name+"="+value)
	}))
	// A panicking listener does not stop delivery to the others.
	s.Emitter().Subscribe(ListenerFunc(func(string, string) { panic("listener bug") }))

	r := s.Reload(context.Background(), Source{"greeting": "Reloaded"})
	require.NoError(t, r.Err())
	require.Equal(t, []string{"Greeting=reloaded"}, got)
}

func TestEmitterSessionCommit(t *testing.T) {
	s := newTestStore(t, true)
	l := &recordingListener{}
	s.Emitter().Subscribe(l)
	se := s.NewSession(nil)
	defer se.Close()
	ctx := context.Background()

	se.PushScope()
	require.NoError(t, se.SetLocal(ctx, "greeting", "local"))
	require.Empty(t, l.changes)
	require.NoError(t, se.PopScope(ctx, ScopeCommit))
	require.Equal(t, []string{"Greeting=local"}, l.changes)
}

func TestEmitterKeepsCommitOrderPerVariable(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	var got []string
	s.Emitter().Subscribe(ListenerFunc(func(_, value string) {
		if value == "first" {
			close(entered)
			<-release
		}
		mu.Lock()
		got = append(got, value)
		mu.Unlock()
	}))

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.Set(ctx, "greeting", "first", ActorClientSession) }()
	<-entered

	secondDone := make(chan error, 1)
	go func() { secondDone <- s.Set(ctx, "greeting", "second", ActorClientSession) }()
	// The second change is visible at once but its delivery waits for the first.
	require.Eventually(t, func() bool {
		v, err := s.Show("greeting")
		return err == nil && v == "second"
	}, 5*time.Second, time.Millisecond)
	select {
	case <-secondDone:
		t.Fatal("second change delivered before the first")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"first", "second"}, got)
}

func TestEmitterDoesNotOrderAcrossVariables(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()
	release := make(chan struct{})
	entered := make(chan struct{})
	s.Emitter().Subscribe(ListenerFunc(func(_, value string) {
		if value == "blocked" {
			close(entered)
			<-release
		}
	}))
	done := make(chan error, 1)
	go func() { done <- s.Set(ctx, "greeting", "blocked", ActorClientSession) }()
	<-entered

	// Writes to other variables are not held up by a slow delivery.
	require.NoError(t, s.Set(ctx, "batch_size", "12", ActorClientSession))
	close(release)
	require.NoError(t, <-done)
}
