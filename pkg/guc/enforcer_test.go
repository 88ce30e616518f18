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

func TestPermitted(t *testing.T) {
	type row struct {
		startup, reload, client bool
	}
	before := map[Context]row{
		ContextInternal:          {true, false, false},
		ContextCompileTimeOnly:   {true, false, false},
		ContextReloadableByAdmin: {true, true, false},
		ContextSessionSettable:   {true, true, true},
	}
	after := map[Context]row{
		ContextInternal:          {false, false, false},
		ContextCompileTimeOnly:   {false, false, false},
		ContextReloadableByAdmin: {false, true, false},
		ContextSessionSettable:   {false, true, true},
	}
	for started, table := range map[bool]map[Context]row{false: before, true: after} {
		for c, r := range table {
			require.Equal(t, r.startup, Permitted(c, ActorStartupLoader, started), "%s startup %v", c, started)
			require.Equal(t, r.reload, Permitted(c, ActorAdminReload, started), "%s reload %v", c, started)
			require.Equal(t, r.client, Permitted(c, ActorClientSession, started), "%s client %v", c, started)
		}
	}
	require.False(t, Permitted(Context(99), ActorStartupLoader, false))
	require.False(t, Permitted(ContextSessionSettable, Actor(99), false))
}

func TestParseEnums(t *testing.T) {
	typ, ok := ParseVarType("real")
	require.True(t, ok)
	require.Equal(t, TypeReal, typ)
	_, ok = ParseVarType("float")
	require.False(t, ok)

	c, ok := ParseContext("ReloadableByAdmin")
	require.True(t, ok)
	require.Equal(t, ContextReloadableByAdmin, c)

	f, ok := ParseFlag("report")
	require.True(t, ok)
	require.Equal(t, FlagReport, f)
}
