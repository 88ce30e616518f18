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

type permission uint8

const (
	deny permission = iota
	allow
	// allowAtStartup is granted only until Store.Start.
	allowAtStartup
	// allowOnceAtStartup is allowAtStartup limited to one committed write
	// per variable.
	allowOnceAtStartup
)

// contextPolicy is indexed by [Context][Actor].
var contextPolicy = [...][3]permission{
	ContextInternal: {
		ActorStartupLoader: allowOnceAtStartup,
		ActorAdminReload:   deny,
		ActorClientSession: deny,
	},
	ContextCompileTimeOnly: {
		ActorStartupLoader: allowOnceAtStartup,
		ActorAdminReload:   deny,
		ActorClientSession: deny,
	},
	ContextReloadableByAdmin: {
		ActorStartupLoader: allowAtStartup,
		ActorAdminReload:   allow,
		ActorClientSession: deny,
	},
	ContextSessionSettable: {
		ActorStartupLoader: allowAtStartup,
		ActorAdminReload:   allow,
		ActorClientSession: allow,
	},
}

// Permitted reports whether actor may change a variable of context c.
// started tells whether the startup phase is over.
func Permitted(c Context, actor Actor, started bool) bool {
	if int(c) >= len(contextPolicy) || int(actor) >= len(contextPolicy[c]) {
		return false
	}
	switch contextPolicy[c][actor] {
	case allow:
		return true
	case allowAtStartup, allowOnceAtStartup:
		return !started
	}
	return false
}

// setOnce reports whether actor may commit a variable of context c at
// most once.
func setOnce(c Context, actor Actor) bool {
	if int(c) >= len(contextPolicy) || int(actor) >= len(contextPolicy[c]) {
		return false
	}
	return contextPolicy[c][actor] == allowOnceAtStartup
}

// checkContext runs before any parsing or hook, so a denial never has
// side effects.
func checkContext(d *Descriptor, actor Actor, started bool) error {
	if Permitted(d.context, actor, started) {
		return nil
	}
	return ErrPermissionDenied.GenWithStackByArgs(d.name, actor)
}

// checkSetOnce denies a second write of a set-once variable. written
// tells whether the variable already took one.
func checkSetOnce(d *Descriptor, actor Actor, written bool) error {
	if written && setOnce(d.context, actor) {
		return ErrPermissionDenied.GenWithStackByArgs(d.name, actor)
	}
	return nil
}
