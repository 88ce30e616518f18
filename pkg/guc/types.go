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

// Package guc is the runtime configuration core: a frozen catalog of typed
// variables, a store of their global values with lock-free reads,
// per-session transactional overrides, administrator reloads and change
// reporting.
package guc

import (
	"strings"
)

// VarType fixes how a variable is parsed, stored and compared.
type VarType uint8

const (
	// TypeInt is a signed 64-bit integer.
	TypeInt VarType = iota
	// TypeBool is a boolean.
	TypeBool
	// TypeReal is a 64-bit float.
	TypeReal
	// TypeStr is a free-form string.
	TypeStr
)

var varTypeNames = [...]string{
	TypeInt:  "INT",
	TypeBool: "BOOL",
	TypeReal: "REAL",
	TypeStr:  "STR",
}

func (t VarType) String() string {
	if int(t) < len(varTypeNames) {
		return varTypeNames[t]
	}
	return "UNKNOWN"
}

// ParseVarType parses the schema spelling of a VarType.
func ParseVarType(s string) (VarType, bool) {
	for i, name := range varTypeNames {
		if strings.EqualFold(s, name) {
			return VarType(i), true
		}
	}
	return 0, false
}

// Context governs who may change a variable and when.
type Context uint8

const (
	// ContextInternal variables are computed by the server and read-only afterwards.
	ContextInternal Context = iota
	// ContextCompileTimeOnly variables are fixed once the server has started.
	ContextCompileTimeOnly
	// ContextReloadableByAdmin variables change through the configuration file and a reload.
	ContextReloadableByAdmin
	// ContextSessionSettable variables may be changed by any client session.
	ContextSessionSettable
)

var contextNames = [...]string{
	ContextInternal:          "Internal",
	ContextCompileTimeOnly:   "CompileTimeOnly",
	ContextReloadableByAdmin: "ReloadableByAdmin",
	ContextSessionSettable:   "SessionSettable",
}

func (c Context) String() string {
	if int(c) < len(contextNames) {
		return contextNames[c]
	}
	return "Unknown"
}

// ParseContext parses the schema spelling of a Context.
func ParseContext(s string) (Context, bool) {
	for i, name := range contextNames {
		if strings.EqualFold(s, name) {
			return Context(i), true
		}
	}
	return 0, false
}

// Actor is the kind of party requesting a change.
type Actor uint8

const (
	// ActorStartupLoader applies boot and configuration file values before the server starts.
	ActorStartupLoader Actor = iota
	// ActorAdminReload applies configuration file values on an administrator reload.
	ActorAdminReload
	// ActorClientSession is a connected client issuing SET.
	ActorClientSession
)

func (a Actor) String() string {
	switch a {
	case ActorStartupLoader:
		return "startup loader"
	case ActorAdminReload:
		return "configuration reload"
	case ActorClientSession:
		return "client session"
	}
	return "unknown actor"
}

// Flag is a bit set of descriptor flags.
type Flag uint32

const (
	// FlagReport marks variables whose changes are pushed to listeners.
	FlagReport Flag = 1 << iota
	// FlagNoShowAll hides a variable from enumeration.
	FlagNoShowAll
)

// ParseFlag parses a single schema flag name.
func ParseFlag(s string) (Flag, bool) {
	switch strings.ToUpper(s) {
	case "REPORT":
		return FlagReport, true
	case "NO_SHOW_ALL":
		return FlagNoShowAll, true
	}
	return 0, false
}

// ValueSource records where the current global value came from.
type ValueSource uint8

const (
	// SourceDefault is the boot value.
	SourceDefault ValueSource = iota
	// SourceConfigFile is a value read from the configuration file, at startup or on reload.
	SourceConfigFile
	// SourceClient is a value set by a client session.
	SourceClient
	// SourceSession is a session-local override; it never reaches a global value.
	SourceSession
)

func (s ValueSource) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceConfigFile:
		return "configuration file"
	case SourceClient:
		return "client"
	case SourceSession:
		return "session"
	}
	return "unknown"
}
