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

package vardef

import (
	"math"
	"strings"
	"time"
	// Embeds the zone database so TimeZone validation does not depend on the host.
	_ "time/tzdata"

	"github.com/docker/go-units"
	"github.com/kuiba-db/kuiba/pkg/guc"
)

// Hook names referenced by the schema.
const (
	CheckPowerOfTwo      = "check_power_of_two"
	CheckWalFileSize     = "check_wal_file_size"
	CheckClientEncoding  = "check_client_encoding"
	CheckDateStyle       = "check_datestyle"
	CheckTimeZone        = "check_timezone"
	CheckApplicationName = "check_application_name"
	CheckMessageLevel    = "check_message_level"
	AssignIOConcurrency  = "assign_io_concurrency"

	ShowBytes        = "show_bytes"
	ShowMilliseconds = "show_ms"
)

const (
	minWalFileSize = units.MiB
	maxWalFileSize = units.GiB

	// maxNameLen is the longest identifier, in bytes, the server stores.
	maxNameLen = 63
)

// Hooks returns a registry holding every built-in hook.
func Hooks() *guc.HookRegistry {
	return guc.NewHookRegistry().
		RegisterPreassign(CheckPowerOfTwo, checkPowerOfTwo).
		RegisterPreassign(CheckWalFileSize, checkWalFileSize).
		RegisterPreassign(CheckClientEncoding, checkClientEncoding).
		RegisterPreassign(CheckDateStyle, checkDateStyle).
		RegisterPreassign(CheckTimeZone, checkTimeZone).
		RegisterPreassign(CheckApplicationName, checkApplicationName).
		RegisterPreassign(CheckMessageLevel, checkMessageLevel).
		RegisterPreassign(AssignIOConcurrency, assignIOConcurrency).
		RegisterShow(ShowBytes, showBytes).
		RegisterShow(ShowMilliseconds, showMilliseconds)
}

func isPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

func checkPowerOfTwo(a *guc.Assignment) bool {
	return isPowerOfTwo(a.New.Int())
}

func checkWalFileSize(a *guc.Assignment) bool {
	n := a.New.Int()
	return isPowerOfTwo(n) && n >= minWalFileSize && n <= maxWalFileSize
}

// checkClientEncoding accepts the spellings of UTF8, the only encoding
// the server speaks, and canonicalizes them.
func checkClientEncoding(a *guc.Assignment) bool {
	switch strings.ToUpper(strings.TrimSpace(a.New.Str())) {
	case "UTF8", "UTF-8", "UNICODE":
		a.New = guc.StrValue("UTF8")
		return true
	}
	return false
}

var (
	dateOutputStyles = map[string]string{
		"ISO": "ISO", "POSTGRES": "Postgres", "SQL": "SQL", "GERMAN": "German",
	}
	dateFieldOrders = map[string]string{
		"DMY": "DMY", "EURO": "DMY", "EUROPEAN": "DMY",
		"MDY": "MDY", "US": "MDY", "NONEURO": "MDY", "NONEUROPEAN": "MDY",
		"YMD": "YMD",
	}
)

// checkDateStyle canonicalizes a "style, order" pair. A missing half is
// kept from the current setting; conflicting halves are rejected.
func checkDateStyle(a *guc.Assignment) bool {
	style, order := splitDateStyle(a.Current.Str())
	var newStyle, newOrder string
	for _, tok := range strings.Split(a.New.Str(), ",") {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if s, ok := dateOutputStyles[tok]; ok {
			if newStyle != "" && newStyle != s {
				return false
			}
			newStyle = s
			continue
		}
		if o, ok := dateFieldOrders[tok]; ok {
			if newOrder != "" && newOrder != o {
				return false
			}
			newOrder = o
			continue
		}
		if tok == "DEFAULT" {
			newStyle, newOrder = "ISO", "MDY"
			continue
		}
		return false
	}
	if newStyle == "" && newOrder == "" {
		return false
	}
	if newStyle != "" {
		style = newStyle
	}
	if newOrder != "" {
		order = newOrder
	}
	a.New = guc.StrValue(style + ", " + order)
	return true
}

func splitDateStyle(s string) (style, order string) {
	style, order = "ISO", "MDY"
	for _, tok := range strings.Split(s, ",") {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if v, ok := dateOutputStyles[tok]; ok {
			style = v
		} else if v, ok := dateFieldOrders[tok]; ok {
			order = v
		}
	}
	return style, order
}

// checkTimeZone accepts any zone of the IANA database. "Local" is
// rejected: its meaning depends on the host.
func checkTimeZone(a *guc.Assignment) bool {
	name := strings.TrimSpace(a.New.Str())
	if name == "" || strings.EqualFold(name, "local") {
		return false
	}
	if strings.EqualFold(name, "utc") {
		a.New = guc.StrValue("UTC")
		return true
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return false
	}
	a.New = guc.StrValue(loc.String())
	return true
}

// checkApplicationName replaces non-printable ASCII with '?' and
// truncates the name to maxNameLen bytes.
func checkApplicationName(a *guc.Assignment) bool {
	s := a.New.Str()
	var b strings.Builder
	for i := 0; i < len(s) && b.Len() < maxNameLen; i++ {
		c := s[i]
		if c < 32 || c > 126 {
			c = '?'
		}
		b.WriteByte(c)
	}
	if b.String() != s {
		a.New = guc.StrValue(b.String())
	}
	return true
}

var messageLevels = map[string]string{
	"debug5": "debug5", "debug4": "debug4", "debug3": "debug3",
	"debug2": "debug2", "debug1": "debug1", "debug": "debug2",
	"log": "log", "info": "info", "notice": "notice",
	"warning": "warning", "error": "error",
}

func checkMessageLevel(a *guc.Assignment) bool {
	lvl, ok := messageLevels[strings.ToLower(strings.TrimSpace(a.New.Str()))]
	if !ok {
		return false
	}
	a.New = guc.StrValue(lvl)
	return true
}

// assignIOConcurrency derives the prefetch distance from the number of
// concurrent I/O requests. Only global values feed the shared state.
func assignIOConcurrency(a *guc.Assignment) bool {
	pages, ok := prefetchPages(a.New.Int())
	if !ok {
		return false
	}
	if !a.Local {
		a.OnCommit(func() { prefetchDistance.Store(pages) })
	}
	return true
}

// prefetchPages estimates how many pages must be prefetched to keep n
// drives busy: n * H(n), where H is the harmonic number.
func prefetchPages(n int64) (int64, bool) {
	if n < 0 {
		return 0, false
	}
	var pages float64
	for i := int64(1); i <= n; i++ {
		pages += float64(n) / float64(i)
	}
	pages = math.Floor(pages + 0.5)
	if pages > math.MaxInt32 {
		return 0, false
	}
	return int64(pages), true
}

func showBytes(v guc.Value) string {
	return units.BytesSize(float64(v.Int()))
}

func showMilliseconds(v guc.Value) string {
	return (time.Duration(v.Int()) * time.Millisecond).String()
}
