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
	"time"

	"github.com/kuiba-db/kuiba/pkg/metrics"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Source maps variable names to literals, as read from a configuration file.
type Source map[string]string

func (s Source) names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SourceLoader produces a fresh Source on every reload.
type SourceLoader interface {
	Load(ctx context.Context) (Source, error)
}

// Outcome is the result of reloading one entry.
type Outcome uint8

const (
	// OutcomeApplied means the global value changed.
	OutcomeApplied Outcome = iota
	// OutcomeUnchanged means the entry was valid and already in effect.
	OutcomeUnchanged
	// OutcomeReverted means the entry left the file and the boot value was restored.
	OutcomeReverted
	// OutcomeFailed means the entry was not applied; Err says why.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeReverted:
		return "reverted"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// ReloadEntry is the outcome for one variable.
type ReloadEntry struct {
	Name    string
	Outcome Outcome
	Err     error
}

// ReloadReport lists the outcome of every entry a reload touched.
type ReloadReport struct {
	Entries []ReloadEntry
}

// Failures returns the failed entries.
func (r *ReloadReport) Failures() []ReloadEntry {
	var out []ReloadEntry
	for _, e := range r.Entries {
		if e.Outcome == OutcomeFailed {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of entries with outcome o.
func (r *ReloadReport) Count(o Outcome) int {
	n := 0
	for _, e := range r.Entries {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

// Err returns nil when every entry succeeded, otherwise an
// ErrReloadPartialFailure annotated with each failure.
func (r *ReloadReport) Err() error {
	var errs error
	failures := r.Failures()
	for _, e := range failures {
		errs = multierr.Append(errs, errors.Annotate(e.Err, e.Name))
	}
	if errs == nil {
		return nil
	}
	return errors.Annotate(ErrReloadPartialFailure.GenWithStackByArgs(len(failures), len(r.Entries)), errs.Error())
}

// Reload applies src to the global values as an administrator reload.
//
// Every entry runs the full set pipeline on its own: a failed entry is
// recorded and left unchanged and the rest are still processed. Reloadable
// variables whose value came from the configuration file but that are
// missing from src get their boot value back. Session overrides are never
// touched. Reloads are serialized against each other.
func (s *Store) Reload(ctx context.Context, src Source) *ReloadReport {
	start := time.Now()
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	report := &ReloadReport{}
	seen := make(map[int]struct{}, len(src))
	for _, name := range src.names() {
		report.Entries = append(report.Entries, s.reloadEntry(ctx, name, src[name], seen))
	}
	for _, d := range s.catalog.ordered {
		if _, ok := seen[d.slot]; ok {
			continue
		}
		if s.global(d).source != SourceConfigFile || !Permitted(d.context, ActorAdminReload, s.Started()) {
			continue
		}
		e := ReloadEntry{Name: d.name, Outcome: OutcomeReverted}
		if _, err := s.assign(ctx, d, d.boot, ActorAdminReload, SourceDefault); err != nil {
			e.Outcome, e.Err = OutcomeFailed, err
		}
		report.Entries = append(report.Entries, e)
	}

	s.observeReload(ctx, report, time.Since(start))
	return report
}

func (s *Store) reloadEntry(ctx context.Context, name, literal string, seen map[int]struct{}) ReloadEntry {
	d, err := s.catalog.Lookup(name)
	if err != nil {
		return ReloadEntry{Name: name, Outcome: OutcomeFailed, Err: err}
	}
	seen[d.slot] = struct{}{}
	e := ReloadEntry{Name: d.name}
	if err = checkContext(d, ActorAdminReload, s.Started()); err != nil {
		// A restart-only entry that still matches is not worth a complaint.
		if v, perr := d.parse(literal); perr == nil && v.Equal(s.global(d).value) {
			e.Outcome = OutcomeUnchanged
			return e
		}
		e.Outcome, e.Err = OutcomeFailed, err
		return e
	}
	v, err := d.parse(literal)
	if err != nil {
		e.Outcome, e.Err = OutcomeFailed, err
		return e
	}
	changed, err := s.assign(ctx, d, v, ActorAdminReload, SourceConfigFile)
	switch {
	case err != nil:
		e.Outcome, e.Err = OutcomeFailed, err
	case changed:
		e.Outcome = OutcomeApplied
	default:
		e.Outcome = OutcomeUnchanged
	}
	return e
}

func (s *Store) observeReload(ctx context.Context, report *ReloadReport, elapsed time.Duration) {
	logger := logutil.Logger(ctx)
	failed := 0
	for _, e := range report.Entries {
		metrics.GUCSetCounter.WithLabelValues(metrics.LblReload, resultLabel(e.Err)).Inc()
		if e.Outcome == OutcomeFailed {
			failed++
			logger.Warn("configuration reload entry not applied",
				zap.String("name", e.Name),
				zap.Error(e.Err))
		}
	}
	result := metrics.LblOK
	if failed > 0 {
		result = metrics.LblPartial
	}
	metrics.GUCReloadCounter.WithLabelValues(result).Inc()
	metrics.GUCReloadDuration.Observe(elapsed.Seconds())
	for _, o := range []Outcome{OutcomeApplied, OutcomeUnchanged, OutcomeReverted, OutcomeFailed} {
		metrics.GUCReloadEntryGauge.WithLabelValues(o.String()).Set(float64(report.Count(o)))
	}
	logger.Info("configuration reloaded",
		zap.Int("applied", report.Count(OutcomeApplied)),
		zap.Int("unchanged", report.Count(OutcomeUnchanged)),
		zap.Int("reverted", report.Count(OutcomeReverted)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", elapsed))
}

// Reloader ties a Store to the loader of its configuration source.
type Reloader struct {
	// mu spans load and apply, so a slow read of an older file is never
	// applied over a newer one.
	mu     sync.Mutex
	store  *Store
	loader SourceLoader
}

// NewReloader returns a Reloader for store reading from loader.
func NewReloader(store *Store, loader SourceLoader) *Reloader {
	return &Reloader{store: store, loader: loader}
}

// Reload loads a fresh source and applies it. A source that cannot be
// loaded leaves every value unchanged and is returned as an error; it is
// never fatal.
func (r *Reloader) Reload(ctx context.Context) (*ReloadReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, err := r.loader.Load(ctx)
	if err != nil {
		metrics.GUCReloadCounter.WithLabelValues(metrics.LblError).Inc()
		logutil.Logger(ctx).Warn("configuration reload skipped, source could not be loaded", zap.Error(err))
		return nil, errors.Trace(err)
	}
	return r.store.Reload(ctx, src), nil
}
