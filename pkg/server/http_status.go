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

package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/kuiba-db/kuiba/pkg/config"
	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/kuiba-db/kuiba/pkg/guc/vardef"
	"github.com/kuiba-db/kuiba/pkg/metrics"
	"github.com/kuiba-db/kuiba/pkg/server/internal/httputil"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/kuiba-db/kuiba/pkg/util/versioninfo"
	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	pName = "name"

	readHeaderTimeout = 5 * time.Second
)

// Server is the status server. It exposes the runtime parameters, a reload
// trigger and the prometheus metrics over HTTP.
type Server struct {
	cfg      *config.Config
	store    *guc.Store
	reloader *guc.Reloader
	gatherer prometheus.Gatherer

	mu           sync.Mutex
	listener     net.Listener
	statusServer *http.Server
}

// NewServer creates a status server. gatherer defaults to the prometheus
// default gatherer when nil.
func NewServer(cfg *config.Config, store *guc.Store, reloader *guc.Reloader, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		reloader: reloader,
		gatherer: gatherer,
	}
}

// Handler returns the router of the status server.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/settings", s.handleSettings).Methods(http.MethodGet)
	router.HandleFunc("/settings/{name}", s.handleSetting).Methods(http.MethodGet)
	router.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)
	// HTTP path for prometheus.
	router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	router.Use(instrument)
	return router
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument counts requests by route template and gives each request a
// logger tagged with its route.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path
		if route := mux.CurrentRoute(req); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		ctx := req.Context()
		logger := logutil.Logger(ctx).With(zap.String("path", path), zap.String("method", req.Method))
		req = req.WithContext(logutil.WithLogger(ctx, logger))
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, req)
		metrics.StatusRequestCounter.WithLabelValues(path, req.Method, strconv.Itoa(rec.code)).Inc()
		metrics.StatusRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	})
}

// Listen binds the status address.
func (s *Server) Listen() error {
	addr := s.cfg.Status.StatusAddr()
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Annotatef(err, "listen status address %s", addr)
	}
	s.mu.Lock()
	s.listener = l
	s.statusServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: readHeaderTimeout}
	s.mu.Unlock()
	logutil.BgLogger().Info("listening for status and metrics report", zap.Stringer("addr", l.Addr()))
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve serves until Close. It returns nil after a graceful close.
func (s *Server) Serve() error {
	s.mu.Lock()
	srv, l := s.statusServer, s.listener
	s.mu.Unlock()
	if srv == nil {
		return errors.New("status server is not listening")
	}
	if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
		return errors.Trace(err)
	}
	return nil
}

// Close shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	srv := s.statusServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return errors.Trace(srv.Shutdown(ctx))
}

type status struct {
	Version    string `json:"version"`
	GitHash    string `json:"git_hash"`
	Started    bool   `json:"started"`
	Parameters int    `json:"parameters"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	version, err := s.store.Show(vardef.ServerVersion)
	if err != nil {
		httputil.WriteErrorWithCode(w, http.StatusInternalServerError, err)
		return
	}
	httputil.WriteData(w, status{
		Version:    version,
		GitHash:    versioninfo.KuiBaGitHash,
		Started:    s.store.Started(),
		Parameters: s.store.Catalog().Len(),
	})
}

func (s *Server) handleSettings(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, s.store.Enumerate())
}

// settingDetail describes one parameter, hidden ones included.
type settingDetail struct {
	guc.Setting
	LongDesc string   `json:"long_desc,omitempty"`
	Boot     string   `json:"boot_val"`
	Min      string   `json:"min_val,omitempty"`
	Max      string   `json:"max_val,omitempty"`
	Flags    []string `json:"flags,omitempty"`
}

func (s *Server) handleSetting(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)[pName]
	d, err := s.store.Catalog().Lookup(name)
	if err != nil {
		httputil.WriteErrorWithCode(w, http.StatusNotFound, err)
		return
	}
	st, err := s.store.Setting(name)
	if err != nil {
		httputil.WriteErrorWithCode(w, http.StatusInternalServerError, err)
		return
	}
	detail := settingDetail{
		Setting:  st,
		LongDesc: d.LongDesc(),
		Boot:     d.Display(d.Boot()),
	}
	if lo, hasLo, hi, hasHi := d.Bounds(); hasLo || hasHi {
		if hasLo {
			detail.Min = lo.String()
		}
		if hasHi {
			detail.Max = hi.String()
		}
	}
	if d.HasFlag(guc.FlagReport) {
		detail.Flags = append(detail.Flags, "REPORT")
	}
	if d.HasFlag(guc.FlagNoShowAll) {
		detail.Flags = append(detail.Flags, "NO_SHOW_ALL")
	}
	httputil.WriteData(w, detail)
}

type reloadEntry struct {
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

type reloadResult struct {
	Applied   int           `json:"applied"`
	Unchanged int           `json:"unchanged"`
	Reverted  int           `json:"reverted"`
	Failed    int           `json:"failed"`
	Entries   []reloadEntry `json:"entries"`
}

func (s *Server) handleReload(w http.ResponseWriter, req *http.Request) {
	if s.reloader == nil {
		httputil.WriteErrorWithCode(w, http.StatusServiceUnavailable, errors.New("reload is not configured"))
		return
	}
	ctx := logutil.WithCategory(req.Context(), "http-reload")
	report, err := s.reloader.Reload(ctx)
	if err != nil {
		httputil.WriteErrorWithCode(w, http.StatusInternalServerError, err)
		return
	}
	res := reloadResult{
		Applied:   report.Count(guc.OutcomeApplied),
		Unchanged: report.Count(guc.OutcomeUnchanged),
		Reverted:  report.Count(guc.OutcomeReverted),
		Failed:    report.Count(guc.OutcomeFailed),
		Entries:   make([]reloadEntry, 0, len(report.Entries)),
	}
	for _, e := range report.Entries {
		re := reloadEntry{Name: e.Name, Outcome: e.Outcome.String()}
		if e.Err != nil {
			re.Error = e.Err.Error()
		}
		res.Entries = append(res.Entries, re)
	}
	httputil.WriteData(w, res)
}
