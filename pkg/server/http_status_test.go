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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kuiba-db/kuiba/pkg/config"
	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/kuiba-db/kuiba/pkg/guc/vardef"
	"github.com/kuiba-db/kuiba/pkg/metrics"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/kuiba-db/kuiba/pkg/util/versioninfo"
	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type staticLoader struct {
	src guc.Source
	err error
}

func (l *staticLoader) Load(context.Context) (guc.Source, error) {
	return l.src, l.err
}

type testServer struct {
	*Server
	store  *guc.Store
	loader *staticLoader
}

func newTestServer(t *testing.T) *testServer {
	store, err := vardef.NewStore()
	require.NoError(t, err)
	store.Start()
	loader := &staticLoader{src: guc.Source{}}
	reg := prometheus.NewRegistry()
	metrics.RegisterMetrics(reg)
	cfg := config.NewConfig()
	cfg.Status.StatusHost = "127.0.0.1"
	cfg.Status.StatusPort = 0
	return &testServer{
		Server: NewServer(cfg, store, guc.NewReloader(store, loader), reg),
		store:  store,
		loader: loader,
	}
}

func (ts *testServer) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleStatus(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var st status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Equal(t, versioninfo.KuiBaReleaseVersion, st.Version)
	require.Equal(t, versioninfo.KuiBaGitHash, st.GitHash)
	require.True(t, st.Started)
	require.Equal(t, len(vardef.Schema()), st.Parameters)
}

func TestHandleSettings(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/settings")
	require.Equal(t, http.StatusOK, rec.Code)
	var settings []guc.Setting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	require.Equal(t, ts.store.Enumerate(), settings)

	found := false
	for _, st := range settings {
		if st.Name == vardef.WalBuffMaxSize {
			found = true
			require.Equal(t, "2MiB", st.Value)
			require.Equal(t, "default", st.Source)
		}
		require.NotEqual(t, vardef.IsSuperuser, st.Name)
	}
	require.True(t, found)

	rec = ts.do(t, http.MethodPost, "/settings")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleSetting(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/settings/WAL_BUFF_MAX_SIZE")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail settingDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.Equal(t, vardef.WalBuffMaxSize, detail.Name)
	require.Equal(t, "2MiB", detail.Value)
	require.Equal(t, "2MiB", detail.Boot)
	require.Equal(t, "65536", detail.Min)
	require.Equal(t, "INT", detail.Type)
	require.Equal(t, "CompileTimeOnly", detail.Context)
	require.Equal(t, "default", detail.Source)

	// Hidden parameters can still be looked up directly.
	rec = ts.do(t, http.MethodGet, "/settings/"+vardef.IsSuperuser)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.Equal(t, []string{"REPORT", "NO_SHOW_ALL"}, detail.Flags)

	rec = ts.do(t, http.MethodGet, "/settings/no_such_parameter")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "no_such_parameter")
}

func TestHandleReload(t *testing.T) {
	ts := newTestServer(t)
	ts.loader.src = guc.Source{
		vardef.CheckpointCompletionTarget: "0.9",
		vardef.WalBuffMaxSize:             "4194304",
		vardef.LogMinMessages:             "error",
	}
	rec := ts.do(t, http.MethodPost, "/reload")
	require.Equal(t, http.StatusOK, rec.Code)
	var res reloadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, 2, res.Applied)
	require.Equal(t, 1, res.Failed)
	require.Len(t, res.Entries, 3)
	for _, e := range res.Entries {
		if e.Name == vardef.WalBuffMaxSize {
			require.Equal(t, "failed", e.Outcome)
			require.NotEmpty(t, e.Error)
		}
	}
	shown, err := ts.store.Show(vardef.CheckpointCompletionTarget)
	require.NoError(t, err)
	require.Equal(t, "0.9", shown)

	ts.loader.err = errors.New("config file is gone")
	rec = ts.do(t, http.MethodPost, "/reload")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "config file is gone")

	rec = ts.do(t, http.MethodGet, "/reload")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	noReload := NewServer(config.NewConfig(), ts.store, nil, nil)
	rec = httptest.NewRecorder()
	noReload.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	ts := newTestServer(t)
	ts.loader.src = guc.Source{vardef.WalBuffMaxSize: "4194304"}
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logutil.WithLogger(context.Background(), zap.New(core))
	req := httptest.NewRequest(http.MethodPost, "/reload", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("configuration reload entry not applied").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "/reload", fields["path"])
	require.Equal(t, http.MethodPost, fields["method"])
	require.Equal(t, "http-reload", fields[logutil.LogFieldCategory])
	require.Equal(t, vardef.WalBuffMaxSize, fields["name"])
}

func TestHandleMetrics(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/reload")
	rec := ts.do(t, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "kuiba_guc_reload_total")
}

func TestListenServeClose(t *testing.T) {
	ts := newTestServer(t)
	require.Nil(t, ts.Addr())
	require.Error(t, ts.Serve())
	require.NoError(t, ts.Listen())
	addr := ts.Addr()
	require.NotNil(t, addr)

	done := make(chan error, 1)
	go func() { done <- ts.Serve() }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + addr.String() + "/settings/port")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.Contains(string(body), `"value": "5432"`))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ts.Close(ctx))
	require.NoError(t, <-done)
}
