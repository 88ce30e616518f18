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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/kuiba-db/kuiba/pkg/config"
	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/kuiba-db/kuiba/pkg/guc/vardef"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "kuiba.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBootstrap(t *testing.T) {
	orig := config.GetGlobalConfig()
	defer config.StoreGlobalConfig(orig)

	path := writeConfig(t, `
[guc]
wal_buff_max_size = 8388608
checkpoint_completion_target = 0.7
`)
	b, err := newBootstrap(context.Background(), path, "", false)
	require.NoError(t, err)
	require.False(t, b.store.Started())
	require.Equal(t, path, b.source.Path())
	require.Equal(t, int64(8388608), vardef.MustGetInt(b.store, vardef.WalBuffMaxSize))
	src, err := b.store.SourceOf(vardef.WalBuffMaxSize)
	require.NoError(t, err)
	require.Equal(t, guc.SourceConfigFile, src)
	require.Same(t, b.cfg, config.GetGlobalConfig())

	_, err = newBootstrap(context.Background(), writeConfig(t, "[guc]\nno_such_parameter = 1\n"), "", false)
	require.True(t, guc.ErrUnknownVariable.Equal(err))

	_, err = newBootstrap(context.Background(), writeConfig(t, "[guc]\nio_uring_depth = 100\n"), "", false)
	require.True(t, guc.ErrValidationRejected.Equal(err))

	_, err = newBootstrap(context.Background(), path, "chatty", false)
	require.Error(t, err)

	b, err = newBootstrap(context.Background(), "", "warn", false)
	require.NoError(t, err)
	require.Equal(t, "warn", b.cfg.Log.Level)
}

func TestShowAll(t *testing.T) {
	orig := config.GetGlobalConfig()
	defer config.StoreGlobalConfig(orig)

	path := writeConfig(t, "[guc]\nwork_mem = 8388608\n")
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"show-all", "--config", path, "--verbose"})
	require.NoError(t, cmd.Execute())

	text := out.String()
	require.Contains(t, text, vardef.WalBuffMaxSize)
	require.Contains(t, text, "2MiB")
	require.Contains(t, text, "8MiB")
	require.Contains(t, text, "configuration file")
	require.NotContains(t, text, vardef.IsSuperuser)
}

func TestRenderSettings(t *testing.T) {
	var out bytes.Buffer
	renderSettings(&out, []guc.Setting{{Name: "port", Value: "5432"}}, false)
	require.Contains(t, out.String(), "NAME")
	require.Contains(t, out.String(), "5432")
	require.NotContains(t, out.String(), "CONTEXT")
}

type fakeLoader struct {
	src guc.Source
}

func (f *fakeLoader) Load(context.Context) (guc.Source, error) {
	return f.src, nil
}

func TestReloadLoop(t *testing.T) {
	store, err := vardef.NewStore()
	require.NoError(t, err)
	store.Start()
	reloader := guc.NewReloader(store, &fakeLoader{src: guc.Source{vardef.CheckpointCompletionTarget: "0.8"}})

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	done := make(chan error, 1)
	go func() { done <- reloadLoop(ctx, reloader, signals) }()

	signals <- syscall.SIGHUP
	require.Eventually(t, func() bool {
		v, err := store.Get(vardef.CheckpointCompletionTarget)
		return err == nil && v.Real() == 0.8
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
