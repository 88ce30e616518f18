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

package config

import (
	"context"
	"sync"

	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

// FileSource reads runtime parameters from a configuration file. Every
// Load re-reads the file, so it serves both startup and reloads.
type FileSource struct {
	// mu serializes the read-modify-write of the global config.
	mu   sync.Mutex
	path string
}

// NewFileSource returns a FileSource for path. An empty path yields an
// empty source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file the source reads.
func (f *FileSource) Path() string { return f.path }

// Load re-reads the file and returns its [guc] table. The dynamic server
// items of the file are merged into the global config on the way; static
// items that changed are logged and wait for a restart.
func (f *FileSource) Load(ctx context.Context) (guc.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	if f.path == "" {
		return guc.Source{}, nil
	}
	nc := NewConfig()
	if err := nc.Load(f.path); err != nil {
		return nil, err
	}
	if err := nc.Valid(); err != nil {
		return nil, ErrConfigFile.GenWithStackByArgs(f.path, err.Error())
	}
	src, err := nc.GUCSource()
	if err != nil {
		return nil, errors.Trace(err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	cur := GetGlobalConfig()
	merged, err := CloneConf(cur)
	if err != nil {
		return nil, err
	}
	accepted, rejected := MergeConfigItems(merged, nc)
	merged.GUC = nc.GUC
	if merged.Log.Level != cur.Log.Level {
		if err := logutil.SetLevel(merged.Log.Level); err != nil {
			return nil, errors.Trace(err)
		}
	}
	StoreGlobalConfig(merged)

	logger := logutil.Logger(ctx)
	if len(accepted) > 0 {
		logger.Info("server configuration items updated", zap.Strings("items", accepted))
	}
	if len(rejected) > 0 {
		logger.Warn("server configuration items need a restart to take effect", zap.Strings("items", rejected))
	}
	return src, nil
}

var _ guc.SourceLoader = (*FileSource)(nil)
