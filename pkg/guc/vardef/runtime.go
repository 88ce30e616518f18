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
	"github.com/docker/go-units"
	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/pingcap/errors"
	uatomic "go.uber.org/atomic"
	"go.uber.org/zap"
)

// prefetchDistance is derived from the global effective_io_concurrency.
var prefetchDistance = uatomic.NewInt64(1)

// PrefetchDistance returns the number of pages to prefetch ahead of a scan.
func PrefetchDistance() int64 {
	return prefetchDistance.Load()
}

// MustGetInt returns the global value of an INT variable. An unknown name
// is a programming error and panics.
func MustGetInt(s *guc.Store, name string) int64 {
	v, err := s.Get(name)
	if err != nil {
		panic(errors.ErrorStack(err))
	}
	return v.Int()
}

// MustGetBool returns the global value of a BOOL variable.
func MustGetBool(s *guc.Store, name string) bool {
	v, err := s.Get(name)
	if err != nil {
		panic(errors.ErrorStack(err))
	}
	return v.Bool()
}

// MustGetStr returns the global value of a STR variable.
func MustGetStr(s *guc.Store, name string) string {
	v, err := s.Get(name)
	if err != nil {
		panic(errors.ErrorStack(err))
	}
	return v.Str()
}

// LogStorageLayout logs the sizes the storage layer is built with.
func LogStorageLayout(s *guc.Store) {
	logutil.BgLogger().Info("storage layout",
		zap.String(SharedBuffers, units.BytesSize(float64(MustGetInt(s, SharedBuffers)))),
		zap.String(WalBuffMaxSize, units.BytesSize(float64(MustGetInt(s, WalBuffMaxSize)))),
		zap.String(WalFileMaxSize, units.BytesSize(float64(MustGetInt(s, WalFileMaxSize)))),
		zap.Int64(SBBucketCount, MustGetInt(s, SBBucketCount)),
		zap.Int64(ClogL1Size, MustGetInt(s, ClogL1Size)),
		zap.Int64(ClogL2Size, MustGetInt(s, ClogL2Size)),
		zap.Int64(TokioThreads, MustGetInt(s, TokioThreads)),
		zap.Int64(IOUringDepth, MustGetInt(s, IOUringDepth)),
		zap.Bool(SynchronousCommit, MustGetBool(s, SynchronousCommit)),
		zap.String(DataDirectory, MustGetStr(s, DataDirectory)),
		zap.Int64("prefetch-distance", PrefetchDistance()))
}
