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

package versioninfo

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	info := Info()
	require.Contains(t, info, "Release Version: "+KuiBaReleaseVersion)
	require.Contains(t, info, "Git Commit Hash: None")
	require.Contains(t, info, runtime.Version())
}
