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
	"fmt"
	"runtime"
)

// Version information. They are set by -ldflags at build time.
var (
	KuiBaReleaseVersion = "0.1.0"
	KuiBaBuildTS        = "None"
	KuiBaGitHash        = "None"
	KuiBaGitBranch      = "None"
)

// Info returns the multi-line build information of kuiba-server.
func Info() string {
	return fmt.Sprintf("Release Version: %s\nGit Commit Hash: %s\nGit Branch: %s\nUTC Build Time: %s\nGo Version: %s",
		KuiBaReleaseVersion, KuiBaGitHash, KuiBaGitBranch, KuiBaBuildTS, runtime.Version())
}
