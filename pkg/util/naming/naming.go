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

package naming

import (
	"regexp"

	"github.com/pingcap/errors"
)

var nameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// Check if the name is a valid parameter name.
// Valid name must be 63 characters or fewer, start with a letter or an
// underscore and consist only of letters (a-z, A-Z), numbers (0-9) and
// underscores (_).
func Check(name string) error {
	if !nameRe.MatchString(name) {
		return errors.Errorf("the name '%s' is invalid. It must be 63 characters or fewer, start with a letter or an underscore and consist only of letters (a-z, A-Z), numbers (0-9) and underscores (_)", name)
	}
	return nil
}
