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
	"github.com/pingcap/errors"
)

// Error definitions. Startup errors (ErrDuplicateName, ErrUnresolvedHook,
// ErrTypeMismatch and a malformed boot value) are fatal; everything else is
// returned to the caller and never changes stored state.
var (
	ErrUnknownVariable      = errors.Normalize("unrecognized configuration parameter \"%s\"", errors.RFCCodeText("KuiBa:GUC:ErrUnknownVariable"))
	ErrDuplicateName        = errors.Normalize("configuration parameter \"%s\" is registered more than once", errors.RFCCodeText("KuiBa:GUC:ErrDuplicateName"))
	ErrTypeMismatch         = errors.Normalize("%s \"%s\" of parameter \"%s\" is not a valid %s", errors.RFCCodeText("KuiBa:GUC:ErrTypeMismatch"))
	ErrParse                = errors.Normalize("invalid value for parameter \"%s\": \"%s\"", errors.RFCCodeText("KuiBa:GUC:ErrParse"))
	ErrUnresolvedHook       = errors.Normalize("parameter \"%s\" references unregistered %s hook \"%s\"", errors.RFCCodeText("KuiBa:GUC:ErrUnresolvedHook"))
	ErrPermissionDenied     = errors.Normalize("parameter \"%s\" cannot be changed by %s", errors.RFCCodeText("KuiBa:GUC:ErrPermissionDenied"))
	ErrValidationRejected   = errors.Normalize("invalid value for parameter \"%s\": \"%s\" was rejected", errors.RFCCodeText("KuiBa:GUC:ErrValidationRejected"))
	ErrValueOutOfRange      = errors.Normalize("%s is outside the valid range for parameter \"%s\" (%s .. %s)", errors.RFCCodeText("KuiBa:GUC:ErrValueOutOfRange"))
	ErrReloadPartialFailure = errors.Normalize("configuration reload: %d of %d entries could not be applied", errors.RFCCodeText("KuiBa:GUC:ErrReloadPartialFailure"))
	ErrNoActiveScope        = errors.Normalize("%s can only be used inside a transaction scope", errors.RFCCodeText("KuiBa:GUC:ErrNoActiveScope"))
	ErrInvalidSchema        = errors.Normalize("invalid schema entry \"%s\": %s", errors.RFCCodeText("KuiBa:GUC:ErrInvalidSchema"))
)
