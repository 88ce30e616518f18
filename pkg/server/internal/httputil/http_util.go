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

package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"go.uber.org/zap"
)

const (
	// HeaderContentType is the header name of content type.
	HeaderContentType = "Content-Type"
	// ContentTypeJSON is the content type of JSON bodies.
	ContentTypeJSON = "application/json"
)

// WriteError writes error to http response with StatusBadRequest.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorWithCode(w, http.StatusBadRequest, err)
}

// WriteErrorWithCode writes error to http response with the given status code.
func WriteErrorWithCode(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)
	if _, werr := w.Write([]byte(err.Error())); werr != nil {
		logutil.BgLogger().Warn("write http response failed", zap.Error(werr))
	}
}

// WriteData writes data to http response.
func WriteData(w http.ResponseWriter, data interface{}) {
	WriteDataWithCode(w, http.StatusOK, data)
}

// WriteDataWithCode writes data as indented JSON with the given status code.
func WriteDataWithCode(w http.ResponseWriter, code int, data interface{}) {
	js, err := json.MarshalIndent(data, "", " ")
	if err != nil {
		WriteErrorWithCode(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(code)
	if _, err = w.Write(js); err != nil {
		logutil.BgLogger().Warn("write http response failed", zap.Error(err))
	}
}
