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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	InitGUCMetrics()
	r := prometheus.NewRegistry()
	RegisterMetrics(r)

	GUCSetCounter.WithLabelValues(LblGlobal, LblOK).Inc()
	GUCReloadCounter.WithLabelValues(LblPartial).Inc()
	GUCReportCounter.Add(2)

	require.Equal(t, 1.0, testutil.ToFloat64(GUCSetCounter.WithLabelValues(LblGlobal, LblOK)))
	require.Equal(t, 2.0, testutil.ToFloat64(GUCReportCounter))

	families, err := r.Gather()
	require.NoError(t, err)
	names := make(map[string]struct{}, len(families))
	for _, f := range families {
		names[f.GetName()] = struct{}{}
	}
	require.Contains(t, names, "kuiba_guc_set_total")
	require.Contains(t, names, "kuiba_guc_reload_total")
	require.Contains(t, names, "kuiba_guc_report_notifications_total")

	require.Panics(t, func() { RegisterMetrics(r) })
}
