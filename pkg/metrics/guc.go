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
	"github.com/prometheus/client_golang/prometheus"
)

// Label names and values.
const (
	LblType   = "type"
	LblResult = "result"

	LblGlobal  = "global"
	LblLocal   = "local"
	LblReload  = "reload"
	LblStartup = "startup"
	LblCommit  = "commit"

	LblOK       = "ok"
	LblUnknown  = "unknown"
	LblDenied   = "denied"
	LblInvalid  = "invalid"
	LblRejected = "rejected"
	LblCanceled = "canceled"
	LblError    = "error"
	LblPartial  = "partial"
)

// Metrics
var (
	GUCSetCounter       *prometheus.CounterVec
	GUCReloadCounter    *prometheus.CounterVec
	GUCReloadDuration   prometheus.Histogram
	GUCReportCounter    prometheus.Counter
	GUCOpenScopeGauge   prometheus.Gauge
	GUCReloadEntryGauge *prometheus.GaugeVec
)

func init() {
	InitGUCMetrics()
}

// InitGUCMetrics initializes the configuration core metrics.
func InitGUCMetrics() {
	GUCSetCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kuiba",
			Subsystem: "guc",
			Name:      "set_total",
			Help:      "Counter of parameter change requests by scope and result.",
		}, []string{LblType, LblResult})

	GUCReloadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kuiba",
			Subsystem: "guc",
			Name:      "reload_total",
			Help:      "Counter of configuration reloads by result.",
		}, []string{LblResult})

	GUCReloadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "kuiba",
			Subsystem: "guc",
			Name:      "reload_duration_seconds",
			Help:      "Bucketed histogram of configuration reload time.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 100us ~ 3.3s
		})

	GUCReportCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kuiba",
			Subsystem: "guc",
			Name:      "report_notifications_total",
			Help:      "Counter of reported parameter changes delivered to listeners.",
		})

	GUCOpenScopeGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kuiba",
			Subsystem: "guc",
			Name:      "open_scopes",
			Help:      "Number of session override scopes currently open.",
		})

	GUCReloadEntryGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "kuiba",
			Subsystem: "guc",
			Name:      "last_reload_entries",
			Help:      "Entries of the last configuration reload by outcome.",
		}, []string{LblResult})
}

// RegisterMetrics registers the configuration core metrics.
func RegisterMetrics(r prometheus.Registerer) {
	r.MustRegister(GUCSetCounter)
	r.MustRegister(GUCReloadCounter)
	r.MustRegister(GUCReloadDuration)
	r.MustRegister(GUCReportCounter)
	r.MustRegister(GUCOpenScopeGauge)
	r.MustRegister(GUCReloadEntryGauge)
}
