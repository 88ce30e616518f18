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

// Server events.
var (
	ServerStart  = "server-start"
	ServerStop   = "server-stop"
	ServerReload = "server-reload"
)

// Label names.
const (
	LblEvent  = "event"
	LblPath   = "path"
	LblMethod = "method"
	LblCode   = "code"
)

// Metrics
var (
	ServerEventCounter    *prometheus.CounterVec
	StatusRequestCounter  *prometheus.CounterVec
	StatusRequestDuration *prometheus.HistogramVec
)

func init() {
	InitServerMetrics()
}

// InitServerMetrics initializes server metrics.
func InitServerMetrics() {
	ServerEventCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kuiba",
			Subsystem: "server",
			Name:      "event_total",
			Help:      "Counter of kuiba-server event.",
		}, []string{LblEvent})

	StatusRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kuiba",
			Subsystem: "server",
			Name:      "status_requests_total",
			Help:      "Counter of status server requests by route, method and status code.",
		}, []string{LblPath, LblMethod, LblCode})

	StatusRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kuiba",
			Subsystem: "server",
			Name:      "status_request_duration_seconds",
			Help:      "Bucketed histogram of status server request time.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms ~ 4s
		}, []string{LblPath})
}

// RegisterServerMetrics registers the server metrics.
func RegisterServerMetrics(r prometheus.Registerer) {
	r.MustRegister(ServerEventCounter)
	r.MustRegister(StatusRequestCounter)
	r.MustRegister(StatusRequestDuration)
}
