// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
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

// Package metrics registers the Prometheus instruments the CLI subcommands
// report against, and exposes the /metrics handler used to serve them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set bundles every instrument one CLI run needs, registered against a
// registry private to the Set. Each call to NewSet gets its own registry,
// so running several subcommands in one process (or in one test binary)
// never collides with a prior Set's registration.
type Set struct {
	reg *prometheus.Registry

	// KernelEvents counts events matched or emitted by a kernel run, plus
	// one "error" increment per failed run, partitioned by kernel and
	// outcome.
	KernelEvents *prometheus.CounterVec
	// KernelDuration observes wall-clock time spent inside a kernel call,
	// partitioned by kernel.
	KernelDuration *prometheus.HistogramVec
	// CompareLastResult is 1 if the most recent compare run matched, 0
	// otherwise.
	CompareLastResult prometheus.Gauge
}

// NewSet creates a fresh registry and registers a new instrument set
// against it. Unlike registering against prometheus.DefaultRegisterer,
// this never panics with AlreadyRegisteredError when called more than
// once in the same process.
func NewSet() *Set {
	reg := prometheus.NewRegistry()
	s := &Set{
		reg: reg,
		KernelEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ef_kernel_events_total", Help: "Events matched/emitted by a kernel run, plus one per failed run",
		}, []string{"kernel", "outcome"}),
		KernelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "ef_kernel_duration_seconds", Help: "Wall-clock time spent inside a kernel call", Buckets: prometheus.DefBuckets,
		}, []string{"kernel"}),
		CompareLastResult: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ef_compare_last_result", Help: "1 if the last compare run matched, 0 otherwise",
		}),
	}
	reg.MustRegister(s.KernelEvents, s.KernelDuration, s.CompareLastResult)
	return s
}

// Handler returns the http.Handler that serves this Set's registered
// instruments.
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})
}
