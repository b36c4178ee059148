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

package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

// counterValue returns the value of the counter in family name carrying
// the given label values, in label-definition order.
func counterValue(mfs []*dto.MetricFamily, name string, labelValues ...string) (float64, bool) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if m.Counter == nil || len(m.Label) != len(labelValues) {
				continue
			}
			match := true
			for i, lp := range m.Label {
				if lp.GetValue() != labelValues[i] {
					match = false
					break
				}
			}
			if match {
				return m.Counter.GetValue(), true
			}
		}
	}
	return 0, false
}

func gaugeValue(mfs []*dto.MetricFamily, name string) (float64, bool) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		if len(mf.Metric) == 0 || mf.Metric[0].Gauge == nil {
			continue
		}
		return mf.Metric[0].Gauge.GetValue(), true
	}
	return 0, false
}

func TestNewSet_RegistersAndCounts(t *testing.T) {
	s := NewSet()
	s.KernelEvents.WithLabelValues("compare", "matched").Add(3)
	s.KernelEvents.WithLabelValues("compare", "error").Inc()
	s.CompareLastResult.Set(1)

	mfs, err := s.reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	if v, ok := counterValue(mfs, "ef_kernel_events_total", "compare", "matched"); !ok || v != 3 {
		t.Fatalf("expected ef_kernel_events_total{compare,matched}=3, got %v (ok=%v)", v, ok)
	}
	if v, ok := counterValue(mfs, "ef_kernel_events_total", "compare", "error"); !ok || v != 1 {
		t.Fatalf("expected ef_kernel_events_total{compare,error}=1, got %v (ok=%v)", v, ok)
	}
	if v, ok := gaugeValue(mfs, "ef_compare_last_result"); !ok || v != 1 {
		t.Fatalf("expected ef_compare_last_result=1, got %v (ok=%v)", v, ok)
	}
}

func TestNewSet_IndependentRegistriesDoNotCollide(t *testing.T) {
	// Building a second Set in the same process must not panic with
	// prometheus.AlreadyRegisteredError the way registering twice against
	// prometheus.DefaultRegisterer would.
	_ = NewSet()
	_ = NewSet()
}
