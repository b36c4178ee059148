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

package main

import "eventflow/pkg/uec"

// bucketInputsFromFile reads a UEC trace and extracts the (ts, val) pairs
// the bucket-sum kernel needs. Records missing a value are dropped, the
// same policy the trace reader uses for malformed lines.
func bucketInputsFromFile(path string) ([]int64, []float32, error) {
	tr, err := uec.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	ts := make([]int64, 0, len(tr.Events))
	vals := make([]float32, 0, len(tr.Events))
	for _, r := range tr.Events {
		if r.Val == nil {
			continue
		}
		tsVal, err := r.Ts.Int64()
		if err != nil {
			continue
		}
		ts = append(ts, tsVal)
		vals = append(vals, float32(*r.Val))
	}
	return ts, vals, nil
}
