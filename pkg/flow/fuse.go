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

package flow

import "sort"

// FuseCoincidence is the two-stream coincidence primitive the per-pixel SDF
// kernel specializes: given two streams of timestamps (A and B), a window,
// and a minimum combined count, emit a coincidence whenever both streams
// have at least one timestamp within [t-window, t] and the combined count
// in that window is at least minCount. It carries no notion of pixels or
// polarity; it performs the same single-coordinate sweep that Batch runs
// inline once per (x,y,pol) key, without Batch's deduplication.
func FuseCoincidence(a, b []int64, windowUs int64, minCount int) ([]int64, []float32, error) {
	if windowUs <= 0 {
		return nil, nil, &Error{Msg: "window_us must be > 0"}
	}
	if minCount < 1 {
		return nil, nil, &Error{Msg: "min_count must be >= 1"}
	}

	type tagged struct {
		ts    int64
		fromB bool
	}
	merged := make([]tagged, 0, len(a)+len(b))
	for _, t := range a {
		merged = append(merged, tagged{ts: t, fromB: false})
	}
	for _, t := range b {
		merged = append(merged, tagged{ts: t, fromB: true})
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].ts < merged[j].ts })

	var aq, bq timeQueue
	var outT []int64
	var outV []float32
	for _, m := range merged {
		if m.fromB {
			bq.push(m.ts)
		} else {
			aq.push(m.ts)
		}
		cutoff := saturatingSub(m.ts, windowUs)
		aq.prune(cutoff)
		bq.prune(cutoff)
		if !aq.empty() && !bq.empty() && aq.len()+bq.len() >= minCount {
			outT = append(outT, m.ts)
			outV = append(outV, 1.0)
		}
	}
	return outT, outV, nil
}
