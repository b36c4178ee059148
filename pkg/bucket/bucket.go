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

// Package bucket implements the contiguous-run bucket-sum kernel: a pure,
// in-memory transformer over a paired (timestamp, value) stream into
// fixed-width buckets.
package bucket

import "fmt"

// Error reports an invariant violation in the bucket-sum kernel: a
// non-positive dt or a length mismatch between the input slices.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Sum aggregates t (nanosecond timestamps) and v (float32 values) into
// contiguous-run buckets of width dt (nanoseconds).
//
// key(i) = (t[i]/dt)*dt using integer truncation toward zero, which is a
// floor for non-negative t. Consecutive input elements sharing the same key
// form a run; each run emits one output (T, S) where T = key+dt and S is the
// sum of v over the run, accumulated in float64 and narrowed to float32 at
// emission. Two non-adjacent runs landing on the same key produce two
// separate outputs: Sum never sorts or re-bins.
//
// An empty input produces an empty output. dt<=0 or len(t)!=len(v) fail with
// *Error.
func Sum(t []int64, v []float32, dt int64) (outT []int64, outS []float32, err error) {
	if dt <= 0 {
		return nil, nil, &Error{Msg: "dt must be > 0"}
	}
	if len(t) != len(v) {
		return nil, nil, &Error{Msg: fmt.Sprintf("t and v length mismatch: %d != %d", len(t), len(v))}
	}
	if len(t) == 0 {
		return nil, nil, nil
	}

	prevKey := bucketKey(t[0], dt)
	acc := float64(v[0])

	for i := 1; i < len(t); i++ {
		key := bucketKey(t[i], dt)
		if key == prevKey {
			acc += float64(v[i])
			continue
		}
		outT = append(outT, prevKey+dt)
		outS = append(outS, float32(acc))
		prevKey = key
		acc = float64(v[i])
	}
	outT = append(outT, prevKey+dt)
	outS = append(outS, float32(acc))
	return outT, outS, nil
}

// bucketKey computes floor(t/dt)*dt via integer truncation toward zero,
// which coincides with floor division for non-negative t (the only case the
// kernel's contract covers).
func bucketKey(t, dt int64) int64 {
	return (t / dt) * dt
}
