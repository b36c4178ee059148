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

// timeQueue is a sliding-window double-ended queue of ascending int64
// timestamps. Prune is a head-pop loop, giving O(1) amortized removal from
// the front; this is the only shape the window maintenance in this package
// needs, so no general deque is pulled in.
type timeQueue struct {
	buf   []int64
	start int
}

func (q *timeQueue) push(ts int64) {
	q.buf = append(q.buf, ts)
}

// prune drops every timestamp strictly less than cutoff from the front.
func (q *timeQueue) prune(cutoff int64) {
	for q.start < len(q.buf) && q.buf[q.start] < cutoff {
		q.start++
	}
	// Reclaim backing array once the dead prefix dominates, so long-running
	// coordinates don't grow unbounded.
	if q.start > 0 && q.start == len(q.buf) {
		q.buf = q.buf[:0]
		q.start = 0
	} else if q.start > 64 && q.start*2 > len(q.buf) {
		n := copy(q.buf, q.buf[q.start:])
		q.buf = q.buf[:n]
		q.start = 0
	}
}

func (q *timeQueue) len() int { return len(q.buf) - q.start }

func (q *timeQueue) empty() bool { return q.len() == 0 }

// saturatingAdd adds a and b, clamping to the int64 range instead of
// wrapping on overflow.
func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > maxInt64-b {
		return maxInt64
	}
	if b < 0 && a < minInt64-b {
		return minInt64
	}
	return a + b
}

// saturatingSub subtracts b from a with the same overflow clamping as
// saturatingAdd. b is always non-negative in this package's call sites
// (window widths), so no special-casing for b == minInt64 is needed.
func saturatingSub(a, b int64) int64 {
	if b < 0 {
		return saturatingAdd(a, -b)
	}
	if a < minInt64+b {
		return minInt64
	}
	return a - b
}

const (
	maxInt64 = int64(1<<63 - 1)
	minInt64 = -maxInt64 - 1
)
