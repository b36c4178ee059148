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

// RawEvent is a single (t, x, y, polarity) input tuple, the borrowed shape
// the SDF kernel is given; a future host-binding layer would decode these
// from parallel int64 columns instead of a struct slice without any change
// to the kernel itself.
type RawEvent struct {
	Ts  int64
	X   int64
	Y   int64
	Pol int64
}

type taggedTs struct {
	ts     int64
	fromB  bool
}

// Batch runs the batch realization of the SDF kernel: build per-coordinate
// A/B lists from the full input, merge-sort each key's A+B timestamps with a
// source tag, then sweep a two-deque coincidence window per key. This is the
// preferred reference realization (§9): deterministic, and independent of
// input interleaving.
func Batch(events []RawEvent, p Params) ([]Event, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	aLists := make(map[coord][]int64)
	bLists := make(map[coord][]int64)
	eff := p.effDelay()

	for _, e := range events {
		if e.X < 0 || e.X >= int64(p.Width) || e.Y < 0 || e.Y >= int64(p.Height) {
			continue
		}
		if e.Pol != 0 && e.Pol != 1 {
			continue
		}
		key := coord{e.X, e.Y, e.Pol}
		aLists[key] = append(aLists[key], e.Ts)

		bTs := saturatingAdd(e.Ts, eff)
		if e.X+1 < int64(p.Width) {
			k := coord{e.X + 1, e.Y, e.Pol}
			bLists[k] = append(bLists[k], bTs)
		}
		if e.X > 0 {
			k := coord{e.X - 1, e.Y, e.Pol}
			bLists[k] = append(bLists[k], bTs)
		}
	}

	keys := make(map[coord]struct{}, len(aLists)+len(bLists))
	for k := range aLists {
		keys[k] = struct{}{}
	}
	for k := range bLists {
		keys[k] = struct{}{}
	}

	seen := make(map[Event]struct{})
	var out []Event

	for key := range keys {
		merged := make([]taggedTs, 0, len(aLists[key])+len(bLists[key]))
		for _, ts := range aLists[key] {
			merged = append(merged, taggedTs{ts: ts, fromB: false})
		}
		for _, ts := range bLists[key] {
			merged = append(merged, taggedTs{ts: ts, fromB: true})
		}
		sort.SliceStable(merged, func(i, j int) bool { return merged[i].ts < merged[j].ts })

		var aq, bq timeQueue
		for _, m := range merged {
			if m.fromB {
				bq.push(m.ts)
			} else {
				aq.push(m.ts)
			}
			tRef := m.ts
			cutoff := saturatingSub(tRef, p.WindowUs)
			aq.prune(cutoff)
			bq.prune(cutoff)
			if !aq.empty() && !bq.empty() && aq.len()+bq.len() >= p.MinCount {
				ev := Event{T: tRef, X: key.x, Y: key.y, Pol: key.pol}
				if _, dup := seen[ev]; !dup {
					seen[ev] = struct{}{}
					out = append(out, ev)
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return lessEvent(out[i], out[j]) })
	return out, nil
}

func lessEvent(a, b Event) bool {
	if a.T != b.T {
		return a.T < b.T
	}
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Pol < b.Pol
}
