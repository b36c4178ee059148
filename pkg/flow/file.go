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

import (
	"sort"

	"eventflow/pkg/uec"
)

// Mode selects which of the two behaviorally-equivalent realizations
// processes a trace. Batch is the preferred reference; Streaming exists for
// callers that need incremental emission during file read (§9).
type Mode int

const (
	ModeBatch Mode = iota
	ModeStreaming
	// ModePassthrough skips coincidence detection entirely and copies every
	// in-frame event straight through, sorted and bounds-filtered the same
	// way the real kernel's output is. It exists as a wiring baseline: a way
	// to exercise the read/validate/write path without the SDF logic itself,
	// mirroring original_source's standalone pass-through stub.
	ModePassthrough
)

// Result is the output of a full-file SDF run: a synthesized header plus
// the sorted, deduplicated flow events.
type Result struct {
	Header *uec.Header
	Events []Event
}

// RunFile reads path as a UEC trace and runs the SDF kernel over its
// event/deliver records in the requested mode. Malformed events (missing or
// short idx) are dropped, matching the reader's own policy of skipping
// individual malformed records rather than failing the whole parse.
func RunFile(path string, p Params, mode Mode) (*Result, error) {
	tr, err := uec.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := toRawEvents(tr.Events)

	var events []Event
	kernel := kernelOpticalFlowSDF
	switch mode {
	case ModeStreaming:
		events, err = Streaming(raw, p)
	case ModePassthrough:
		events, err = Passthrough(raw, p)
		kernel = kernelPassthrough
	default:
		events, err = Batch(raw, p)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Header: SynthesizeHeader(tr.Header, kernel),
		Events: events,
	}, nil
}

// Passthrough copies every in-frame, valid-polarity event straight through
// with no coincidence detection, sorted the same way Batch and Streaming
// sort their output. It is a wiring baseline, not a third realization of
// the SDF kernel.
func Passthrough(events []RawEvent, p Params) ([]Event, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, &Error{Msg: "width and height must be > 0"}
	}
	if len(events) == 0 {
		return nil, nil
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.X < 0 || e.X >= int64(p.Width) || e.Y < 0 || e.Y >= int64(p.Height) {
			continue
		}
		if e.Pol != 0 && e.Pol != 1 {
			continue
		}
		out = append(out, Event{T: e.Ts, X: e.X, Y: e.Y, Pol: e.Pol})
	}
	sort.Slice(out, func(i, j int) bool { return lessEvent(out[i], out[j]) })
	return out, nil
}

func toRawEvents(recs []uec.Record) []RawEvent {
	out := make([]RawEvent, 0, len(recs))
	for _, r := range recs {
		if len(r.Idx) != 3 {
			continue
		}
		ts, ok := tsInt64(r)
		if !ok {
			continue
		}
		out = append(out, RawEvent{Ts: ts, X: r.Idx[0], Y: r.Idx[1], Pol: r.Idx[2]})
	}
	return out
}

func tsInt64(r uec.Record) (int64, bool) {
	if r.Ts.String() == "" {
		return 0, false
	}
	v, err := r.Ts.Int64()
	if err != nil {
		f, ferr := r.Ts.Float64()
		if ferr != nil {
			return 0, false
		}
		return int64(f), true
	}
	return v, true
}
