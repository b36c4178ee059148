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

// Package compare implements the positional trace comparator: it walks two
// UEC traces side by side and reports the first point at which they diverge
// beyond a caller-supplied tolerance.
package compare

import (
	"fmt"
	"math"
	"strconv"

	"eventflow/pkg/uec"
)

// Options configures one comparison run.
type Options struct {
	Gold    string
	Test    string
	TolTime float64
	TolVal  float64
}

// Summary reports what a successful comparison found.
type Summary struct {
	Events   int
	MetaGold int
	MetaTest int
	TolTime  float64
	TolVal   float64
}

// MismatchError is returned the moment two traces are found to diverge. It
// carries enough of the records involved to build a precise message without
// the caller re-walking both files.
type MismatchError struct {
	Idx int
	Msg string
}

func (e *MismatchError) Error() string { return e.Msg }

// Run compares the gold and test traces named in opts and returns a Summary
// on success, or a *MismatchError (or an I/O error from reading either file)
// on the first divergence.
func Run(opts Options) (*Summary, error) {
	goldTrace, err := uec.ReadFile(opts.Gold)
	if err != nil {
		return nil, fmt.Errorf("failed to read gold file: %w", err)
	}
	testTrace, err := uec.ReadFile(opts.Test)
	if err != nil {
		return nil, fmt.Errorf("failed to read test file: %w", err)
	}

	goldEvents, testEvents := goldTrace.Events, testTrace.Events
	if len(goldEvents) != len(testEvents) {
		return nil, &MismatchError{
			Idx: -1,
			Msg: fmt.Sprintf("Event length mismatch: gold=%d test=%d", len(goldEvents), len(testEvents)),
		}
	}

	for i := range goldEvents {
		g, t := goldEvents[i], testEvents[i]

		kindG, kindT := recordKind(g), recordKind(t)
		if kindG != kindT {
			return nil, &MismatchError{Idx: i, Msg: fmt.Sprintf(
				"mismatch at idx=%d: kind gold=%q test=%q", i, kindG, kindT)}
		}

		tg, ok := numericTS(g)
		if !ok {
			return nil, &MismatchError{Idx: i, Msg: fmt.Sprintf("missing/invalid t_s in gold at idx=%d", i)}
		}
		tt, ok := numericTS(t)
		if !ok {
			return nil, &MismatchError{Idx: i, Msg: fmt.Sprintf("missing/invalid t_s in test at idx=%d", i)}
		}
		dt := absF64(tg - tt)
		if dt > opts.TolTime {
			return nil, &MismatchError{Idx: i, Msg: fmt.Sprintf(
				"time mismatch at idx=%d: kind=%s t_s_gold=%v t_s_test=%v Δt=%v > tol_time=%v",
				i, kindG, tg, tt, dt, opts.TolTime)}
		}

		if g.Payload != nil && t.Payload != nil {
			if msg, bad := comparePayloads(i, kindG, g.Payload, t.Payload, opts.TolVal); bad {
				return nil, &MismatchError{Idx: i, Msg: msg}
			}
		}
	}

	return &Summary{
		Events:   len(goldEvents),
		MetaGold: len(goldTrace.Meta),
		MetaTest: len(testTrace.Meta),
		TolTime:  opts.TolTime,
		TolVal:   opts.TolVal,
	}, nil
}

func recordKind(r uec.Record) string {
	if r.Type == "" {
		return "?"
	}
	return r.Type
}

// numericTS resolves a record's t_s field, accepting either a JSON number or
// a numeric string, matching the tolerance given to numbers serialized as
// strings by upstream producers.
func numericTS(r uec.Record) (float64, bool) {
	s := r.TS.String()
	if s == "" {
		return 0, false
	}
	if f, err := r.TS.Float64(); err == nil {
		return f, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return 0, false
}

// comparePayloads checks only the keys that are numeric on both sides,
// mirroring the gold/test key intersection: keys present on only one side,
// or non-numeric on either, are silently skipped rather than flagged.
func comparePayloads(idx int, kind string, g, t map[string]any, tolVal float64) (string, bool) {
	for k, gv := range g {
		tv, ok := t[k]
		if !ok {
			continue
		}
		ng, gok := asFloat64(gv)
		nt, tok := asFloat64(tv)
		if !gok || !tok {
			continue
		}
		if !isFinite(ng) || !isFinite(nt) {
			continue
		}
		dv := absF64(ng - nt)
		if dv > tolVal {
			return fmt.Sprintf(
				"payload numeric mismatch at idx=%d: kind=%s key=%q gold=%v test=%v Δ=%v > tol_val=%v",
				idx, kind, k, ng, nt, dv, tolVal), true
		}
	}
	return "", false
}

func asFloat64(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func absF64(f float64) float64 {
	return math.Abs(f)
}
