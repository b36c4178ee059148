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

// Package uecio writes UEC JSONL traces: a buffered, append-friendly sink
// the CLI kernels use to emit their output headers and event lines.
package uecio

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
	"time"

	"eventflow/pkg/uec"
)

// Writer is a buffered JSONL trace writer. It is safe for concurrent use and
// flushes periodically so a crash loses at most a bounded tail.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	path string

	lastFlush time.Time
}

// Create opens (or truncates) path for writing a fresh trace.
func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{f: f, w: bufio.NewWriterSize(f, 1<<20), path: path, lastFlush: time.Now()}, nil
}

type headerLine struct {
	Type   string      `json:"type"`
	Header *uec.Header `json:"header"`
}

// WriteHeader writes a single header line. Callers write it before any
// event lines, matching the first-header-wins convention the reader expects.
func (w *Writer) WriteHeader(h *uec.Header) error {
	return w.writeLine(headerLine{Type: "header", Header: h})
}

// eventLine is the on-wire shape of one (t,x,y,pol) event or bucket-sum
// sample: idx carries the pixel coordinate for flow output, or is omitted
// for 1-D bucket-sum output where only ts/val are meaningful.
type eventLine struct {
	Type string  `json:"type"`
	Ts   int64   `json:"ts"`
	Idx  []int64 `json:"idx,omitempty"`
	Val  float64 `json:"val"`
}

// WriteEvent writes a single "event" line with the given timestamp,
// (x,y,pol) index, and value.
func (w *Writer) WriteEvent(ts int64, idx []int64, val float64) error {
	return w.writeLine(eventLine{Type: "event", Ts: ts, Idx: idx, Val: val})
}

func (w *Writer) writeLine(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	enc := json.NewEncoder(w.w)
	if err := enc.Encode(v); err != nil {
		_ = w.w.Flush()
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	if time.Since(w.lastFlush) > 100*time.Millisecond {
		_ = w.w.Flush()
		w.lastFlush = time.Now()
	}
	return nil
}

// Flush forces buffered data to disk.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastFlush = time.Now()
	return w.w.Flush()
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.w.Flush()
	return w.f.Close()
}
