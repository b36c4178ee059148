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

// Package uec implements the Unified Event Container line-oriented JSONL
// format: a header record plus an ordered sequence of event/meta records.
package uec

import "encoding/json"

// Header is the open-schema sideband carried by a trace. Only a handful of
// fields are meaningful to the kernels in this module; everything else is
// forwarded verbatim.
type Header struct {
	SchemaVersion string          `json:"schema_version,omitempty"`
	Dims          []string        `json:"dims,omitempty"`
	Units         *Units          `json:"units,omitempty"`
	Dtype         string          `json:"dtype,omitempty"`
	Layout        string          `json:"layout,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

// Units describes the time/value units a trace was produced in.
type Units struct {
	Time  string `json:"time,omitempty"`
	Value string `json:"value,omitempty"`
}

// Record is a single decoded line of a UEC trace. Type distinguishes event,
// deliver, and meta records; header lines are split out separately by the
// reader and never appear as a Record.
type Record struct {
	Type    string          `json:"type"`
	Ts      json.Number     `json:"ts,omitempty"`
	TS      json.Number     `json:"t_s,omitempty"`
	Idx     []int64         `json:"idx,omitempty"`
	Val     *float64        `json:"val,omitempty"`
	Payload map[string]any  `json:"payload,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Trace is the in-memory result of parsing a UEC JSONL file: an optional
// header, the ordered event/deliver records, and the ordered meta records.
type Trace struct {
	Header *Header
	Events []Record
	Meta   []Record
}

const (
	typeHeader  = "header"
	typeMeta    = "meta"
	typeEvent   = "event"
	typeDeliver = "deliver"
)
