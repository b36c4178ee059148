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

package uec

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// envelope is the minimal shape needed to dispatch a line by its "type"
// field before decoding into the richer Record/Header structs.
type envelope struct {
	Type   string          `json:"type"`
	Header json.RawMessage `json:"header"`
}

// ReadFile parses path as a UEC JSONL trace. Lines are trimmed of ASCII
// whitespace; empty lines are skipped; lines that fail to parse as JSON are
// skipped (never fatal). At most one header is retained (the first seen).
// Records are returned in file order; the reader never sorts or validates
// timestamp monotonicity.
//
// The only failure mode is an IoError from opening or reading the file.
func ReadFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IoError{Path: path, Err: err}
	}
	defer f.Close()

	tr := &Trace{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimFunc(scanner.Text(), isASCIISpace)
		if line == "" {
			continue
		}
		var env envelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			continue
		}
		switch env.Type {
		case typeHeader:
			if tr.Header == nil && len(env.Header) > 0 {
				var h Header
				if err := json.Unmarshal(env.Header, &h); err == nil {
					h.Raw = append(json.RawMessage(nil), env.Header...)
					tr.Header = &h
				}
			}
		case typeMeta:
			var rec Record
			if err := json.Unmarshal([]byte(line), &rec); err == nil {
				rec.Raw = append(json.RawMessage(nil), line...)
				tr.Meta = append(tr.Meta, rec)
			}
		case typeEvent, typeDeliver:
			var rec Record
			if err := json.Unmarshal([]byte(line), &rec); err == nil {
				rec.Raw = append(json.RawMessage(nil), line...)
				tr.Events = append(tr.Events, rec)
			}
		default:
			// unknown type: ignored silently
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &IoError{Path: path, Err: err}
	}
	return tr, nil
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}
