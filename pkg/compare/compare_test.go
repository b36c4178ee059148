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

package compare

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestRun_IdenticalTracesMatch(t *testing.T) {
	gold := writeTemp(t, "gold.jsonl",
		`{"type":"header","header":{"schema_version":"0.1.0"}}`,
		`{"type":"meta","note":"start"}`,
		`{"type":"event","t_s":0.100,"idx":[0,0,0],"payload":{"v":1.0}}`,
		`{"type":"event","t_s":0.200,"idx":[1,0,0],"payload":{"v":2.0}}`,
	)
	test := writeTemp(t, "test.jsonl",
		`{"type":"header","header":{"schema_version":"0.1.0"}}`,
		`{"type":"event","t_s":0.100,"idx":[0,0,0],"payload":{"v":1.0}}`,
		`{"type":"event","t_s":0.200,"idx":[1,0,0],"payload":{"v":2.0}}`,
	)
	summary, err := Run(Options{Gold: gold, Test: test, TolTime: 1e-6, TolVal: 1e-6})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Events != 2 || summary.MetaGold != 1 || summary.MetaTest != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

// TestRun_WithinToleranceBoundary checks the boundary itself: a delta exactly
// at tolerance passes, one epsilon beyond it fails.
func TestRun_WithinToleranceBoundary(t *testing.T) {
	gold := writeTemp(t, "gold.jsonl", `{"type":"event","t_s":1.0,"idx":[0,0,0]}`)

	atBound := writeTemp(t, "at_bound.jsonl", `{"type":"event","t_s":1.05,"idx":[0,0,0]}`)
	if _, err := Run(Options{Gold: gold, Test: atBound, TolTime: 0.05, TolVal: 0}); err != nil {
		t.Fatalf("expected delta exactly at tolerance to pass, got %v", err)
	}

	overBound := writeTemp(t, "over_bound.jsonl", `{"type":"event","t_s":1.0500001,"idx":[0,0,0]}`)
	if _, err := Run(Options{Gold: gold, Test: overBound, TolTime: 0.05, TolVal: 0}); err == nil {
		t.Fatal("expected delta just past tolerance to fail")
	}
}

func TestRun_LengthMismatch(t *testing.T) {
	gold := writeTemp(t, "gold.jsonl",
		`{"type":"event","t_s":0.0,"idx":[0,0,0]}`,
		`{"type":"event","t_s":1.0,"idx":[0,0,0]}`,
	)
	test := writeTemp(t, "test.jsonl", `{"type":"event","t_s":0.0,"idx":[0,0,0]}`)
	_, err := Run(Options{Gold: gold, Test: test, TolTime: 1e-6, TolVal: 1e-6})
	if err == nil {
		t.Fatal("expected length mismatch error")
	}
	var mm *MismatchError
	if !asMismatch(err, &mm) {
		t.Fatalf("expected *MismatchError, got %T: %v", err, err)
	}
}

func TestRun_KindMismatch(t *testing.T) {
	gold := writeTemp(t, "gold.jsonl", `{"type":"event","t_s":0.0,"idx":[0,0,0]}`)
	test := writeTemp(t, "test.jsonl", `{"type":"deliver","t_s":0.0,"idx":[0,0,0]}`)
	_, err := Run(Options{Gold: gold, Test: test, TolTime: 1e-6, TolVal: 1e-6})
	if err == nil {
		t.Fatal("expected kind mismatch error")
	}
}

func TestRun_PayloadNumericMismatch(t *testing.T) {
	gold := writeTemp(t, "gold.jsonl", `{"type":"event","t_s":0.0,"idx":[0,0,0],"payload":{"v":1.0}}`)
	test := writeTemp(t, "test.jsonl", `{"type":"event","t_s":0.0,"idx":[0,0,0],"payload":{"v":5.0}}`)
	_, err := Run(Options{Gold: gold, Test: test, TolTime: 1e-6, TolVal: 0.1})
	if err == nil {
		t.Fatal("expected payload numeric mismatch error")
	}
}

// TestRun_PayloadNonOverlappingKeysIgnored checks that keys present on only
// one side, or non-numeric on either, never fail the comparison.
func TestRun_PayloadNonOverlappingKeysIgnored(t *testing.T) {
	gold := writeTemp(t, "gold.jsonl", `{"type":"event","t_s":0.0,"idx":[0,0,0],"payload":{"v":1.0,"tag":"a","only_gold":9}}`)
	test := writeTemp(t, "test.jsonl", `{"type":"event","t_s":0.0,"idx":[0,0,0],"payload":{"v":1.0,"tag":"b","only_test":9}}`)
	if _, err := Run(Options{Gold: gold, Test: test, TolTime: 1e-6, TolVal: 1e-6}); err != nil {
		t.Fatalf("expected non-overlapping/non-numeric keys to be ignored, got %v", err)
	}
}

func TestRun_StringTimestampAccepted(t *testing.T) {
	gold := writeTemp(t, "gold.jsonl", `{"type":"event","t_s":"1.5","idx":[0,0,0]}`)
	test := writeTemp(t, "test.jsonl", `{"type":"event","t_s":1.5,"idx":[0,0,0]}`)
	if _, err := Run(Options{Gold: gold, Test: test, TolTime: 1e-6, TolVal: 1e-6}); err != nil {
		t.Fatalf("expected numeric-string t_s to be accepted, got %v", err)
	}
}

func TestRun_MissingTimestamp(t *testing.T) {
	gold := writeTemp(t, "gold.jsonl", `{"type":"event","idx":[0,0,0]}`)
	test := writeTemp(t, "test.jsonl", `{"type":"event","t_s":0.0,"idx":[0,0,0]}`)
	_, err := Run(Options{Gold: gold, Test: test, TolTime: 1e-6, TolVal: 1e-6})
	if err == nil {
		t.Fatal("expected missing t_s to be reported")
	}
}

func TestRun_MissingFile(t *testing.T) {
	test := writeTemp(t, "test.jsonl", `{"type":"event","t_s":0.0,"idx":[0,0,0]}`)
	_, err := Run(Options{Gold: filepath.Join(t.TempDir(), "nope.jsonl"), Test: test, TolTime: 1e-6, TolVal: 1e-6})
	if err == nil {
		t.Fatal("expected error for missing gold file")
	}
}

func asMismatch(err error, target **MismatchError) bool {
	e, ok := err.(*MismatchError)
	if !ok {
		return false
	}
	*target = e
	return true
}
