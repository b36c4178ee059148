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
	"os"
	"path/filepath"
	"testing"
)

func writeTrace(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.jsonl")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp trace: %v", err)
	}
	return path
}

func TestRunFile_BatchAndStreamingAgree(t *testing.T) {
	path := writeTrace(t,
		`{"type":"header","header":{"schema_version":"0.1.0"}}`,
		`{"type":"event","ts":0,"idx":[0,0,0]}`,
		`{"type":"event","ts":7,"idx":[1,0,0]}`,
	)
	p := baseParams()

	batchRes, err := RunFile(path, p, ModeBatch)
	if err != nil {
		t.Fatalf("RunFile batch: %v", err)
	}
	streamRes, err := RunFile(path, p, ModeStreaming)
	if err != nil {
		t.Fatalf("RunFile streaming: %v", err)
	}
	assertEventsEqual(t, batchRes.Events, streamRes.Events, "RunFile batch vs streaming")

	if batchRes.Header == nil || batchRes.Header.Metadata["kernel"] != kernelOpticalFlowSDF {
		t.Fatalf("expected synthesized header naming the SDF kernel, got %+v", batchRes.Header)
	}
}

func TestRunFile_DropsMalformedEvents(t *testing.T) {
	path := writeTrace(t,
		`{"type":"event","ts":1,"idx":[0,0]}`,
		`{"type":"event","idx":[0,0,0]}`,
		`{"type":"event","ts":2,"idx":[0,0,0]}`,
	)
	res, err := RunFile(path, Params{Width: 1, Height: 1, WindowUs: 10, MinCount: 1}, ModeBatch)
	if err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	_ = res
}

func TestRunFile_MissingFile(t *testing.T) {
	_, err := RunFile(filepath.Join(t.TempDir(), "nope.jsonl"), baseParams(), ModeBatch)
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
