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

package ledger

import (
	"context"
	"fmt"
	"sync"
)

// MockLedger is an in-process ledger: it keeps applied RunIDs in a map and
// prints each newly-applied record. It is the default adapter, used by
// tests and by the CLI when no backend is configured.
type MockLedger struct {
	mu      sync.Mutex
	applied map[string]RunRecord
}

// NewMockLedger returns an empty in-process ledger.
func NewMockLedger() *MockLedger {
	return &MockLedger{applied: make(map[string]RunRecord)}
}

func (m *MockLedger) CommitRuns(_ context.Context, records []RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if r.RunID == "" {
			return fmt.Errorf("RunRecord.RunID must be set")
		}
		if _, ok := m.applied[r.RunID]; ok {
			continue
		}
		m.applied[r.RunID] = r
		fmt.Printf("[ledger-mock] run=%s kind=%s events=%d ok=%v\n", r.RunID, r.Kind, r.EventCount, r.Ok)
	}
	return nil
}

// Records returns the currently applied records, keyed by RunID. It exists
// for tests to assert on what was committed.
func (m *MockLedger) Records() map[string]RunRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]RunRecord, len(m.applied))
	for k, v := range m.applied {
		out[k] = v
	}
	return out
}
