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

// Package ledger provides idempotent persistence adapters for CLI run
// summaries: one record per compare/bucket/flow invocation, keyed so that a
// retried or duplicated submission of the same run never double-counts.
package ledger

import "context"

// RunRecord is a single CLI invocation's outcome, ready to persist.
//
//   - RunID is the idempotency key: re-submitting the same RunID is a no-op.
//   - Kind names which subcommand produced the record ("compare", "bucket",
//     "flow").
//   - EventCount is the number of events the run processed.
//   - Ok is false when a compare run found a mismatch or a kernel run
//     errored.
//   - DetailJSON carries the command-specific summary already marshaled to
//     JSON, so adapters never need to know the per-kind payload shape.
type RunRecord struct {
	RunID      string
	Kind       string
	EventCount int
	Ok         bool
	DetailJSON string
}

// RunLedger defines the minimal API every adapter supports: commit a batch
// of run records such that re-committing a RunID already seen is a no-op.
type RunLedger interface {
	CommitRuns(ctx context.Context, records []RunRecord) error
}
