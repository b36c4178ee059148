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
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Postgres schema (reference):
//
// CREATE TABLE IF NOT EXISTS runs (
//   run_id TEXT PRIMARY KEY,
//   kind TEXT NOT NULL,
//   event_count BIGINT NOT NULL,
//   ok BOOLEAN NOT NULL,
//   detail JSONB,
//   ts TIMESTAMPTZ NOT NULL DEFAULT now()
// );

// PostgresLedger applies commits idempotently via INSERT ... ON CONFLICT DO
// NOTHING keyed by run_id. No driver is imported here; the caller opens db
// with whichever database/sql driver it prefers.
type PostgresLedger struct {
	db             *sql.DB
	defaultTimeout time.Duration
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db, defaultTimeout: 10 * time.Second}
}

func (p *PostgresLedger) CommitRuns(ctx context.Context, records []RunRecord) error {
	if len(records) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && p.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.defaultTimeout)
		defer cancel()
	}

	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range records {
		if rec.RunID == "" {
			return errors.New("RunRecord.RunID must be set")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs(run_id, kind, event_count, ok, detail) VALUES ($1,$2,$3,$4,$5) ON CONFLICT DO NOTHING`,
			rec.RunID, rec.Kind, rec.EventCount, rec.Ok, rec.DetailJSON); err != nil {
			return fmt.Errorf("insert runs(%s): %w", rec.RunID, err)
		}
	}

	return tx.Commit()
}
