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
	"testing"
)

func TestMockLedger_CommitIsIdempotent(t *testing.T) {
	m := NewMockLedger()
	rec := RunRecord{RunID: "r1", Kind: "compare", EventCount: 10, Ok: true}
	if err := m.CommitRuns(context.Background(), []RunRecord{rec}); err != nil {
		t.Fatalf("CommitRuns: %v", err)
	}
	updated := rec
	updated.EventCount = 999
	if err := m.CommitRuns(context.Background(), []RunRecord{updated}); err != nil {
		t.Fatalf("CommitRuns (retry): %v", err)
	}
	got := m.Records()["r1"]
	if got.EventCount != 10 {
		t.Fatalf("expected the first commit to win for a duplicate RunID, got EventCount=%d", got.EventCount)
	}
}

func TestMockLedger_RejectsEmptyRunID(t *testing.T) {
	m := NewMockLedger()
	if err := m.CommitRuns(context.Background(), []RunRecord{{Kind: "compare"}}); err == nil {
		t.Fatal("expected an error for a RunRecord with no RunID")
	}
}

func TestBuild_DefaultsToMock(t *testing.T) {
	l, err := Build("", Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := l.(*MockLedger); !ok {
		t.Fatalf("expected *MockLedger, got %T", l)
	}
}

func TestBuild_RedisWithoutAddrUsesLoggingEvaler(t *testing.T) {
	l, err := Build("redis", Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rl, ok := l.(*RedisLedger)
	if !ok {
		t.Fatalf("expected *RedisLedger, got %T", l)
	}
	if _, ok := rl.client.(LoggingRedisEvaler); !ok {
		t.Fatalf("expected LoggingRedisEvaler fallback when RedisAddr is empty, got %T", rl.client)
	}
	if err := l.CommitRuns(context.Background(), []RunRecord{{RunID: "r1", Kind: "flow"}}); err != nil {
		t.Fatalf("CommitRuns: %v", err)
	}
}

func TestBuild_Kafka(t *testing.T) {
	l, err := Build("kafka", Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := l.CommitRuns(context.Background(), []RunRecord{{RunID: "r1", Kind: "bucket"}}); err != nil {
		t.Fatalf("CommitRuns: %v", err)
	}
}

func TestBuild_PostgresWithoutDBErrors(t *testing.T) {
	if _, err := Build("postgres", Options{}); err == nil {
		t.Fatal("expected an error building the postgres adapter without a *sql.DB")
	}
}

func TestBuild_UnknownAdapterErrors(t *testing.T) {
	if _, err := Build("carrier-pigeon", Options{}); err == nil {
		t.Fatal("expected an error for an unknown adapter name")
	}
}

func TestKafkaLedger_RejectsEmptyRunID(t *testing.T) {
	k := NewKafkaLedger(LoggingKafkaProducer{}, "test-topic")
	if err := k.CommitRuns(context.Background(), []RunRecord{{Kind: "compare"}}); err == nil {
		t.Fatal("expected an error for a RunRecord with no RunID")
	}
}

func TestRedisLedger_RejectsEmptyRunID(t *testing.T) {
	r := NewRedisLedger(LoggingRedisEvaler{}, 0)
	if err := r.CommitRuns(context.Background(), []RunRecord{{Kind: "compare"}}); err == nil {
		t.Fatal("expected an error for a RunRecord with no RunID")
	}
}

func TestCommitRuns_EmptyIsNoop(t *testing.T) {
	m := NewMockLedger()
	if err := m.CommitRuns(context.Background(), nil); err != nil {
		t.Fatalf("expected empty batch to be a no-op, got %v", err)
	}
}
