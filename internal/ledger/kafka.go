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
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// KafkaProducer is a minimal abstraction over a Kafka client. We intentionally
// avoid importing a specific Kafka library: callers supply one that enables
// an idempotent producer (enable.idempotence=true) and uses RunID as the
// message key so broker-side dedup and per-run ordering hold.
type KafkaProducer interface {
	Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error
}

// LoggingKafkaProducer logs the produced message instead of reaching a
// broker, so the "kafka" adapter can be exercised without infrastructure.
type LoggingKafkaProducer struct{}

func (LoggingKafkaProducer) Produce(ctx context.Context, topic string, key []byte, value []byte, headers map[string]string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	fmt.Printf("[ledger-kafka-demo] TOPIC=%s KEY=%s VALUE=%s HEADERS=%v\n", topic, string(key), string(value), headers)
	return nil
}

// KafkaLedger publishes run records as messages on topic; it does not apply
// state locally, it delegates materialization to downstream consumers, who
// must dedup by RunID (the message key).
type KafkaLedger struct {
	producer       KafkaProducer
	topic          string
	defaultTimeout time.Duration
}

func NewKafkaLedger(p KafkaProducer, topic string) *KafkaLedger {
	return &KafkaLedger{producer: p, topic: topic, defaultTimeout: 10 * time.Second}
}

type kafkaRunMessage struct {
	RunID      string `json:"run_id"`
	Kind       string `json:"kind"`
	EventCount int    `json:"event_count"`
	Ok         bool   `json:"ok"`
	Detail     string `json:"detail"`
	TsUnixMs   int64  `json:"ts_unix_ms"`
}

func (k *KafkaLedger) CommitRuns(ctx context.Context, records []RunRecord) error {
	if len(records) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok && k.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.defaultTimeout)
		defer cancel()
	}
	nowMs := time.Now().UnixMilli()
	for _, rec := range records {
		if rec.RunID == "" {
			return errors.New("RunRecord.RunID must be set")
		}
		msg := kafkaRunMessage{
			RunID:      rec.RunID,
			Kind:       rec.Kind,
			EventCount: rec.EventCount,
			Ok:         rec.Ok,
			Detail:     rec.DetailJSON,
			TsUnixMs:   nowMs,
		}
		b, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal run message: %w", err)
		}
		headers := map[string]string{"content-type": "application/json"}
		if err := k.producer.Produce(ctx, k.topic, []byte(rec.RunID), b, headers); err != nil {
			return fmt.Errorf("kafka produce run=%s: %w", rec.RunID, err)
		}
	}
	return nil
}
