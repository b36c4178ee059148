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
	"errors"
	"fmt"
	"time"
)

// Options holds the knobs for building a ledger adapter by name.
type Options struct {
	RedisAddr      string
	RedisMarkerTTL time.Duration
	KafkaTopic     string
}

// Build constructs a RunLedger by string selector:
//   - "", "mock": in-process logger (default)
//   - "redis": idempotent Redis adapter; uses a real go-redis client if
//     RedisAddr is set, otherwise a logging stand-in
//   - "kafka": idempotent Kafka adapter using a logging producer (no broker
//     client is imported by this module)
//   - "postgres": not wired without a *sql.DB; returns an error rather than
//     silently dropping run records
func Build(adapter string, opts Options) (RunLedger, error) {
	switch adapter {
	case "", "mock":
		return NewMockLedger(), nil
	case "redis":
		ttl := opts.RedisMarkerTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		var evaler RedisEvaler
		if opts.RedisAddr != "" {
			evaler = NewGoRedisEvaler(opts.RedisAddr)
		} else {
			evaler = LoggingRedisEvaler{}
		}
		return NewRedisLedger(evaler, ttl), nil
	case "kafka":
		topic := opts.KafkaTopic
		if topic == "" {
			topic = "eventflow-runs"
		}
		return NewKafkaLedger(LoggingKafkaProducer{}, topic), nil
	case "postgres":
		return nil, errors.New("postgres adapter requires a *sql.DB; construct NewPostgresLedger directly")
	default:
		return nil, fmt.Errorf("unknown ledger adapter: %s", adapter)
	}
}
