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
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisEvaler abstracts the minimal surface needed from a Redis client: Lua
// script evaluation. Implementations may wrap
// github.com/redis/go-redis/v9's Cmdable.Eval or any equivalent.
type RedisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// GoRedisEvaler wraps a real github.com/redis/go-redis/v9 client.
type GoRedisEvaler struct{ c *redis.Client }

// NewGoRedisEvaler connects to addr (e.g. "127.0.0.1:6379").
func NewGoRedisEvaler(addr string) *GoRedisEvaler {
	return &GoRedisEvaler{c: redis.NewClient(&redis.Options{Addr: addr})}
}

func (g *GoRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	return g.c.Eval(ctx, script, keys, args...).Result()
}

// LoggingRedisEvaler logs the would-be EVAL instead of reaching a server. It
// lets the "redis" adapter be selected without infrastructure on hand.
type LoggingRedisEvaler struct{}

func (LoggingRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	fmt.Printf("[ledger-redis-demo] EVAL script(len=%d) KEYS=%v ARGS=%v\n", len(script), keys, args)
	return int64(1), nil
}

// RedisLedger commits run records idempotently with a SETNX-guarded Lua
// script: the marker key SETNX'd first, and the detail hash only written if
// the marker was newly set.
type RedisLedger struct {
	client    RedisEvaler
	markerTTL time.Duration
}

// NewRedisLedger returns a ledger backed by client, with markers expiring
// after markerTTL (default 24h, guarding against unbounded growth).
func NewRedisLedger(client RedisEvaler, markerTTL time.Duration) *RedisLedger {
	if markerTTL <= 0 {
		markerTTL = 24 * time.Hour
	}
	return &RedisLedger{client: client, markerTTL: markerTTL}
}

const redisRunLuaScript = `
local markerKey = KEYS[1]
local detailKey = KEYS[2]
local kind = ARGV[1]
local events = ARGV[2]
local ok = ARGV[3]
local detail = ARGV[4]
local ttlSeconds = tonumber(ARGV[5])
local set = redis.call('SETNX', markerKey, 1)
if set == 1 then
  redis.call('HSET', detailKey, 'kind', kind, 'events', events, 'ok', ok, 'detail', detail)
  if ttlSeconds and ttlSeconds > 0 then
    redis.call('EXPIRE', markerKey, ttlSeconds)
    redis.call('EXPIRE', detailKey, ttlSeconds)
  end
  return 1
else
  return 0
end
`

func redisRunMarkerKey(runID string) string { return fmt.Sprintf("runmarker:%s", runID) }
func redisRunDetailKey(runID string) string { return fmt.Sprintf("rundetail:%s", runID) }

func (r *RedisLedger) CommitRuns(ctx context.Context, records []RunRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		if rec.RunID == "" {
			return errors.New("RunRecord.RunID must be set")
		}
		keys := []string{redisRunMarkerKey(rec.RunID), redisRunDetailKey(rec.RunID)}
		args := []interface{}{rec.Kind, rec.EventCount, rec.Ok, rec.DetailJSON, int(r.markerTTL.Seconds())}
		if _, err := r.client.Eval(ctx, redisRunLuaScript, keys, args...); err != nil {
			return fmt.Errorf("redis eval run=%s: %w", rec.RunID, err)
		}
	}
	return nil
}
