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

// Package logsink holds a single process-wide logging callback that the ef
// CLI emits its diagnostics through instead of depending on any particular
// logger; the kernel packages themselves do not call it. Hosts that want
// these diagnostics install a sink; hosts that don't, pay nothing (Emit is a
// silent no-op until Set is called).
package logsink

import "sync"

// Func is the shape a sink must satisfy: a level name and a message.
type Func func(level, message string)

var (
	mu   sync.RWMutex
	sink Func
)

// Set installs sink as the process-wide log destination, replacing any
// previous one. Passing nil clears it, reverting Emit to a no-op.
func Set(fn Func) {
	mu.Lock()
	defer mu.Unlock()
	sink = fn
}

// Emit calls the installed sink with level and message. If no sink is
// installed, or the sink panics, Emit does nothing: a misbehaving or absent
// logger must never interrupt kernel work.
func Emit(level, message string) {
	mu.RLock()
	fn := sink
	mu.RUnlock()
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn(level, message)
}
