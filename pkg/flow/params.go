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

// Params configures one invocation of the SDF optical-flow kernel.
type Params struct {
	Width, Height int
	WindowUs      int64
	DelayUs       int64
	EdgeDelayUs   int64
	MinCount      int
}

func (p Params) effDelay() int64 { return saturatingAdd(p.DelayUs, p.EdgeDelayUs) }

func (p Params) validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return &Error{Msg: "width and height must be > 0"}
	}
	if p.WindowUs <= 0 {
		return &Error{Msg: "window_us must be > 0"}
	}
	if p.DelayUs < 0 || p.EdgeDelayUs < 0 {
		return &Error{Msg: "delay_us and edge_delay_us must be >= 0"}
	}
	if p.MinCount < 1 {
		return &Error{Msg: "min_count must be >= 1"}
	}
	return nil
}

// coord is the per-pixel compound key (x, y, polarity).
type coord struct {
	x, y, pol int64
}

// Event is one emitted flow event: a coincidence observed at (x,y,pol) at
// reference time T.
type Event struct {
	T   int64
	X   int64
	Y   int64
	Pol int64
}
