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

import "eventflow/pkg/uec"

const (
	kernelOpticalFlowSDF = "optical_flow_shift_delay_fuse"
	kernelPassthrough    = "passthrough_events"
)

// SynthesizeHeader builds the output UEC header the kernel is required to
// carry: schema_version 0.1.0, dims [x,y,polarity], units {time:us,
// value:dimensionless}, dtype f32, layout coo, and metadata.kernel naming
// which kernel produced the trace. If inHeader supplied a dims field, that
// field is forwarded verbatim instead of the default.
func SynthesizeHeader(inHeader *uec.Header, kernel string) *uec.Header {
	h := &uec.Header{
		SchemaVersion: "0.1.0",
		Dims:          []string{"x", "y", "polarity"},
		Units:         &uec.Units{Time: "us", Value: "dimensionless"},
		Dtype:         "f32",
		Layout:        "coo",
		Metadata:      map[string]any{"kernel": kernel},
	}
	if inHeader != nil && len(inHeader.Dims) > 0 {
		h.Dims = inHeader.Dims
	}
	return h
}
