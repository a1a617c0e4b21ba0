// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lanes

import (
	"github.com/klauspost/cpuid/v2"
)

// CPUInfo describes the processor the kernels run on.
type CPUInfo struct {
	Brand         string   `json:"brand"`
	Vendor        string   `json:"vendor"`
	PhysicalCores int      `json:"physical_cores"`
	LogicalCores  int      `json:"logical_cores"`
	CacheLine     int      `json:"cache_line"`
	L1D           int      `json:"l1d"`
	L2            int      `json:"l2"`
	L3            int      `json:"l3"`
	Features      []string `json:"features"`
	Detected      string   `json:"detected_level"`
	Default       string   `json:"default_level"`
}

// Info reports the CPU identification together with the detected and
// default vector levels. Unknown cache sizes are -1.
func Info() CPUInfo {
	c := cpuid.CPU
	return CPUInfo{
		Brand:         c.BrandName,
		Vendor:        c.VendorString,
		PhysicalCores: c.PhysicalCores,
		LogicalCores:  c.LogicalCores,
		CacheLine:     c.CacheLine,
		L1D:           c.Cache.L1D,
		L2:            c.Cache.L2,
		L3:            c.Cache.L3,
		Features:      c.FeatureSet(),
		Detected:      Detected().String(),
		Default:       Default().String(),
	}
}
