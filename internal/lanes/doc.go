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

// Package lanes models the vector registers available to the compute kernels.
//
// A Level is the widest register the running CPU supports (none, 128, 256 or
// 512 bits). The kernels never emit assembly; they process data in blocks of
// one register width at a time, with the lane count derived from the element
// size, so the Go compiler can keep the inner loops bounds-check free and the
// block shapes match what a hand-vectorized kernel would do.
//
// The detected level can be capped with the COMPUTE_FUNCTIONS_SIMD environment
// variable ("none", "128", "256" or "512"), and building with the noasm tag
// disables detection altogether.
package lanes
