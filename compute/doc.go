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

// Package compute evaluates element-wise arithmetic and scalar
// aggregations over numeric Arrow columns.
//
// Binary functions (add, subtract, multiply, divide, modulo and their
// overflow-checked variants) accept any mix of arrays and scalars of the
// eleven numeric kinds plus the null type. The two operand kinds are
// promoted to a common result kind before the kernel runs: floats win over
// integers, wider kinds win over narrower ones, and a signed/unsigned mix
// produces a signed kind wide enough to hold both ranges. Aggregations
// (sum, min, max) reduce one array to a scalar, skipping nulls.
//
// Hot loops run over fixed-width lane vectors when the CPU supports it.
// The widest tier used is taken from the ExecCtx found in the context
// passed to every call, defaulting to the tier detected at start-up. Set
// COMPUTE_FUNCTIONS_SIMD=none|128|256|512 to cap it for the whole process.
//
// Every function is registered under its name in a FunctionRegistry and
// can be invoked by name with CallFunction.
package compute
