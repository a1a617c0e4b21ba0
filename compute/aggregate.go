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

package compute

import (
	"context"

	"github.com/asmirnov82/compute-functions/compute/internal/kernels"
)

// Sum adds up the valid values of an array. Signed integers sum to int64,
// unsigned integers to uint64 and floats to float64, wrapping on integer
// overflow. An empty or all-null array sums to zero.
func Sum(ctx context.Context, arg Datum) (Datum, error) {
	return execAggregate(ctx, kernels.AggSum, arg)
}

// Min returns the smallest valid value of an array, as a scalar of the
// array's type. An empty or all-null array returns the largest value of
// the type.
func Min(ctx context.Context, arg Datum) (Datum, error) {
	return execAggregate(ctx, kernels.AggMin, arg)
}

// Max returns the largest valid value of an array. An empty or all-null
// array returns the smallest value of the type.
func Max(ctx context.Context, arg Datum) (Datum, error) {
	return execAggregate(ctx, kernels.AggMax, arg)
}
