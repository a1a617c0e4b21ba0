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

// ArithmeticOptions selects between the wrapping and the overflow-checked
// variant of a function. Checking is slower and only applies to integer
// results; float arithmetic never reports overflow.
type ArithmeticOptions struct {
	CheckOverflow bool `compute:"check_overflow"`
}

func (ArithmeticOptions) TypeName() string { return "ArithmeticOptions" }

func arithmeticOp(opts ArithmeticOptions, plain, checked kernels.ArithmeticOp) kernels.ArithmeticOp {
	if opts.CheckOverflow {
		return checked
	}
	return plain
}

// Add adds left and right element-wise. When one argument is a scalar it
// is added to every element of the other. The result type is the common
// numeric type of the two arguments; a null on either side gives a null.
func Add(ctx context.Context, opts ArithmeticOptions, left, right Datum) (Datum, error) {
	return execArithmetic(ctx, arithmeticOp(opts, kernels.OpAdd, kernels.OpAddChecked), left, right)
}

// Subtract subtracts right from left element-wise, broadcasting a scalar
// argument like Add does.
func Subtract(ctx context.Context, opts ArithmeticOptions, left, right Datum) (Datum, error) {
	return execArithmetic(ctx, arithmeticOp(opts, kernels.OpSub, kernels.OpSubChecked), left, right)
}

// Multiply multiplies left and right element-wise.
func Multiply(ctx context.Context, opts ArithmeticOptions, left, right Datum) (Datum, error) {
	return execArithmetic(ctx, arithmeticOp(opts, kernels.OpMul, kernels.OpMulChecked), left, right)
}

// Divide divides left by right element-wise. Integer results are
// truncated towards zero and a zero divisor at a valid position is an
// arrow.ErrInvalid error; float division by zero follows IEEE 754.
func Divide(ctx context.Context, opts ArithmeticOptions, left, right Datum) (Datum, error) {
	return execArithmetic(ctx, arithmeticOp(opts, kernels.OpDiv, kernels.OpDivChecked), left, right)
}

// Modulo computes the remainder of left divided by right, with the sign
// of left. There is no checked variant, opts.CheckOverflow is ignored.
func Modulo(ctx context.Context, _ ArithmeticOptions, left, right Datum) (Datum, error) {
	return execArithmetic(ctx, kernels.OpMod, left, right)
}
