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

package kernels

import (
	"math"

	"github.com/asmirnov82/compute-functions/internal/lanes"
)

type ArithmeticOp int8

const (
	OpAdd ArithmeticOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAddChecked
	OpSubChecked
	OpMulChecked
	OpDivChecked
)

func (op ArithmeticOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "subtract"
	case OpMul:
		return "multiply"
	case OpDiv:
		return "divide"
	case OpMod:
		return "modulo"
	case OpAddChecked:
		return "add_checked"
	case OpSubChecked:
		return "subtract_checked"
	case OpMulChecked:
		return "multiply_checked"
	case OpDivChecked:
		return "divide_checked"
	}
	return "unknown"
}

// IsChecked reports whether op fails on integer overflow.
func (op ArithmeticOp) IsChecked() bool { return op >= OpAddChecked }

func (op ArithmeticOp) divides() bool {
	return op == OpDiv || op == OpMod || op == OpDivChecked
}

// binaryOperator is implemented by zero-size operator types. CallVec
// processes len(out) lanes, one register width at a time.
type binaryOperator[T numeric] interface {
	CanVectorize() bool
	CanRightArgumentBeZero() bool
	Call(x, y T) T
	CallVec(out, x, y []T)
}

// checkedOperator reports integer overflow instead of wrapping.
type checkedOperator[T numeric] interface {
	binaryOperator[T]
	CallChecked(x, y T) (T, bool)
}

// aggregationOperator folds a column into one value starting from
// Identity, collapsing vector accumulators with Reduce.
type aggregationOperator[T numeric] interface {
	binaryOperator[T]
	Identity() T
	Reduce(v []T) T
}

type addOp[T numeric] struct{}

func (addOp[T]) CanVectorize() bool           { return true }
func (addOp[T]) CanRightArgumentBeZero() bool { return true }
func (addOp[T]) Call(x, y T) T                { return x + y }
func (addOp[T]) CallVec(out, x, y []T)        { lanes.Add(out, x, y) }
func (addOp[T]) CallChecked(x, y T) (T, bool) { return addChecked(x, y) }
func (addOp[T]) Identity() T                  { return 0 }
func (addOp[T]) Reduce(v []T) T               { return lanes.ReduceSum(v) }

type subOp[T numeric] struct{}

func (subOp[T]) CanVectorize() bool           { return true }
func (subOp[T]) CanRightArgumentBeZero() bool { return true }
func (subOp[T]) Call(x, y T) T                { return x - y }
func (subOp[T]) CallVec(out, x, y []T)        { lanes.Sub(out, x, y) }
func (subOp[T]) CallChecked(x, y T) (T, bool) { return subChecked(x, y) }

type mulOp[T numeric] struct{}

func (mulOp[T]) CanVectorize() bool           { return true }
func (mulOp[T]) CanRightArgumentBeZero() bool { return true }
func (mulOp[T]) Call(x, y T) T                { return x * y }
func (mulOp[T]) CallVec(out, x, y []T)        { lanes.Mul(out, x, y) }
func (mulOp[T]) CallChecked(x, y T) (T, bool) { return mulChecked(x, y) }

type divOp[T numeric] struct{}

func (divOp[T]) CanVectorize() bool           { return true }
func (divOp[T]) CanRightArgumentBeZero() bool { return false }
func (divOp[T]) Call(x, y T) T                { return x / y }
func (divOp[T]) CallVec(out, x, y []T)        { lanes.Div(out, x, y) }
func (divOp[T]) CallChecked(x, y T) (T, bool) { return divChecked(x, y) }

// modOp truncates toward zero for integers (the result takes the sign of
// the dividend) and follows math.Mod for floats.
type modOp[T numeric] struct{}

func (modOp[T]) CanVectorize() bool           { return true }
func (modOp[T]) CanRightArgumentBeZero() bool { return false }
func (modOp[T]) Call(x, y T) T                { return mod(x, y) }

func (modOp[T]) CallVec(out, x, y []T) {
	x, y = x[:len(out)], y[:len(out)]
	for i := range out {
		out[i] = mod(x[i], y[i])
	}
}

func mod[T numeric](x, y T) T {
	switch a := any(x).(type) {
	case float32:
		return T(math.Mod(float64(a), float64(any(y).(float32))))
	case float64:
		return T(math.Mod(a, any(y).(float64)))
	}
	if isSigned[T]() {
		return T(int64(x) % int64(y))
	}
	return T(uint64(x) % uint64(y))
}

type minOp[T numeric] struct{}

func (minOp[T]) CanVectorize() bool           { return false }
func (minOp[T]) CanRightArgumentBeZero() bool { return true }
func (minOp[T]) CallVec(out, x, y []T)        { lanes.Min(out, x, y) }
func (minOp[T]) Identity() T                  { return maxValue[T]() }
func (minOp[T]) Reduce(v []T) T               { return lanes.ReduceMin(v) }

func (minOp[T]) Call(x, y T) T {
	if y < x {
		return y
	}
	return x
}

type maxOp[T numeric] struct{}

func (maxOp[T]) CanVectorize() bool           { return false }
func (maxOp[T]) CanRightArgumentBeZero() bool { return true }
func (maxOp[T]) CallVec(out, x, y []T)        { lanes.Max(out, x, y) }
func (maxOp[T]) Identity() T                  { return minValue[T]() }
func (maxOp[T]) Reduce(v []T) T               { return lanes.ReduceMax(v) }

func (maxOp[T]) Call(x, y T) T {
	if y > x {
		return y
	}
	return x
}

func isSigned[T numeric]() bool {
	var z T
	return z-1 < z
}

func isInteger[T numeric]() bool {
	switch any(T(0)).(type) {
	case float32, float64:
		return false
	}
	return true
}

func maxValue[T numeric]() T {
	var v any
	switch any(T(0)).(type) {
	case int8:
		v = int8(math.MaxInt8)
	case int16:
		v = int16(math.MaxInt16)
	case int32:
		v = int32(math.MaxInt32)
	case int64:
		v = int64(math.MaxInt64)
	case uint8:
		v = uint8(math.MaxUint8)
	case uint16:
		v = uint16(math.MaxUint16)
	case uint32:
		v = uint32(math.MaxUint32)
	case uint64:
		v = uint64(math.MaxUint64)
	case float32:
		v = float32(math.MaxFloat32)
	case float64:
		v = float64(math.MaxFloat64)
	}
	return v.(T)
}

func minValue[T numeric]() T {
	var v any
	switch any(T(0)).(type) {
	case int8:
		v = int8(math.MinInt8)
	case int16:
		v = int16(math.MinInt16)
	case int32:
		v = int32(math.MinInt32)
	case int64:
		v = int64(math.MinInt64)
	case uint8, uint16, uint32, uint64:
		return 0
	case float32:
		v = float32(-math.MaxFloat32)
	case float64:
		v = float64(-math.MaxFloat64)
	}
	return v.(T)
}
