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
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/float16"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/asmirnov82/compute-functions/compute/internal/exec"
	"github.com/asmirnov82/compute-functions/internal/debug"
	"github.com/asmirnov82/compute-functions/internal/lanes"
)

// operand is one argument of a binary kernel: an array or a scalar.
type operand struct {
	arr arrow.ArrayData
	sc  scalar.Scalar
}

func (o operand) kind() arrow.Type {
	if o.arr != nil {
		return o.arr.DataType().ID()
	}
	return o.sc.DataType().ID()
}

func (o operand) valid() bool { return o.arr != nil || o.sc.IsValid() }

func operandSource[T numeric](o operand, step Step, res arrow.Type) laneSource[T] {
	if o.arr != nil {
		return arraySource[T](o.arr, step, res)
	}
	return scalarSource[T](o.sc, step, res)
}

func checkScalar(s scalar.Scalar) error {
	if id := s.DataType().ID(); id != arrow.NULL && !exec.IsNumeric(id) {
		return fmt.Errorf("%w: arithmetic on non-numeric scalar of type %s", arrow.ErrType, s.DataType())
	}
	return nil
}

// ArithmeticArrayArray applies op to two arrays of the same length.
func ArithmeticArrayArray(opts ExecOptions, op ArithmeticOp, x, y arrow.ArrayData) (arrow.ArrayData, error) {
	if x.Len() != y.Len() {
		return nil, fmt.Errorf("%w: arrays must have the same length, got %d and %d",
			arrow.ErrInvalid, x.Len(), y.Len())
	}
	p, err := Promote(x.DataType().ID(), y.DataType().ID())
	if err != nil {
		return nil, err
	}
	if p.Result == arrow.NULL {
		return makeNullArray(x.Len()), nil
	}

	validity, nulls := computeValidityAA(opts.mem(), x, y)
	return executeArray(opts, op, p, operand{arr: x}, operand{arr: y}, x.Len(), validity, nulls)
}

// ArithmeticArrayScalar applies op to an array and a scalar right operand.
func ArithmeticArrayScalar(opts ExecOptions, op ArithmeticOp, x arrow.ArrayData, y scalar.Scalar) (arrow.ArrayData, error) {
	if err := checkScalar(y); err != nil {
		return nil, err
	}
	p, err := Promote(x.DataType().ID(), y.DataType().ID())
	if err != nil {
		return nil, err
	}
	if p.Result == arrow.NULL {
		return makeNullArray(x.Len()), nil
	}

	validity, nulls := computeValidityAS(opts.mem(), x, y.IsValid())
	return executeArray(opts, op, p, operand{arr: x}, operand{sc: y}, x.Len(), validity, nulls)
}

// ArithmeticScalarArray applies op to a scalar left operand and an array.
func ArithmeticScalarArray(opts ExecOptions, op ArithmeticOp, x scalar.Scalar, y arrow.ArrayData) (arrow.ArrayData, error) {
	if err := checkScalar(x); err != nil {
		return nil, err
	}
	p, err := Promote(x.DataType().ID(), y.DataType().ID())
	if err != nil {
		return nil, err
	}
	if p.Result == arrow.NULL {
		return makeNullArray(y.Len()), nil
	}

	validity, nulls := computeValidityAS(opts.mem(), y, x.IsValid())
	return executeArray(opts, op, p, operand{sc: x}, operand{arr: y}, y.Len(), validity, nulls)
}

// ArithmeticScalarScalar applies op to two scalars. The result is null if
// either operand is.
func ArithmeticScalarScalar(opts ExecOptions, op ArithmeticOp, x, y scalar.Scalar) (scalar.Scalar, error) {
	if err := checkScalar(x); err != nil {
		return nil, err
	}
	if err := checkScalar(y); err != nil {
		return nil, err
	}
	p, err := Promote(x.DataType().ID(), y.DataType().ID())
	if err != nil {
		return nil, err
	}
	if p.Result == arrow.NULL || !x.IsValid() || !y.IsValid() {
		return makeNullScalar(p.Result), nil
	}

	out, err := executeArray(ExecOptions{Mem: opts.mem()}, op, p, operand{sc: x}, operand{sc: y}, 1, nil, 0)
	if err != nil {
		return nil, err
	}
	defer out.Release()

	switch p.Result {
	case arrow.INT8:
		return makeScalar(exec.GetValues[int8](out, 1)[0]), nil
	case arrow.INT16:
		return makeScalar(exec.GetValues[int16](out, 1)[0]), nil
	case arrow.INT32:
		return makeScalar(exec.GetValues[int32](out, 1)[0]), nil
	case arrow.INT64:
		return makeScalar(exec.GetValues[int64](out, 1)[0]), nil
	case arrow.UINT8:
		return makeScalar(exec.GetValues[uint8](out, 1)[0]), nil
	case arrow.UINT16:
		return makeScalar(exec.GetValues[uint16](out, 1)[0]), nil
	case arrow.UINT32:
		return makeScalar(exec.GetValues[uint32](out, 1)[0]), nil
	case arrow.UINT64:
		return makeScalar(exec.GetValues[uint64](out, 1)[0]), nil
	case arrow.FLOAT16:
		return makeScalar(exec.GetValues[float16.Num](out, 1)[0]), nil
	case arrow.FLOAT32:
		return makeScalar(exec.GetValues[float32](out, 1)[0]), nil
	case arrow.FLOAT64:
		return makeScalar(exec.GetValues[float64](out, 1)[0]), nil
	}
	debug.Assert(false, "invalid arithmetic type")
	return nil, fmt.Errorf("%w: unsupported result type %s", arrow.ErrNotImplemented, p.Result)
}

// executeArray runs the kernel for the promoted kind and assembles the
// output. It takes ownership of validity.
func executeArray(opts ExecOptions, op ArithmeticOp, p Promotion, x, y operand, length int, validity *memory.Buffer, nulls int) (arrow.ArrayData, error) {
	debug.Log("msg", "binary kernel", "op", op, "x", x.kind(), "y", y.kind(),
		"result", p.Result, "x_step", p.X, "y_step", p.Y, "len", length, "nulls", nulls)

	values := allocValues(opts.mem(), p.Result, length)
	var bits []byte
	if validity != nil {
		bits = validity.Bytes()
	}

	var err error
	if x.valid() && y.valid() {
		err = executeKind(op, p, x, y, values.Bytes(), length, bits, nulls, opts.tiers())
	}
	if err != nil {
		releaseBuffers(validity, values)
		return nil, err
	}
	return makeArrayData(p.Result, length, validity, values, nulls), nil
}

func executeKind(op ArithmeticOp, p Promotion, x, y operand, out []byte, n int, validity []byte, nulls int, tiers []lanes.Width) error {
	switch p.Result {
	case arrow.INT8:
		return executeTyped[int8](op, p, x, y, exec.GetData[int8](out)[:n], validity, nulls, tiers)
	case arrow.INT16:
		return executeTyped[int16](op, p, x, y, exec.GetData[int16](out)[:n], validity, nulls, tiers)
	case arrow.INT32:
		return executeTyped[int32](op, p, x, y, exec.GetData[int32](out)[:n], validity, nulls, tiers)
	case arrow.INT64:
		return executeTyped[int64](op, p, x, y, exec.GetData[int64](out)[:n], validity, nulls, tiers)
	case arrow.UINT8:
		return executeTyped[uint8](op, p, x, y, exec.GetData[uint8](out)[:n], validity, nulls, tiers)
	case arrow.UINT16:
		return executeTyped[uint16](op, p, x, y, exec.GetData[uint16](out)[:n], validity, nulls, tiers)
	case arrow.UINT32:
		return executeTyped[uint32](op, p, x, y, exec.GetData[uint32](out)[:n], validity, nulls, tiers)
	case arrow.UINT64:
		return executeTyped[uint64](op, p, x, y, exec.GetData[uint64](out)[:n], validity, nulls, tiers)
	case arrow.FLOAT16:
		// computed in float32 on half-rounded operands, never vectorized
		tmp := make([]float32, n)
		if err := executeTyped[float32](op, p, x, y, tmp, validity, nulls, nil); err != nil {
			return err
		}
		storeHalf(exec.GetData[float16.Num](out)[:n], tmp)
		return nil
	case arrow.FLOAT32:
		return executeTyped[float32](op, p, x, y, exec.GetData[float32](out)[:n], validity, nulls, tiers)
	case arrow.FLOAT64:
		return executeTyped[float64](op, p, x, y, exec.GetData[float64](out)[:n], validity, nulls, tiers)
	}
	debug.Assert(false, "invalid arithmetic type")
	return fmt.Errorf("%w: unsupported result type %s", arrow.ErrNotImplemented, p.Result)
}

func executeTyped[T numeric](op ArithmeticOp, p Promotion, x, y operand, out []T, validity []byte, nulls int, tiers []lanes.Width) error {
	xs := operandSource[T](x, p.X, p.Result)
	ys := operandSource[T](y, p.Y, p.Result)
	if op.divides() {
		if err := checkDivisors(ys, len(out), validity, nulls); err != nil {
			return err
		}
	}

	switch op {
	case OpAdd:
		executeBinary[T, addOp[T]](xs, ys, out, validity, nulls, tiers)
	case OpSub:
		executeBinary[T, subOp[T]](xs, ys, out, validity, nulls, tiers)
	case OpMul:
		executeBinary[T, mulOp[T]](xs, ys, out, validity, nulls, tiers)
	case OpDiv:
		executeBinary[T, divOp[T]](xs, ys, out, validity, nulls, tiers)
	case OpMod:
		executeBinary[T, modOp[T]](xs, ys, out, validity, nulls, tiers)
	case OpAddChecked:
		return executeChecked[T, addOp[T]](xs, ys, out, validity, nulls)
	case OpSubChecked:
		return executeChecked[T, subOp[T]](xs, ys, out, validity, nulls)
	case OpMulChecked:
		return executeChecked[T, mulOp[T]](xs, ys, out, validity, nulls)
	case OpDivChecked:
		return executeChecked[T, divOp[T]](xs, ys, out, validity, nulls)
	default:
		return fmt.Errorf("%w: unknown arithmetic op %d", arrow.ErrNotImplemented, op)
	}
	return nil
}
