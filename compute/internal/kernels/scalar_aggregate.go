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
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/asmirnov82/compute-functions/compute/internal/exec"
	"github.com/asmirnov82/compute-functions/internal/debug"
)

type AggregateOp int8

const (
	AggSum AggregateOp = iota
	AggMin
	AggMax
)

func (op AggregateOp) String() string {
	switch op {
	case AggSum:
		return "sum"
	case AggMin:
		return "min"
	case AggMax:
		return "max"
	}
	return "unknown"
}

func newAggregateInput(opts ExecOptions, data arrow.ArrayData) aggregateInput {
	return aggregateInput{
		validity: validityBits(data),
		offset:   data.Offset(),
		nulls:    exec.NullCount(data),
		tiers:    opts.tiers(),
	}
}

func unsupportedAggregate(op AggregateOp, dt arrow.DataType) error {
	return fmt.Errorf("%w: %s of type %s", arrow.ErrNotImplemented, op, dt)
}

// Aggregate reduces data with op. Null values are skipped; an input of the
// null type gives the null scalar.
func Aggregate(opts ExecOptions, op AggregateOp, data arrow.ArrayData) (scalar.Scalar, error) {
	debug.Log("msg", "aggregate kernel", "op", op, "type", data.DataType(),
		"len", data.Len(), "nulls", exec.NullCount(data))

	switch op {
	case AggSum:
		return Sum(opts, data)
	case AggMin:
		return Min(opts, data)
	case AggMax:
		return Max(opts, data)
	}
	return nil, fmt.Errorf("%w: unknown aggregate op %d", arrow.ErrNotImplemented, op)
}

// Sum adds the valid values of data. Signed integers accumulate in int64,
// unsigned ones in uint64 and floating point values in float64. An empty
// or all-null input sums to zero.
func Sum(opts ExecOptions, data arrow.ArrayData) (scalar.Scalar, error) {
	if data.DataType().ID() == arrow.NULL {
		return scalar.ScalarNull, nil
	}
	in := newAggregateInput(opts, data)
	switch data.DataType().ID() {
	case arrow.FLOAT64:
		return makeScalar(aggregatePlain[float64, addOp[float64]](exec.GetValues[float64](data, 1), in)), nil
	case arrow.FLOAT32:
		return makeScalar(aggregateWiden[float64, float32, addOp[float64], NumericWidener[float64, float32]](
			exec.GetValues[float32](data, 1), in)), nil
	case arrow.FLOAT16:
		return makeScalar(aggregateConvert[float64, float16.Num, addOp[float64], HalfReader[float64]](
			exec.GetValues[float16.Num](data, 1), in)), nil
	case arrow.INT64:
		return makeScalar(aggregatePlain[int64, addOp[int64]](exec.GetValues[int64](data, 1), in)), nil
	case arrow.INT32:
		return makeScalar(aggregateWiden[int64, int32, addOp[int64], NumericWidener[int64, int32]](
			exec.GetValues[int32](data, 1), in)), nil
	case arrow.INT16:
		return makeScalar(aggregateWidenConvert[int64, int32, int16, addOp[int32], addOp[int64]](
			exec.GetValues[int16](data, 1), in)), nil
	case arrow.INT8:
		return makeScalar(aggregateWidenConvert[int64, int16, int8, addOp[int16], addOp[int64]](
			exec.GetValues[int8](data, 1), in)), nil
	case arrow.UINT64:
		return makeScalar(aggregatePlain[uint64, addOp[uint64]](exec.GetValues[uint64](data, 1), in)), nil
	case arrow.UINT32:
		return makeScalar(aggregateWiden[uint64, uint32, addOp[uint64], NumericWidener[uint64, uint32]](
			exec.GetValues[uint32](data, 1), in)), nil
	case arrow.UINT16:
		return makeScalar(aggregateWidenConvert[uint64, uint32, uint16, addOp[uint32], addOp[uint64]](
			exec.GetValues[uint16](data, 1), in)), nil
	case arrow.UINT8:
		return makeScalar(aggregateWidenConvert[uint64, uint16, uint8, addOp[uint16], addOp[uint64]](
			exec.GetValues[uint8](data, 1), in)), nil
	}
	return nil, unsupportedAggregate(AggSum, data.DataType())
}

// Min returns the smallest valid value of data in its own kind. An input
// without valid values gives the largest value of the kind.
func Min(opts ExecOptions, data arrow.ArrayData) (scalar.Scalar, error) {
	return extremum[minOp[float32]](opts, AggMin, data, float16.MaxNum,
		func(in aggregateInput) (scalar.Scalar, bool) {
			switch data.DataType().ID() {
			case arrow.INT8:
				return makeScalar(aggregatePlain[int8, minOp[int8]](exec.GetValues[int8](data, 1), in)), true
			case arrow.INT16:
				return makeScalar(aggregatePlain[int16, minOp[int16]](exec.GetValues[int16](data, 1), in)), true
			case arrow.INT32:
				return makeScalar(aggregatePlain[int32, minOp[int32]](exec.GetValues[int32](data, 1), in)), true
			case arrow.INT64:
				return makeScalar(aggregatePlain[int64, minOp[int64]](exec.GetValues[int64](data, 1), in)), true
			case arrow.UINT8:
				return makeScalar(aggregatePlain[uint8, minOp[uint8]](exec.GetValues[uint8](data, 1), in)), true
			case arrow.UINT16:
				return makeScalar(aggregatePlain[uint16, minOp[uint16]](exec.GetValues[uint16](data, 1), in)), true
			case arrow.UINT32:
				return makeScalar(aggregatePlain[uint32, minOp[uint32]](exec.GetValues[uint32](data, 1), in)), true
			case arrow.UINT64:
				return makeScalar(aggregatePlain[uint64, minOp[uint64]](exec.GetValues[uint64](data, 1), in)), true
			case arrow.FLOAT32:
				return makeScalar(aggregatePlain[float32, minOp[float32]](exec.GetValues[float32](data, 1), in)), true
			case arrow.FLOAT64:
				return makeScalar(aggregatePlain[float64, minOp[float64]](exec.GetValues[float64](data, 1), in)), true
			}
			return nil, false
		})
}

// Max returns the largest valid value of data in its own kind. An input
// without valid values gives the smallest value of the kind.
func Max(opts ExecOptions, data arrow.ArrayData) (scalar.Scalar, error) {
	return extremum[maxOp[float32]](opts, AggMax, data, float16.MinNum,
		func(in aggregateInput) (scalar.Scalar, bool) {
			switch data.DataType().ID() {
			case arrow.INT8:
				return makeScalar(aggregatePlain[int8, maxOp[int8]](exec.GetValues[int8](data, 1), in)), true
			case arrow.INT16:
				return makeScalar(aggregatePlain[int16, maxOp[int16]](exec.GetValues[int16](data, 1), in)), true
			case arrow.INT32:
				return makeScalar(aggregatePlain[int32, maxOp[int32]](exec.GetValues[int32](data, 1), in)), true
			case arrow.INT64:
				return makeScalar(aggregatePlain[int64, maxOp[int64]](exec.GetValues[int64](data, 1), in)), true
			case arrow.UINT8:
				return makeScalar(aggregatePlain[uint8, maxOp[uint8]](exec.GetValues[uint8](data, 1), in)), true
			case arrow.UINT16:
				return makeScalar(aggregatePlain[uint16, maxOp[uint16]](exec.GetValues[uint16](data, 1), in)), true
			case arrow.UINT32:
				return makeScalar(aggregatePlain[uint32, maxOp[uint32]](exec.GetValues[uint32](data, 1), in)), true
			case arrow.UINT64:
				return makeScalar(aggregatePlain[uint64, maxOp[uint64]](exec.GetValues[uint64](data, 1), in)), true
			case arrow.FLOAT32:
				return makeScalar(aggregatePlain[float32, maxOp[float32]](exec.GetValues[float32](data, 1), in)), true
			case arrow.FLOAT64:
				return makeScalar(aggregatePlain[float64, maxOp[float64]](exec.GetValues[float64](data, 1), in)), true
			}
			return nil, false
		})
}

// extremum handles the kinds shared by Min and Max: the null type, and
// float16, which is folded in float32 and stored back as half precision.
// halfIdentity stands in for the float32 identity, which no half value
// converts to.
func extremum[Op aggregationOperator[float32]](opts ExecOptions, op AggregateOp, data arrow.ArrayData, halfIdentity float16.Num,
	native func(aggregateInput) (scalar.Scalar, bool)) (scalar.Scalar, error) {
	if data.DataType().ID() == arrow.NULL {
		return scalar.ScalarNull, nil
	}
	in := newAggregateInput(opts, data)
	switch data.DataType().ID() {
	case arrow.FLOAT16:
		var fold Op
		acc := aggregateConvert[float32, float16.Num, Op, HalfReader[float32]](
			exec.GetValues[float16.Num](data, 1), in)
		if acc == fold.Identity() {
			return makeScalar(halfIdentity), nil
		}
		return makeScalar(roundHalf(acc)), nil
	}

	if s, ok := native(in); ok {
		return s, nil
	}
	return nil, unsupportedAggregate(op, data.DataType())
}
