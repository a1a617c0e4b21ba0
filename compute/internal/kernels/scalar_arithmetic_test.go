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

package kernels_test

import (
	"math"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/float16"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/asmirnov82/compute-functions/compute/internal/kernels"
	"github.com/asmirnov82/compute-functions/internal/lanes"
	"github.com/stretchr/testify/suite"
)

type ArithmeticSuite struct {
	suite.Suite

	level lanes.Level
	mem   *memory.CheckedAllocator
	opts  kernels.ExecOptions
}

func (s *ArithmeticSuite) SetupTest() {
	s.mem = memory.NewCheckedAllocator(memory.DefaultAllocator)
	s.opts = kernels.ExecOptions{Mem: s.mem, Level: s.level}
}

func (s *ArithmeticSuite) TearDownTest() {
	s.mem.AssertSize(s.T(), 0)
}

func (s *ArithmeticSuite) fromJSON(dt arrow.DataType, data string) arrow.Array {
	arr, _, err := array.FromJSON(s.mem, dt, strings.NewReader(data))
	s.Require().NoError(err)
	return arr
}

func (s *ArithmeticSuite) assertArrayArray(op kernels.ArithmeticOp, dx arrow.DataType, x string, dy arrow.DataType, y string, dexp arrow.DataType, exp string) {
	left, right, expected := s.fromJSON(dx, x), s.fromJSON(dy, y), s.fromJSON(dexp, exp)
	defer left.Release()
	defer right.Release()
	defer expected.Release()

	out, err := kernels.ArithmeticArrayArray(s.opts, op, left.Data(), right.Data())
	s.Require().NoError(err)
	defer out.Release()
	actual := array.MakeFromData(out)
	defer actual.Release()

	s.Truef(array.Equal(expected, actual), "expected: %s\ngot: %s", expected, actual)
	s.Equal(expected.NullN(), actual.NullN())
}

func (s *ArithmeticSuite) assertScalars(op kernels.ArithmeticOp, x, y, expected scalar.Scalar) {
	actual, err := kernels.ArithmeticScalarScalar(s.opts, op, x, y)
	s.Require().NoError(err)
	s.Truef(scalar.Equals(expected, actual), "expected: %s\ngot: %s", expected, actual)
}

func (s *ArithmeticSuite) TestMultiplyWithNulls() {
	s.assertArrayArray(kernels.OpMul,
		arrow.PrimitiveTypes.Int32, "[4, 1, null, null]",
		arrow.PrimitiveTypes.Int32, "[2, null, 1, null]",
		arrow.PrimitiveTypes.Int32, "[8, null, null, null]")
}

func (s *ArithmeticSuite) TestDivideWithNulls() {
	s.assertArrayArray(kernels.OpDiv,
		arrow.PrimitiveTypes.Int32, "[4, 1, null, null]",
		arrow.PrimitiveTypes.Int32, "[2, null, 1, null]",
		arrow.PrimitiveTypes.Int32, "[2, null, null, null]")
	// null divisor slots may hold zero
	s.assertArrayArray(kernels.OpMod,
		arrow.PrimitiveTypes.Int64, "[7, 5, -7, 3]",
		arrow.PrimitiveTypes.Int64, "[2, null, 3, null]",
		arrow.PrimitiveTypes.Int64, "[1, null, -1, null]")
}

func (s *ArithmeticSuite) TestMixedKinds() {
	s.assertArrayArray(kernels.OpAdd,
		arrow.PrimitiveTypes.Int32, "[0, 1, 2]",
		arrow.PrimitiveTypes.Float64, "[1, 0.5, 1]",
		arrow.PrimitiveTypes.Float64, "[1, 1.5, 3]")
	s.assertArrayArray(kernels.OpAdd,
		arrow.PrimitiveTypes.Int64, "[1, -1, 0]",
		arrow.PrimitiveTypes.Uint32, "[4294967295, 1, 4294967295]",
		arrow.PrimitiveTypes.Int64, "[4294967296, 0, 4294967295]")
	s.assertArrayArray(kernels.OpSub,
		arrow.PrimitiveTypes.Uint8, "[0, 255, 10]",
		arrow.PrimitiveTypes.Int8, "[127, -128, null]",
		arrow.PrimitiveTypes.Int16, "[-127, 383, null]")
	s.assertArrayArray(kernels.OpMul,
		arrow.PrimitiveTypes.Uint8, "[200, 3]",
		arrow.PrimitiveTypes.Uint16, "[300, 3]",
		arrow.PrimitiveTypes.Uint16, "[60000, 9]")
	s.assertArrayArray(kernels.OpDiv,
		arrow.PrimitiveTypes.Float32, "[1, 3]",
		arrow.PrimitiveTypes.Int16, "[4, 2]",
		arrow.PrimitiveTypes.Float32, "[0.25, 1.5]")
}

func (s *ArithmeticSuite) TestHalfFloat() {
	f16 := arrow.FixedWidthTypes.Float16
	tests := []struct {
		op  kernels.ArithmeticOp
		exp string
	}{
		{kernels.OpAdd, "[3, 1.5, null, 4.5]"},
		{kernels.OpSub, "[0, -1.5, null, 3.5]"},
		{kernels.OpMul, "[2.25, 0, null, 2]"},
		{kernels.OpDiv, "[1, 0, null, 8]"},
		{kernels.OpMod, "[0, 0, null, 0]"},
	}
	for _, tt := range tests {
		s.Run(tt.op.String(), func() {
			s.assertArrayArray(tt.op, f16, "[1.5, 0, 1, 4]", f16, "[1.5, 1.5, null, 0.5]", f16, tt.exp)
		})
	}

	s.assertArrayArray(kernels.OpAdd,
		f16, "[1.5, null]",
		arrow.PrimitiveTypes.Float64, "[0.25, 1]",
		arrow.PrimitiveTypes.Float64, "[1.75, null]")
	s.assertArrayArray(kernels.OpMul,
		f16, "[1.5, 2]",
		arrow.PrimitiveTypes.Int32, "[2, -3]",
		f16, "[3, -6]")
}

func (s *ArithmeticSuite) TestHalfFloatRounding() {
	f16 := arrow.FixedWidthTypes.Float16
	// results are rounded to the nearest half value, ties to even
	s.assertArrayArray(kernels.OpAdd,
		f16, "[1, 1, 1.0009765625, -1]",
		f16, "[0.000732421875, 0.00048828125, 0.00048828125, -0.000732421875]",
		f16, "[1.0009765625, 1, 1.001953125, -1.0009765625]")
	s.assertArrayArray(kernels.OpAdd,
		f16, "[1, 0]",
		arrow.PrimitiveTypes.Int32, "[2051, 2049]",
		f16, "[2052, 2048]")
	s.assertScalars(kernels.OpAdd,
		scalar.NewFloat16Scalar(float16.New(1)), scalar.NewInt32Scalar(2051),
		scalar.NewFloat16Scalar(float16.New(2052)))
}

func (s *ArithmeticSuite) TestLongColumns() {
	// long enough for every tier, with a remainder
	const n = 1000 + 13
	x, y := array.NewInt16Builder(s.mem), array.NewInt32Builder(s.mem)
	defer x.Release()
	defer y.Release()
	for i := 0; i < n; i++ {
		x.Append(int16(i % 300))
		if i%7 == 0 {
			y.AppendNull()
		} else {
			y.Append(int32(i))
		}
	}
	left, right := x.NewArray(), y.NewArray()
	defer left.Release()
	defer right.Release()

	out, err := kernels.ArithmeticArrayArray(s.opts, kernels.OpSub, left.Data(), right.Data())
	s.Require().NoError(err)
	defer out.Release()
	res := array.NewInt32Data(out)
	defer res.Release()

	s.Equal(n, res.Len())
	s.Equal(right.NullN(), res.NullN())
	for i := 0; i < n; i++ {
		if i%7 == 0 {
			s.True(res.IsNull(i))
			continue
		}
		s.Equal(int32(i%300)-int32(i), res.Value(i))
	}
}

func (s *ArithmeticSuite) TestSlicedInputs() {
	left := s.fromJSON(arrow.PrimitiveTypes.Float32, "[100, 1, 2, null, 4, 5, 6, 7, 8, 9]")
	defer left.Release()
	right := s.fromJSON(arrow.PrimitiveTypes.Float32, "[1, 1, 1, 1, null, 1, 1, 1, 1]")
	defer right.Release()

	ls := array.NewSlice(left, 1, 10)
	defer ls.Release()
	out, err := kernels.ArithmeticArrayArray(s.opts, kernels.OpAdd, ls.Data(), right.Data())
	s.Require().NoError(err)
	defer out.Release()
	actual := array.MakeFromData(out)
	defer actual.Release()

	expected := s.fromJSON(arrow.PrimitiveTypes.Float32, "[2, 3, null, 5, null, 7, 8, 9, 10]")
	defer expected.Release()
	s.Truef(array.Equal(expected, actual), "got: %s", actual)
}

func (s *ArithmeticSuite) TestArrayScalar() {
	arr := s.fromJSON(arrow.PrimitiveTypes.Uint8, "[1, 2, null, 250]")
	defer arr.Release()

	out, err := kernels.ArithmeticArrayScalar(s.opts, kernels.OpAdd, arr.Data(), scalar.NewInt32Scalar(-1))
	s.Require().NoError(err)
	defer out.Release()
	actual := array.MakeFromData(out)
	defer actual.Release()
	expected := s.fromJSON(arrow.PrimitiveTypes.Int32, "[0, 1, null, 249]")
	defer expected.Release()
	s.True(array.Equal(expected, actual), actual.String())

	out2, err := kernels.ArithmeticScalarArray(s.opts, kernels.OpSub, scalar.NewFloat64Scalar(0.5), arr.Data())
	s.Require().NoError(err)
	defer out2.Release()
	actual2 := array.MakeFromData(out2)
	defer actual2.Release()
	expected2 := s.fromJSON(arrow.PrimitiveTypes.Float64, "[-0.5, -1.5, null, -249.5]")
	defer expected2.Release()
	s.True(array.Equal(expected2, actual2), actual2.String())

	// a null scalar nulls every slot, even with a zero divisor behind it
	out3, err := kernels.ArithmeticArrayScalar(s.opts, kernels.OpDiv, arr.Data(), scalar.MakeNullScalar(arrow.PrimitiveTypes.Uint8))
	s.Require().NoError(err)
	defer out3.Release()
	s.Equal(arr.Len(), out3.NullN())
	s.Equal(arrow.UINT8, out3.DataType().ID())
}

func (s *ArithmeticSuite) TestScalarScalar() {
	s.assertScalars(kernels.OpAdd, scalar.NewInt8Scalar(3), scalar.NewUint8Scalar(200), scalar.NewInt16Scalar(203))
	s.assertScalars(kernels.OpMod, scalar.NewInt32Scalar(-7), scalar.NewInt32Scalar(2), scalar.NewInt32Scalar(-1))
	s.assertScalars(kernels.OpDiv, scalar.NewFloat64Scalar(1), scalar.NewFloat64Scalar(0), scalar.NewFloat64Scalar(math.Inf(1)))
	s.assertScalars(kernels.OpMul, scalar.NewFloat16Scalar(float16.New(1.5)), scalar.NewFloat16Scalar(float16.New(2)),
		scalar.NewFloat16Scalar(float16.New(3)))
	s.assertScalars(kernels.OpSub, scalar.NewInt64Scalar(5), scalar.MakeNullScalar(arrow.PrimitiveTypes.Int8),
		scalar.MakeNullScalar(arrow.PrimitiveTypes.Int64))
	s.assertScalars(kernels.OpSub, scalar.NewInt64Scalar(5), scalar.ScalarNull, scalar.ScalarNull)
}

func (s *ArithmeticSuite) TestNullType() {
	arr := s.fromJSON(arrow.PrimitiveTypes.Int32, "[1, 2, 3]")
	defer arr.Release()
	nulls := array.NewNull(3)
	defer nulls.Release()

	out, err := kernels.ArithmeticArrayArray(s.opts, kernels.OpAdd, arr.Data(), nulls.Data())
	s.Require().NoError(err)
	defer out.Release()
	s.Equal(arrow.NULL, out.DataType().ID())
	s.Equal(3, out.Len())
	s.Equal(3, out.NullN())
}

func (s *ArithmeticSuite) TestDivideByZero() {
	for _, op := range []kernels.ArithmeticOp{kernels.OpDiv, kernels.OpMod, kernels.OpDivChecked} {
		left := s.fromJSON(arrow.PrimitiveTypes.Int32, "[1, 2, 3]")
		right := s.fromJSON(arrow.PrimitiveTypes.Int8, "[1, 0, 3]")

		_, err := kernels.ArithmeticArrayArray(s.opts, op, left.Data(), right.Data())
		s.ErrorIs(err, arrow.ErrInvalid)
		s.ErrorContains(err, "divide by zero")

		_, err = kernels.ArithmeticArrayScalar(s.opts, op, left.Data(), scalar.NewUint16Scalar(0))
		s.ErrorIs(err, arrow.ErrInvalid)

		_, err = kernels.ArithmeticScalarScalar(s.opts, op, scalar.NewInt8Scalar(1), scalar.NewInt8Scalar(0))
		s.ErrorIs(err, arrow.ErrInvalid)

		left.Release()
		right.Release()
	}

	// floating point division by zero is not an error
	s.assertArrayArray(kernels.OpDiv,
		arrow.PrimitiveTypes.Float64, "[1, -1]",
		arrow.PrimitiveTypes.Int32, "[0, 0]",
		arrow.PrimitiveTypes.Float64, "[\"+Inf\", \"-Inf\"]")
}

func (s *ArithmeticSuite) TestChecked() {
	s.assertArrayArray(kernels.OpAddChecked,
		arrow.PrimitiveTypes.Int8, "[100, 1, null]",
		arrow.PrimitiveTypes.Int8, "[27, -1, 100]",
		arrow.PrimitiveTypes.Int8, "[127, 0, null]")

	left := s.fromJSON(arrow.PrimitiveTypes.Int8, "[100, 1]")
	defer left.Release()
	right := s.fromJSON(arrow.PrimitiveTypes.Int8, "[28, 1]")
	defer right.Release()

	_, err := kernels.ArithmeticArrayArray(s.opts, kernels.OpAddChecked, left.Data(), right.Data())
	s.ErrorIs(err, arrow.ErrInvalid)
	s.ErrorContains(err, "overflow")

	// the unchecked variant wraps
	s.assertArrayArray(kernels.OpAdd,
		arrow.PrimitiveTypes.Int8, "[100, 1]",
		arrow.PrimitiveTypes.Int8, "[28, 1]",
		arrow.PrimitiveTypes.Int8, "[-128, 2]")

	_, err = kernels.ArithmeticScalarScalar(s.opts, kernels.OpSubChecked, scalar.NewUint32Scalar(1), scalar.NewUint32Scalar(2))
	s.ErrorIs(err, arrow.ErrInvalid)
	_, err = kernels.ArithmeticScalarScalar(s.opts, kernels.OpMulChecked, scalar.NewInt64Scalar(math.MaxInt64), scalar.NewInt64Scalar(2))
	s.ErrorIs(err, arrow.ErrInvalid)
}

func (s *ArithmeticSuite) TestErrors() {
	short := s.fromJSON(arrow.PrimitiveTypes.Int32, "[1, 2]")
	defer short.Release()
	long := s.fromJSON(arrow.PrimitiveTypes.Int32, "[1, 2, 3]")
	defer long.Release()
	str := s.fromJSON(arrow.BinaryTypes.String, "[\"a\", \"b\"]")
	defer str.Release()
	u64 := s.fromJSON(arrow.PrimitiveTypes.Uint64, "[1, 2]")
	defer u64.Release()

	_, err := kernels.ArithmeticArrayArray(s.opts, kernels.OpAdd, short.Data(), long.Data())
	s.ErrorIs(err, arrow.ErrInvalid)

	_, err = kernels.ArithmeticArrayArray(s.opts, kernels.OpAdd, short.Data(), str.Data())
	s.ErrorIs(err, arrow.ErrNotImplemented)

	_, err = kernels.ArithmeticArrayArray(s.opts, kernels.OpAdd, short.Data(), u64.Data())
	s.ErrorIs(err, arrow.ErrNotImplemented)

	_, err = kernels.ArithmeticArrayScalar(s.opts, kernels.OpAdd, short.Data(), scalar.NewStringScalar("a"))
	s.ErrorIs(err, arrow.ErrType)
}

func TestArithmetic(t *testing.T) {
	for _, l := range []lanes.Level{lanes.LevelNone, lanes.Level128, lanes.Level256, lanes.Level512} {
		t.Run(l.String(), func(t *testing.T) {
			suite.Run(t, &ArithmeticSuite{level: l})
		})
	}
}
