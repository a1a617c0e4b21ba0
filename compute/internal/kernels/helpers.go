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
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/asmirnov82/compute-functions/compute/internal/exec"
)

// allocValues allocates the values buffer of a length-long array of kind k.
func allocValues(mem memory.Allocator, k arrow.Type, length int) *memory.Buffer {
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(length * exec.ByteWidth(k))
	return buf
}

// makeArrayData assembles the output array and hands the buffers over to
// it, so the caller owns only the returned data.
func makeArrayData(k arrow.Type, length int, validity, values *memory.Buffer, nulls int) arrow.ArrayData {
	out := array.NewData(exec.TypeFor(k), length, []*memory.Buffer{validity, values}, nil, nulls, 0)
	if validity != nil {
		validity.Release()
	}
	values.Release()
	return out
}

func releaseBuffers(bufs ...*memory.Buffer) {
	for _, b := range bufs {
		if b != nil {
			b.Release()
		}
	}
}

// makeNullArray returns an array of the null type.
func makeNullArray(length int) arrow.ArrayData {
	return array.NewData(arrow.Null, length, []*memory.Buffer{nil}, nil, length, 0)
}

// makeScalar wraps a computed value as a scalar of its own kind.
func makeScalar[T exec.NumericTypes](v T) scalar.Scalar {
	return scalar.MakeScalar(v)
}

// makeNullScalar returns the null scalar of kind k.
func makeNullScalar(k arrow.Type) scalar.Scalar {
	if k == arrow.NULL {
		return scalar.ScalarNull
	}
	return scalar.MakeNullScalar(exec.TypeFor(k))
}
