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

package exec

import (
	"unsafe"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/apache/arrow/go/v17/arrow/float16"
	"golang.org/x/exp/constraints"
)

// IntTypes is a type constraint for raw values represented as signed
// integer types by Arrow. The platform sized int is left out on purpose
// since its width depends on the architecture.
type IntTypes interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UintTypes is the unsigned counterpart of IntTypes. It excludes uint
// and uintptr.
type UintTypes interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// FloatTypes is a type constraint for raw values for representing
// floating point values in Arrow. This consists of constraints.Float and
// float16.Num
type FloatTypes interface {
	float16.Num | constraints.Float
}

// NativeTypes are the numeric value types a kernel can compute in
// directly. float16.Num is not one of them: half precision values are
// computed as float32 and rounded back on store.
type NativeTypes interface {
	IntTypes | UintTypes | constraints.Float
}

// NumericTypes is every raw value type backing a numeric Arrow array.
type NumericTypes interface {
	IntTypes | UintTypes | FloatTypes
}

// GetValues returns a properly typed slice by reinterpreting the buffer at
// index i of data using unsafe.Slice. The offset of data is taken into
// account, so the returned slice has exactly data.Len() elements. A missing
// or empty buffer yields nil.
func GetValues[T NumericTypes](data arrow.ArrayData, i int) []T {
	buf := data.Buffers()[i]
	if buf == nil || buf.Len() == 0 || data.Len() == 0 {
		return nil
	}
	ret := GetData[T](buf.Bytes())
	return ret[data.Offset() : data.Offset()+data.Len()]
}

// NullCount returns the number of nulls in data, counting the validity
// bitmap when the stored count is unknown (as it is for slices).
func NullCount(data arrow.ArrayData) int {
	if n := data.NullN(); n >= 0 {
		return n
	}
	if data.DataType().ID() == arrow.NULL {
		return data.Len()
	}
	bitmap := data.Buffers()[0]
	if bitmap == nil || bitmap.Len() == 0 {
		return 0
	}
	return data.Len() - bitutil.CountSetBits(bitmap.Bytes(), data.Offset(), data.Len())
}

// GetData reinterprets a byte slice as a slice of T. Trailing bytes that
// do not make up a whole element are dropped.
func GetData[T NumericTypes](in []byte) []T {
	var z T
	n := len(in) / int(unsafe.Sizeof(z))
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&in[0])), n)
}

// GetBytes is the inverse of GetData.
func GetBytes[T NumericTypes](in []T) []byte {
	if len(in) == 0 {
		return nil
	}
	var z T
	return unsafe.Slice((*byte)(unsafe.Pointer(&in[0])), len(in)*int(unsafe.Sizeof(z)))
}

// GetType returns the Arrow type id whose values are stored as T.
func GetType[T NumericTypes]() arrow.Type {
	var z T
	switch any(z).(type) {
	case int8:
		return arrow.INT8
	case int16:
		return arrow.INT16
	case int32:
		return arrow.INT32
	case int64:
		return arrow.INT64
	case uint8:
		return arrow.UINT8
	case uint16:
		return arrow.UINT16
	case uint32:
		return arrow.UINT32
	case uint64:
		return arrow.UINT64
	case float16.Num:
		return arrow.FLOAT16
	case float32:
		return arrow.FLOAT32
	case float64:
		return arrow.FLOAT64
	}
	return arrow.NULL
}

// TypeFor returns the canonical data type for a numeric (or null) type id,
// or nil if the id is not one of them.
func TypeFor(id arrow.Type) arrow.DataType {
	switch id {
	case arrow.NULL:
		return arrow.Null
	case arrow.INT8:
		return arrow.PrimitiveTypes.Int8
	case arrow.INT16:
		return arrow.PrimitiveTypes.Int16
	case arrow.INT32:
		return arrow.PrimitiveTypes.Int32
	case arrow.INT64:
		return arrow.PrimitiveTypes.Int64
	case arrow.UINT8:
		return arrow.PrimitiveTypes.Uint8
	case arrow.UINT16:
		return arrow.PrimitiveTypes.Uint16
	case arrow.UINT32:
		return arrow.PrimitiveTypes.Uint32
	case arrow.UINT64:
		return arrow.PrimitiveTypes.Uint64
	case arrow.FLOAT16:
		return arrow.FixedWidthTypes.Float16
	case arrow.FLOAT32:
		return arrow.PrimitiveTypes.Float32
	case arrow.FLOAT64:
		return arrow.PrimitiveTypes.Float64
	}
	return nil
}

// IsNumeric reports whether id is one of the eleven numeric kinds.
func IsNumeric(id arrow.Type) bool {
	return id != arrow.NULL && TypeFor(id) != nil
}

// ByteWidth returns the storage width of a numeric kind in bytes, or 0.
func ByteWidth(id arrow.Type) int {
	switch id {
	case arrow.INT8, arrow.UINT8:
		return 1
	case arrow.INT16, arrow.UINT16, arrow.FLOAT16:
		return 2
	case arrow.INT32, arrow.UINT32, arrow.FLOAT32:
		return 4
	case arrow.INT64, arrow.UINT64, arrow.FLOAT64:
		return 8
	}
	return 0
}
