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
	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/asmirnov82/compute-functions/compute/internal/exec"
)

// validityBits returns the validity bitmap of data, or nil when every
// value is valid.
func validityBits(data arrow.ArrayData) []byte {
	if exec.NullCount(data) == 0 {
		return nil
	}
	buf := data.Buffers()[0]
	if buf == nil {
		return nil
	}
	return buf.Bytes()
}

func allocBitmap(mem memory.Allocator, length int) *memory.Buffer {
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(length))))
	memory.Set(buf.Bytes(), 0)
	return buf
}

// copyValidity returns a copy of the validity of data starting at bit 0,
// and its null count. A nil buffer means every value is valid.
func copyValidity(mem memory.Allocator, data arrow.ArrayData) (*memory.Buffer, int) {
	bits := validityBits(data)
	if bits == nil {
		return nil, 0
	}
	out := allocBitmap(mem, data.Len())
	bitutil.CopyBitmap(bits, data.Offset(), data.Len(), out.Bytes(), 0)
	return out, exec.NullCount(data)
}

// computeValidityAA determines the output validity of two arrays of the
// same length. A slot is only valid if both inputs are valid.
func computeValidityAA(mem memory.Allocator, left, right arrow.ArrayData) (*memory.Buffer, int) {
	lbits, rbits := validityBits(left), validityBits(right)
	switch {
	case lbits == nil:
		return copyValidity(mem, right)
	case rbits == nil:
		return copyValidity(mem, left)
	}

	length := left.Len()
	out := allocBitmap(mem, length)
	bitutil.BitmapAnd(lbits, rbits, int64(left.Offset()), int64(right.Offset()),
		out.Bytes(), 0, int64(length))
	return out, length - bitutil.CountSetBits(out.Bytes(), 0, length)
}

// computeValidityAS determines the output validity of an array combined
// with a scalar: a null scalar makes every slot null, otherwise the
// array's validity passes through.
func computeValidityAS(mem memory.Allocator, arr arrow.ArrayData, scalarValid bool) (*memory.Buffer, int) {
	if !scalarValid {
		return allocBitmap(mem, arr.Len()), arr.Len()
	}
	return copyValidity(mem, arr)
}
