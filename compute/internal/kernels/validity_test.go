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
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
)

// int32Column builds an array of length n+offset where position i is null
// when isNull(i), and returns it sliced by offset.
func int32Column(mem memory.Allocator, n, offset int, isNull func(int) bool) arrow.Array {
	bldr := array.NewInt32Builder(mem)
	defer bldr.Release()
	for i := 0; i < n+offset; i++ {
		if isNull(i) {
			bldr.AppendNull()
		} else {
			bldr.Append(int32(i))
		}
	}
	arr := bldr.NewArray()
	defer arr.Release()
	return array.NewSlice(arr, int64(offset), int64(offset+n))
}

func assertBitmap(t *testing.T, buf *memory.Buffer, nulls, n int, valid func(int) bool) {
	expNulls := 0
	for i := 0; i < n; i++ {
		if !valid(i) {
			expNulls++
		}
	}
	assert.Equal(t, expNulls, nulls)
	if expNulls == 0 {
		assert.Nil(t, buf)
		return
	}
	for i := 0; i < n; i++ {
		assert.Equal(t, valid(i), bitutil.BitIsSet(buf.Bytes(), i), "bit %d", i)
	}
}

func TestComputeValidityAA(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	everyThird := func(i int) bool { return i%3 == 0 }
	everyFifth := func(i int) bool { return i%5 == 1 }
	never := func(int) bool { return false }

	for _, n := range []int{0, 1, 63, 64, 65} {
		for _, offset := range []int{0, 1, 5} {
			t.Run(fmt.Sprintf("%d/%d", n, offset), func(t *testing.T) {
				left := int32Column(mem, n, offset, everyThird)
				defer left.Release()
				right := int32Column(mem, n, 2*offset, everyFifth)
				defer right.Release()
				clean := int32Column(mem, n, offset, never)
				defer clean.Release()

				buf, nulls := computeValidityAA(mem, left.Data(), right.Data())
				assertBitmap(t, buf, nulls, n, func(i int) bool {
					return !everyThird(i+offset) && !everyFifth(i+2*offset)
				})
				releaseBuffers(buf)

				buf, nulls = computeValidityAA(mem, clean.Data(), right.Data())
				assertBitmap(t, buf, nulls, n, func(i int) bool { return !everyFifth(i + 2*offset) })
				releaseBuffers(buf)

				buf, nulls = computeValidityAA(mem, left.Data(), clean.Data())
				assertBitmap(t, buf, nulls, n, func(i int) bool { return !everyThird(i + offset) })
				releaseBuffers(buf)

				buf, nulls = computeValidityAA(mem, clean.Data(), clean.Data())
				assertBitmap(t, buf, nulls, n, func(int) bool { return true })
				releaseBuffers(buf)
			})
		}
	}
}

func TestComputeValidityAS(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	everyThird := func(i int) bool { return i%3 == 0 }
	for _, n := range []int{1, 63, 64, 65} {
		arr := int32Column(mem, n, 3, everyThird)

		buf, nulls := computeValidityAS(mem, arr.Data(), true)
		assertBitmap(t, buf, nulls, n, func(i int) bool { return !everyThird(i + 3) })
		releaseBuffers(buf)

		buf, nulls = computeValidityAS(mem, arr.Data(), false)
		assert.Equal(t, n, nulls)
		assert.Zero(t, bitutil.CountSetBits(buf.Bytes(), 0, n))
		releaseBuffers(buf)

		arr.Release()
	}
}
