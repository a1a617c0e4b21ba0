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
	"unsafe"

	"github.com/apache/arrow/go/v17/arrow/float16"
	"github.com/asmirnov82/compute-functions/compute/internal/exec"
	half "github.com/x448/float16"
)

type numeric = exec.NativeTypes

// Converter turns values of kind S into the working kind R. The vector
// form converts len(dst) lanes and keeps the lane count, so it is only
// worth vectorizing when both kinds have the same size.
type Converter[R, S any] interface {
	Vectorizable() bool
	Convert(v S) R
	ConvertVec(dst []R, src []S)
}

// Widener turns values of kind S into the working kind R that is exactly
// twice as wide. One narrow vector yields two wide vectors: the lower half
// of src goes to lo and the upper half to hi.
type Widener[R, S any] interface {
	Widen(v S) R
	WidenVec(lo, hi []R, src []S)
}

// NumericConverter is the plain Go conversion R(v).
type NumericConverter[R, S numeric] struct{}

func (NumericConverter[R, S]) Vectorizable() bool {
	var (
		r R
		s S
	)
	return unsafe.Sizeof(r) == unsafe.Sizeof(s)
}

func (NumericConverter[R, S]) Convert(v S) R { return R(v) }

func (NumericConverter[R, S]) ConvertVec(dst []R, src []S) {
	src = src[:len(dst)]
	for i, v := range src {
		dst[i] = R(v)
	}
}

// HalfReader reads float16 values into the working kind R.
type HalfReader[R numeric] struct{}

func (HalfReader[R]) Vectorizable() bool { return false }

func (HalfReader[R]) Convert(v float16.Num) R { return R(v.Float32()) }

func (HalfReader[R]) ConvertVec(dst []R, src []float16.Num) {
	src = src[:len(dst)]
	for i, v := range src {
		dst[i] = R(v.Float32())
	}
}

// HalfRounder converts S into a float16 result carried as R (float32):
// the value is rounded to half precision first, so computing on it gives
// the same answer as computing on the float16 value itself.
type HalfRounder[R, S numeric] struct{}

func (HalfRounder[R, S]) Vectorizable() bool { return false }

func (HalfRounder[R, S]) Convert(v S) R { return R(roundHalf(float32(v)).Float32()) }

func (h HalfRounder[R, S]) ConvertVec(dst []R, src []S) {
	src = src[:len(dst)]
	for i, v := range src {
		dst[i] = h.Convert(v)
	}
}

// NumericWidener is the plain Go conversion R(v) for R twice as wide as S.
type NumericWidener[R, S numeric] struct{}

func (NumericWidener[R, S]) Widen(v S) R { return R(v) }

func (NumericWidener[R, S]) WidenVec(lo, hi []R, src []S) {
	n := len(lo)
	hi, src = hi[:n], src[:2*n]
	for i := range lo {
		lo[i] = R(src[i])
		hi[i] = R(src[n+i])
	}
}

// roundHalf rounds v to the nearest half precision value, ties to even.
// Values below the normal range become subnormals.
func roundHalf(v float32) float16.Num {
	return float16.FromBits(half.Fromfloat32(v).Bits())
}

// storeHalf rounds the float32 working values into the float16 output.
func storeHalf(dst []float16.Num, src []float32) {
	src = src[:len(dst)]
	for i, v := range src {
		dst[i] = roundHalf(v)
	}
}
