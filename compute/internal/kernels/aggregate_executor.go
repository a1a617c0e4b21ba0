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
	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/asmirnov82/compute-functions/internal/lanes"
)

// aggregateInput is the part of an input column that does not depend on
// its value kind.
type aggregateInput struct {
	validity []byte
	offset   int
	nulls    int
	tiers    []lanes.Width
}

func (in aggregateInput) vectorize(canVectorize bool) bool {
	return canVectorize && in.nulls == 0
}

// foldValid folds the values that follow vector processing into acc. With
// nulls present nothing was vectorized and values starts at in.offset.
func foldValid[R, S numeric, Op aggregationOperator[R]](acc R, values []S, in aggregateInput) R {
	var op Op
	if in.nulls == 0 {
		for _, v := range values {
			acc = op.Call(acc, R(v))
		}
		return acc
	}
	for i, v := range values {
		if bitutil.BitIsSet(in.validity, in.offset+i) {
			acc = op.Call(acc, R(v))
		}
	}
	return acc
}

// aggregatePlain folds a column stored in the accumulator kind. Each tier
// keeps a vector accumulator seeded with the identity and collapses it
// once when no full vector of that tier remains.
func aggregatePlain[T numeric, Op aggregationOperator[T]](values []T, in aggregateInput) T {
	var op Op
	acc, i := op.Identity(), 0
	if in.vectorize(op.CanVectorize()) {
		vacc := make([]T, lanes.MaxCount[T]())
		for _, w := range in.tiers {
			vs := lanes.Count[T](w)
			if len(values)-i < vs {
				continue
			}
			va := vacc[:vs]
			lanes.Set(va, op.Identity())
			for ; len(values)-i >= vs; i += vs {
				op.CallVec(va, va, values[i:i+vs])
			}
			acc = op.Call(acc, op.Reduce(va))
		}
	}
	return foldValid[T, T, Op](acc, values[i:], in)
}

// aggregateWiden folds a column of kind S into an accumulator of kind R,
// twice as wide. One narrow vector feeds two accumulator vectors.
func aggregateWiden[R, S numeric, Op aggregationOperator[R], W Widener[R, S]](values []S, in aggregateInput) R {
	var (
		op Op
		wd W
	)
	acc, i := op.Identity(), 0
	if in.vectorize(op.CanVectorize()) {
		m := lanes.MaxCount[R]()
		vacc, lo, hi := make([]R, m), make([]R, m), make([]R, m)
		for _, w := range in.tiers {
			vs := lanes.Count[R](w)
			narrow := 2 * vs
			if len(values)-i < narrow {
				continue
			}
			va := vacc[:vs]
			lanes.Set(va, op.Identity())
			for ; len(values)-i >= narrow; i += narrow {
				wd.WidenVec(lo[:vs], hi[:vs], values[i:i+narrow])
				op.CallVec(va, va, lo[:vs])
				op.CallVec(va, va, hi[:vs])
			}
			acc = op.Call(acc, op.Reduce(va))
		}
	}
	return foldValid[R, S, Op](acc, values[i:], in)
}

// aggregateWidenConvert folds a column of kind S through an intermediate
// kind M (twice as wide as S) into an accumulator of kind R. Each narrow
// vector is widened, its halves combined and reduced in M, and the reduced
// value is widened to R before it reaches the accumulator, so M never
// holds more than one vector's worth of values.
func aggregateWidenConvert[R, M, S numeric, OpM aggregationOperator[M], OpR aggregationOperator[R]](values []S, in aggregateInput) R {
	var (
		opm OpM
		opr OpR
		wd  NumericWidener[M, S]
		up  NumericWidener[R, M]
	)
	acc, i := opr.Identity(), 0
	if in.vectorize(opm.CanVectorize()) {
		m := lanes.MaxCount[M]()
		lo, hi := make([]M, m), make([]M, m)
		for _, w := range in.tiers {
			vs := lanes.Count[M](w)
			narrow := 2 * vs
			for ; len(values)-i >= narrow; i += narrow {
				wd.WidenVec(lo[:vs], hi[:vs], values[i:i+narrow])
				opm.CallVec(lo[:vs], lo[:vs], hi[:vs])
				acc = opr.Call(acc, up.Widen(opm.Reduce(lo[:vs])))
			}
		}
	}
	return foldValid[R, S, OpR](acc, values[i:], in)
}

// aggregateConvert is the scalar-only fold through a Converter, used for
// half precision input.
func aggregateConvert[R numeric, S any, Op aggregationOperator[R], C Converter[R, S]](values []S, in aggregateInput) R {
	var (
		op   Op
		conv C
	)
	acc := op.Identity()
	for i, v := range values {
		if in.nulls == 0 || bitutil.BitIsSet(in.validity, in.offset+i) {
			acc = op.Call(acc, conv.Convert(v))
		}
	}
	return acc
}
