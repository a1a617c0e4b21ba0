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
	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/asmirnov82/compute-functions/internal/lanes"
)

// executeBinary writes op(x[i], y[i]) to out[i] for every valid position.
// Positions whose validity bit is clear hold unspecified values.
//
// The vector path is taken when the operator and both sources vectorize
// and, for operators that trap on a zero right argument, when there are no
// nulls whose garbage values could be zero. The first tier (widest first)
// that fits one vector processes the whole column; the last vector is
// aligned to the end and may overlap the previous one.
func executeBinary[T numeric, Op binaryOperator[T]](x, y laneSource[T], out []T, validity []byte, nulls int, tiers []lanes.Width) {
	var op Op
	if op.CanVectorize() && x.vectorizable() && y.vectorizable() &&
		(op.CanRightArgumentBeZero() || nulls == 0) {
		var done bool
		if x.widens() || y.widens() {
			done = executeWidening[T, Op](x, y, out, tiers)
		} else {
			done = executePlain[T, Op](x, y, out, tiers)
		}
		if done {
			return
		}
	}
	executeScalar[T, Op](x, y, out, validity, nulls)
}

func executePlain[T numeric, Op binaryOperator[T]](x, y laneSource[T], out []T, tiers []lanes.Width) bool {
	var op Op
	n := len(out)
	xbuf, ybuf := make([]T, lanes.MaxCount[T]()), make([]T, lanes.MaxCount[T]())
	for _, w := range tiers {
		vs := lanes.Count[T](w)
		oneVectorFromEnd := n - vs
		if oneVectorFromEnd < 0 {
			continue
		}

		xb, yb := xbuf[:vs], ybuf[:vs]
		i := 0
		for ; i <= oneVectorFromEnd; i += vs {
			op.CallVec(out[i:i+vs], x.load(xb, i), y.load(yb, i))
		}
		if i != n {
			i = oneVectorFromEnd
			op.CallVec(out[i:i+vs], x.load(xb, i), y.load(yb, i))
		}
		return true
	}
	return false
}

// executeWidening handles sources that read a kind half as wide as T: one
// step covers two result vectors, loaded from one narrow vector on the
// widening side and from two vectors on the other.
func executeWidening[T numeric, Op binaryOperator[T]](x, y laneSource[T], out []T, tiers []lanes.Width) bool {
	var op Op
	n := len(out)
	m := lanes.MaxCount[T]()
	xlo, xhi := make([]T, m), make([]T, m)
	ylo, yhi := make([]T, m), make([]T, m)
	for _, w := range tiers {
		vs := lanes.Count[T](w)
		oneVectorFromEnd := n - 2*vs
		if oneVectorFromEnd < 0 {
			continue
		}

		step := func(i int) {
			xl, xh := loadPair(x, xlo[:vs], xhi[:vs], i)
			yl, yh := loadPair(y, ylo[:vs], yhi[:vs], i)
			op.CallVec(out[i:i+vs], xl, yl)
			op.CallVec(out[i+vs:i+2*vs], xh, yh)
		}

		i := 0
		for ; i <= oneVectorFromEnd; i += 2 * vs {
			step(i)
		}
		if i != n {
			step(oneVectorFromEnd)
		}
		return true
	}
	return false
}

func loadPair[T numeric](src laneSource[T], lo, hi []T, i int) ([]T, []T) {
	if src.widens() {
		src.loadWide(lo, hi, i)
		return lo, hi
	}
	return src.load(lo, i), src.load(hi, i+len(lo))
}

func executeScalar[T numeric, Op binaryOperator[T]](x, y laneSource[T], out []T, validity []byte, nulls int) {
	var op Op
	xs, xok := x.(spanSource[T])
	ys, yok := y.(spanSource[T])
	if xok && yok {
		xv, yv := xs.values[:len(out)], ys.values[:len(out)]
		if nulls == 0 {
			for i := range out {
				out[i] = op.Call(xv[i], yv[i])
			}
			return
		}
		for i := range out {
			if bitutil.BitIsSet(validity, i) {
				out[i] = op.Call(xv[i], yv[i])
			}
		}
		return
	}

	if nulls == 0 {
		for i := range out {
			out[i] = op.Call(x.at(i), y.at(i))
		}
		return
	}
	for i := range out {
		if bitutil.BitIsSet(validity, i) {
			out[i] = op.Call(x.at(i), y.at(i))
		}
	}
}

// executeChecked is the scalar loop of the checked operators. It stops at
// the first valid position whose result does not fit.
func executeChecked[T numeric, Op checkedOperator[T]](x, y laneSource[T], out []T, validity []byte, nulls int) error {
	var op Op
	for i := range out {
		if nulls > 0 && !bitutil.BitIsSet(validity, i) {
			continue
		}
		v, ok := op.CallChecked(x.at(i), y.at(i))
		if !ok {
			return fmt.Errorf("%w: overflow", arrow.ErrInvalid)
		}
		out[i] = v
	}
	return nil
}

var errDivideByZero = fmt.Errorf("%w: divide by zero", arrow.ErrInvalid)

// checkDivisors fails if a valid position of y holds an integer zero.
func checkDivisors[T numeric](y laneSource[T], n int, validity []byte, nulls int) error {
	if !isInteger[T]() {
		return nil
	}
	if b, ok := y.(broadcastSource[T]); ok {
		// a null scalar divisor masks every position
		if nulls < n && b.v == 0 {
			return errDivideByZero
		}
		return nil
	}
	for i := 0; i < n; i++ {
		if nulls > 0 && !bitutil.BitIsSet(validity, i) {
			continue
		}
		if y.at(i) == 0 {
			return errDivideByZero
		}
	}
	return nil
}
