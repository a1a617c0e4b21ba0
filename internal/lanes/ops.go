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

package lanes

import "golang.org/x/exp/constraints"

// Number is the set of Go types that can occupy a lane.
type Number interface {
	constraints.Integer | constraints.Float
}

// Set broadcasts v into every lane of dst.
func Set[T Number](dst []T, v T) {
	for i := range dst {
		dst[i] = v
	}
}

// The element-wise functions below operate on len(out) lanes; x and y must
// hold at least as many.

func Add[T Number](out, x, y []T) {
	x, y = x[:len(out)], y[:len(out)]
	for i := range out {
		out[i] = x[i] + y[i]
	}
}

func Sub[T Number](out, x, y []T) {
	x, y = x[:len(out)], y[:len(out)]
	for i := range out {
		out[i] = x[i] - y[i]
	}
}

func Mul[T Number](out, x, y []T) {
	x, y = x[:len(out)], y[:len(out)]
	for i := range out {
		out[i] = x[i] * y[i]
	}
}

// Div panics on an integer zero lane in y.
func Div[T Number](out, x, y []T) {
	x, y = x[:len(out)], y[:len(out)]
	for i := range out {
		out[i] = x[i] / y[i]
	}
}

func Min[T Number](out, x, y []T) {
	x, y = x[:len(out)], y[:len(out)]
	for i := range out {
		if y[i] < x[i] {
			out[i] = y[i]
		} else {
			out[i] = x[i]
		}
	}
}

func Max[T Number](out, x, y []T) {
	x, y = x[:len(out)], y[:len(out)]
	for i := range out {
		if y[i] > x[i] {
			out[i] = y[i]
		} else {
			out[i] = x[i]
		}
	}
}

// ReduceSum folds every lane of v with +.
func ReduceSum[T Number](v []T) (s T) {
	for _, e := range v {
		s += e
	}
	return
}

// ReduceMin returns the smallest lane of v. v must not be empty.
func ReduceMin[T Number](v []T) T {
	m := v[0]
	for _, e := range v[1:] {
		if e < m {
			m = e
		}
	}
	return m
}

// ReduceMax returns the largest lane of v. v must not be empty.
func ReduceMax[T Number](v []T) T {
	m := v[0]
	for _, e := range v[1:] {
		if e > m {
			m = e
		}
	}
	return m
}
