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
	"github.com/JohnCGriffin/overflow"
)

// The checked variants return false when the integer result does not fit
// in T. Floating point values are never reported.

func addChecked[T numeric](x, y T) (T, bool) {
	switch a := any(x).(type) {
	case int8:
		r, ok := overflow.Add8(a, any(y).(int8))
		return T(r), ok
	case int16:
		r, ok := overflow.Add16(a, any(y).(int16))
		return T(r), ok
	case int32:
		r, ok := overflow.Add32(a, any(y).(int32))
		return T(r), ok
	case int64:
		r, ok := overflow.Add64(a, any(y).(int64))
		return T(r), ok
	case float32, float64:
		return x + y, true
	}
	r := x + y
	return r, r >= x
}

func subChecked[T numeric](x, y T) (T, bool) {
	switch a := any(x).(type) {
	case int8:
		r, ok := overflow.Sub8(a, any(y).(int8))
		return T(r), ok
	case int16:
		r, ok := overflow.Sub16(a, any(y).(int16))
		return T(r), ok
	case int32:
		r, ok := overflow.Sub32(a, any(y).(int32))
		return T(r), ok
	case int64:
		r, ok := overflow.Sub64(a, any(y).(int64))
		return T(r), ok
	case float32, float64:
		return x - y, true
	}
	return x - y, x >= y
}

func mulChecked[T numeric](x, y T) (T, bool) {
	switch a := any(x).(type) {
	case int8:
		r, ok := overflow.Mul8(a, any(y).(int8))
		return T(r), ok
	case int16:
		r, ok := overflow.Mul16(a, any(y).(int16))
		return T(r), ok
	case int32:
		r, ok := overflow.Mul32(a, any(y).(int32))
		return T(r), ok
	case int64:
		r, ok := overflow.Mul64(a, any(y).(int64))
		return T(r), ok
	case float32, float64:
		return x * y, true
	}
	if x == 0 {
		return 0, true
	}
	r := x * y
	return r, r/x == y
}

// divChecked fails for the most negative signed value divided by -1 and
// for a zero divisor.
func divChecked[T numeric](x, y T) (T, bool) {
	switch a := any(x).(type) {
	case int8:
		r, ok := overflow.Div8(a, any(y).(int8))
		return T(r), ok
	case int16:
		r, ok := overflow.Div16(a, any(y).(int16))
		return T(r), ok
	case int32:
		r, ok := overflow.Div32(a, any(y).(int32))
		return T(r), ok
	case int64:
		r, ok := overflow.Div64(a, any(y).(int64))
		return T(r), ok
	case float32, float64:
		return x / y, true
	}
	if y == 0 {
		return 0, false
	}
	return x / y, true
}
