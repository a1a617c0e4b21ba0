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
	"github.com/asmirnov82/compute-functions/compute/internal/exec"
)

// Step says how an operand reaches the result kind.
type Step int8

const (
	StepNone Step = iota
	StepConvert
	StepWiden
)

func (s Step) String() string {
	switch s {
	case StepConvert:
		return "convert"
	case StepWiden:
		return "widen"
	}
	return "none"
}

// Promotion is the result kind of a binary operation together with the
// step each operand takes to get there.
type Promotion struct {
	Result arrow.Type
	X, Y   Step
}

// Promote returns the common kind of a binary operation over kx and ky.
// The table is symmetric: swapping the operands swaps X and Y and keeps
// Result. A null operand makes the whole result null.
//
//   - float64 on either side gives float64, then float32, then float16
//     (integers are converted, 64-bit ones with loss of precision)
//   - two integers of the same signedness give the wider one
//   - a signed and an unsigned integer give the signed kind wide enough
//     for both ranges; uint64 has no such partner
func Promote(kx, ky arrow.Type) (Promotion, error) {
	if kx == arrow.NULL || ky == arrow.NULL {
		if (kx == arrow.NULL || exec.IsNumeric(kx)) && (ky == arrow.NULL || exec.IsNumeric(ky)) {
			return Promotion{Result: arrow.NULL}, nil
		}
	}

	if !exec.IsNumeric(kx) || !exec.IsNumeric(ky) {
		return Promotion{}, fmt.Errorf("%w: unsupported combination of %s and %s",
			arrow.ErrNotImplemented, kx, ky)
	}

	res, ok := commonKind(kx, ky)
	if !ok {
		return Promotion{}, fmt.Errorf("%w: unsupported combination of %s and %s",
			arrow.ErrNotImplemented, kx, ky)
	}
	return Promotion{Result: res, X: stepTo(kx, res), Y: stepTo(ky, res)}, nil
}

func commonKind(kx, ky arrow.Type) (arrow.Type, bool) {
	for _, f := range floatingTypes {
		if kx == f || ky == f {
			return f, true
		}
	}

	wx, wy := exec.ByteWidth(kx), exec.ByteWidth(ky)
	sx, sy := isSignedKind(kx), isSignedKind(ky)
	if sx == sy {
		if wx >= wy {
			return kx, true
		}
		return ky, true
	}

	ws, wu := wx, wy
	if sy {
		ws, wu = wy, wx
	}
	w := 2 * wu
	if ws > w {
		w = ws
	}
	return signedOfWidth(w)
}

func stepTo(k, res arrow.Type) Step {
	switch {
	case k == res:
		return StepNone
	case k != arrow.FLOAT16 && res != arrow.FLOAT16 &&
		exec.ByteWidth(res) == 2*exec.ByteWidth(k):
		return StepWiden
	}
	return StepConvert
}

func isSignedKind(k arrow.Type) bool {
	switch k {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return true
	}
	return false
}

func signedOfWidth(w int) (arrow.Type, bool) {
	switch w {
	case 1:
		return arrow.INT8, true
	case 2:
		return arrow.INT16, true
	case 4:
		return arrow.INT32, true
	case 8:
		return arrow.INT64, true
	}
	return arrow.NULL, false
}
