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
	"github.com/apache/arrow/go/v17/arrow/float16"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/asmirnov82/compute-functions/compute/internal/exec"
	"github.com/asmirnov82/compute-functions/internal/debug"
	"github.com/asmirnov82/compute-functions/internal/lanes"
)

// laneSource yields operand values in the working kind T, either one at a
// time or a vector at a time.
type laneSource[T numeric] interface {
	// vectorizable reports whether load and loadWide may be used.
	vectorizable() bool
	// widens reports whether the source reads a kind half as wide as T,
	// in which case loadWide is the natural vector access.
	widens() bool
	at(i int) T
	// load returns len(buf) lanes starting at i. The result is either a
	// view of the underlying values or buf itself.
	load(buf []T, i int) []T
	// loadWide fills lo and hi with the 2*len(lo) lanes starting at i.
	loadWide(lo, hi []T, i int)
}

// spanSource reads values that are already stored in the working kind.
type spanSource[T numeric] struct {
	values []T
}

func (spanSource[T]) vectorizable() bool { return true }
func (spanSource[T]) widens() bool       { return false }
func (s spanSource[T]) at(i int) T       { return s.values[i] }

func (s spanSource[T]) load(buf []T, i int) []T { return s.values[i : i+len(buf)] }

func (s spanSource[T]) loadWide(lo, hi []T, i int) {
	n := len(lo)
	copy(lo, s.values[i:i+n])
	copy(hi, s.values[i+n:i+2*n])
}

// broadcastSource repeats a single value in every lane.
type broadcastSource[T numeric] struct {
	v   T
	vec []T
}

func newBroadcastSource[T numeric](v T) broadcastSource[T] {
	vec := make([]T, lanes.MaxCount[T]())
	lanes.Set(vec, v)
	return broadcastSource[T]{v: v, vec: vec}
}

func (broadcastSource[T]) vectorizable() bool        { return true }
func (broadcastSource[T]) widens() bool              { return false }
func (b broadcastSource[T]) at(int) T                { return b.v }
func (b broadcastSource[T]) load(buf []T, _ int) []T { return b.vec[:len(buf)] }

func (b broadcastSource[T]) loadWide(lo, hi []T, _ int) {
	lanes.Set(lo, b.v)
	lanes.Set(hi, b.v)
}

// convertSource reads values of kind S through a Converter.
type convertSource[T numeric, S any, C Converter[T, S]] struct {
	values []S
	conv   C
}

func (c convertSource[T, S, C]) vectorizable() bool { return c.conv.Vectorizable() }
func (convertSource[T, S, C]) widens() bool         { return false }
func (c convertSource[T, S, C]) at(i int) T         { return c.conv.Convert(c.values[i]) }

func (c convertSource[T, S, C]) load(buf []T, i int) []T {
	c.conv.ConvertVec(buf, c.values[i:i+len(buf)])
	return buf
}

func (c convertSource[T, S, C]) loadWide(lo, hi []T, i int) {
	n := len(lo)
	c.conv.ConvertVec(lo, c.values[i:i+n])
	c.conv.ConvertVec(hi, c.values[i+n:i+2*n])
}

// widenSource reads values of kind S, half as wide as T, through a Widener.
type widenSource[T, S numeric, W Widener[T, S]] struct {
	values []S
	w      W
}

func (widenSource[T, S, W]) vectorizable() bool { return true }
func (widenSource[T, S, W]) widens() bool       { return true }
func (s widenSource[T, S, W]) at(i int) T       { return s.w.Widen(s.values[i]) }

func (s widenSource[T, S, W]) load(buf []T, i int) []T {
	for j, v := range s.values[i : i+len(buf)] {
		buf[j] = s.w.Widen(v)
	}
	return buf
}

func (s widenSource[T, S, W]) loadWide(lo, hi []T, i int) {
	s.w.WidenVec(lo, hi, s.values[i:i+2*len(lo)])
}

// sourceFrom wraps values of kind S so they read as the working kind T of
// a result of kind res.
func sourceFrom[T, S numeric](values []S, step Step, res arrow.Type) laneSource[T] {
	if res == arrow.FLOAT16 {
		return convertSource[T, S, HalfRounder[T, S]]{values: values}
	}

	switch step {
	case StepNone:
		return spanSource[T]{values: any(values).([]T)}
	case StepWiden:
		return widenSource[T, S, NumericWidener[T, S]]{values: values}
	}
	return convertSource[T, S, NumericConverter[T, S]]{values: values}
}

func halfSource[T numeric](values []float16.Num) laneSource[T] {
	return convertSource[T, float16.Num, HalfReader[T]]{values: values}
}

// arraySource returns the values of a numeric array as a lane source of
// the working kind T.
func arraySource[T numeric](data arrow.ArrayData, step Step, res arrow.Type) laneSource[T] {
	switch data.DataType().ID() {
	case arrow.INT8:
		return sourceFrom[T](exec.GetValues[int8](data, 1), step, res)
	case arrow.INT16:
		return sourceFrom[T](exec.GetValues[int16](data, 1), step, res)
	case arrow.INT32:
		return sourceFrom[T](exec.GetValues[int32](data, 1), step, res)
	case arrow.INT64:
		return sourceFrom[T](exec.GetValues[int64](data, 1), step, res)
	case arrow.UINT8:
		return sourceFrom[T](exec.GetValues[uint8](data, 1), step, res)
	case arrow.UINT16:
		return sourceFrom[T](exec.GetValues[uint16](data, 1), step, res)
	case arrow.UINT32:
		return sourceFrom[T](exec.GetValues[uint32](data, 1), step, res)
	case arrow.UINT64:
		return sourceFrom[T](exec.GetValues[uint64](data, 1), step, res)
	case arrow.FLOAT16:
		return halfSource[T](exec.GetValues[float16.Num](data, 1))
	case arrow.FLOAT32:
		return sourceFrom[T](exec.GetValues[float32](data, 1), step, res)
	case arrow.FLOAT64:
		return sourceFrom[T](exec.GetValues[float64](data, 1), step, res)
	}
	debug.Assert(false, "invalid arithmetic type")
	return nil
}

// scalarSource converts the value of a numeric scalar once and broadcasts
// it. A null scalar broadcasts zero; its positions are masked out by the
// output validity.
func scalarSource[T numeric](s scalar.Scalar, step Step, res arrow.Type) laneSource[T] {
	var v T
	if s.IsValid() {
		switch s := s.(type) {
		case *scalar.Int8:
			v = sourceFrom[T]([]int8{s.Value}, step, res).at(0)
		case *scalar.Int16:
			v = sourceFrom[T]([]int16{s.Value}, step, res).at(0)
		case *scalar.Int32:
			v = sourceFrom[T]([]int32{s.Value}, step, res).at(0)
		case *scalar.Int64:
			v = sourceFrom[T]([]int64{s.Value}, step, res).at(0)
		case *scalar.Uint8:
			v = sourceFrom[T]([]uint8{s.Value}, step, res).at(0)
		case *scalar.Uint16:
			v = sourceFrom[T]([]uint16{s.Value}, step, res).at(0)
		case *scalar.Uint32:
			v = sourceFrom[T]([]uint32{s.Value}, step, res).at(0)
		case *scalar.Uint64:
			v = sourceFrom[T]([]uint64{s.Value}, step, res).at(0)
		case *scalar.Float16:
			v = halfSource[T]([]float16.Num{s.Value}).at(0)
		case *scalar.Float32:
			v = sourceFrom[T]([]float32{s.Value}, step, res).at(0)
		case *scalar.Float64:
			v = sourceFrom[T]([]float64{s.Value}, step, res).at(0)
		default:
			debug.Assert(false, "invalid arithmetic type")
		}
	}
	return newBroadcastSource(v)
}
