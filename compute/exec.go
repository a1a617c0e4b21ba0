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

package compute

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/asmirnov82/compute-functions/compute/internal/kernels"
	"github.com/asmirnov82/compute-functions/internal/lanes"
	"golang.org/x/xerrors"
)

// ExecCtx holds the execution settings of a call. It travels in the
// context.Context given to every function, see SetExecCtx.
type ExecCtx struct {
	// Alloc allocates result buffers.
	Alloc memory.Allocator
	// MaxVectorWidth is the widest lane tier the kernels may use.
	// lanes.LevelNone forces the scalar loops.
	MaxVectorWidth lanes.Level
	// Registry resolves names in CallFunction.
	Registry FunctionRegistry
}

type ctxExecKey struct{}

var defaultExecCtx ExecCtx

func init() {
	defaultExecCtx.Alloc = memory.DefaultAllocator
	defaultExecCtx.MaxVectorWidth = lanes.Default()
	defaultExecCtx.Registry = GetFunctionRegistry()
}

// DefaultExecCtx returns the settings used when a context carries none.
func DefaultExecCtx() ExecCtx { return defaultExecCtx }

// SetExecCtx returns a copy of ctx carrying e.
func SetExecCtx(ctx context.Context, e ExecCtx) context.Context {
	return context.WithValue(ctx, ctxExecKey{}, e)
}

// GetExecCtx returns the ExecCtx carried by ctx, or the default one.
func GetExecCtx(ctx context.Context) ExecCtx {
	e, ok := ctx.Value(ctxExecKey{}).(ExecCtx)
	if ok {
		return e
	}
	return defaultExecCtx
}

// WithAllocator returns a copy of ctx whose ExecCtx allocates from mem.
func WithAllocator(ctx context.Context, mem memory.Allocator) context.Context {
	e := GetExecCtx(ctx)
	e.Alloc = mem
	return SetExecCtx(ctx, e)
}

func (e ExecCtx) kernelOptions() kernels.ExecOptions {
	return kernels.ExecOptions{Mem: e.Alloc, Level: e.MaxVectorWidth}
}

// CallFunction looks up the function called name in the registry of the
// context's ExecCtx and executes it with args.
func CallFunction(ctx context.Context, name string, opts FunctionOptions, args ...Datum) (Datum, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reg := GetExecCtx(ctx).Registry
	if reg == nil {
		reg = GetFunctionRegistry()
	}

	fn, ok := reg.GetFunction(name)
	if !ok {
		return nil, xerrors.Errorf("function '%s': %w", name, arrow.ErrNotFound)
	}
	return fn.Execute(ctx, opts, args...)
}

// missingDatum reports whether d carries no value at all.
func missingDatum(d Datum) bool {
	switch v := d.(type) {
	case nil:
		return true
	case *ArrayDatum:
		return v == nil || v.Value == nil
	case *ScalarDatum:
		return v == nil || v.Value == nil
	}
	return false
}

func execArithmetic(ctx context.Context, op kernels.ArithmeticOp, left, right Datum) (Datum, error) {
	if missingDatum(left) || missingDatum(right) {
		return nil, fmt.Errorf("%w: %s called with a nil argument", arrow.ErrInvalid, op)
	}
	opts := GetExecCtx(ctx).kernelOptions()

	switch l := left.(type) {
	case *ArrayDatum:
		switch r := right.(type) {
		case *ArrayDatum:
			out, err := kernels.ArithmeticArrayArray(opts, op, l.Value, r.Value)
			return arrayResult(out, err)
		case *ScalarDatum:
			out, err := kernels.ArithmeticArrayScalar(opts, op, l.Value, r.Value)
			return arrayResult(out, err)
		}
	case *ScalarDatum:
		switch r := right.(type) {
		case *ArrayDatum:
			out, err := kernels.ArithmeticScalarArray(opts, op, l.Value, r.Value)
			return arrayResult(out, err)
		case *ScalarDatum:
			out, err := kernels.ArithmeticScalarScalar(opts, op, l.Value, r.Value)
			if err != nil {
				return nil, err
			}
			return &ScalarDatum{out}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s of %s and %s", arrow.ErrNotImplemented, op, left.Kind(), right.Kind())
}

func arrayResult(out arrow.ArrayData, err error) (Datum, error) {
	if err != nil {
		return nil, err
	}
	return &ArrayDatum{out}, nil
}

func execAggregate(ctx context.Context, op kernels.AggregateOp, arg Datum) (Datum, error) {
	if missingDatum(arg) {
		return nil, fmt.Errorf("%w: %s called with a nil argument", arrow.ErrInvalid, op)
	}
	a, ok := arg.(*ArrayDatum)
	if !ok {
		return nil, fmt.Errorf("%w: %s of a %s, only arrays are supported", arrow.ErrNotImplemented, op, arg.Kind())
	}

	out, err := kernels.Aggregate(GetExecCtx(ctx).kernelOptions(), op, a.Value)
	if err != nil {
		return nil, err
	}
	return &ScalarDatum{out}, nil
}
