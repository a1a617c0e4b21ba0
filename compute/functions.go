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
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/asmirnov82/compute-functions/compute/internal/kernels"
	"golang.org/x/xerrors"
)

// FunctionOptions configures a function call. The functions registered
// here take none, so nil is always accepted.
type FunctionOptions interface {
	TypeName() string
}

type Function interface {
	Name() string
	Kind() FuncKind
	Arity() Arity
	Doc() FunctionDoc
	Execute(context.Context, FunctionOptions, ...Datum) (Datum, error)
	Validate() error
}

// Arity is the number of arguments a function takes. A vararg function
// takes at least NArgs.
type Arity struct {
	NArgs     int
	IsVarArgs bool
}

func Nullary() Arity            { return Arity{0, false} }
func Unary() Arity              { return Arity{1, false} }
func Binary() Arity             { return Arity{2, false} }
func VarArgs(minArgs int) Arity { return Arity{minArgs, true} }

type FunctionDoc struct {
	Summary     string
	Description string
	ArgNames    []string
}

var EmptyFuncDoc FunctionDoc

type FuncKind int8

const (
	FuncScalar    FuncKind = iota // Scalar
	FuncScalarAgg                 // ScalarAggregate
)

func (k FuncKind) String() string {
	switch k {
	case FuncScalar:
		return "Scalar"
	case FuncScalarAgg:
		return "ScalarAggregate"
	}
	return fmt.Sprintf("FuncKind(%d)", int8(k))
}

func validateSummary(summary string) error {
	switch {
	case strings.Contains(summary, "\n"):
		return fmt.Errorf("%w: summary contains a newline", arrow.ErrInvalid)
	case strings.HasSuffix(summary, "."):
		return fmt.Errorf("%w: summary ends with a point", arrow.ErrInvalid)
	}
	return nil
}

func validateDescription(desc string) error {
	if strings.HasSuffix(desc, "\n") {
		return fmt.Errorf("%w: description ends with a newline", arrow.ErrInvalid)
	}

	const maxLineSize = 78
	for _, ln := range strings.Split(desc, "\n") {
		if len(ln) > maxLineSize {
			return fmt.Errorf("%w: description line length exceeds %d characters", arrow.ErrInvalid, maxLineSize)
		}
	}
	return nil
}

type baseFunction struct {
	name  string
	kind  FuncKind
	arity Arity
	doc   FunctionDoc
}

func (b *baseFunction) Name() string     { return b.name }
func (b *baseFunction) Kind() FuncKind   { return b.kind }
func (b *baseFunction) Arity() Arity     { return b.arity }
func (b *baseFunction) Doc() FunctionDoc { return b.doc }

// Validate checks that the documentation matches the arity and is
// well formed. An undocumented function is always valid.
func (b *baseFunction) Validate() error {
	if b.doc.Summary == "" {
		return nil
	}

	if len(b.doc.ArgNames) != b.arity.NArgs {
		return xerrors.Errorf("in function '%s': number of argument names for function doc != function arity", b.name)
	}

	if err := validateSummary(b.doc.Summary); err != nil {
		return err
	}
	return validateDescription(b.doc.Description)
}

func (b *baseFunction) checkArity(nargs int) error {
	switch {
	case b.arity.IsVarArgs && nargs < b.arity.NArgs:
		return fmt.Errorf("%w: varargs function '%s' needs at least %d arguments, but only %d passed",
			arrow.ErrInvalid, b.name, b.arity.NArgs, nargs)
	case !b.arity.IsVarArgs && nargs != b.arity.NArgs:
		return fmt.Errorf("%w: function '%s' accepts %d arguments but %d passed",
			arrow.ErrInvalid, b.name, b.arity.NArgs, nargs)
	}
	return nil
}

// ArithmeticFunction is an element-wise binary function over numeric
// arrays and scalars.
type ArithmeticFunction struct {
	baseFunction

	op kernels.ArithmeticOp
}

func newArithmeticFunction(op kernels.ArithmeticOp, doc FunctionDoc) *ArithmeticFunction {
	return &ArithmeticFunction{
		baseFunction: baseFunction{name: op.String(), kind: FuncScalar, arity: Binary(), doc: doc},
		op:           op,
	}
}

func (fn *ArithmeticFunction) Execute(ctx context.Context, _ FunctionOptions, args ...Datum) (Datum, error) {
	if err := fn.checkArity(len(args)); err != nil {
		return nil, err
	}
	return execArithmetic(ctx, fn.op, args[0], args[1])
}

// AggregateFunction reduces one numeric array to a scalar.
type AggregateFunction struct {
	baseFunction

	op kernels.AggregateOp
}

func newAggregateFunction(op kernels.AggregateOp, doc FunctionDoc) *AggregateFunction {
	return &AggregateFunction{
		baseFunction: baseFunction{name: op.String(), kind: FuncScalarAgg, arity: Unary(), doc: doc},
		op:           op,
	}
}

func (fn *AggregateFunction) Execute(ctx context.Context, _ FunctionOptions, args ...Datum) (Datum, error) {
	if err := fn.checkArity(len(args)); err != nil {
		return nil, err
	}
	return execAggregate(ctx, fn.op, args[0])
}

var (
	_ Function = (*ArithmeticFunction)(nil)
	_ Function = (*AggregateFunction)(nil)
)
