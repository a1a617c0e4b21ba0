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
	"sync"

	"github.com/asmirnov82/compute-functions/compute/internal/kernels"
	"golang.org/x/exp/slices"
)

// FunctionRegistry maps names to functions. A child registry sees every
// function of its parent but only ever adds to itself, and cannot shadow
// a name the parent already holds.
type FunctionRegistry interface {
	CanAddFunction(fn Function, allowOverwrite bool) bool
	AddFunction(fn Function, allowOverwrite bool) bool
	CanAddAlias(target, source string) bool
	AddAlias(target, source string) bool
	GetFunction(name string) (Function, bool)
	GetFunctionNames() []string
	NumFunctions() int

	canAddFuncName(string, bool) bool
}

var (
	registry FunctionRegistry
	once     sync.Once
)

// GetFunctionRegistry returns the process-wide registry holding the
// arithmetic and aggregate functions of this package.
func GetFunctionRegistry() FunctionRegistry {
	once.Do(func() {
		registry = NewRegistry()
		RegisterScalarArithmetic(registry)
		RegisterScalarAggregates(registry)
	})
	return registry
}

func NewRegistry() FunctionRegistry {
	return &funcRegistry{nameToFunction: make(map[string]Function)}
}

func NewChildRegistry(parent FunctionRegistry) FunctionRegistry {
	return &funcRegistry{
		parent:         parent.(*funcRegistry),
		nameToFunction: make(map[string]Function),
	}
}

type funcRegistry struct {
	parent *funcRegistry

	mx             sync.RWMutex
	nameToFunction map[string]Function
}

func (reg *funcRegistry) CanAddFunction(fn Function, allowOverwrite bool) bool {
	if reg.parent != nil && !reg.parent.CanAddFunction(fn, false) {
		return false
	}
	return reg.canAddFuncName(fn.Name(), allowOverwrite)
}

func (reg *funcRegistry) AddFunction(fn Function, allowOverwrite bool) bool {
	if reg.parent != nil && !reg.parent.CanAddFunction(fn, false) {
		return false
	}

	reg.mx.Lock()
	defer reg.mx.Unlock()

	if !reg.canAddNameLocked(fn.Name(), allowOverwrite) {
		return false
	}
	reg.nameToFunction[fn.Name()] = fn
	return true
}

func (reg *funcRegistry) CanAddAlias(target, source string) bool {
	if reg.parent != nil && !reg.parent.canAddFuncName(target, false) {
		return false
	}

	if _, ok := reg.GetFunction(source); !ok {
		return false
	}
	return reg.canAddFuncName(target, false)
}

// AddAlias registers the function known as source under the name target
// as well. The source may live in a parent registry.
func (reg *funcRegistry) AddAlias(target, source string) bool {
	if reg.parent != nil && !reg.parent.canAddFuncName(target, false) {
		return false
	}

	fn, ok := reg.GetFunction(source)
	if !ok {
		return false
	}

	reg.mx.Lock()
	defer reg.mx.Unlock()

	if !reg.canAddNameLocked(target, false) {
		return false
	}
	reg.nameToFunction[target] = fn
	return true
}

func (reg *funcRegistry) GetFunction(name string) (Function, bool) {
	reg.mx.RLock()
	fn, ok := reg.nameToFunction[name]
	reg.mx.RUnlock()

	if !ok && reg.parent != nil {
		return reg.parent.GetFunction(name)
	}
	return fn, ok
}

// GetFunctionNames returns the names of every function visible from reg,
// parent functions included, in sorted order.
func (reg *funcRegistry) GetFunctionNames() []string {
	var out []string
	if reg.parent != nil {
		out = reg.parent.GetFunctionNames()
	}

	reg.mx.RLock()
	for name := range reg.nameToFunction {
		out = append(out, name)
	}
	reg.mx.RUnlock()

	slices.Sort(out)
	return out
}

func (reg *funcRegistry) NumFunctions() (n int) {
	if reg.parent != nil {
		n = reg.parent.NumFunctions()
	}

	reg.mx.RLock()
	defer reg.mx.RUnlock()
	return n + len(reg.nameToFunction)
}

func (reg *funcRegistry) canAddFuncName(name string, allowOverwrite bool) bool {
	reg.mx.RLock()
	defer reg.mx.RUnlock()
	return reg.canAddNameLocked(name, allowOverwrite)
}

func (reg *funcRegistry) canAddNameLocked(name string, allowOverwrite bool) bool {
	if reg.parent != nil && !reg.parent.canAddFuncName(name, false) {
		return false
	}
	if allowOverwrite {
		return true
	}
	_, exists := reg.nameToFunction[name]
	return !exists
}

var (
	addDoc = FunctionDoc{
		Summary: "Add the arguments element-wise",
		Description: "Results will wrap around on integer overflow.\n" +
			"Use function \"add_checked\" if you want overflow\n" +
			"to return an error.",
		ArgNames: []string{"x", "y"},
	}
	addCheckedDoc = FunctionDoc{
		Summary: "Add the arguments element-wise",
		Description: "This function returns an error on integer overflow.\n" +
			"For a variant that doesn't fail on overflow, use function \"add\".",
		ArgNames: []string{"x", "y"},
	}
	subDoc = FunctionDoc{
		Summary: "Subtract the arguments element-wise",
		Description: "Results will wrap around on integer overflow.\n" +
			"Use function \"subtract_checked\" if you want overflow\n" +
			"to return an error.",
		ArgNames: []string{"x", "y"},
	}
	subCheckedDoc = FunctionDoc{
		Summary: "Subtract the arguments element-wise",
		Description: "This function returns an error on integer overflow.\n" +
			"For a variant that doesn't fail on overflow, use function \"subtract\".",
		ArgNames: []string{"x", "y"},
	}
	mulDoc = FunctionDoc{
		Summary: "Multiply the arguments element-wise",
		Description: "Results will wrap around on integer overflow.\n" +
			"Use function \"multiply_checked\" if you want overflow\n" +
			"to return an error.",
		ArgNames: []string{"x", "y"},
	}
	mulCheckedDoc = FunctionDoc{
		Summary: "Multiply the arguments element-wise",
		Description: "This function returns an error on integer overflow.\n" +
			"For a variant that doesn't fail on overflow, use function \"multiply\".",
		ArgNames: []string{"x", "y"},
	}
	divDoc = FunctionDoc{
		Summary: "Divide the arguments element-wise",
		Description: "Integer division by zero returns an error. However, integer overflow\n" +
			"wraps around, and floating-point division by zero returns an infinite\n" +
			"value. Use function \"divide_checked\" if you want to get an error\n" +
			"on overflow.",
		ArgNames: []string{"dividend", "divisor"},
	}
	divCheckedDoc = FunctionDoc{
		Summary: "Divide the arguments element-wise",
		Description: "An error is returned when trying to divide by zero,\n" +
			"or when integer overflow is encountered.",
		ArgNames: []string{"dividend", "divisor"},
	}
	modDoc = FunctionDoc{
		Summary: "Compute the remainder of dividing the arguments element-wise",
		Description: "The result takes the sign of the dividend. Integer division\n" +
			"by zero returns an error, floating-point remainders follow math.Mod.",
		ArgNames: []string{"dividend", "divisor"},
	}
	sumDoc = FunctionDoc{
		Summary: "Compute the sum of a numeric array",
		Description: "Null values are ignored. Integers sum to int64 or uint64 and\n" +
			"floating-point values to float64. An all-null input sums to zero.",
		ArgNames: []string{"array"},
	}
	minDoc = FunctionDoc{
		Summary: "Compute the minimum value of a numeric array",
		Description: "Null values are ignored. The result has the input type. An empty\n" +
			"or all-null input returns the largest value of that type.",
		ArgNames: []string{"array"},
	}
	maxDoc = FunctionDoc{
		Summary: "Compute the maximum value of a numeric array",
		Description: "Null values are ignored. The result has the input type. An empty\n" +
			"or all-null input returns the smallest value of that type.",
		ArgNames: []string{"array"},
	}
)

// RegisterScalarArithmetic adds the binary arithmetic functions, checked
// variants included, to reg.
func RegisterScalarArithmetic(reg FunctionRegistry) {
	fns := []struct {
		op  kernels.ArithmeticOp
		doc FunctionDoc
	}{
		{kernels.OpAdd, addDoc},
		{kernels.OpAddChecked, addCheckedDoc},
		{kernels.OpSub, subDoc},
		{kernels.OpSubChecked, subCheckedDoc},
		{kernels.OpMul, mulDoc},
		{kernels.OpMulChecked, mulCheckedDoc},
		{kernels.OpDiv, divDoc},
		{kernels.OpDivChecked, divCheckedDoc},
		{kernels.OpMod, modDoc},
	}

	for _, f := range fns {
		fn := newArithmeticFunction(f.op, f.doc)
		if err := fn.Validate(); err != nil {
			panic(err)
		}
		reg.AddFunction(fn, false)
	}
}

// RegisterScalarAggregates adds sum, min and max to reg.
func RegisterScalarAggregates(reg FunctionRegistry) {
	for op, doc := range map[kernels.AggregateOp]FunctionDoc{
		kernels.AggSum: sumDoc,
		kernels.AggMin: minDoc,
		kernels.AggMax: maxDoc,
	} {
		fn := newAggregateFunction(op, doc)
		if err := fn.Validate(); err != nil {
			panic(err)
		}
		reg.AddFunction(fn, false)
	}
}
