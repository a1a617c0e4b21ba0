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
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/asmirnov82/compute-functions/internal/lanes"
)

var (
	unsignedIntTypes = []arrow.Type{
		arrow.UINT8,
		arrow.UINT16,
		arrow.UINT32,
		arrow.UINT64,
	}
	signedIntTypes = []arrow.Type{
		arrow.INT8,
		arrow.INT16,
		arrow.INT32,
		arrow.INT64,
	}
	intTypes = append(append([]arrow.Type{}, unsignedIntTypes...), signedIntTypes...)
	// widest first, the order in which they win promotion
	floatingTypes = []arrow.Type{
		arrow.FLOAT64,
		arrow.FLOAT32,
		arrow.FLOAT16,
	}
	numericTypes = append(append([]arrow.Type{}, intTypes...), floatingTypes...)
)

// NumericTypes returns the type ids of the eleven numeric kinds.
func NumericTypes() []arrow.Type {
	return append([]arrow.Type{}, numericTypes...)
}

// ExecOptions carries what a kernel needs beyond its arguments.
type ExecOptions struct {
	// Mem allocates the output buffers, memory.DefaultAllocator if nil.
	Mem memory.Allocator
	// Level is the widest vector tier the executors may use.
	// LevelNone forces the scalar loops.
	Level lanes.Level
}

func (o ExecOptions) mem() memory.Allocator {
	if o.Mem == nil {
		return memory.DefaultAllocator
	}
	return o.Mem
}

func (o ExecOptions) tiers() []lanes.Width { return o.Level.Tiers() }
