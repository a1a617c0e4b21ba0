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

package lanes_test

import (
	"math"
	"testing"

	"github.com/asmirnov82/compute-functions/internal/lanes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		exp lanes.Level
	}{
		{"none", lanes.LevelNone},
		{" 0 ", lanes.LevelNone},
		{"128", lanes.Level128},
		{"NEON", lanes.Level128},
		{"avx2", lanes.Level256},
		{"512", lanes.Level512},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			l, err := lanes.ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.exp, l)
		})
	}

	_, err := lanes.ParseLevel("1024")
	assert.Error(t, err)
}

func TestLevelTiers(t *testing.T) {
	assert.Empty(t, lanes.LevelNone.Tiers())
	assert.Equal(t, []lanes.Width{lanes.Width128}, lanes.Level128.Tiers())
	assert.Equal(t, []lanes.Width{lanes.Width256, lanes.Width128}, lanes.Level256.Tiers())
	assert.Equal(t, []lanes.Width{lanes.Width512, lanes.Width256, lanes.Width128}, lanes.Level512.Tiers())

	assert.Equal(t, lanes.Level128, lanes.Level512.Cap(lanes.Level128))
	assert.Equal(t, lanes.Level128, lanes.Level128.Cap(lanes.Level512))
	assert.LessOrEqual(t, lanes.Default(), lanes.Detected())
}

func TestCount(t *testing.T) {
	assert.Equal(t, 16, lanes.Count[int8](lanes.Width128))
	assert.Equal(t, 8, lanes.Count[uint16](lanes.Width128))
	assert.Equal(t, 8, lanes.Count[float32](lanes.Width256))
	assert.Equal(t, 8, lanes.Count[int64](lanes.Width512))
	assert.Equal(t, 64, lanes.MaxCount[uint8]())
	assert.Equal(t, 512, lanes.Width512.Bits())
}

func TestLaneMath(t *testing.T) {
	x := []int32{1, 5, -3, 7}
	y := []int32{2, 2, 4, -7}
	out := make([]int32, 4)

	lanes.Add(out, x, y)
	assert.Equal(t, []int32{3, 7, 1, 0}, out)
	lanes.Sub(out, x, y)
	assert.Equal(t, []int32{-1, 3, -7, 14}, out)
	lanes.Mul(out, x, y)
	assert.Equal(t, []int32{2, 10, -12, -49}, out)
	lanes.Div(out, x, y)
	assert.Equal(t, []int32{0, 2, 0, -1}, out)
	lanes.Min(out, x, y)
	assert.Equal(t, []int32{1, 2, -3, -7}, out)
	lanes.Max(out, x, y)
	assert.Equal(t, []int32{2, 5, 4, 7}, out)

	// only len(out) lanes are touched
	short := make([]int32, 2)
	lanes.Add(short, x, y)
	assert.Equal(t, []int32{3, 7}, short)

	lanes.Set(out, 9)
	assert.Equal(t, []int32{9, 9, 9, 9}, out)
}

func TestReduce(t *testing.T) {
	v := []float64{2.5, -1, math.MaxFloat64, 0}
	assert.Equal(t, -1.0, lanes.ReduceMin(v))
	assert.Equal(t, math.MaxFloat64, lanes.ReduceMax(v))
	assert.Equal(t, int64(10), lanes.ReduceSum([]int64{1, 2, 3, 4}))
	assert.Equal(t, uint8(255), lanes.ReduceMax([]uint8{0, 255, 3}))
	assert.Zero(t, lanes.ReduceSum([]int16{}))
}

func TestInfo(t *testing.T) {
	info := lanes.Info()
	assert.Equal(t, lanes.Detected().String(), info.Detected)
	assert.Equal(t, lanes.Default().String(), info.Default)
}
