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

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/docopt/docopt-go"
	"github.com/go-kit/log"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, argv ...string) config {
	t.Helper()
	p := &docopt.Parser{HelpHandler: docopt.NoHelpHandler}
	cfg, err := parseArgs(p, argv)
	require.NoError(t, err)
	return cfg
}

func TestParseArgs(t *testing.T) {
	cfg := parse(t, "call", "add", "int32", "[1, 2]", "float64", "0.5", "--checked", "--simd=128")
	assert.True(t, cfg.Call)
	assert.Equal(t, "add", cfg.Function)
	assert.Equal(t, "int32", cfg.Type)
	assert.Equal(t, "[1, 2]", cfg.Values)
	assert.Equal(t, "float64", cfg.Type2)
	assert.Equal(t, "0.5", cfg.Values2)
	assert.True(t, cfg.Checked)
	assert.Equal(t, "128", cfg.SIMD)
	assert.False(t, cfg.Verbose)

	cfg = parse(t, "call", "sum", "uint16", "[1, 2, 3]")
	assert.Empty(t, cfg.Type2)
	assert.Empty(t, cfg.SIMD)

	assert.True(t, parse(t, "list").List)
	assert.True(t, parse(t, "cpu").CPU)
}

type decoded struct {
	Type   string        `json:"type"`
	Values []interface{} `json:"values"`
	Value  interface{}   `json:"value"`
}

func call(t *testing.T, argv ...string) (decoded, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(parse(t, append([]string{"call"}, argv...)...), &out, log.NewNopLogger())
	if err != nil {
		return decoded{}, err
	}

	var res decoded
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	return res, nil
}

func TestCallArrays(t *testing.T) {
	res, err := call(t, "multiply", "int32", "[4, 1, null, null]", "int32", "[2, null, 1, null]")
	require.NoError(t, err)
	assert.Equal(t, "int32", res.Type)
	assert.Equal(t, []interface{}{8.0, nil, nil, nil}, res.Values)

	res, err = call(t, "add", "int32", "[0, 1, 2]", "float64", "[1, 0.5, 1]", "--simd=none")
	require.NoError(t, err)
	assert.Equal(t, "float64", res.Type)
	assert.Equal(t, []interface{}{1.0, 1.5, 3.0}, res.Values)

	res, err = call(t, "subtract", "uint8", "[10, 20]", "int8", "3")
	require.NoError(t, err)
	assert.Equal(t, "int16", res.Type)
	assert.Equal(t, []interface{}{7.0, 17.0}, res.Values)
}

func TestCallScalars(t *testing.T) {
	res, err := call(t, "add", "float16", "1.5", "int8", "2")
	require.NoError(t, err)
	assert.Equal(t, "float16", res.Type)
	assert.Equal(t, 3.5, res.Value)

	res, err = call(t, "sum", "uint16", "[1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15]")
	require.NoError(t, err)
	assert.Equal(t, "uint64", res.Type)
	assert.Equal(t, 120.0, res.Value)

	res, err = call(t, "max", "float32", "[25, -1, 345, -3, 45, -2]")
	require.NoError(t, err)
	assert.Equal(t, 345.0, res.Value)

	res, err = call(t, "multiply", "int32", "null", "int32", "[1, 2]")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{nil, nil}, res.Values)
}

func TestCallErrors(t *testing.T) {
	_, err := call(t, "add", "int8", "[100]", "int8", "[100]", "--checked")
	assert.ErrorIs(t, err, arrow.ErrInvalid)

	_, err = call(t, "divide", "int32", "[1, 2]", "int32", "0")
	assert.ErrorIs(t, err, arrow.ErrInvalid)

	_, err = call(t, "add", "string", "[\"a\"]", "int32", "1")
	assert.ErrorIs(t, err, arrow.ErrInvalid)

	_, err = call(t, "power", "int32", "[1]", "int32", "[2]")
	assert.ErrorIs(t, err, arrow.ErrNotFound)

	_, err = call(t, "add", "int32", "[1]", "int32", "[2]", "--simd=1024")
	assert.Error(t, err)
}

func TestListAndCPU(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(parse(t, "list"), &out, log.NewNopLogger()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 12)
	assert.True(t, strings.HasPrefix(lines[0], "add "))
	assert.Contains(t, out.String(), "ScalarAggregate")

	out.Reset()
	require.NoError(t, run(parse(t, "cpu"), &out, log.NewNopLogger()))
	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Contains(t, info, "detected_level")
	assert.Contains(t, info, "default_level")
}
