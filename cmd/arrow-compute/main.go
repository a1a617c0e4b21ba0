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
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/asmirnov82/compute-functions/compute"
	"github.com/asmirnov82/compute-functions/internal/lanes"
	"github.com/docopt/docopt-go"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/goccy/go-json"
)

const usage = `Arrow Compute.
Usage:
  arrow-compute -h | --help
  arrow-compute list
  arrow-compute cpu
  arrow-compute call <function> <type> <values> [<type2> <values2>] [--checked] [--simd=LEVEL] [--verbose]
Options:
  -h --help       Show this screen.
  --checked       Call the overflow-checked variant of the function.
  --simd=LEVEL    Cap the vector level: none, 128, 256 or 512.
  --verbose       Log debug information to stderr.
Values are JSON: an array such as [1, 2, null] gives a column, a bare
number or null gives a scalar.`

type config struct {
	List     bool   `docopt:"list"`
	CPU      bool   `docopt:"cpu"`
	Call     bool   `docopt:"call"`
	Function string `docopt:"<function>"`
	Type     string `docopt:"<type>"`
	Values   string `docopt:"<values>"`
	Type2    string `docopt:"<type2>"`
	Values2  string `docopt:"<values2>"`
	Checked  bool   `docopt:"--checked"`
	SIMD     string `docopt:"--simd"`
	Verbose  bool   `docopt:"--verbose"`
}

func parseArgs(p *docopt.Parser, argv []string) (config, error) {
	var cfg config
	opts, err := p.ParseArgs(usage, argv, "")
	if err != nil {
		return cfg, err
	}
	err = opts.Bind(&cfg)
	return cfg, err
}

func main() {
	cfg, err := parseArgs(docopt.DefaultParser, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, cfg.Verbose)
	if err := run(cfg, os.Stdout, logger); err != nil {
		level.Error(logger).Log("msg", "command failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

func run(cfg config, out io.Writer, logger log.Logger) error {
	switch {
	case cfg.List:
		return listFunctions(out)
	case cfg.CPU:
		return writeJSON(out, lanes.Info())
	case cfg.Call:
		return callFunction(cfg, out, logger)
	}
	return fmt.Errorf("no command given")
}

func listFunctions(out io.Writer) error {
	reg := compute.GetFunctionRegistry()
	for _, name := range reg.GetFunctionNames() {
		fn, _ := reg.GetFunction(name)
		if _, err := fmt.Fprintf(out, "%-18s %-16s %s\n", name, fn.Kind(), fn.Doc().Summary); err != nil {
			return err
		}
	}
	return nil
}

var typeByName = map[string]arrow.DataType{}

func init() {
	for _, dt := range []arrow.DataType{
		arrow.PrimitiveTypes.Int8, arrow.PrimitiveTypes.Int16,
		arrow.PrimitiveTypes.Int32, arrow.PrimitiveTypes.Int64,
		arrow.PrimitiveTypes.Uint8, arrow.PrimitiveTypes.Uint16,
		arrow.PrimitiveTypes.Uint32, arrow.PrimitiveTypes.Uint64,
		arrow.FixedWidthTypes.Float16, arrow.PrimitiveTypes.Float32,
		arrow.PrimitiveTypes.Float64, arrow.Null,
	} {
		typeByName[dt.String()] = dt
	}
}

// parseDatum decodes values as a column of the named type when it is a
// JSON array, and as a scalar otherwise.
func parseDatum(mem memory.Allocator, typeName, values string) (compute.Datum, error) {
	dt, ok := typeByName[strings.ToLower(typeName)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %q", arrow.ErrInvalid, typeName)
	}

	values = strings.TrimSpace(values)
	if strings.HasPrefix(values, "[") {
		arr, _, err := array.FromJSON(mem, dt, strings.NewReader(values))
		if err != nil {
			return nil, fmt.Errorf("parsing %s column: %w", dt, err)
		}
		defer arr.Release()
		return compute.NewDatum(arr), nil
	}

	if values == "null" || dt.ID() == arrow.NULL {
		return compute.NewDatum(scalar.MakeNullScalar(dt)), nil
	}
	sc, err := scalar.ParseScalar(dt, values)
	if err != nil {
		return nil, fmt.Errorf("parsing %s scalar: %w", dt, err)
	}
	return compute.NewDatum(sc), nil
}

func callFunction(cfg config, out io.Writer, logger log.Logger) error {
	mem := memory.NewGoAllocator()
	ectx := compute.DefaultExecCtx()
	ectx.Alloc = mem
	if cfg.SIMD != "" {
		lvl, err := lanes.ParseLevel(cfg.SIMD)
		if err != nil {
			return err
		}
		ectx.MaxVectorWidth = ectx.MaxVectorWidth.Cap(lvl)
	}
	ctx := compute.SetExecCtx(context.Background(), ectx)

	args := make([]compute.Datum, 0, 2)
	defer func() {
		for _, a := range args {
			a.Release()
		}
	}()

	first, err := parseDatum(mem, cfg.Type, cfg.Values)
	if err != nil {
		return err
	}
	args = append(args, first)
	if cfg.Type2 != "" {
		second, err := parseDatum(mem, cfg.Type2, cfg.Values2)
		if err != nil {
			return err
		}
		args = append(args, second)
	}

	name := cfg.Function
	if cfg.Checked && !strings.HasSuffix(name, "_checked") {
		name += "_checked"
	}
	level.Debug(logger).Log("msg", "calling function", "name", name,
		"args", len(args), "vector_level", ectx.MaxVectorWidth)

	result, err := compute.CallFunction(ctx, name, nil, args...)
	if err != nil {
		return err
	}
	defer result.Release()

	encoded, err := encodeDatum(mem, result)
	if err != nil {
		return err
	}
	return writeJSON(out, encoded)
}

type datumJSON struct {
	Type   string          `json:"type"`
	Values json.RawMessage `json:"values,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
}

func encodeDatum(mem memory.Allocator, d compute.Datum) (datumJSON, error) {
	switch d := d.(type) {
	case *compute.ArrayDatum:
		arr := d.MakeArray()
		defer arr.Release()
		values, err := arr.MarshalJSON()
		return datumJSON{Type: arr.DataType().String(), Values: values}, err
	case *compute.ScalarDatum:
		arr, err := scalar.MakeArrayFromScalar(d.Value, 1, mem)
		if err != nil {
			return datumJSON{}, err
		}
		defer arr.Release()

		raw, err := arr.MarshalJSON()
		if err != nil {
			return datumJSON{}, err
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return datumJSON{}, err
		}
		return datumJSON{Type: d.Type().String(), Value: elems[0]}, nil
	}
	return datumJSON{}, fmt.Errorf("%w: cannot encode a %s result", arrow.ErrNotImplemented, d.Kind())
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
