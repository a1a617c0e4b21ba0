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

package lanes

import (
	"os"
	"strings"
	"unsafe"

	"github.com/asmirnov82/compute-functions/internal/debug"
	"golang.org/x/xerrors"
)

// EnvVar names the environment variable that caps the detected level.
const EnvVar = "COMPUTE_FUNCTIONS_SIMD"

// Level is the widest vector register size usable by the kernels.
type Level int8

const (
	LevelNone Level = iota
	Level128
	Level256
	Level512
)

func (l Level) String() string {
	switch l {
	case Level128:
		return "128"
	case Level256:
		return "256"
	case Level512:
		return "512"
	}
	return "none"
}

// ParseLevel parses the textual form of a Level as accepted by EnvVar.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "scalar", "0":
		return LevelNone, nil
	case "128", "sse2", "neon":
		return Level128, nil
	case "256", "avx2":
		return Level256, nil
	case "512", "avx512":
		return Level512, nil
	}
	return LevelNone, xerrors.Errorf("lanes: unknown vector level %q", s)
}

// Cap returns the smaller of l and limit.
func (l Level) Cap(limit Level) Level {
	if limit < l {
		return limit
	}
	return l
}

// Width is the size of one vector register in bytes.
type Width int

const (
	Width128 Width = 16
	Width256 Width = 32
	Width512 Width = 64
)

// Bits returns the register size in bits.
func (w Width) Bits() int { return int(w) * 8 }

var allTiers = []Width{Width512, Width256, Width128}

// Tiers returns the register widths usable at level l, widest first.
func (l Level) Tiers() []Width {
	switch l {
	case Level512:
		return allTiers
	case Level256:
		return allTiers[1:]
	case Level128:
		return allTiers[2:]
	}
	return nil
}

// Count returns the number of T lanes in a register of width w.
func Count[T Number](w Width) int {
	var z T
	return int(w) / int(unsafe.Sizeof(z))
}

// MaxCount returns the number of T lanes in the widest register.
func MaxCount[T Number]() int { return Count[T](Width512) }

var detected, defaultLevel Level

func init() {
	detected = detect()
	defaultLevel = detected
	if v, ok := os.LookupEnv(EnvVar); ok {
		l, err := ParseLevel(v)
		if err != nil {
			debug.Log("msg", "ignoring vector level override", "err", err)
		} else {
			defaultLevel = detected.Cap(l)
		}
	}
	debug.Log("msg", "vector level", "detected", detected, "default", defaultLevel)
}

// Detected returns the level supported by the CPU.
func Detected() Level { return detected }

// Default returns the detected level capped by EnvVar.
func Default() Level { return defaultLevel }
