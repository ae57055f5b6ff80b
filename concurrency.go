// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/spf13/pflag"
)

// runtimeNumCPU is aliased so tests can mock it.
var runtimeNumCPU = runtime.NumCPU

// ParseConcurrency accepts a positive integer literal, or the symbolic
// values "logical_cpus" / "physical_cpus" (resolved against
// runtime.NumCPU -- Go's runtime does not expose physical core count
// separately, so both symbols resolve the same way here).
func ParseConcurrency(raw string) (int, error) {
	switch raw {
	case "logical_cpus", "physical_cpus":
		return runtimeNumCPU(), nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for --concurrency: must be a positive integer, \"logical_cpus\", or \"physical_cpus\"", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid value %d for --concurrency: must be greater than or equal to 1", n)
	}
	return n, nil
}

// ConcurrencyValue lets pflag accept a concurrency flag spelled as an
// integer or one of the symbolic CPU-count names.
type ConcurrencyValue struct {
	Value *int
	raw   string
}

var _ pflag.Value = (*ConcurrencyValue)(nil)

// NewConcurrencyValue returns a ConcurrencyValue defaulting to sequential
// execution (dest left at 0): a caller must pass -j explicitly to run
// tasks in parallel.
func NewConcurrencyValue(dest *int) *ConcurrencyValue {
	*dest = 0
	return &ConcurrencyValue{Value: dest}
}

func (cv *ConcurrencyValue) String() string {
	if cv.raw == "" {
		return "sequential"
	}
	return cv.raw
}

func (cv *ConcurrencyValue) Set(value string) error {
	parsed, err := ParseConcurrency(value)
	if err != nil {
		return err
	}
	cv.raw = value
	*cv.Value = parsed
	return nil
}

func (cv *ConcurrencyValue) Type() string { return "int|logical_cpus|physical_cpus" }
