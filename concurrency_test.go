// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConcurrency(t *testing.T) {
	restore := runtimeNumCPU
	runtimeNumCPU = func() int { return 8 }
	defer func() { runtimeNumCPU = restore }()

	n, err := ParseConcurrency("logical_cpus")
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n, err = ParseConcurrency("physical_cpus")
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n, err = ParseConcurrency("4")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = ParseConcurrency("0")
	assert.Error(t, err)

	_, err = ParseConcurrency("-1")
	assert.Error(t, err)

	_, err = ParseConcurrency("banana")
	assert.Error(t, err)
}

func TestConcurrencyValueSetAndString(t *testing.T) {
	var dest int
	cv := NewConcurrencyValue(&dest)
	assert.Equal(t, 0, dest)
	assert.Equal(t, "sequential", cv.String())
	assert.Equal(t, "int|logical_cpus|physical_cpus", cv.Type())

	require.NoError(t, cv.Set("3"))
	assert.Equal(t, 3, dest)
	assert.Equal(t, "3", cv.String())

	assert.Error(t, cv.Set("not-a-number"))
}
