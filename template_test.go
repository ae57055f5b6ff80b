// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderString(t *testing.T) {
	ctx := renderContext{
		Args: map[string]any{"name": "widget"},
		Env:  map[string]any{"STAGE": "dev"},
	}

	out, err := renderString("f", "build-{{.Args.name}}-{{.Env.STAGE}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "build-widget-dev", out)
}

func TestRenderStringMissingKeyErrors(t *testing.T) {
	ctx := renderContext{Args: map[string]any{}, Env: map[string]any{}}
	_, err := renderString("f", "{{.Args.missing}}", ctx)
	assert.Error(t, err)
	var tErr *TemplateRenderError
	assert.ErrorAs(t, err, &tErr)
}

func TestFmtPrecision(t *testing.T) {
	out, err := fmtPrecision(3.14159, 2)
	require.NoError(t, err)
	assert.Equal(t, "3.14", out)

	_, err = fmtPrecision("not a number", 2)
	assert.Error(t, err)
}

func TestRenderJSONValueReparsesScalars(t *testing.T) {
	ctx := renderContext{Args: map[string]any{"count": 3}, Env: map[string]any{}}

	rendered, err := renderJSONValue("f", "{{.Args.count}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(3), rendered)

	rendered, err = renderJSONValue("f", "prefix-{{.Args.count}}", ctx)
	require.NoError(t, err)
	assert.Equal(t, "prefix-3", rendered)
}

func TestRenderJSONValueRecursesIntoArraysAndMaps(t *testing.T) {
	ctx := renderContext{Args: map[string]any{"name": "x"}, Env: map[string]any{}}

	rendered, err := renderJSONValue("f", []any{"{{.Args.name}}", "literal"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "literal"}, rendered)

	renderedMap, err := renderJSONValue("f", map[string]any{"k": "{{.Args.name}}"}, ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "x"}, renderedMap)
}

func TestRenderArgMapPreservesOrder(t *testing.T) {
	m := NewArgMap()
	m.Set("b", "{{.Args.name}}")
	m.Set("a", "literal")

	ctx := renderContext{Args: map[string]any{"name": "val"}, Env: map[string]any{}}

	out, err := renderArgMap("f", m, ctx)
	require.NoError(t, err)

	var keys []string
	for pair := out.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"b", "a"}, keys)
}
