// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package frontend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskforge "github.com/taskforge-dev/taskforge"
	v1 "github.com/taskforge-dev/taskforge/schema/v1"
)

func TestDocToTaskfileConvertsImportsAndTasks(t *testing.T) {
	doc := v1.TaskfileDoc{
		Env:     map[string]any{"B": "2", "A": "1"},
		Imports: map[string]string{"lib": "./lib/taskfile.yaml"},
		Tasks: map[string]v1.TaskDoc{
			"build": {
				Description: "builds the thing",
				Steps:       []string{"echo build"},
			},
		},
	}

	tf := docToTaskfile(doc)

	imp, ok := tf.Imports["lib"]
	require.True(t, ok)
	assert.False(t, imp.Resolved())

	task, ok := tf.Tasks["build"]
	require.True(t, ok)
	assert.Equal(t, "builds the thing", task.Description)
	require.Len(t, task.Body.Steps, 1)
	assert.Equal(t, "echo build", task.Body.Steps[0].Shell)

	// plainToOrderedAny sorts keys deterministically since map iteration
	// order and original YAML declaration order are both unavailable here.
	keys := []string{}
	for pair := tf.Env.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"A", "B"}, keys)
}

func TestDocToTaskConvertsOutputsDepsAndClean(t *testing.T) {
	d := v1.TaskDoc{
		Outputs: []v1.OutputDoc{
			{Path: "bin/app"},
			{Path: "dist", Directory: true},
		},
		Sources: []string{"main.go"},
		Steps:   []string{"go build -o bin/app ./..."},
		Clean:   []string{"rm -rf dist"},
		Deps: []v1.DepDoc{
			{Uses: "lib:compile", ID: "compile-step", After: []string{"setup"}},
		},
		Phony: false,
	}

	task := docToTask("build", d)

	require.Len(t, task.Body.Outputs, 2)
	assert.Equal(t, taskforge.OutputFile, task.Body.Outputs[0].Kind)
	assert.Equal(t, "bin/app", task.Body.Outputs[0].Path)
	assert.Equal(t, taskforge.OutputDirectory, task.Body.Outputs[1].Kind)
	assert.Equal(t, "dist", task.Body.Outputs[1].Path)

	require.Len(t, task.Body.Deps, 1)
	assert.Equal(t, "compile-step", task.Body.Deps[0].ID)
	assert.Equal(t, []string{"setup"}, task.Body.Deps[0].After)
	assert.Equal(t, "lib", task.Body.Deps[0].Invocation.Ref.Alias)
	assert.Equal(t, "compile", task.Body.Deps[0].Invocation.Ref.Name)

	require.Len(t, task.Body.Clean, 1)
	assert.Equal(t, "rm -rf dist", task.Body.Clean[0].Shell)
}

func TestDocParamsToParamMapPreservesSortedNames(t *testing.T) {
	params := map[string]v1.ParamDoc{
		"version": {Type: "string", Default: "latest"},
		"count":   {Type: "number", Default: "1"},
	}

	pm := docParamsToParamMap(params)

	names := []string{}
	for pair := pm.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	assert.Equal(t, []string{"count", "version"}, names)

	count, ok := pm.Get("count")
	require.True(t, ok)
	assert.Equal(t, taskforge.ParamNumber, count.Type)
}

func TestDocParamToParamBuildsArrayElementRecursively(t *testing.T) {
	p := v1.ParamDoc{
		Type:  "array",
		Items: &v1.ParamDoc{Type: "number"},
	}

	param := docParamToParam(p)

	assert.Equal(t, taskforge.ParamArray, param.Type)
	require.NotNil(t, param.Array)
	assert.Equal(t, taskforge.ParamNumber, param.Array.Type)
}

func TestParamTypeFromStringCoversAllKinds(t *testing.T) {
	cases := map[string]taskforge.ParamType{
		"string":  taskforge.ParamString,
		"number":  taskforge.ParamNumber,
		"boolean": taskforge.ParamBoolean,
		"path":    taskforge.ParamPath,
		"select":  taskforge.ParamSelect,
		"array":   taskforge.ParamArray,
		"":        taskforge.ParamString,
		"bogus":   taskforge.ParamString,
	}
	for in, want := range cases {
		assert.Equal(t, want, paramTypeFromString(in), "input %q", in)
	}
}

func TestSortedKeysReturnsAlphabeticalOrder(t *testing.T) {
	m := map[string]int{"z": 1, "a": 2, "m": 3}
	assert.Equal(t, []string{"a", "m", "z"}, sortedKeys(m))
}

func TestSortedKeysEmptyMap(t *testing.T) {
	assert.Empty(t, sortedKeys(map[string]string{}))
}
