// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckArgsAppliesDefaults(t *testing.T) {
	params := NewParamMap()
	params.Set("name", Param{Type: ParamString, Default: "widget"})

	merged, err := checkArgs(params, NewArgMap())
	require.NoError(t, err)

	v, ok := merged.Get("name")
	require.True(t, ok)
	assert.Equal(t, "widget", v)
}

func TestCheckArgsMissingRequiredIsError(t *testing.T) {
	params := NewParamMap()
	params.Set("name", Param{Type: ParamString})

	_, err := checkArgs(params, NewArgMap())
	require.Error(t, err)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCheckArgsRejectsUnknownArg(t *testing.T) {
	args := NewArgMap()
	args.Set("extra", "value")

	_, err := checkArgs(NewParamMap(), args)
	require.Error(t, err)
	var unknown *UnknownArgError
	assert.ErrorAs(t, err, &unknown)
}

func TestCheckArgsValidatesType(t *testing.T) {
	params := NewParamMap()
	params.Set("count", Param{Type: ParamNumber})

	args := NewArgMap()
	args.Set("count", "not a number")

	_, err := checkArgs(params, args)
	require.Error(t, err)
	var typeErr *TypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestInstantiateRendersBody(t *testing.T) {
	params := NewParamMap()
	params.Set("name", Param{Type: ParamString, Default: "widget"})

	task := Task{
		Name:   "build",
		Params: params,
		Body: TaskBody{
			Workdir: "/src/{{.Args.name}}",
			Sources: []string{"{{.Args.name}}.go"},
			Outputs: []OutputPath{{Kind: OutputFile, Path: "bin/{{.Args.name}}"}},
			Steps:   []Command{{Shell: "go build -o bin/{{.Args.name}} ./{{.Args.name}}.go"}},
		},
	}

	it, err := Instantiate(task, NewArgMap(), NewEnvMap())
	require.NoError(t, err)

	assert.Equal(t, "/src/widget", it.Workdir)
	assert.Equal(t, []string{"widget.go"}, it.Sources)
	assert.Equal(t, "bin/widget", it.Outputs[0].Path)
	assert.Equal(t, "go build -o bin/widget ./widget.go", it.Steps[0].Shell)
}

func TestInstantiatePropagatesExplicitArgOverDefault(t *testing.T) {
	params := NewParamMap()
	params.Set("name", Param{Type: ParamString, Default: "widget"})

	task := Task{
		Name:   "build",
		Params: params,
		Body:   TaskBody{Workdir: "{{.Args.name}}"},
	}

	args := NewArgMap()
	args.Set("name", "gadget")

	it, err := Instantiate(task, args, NewEnvMap())
	require.NoError(t, err)
	assert.Equal(t, "gadget", it.Workdir)
}

func TestInstantiateMergesTaskfileAndTaskEnv(t *testing.T) {
	taskfileEnv := NewEnvMap()
	taskfileEnv.Set("STAGE", "dev")
	taskfileEnv.Set("SHARED", "taskfile")

	taskEnv := NewEnvMap()
	taskEnv.Set("SHARED", "task")

	task := Task{
		Name: "run",
		Body: TaskBody{Env: taskEnv, Workdir: "."},
	}

	it, err := Instantiate(task, NewArgMap(), taskfileEnv)
	require.NoError(t, err)

	stage, _ := it.Env.Get("STAGE")
	shared, _ := it.Env.Get("SHARED")
	assert.Equal(t, "dev", stage)
	assert.Equal(t, "task", shared)
}

func TestInstantiateRendersDepArgs(t *testing.T) {
	depArgs := NewArgMap()
	depArgs.Set("target", "{{.Args.name}}")

	params := NewParamMap()
	params.Set("name", Param{Type: ParamString, Default: "widget"})

	task := Task{
		Name:   "build",
		Params: params,
		Body: TaskBody{
			Deps: []Dep{{Invocation: SyntacticInvocation{Ref: TaskRef{Name: "prep"}, Args: depArgs}}},
		},
	}

	it, err := Instantiate(task, NewArgMap(), NewEnvMap())
	require.NoError(t, err)

	v, ok := it.Deps[0].Invocation.Args.Get("target")
	require.True(t, ok)
	assert.Equal(t, "widget", v)
}
