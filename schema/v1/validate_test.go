// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package v1

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `
schema-version: v1
tasks:
  build:
    steps:
      - echo build
`

func TestReadRejectsWrongSchemaVersion(t *testing.T) {
	_, err := Read(strings.NewReader("schema-version: v2\ntasks: {}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported taskfile schema version")
}

func TestReadAndValidateAcceptsValidDoc(t *testing.T) {
	doc, err := ReadAndValidate(strings.NewReader(validDoc))
	require.NoError(t, err)
	assert.Contains(t, doc.Tasks, "build")
}

func TestValidateRejectsEmptyTasks(t *testing.T) {
	err := Validate(TaskfileDoc{SchemaVersion: SchemaVersion})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tasks defined")
}

func TestValidateRejectsBadTaskName(t *testing.T) {
	doc := TaskfileDoc{
		SchemaVersion: SchemaVersion,
		Tasks:         map[string]TaskDoc{"1bad": {Steps: []string{"echo hi"}}},
	}
	err := Validate(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy")
}

func TestValidateRejectsBadImportAlias(t *testing.T) {
	doc := TaskfileDoc{
		SchemaVersion: SchemaVersion,
		Imports:       map[string]string{"bad alias": "./lib.yaml"},
		Tasks:         map[string]TaskDoc{"build": {Steps: []string{"echo hi"}}},
	}
	err := Validate(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".imports.bad alias")
}

func TestValidateRejectsDuplicateDepID(t *testing.T) {
	doc := TaskfileDoc{
		SchemaVersion: SchemaVersion,
		Tasks: map[string]TaskDoc{
			"build": {
				Steps: []string{"echo build"},
				Deps: []DepDoc{
					{Uses: "compile", ID: "shared"},
					{Uses: "lint", ID: "shared"},
				},
			},
		},
	}
	err := Validate(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share id")
}

func TestValidateRejectsDepWithoutUses(t *testing.T) {
	doc := TaskfileDoc{
		SchemaVersion: SchemaVersion,
		Tasks: map[string]TaskDoc{
			"build": {Steps: []string{"echo build"}, Deps: []DepDoc{{}}},
		},
	}
	err := Validate(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must set uses")
}

func TestValidateRejectsBadEnvName(t *testing.T) {
	doc := TaskfileDoc{
		SchemaVersion: SchemaVersion,
		Tasks: map[string]TaskDoc{
			"build": {Steps: []string{"echo build"}, Env: map[string]any{"1BAD": "x"}},
		},
	}
	err := Validate(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".tasks.build.env")
}

func TestParamDocSurfaceForms(t *testing.T) {
	doc, err := ReadAndValidate(strings.NewReader(`
schema-version: v1
tasks:
  build:
    steps:
      - echo build
    params:
      name: string
      flavor: [vanilla, chocolate]
      count:
        type: number
        default: 1
`))
	require.NoError(t, err)

	params := doc.Tasks["build"].Params
	assert.Equal(t, "string", params["name"].Type)
	assert.Equal(t, "select", params["flavor"].Type)
	assert.Equal(t, []string{"vanilla", "chocolate"}, params["flavor"].Select)
	assert.Equal(t, "number", params["count"].Type)
	assert.EqualValues(t, 1, params["count"].Default)
}

func TestOutputDocUnmarshalsBareString(t *testing.T) {
	doc, err := ReadAndValidate(strings.NewReader(`
schema-version: v1
tasks:
  build:
    steps:
      - echo build
    outputs:
      - dist/bundle.js
`))
	require.NoError(t, err)
	require.Len(t, doc.Tasks["build"].Outputs, 1)
	out := doc.Tasks["build"].Outputs[0]
	assert.Equal(t, "dist/bundle.js", out.Path)
	assert.False(t, out.Directory)
}

func TestOutputDocTrailingSlashElectsDirectory(t *testing.T) {
	doc, err := ReadAndValidate(strings.NewReader(`
schema-version: v1
tasks:
  build:
    steps:
      - echo build
    outputs:
      - dist/
`))
	require.NoError(t, err)
	out := doc.Tasks["build"].Outputs[0]
	assert.Equal(t, "dist", out.Path)
	assert.True(t, out.Directory)
}

func TestDepDocUnmarshalsBareString(t *testing.T) {
	doc, err := ReadAndValidate(strings.NewReader(`
schema-version: v1
tasks:
  build:
    steps:
      - echo build
    deps:
      - compile
      - uses: lib:lint
        id: lint
  compile:
    steps:
      - echo compile
`))
	require.NoError(t, err)
	deps := doc.Tasks["build"].Deps
	require.Len(t, deps, 2)
	assert.Equal(t, "compile", deps[0].Uses)
	assert.Equal(t, "lib:lint", deps[1].Uses)
	assert.Equal(t, "lint", deps[1].ID)
}

func TestOutputDocUnmarshalsDirectoryMapping(t *testing.T) {
	doc, err := ReadAndValidate(strings.NewReader(`
schema-version: v1
tasks:
  build:
    steps:
      - echo build
    outputs:
      - path: dist
        directory: true
`))
	require.NoError(t, err)
	out := doc.Tasks["build"].Outputs[0]
	assert.Equal(t, "dist", out.Path)
	assert.True(t, out.Directory)
}

func TestOutputDocMarshalCollapsesFileKindToBareString(t *testing.T) {
	out, err := OutputDoc{Path: "bin/app"}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "bin/app", out)
}

func TestOutputDocMarshalKeepsDirectoryMapping(t *testing.T) {
	out, err := OutputDoc{Path: "dist", Directory: true}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, outputDocAlias{Path: "dist", Directory: true}, out)
}

func TestTaskfileSchemaPinsSchemaVersionEnum(t *testing.T) {
	s := TaskfileSchema()
	prop, ok := s.Properties.Get("schema-version")
	require.True(t, ok)
	assert.Equal(t, []any{SchemaVersion}, prop.Enum)
}
