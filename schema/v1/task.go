// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package v1

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// TaskDoc is a single task's YAML surface.
type TaskDoc struct {
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Params      map[string]ParamDoc `json:"params,omitempty" yaml:"params,omitempty"`
	Env         map[string]any      `json:"env,omitempty" yaml:"env,omitempty"`
	Workdir     string              `json:"workdir,omitempty" yaml:"workdir,omitempty"`
	Phony       bool                `json:"phony,omitempty" yaml:"phony,omitempty"`
	Outputs     []OutputDoc         `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Sources     []string            `json:"sources,omitempty" yaml:"sources,omitempty"`
	Deps        []DepDoc            `json:"deps,omitempty" yaml:"deps,omitempty"`
	Steps       []string            `json:"steps,omitempty" yaml:"steps,omitempty"`
	Clean       []string            `json:"clean,omitempty" yaml:"clean,omitempty"`
}

// ParamDoc declares one of a task's parameters. It accepts a bare type
// name (`name: string`), a list of allowed values (`name: [a, b]`,
// shorthand for a select), or the full mapping form.
type ParamDoc struct {
	Type    string    `json:"type,omitempty" yaml:"type,omitempty"`
	Default any       `json:"default,omitempty" yaml:"default,omitempty"`
	Select  []string  `json:"select,omitempty" yaml:"select,omitempty"`
	Items   *ParamDoc `json:"items,omitempty" yaml:"items,omitempty"`
}

// paramDocAlias mirrors ParamDoc's field layout so the mapping form can
// be unmarshaled without recursing back into UnmarshalYAML.
type paramDocAlias ParamDoc

// UnmarshalYAML supports the three param surface forms.
func (p *ParamDoc) UnmarshalYAML(unmarshal func(any) error) error {
	var bare string
	if err := unmarshal(&bare); err == nil {
		*p = ParamDoc{Type: bare}
		return nil
	}

	var choices []string
	if err := unmarshal(&choices); err == nil {
		*p = ParamDoc{Type: "select", Select: choices}
		return nil
	}

	var alias paramDocAlias
	if err := unmarshal(&alias); err != nil {
		return fmt.Errorf("param must be a type name, a list of allowed values, or a {type, default} mapping: %w", err)
	}
	*p = ParamDoc(alias)
	return nil
}

// OutputDoc declares one of a task's outputs. It accepts either a bare
// string (a file output) or a mapping with an explicit `directory: true`.
type OutputDoc struct {
	Path      string
	Directory bool
}

// outputDocAlias mirrors OutputDoc's field layout so the mapping form can
// be unmarshaled without recursing back into UnmarshalYAML.
type outputDocAlias struct {
	Path      string `yaml:"path"`
	Directory bool   `yaml:"directory,omitempty"`
}

// UnmarshalYAML supports both `outputs: [dist/bundle.js]` and
// `outputs: [{path: dist, directory: true}]`. A bare string with a
// trailing "/" is a directory output.
func (o *OutputDoc) UnmarshalYAML(unmarshal func(any) error) error {
	var bare string
	if err := unmarshal(&bare); err == nil {
		if trimmed, isDir := strings.CutSuffix(bare, "/"); isDir {
			o.Path = trimmed
			o.Directory = true
			return nil
		}
		o.Path = bare
		o.Directory = false
		return nil
	}

	var alias outputDocAlias
	if err := unmarshal(&alias); err != nil {
		return fmt.Errorf("output must be a path string or a {path, directory} mapping: %w", err)
	}
	o.Path = alias.Path
	o.Directory = alias.Directory
	return nil
}

// MarshalYAML collapses a file-kind output back to its bare-string form.
func (o OutputDoc) MarshalYAML() (any, error) {
	if !o.Directory {
		return o.Path, nil
	}
	return outputDocAlias{Path: o.Path, Directory: o.Directory}, nil
}

// DepDoc is a single dependency of a task: another task invocation, with
// an optional id other deps in the same list can order themselves after.
// It accepts either a bare task-reference string or the full mapping
// form.
type DepDoc struct {
	Uses  string         `json:"uses" yaml:"uses"`
	With  map[string]any `json:"with,omitempty" yaml:"with,omitempty"`
	ID    string         `json:"id,omitempty" yaml:"id,omitempty"`
	After []string       `json:"after,omitempty" yaml:"after,omitempty"`
}

// depDocAlias mirrors DepDoc's field layout so the mapping form can be
// unmarshaled without recursing back into UnmarshalYAML.
type depDocAlias DepDoc

// UnmarshalYAML supports both `deps: [compile]` and
// `deps: [{uses: compile, with: {name: foo}}]`.
func (d *DepDoc) UnmarshalYAML(unmarshal func(any) error) error {
	var bare string
	if err := unmarshal(&bare); err == nil {
		*d = DepDoc{Uses: bare}
		return nil
	}

	var alias depDocAlias
	if err := unmarshal(&alias); err != nil {
		return fmt.Errorf("dep must be a task reference string or a {uses, with, id, after} mapping: %w", err)
	}
	*d = DepDoc(alias)
	return nil
}

// MarshalYAML collapses a with-less, id-less dep back to its bare-string
// form.
func (d DepDoc) MarshalYAML() (any, error) {
	if len(d.With) == 0 && d.ID == "" && len(d.After) == 0 {
		return d.Uses, nil
	}
	return depDocAlias(d), nil
}

// JSONSchemaExtend documents the task surface.
func (TaskDoc) JSONSchemaExtend(schema *jsonschema.Schema) {
	if v, ok := schema.Properties.Get("deps"); ok && v != nil {
		v.Description = "Tasks that must be up to date before this task's steps run."
	}
	if v, ok := schema.Properties.Get("steps"); ok && v != nil {
		v.Description = "Shell commands (or `#!`-interpreter recipes) run in order when this task is not up to date."
	}
	if v, ok := schema.Properties.Get("phony"); ok && v != nil {
		v.Description = "Always run, ignoring timestamps."
	}
}
