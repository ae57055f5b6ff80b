// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package frontend provides concrete taskforge.FrontEnd implementations:
// ways of finding and loading a taskfile from a filesystem.
package frontend

import (
	"sort"

	taskforge "github.com/taskforge-dev/taskforge"
	v1 "github.com/taskforge-dev/taskforge/schema/v1"
)

// docToTaskfile converts a validated YAML surface document into the
// engine's Taskfile model. The document's ID and Dir are left zero; the
// workspace loader fills them in once the file's canonical path is known.
func docToTaskfile(doc v1.TaskfileDoc) *taskforge.Taskfile {
	tf := &taskforge.Taskfile{
		Env:     plainToOrderedAny(doc.Env),
		Imports: make(map[string]taskforge.ImportRef, len(doc.Imports)),
		Tasks:   make(map[string]taskforge.Task, len(doc.Tasks)),
	}

	for alias, path := range doc.Imports {
		tf.Imports[alias] = taskforge.UnresolvedImportRef(path)
	}

	for name, taskDoc := range doc.Tasks {
		tf.Tasks[name] = docToTask(name, taskDoc)
	}

	return tf
}

func docToTask(name string, d v1.TaskDoc) taskforge.Task {
	outputs := make([]taskforge.OutputPath, len(d.Outputs))
	for i, o := range d.Outputs {
		kind := taskforge.OutputFile
		if o.Directory {
			kind = taskforge.OutputDirectory
		}
		outputs[i] = taskforge.OutputPath{Kind: kind, Path: o.Path}
	}

	steps := make([]taskforge.Command, len(d.Steps))
	for i, s := range d.Steps {
		steps[i] = taskforge.Command{Shell: s}
	}

	clean := make([]taskforge.Command, len(d.Clean))
	for i, s := range d.Clean {
		clean[i] = taskforge.Command{Shell: s}
	}

	deps := make([]taskforge.Dep, len(d.Deps))
	for i, dep := range d.Deps {
		deps[i] = taskforge.Dep{
			Invocation: taskforge.SyntacticInvocation{
				Ref:  taskforge.ParseTaskRef(dep.Uses),
				Args: plainToOrderedAny(dep.With),
			},
			ID:    dep.ID,
			After: dep.After,
		}
	}

	return taskforge.Task{
		Name:        name,
		Description: d.Description,
		Params:      docParamsToParamMap(d.Params),
		Body: taskforge.TaskBody{
			Env:     plainToOrderedAny(d.Env),
			Workdir: d.Workdir,
			Phony:   d.Phony,
			Outputs: outputs,
			Sources: d.Sources,
			Deps:    deps,
			Steps:   steps,
			Clean:   clean,
		},
	}
}

func docParamsToParamMap(params map[string]v1.ParamDoc) *taskforge.ParamMap {
	out := taskforge.NewParamMap()
	for _, name := range sortedKeys(params) {
		out.Set(name, docParamToParam(params[name]))
	}
	return out
}

func docParamToParam(p v1.ParamDoc) taskforge.Param {
	param := taskforge.Param{
		Type:    paramTypeFromString(p.Type),
		Default: p.Default,
		Select:  p.Select,
	}
	if p.Items != nil {
		items := docParamToParam(*p.Items)
		param.Array = &items
	}
	return param
}

func paramTypeFromString(s string) taskforge.ParamType {
	switch s {
	case "number":
		return taskforge.ParamNumber
	case "boolean":
		return taskforge.ParamBoolean
	case "path":
		return taskforge.ParamPath
	case "select":
		return taskforge.ParamSelect
	case "array":
		return taskforge.ParamArray
	default:
		return taskforge.ParamString
	}
}

// plainToOrderedAny converts a plain Go map (the result of decoding YAML
// into map[string]any, whose key order the decoder does not preserve)
// into an ordered map with keys in sorted order. Declaration order from
// the source document is not recoverable through this path; sorting at
// least keeps conversion deterministic across runs. See DESIGN.md for the
// tradeoff this accepts.
func plainToOrderedAny(m map[string]any) *taskforge.EnvMap {
	out := taskforge.NewEnvMap()
	for _, k := range sortedKeys(m) {
		out.Set(k, m[k])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
