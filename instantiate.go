// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

// mergeEnv layers task-level env on top of taskfile-level env: taskfile
// keys come first (insertion order), task keys are appended or, if they
// share a name with a taskfile key, override it in place.
func mergeEnv(taskfileEnv, taskEnv *EnvMap) *EnvMap {
	out := NewEnvMap()
	if taskfileEnv != nil {
		for pair := taskfileEnv.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, pair.Value)
		}
	}
	if taskEnv != nil {
		for pair := taskEnv.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, pair.Value)
		}
	}
	return out
}

// checkArgs validates args against the task's declared params, applying
// defaults for any param the caller omitted. It fails iff, after defaults
// are applied, the argument keys do not exactly equal the param keys, or
// any value fails its param's type predicate.
func checkArgs(params *ParamMap, args *ArgMap) (*ArgMap, error) {
	merged := cloneArgMap(args)

	if params != nil {
		for pair := params.Oldest(); pair != nil; pair = pair.Next() {
			name, param := pair.Key, pair.Value
			if _, ok := merged.Get(name); !ok {
				if param.Default == nil {
					return nil, &NotFoundError{Key: name}
				}
				merged.Set(name, param.Default)
			}
		}
	}

	for pair := merged.Oldest(); pair != nil; pair = pair.Next() {
		name := pair.Key
		param, declared := paramByName(params, name)
		if !declared {
			return nil, &UnknownArgError{Key: name}
		}
		if err := param.Validate(name, pair.Value); err != nil {
			return nil, err
		}
	}

	return merged, nil
}

func paramByName(params *ParamMap, name string) (Param, bool) {
	if params == nil {
		return Param{}, false
	}
	return params.Get(name)
}

// argMapToPlain flattens an ordered ArgMap into a plain map for use as a
// text/template render root (template dot-access does not care about
// field order).
func argMapToPlain(m *ArgMap) map[string]any {
	out := make(map[string]any)
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

func envMapToPlain(m *EnvMap) map[string]any {
	out := make(map[string]any)
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// Instantiate validates args against task's declared params, then
// template-expands every templated field of its body (workdir, sources,
// outputs, steps, clean steps, and each dep's TaskRef name parts and
// args) against a render context of {args, env}. It does not consult the
// filesystem.
func Instantiate(task Task, args *ArgMap, taskfileEnv *EnvMap) (*InstantiatedTask, error) {
	mergedArgs, err := checkArgs(task.Params, args)
	if err != nil {
		return nil, err
	}

	env := mergeEnv(taskfileEnv, task.Body.Env)

	ctx := renderContext{
		Args: argMapToPlain(mergedArgs),
		Env:  envMapToPlain(env),
	}

	workdir, err := renderString("workdir", task.Body.Workdir, ctx)
	if err != nil {
		return nil, err
	}

	sources := make([]string, len(task.Body.Sources))
	for i, s := range task.Body.Sources {
		rendered, err := renderString("sources", s, ctx)
		if err != nil {
			return nil, err
		}
		sources[i] = rendered
	}

	outputs := make([]OutputPath, len(task.Body.Outputs))
	for i, o := range task.Body.Outputs {
		rendered, err := renderString("outputs", o.Path, ctx)
		if err != nil {
			return nil, &OutputPathInstantiationError{Err: err}
		}
		outputs[i] = OutputPath{Kind: o.Kind, Path: rendered}
	}

	steps, err := renderCommands("steps", task.Body.Steps, ctx)
	if err != nil {
		return nil, &StepsInstantiationError{Err: err}
	}

	clean, err := renderCommands("clean", task.Body.Clean, ctx)
	if err != nil {
		return nil, &CleanStepsInstantiationError{Err: err}
	}

	deps := make([]Dep, len(task.Body.Deps))
	for i, d := range task.Body.Deps {
		renderedDep, err := renderDep(d, ctx)
		if err != nil {
			return nil, err
		}
		deps[i] = renderedDep
	}

	return &InstantiatedTask{
		Name:    task.Name,
		Env:     env,
		Workdir: workdir,
		Phony:   task.Body.Phony,
		Outputs: outputs,
		Sources: sources,
		Deps:    deps,
		Steps:   steps,
		Clean:   clean,
	}, nil
}

func renderCommands(field string, cmds []Command, ctx renderContext) ([]Command, error) {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		rendered, err := renderString(field, c.Shell, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = Command{Shell: rendered}
	}
	return out, nil
}

// renderDep templates a Dep's task-ref name (but not its import alias)
// and its argument values.
func renderDep(d Dep, ctx renderContext) (Dep, error) {
	name, err := renderString("deps.name", d.Invocation.Ref.Name, ctx)
	if err != nil {
		return Dep{}, err
	}

	renderedArgs, err := renderArgMap("deps.with", d.Invocation.Args, ctx)
	if err != nil {
		return Dep{}, err
	}

	return Dep{
		Invocation: SyntacticInvocation{
			Ref:  TaskRef{Alias: d.Invocation.Ref.Alias, Name: name},
			Args: renderedArgs,
		},
		ID:    d.ID,
		After: d.After,
	}, nil
}
