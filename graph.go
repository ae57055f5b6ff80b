// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import "path/filepath"

// Graph is the result of dependency resolution: every resolved invocation
// reachable from a root, its successor list ("must run before self"), and
// the memoized InstantiatedTask for each.
type Graph struct {
	// order is insertion (discovery) order of node keys.
	order []string
	nodes map[string]ResolvedInvocation
	edges map[string][]string
	tasks map[string]*InstantiatedTask
}

// Node returns the canonical ResolvedInvocation for a node key.
func (g *Graph) Node(key string) ResolvedInvocation { return g.nodes[key] }

// Task returns the memoized InstantiatedTask for a node key.
func (g *Graph) Task(key string) *InstantiatedTask { return g.tasks[key] }

// Successors returns key's successor node keys ("must run before key") in
// discovery order.
func (g *Graph) Successors(key string) []string { return g.edges[key] }

// Order returns every node key in discovery order.
func (g *Graph) Order() []string { return g.order }

// BuildGraph performs breadth-first discovery starting at the resolved
// root invocation, instantiating and memoizing each task it encounters,
// and recording a successor edge for every Dep (plus any `after`
// sibling-ordering edges within a single task's Dep list).
func BuildGraph(ws *Workspace, rootTaskfile *Taskfile, root SyntacticInvocation) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]ResolvedInvocation),
		edges: make(map[string][]string),
		tasks: make(map[string]*InstantiatedTask),
	}

	rootInv, rootTask, err := ws.ResolveInvocation(rootTaskfile, root)
	if err != nil {
		return nil, err
	}
	definingRootTF, ok := ws.Get(rootInv.Ref.Taskfile)
	if !ok {
		return nil, &TaskfileInvocationResolutionError{Taskfile: rootTaskfile.ID, Ref: root.Ref, Err: &TaskfileNotFoundError{Path: string(rootInv.Ref.Taskfile)}}
	}
	if err := g.visit(rootInv, rootTask, definingRootTF); err != nil {
		return nil, err
	}

	queue := []string{rootInv.Key()}
	seen := map[string]bool{rootInv.Key(): true}

	for len(queue) > 0 {
		curKey := queue[0]
		queue = queue[1:]

		curTask := g.tasks[curKey]
		curInv := g.nodes[curKey]

		definingTF, ok := ws.Get(curInv.Ref.Taskfile)
		if !ok {
			return nil, &TaskfileInvocationResolutionError{Taskfile: curInv.Ref.Taskfile, Ref: TaskRef{Name: curInv.Ref.Name}, Err: &TaskfileNotFoundError{Path: string(curInv.Ref.Taskfile)}}
		}

		depKeys := make([]string, len(curTask.Deps))

		for i, dep := range curTask.Deps {
			depInv, depTask, err := ws.ResolveInvocation(definingTF, dep.Invocation)
			if err != nil {
				return nil, err
			}
			depKey := depInv.Key()
			depKeys[i] = depKey

			depDefiningTF, ok := ws.Get(depInv.Ref.Taskfile)
			if !ok {
				return nil, &TaskfileInvocationResolutionError{Taskfile: depInv.Ref.Taskfile, Ref: dep.Invocation.Ref, Err: &TaskfileNotFoundError{Path: string(depInv.Ref.Taskfile)}}
			}
			if err := g.visit(depInv, depTask, depDefiningTF); err != nil {
				return nil, err
			}
			g.addEdge(curKey, depKey)

			if !seen[depKey] {
				seen[depKey] = true
				queue = append(queue, depKey)
			}
		}

		// `after` ordering: a dep must run after any sibling dep (in the
		// same Deps list) whose id it names.
		for i, dep := range curTask.Deps {
			for _, afterID := range dep.After {
				matched := false
				for j, sibling := range curTask.Deps {
					if sibling.ID == afterID {
						g.addEdge(depKeys[i], depKeys[j])
						matched = true
						break
					}
				}
				if !matched {
					return nil, &DepAfterReferenceError{Task: curTask.Name, AfterID: afterID}
				}
			}
		}
	}

	return g, nil
}

func (g *Graph) visit(inv ResolvedInvocation, task Task, definingTF *Taskfile) error {
	key := inv.Key()
	if _, ok := g.tasks[key]; ok {
		return nil
	}
	it, err := Instantiate(task, inv.Args, definingTF.Env)
	if err != nil {
		return AddTrace(err, inv.Ref.String())
	}
	it.Workdir = anchorWorkdir(definingTF.Dir, it.Workdir)
	g.order = append(g.order, key)
	g.nodes[key] = inv
	g.tasks[key] = it
	return nil
}

// anchorWorkdir resolves a task's rendered workdir against the directory
// of the taskfile defining it: empty means the taskfile's own directory,
// a relative path is joined onto it, an absolute path stands as written.
func anchorWorkdir(taskfileDir, workdir string) string {
	switch {
	case workdir == "":
		return taskfileDir
	case filepath.IsAbs(workdir):
		return workdir
	default:
		return filepath.Join(taskfileDir, workdir)
	}
}

func (g *Graph) addEdge(fromKey, toKey string) {
	for _, existing := range g.edges[fromKey] {
		if existing == toKey {
			return
		}
	}
	g.edges[fromKey] = append(g.edges[fromKey], toKey)
}

// TopoSort returns a leaves-first order (every dep precedes its
// dependents) via DFS with gray/black coloring. On a cycle, it returns a
// CycleDetectedError whose Path's first and last elements are equal and
// consecutive elements are graph edges. Successors are visited in
// discovery order, so the result is deterministic for a given graph.
func (g *Graph) TopoSort() ([]string, error) {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.order))
	var order []string
	var stack []string

	var visit func(key string) error
	visit = func(key string) error {
		color[key] = gray
		stack = append(stack, key)

		for _, succKey := range g.edges[key] {
			switch color[succKey] {
			case white:
				if err := visit(succKey); err != nil {
					return err
				}
			case gray:
				path := cyclePath(stack, succKey)
				return &CycleDetectedError{Path: g.refPath(path)}
			case black:
				// already fully processed
			}
		}

		stack = stack[:len(stack)-1]
		color[key] = black
		order = append(order, key)
		return nil
	}

	for _, key := range g.order {
		if color[key] == white {
			if err := visit(key); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

func cyclePath(stack []string, repeated string) []string {
	for i, k := range stack {
		if k == repeated {
			path := append([]string{}, stack[i:]...)
			path = append(path, repeated)
			return path
		}
	}
	return append(append([]string{}, stack...), repeated)
}

func (g *Graph) refPath(keys []string) []ResolvedRef {
	out := make([]ResolvedRef, len(keys))
	for i, k := range keys {
		out[i] = g.nodes[k].Ref
	}
	return out
}
