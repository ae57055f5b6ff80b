// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// cleanPathSafe resolves path (relative to base if not absolute) and
// refuses it if it escapes base -- a task's outputs are never allowed to
// reach outside the directory that declared them.
func cleanPathSafe(path, base string) (string, error) {
	joined := path
	if !filepath.IsAbs(joined) {
		joined = filepath.Join(base, joined)
	}

	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(joined)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &UnsafeCleanPathError{Path: path}
	}

	return absPath, nil
}

// CleanTask removes task's declared outputs, or -- when the task defines
// its own Clean recipe -- runs that recipe instead. baseDir anchors the
// containment check; it is normally the defining taskfile's directory.
func CleanTask(ctx context.Context, task *InstantiatedTask, baseDir string, sink chan<- Line) error {
	if len(task.Clean) > 0 {
		return RunSteps(ctx, task.Clean, task.Workdir, task.Env, sink)
	}

	base := baseDir
	if task.Workdir != "" {
		base = task.Workdir
	}

	for _, out := range task.Outputs {
		abs, err := cleanPathSafe(out.Path, base)
		if err != nil {
			return err
		}

		if _, err := os.Stat(abs); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return &RemoveFileError{Path: abs, Err: err}
		}

		var rmErr error
		if out.Kind == OutputDirectory {
			rmErr = os.RemoveAll(abs)
		} else {
			rmErr = os.Remove(abs)
		}
		if rmErr != nil {
			return &RemoveFileError{Path: abs, Err: rmErr}
		}
	}

	return nil
}

// CleanGraph cleans every node of g root-first: the reverse of the
// leaves-first execution order, so a task's dependents are cleaned
// before the task itself.
func CleanGraph(ctx context.Context, g *Graph, baseDir string, rm RunManager) error {
	order, err := g.TopoSort()
	if err != nil {
		return err
	}

	invs := make([]ResolvedInvocation, len(order))
	for i, key := range order {
		invs[i] = g.Node(key)
	}
	rexec, err := rm.Begin(invs)
	if err != nil {
		return &BeginTaskError{Err: err}
	}

	for i := len(order) - 1; i >= 0; i-- {
		key := order[i]
		task := g.Task(key)
		inv := g.Node(key)

		tctx, err := rexec.EnterTask(inv)
		if err != nil {
			return &EnterTaskError{Err: err}
		}
		sink := make(chan Line, 16)
		drained := make(chan struct{})
		go func() {
			for l := range sink {
				tctx.Line(l)
			}
			close(drained)
		}()

		cleanErr := CleanTask(ctx, task, baseDir, sink)
		close(sink)
		<-drained
		tctx.Done(cleanErr)

		if cleanErr != nil {
			return AddTrace(cleanErr, inv.Ref.String())
		}
	}

	return nil
}
