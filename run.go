// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"context"
	"os"
)

// RunOptions configures a top-level Run: how many recipes may execute at
// once, and what to do with their output.
type RunOptions struct {
	// Concurrency is the maximum number of tasks running at once. Values
	// <= 1 force sequential execution.
	Concurrency int
	// RunManager receives task output and status. Defaults to a
	// PlainRunManager writing to stdout.
	RunManager RunManager
}

// Run is the engine's single entry point for executing a task: it
// resolves root against the workspace, builds the dependency graph
// (instantiating every reachable task along the way), topologically
// orders it, and drives the scheduler -- sequential or bounded-parallel
// depending on opts.Concurrency.
func Run(ctx context.Context, ws *Workspace, rootTaskfile *Taskfile, root SyntacticInvocation, opts RunOptions) error {
	g, err := BuildGraph(ws, rootTaskfile, root)
	if err != nil {
		return err
	}

	rm := opts.RunManager
	if rm == nil {
		rm = NewPlainRunManager(os.Stdout)
	}

	oracle := NewOracle()

	if opts.Concurrency <= 1 {
		return RunSequential(ctx, g, oracle, rm)
	}
	return RunParallel(ctx, g, oracle, rm, opts.Concurrency)
}

// CleanOptions configures a Clean call.
type CleanOptions struct {
	// Recursive cleans every task root depends on, root-first. When
	// false, only root itself is cleaned.
	Recursive bool
	// RunManager receives clean-recipe output and status. Defaults to a
	// PlainRunManager writing to stdout.
	RunManager RunManager
}

// Clean removes root's declared outputs (or runs its custom clean
// recipe), optionally cascading to every task it depends on.
func Clean(ctx context.Context, ws *Workspace, rootTaskfile *Taskfile, root SyntacticInvocation, opts CleanOptions) error {
	rm := opts.RunManager
	if rm == nil {
		rm = NewPlainRunManager(os.Stdout)
	}

	if !opts.Recursive {
		resolved, task, err := ws.ResolveInvocation(rootTaskfile, root)
		if err != nil {
			return err
		}
		definingTF, ok := ws.Get(resolved.Ref.Taskfile)
		if !ok {
			return &TaskfileInvocationResolutionError{Taskfile: rootTaskfile.ID, Ref: root.Ref, Err: &TaskfileNotFoundError{Path: string(resolved.Ref.Taskfile)}}
		}

		it, err := Instantiate(task, resolved.Args, definingTF.Env)
		if err != nil {
			return err
		}
		it.Workdir = anchorWorkdir(definingTF.Dir, it.Workdir)

		rexec, err := rm.Begin([]ResolvedInvocation{resolved})
		if err != nil {
			return &BeginTaskError{Err: err}
		}
		tctx, err := rexec.EnterTask(resolved)
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

		cleanErr := CleanTask(ctx, it, definingTF.Dir, sink)
		close(sink)
		<-drained
		tctx.Done(cleanErr)
		return cleanErr
	}

	g, err := BuildGraph(ws, rootTaskfile, root)
	if err != nil {
		return err
	}
	return CleanGraph(ctx, g, rootTaskfile.Dir, rm)
}
