// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// runNode applies the up-to-date oracle to a single node and, if it is
// not current, runs its recipe and validates the result. A skipped node
// still passes through the run manager (UpToDate instead of recipe
// output) and through the oracle's post-decision bookkeeping, so
// downstream tasks observe its outputs as unchanged.
func runNode(ctx context.Context, task *InstantiatedTask, inv ResolvedInvocation, oracle *Oracle, rexec RunExecution) error {
	tctx, err := rexec.EnterTask(inv)
	if err != nil {
		return &EnterTaskError{Err: err}
	}

	should, err := oracle.ShouldRun(task)
	if err != nil {
		return err
	}
	if !should {
		tctx.UpToDate()
		return oracle.CheckOutputs(task, false)
	}

	sink := make(chan Line, 16)
	drained := make(chan struct{})
	go func() {
		for line := range sink {
			tctx.Line(line)
		}
		close(drained)
	}()

	runErr := RunSteps(ctx, task.Steps, task.Workdir, task.Env, sink)
	close(sink)
	<-drained

	tctx.Done(runErr)
	if runErr != nil {
		return runErr
	}

	return oracle.CheckOutputs(task, true)
}

// RunSequential executes every node of g in leaves-first topological
// order, one at a time, checking ctx for cancellation between nodes.
func RunSequential(ctx context.Context, g *Graph, oracle *Oracle, rm RunManager) error {
	order, err := g.TopoSort()
	if err != nil {
		return err
	}

	rexec, err := beginRun(rm, g, order)
	if err != nil {
		return err
	}

	for _, key := range order {
		select {
		case <-ctx.Done():
			return ErrInterrupted
		default:
		}

		inv := g.Node(key)
		if err := runNode(ctx, g.Task(key), inv, oracle, rexec); err != nil {
			return AddTrace(err, inv.Ref.String())
		}
	}

	return nil
}

// beginRun resolves every node in order to its invocation and hands the
// list to rm.Begin, wrapping a failure in BeginTaskError.
func beginRun(rm RunManager, g *Graph, order []string) (RunExecution, error) {
	invs := make([]ResolvedInvocation, len(order))
	for i, key := range order {
		invs[i] = g.Node(key)
	}
	rexec, err := rm.Begin(invs)
	if err != nil {
		return nil, &BeginTaskError{Err: err}
	}
	return rexec, nil
}

// taskTreeQueue tracks, for every node in a graph, how many of its
// successors ("must run before it") remain unfinished, and hands out
// node keys as they become ready (all successors finished) over readyCh.
// readyCh closes once every node has been marked fulfilled -- the
// Ready(None) case of a poll-based queue, expressed as a Go channel close.
type taskTreeQueue struct {
	mu         sync.Mutex
	remaining  map[string]int
	dependents map[string][]string
	readyCh    chan string
	total      int
	finished   int
}

func newTaskTreeQueue(g *Graph) *taskTreeQueue {
	q := &taskTreeQueue{
		remaining:  make(map[string]int),
		dependents: make(map[string][]string),
	}

	order := g.Order()
	q.total = len(order)
	q.readyCh = make(chan string, q.total)

	for _, key := range order {
		succ := g.Successors(key)
		q.remaining[key] = len(succ)
		for _, s := range succ {
			q.dependents[s] = append(q.dependents[s], key)
		}
	}

	for _, key := range order {
		if q.remaining[key] == 0 {
			q.readyCh <- key
		}
	}
	if q.total == 0 {
		close(q.readyCh)
	}

	return q
}

// markFulfilled records that key has finished running, releasing any
// dependent node whose last unfinished successor was key.
func (q *taskTreeQueue) markFulfilled(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.finished++
	for _, dep := range q.dependents[key] {
		q.remaining[dep]--
		if q.remaining[dep] == 0 {
			q.readyCh <- dep
		}
	}
	if q.finished == q.total {
		close(q.readyCh)
	}
}

// RunParallel executes g's nodes with up to maxConcurrency running at
// once, starting a node as soon as every node it depends on has
// finished. The first failing node cancels the shared context, so no new
// node starts; nodes already in flight run under that same context, and
// RunParallel waits for them before returning the first node's error.
//
// A failed node never marks itself fulfilled, so its dependents stay
// unreleased: a failing dep prevents every task depending on it from
// starting, not just tasks that had not yet been fed.
func RunParallel(ctx context.Context, g *Graph, oracle *Oracle, rm RunManager, maxConcurrency int) error {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	order, err := g.TopoSort()
	if err != nil {
		return err
	}

	rexec, err := beginRun(rm, g, order)
	if err != nil {
		return err
	}

	q := newTaskTreeQueue(g)
	sem := semaphore.NewWeighted(int64(maxConcurrency))
	eg, egCtx := errgroup.WithContext(ctx)

loop:
	for {
		select {
		case <-egCtx.Done():
			// cancellation or a failed node: stop feeding, drain below
			break loop
		case key, ok := <-q.readyCh:
			if !ok {
				break loop
			}

			if err := sem.Acquire(egCtx, 1); err != nil {
				break loop
			}

			eg.Go(func() error {
				defer sem.Release(1)

				inv := g.Node(key)
				if err := runNode(egCtx, g.Task(key), inv, oracle, rexec); err != nil {
					return AddTrace(err, inv.Ref.String())
				}
				q.markFulfilled(key)
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		return err
	}
	if ctx.Err() != nil {
		return ErrInterrupted
	}

	return nil
}
