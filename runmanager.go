// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// RunManager observes a scheduler run. It decides how much of a run's
// output a caller sees: every recipe line (plain mode), only pass/fail
// summaries (compact mode), or nothing at all.
type RunManager interface {
	// Begin is called once per run, given every invocation the scheduler
	// may execute (in topological order), before any of them start. A
	// failure here aborts the run before a single task is entered.
	Begin(invocations []ResolvedInvocation) (RunExecution, error)
}

// RunExecution is the per-run handle a RunManager hands back from Begin.
type RunExecution interface {
	// EnterTask is called once for every task the scheduler reaches,
	// before the oracle decides whether it runs or is up to date.
	EnterTask(inv ResolvedInvocation) (TaskExecutionContext, error)
}

// TaskExecutionContext receives the output and terminal status of a
// single running task. Exactly one of two paths follows EnterTask:
// either the task runs (any number of Line calls, then Done), or the
// oracle skipped it (a single UpToDate call).
type TaskExecutionContext interface {
	Line(line Line)
	Done(err error)
	UpToDate()
}

// PlainRunManager prints every recipe line, tagged with the task it
// came from, in charmbracelet/log's key-value style.
type PlainRunManager struct {
	mu     sync.Mutex
	logger *log.Logger
}

// NewPlainRunManager returns a RunManager that writes to w.
func NewPlainRunManager(w io.Writer) *PlainRunManager {
	return &PlainRunManager{logger: log.NewWithOptions(w, log.Options{ReportTimestamp: false})}
}

func (m *PlainRunManager) Begin([]ResolvedInvocation) (RunExecution, error) {
	return &plainRunExecution{manager: m}, nil
}

type plainRunExecution struct {
	manager *PlainRunManager
}

func (e *plainRunExecution) EnterTask(inv ResolvedInvocation) (TaskExecutionContext, error) {
	return &plainTaskCtx{manager: e.manager, name: inv.Ref.Name}, nil
}

type plainTaskCtx struct {
	manager *PlainRunManager
	name    string
}

func (c *plainTaskCtx) Line(line Line) {
	c.manager.mu.Lock()
	defer c.manager.mu.Unlock()
	stream := "stdout"
	if line.Stream == StreamStderr {
		stream = "stderr"
	}
	c.manager.logger.Info(line.Text, "task", c.name, "stream", stream)
}

func (c *plainTaskCtx) UpToDate() {
	c.manager.mu.Lock()
	defer c.manager.mu.Unlock()
	c.manager.logger.Info("up to date", "task", c.name)
}

func (c *plainTaskCtx) Done(err error) {
	c.manager.mu.Lock()
	defer c.manager.mu.Unlock()
	if err != nil {
		c.manager.logger.Error("task failed", "task", c.name, "err", err)
		return
	}
	c.manager.logger.Debug("task finished", "task", c.name)
}

// CompactRunManager discards per-line output and prints a single status
// line per task once it finishes -- the `--compact` run mode.
type CompactRunManager struct {
	mu     sync.Mutex
	logger *log.Logger
}

// NewCompactRunManager returns a RunManager that writes to w.
func NewCompactRunManager(w io.Writer) *CompactRunManager {
	return &CompactRunManager{logger: log.NewWithOptions(w, log.Options{ReportTimestamp: false})}
}

func (m *CompactRunManager) Begin([]ResolvedInvocation) (RunExecution, error) {
	return &compactRunExecution{manager: m}, nil
}

type compactRunExecution struct {
	manager *CompactRunManager
}

func (e *compactRunExecution) EnterTask(inv ResolvedInvocation) (TaskExecutionContext, error) {
	return &compactTaskCtx{manager: e.manager, name: inv.Ref.Name}, nil
}

type compactTaskCtx struct {
	manager *CompactRunManager
	name    string
}

func (c *compactTaskCtx) Line(Line) {}

func (c *compactTaskCtx) UpToDate() {
	c.manager.mu.Lock()
	defer c.manager.mu.Unlock()
	c.manager.logger.Info("UP-TO-DATE", "task", c.name)
}

func (c *compactTaskCtx) Done(err error) {
	c.manager.mu.Lock()
	defer c.manager.mu.Unlock()
	if err != nil {
		c.manager.logger.Error("FAIL", "task", c.name, "err", err)
		return
	}
	c.manager.logger.Info("OK", "task", c.name)
}

// SilentRunManager discards everything: no line, status or summary is
// written anywhere.
type SilentRunManager struct{}

func (SilentRunManager) Begin([]ResolvedInvocation) (RunExecution, error) {
	return silentRunExecution{}, nil
}

type silentRunExecution struct{}

func (silentRunExecution) EnterTask(ResolvedInvocation) (TaskExecutionContext, error) {
	return silentTaskCtx{}, nil
}

type silentTaskCtx struct{}

func (silentTaskCtx) Line(Line)  {}
func (silentTaskCtx) Done(error) {}
func (silentTaskCtx) UpToDate()  {}
