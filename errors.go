// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"errors"
	"fmt"
)

// TraceError is an error with a logical stack trace, built up as it
// bubbles from the executor through the scheduler to the run driver.
type TraceError struct {
	err   error
	Trace []string
}

var _ error = (*TraceError)(nil)

func (e *TraceError) Error() string { return e.err.Error() }
func (e *TraceError) Unwrap() error { return e.err }

// AddTrace wraps err with a frame of context, extending an existing
// TraceError's trace or starting a new one.
func AddTrace(err error, frame string) error {
	var tErr *TraceError
	if errors.As(err, &tErr) {
		tErr.Trace = append([]string{frame}, tErr.Trace...)
		return tErr
	}
	return &TraceError{err: err, Trace: []string{frame}}
}

// Loading errors.

// TaskfileNotFoundError is returned when no front-end recognizes a path
// and the upward search exhausts the filesystem root.
type TaskfileNotFoundError struct {
	Path string
}

func (e *TaskfileNotFoundError) Error() string {
	return fmt.Sprintf("no taskfile found at or above %q", e.Path)
}

// CanonicalizeError wraps a failure to canonicalize a path into a
// TaskfileID.
type CanonicalizeError struct {
	Path string
	Err  error
}

func (e *CanonicalizeError) Error() string {
	return fmt.Sprintf("canonicalize %q: %v", e.Path, e.Err)
}
func (e *CanonicalizeError) Unwrap() error { return e.Err }

// TaskfileLoadError wraps a front-end's structural parse error.
type TaskfileLoadError struct {
	Source string
	Err    error
}

func (e *TaskfileLoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Source, e.Err)
}
func (e *TaskfileLoadError) Unwrap() error { return e.Err }

// Instantiation errors.

// NotFoundError is returned when an invocation is missing a required
// argument.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("missing required argument %q", e.Key) }

// UnknownArgError is returned when an invocation supplies an argument the
// task does not declare.
type UnknownArgError struct {
	Key string
}

func (e *UnknownArgError) Error() string { return fmt.Sprintf("unknown argument %q", e.Key) }

// TypeError is returned when an argument value fails its param's type
// predicate.
type TypeError struct {
	Key    string
	Detail string
}

func (e *TypeError) Error() string { return fmt.Sprintf("argument %q: %s", e.Key, e.Detail) }

// OutputPathInstantiationError wraps a failure templating an output path.
type OutputPathInstantiationError struct{ Err error }

func (e *OutputPathInstantiationError) Error() string { return fmt.Sprintf("output path: %v", e.Err) }
func (e *OutputPathInstantiationError) Unwrap() error { return e.Err }

// StepsInstantiationError wraps a failure templating a task's steps.
type StepsInstantiationError struct{ Err error }

func (e *StepsInstantiationError) Error() string { return fmt.Sprintf("steps: %v", e.Err) }
func (e *StepsInstantiationError) Unwrap() error { return e.Err }

// CleanStepsInstantiationError wraps a failure templating a task's clean
// steps.
type CleanStepsInstantiationError struct{ Err error }

func (e *CleanStepsInstantiationError) Error() string { return fmt.Sprintf("clean steps: %v", e.Err) }
func (e *CleanStepsInstantiationError) Unwrap() error { return e.Err }

// TemplateRenderError wraps a failure rendering a templated field.
type TemplateRenderError struct {
	Field string
	Err   error
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Field, e.Err)
}
func (e *TemplateRenderError) Unwrap() error { return e.Err }

// Resolution errors.

// TaskNotFoundError is returned when a TaskRef names a task that does not
// exist in its target taskfile, or an alias that is not imported.
type TaskNotFoundError struct {
	Ref TaskRef
}

func (e *TaskNotFoundError) Error() string { return fmt.Sprintf("task %q not found", e.Ref) }

// TaskfileInvocationResolutionError wraps a failure resolving a Dep's
// invocation against its defining taskfile.
type TaskfileInvocationResolutionError struct {
	Taskfile TaskfileID
	Ref      TaskRef
	Err      error
}

func (e *TaskfileInvocationResolutionError) Error() string {
	return fmt.Sprintf("resolve %q in %s: %v", e.Ref, e.Taskfile, e.Err)
}
func (e *TaskfileInvocationResolutionError) Unwrap() error { return e.Err }

// Topology errors.

// DepAfterReferenceError is returned when a dep's `after` list names an id
// that does not match any sibling dep on the same task.
type DepAfterReferenceError struct {
	Task    string
	AfterID string
}

func (e *DepAfterReferenceError) Error() string {
	return fmt.Sprintf("task %q: after references unknown dep id %q", e.Task, e.AfterID)
}

// CycleDetectedError is returned when the dependency graph contains a
// cycle. Path's first and last elements are equal, and consecutive
// elements are connected by a graph edge.
type CycleDetectedError struct {
	Path []ResolvedRef
}

func (e *CycleDetectedError) Error() string {
	s := "cycle detected: "
	for i, r := range e.Path {
		if i > 0 {
			s += " -> "
		}
		s += r.String()
	}
	return s
}

// Oracle errors.

// SourceFileMissingError is a hard error: a declared source does not
// exist.
type SourceFileMissingError struct {
	Path string
}

func (e *SourceFileMissingError) Error() string {
	return fmt.Sprintf("source file missing: %s", e.Path)
}

// OutputFileNotFoundError is returned when a declared output does not
// exist after a task's recipe has run.
type OutputFileNotFoundError struct {
	Path string
}

func (e *OutputFileNotFoundError) Error() string {
	return fmt.Sprintf("output file not found after run: %s", e.Path)
}

// OutputOlderThanSourcesError is returned when a task's output is still
// older than its newest source after running.
type OutputOlderThanSourcesError struct {
	Path string
}

func (e *OutputOlderThanSourcesError) Error() string {
	return fmt.Sprintf("output %s is older than its sources after running", e.Path)
}

// FileHashingError wraps a failure hashing a file's contents.
type FileHashingError struct {
	Path string
	Err  error
}

func (e *FileHashingError) Error() string { return fmt.Sprintf("hash %s: %v", e.Path, e.Err) }
func (e *FileHashingError) Unwrap() error { return e.Err }

// Execution errors.

// SpawnError wraps a failure starting a recipe's subprocess.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string { return fmt.Sprintf("spawn failed: %v", e.Err) }
func (e *SpawnError) Unwrap() error { return e.Err }

// NonZeroExitError is returned when a recipe step exits with a non-zero
// status.
type NonZeroExitError struct {
	Command string
	Code    int
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}

// RemoveFileError wraps a failure deleting a declared output during
// clean.
type RemoveFileError struct {
	Path string
	Err  error
}

func (e *RemoveFileError) Error() string { return fmt.Sprintf("remove %s: %v", e.Path, e.Err) }
func (e *RemoveFileError) Unwrap() error { return e.Err }

// UnsafeCleanPathError is returned when a declared output escapes its
// taskfile's directory -- clean refuses to delete it.
type UnsafeCleanPathError struct {
	Path string
}

func (e *UnsafeCleanPathError) Error() string {
	return fmt.Sprintf("refusing to clean path outside taskfile directory: %s", e.Path)
}

// Run errors.

// ErrInterrupted is returned when a run is stopped by cancellation
// after already-running jobs drain.
var ErrInterrupted = errors.New("interrupted")

// BeginTaskError wraps a run-manager's Begin failure.
type BeginTaskError struct{ Err error }

func (e *BeginTaskError) Error() string { return fmt.Sprintf("begin run: %v", e.Err) }
func (e *BeginTaskError) Unwrap() error { return e.Err }

// EnterTaskError wraps a run-manager's EnterTask failure.
type EnterTaskError struct{ Err error }

func (e *EnterTaskError) Error() string { return fmt.Sprintf("enter task: %v", e.Err) }
func (e *EnterTaskError) Unwrap() error { return e.Err }
