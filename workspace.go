// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Source is the opaque result of a front-end's Find call. Its Payload is
// private to the front-end that produced it; the workspace never
// inspects it, only hands it back to that same front-end's Load.
type Source struct {
	Path    string
	Payload any
}

// FrontEnd answers two questions for the workspace loader: whether a
// taskfile lives at or under a given path, and how to deserialize it.
// Concrete front-ends (a local YAML file, a YAML-emitting executable)
// live in the frontend package; this interface is the capability set the
// loader programs against.
type FrontEnd interface {
	// Name identifies the front-end for warning messages when more than
	// one front-end matches the same path.
	Name() string
	// Find reports whether a taskfile lives at or under path, returning an
	// opaque Source on success.
	Find(fsys afero.Fs, path string) (*Source, bool, error)
	// Load deserializes the document referenced by src into a Taskfile
	// whose imports are still Unresolved.
	Load(src *Source) (*Taskfile, error)
}

// ImportRef is an import edge inside a taskfile: either a path not yet
// resolved to a taskfile, or the id of the taskfile it resolves to.
type ImportRef struct {
	path string
	id   TaskfileID
}

// UnresolvedImportRef constructs an ImportRef pointing at a relative path
// that has not yet been loaded.
func UnresolvedImportRef(path string) ImportRef { return ImportRef{path: path} }

// Resolved reports whether this import has been rewritten to a concrete
// TaskfileID.
func (r ImportRef) Resolved() bool { return r.id != "" }

// Path returns the unresolved path, valid only before resolution.
func (r ImportRef) Path() string { return r.path }

// ID returns the resolved TaskfileID, valid only after resolution.
func (r ImportRef) ID() TaskfileID { return r.id }

// Taskfile is a loaded catalog of tasks plus its env and import table.
type Taskfile struct {
	ID      TaskfileID
	Dir     string
	Env     *EnvMap
	Imports map[string]ImportRef
	Tasks   map[string]Task
}

// Workspace owns the global TaskfileID -> Taskfile map and the ordered
// list of registered front-ends.
type Workspace struct {
	fsys      afero.Fs
	frontEnds []FrontEnd
	taskfiles map[TaskfileID]*Taskfile
}

// NewWorkspace constructs an empty Workspace backed by fsys, consulting
// frontEnds in the given order.
func NewWorkspace(fsys afero.Fs, frontEnds ...FrontEnd) *Workspace {
	return &Workspace{
		fsys:      fsys,
		frontEnds: frontEnds,
		taskfiles: make(map[TaskfileID]*Taskfile),
	}
}

// Get returns an already-loaded taskfile by id.
func (w *Workspace) Get(id TaskfileID) (*Taskfile, bool) {
	tf, ok := w.taskfiles[id]
	return tf, ok
}

// Load resolves path (a file or a directory to search upward from) to a
// taskfile, loading and caching it -- and recursively loading every
// taskfile it imports -- if it is not already cached.
//
// Re-loading an already-loaded canonical path is a no-op returning the
// cached id (the idempotent-loading invariant).
func (w *Workspace) Load(path string) (TaskfileID, error) {
	src, fe, err := w.find(path)
	if err != nil {
		return "", err
	}

	id, err := NewTaskfileID(src.Path)
	if err != nil {
		return "", err
	}

	return id, w.loadInto(id, src, fe)
}

// loadInto loads src (if id is not already cached) and resolves its
// imports, recursively loading each imported taskfile.
func (w *Workspace) loadInto(id TaskfileID, src *Source, fe FrontEnd) error {
	if _, ok := w.taskfiles[id]; ok {
		return nil
	}

	tf, err := fe.Load(src)
	if err != nil {
		return &TaskfileLoadError{Source: src.Path, Err: err}
	}
	tf.ID = id
	if tf.Dir == "" {
		tf.Dir = id.Dir()
	}

	// insert before recursing: a cyclic import graph is safe because this
	// already-loaded check breaks the recursion
	w.taskfiles[id] = tf

	for alias, imp := range tf.Imports {
		if imp.Resolved() {
			continue
		}
		importPath := imp.Path()
		if !filepath.IsAbs(importPath) {
			importPath = filepath.Join(tf.Dir, importPath)
		}
		importedID, err := w.Load(importPath)
		if err != nil {
			return err
		}
		tf.Imports[alias] = ImportRef{id: importedID}
	}

	return nil
}

// find walks candidate front-ends over path, searching parent directories
// when path is a directory and nothing matches directly.
func (w *Workspace) find(path string) (*Source, FrontEnd, error) {
	current := path

	for {
		var matches []FrontEnd
		var firstSrc *Source

		for _, fe := range w.frontEnds {
			src, ok, err := fe.Find(w.fsys, current)
			if err != nil {
				return nil, nil, err
			}
			if ok {
				matches = append(matches, fe)
				if firstSrc == nil {
					firstSrc = src
				}
			}
		}

		if len(matches) > 0 {
			if len(matches) > 1 {
				names := make([]string, len(matches))
				for i, fe := range matches {
					names[i] = fe.Name()
				}
				log.Default().Warn("multiple front-ends matched, using the first", "path", current, "front-ends", names)
			}
			return firstSrc, matches[0], nil
		}

		info, err := afero.Exists(w.fsys, current)
		if err != nil {
			return nil, nil, err
		}
		if !info {
			return nil, nil, &TaskfileNotFoundError{Path: path}
		}

		isDir, err := afero.IsDir(w.fsys, current)
		if err != nil || !isDir {
			return nil, nil, &TaskfileNotFoundError{Path: path}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return nil, nil, &TaskfileNotFoundError{Path: path}
		}
		current = parent
	}
}

// ResolveTask resolves a TaskRef against current, returning the defining
// taskfile and the task. Returns ok=false iff the alias or the task name
// does not exist; it never returns a task from an unrelated taskfile.
func (w *Workspace) ResolveTask(current *Taskfile, ref TaskRef) (*Taskfile, Task, bool) {
	target := current
	if ref.IsImported() {
		imp, ok := current.Imports[ref.Alias]
		if !ok || !imp.Resolved() {
			return nil, Task{}, false
		}
		target, ok = w.Get(imp.ID())
		if !ok {
			return nil, Task{}, false
		}
	}

	task, ok := target.Tasks[ref.Name]
	if !ok {
		return nil, Task{}, false
	}
	return target, task, true
}

// ResolveInvocation resolves a SyntacticInvocation against current into a
// ResolvedInvocation plus the task definition. The resolved ref's
// taskfile is the defining taskfile's id, never the caller's.
func (w *Workspace) ResolveInvocation(current *Taskfile, inv SyntacticInvocation) (ResolvedInvocation, Task, error) {
	defining, task, ok := w.ResolveTask(current, inv.Ref)
	if !ok {
		return ResolvedInvocation{}, Task{}, &TaskfileInvocationResolutionError{
			Taskfile: current.ID,
			Ref:      inv.Ref,
			Err:      &TaskNotFoundError{Ref: inv.Ref},
		}
	}

	return ResolvedInvocation{
		Ref:  ResolvedRef{Taskfile: defining.ID, Name: task.Name},
		Args: inv.Args,
	}, task, nil
}
