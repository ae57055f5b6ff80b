// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Oracle is the up-to-date checker: it decides whether a task needs to
// run, and afterward validates that its outputs actually materialized and
// tracks which output files changed content across the run.
//
// One Oracle serves a whole run. In parallel mode its methods are called
// from concurrent jobs; a single mutex guards all state, and is
// held for the whole call, which stats every source and output and
// hashes every file output.
type Oracle struct {
	mu sync.Mutex
	// preRunHash holds each file output's content hash as observed just
	// before a task runs, so CheckOutputs can tell whether the run
	// actually changed a file's bytes even though its mtime moved.
	preRunHash map[string]string
	// notChanged records, per output path, whether the task that produced
	// it this run left its content byte-identical (or was skipped
	// entirely). Keys are workdir-resolved paths so that one task's
	// output and another task's source collide correctly.
	notChanged map[string]bool
	// producers records which task first claimed each output path, so a
	// second producer of the same path can be warned about.
	producers map[string]string
}

// NewOracle returns an empty Oracle.
func NewOracle() *Oracle {
	return &Oracle{
		preRunHash: make(map[string]string),
		notChanged: make(map[string]bool),
		producers:  make(map[string]string),
	}
}

// NotChanged reports whether path's content was observed to be unchanged
// across its producing task's most recent decision (skipped, or re-run
// byte-identical). It is only meaningful after CheckOutputs has run for
// the task that produces path.
func (o *Oracle) NotChanged(path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.notChanged[path]
}

// setNotChanged records an observation for path. A previous true
// observation (another task already claimed the file unchanged) is left
// standing; the duplicate-producer warning in CheckOutputs covers the
// hazard of two tasks writing the same path.
func (o *Oracle) setNotChanged(path string, v bool) {
	if prev, ok := o.notChanged[path]; ok && prev {
		return
	}
	o.notChanged[path] = v
}

// resolvePath anchors a declared source or output path to the task's
// workdir. Absolute paths stand as written.
func resolvePath(workdir, path string) string {
	if workdir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workdir, path)
}

// ShouldRun implements the up-to-date decision for task:
//
//  1. No declared outputs: always run (nothing to compare against).
//  2. No steps: nothing to do, never run.
//  3. A declared source that does not exist is a hard error.
//  4. Any output missing, or older than the newest source, marks the task
//     changed.
//  5. A phony task always runs regardless of timestamps.
//
// Source and output paths are resolved against the task's workdir.
//
// A source whose content last regenerated byte-identical to what was
// already there (o.NotChanged reports true) is excluded from the
// newest-source comparison: its mtime moved but its bytes didn't, so it
// does not by itself make task stale. It is still required to exist.
//
// Before returning, it snapshots each existing file output's content hash
// so a later CheckOutputs call can detect whether the run actually
// changed the bytes.
func (o *Oracle) ShouldRun(task *InstantiatedTask) (bool, error) {
	if len(task.Outputs) == 0 {
		return true, nil
	}
	if len(task.Steps) == 0 {
		return false, nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	sources := make([]string, len(task.Sources))
	for i, s := range task.Sources {
		sources[i] = resolvePath(task.Workdir, s)
	}

	if _, _, err := newestModTime(sources, true); err != nil {
		return false, err
	}

	effectiveSources := make([]string, 0, len(sources))
	for _, s := range sources {
		if o.notChanged[s] {
			continue
		}
		effectiveSources = append(effectiveSources, s)
	}

	newestSource, haveSource, err := newestModTime(effectiveSources, true)
	if err != nil {
		return false, err
	}

	changed := false

	for _, out := range task.Outputs {
		path := resolvePath(task.Workdir, out.Path)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				changed = true
				continue
			}
			return false, err
		}

		if haveSource && info.ModTime().Before(newestSource) {
			changed = true
		}

		if out.Kind == OutputFile {
			if h, err := hashFile(path); err == nil {
				o.preRunHash[path] = h
			}
		}
	}

	return changed || task.Phony, nil
}

// CheckOutputs validates task's outputs after the run decision. ran is
// the caller's record of whether steps were actually invoked.
//
// When the task was skipped (ran=false), its file outputs are simply
// marked unchanged for the rest of the run, so downstream tasks sharing
// them as sources can skip the staleness comparison too.
//
// When the task ran, every declared output must exist, must not have
// ended up older than the newest source, and has its content hash
// compared against the pre-run snapshot to decide whether the bytes
// actually changed. Directory outputs are validated by existence only.
func (o *Oracle) CheckOutputs(task *InstantiatedTask, ran bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !ran {
		for _, out := range task.Outputs {
			if out.Kind == OutputFile {
				o.setNotChanged(resolvePath(task.Workdir, out.Path), true)
			}
		}
		return nil
	}

	sources := make([]string, len(task.Sources))
	for i, s := range task.Sources {
		sources[i] = resolvePath(task.Workdir, s)
	}
	newestSource, haveSource, err := newestModTime(sources, false)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(task.Outputs))

	for _, out := range task.Outputs {
		path := resolvePath(task.Workdir, out.Path)
		if seen[path] {
			log.Default().Warn("task declares the same output path more than once", "path", path)
			continue
		}
		seen[path] = true

		if prev, ok := o.producers[path]; ok && prev != task.Name {
			log.Default().Warn("output path is produced by more than one task", "path", path, "tasks", []string{prev, task.Name})
		} else {
			o.producers[path] = task.Name
		}

		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return &OutputFileNotFoundError{Path: path}
			}
			return err
		}

		if out.Kind == OutputDirectory {
			// directories are validated by existence only
			continue
		}

		if haveSource && info.ModTime().Before(newestSource) {
			return &OutputOlderThanSourcesError{Path: path}
		}

		h, err := hashFile(path)
		if err != nil {
			return err
		}
		o.setNotChanged(path, h == o.preRunHash[path])
		o.preRunHash[path] = h
	}

	return nil
}

// newestModTime returns the modification time of the most recently
// modified path in paths. hardErrorOnMissing controls whether a missing
// source is a SourceFileMissingError (the ShouldRun case) or silently
// skipped (the post-run CheckOutputs case, where a source vanishing
// mid-run is not this function's concern).
func newestModTime(paths []string, hardErrorOnMissing bool) (time.Time, bool, error) {
	var newest time.Time
	found := false

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				if hardErrorOnMissing {
					return time.Time{}, false, &SourceFileMissingError{Path: p}
				}
				continue
			}
			return time.Time{}, false, err
		}
		found = true
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}

	return newest, found, nil
}
