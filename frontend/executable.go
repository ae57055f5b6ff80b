// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package frontend

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	taskforge "github.com/taskforge-dev/taskforge"
	v1 "github.com/taskforge-dev/taskforge/schema/v1"
)

// executableName is the bare filename recognized as a generator
// taskfile: an executable that prints a v1 YAML document to stdout.
const executableName = "taskfile"

// exportFlag is passed to the executable so it knows to print its
// taskfile document instead of doing whatever else it might do when run
// plainly.
const exportFlag = "--taskforge-export"

// executableTimeout bounds how long a generator taskfile may take to
// print its document.
const executableTimeout = 10 * time.Second

// ExecutableFrontEnd finds and loads a taskfile that is itself an
// executable program emitting a YAML taskfile document on stdout, for
// projects whose task graph depends on more logic than the declarative
// surface can express (reading a package manifest, probing the host).
type ExecutableFrontEnd struct {
	fsys afero.Fs
}

var _ taskforge.FrontEnd = (*ExecutableFrontEnd)(nil)

// NewExecutableFrontEnd returns a front-end reading from fsys.
func NewExecutableFrontEnd(fsys afero.Fs) *ExecutableFrontEnd {
	return &ExecutableFrontEnd{fsys: fsys}
}

func (fe *ExecutableFrontEnd) Name() string { return "executable" }

// Find matches a directory containing an executable file literally named
// "taskfile", or path itself when it is such a file.
func (fe *ExecutableFrontEnd) Find(fsys afero.Fs, path string) (*taskforge.Source, bool, error) {
	isDir, err := afero.IsDir(fsys, path)
	if err == nil && isDir {
		candidate := filepath.Join(path, executableName)
		return fe.matchExecutable(fsys, candidate)
	}

	if filepath.Base(path) == executableName {
		return fe.matchExecutable(fsys, path)
	}

	return nil, false, nil
}

func (fe *ExecutableFrontEnd) matchExecutable(fsys afero.Fs, path string) (*taskforge.Source, bool, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if info.IsDir() || info.Mode()&0o111 == 0 {
		return nil, false, nil
	}
	return &taskforge.Source{Path: path}, true, nil
}

// Load runs the executable at src.Path with exportFlag and parses its
// stdout as a v1 taskfile document. It requires an on-disk path (not a
// virtualized afero filesystem), since the program is invoked by the
// real OS.
func (fe *ExecutableFrontEnd) Load(src *taskforge.Source) (*taskforge.Taskfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), executableTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, src.Path, exportFlag)
	cmd.Dir = filepath.Dir(src.Path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &taskforge.TaskfileLoadError{Source: src.Path, Err: err}
	}

	doc, err := v1.ReadAndValidate(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		return nil, err
	}

	return docToTaskfile(doc), nil
}
