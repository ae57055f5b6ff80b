// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package frontend

import (
	"bytes"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	taskforge "github.com/taskforge-dev/taskforge"
	v1 "github.com/taskforge-dev/taskforge/schema/v1"
)

// canonicalNames are the file names recognized as a taskfile when
// searching a directory.
var canonicalNames = []string{"taskfile.yaml", "taskfile.yml"}

// YAMLFrontEnd finds and loads a local YAML taskfile.
type YAMLFrontEnd struct {
	fsys afero.Fs
}

var _ taskforge.FrontEnd = (*YAMLFrontEnd)(nil)

// NewYAMLFrontEnd returns a front-end reading from fsys.
func NewYAMLFrontEnd(fsys afero.Fs) *YAMLFrontEnd {
	return &YAMLFrontEnd{fsys: fsys}
}

func (fe *YAMLFrontEnd) Name() string { return "yaml" }

// Find matches path directly if it is a canonically-named taskfile, or
// searches for one of the canonical names if path is a directory.
func (fe *YAMLFrontEnd) Find(fsys afero.Fs, path string) (*taskforge.Source, bool, error) {
	isDir, err := afero.IsDir(fsys, path)
	if err == nil && isDir {
		for _, name := range canonicalNames {
			candidate := filepath.Join(path, name)
			exists, err := afero.Exists(fsys, candidate)
			if err != nil {
				return nil, false, err
			}
			if exists {
				return &taskforge.Source{Path: candidate}, true, nil
			}
		}
		return nil, false, nil
	}

	if slices.Contains(canonicalNames, filepath.Base(path)) {
		exists, err := afero.Exists(fsys, path)
		if err != nil {
			return nil, false, err
		}
		if exists {
			return &taskforge.Source{Path: path}, true, nil
		}
	}

	return nil, false, nil
}

// Load reads and validates the YAML document at src.Path and converts it
// to a Taskfile.
func (fe *YAMLFrontEnd) Load(src *taskforge.Source) (*taskforge.Taskfile, error) {
	data, err := afero.ReadFile(fe.fsys, src.Path)
	if err != nil {
		return nil, err
	}

	doc, err := v1.ReadAndValidate(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return docToTaskfile(doc), nil
}
