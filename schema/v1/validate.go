// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/taskforge-dev/taskforge/schema"
)

// TaskNamePattern constrains task names and import aliases to a safe,
// shell- and filesystem-friendly character set.
var TaskNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// EnvVariablePattern constrains declared environment variable names.
var EnvVariablePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Read reads a taskfile document, rejecting any schema version other
// than this package's.
func Read(r io.Reader) (TaskfileDoc, error) {
	if rs, ok := r.(io.Seeker); ok {
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return TaskfileDoc{}, err
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return TaskfileDoc{}, err
	}

	var versioned schema.Versioned
	if err := yaml.Unmarshal(data, &versioned); err != nil {
		return TaskfileDoc{}, err
	}

	switch versioned.SchemaVersion {
	case SchemaVersion:
		var doc TaskfileDoc
		return doc, yaml.Unmarshal(data, &doc)
	default:
		return TaskfileDoc{}, fmt.Errorf("unsupported taskfile schema version: expected %q, got %q", SchemaVersion, versioned.SchemaVersion)
	}
}

var schemaOnce = sync.OnceValues(func() (string, error) {
	b, err := json.Marshal(TaskfileSchema())
	return string(b), err
})

// Validate checks doc's structural invariants beyond what the JSON
// schema alone can express: task/import name patterns, env variable name
// patterns, and per-task dep-id uniqueness.
func Validate(doc TaskfileDoc) error {
	if len(doc.Tasks) == 0 {
		return errors.New("no tasks defined")
	}

	for alias := range doc.Imports {
		if !TaskNamePattern.MatchString(alias) {
			return fmt.Errorf(".imports.%s does not satisfy %q", alias, TaskNamePattern.String())
		}
	}

	for name, task := range doc.Tasks {
		if !TaskNamePattern.MatchString(name) {
			return fmt.Errorf(".tasks.%s does not satisfy %q", name, TaskNamePattern.String())
		}

		ids := make(map[string]int, len(task.Deps))
		for idx, dep := range task.Deps {
			if dep.Uses == "" {
				return fmt.Errorf(".tasks.%s.deps[%d] must set uses", name, idx)
			}
			if dep.ID != "" {
				if prev, ok := ids[dep.ID]; ok {
					return fmt.Errorf(".tasks.%s.deps[%d] and .tasks.%s.deps[%d] share id %q", name, prev, name, idx, dep.ID)
				}
				ids[dep.ID] = idx
			}
		}

		for envName := range task.Env {
			if !EnvVariablePattern.MatchString(envName) {
				return fmt.Errorf(".tasks.%s.env %q does not satisfy %q", name, envName, EnvVariablePattern.String())
			}
		}
	}

	s, err := schemaOnce()
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(s), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	var resErr error
	for _, e := range result.Errors() {
		resErr = errors.Join(resErr, errors.New(e.String()))
	}
	return resErr
}

// ReadAndValidate reads and validates a taskfile document.
func ReadAndValidate(r io.Reader) (TaskfileDoc, error) {
	doc, err := Read(r)
	if err != nil {
		return TaskfileDoc{}, err
	}
	return doc, Validate(doc)
}

// TaskfileSchema generates the JSON schema for taskfile documents.
func TaskfileSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	s := reflector.Reflect(&TaskfileDoc{})
	s.ID = jsonschema.ID(SchemaURL)
	return s
}
