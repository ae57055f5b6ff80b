// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package v1 is the YAML surface for a taskforge taskfile: the document
// shape a user writes, before it is converted into the engine's
// taskforge.Taskfile model.
package v1

import (
	"github.com/invopop/jsonschema"
)

// SchemaVersion is the current schema version for taskfiles.
const SchemaVersion = "v1"

// SchemaURL is the URL the generated JSON schema is published at.
const SchemaURL = "https://raw.githubusercontent.com/taskforge-dev/taskforge/main/schema/v1/schema.json"

// TaskfileDoc is the root document of a taskfile.
type TaskfileDoc struct {
	SchemaVersion string             `json:"schema-version" yaml:"schema-version"`
	Imports       map[string]string  `json:"imports,omitempty" yaml:"imports,omitempty"`
	Env           map[string]any     `json:"env,omitempty" yaml:"env,omitempty"`
	Tasks         map[string]TaskDoc `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// JSONSchemaExtend pins the schema-version enum and documents the
// top-level fields.
func (TaskfileDoc) JSONSchemaExtend(schema *jsonschema.Schema) {
	if v, ok := schema.Properties.Get("schema-version"); ok && v != nil {
		v.Description = "Taskfile schema version."
		v.Enum = []any{SchemaVersion}
		v.AdditionalProperties = jsonschema.FalseSchema
	}
	if v, ok := schema.Properties.Get("imports"); ok && v != nil {
		v.Description = "Map of alias to a relative path of another taskfile to import tasks from."
	}
	if v, ok := schema.Properties.Get("tasks"); ok && v != nil {
		v.Description = "Map of task name to task definition."
	}
}
