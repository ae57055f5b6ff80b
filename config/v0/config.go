// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package v0 provides the schema for v0 of taskforge's system config
// file. v0 allows breaking changes without a major version bump.
package v0

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/taskforge-dev/taskforge/config"
	"github.com/taskforge-dev/taskforge/schema"
)

// SchemaVersion is the current schema version for configs.
const SchemaVersion = "v0"

// Config is the system configuration file for taskforge.
type Config struct {
	SchemaVersion      string   `json:"schema-version" yaml:"schema-version"`
	DefaultConcurrency string   `json:"default-concurrency,omitempty" yaml:"default-concurrency,omitempty"`
	FrontEnds          []string `json:"front-ends,omitempty" yaml:"front-ends,omitempty"`
}

func defaultConfig() *Config {
	return &Config{
		SchemaVersion:      SchemaVersion,
		DefaultConcurrency: "logical_cpus",
		FrontEnds:          []string{"yaml", "executable"},
	}
}

// JSONSchemaExtend extends the generated JSON schema for Config.
func (Config) JSONSchemaExtend(s *jsonschema.Schema) {
	if v, ok := s.Properties.Get("schema-version"); ok && v != nil {
		v.Description = "Config schema version"
		v.Enum = []any{SchemaVersion}
		v.AdditionalProperties = jsonschema.FalseSchema
	}
	if v, ok := s.Properties.Get("default-concurrency"); ok && v != nil {
		v.Description = `A positive integer, "logical_cpus", or "physical_cpus". The CLI does not apply this value: a run is sequential unless --concurrency is given.`
	}
	if v, ok := s.Properties.Get("front-ends"); ok && v != nil {
		v.Description = "Ordered list of front-end names to search for a taskfile, by priority."
	}
}

// LoadConfig loads the configuration from r.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := defaultConfig()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var versioned schema.Versioned
	if err := yaml.Unmarshal(data, &versioned); err != nil {
		return nil, err
	}

	switch versioned.SchemaVersion {
	case SchemaVersion:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	default:
		return nil, fmt.Errorf("unsupported config schema version: expected %q, got %q", SchemaVersion, versioned.SchemaVersion)
	}
}

// LoadDefaultConfig loads the config from config.DefaultDirectory. If
// that file does not exist, the default config is returned.
func LoadDefaultConfig() (*Config, error) {
	configDir, err := config.DefaultDirectory()
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	f, err := os.Open(filepath.Join(configDir, config.DefaultFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	loaded, err := LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	return loaded, nil
}

var schemaOnce = sync.OnceValues(func() (string, error) {
	b, err := json.Marshal(Schema())
	return string(b), err
})

// Validate checks a config against the generated JSON schema.
func Validate(cfg *Config) error {
	s, err := schemaOnce()
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(s), gojsonschema.NewGoLoader(cfg))
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

// Schema generates the JSON schema for v0 configuration validation.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	return reflector.Reflect(&Config{})
}
