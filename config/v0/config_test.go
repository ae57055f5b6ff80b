// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package v0

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigParsesValidDoc(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
schema-version: v0
default-concurrency: "4"
front-ends: [yaml]
`))
	require.NoError(t, err)
	assert.Equal(t, "4", cfg.DefaultConcurrency)
	assert.Equal(t, []string{"yaml"}, cfg.FrontEnds)
}

func TestLoadConfigRejectsWrongSchemaVersion(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("schema-version: v9\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config schema version")
}

func TestLoadConfigAppliesDefaultsForOmittedFields(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("schema-version: v0\n"))
	require.NoError(t, err)
	assert.Equal(t, "logical_cpus", cfg.DefaultConcurrency)
	assert.Equal(t, []string{"yaml", "executable"}, cfg.FrontEnds)
}

func TestLoadDefaultConfigToleratesMissingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadDefaultConfigReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	confDir := filepath.Join(dir, "taskforge")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte(`
schema-version: v0
default-concurrency: "2"
`), 0o644))

	cfg, err := LoadDefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, "2", cfg.DefaultConcurrency)
}

func TestValidateAcceptsDefaultConfig(t *testing.T) {
	assert.NoError(t, Validate(defaultConfig()))
}

func TestSchemaPinsSchemaVersionEnum(t *testing.T) {
	s := Schema()
	prop, ok := s.Properties.Get("schema-version")
	require.True(t, ok)
	assert.Equal(t, []any{SchemaVersion}, prop.Enum)
}
