// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDirectoryHonorsXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg-root")

	dir, err := DefaultDirectory()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg-root", "taskforge"), dir)
}

func TestDefaultDirectoryFallsBackToHomeConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/dev")

	dir, err := DefaultDirectory()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/dev", ".config", "taskforge"), dir)
}
