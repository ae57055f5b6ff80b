// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package config provides system-level configuration for taskforge.
package config

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the default file name for the config file.
const DefaultFileName = "config.yaml"

// DefaultDirectory returns the default directory for taskforge
// configuration: $XDG_CONFIG_HOME/taskforge, falling back to
// $HOME/.config/taskforge when XDG_CONFIG_HOME is unset.
func DefaultDirectory() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskforge"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "taskforge"), nil
}
