// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package printer renders taskforge's CLI output: syntax-highlighted
// recipe previews for dry runs, and the task list table for `list`.
package printer

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// The terminal colors taskforge uses, derived from
// https://github.com/charmbracelet/vhs/blob/main/themes.json
var (
	DebugColor = lipgloss.AdaptiveColor{
		Light: "#2e7de9", // tokyonight-day blue
		Dark:  "#7aa2f7", // tokyonight blue
	}
	InfoColor = lipgloss.AdaptiveColor{
		Light: "#007197", // tokyonight-day cyan
		Dark:  "#7dcfff", // tokyonight cyan
	}
	WarnColor = lipgloss.AdaptiveColor{
		Light: "#8c6c3e", // tokyonight-day amber/yellow
		Dark:  "#e0af68", // tokyonight amber/yellow
	}
	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#f52a65", // tokyonight-day red
		Dark:  "#f7768e", // tokyonight red
	}
	GreenColor = lipgloss.AdaptiveColor{
		Light: "#587539", // tokyonight-day green
		Dark:  "#9ece6a", // tokyonight green
	}
	GrayColor = lipgloss.AdaptiveColor{
		Light: "#c5c6bC",
		Dark:  "#3a3943",
	}
)

// DefaultStyles returns charmbracelet/log's default styles with
// taskforge's adaptive level colors applied.
func DefaultStyles() *log.Styles {
	styles := log.DefaultStyles()

	styles.Levels[log.DebugLevel] = styles.Levels[log.DebugLevel].Foreground(DebugColor)
	styles.Levels[log.InfoLevel] = styles.Levels[log.InfoLevel].Foreground(InfoColor)
	styles.Levels[log.WarnLevel] = styles.Levels[log.WarnLevel].Foreground(WarnColor)
	styles.Levels[log.ErrorLevel] = styles.Levels[log.ErrorLevel].Foreground(ErrorColor)

	return styles
}
