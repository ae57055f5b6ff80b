// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package printer

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Script renders a recipe step with syntax highlighting, for dry-run
// previews. It falls back to plain text
// when NO_COLOR is set or highlighting fails.
func Script(logger *log.Logger, script string) {
	script = strings.TrimSpace(script)

	if termenv.EnvNoColor() {
		logger.Print(script)
		return
	}

	var buf strings.Builder
	style := "tokyonight-day"
	if lipgloss.HasDarkBackground() {
		style = "tokyonight-moon"
	}

	if err := quick.Highlight(&buf, script, "shell", "terminal256", style); err != nil {
		logger.Debugf("failed to highlight: %v", err)
		for _, line := range strings.Split(script, "\n") {
			logger.Printf("  %s", line)
		}
		return
	}

	prefix := lipgloss.NewStyle().Background(GrayColor).Render(" ")
	for _, line := range strings.Split(buf.String(), "\n") {
		logger.Printf("%s %s", prefix, line)
	}
}
