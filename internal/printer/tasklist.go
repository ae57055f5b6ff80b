// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package printer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	taskforge "github.com/taskforge-dev/taskforge"
)

// TaskList renders a taskfile's tasks as a two-column table, formatting
// inspired by `just --list`.
type TaskList struct {
	col0max int
	rows    [][2]string
}

// NewTaskList builds a TaskList from tf's own tasks plus every imported
// taskfile's tasks, qualified by their import alias.
func NewTaskList(ws *taskforge.Workspace, tf *taskforge.Taskfile) *TaskList {
	t := &TaskList{}

	for _, name := range sortedTaskNames(tf.Tasks) {
		t.addRow(name, tf.Tasks[name])
	}

	for alias, imp := range tf.Imports {
		if !imp.Resolved() {
			continue
		}
		imported, ok := ws.Get(imp.ID())
		if !ok {
			continue
		}
		for _, name := range sortedTaskNames(imported.Tasks) {
			t.addRow(fmt.Sprintf("%s:%s", alias, name), imported.Tasks[name])
		}
	}

	return t
}

func (t *TaskList) addRow(displayName string, task taskforge.Task) {
	msg := strings.Builder{}
	msg.WriteString(displayName)
	renderParamMap(&msg, task.Params)

	t.Row(msg.String(), task.Description)
}

// Row appends a row to the list.
func (t *TaskList) Row(col0, col1 string) {
	t.col0max = max(t.col0max, ansi.StringWidth(col0))
	t.rows = append(t.rows, [2]string{col0, col1})
}

// String implements fmt.Stringer.
func (t *TaskList) String() string {
	var sb strings.Builder
	const cutoff = 50

	for _, row := range t.rows {
		col0, col1 := row[0], row[1]

		col0len := ansi.StringWidth(col0)
		text0 := lipgloss.NewStyle().MarginLeft(4).Render(col0)
		text1 := lipgloss.NewStyle().Foreground(InfoColor).Render(col1)

		sb.WriteString(text0)

		if col0len > cutoff {
			sb.WriteString(text1 + "\n")
		} else {
			numspaces := min(50-col0len, t.col0max-col0len)
			sb.WriteString(strings.Repeat(" ", numspaces) + text1 + "\n")
		}
	}

	return sb.String()
}

func renderParamMap(w *strings.Builder, params *taskforge.ParamMap) {
	if params == nil {
		return
	}

	faint := lipgloss.NewStyle().Faint(true)
	blue := lipgloss.NewStyle().Foreground(DebugColor)
	amber := lipgloss.NewStyle().Foreground(WarnColor)
	green := lipgloss.NewStyle().Foreground(GreenColor)

	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		name, param := pair.Key, pair.Value
		w.WriteString(faint.Render(" -w "))
		if param.Default != nil {
			w.WriteString(blue.Render(name))
			w.WriteString("=")
			w.WriteString(green.Render(fmt.Sprintf("'%v'", param.Default)))
			continue
		}
		w.WriteString(amber.Render(name))
		w.WriteString("=")
	}
}

func sortedTaskNames(tasks map[string]taskforge.Task) []string {
	names := make([]string, 0, len(tasks))
	for name := range tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
