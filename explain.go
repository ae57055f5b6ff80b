// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"fmt"
	"sort"
	"strings"
)

// Explain generates a markdown description of tf's tasks (or, if
// taskNames is non-empty, only the named ones), for the `explain` CLI
// command.
func Explain(tf *Taskfile, taskNames ...string) string {
	var sb strings.Builder

	sb.WriteString("## Tasks\n\n")

	names := make([]string, 0, len(tf.Tasks))
	for name := range tf.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if len(taskNames) > 0 && !containsString(taskNames, name) {
			continue
		}
		task := tf.Tasks[name]

		if name == DefaultTaskName {
			sb.WriteString("### `default` (Default Task)\n\n")
		} else {
			sb.WriteString(fmt.Sprintf("### `%s`\n\n", name))
		}

		if task.Description != "" {
			sb.WriteString(task.Description + "\n\n")
		}

		if task.Params != nil && task.Params.Len() > 0 {
			sb.WriteString("**Parameters:**\n\n")
			sb.WriteString("| Name | Type | Default |\n")
			sb.WriteString("|------|------|---------|\n")
			for pair := task.Params.Oldest(); pair != nil; pair = pair.Next() {
				paramName, param := pair.Key, pair.Value
				def := "-"
				if param.Default != nil {
					def = fmt.Sprintf("`%v`", param.Default)
				}
				sb.WriteString(fmt.Sprintf("| `%s` | %s | %s |\n", paramName, param.Type, def))
			}
			sb.WriteString("\n")
		}

		if len(task.Body.Outputs) > 0 {
			sb.WriteString("**Outputs:** ")
			paths := make([]string, len(task.Body.Outputs))
			for i, o := range task.Body.Outputs {
				paths[i] = fmt.Sprintf("`%s`", o.Path)
			}
			sb.WriteString(strings.Join(paths, ", "))
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// DefaultTaskName is the task invoked when the CLI is given no task
// names.
const DefaultTaskName = "default"

func containsString(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}
