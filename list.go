// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"sort"
	"strings"
)

// TaskEntry is a single task's catalog entry, the shape emitted by
// `list --format json`. Short and Description are nil (JSON null) when
// the task has no description, matching the optional fields a taskfile
// author may simply omit.
type TaskEntry struct {
	Name        string  `json:"name"`
	Short       *string `json:"short"`
	Description *string `json:"description"`
}

// TaskShort extracts a task's short description: its first paragraph,
// every line up to the first blank one, trimmed and joined with a
// single space. Returns nil when the task has no description.
func TaskShort(task Task) *string {
	if task.Description == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(task.Description, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}
		lines = append(lines, trimmed)
	}
	if len(lines) == 0 {
		return nil
	}

	short := strings.Join(lines, " ")
	return &short
}

// ListEntries returns tf's own tasks -- not its imports -- as TaskEntry
// records sorted by name, for `list --format json`.
func ListEntries(tf *Taskfile) []TaskEntry {
	names := make([]string, 0, len(tf.Tasks))
	for name := range tf.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]TaskEntry, len(names))
	for i, name := range names {
		task := tf.Tasks[name]

		var desc *string
		if task.Description != "" {
			d := task.Description
			desc = &d
		}

		entries[i] = TaskEntry{Name: task.Name, Short: TaskShort(task), Description: desc}
	}
	return entries
}
