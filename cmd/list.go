// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	taskforge "github.com/taskforge-dev/taskforge"
	"github.com/taskforge-dev/taskforge/internal/printer"
)

func newListCmd(filename *string) *cobra.Command {
	var (
		short       bool
		namesOnly   bool
		description bool
		format      string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the tasks available in a taskfile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, tf, err := loadWorkspace(*filename)
			if err != nil {
				return err
			}

			if format != "" {
				if format != "json" {
					return fmt.Errorf("unsupported --format %q: only \"json\" is supported", format)
				}
				entries := taskforge.ListEntries(tf)
				out, err := json.Marshal(entries)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			if namesOnly || short || description {
				return printTaskList(cmd, tf, namesOnly, short, description)
			}

			list := printer.NewTaskList(ws, tf)
			if list.String() == "" {
				return fmt.Errorf("no tasks available")
			}

			fmt.Fprint(cmd.OutOrStdout(), "Available:\n\n"+list.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "list tasks in short format")
	cmd.Flags().BoolVarP(&namesOnly, "names-only", "n", false, "only show task names")
	cmd.Flags().BoolVarP(&description, "description", "d", false, "show the full description for each task")
	cmd.Flags().StringVar(&format, "format", "", `output format ("json")`)

	return cmd
}

// printTaskList renders tf's own tasks -- not its imports -- to cmd's
// stdout in one of three human formats: names only, short (name plus
// its param placeholders), or the default augmented with full
// descriptions when description is set.
func printTaskList(cmd *cobra.Command, tf *taskforge.Taskfile, namesOnly, short, description bool) error {
	w := cmd.OutOrStdout()
	bold := lipgloss.NewStyle().Bold(true)
	green := lipgloss.NewStyle().Foreground(printer.GreenColor)

	names := make([]string, 0, len(tf.Tasks))
	for name := range tf.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		task := tf.Tasks[name]
		help := ""
		if s := taskforge.TaskShort(task); s != nil {
			help = green.Render("# " + *s)
		}

		switch {
		case namesOnly:
			fmt.Fprintln(w, bold.Render(task.Name))
		case short:
			args := paramPlaceholders(task.Params)
			line := strings.TrimRight(bold.Render(task.Name)+" "+args, " ")
			fmt.Fprintf(w, "%-50s %s\n", line, help)
		default:
			label := ""
			if !description {
				label = help
			}
			fmt.Fprintf(w, "%-20s %s\n", bold.Render(task.Name), label)

			if description && task.Description != "" {
				for _, line := range strings.Split(task.Description, "\n") {
					fmt.Fprintln(w, green.Render("  # "+strings.TrimSpace(line)))
				}
			}

			if task.Params != nil {
				for pair := task.Params.Oldest(); pair != nil; pair = pair.Next() {
					paramName, param := pair.Key, pair.Value
					def := ""
					if param.Default != nil {
						def = fmt.Sprintf(" (default: %v)", param.Default)
					}
					fmt.Fprintf(w, "  %s: %s%s\n", paramName, param.Type, def)
				}
			}
		}
	}

	return nil
}

func paramPlaceholders(params *taskforge.ParamMap) string {
	if params == nil {
		return ""
	}
	var out []string
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, "<"+pair.Key+">")
	}
	return strings.Join(out, " ")
}
