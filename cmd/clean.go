// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package cmd

import (
	"github.com/spf13/cobra"

	taskforge "github.com/taskforge-dev/taskforge"
)

func runClean(cmd *cobra.Command, filename *string, args []string, recursive bool) error {
	ctx := cmd.Context()

	ws, tf, err := loadWorkspace(*filename)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = append(args, DefaultTaskName)
	}

	rm := taskforge.NewPlainRunManager(cmd.OutOrStdout())

	for _, name := range args {
		inv := taskforge.SyntacticInvocation{Ref: taskforge.ParseTaskRef(name), Args: taskforge.NewArgMap()}
		if err := taskforge.Clean(ctx, ws, tf, inv, taskforge.CleanOptions{Recursive: recursive, RunManager: rm}); err != nil {
			return err
		}
	}

	return nil
}

// newCleanCmd builds the recursive "clean" subcommand: it removes a
// task's declared outputs (or runs its clean recipe) and cascades to
// every task it depends on.
func newCleanCmd(filename *string, recursive bool) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [tasks...]",
		Short: "Remove a task's declared outputs and those of every task it depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, filename, args, recursive)
		},
	}
}

// newCleanOnlyCmd builds the "clean-only" subcommand: it cleans just the
// named task, never cascading to its dependencies.
func newCleanOnlyCmd(filename *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clean-only <task>",
		Short: "Remove a single task's declared outputs, without touching its dependencies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, filename, args, false)
		},
	}
}
