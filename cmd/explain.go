// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	taskforge "github.com/taskforge-dev/taskforge"
)

func newExplainCmd(filename *string) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [tasks...]",
		Short: "Print a rendered markdown description of one or more tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tf, err := loadWorkspace(*filename)
			if err != nil {
				return err
			}

			md := taskforge.Explain(tf, args...)

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err != nil {
				return err
			}

			out, err := renderer.Render(md)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
