// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package cmd provides the root command for the taskforge CLI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	taskforge "github.com/taskforge-dev/taskforge"
	configv0 "github.com/taskforge-dev/taskforge/config/v0"
	"github.com/taskforge-dev/taskforge/frontend"
	"github.com/taskforge-dev/taskforge/internal/printer"
)

// DefaultTaskName is invoked when no task name is given on the command
// line.
const DefaultTaskName = "default"

// runFlags are the flag values shared by the root command and the `run`
// subcommand (which behave identically; the subcommand exists so that a
// task named like a subcommand stays invocable).
type runFlags struct {
	with        map[string]string
	timeout     time.Duration
	concurrency int
	compact     bool
	dryRun      bool
}

// addRunFlags registers fl's flags on cmd.
func addRunFlags(cmd *cobra.Command, fl *runFlags) {
	cmd.Flags().StringToStringVarP(&fl.with, "with", "w", nil, "pass key=value arguments to the called task(s)")
	cmd.Flags().DurationVarP(&fl.timeout, "timeout", "t", time.Hour, "maximum time allowed for execution")
	cmd.Flags().BoolVar(&fl.compact, "compact", false, "only print a pass/fail summary per task, not its recipe output")
	cmd.Flags().BoolVar(&fl.dryRun, "dry-run", false, "print the recipe each task would run, without running it")
	cmd.Flags().VarP(taskforge.NewConcurrencyValue(&fl.concurrency), "concurrency", "j", "number of tasks to run at once: a positive integer, \"logical_cpus\", or \"physical_cpus\" (default: sequential)")
}

// runTasks executes each named task (or the default task) against the
// workspace loaded from filename.
func runTasks(cmd *cobra.Command, args []string, filename string, fl runFlags) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	ws, tf, err := loadWorkspace(filename)
	if err != nil {
		return err
	}

	if fl.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, fl.timeout)
		defer cancel()
	}

	if len(args) == 0 {
		args = append(args, DefaultTaskName)
	}

	argMap := taskforge.NewArgMap()
	for k, v := range fl.with {
		argMap.Set(k, v)
	}

	if fl.dryRun {
		previewLogger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{ReportTimestamp: false})
		for _, name := range args {
			inv := taskforge.SyntacticInvocation{Ref: taskforge.ParseTaskRef(name), Args: argMap}
			if err := previewTask(previewLogger, ws, tf, inv); err != nil {
				return err
			}
		}
		return nil
	}

	var rm taskforge.RunManager
	if fl.compact {
		rm = taskforge.NewCompactRunManager(cmd.OutOrStdout())
	} else {
		rm = taskforge.NewPlainRunManager(cmd.OutOrStdout())
	}

	for _, name := range args {
		start := time.Now()
		inv := taskforge.SyntacticInvocation{Ref: taskforge.ParseTaskRef(name), Args: argMap}
		logger.Debug("run", "task", name)

		err := taskforge.Run(ctx, ws, tf, inv, taskforge.RunOptions{Concurrency: fl.concurrency, RunManager: rm})

		logger.Debug("ran", "task", name, "duration", time.Since(start))

		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("task %q timed out", name)
			}
			return err
		}
	}

	return nil
}

func newRunCmd(filename *string) *cobra.Command {
	var fl runFlags
	cmd := &cobra.Command{
		Use:   "run [tasks...]",
		Short: "Execute one or more tasks and everything they depend on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args, *filename, fl)
		},
	}
	addRunFlags(cmd, &fl)
	return cmd
}

// NewRootCmd creates the root command for the taskforge CLI.
func NewRootCmd() *cobra.Command {
	var (
		fl       runFlags
		level    string
		filename string
	)

	root := &cobra.Command{
		Use:   "taskforge [tasks...]",
		Short: "A file-aware task runner",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := log.ParseLevel(level)
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).SetLevel(l)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTasks(cmd, args, filename, fl)
		},
	}

	root.PersistentFlags().StringVarP(&filename, "file", "f", "", "path to a taskfile, or a directory to search upward from")
	root.PersistentFlags().StringVarP(&level, "log-level", "v", "info", "set log level (off|error|warn|info|debug|trace)")
	addRunFlags(root, &fl)

	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newRunCmd(&filename))
	root.AddCommand(newListCmd(&filename))
	root.AddCommand(newCleanCmd(&filename, true))
	root.AddCommand(newCleanOnlyCmd(&filename))
	root.AddCommand(newExplainCmd(&filename))

	return root
}

// previewTask builds root's dependency graph without running anything,
// printing each task's recipe -- leaves first, the same order Run would
// execute it in -- syntax highlighted to logger.
func previewTask(logger *log.Logger, ws *taskforge.Workspace, tf *taskforge.Taskfile, root taskforge.SyntacticInvocation) error {
	g, err := taskforge.BuildGraph(ws, tf, root)
	if err != nil {
		return err
	}

	order, err := g.TopoSort()
	if err != nil {
		return err
	}

	for _, key := range order {
		inv := g.Node(key)
		task := g.Task(key)
		logger.Print(inv.Ref.Name + ":")
		for _, step := range task.Steps {
			printer.Script(logger, step.Shell)
		}
	}

	return nil
}

// loadWorkspace loads the configured front-ends and resolves filename (a
// file path, or empty to search the working directory upward) to its
// taskfile.
func loadWorkspace(filename string) (*taskforge.Workspace, *taskforge.Taskfile, error) {
	cfg, err := configv0.LoadDefaultConfig()
	if err != nil {
		return nil, nil, err
	}

	fsys := afero.NewOsFs()

	var frontEnds []taskforge.FrontEnd
	for _, name := range cfg.FrontEnds {
		switch name {
		case "yaml":
			frontEnds = append(frontEnds, frontend.NewYAMLFrontEnd(fsys))
		case "executable":
			frontEnds = append(frontEnds, frontend.NewExecutableFrontEnd(fsys))
		}
	}
	if len(frontEnds) == 0 {
		frontEnds = []taskforge.FrontEnd{frontend.NewYAMLFrontEnd(fsys), frontend.NewExecutableFrontEnd(fsys)}
	}

	ws := taskforge.NewWorkspace(fsys, frontEnds...)

	if filename == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, err
		}
		filename = cwd
	} else {
		abs, err := filepath.Abs(filename)
		if err != nil {
			return nil, nil, err
		}
		filename = abs
	}

	id, err := ws.Load(filename)
	if err != nil {
		return nil, nil, err
	}

	tf, ok := ws.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("internal error: taskfile %s loaded but not cached", id)
	}

	return ws, tf, nil
}

// Main executes the root command for the taskforge CLI.
//
// It returns 0 on success, 130 when the run is interrupted, a failed
// subprocess's own exit status when the error is an *exec.ExitError, and
// 1 on any other failure, and logs any errors.
func Main() int {
	cli := NewRootCmd()

	ctx := context.Background()
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	logger.SetStyles(printer.DefaultStyles())

	ctx = log.WithContext(ctx, logger)
	if err := cli.ExecuteContext(ctx); err != nil {
		if errors.Is(err, taskforge.ErrInterrupted) {
			logger.Error("interrupted")
			return 130
		}
		logger.Print("")
		var tErr *taskforge.TraceError
		if errors.As(err, &tErr) && len(tErr.Trace) > 0 {
			trace := tErr.Trace
			slices.Reverse(trace)
			if len(trace) == 1 {
				logger.Error(tErr)
				logger.Error(trace[0])
			} else {
				logger.Error(tErr, "traceback (most recent call first)", strings.Join(trace, "\n"))
			}
		} else {
			logger.Error(err)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				return status.ExitStatus()
			}
		}
		return 1
	}
	return 0
}
