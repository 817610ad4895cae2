// Package main is the entry point for the taskboard CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hy4ri/taskboard/internal/notify"
	"github.com/hy4ri/taskboard/internal/tui"
)

var Version = "dev"

// globalFlags are shared by every command that reads tasks.
type globalFlags struct {
	workspace string
	offline   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		flags globalFlags
		tab   string
	)

	cmd := &cobra.Command{
		Use:   "taskboard",
		Short: "Calendar, kanban and due-date views over your team's tasks",
		Long: `taskboard aggregates tasks from the collaboration backend and shows them
as a month calendar, a kanban board, due-date windows and a searchable list.

Run without a subcommand to start the terminal UI.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags, tab)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.workspace, "workspace", "w", "", "limit tasks to one workspace id")
	cmd.PersistentFlags().BoolVar(&flags.offline, "offline", false, "use the last stored snapshot instead of the API")
	cmd.Flags().StringVarP(&tab, "tab", "t", "", "initial tab (today, calendar, board, tasks, inbox)")

	cmd.AddCommand(initCmd())
	cmd.AddCommand(loginCmd())
	cmd.AddCommand(logoutCmd())
	cmd.AddCommand(dueCmd(&flags))
	cmd.AddCommand(calendarCmd(&flags))
	cmd.AddCommand(boardCmd(&flags))
	cmd.AddCommand(workspacesCmd(&flags))
	cmd.AddCommand(activityCmd(&flags))
	cmd.AddCommand(serveCmd(&flags))

	return cmd
}

// runTUI starts the terminal UI.
func runTUI(cmd *cobra.Command, flags globalFlags, tab string) error {
	env, err := setup(cmd.Context(), flags, modeTUI)
	if err != nil {
		return err
	}
	defer env.Close()

	if flags.workspace != "" {
		env.cfg.UI.DefaultWorkspace = flags.workspace
	}

	deps := tui.Deps{
		Backend: env.client,
		Tasks:   env.source,
		Config:  env.cfg,
		Logger:  env.logger,
	}
	if env.store != nil {
		deps.Snapshots = env.store
	}
	if !flags.offline {
		deps.Stream = env.stream()
	}
	if env.cfg.Notifications.Desktop {
		deps.Reminder = notify.NewReminder(notify.Desktop{}, env.logger)
	}

	p := tea.NewProgram(tui.NewApp(deps, tab), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
