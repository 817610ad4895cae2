package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/utils"
)

func workspacesCmd(flags *globalFlags) *cobra.Command {
	var withUsage bool

	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "List your workspaces and their ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.offline {
				return errors.New("workspaces needs the API; drop --offline")
			}
			e, err := setup(cmd.Context(), *flags, modeReport)
			if err != nil {
				return err
			}
			defer e.Close()

			workspaces, err := e.client.GetWorkspaces()
			if err != nil {
				return err
			}

			usage := make(map[string]*api.StorageUsage)
			if withUsage {
				for _, ws := range workspaces {
					u, err := e.client.GetStorageUsage(ws.ID)
					if err != nil {
						e.logger.Warn("failed to get storage usage", "workspace", ws.ID, "error", err)
						continue
					}
					usage[ws.ID] = u
				}
			}
			writeWorkspaces(cmd.OutOrStdout(), workspaces, usage)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withUsage, "usage", false, "include storage usage per workspace")
	return cmd
}

func writeWorkspaces(w io.Writer, workspaces []api.Workspace, usage map[string]*api.StorageUsage) {
	if len(workspaces) == 0 {
		fmt.Fprintln(w, "No workspaces.")
		return
	}

	headers := []string{"ID", "Name", "Members", "Projects"}
	if len(usage) > 0 {
		headers = append(headers, "Storage")
	}

	rows := make([][]string, 0, len(workspaces))
	for _, ws := range workspaces {
		row := []string{ws.ID, utils.TruncateString(ws.Name, 32), fmt.Sprint(ws.Counts.Members), fmt.Sprint(ws.Counts.Projects)}
		if len(usage) > 0 {
			row = append(row, formatUsage(usage[ws.ID]))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Faint).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func formatUsage(u *api.StorageUsage) string {
	if u == nil {
		return "-"
	}
	s := formatBytes(u.UsedBytes)
	if u.LimitBytes > 0 {
		s += " / " + formatBytes(u.LimitBytes)
	}
	return fmt.Sprintf("%s (%d files)", s, u.FileCount)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func activityCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent activity in a workspace",
		Example: `  taskboard activity --workspace ws_123
  taskboard activity -w ws_123 --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.workspace == "" {
				return errors.New("activity needs --workspace (see 'taskboard workspaces')")
			}
			e, err := setup(cmd.Context(), *flags, modeReport)
			if err != nil {
				return err
			}
			defer e.Close()

			entries, err := e.client.GetActivities(flags.workspace, limit)
			if err != nil {
				return err
			}
			writeActivity(cmd.OutOrStdout(), entries, time.Local)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries")
	return cmd
}

func writeActivity(w io.Writer, entries []api.Activity, loc *time.Location) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recent activity.")
		return
	}
	for _, a := range entries {
		when := a.CreatedAt
		if ts, err := time.Parse(time.RFC3339, a.CreatedAt); err == nil {
			when = ts.In(loc).Format("Jan 02 15:04")
		}
		line := fmt.Sprintf("%s  %s %s %s", styles.Faint.Render(when), a.User.Name, a.Action, a.EntityType)
		if a.Details != "" {
			line += ": " + a.Details
		}
		fmt.Fprintln(w, line)
	}
}
