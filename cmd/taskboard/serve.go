package main

import (
	"github.com/spf13/cobra"

	"github.com/hy4ri/taskboard/internal/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar, board and list projections over HTTP",
		Long: `Start the read-only projection service.

Examples:
  taskboard serve --addr :8080
  taskboard serve --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), *flags, modeServe)
			if err != nil {
				return err
			}
			defer e.Close()

			if addr == "" {
				addr = e.cfg.Serve.Addr
			}
			srv := server.New(e.source, server.Options{
				Columns: e.cfg.Columns(),
				Logger:  e.logger,
			})
			e.logger.Info("serving projections", "addr", addr, "offline", flags.offline)
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: serve.addr from the config)")
	return cmd
}
