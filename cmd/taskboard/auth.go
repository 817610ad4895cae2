package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hy4ri/taskboard/internal/auth"
	"github.com/hy4ri/taskboard/internal/config"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a template config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.ConfigDir(); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			path, err := config.ConfigPath()
			if err != nil {
				return fmt.Errorf("failed to get config path: %w", err)
			}
			if err := config.WriteTemplate(path); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file created: %s\n\n", path)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  1. Set server.base_url to your backend")
			fmt.Fprintln(out, "  2. Run 'taskboard login --token <token>' or configure OAuth and run 'taskboard login'")
			fmt.Fprintln(out, "  3. Run 'taskboard' to start")
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	var (
		token     string
		readStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token or sign in through the browser",
		Long: `Store a personal API token in the system keyring, or run the OAuth2
browser flow when auth.client_id, auth.auth_url and auth.token_url are set.

Examples:
  taskboard login --token tb_xxx
  echo tb_xxx | taskboard login --stdin
  taskboard login`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if readStdin {
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read token: %w", err)
				}
				token = line
			}

			if token = strings.TrimSpace(token); token != "" {
				origin, err := config.NewTokenStore().Save(token)
				if err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s.\n", origin)
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Opening the browser to sign in…")
			tok, err := auth.Login(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			auth.StoreToken(cfg, tok)
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "personal API token to store")
	cmd.Flags().BoolVar(&readStdin, "stdin", false, "read the API token from stdin")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
			return nil
		},
	}
}
