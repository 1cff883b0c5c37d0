package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configPath returns the --config flag value.
func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one notification (same as NTFY MSG=... TITLE=...)",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			msg, _ := cmd.Flags().GetString("msg")
			title, _ := cmd.Flags().GetString("title")
			verbose, _ := cmd.Flags().GetBool("verbose")

			ctx := signalContext()
			a, err := openApp(configPath(cmd), appOptions{forceVerbose: verbose})
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeApp(a)) }()
			return executeSend(ctx, a, msg, title, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("msg", "", "message body")
	cmd.Flags().String("title", "", "title (default: config title)")
	cmd.Flags().BoolP("verbose", "v", false, "report the relay response (overrides config)")
	return cmd
}

func execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `exec "<command line>"...`,
		Short: "Run host command lines, e.g. 'NTFY MSG=\"Print done\"' or HELP",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := signalContext()
			a, err := openApp(configPath(cmd), appOptions{})
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeApp(a)) }()
			return executeLines(ctx, a, args, cmd.OutOrStdout())
		},
	}
}

func consoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive host console",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			noTUI, _ := cmd.Flags().GetBool("no-tui")

			ctx := signalContext()
			registerQuitHandler()
			a, err := openApp(configPath(cmd), appOptions{})
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeApp(a)) }()

			if noTUI {
				return runREPL(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return runConsoleTUI(ctx, a)
		},
	}
	cmd.Flags().Bool("no-tui", false, "read command lines from stdin instead of the TUI")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and show the resolved endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath(cmd))
			if err != nil {
				return err
			}
			return showCheck(cfg, cmd.OutOrStdout())
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded dispatch outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			cfg, err := loadConfig(configPath(cmd))
			if err != nil {
				return err
			}
			return showHistory(cfg.History.Dir, limit, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int("limit", 20, "number of records to show (0 = all)")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold ntfy.toml, .env.example and .gitignore entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			return runInit(dir, cmd.OutOrStdout())
		},
	}
}
