package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"recruitbot/internal/access/secrets"
	"recruitbot/internal/platform/config"
	"recruitbot/internal/report"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "recruitbot",
		Short:         "Telegram intake form for recruitment candidates",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file read before the environment")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot, the ops HTTP server and the background sweeper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	var period, out string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Write a registration report file without starting the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := report.ParsePeriod(period)
			if err != nil {
				return err
			}
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			path, err := runReport(cmd.Context(), cfg, p, out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	reportCmd.Flags().StringVar(&period, "period", string(report.PeriodWeek), "Report period: day, week, month or year")
	reportCmd.Flags().StringVar(&out, "out", ".", "Directory the report file is written to")

	hashCmd := &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Print a bcrypt hash for ADMIN_KEY_HASH; generates a key when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			} else {
				generated, err := secrets.Generate()
				if err != nil {
					return err
				}
				key = generated
				fmt.Fprintf(cmd.OutOrStdout(), "ADMIN_KEY=%s\n", key)
			}
			hash, err := secrets.Hash(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ADMIN_KEY_HASH=%s\n", hash)
			return nil
		},
	}

	root.AddCommand(serveCmd, reportCmd, hashCmd)
	return root
}
