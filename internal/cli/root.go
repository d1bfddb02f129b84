// Package cli provides the operator command line for running checks locally.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/misinfo-check/backend/internal/config"
)

// Version is set at build time.
var Version = "0.1.0"

type state struct {
	envFile string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the checker command tree.
func NewRootCmd() *cobra.Command {
	s := &state{}

	rootCmd := &cobra.Command{
		Use:   "checker",
		Short: "Run misinformation checks from the terminal",
		Long: `checker runs the same search-augmented check pipeline as the API server
without starting it, which is handy for probing prompts, search scraping and
credentials.

Configuration is read from the environment and an optional .env file.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(s.envFile); err != nil && cmd.Flags().Changed("env-file") {
				return fmt.Errorf("load env file: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			s.cfg = cfg

			level := slog.LevelWarn
			if s.verbose {
				level = slog.LevelDebug
			}
			s.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.envFile, "env-file", ".env", "dotenv file to load")
	rootCmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newCheckCmd(s),
		newSearchCmd(s),
		newClockCmd(s),
		newLogCmd(s),
	)
	return rootCmd
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
