// Command qmeta generates querydsl-sql query types from entity declaration manifests.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/stokaro/qmeta/cmd/generate"
	"github.com/stokaro/qmeta/config"
	"github.com/stokaro/qmeta/source/manifest"
)

// Exit codes.
const (
	exitGeneral = 1
	exitConfig  = 2
	exitSource  = 3
)

var verbose int

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "qmeta",
		Short: "querydsl-sql query type generator",
		Long: `qmeta - querydsl-sql query type generator

qmeta reads entity declarations with their table and column annotations and writes
one Q-class per entity for use with querydsl-sql.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: logLevel(verbose),
			})))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default: auto-discover qmeta.yaml)")
	root.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")

	root.AddCommand(generate.NewGenerateCommand())
	return root
}

func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, config.ErrInvalidOptions):
		return exitConfig
	case errors.Is(err, manifest.ErrInvalidManifest):
		return exitSource
	default:
		return exitGeneral
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}
