// Package cli implements the mdncompat command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
)

// Execute runs the mdncompat command with configuration from the process
// environment.
func Execute() {
	cfg, err := ParseConfig(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err = NewRootCommand(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// NewRootCommand builds the mdncompat command tree. Flags override cfg.
func NewRootCommand(cfg Config) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "mdncompat",
		Short:         "Search MDN and show browser compatibility",
		Long:          `Search the MDN web docs and show per-browser compatibility and Baseline status, with results cached locally.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := cfg.LogLevel
			if verbose {
				level = "debug"
			}
			if err := logging.SetLogLevel("*", level); err != nil {
				return fmt.Errorf("bad log level %q: %w", level, err)
			}
			if cfg.HTTPRetries < 0 {
				return fmt.Errorf("retries cannot be negative: %d", cfg.HTTPRetries)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose debug output to stderr")
	flags.StringVarP(&cfg.Language, "language", "l", cfg.Language, "MDN locale to search and read")
	flags.StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "Directory of the persistent cache; empty keeps the cache in memory")
	flags.IntVar(&cfg.HTTPRetries, "retries", cfg.HTTPRetries, "Times to retry a failed request")

	rootCmd.AddCommand(
		newSearchCmd(&cfg),
		newCompatCmd(&cfg),
		newIndexCmd(&cfg),
		newReloadCmd(&cfg),
	)
	return rootCmd
}
