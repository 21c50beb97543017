// Package cli implements the command-line interface for wikifreq.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/colthorp/wikifreq/internal/core"
	"github.com/spf13/cobra"
)

// Global flags
var (
	verbose     bool
	quiet       bool
	raw         bool
	configPath  string
	cacheDir    string
	paletteName string
	limit       int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "wikifreq",
	Short:         "wikifreq – word frequencies for Wikipedia categories",
	Long:          `Fetches every article in a Wikipedia category, removes stop words and ranks the remaining words by frequency. Results are cached on disk for a week.`,
	Version:       core.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// SIGINT and SIGTERM cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress progress messages")
	rootCmd.PersistentFlags().BoolVar(&raw, "raw", false, "Emit raw JSON instead of a table")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", fmt.Sprintf("Config file (default: %s)", core.ConfigPath()))
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Cache directory (overrides config and "+core.CacheDirEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&paletteName, "palette", "", "Color palette for table output")
	rootCmd.PersistentFlags().IntVar(&limit, "limit", 0, "Maximum number of words to show")
}
