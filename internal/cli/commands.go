package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/colthorp/wikifreq/internal/analysis"
	"github.com/colthorp/wikifreq/internal/cache"
	"github.com/colthorp/wikifreq/internal/config"
	"github.com/colthorp/wikifreq/internal/core"
	"github.com/colthorp/wikifreq/internal/logging"
	"github.com/colthorp/wikifreq/internal/output"
	"github.com/colthorp/wikifreq/internal/palette"
	"github.com/spf13/cobra"
)

func init() {
	// Add all subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(palettesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
	configCmd.AddCommand(configInitCmd)

	// Analyze command flags
	analyzeCmd.Flags().Bool("refresh", false, "Ignore cached results and fetch fresh data")
	analyzeCmd.Flags().BoolP("cache-only", "f", false, "Use cache only; skip API requests")
	analyzeCmd.Flags().IntP("parallel", "p", 0, "Max pages to fetch in parallel (default from config)")

	// Config init flags
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

// analyzeCmd handles the analyze subcommand
var analyzeCmd = &cobra.Command{
	Use:   "analyze [category]",
	Short: "Rank the most common words in a Wikipedia category",
	Long:  `Rank the most common words across all articles of a category. Multiple arguments are joined with spaces, so quoting is optional.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  handleAnalyze,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear cached results",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached categories",
	Args:  cobra.NoArgs,
	RunE:  handleCacheList,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [category]",
	Short: "Delete cached results for one category, or all of them",
	RunE:  handleCacheClear,
}

var cachePathCmd = &cobra.Command{
	Use:   "path [category]",
	Short: "Print the cache directory, or the record path of a category",
	RunE:  handleCachePath,
}

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List the available color palettes",
	Args:  cobra.NoArgs,
	RunE:  handlePalettes,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE:  handleConfigInit,
}

func handleAnalyze(cmd *cobra.Command, args []string) error {
	refresh, _ := cmd.Flags().GetBool("refresh")
	cacheOnly, _ := cmd.Flags().GetBool("cache-only")
	parallel, _ := cmd.Flags().GetInt("parallel")

	if refresh && cacheOnly {
		return fmt.Errorf("--refresh and --cache-only cannot be used together")
	}

	p, err := resolvePalette()
	if err != nil {
		return err
	}

	a, err := newApp(appOptions{quiet: quiet, parallel: parallel})
	if err != nil {
		return err
	}

	category := strings.Join(args, " ")
	core.ProgressPrint(fmt.Sprintf("Analyzing category: %s", category), quiet)

	res, err := a.manager.Fetch(cmd.Context(), category, cache.FetchOptions{Refresh: refresh, CacheOnly: cacheOnly})
	if err != nil {
		if verbose {
			logging.Error(cmd.Context(), a.logger, err)
		}
		return err
	}
	a.logger.Debug("analysis finished", "result", res.String())

	out := cmd.OutOrStdout()
	if raw {
		return output.StreamJSON(out, analysis.TopN(res.Frequencies, resultLimit(a.cfg.GetTopN())))
	}
	counts := analysis.TopN(res.Frequencies, resultLimit(core.DisplayTopN))
	output.PrintTable(out, category, counts, analysis.Total(res.Frequencies), p)
	return nil
}

// resultLimit returns --limit when set, otherwise def.
func resultLimit(def int) int {
	if limit > 0 {
		return limit
	}
	return def
}

func resolvePalette() (palette.Palette, error) {
	if paletteName == "" {
		return palette.Default(), nil
	}
	return palette.Lookup(paletteName)
}

func handleCacheList(cmd *cobra.Command, args []string) error {
	store, root, err := openStore()
	if err != nil {
		return err
	}
	results := store.Scan()
	if raw {
		return output.PrintJSON(cmd.OutOrStdout(), results)
	}
	output.PrintCacheList(cmd.OutOrStdout(), root, results)
	return nil
}

func handleCacheClear(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		category := strings.Join(args, " ")
		if err := store.Remove(category); err != nil {
			return err
		}
		core.ProgressPrint(fmt.Sprintf("Removed cached results for %s", category), quiet)
		return nil
	}

	n, err := store.Clear()
	if err != nil {
		return err
	}
	core.ProgressPrint(fmt.Sprintf("Removed %d cached categories", n), quiet)
	return nil
}

func handleCachePath(cmd *cobra.Command, args []string) error {
	store, root, err := openStore()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), store.Path(strings.Join(args, " ")))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), root)
	return nil
}

func handlePalettes(cmd *cobra.Command, args []string) error {
	if raw {
		return output.PrintJSON(cmd.OutOrStdout(), palette.All())
	}
	output.PrintPalettes(cmd.OutOrStdout(), palette.All())
	return nil
}

func handleConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.WriteDefaults(path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
