package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iafilius/CoinAfriqueViewer/src/cache"
	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
	"github.com/iafilius/CoinAfriqueViewer/src/logging"
)

// Global flag values.
var (
	configPath string
	dataDir    string
	cachePath  string
	verbose    bool
	noColor    bool
)

// rootCmd is the base command for listingreader.
var rootCmd = &cobra.Command{
	Use:   "listingreader",
	Short: "Inspect the CoinAfrique listing datasets from the terminal",
	Long: `listingreader loads the CSV datasets of the catalog and prints their
shape, a preview of their rows and the price statistics per category, or
renders the dashboard charts as PNG files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logging.SetLogLevel("debug")
		} else {
			logging.SetLogLevel("warn")
		}
		color.NoColor = color.NoColor || noColor
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", catalog.DefaultFileName, "dataset catalog (YAML); built-in defaults when missing")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the CSV files (overrides the catalog)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "bbolt file caching parsed CSV files (empty disables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
}

// loadCatalog applies the global flags on top of the catalog file.
func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cat.DataDir = dataDir
	}
	return cat, nil
}

// loadCollection loads every dataset of the catalog.
func loadCollection(cmd *cobra.Command) (*catalog.Catalog, *dataset.Collection, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, nil, err
	}
	var store *cache.Store
	if cachePath != "" {
		if store, err = cache.Open(cachePath); err != nil {
			return nil, nil, err
		}
		defer store.Close()
	}
	col, err := dataset.LoadAll(cmd.Context(), cat, store)
	if err != nil {
		return nil, nil, fmt.Errorf("load datasets: %w", err)
	}
	return cat, col, nil
}

// lookup finds a dataset by exact name, then case-insensitively.
func lookup(col *dataset.Collection, name string) (*dataset.Dataset, error) {
	if ds, ok := col.Get(name); ok {
		return ds, nil
	}
	for _, ds := range col.All() {
		if strings.EqualFold(ds.Name, name) {
			return ds, nil
		}
	}
	names := col.Names()
	sort.Strings(names)
	return nil, fmt.Errorf("unknown dataset %q (available: %s)", name, strings.Join(names, ", "))
}

// completeDatasetNames offers catalog names for shell completion.
func completeDatasetNames(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cat, err := loadCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return cat.Names(), cobra.ShellCompDirectiveNoFileComp
}
