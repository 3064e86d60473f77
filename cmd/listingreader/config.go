package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iafilius/CoinAfriqueViewer/src/cache"
	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
)

var purgeCache bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective catalog as YAML (a starting point for --config)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		return catalog.Write(cmd.OutOrStdout(), cat)
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show or purge the parsed CSV cache given by --cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cachePath == "" {
			return fmt.Errorf("no cache file given (use --cache)")
		}
		store, err := cache.Open(cachePath)
		if err != nil {
			return err
		}
		defer store.Close()
		w := cmd.OutOrStdout()
		if purgeCache {
			n := store.Len()
			if err := store.Purge(); err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}
			fmt.Fprintf(w, "%s %d entries removed from %s\n", colorGreen.Sprint("purged"), n, cachePath)
			return nil
		}
		fmt.Fprintf(w, "%s: %d cached files\n", cachePath, store.Len())
		return nil
	},
}

func init() {
	cacheCmd.Flags().BoolVar(&purgeCache, "purge", false, "remove every cached entry")
}
