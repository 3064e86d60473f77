// CoinAfrique dashboard main entrypoint.
//
// Two modes:
//  1. Serve mode (default): load the catalog datasets and serve the dashboard page,
//     the chart PNGs and the JSON API until interrupted.
//  2. Summary mode (--summary-json): load every dataset once, write the per-dataset
//     summaries (shape, price range, category means and boxes) as JSON and exit.
//
// Design notes:
//   - Datasets failing to load stay in the selector and show their error; only an
//     unknown encoding or an unreadable catalog stops the process.
//   - With --watch the data directory is watched and the collection reloaded when a
//     CSV file changes; POST /api/reload does the same on demand.
//   - Dependency direction: main -> web -> analysis/charts -> dataset -> catalog.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iafilius/CoinAfriqueViewer/src/analysis"
	"github.com/iafilius/CoinAfriqueViewer/src/cache"
	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
	"github.com/iafilius/CoinAfriqueViewer/src/logging"
	"github.com/iafilius/CoinAfriqueViewer/src/watch"
	"github.com/iafilius/CoinAfriqueViewer/src/web"
)

func main() {
	configPath := flag.String("config", catalog.DefaultFileName, "Path to the dataset catalog (YAML); built-in defaults when missing")
	dataDir := flag.String("data-dir", "", "Directory holding the CSV files (overrides the catalog)")
	addr := flag.String("addr", "127.0.0.1:8080", "Listen address (host:port, port 0 picks a free one)")
	previewRows := flag.Int("rows", web.DefaultPreviewRows, "Maximum rows of the data preview table")
	cachePath := flag.String("cache", "", "Path to a bbolt file caching parsed CSV files; {host} is replaced by the hostname (empty disables)")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	watchDir := flag.Bool("watch", true, "Reload the datasets when a CSV file of the data directory changes")
	summaryJSON := flag.String("summary-json", "", "Write the dataset summaries to this JSON file and exit")
	flag.Parse()

	if !logging.SetLogLevel(*logLevel) {
		fmt.Printf("[init] unknown log level %q, keeping info\n", *logLevel)
	}
	if expanded := expandHostPlaceholder(*cachePath); expanded != *cachePath {
		fmt.Printf("[init] expanded cache path with hostname: %s\n", expanded)
		*cachePath = expanded
	}

	cat, err := catalog.Load(*configPath)
	if err != nil {
		fmt.Printf("[init] %v\n", err)
		os.Exit(2)
	}
	if *dataDir != "" {
		cat.DataDir = *dataDir
	}

	var store *cache.Store
	if *cachePath != "" {
		if store, err = cache.Open(*cachePath); err != nil {
			logging.Warnf("[init] cache disabled: %v", err)
			store = nil
		}
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// SUMMARY MODE (no server)
	if *summaryJSON != "" {
		col, err := dataset.LoadAll(ctx, cat, store)
		if err != nil {
			fmt.Printf("[summary] %v\n", err)
			os.Exit(1)
		}
		if err := writeSummaryJSON(*summaryJSON, cat, col); err != nil {
			fmt.Printf("[summary] %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[summary] wrote %d datasets (%d failed) to %s\n", col.Len(), len(col.Failed()), *summaryJSON)
		return
	}

	srv, err := web.NewServer(cat, store, *previewRows)
	if err != nil {
		fmt.Printf("[init] %v\n", err)
		os.Exit(1)
	}
	start := time.Now()
	if err := srv.Reload(ctx); err != nil {
		fmt.Printf("[init] %v\n", err)
		os.Exit(1)
	}
	logging.TimeTrack(start, "[init] initial load")

	if *watchDir {
		w, err := watch.New(watch.DefaultDebounce)
		if err != nil {
			logging.Warnf("[server] file watching disabled: %v", err)
		} else {
			defer w.Stop()
			if err := w.Watch(cat.DataDir, func(path string) {
				logging.Infof("[server] %s changed, reloading", path)
				if err := srv.Reload(ctx); err != nil {
					logging.Errorf("[server] reload: %v", err)
				}
			}); err != nil {
				logging.Warnf("[server] cannot watch %s: %v", cat.DataDir, err)
			}
		}
	}

	if err := srv.Start(*addr); err != nil {
		fmt.Printf("[server] %v\n", err)
		os.Exit(1)
	}
	logging.Infof("[server] dashboard at %s", srv.URL())

	<-ctx.Done()
	logging.Infof("[server] shutting down")
	srv.Stop()
}

// expandHostPlaceholder substitutes {host}, %HOST% and $HOST with the sanitized
// machine hostname: lowercase, anything but [a-z0-9_-] replaced by '-'.
func expandHostPlaceholder(path string) string {
	if !strings.Contains(path, "{host}") && !strings.Contains(path, "%HOST%") && !strings.Contains(path, "$HOST") {
		return path
	}
	hn, err := os.Hostname()
	if err != nil || hn == "" {
		return path
	}
	var b strings.Builder
	for _, r := range strings.ToLower(hn) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	sanitized := b.String()
	path = strings.ReplaceAll(path, "{host}", sanitized)
	path = strings.ReplaceAll(path, "%HOST%", sanitized)
	path = strings.ReplaceAll(path, "$HOST", sanitized)
	return path
}

// summaryReport is the --summary-json document.
type summaryReport struct {
	GeneratedAt    string             `json:"generated_at"`
	Title          string             `json:"title"`
	DataDir        string             `json:"data_dir"`
	CategoryColumn string             `json:"category_column"`
	PriceColumn    string             `json:"price_column"`
	Datasets       []analysis.Summary `json:"datasets"`
}

func writeSummaryJSON(path string, cat *catalog.Catalog, col *dataset.Collection) error {
	rep := summaryReport{
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Title:          cat.Title,
		DataDir:        cat.DataDir,
		CategoryColumn: cat.CategoryColumn,
		PriceColumn:    cat.PriceColumn,
		Datasets:       []analysis.Summary{},
	}
	for _, ds := range col.All() {
		rep.Datasets = append(rep.Datasets, analysis.Summarize(ds, cat.CategoryColumn, cat.PriceColumn))
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
