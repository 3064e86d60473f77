package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/iafilius/CoinAfriqueViewer/src/cache"
	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
	"github.com/iafilius/CoinAfriqueViewer/src/charts"
	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
	"github.com/iafilius/CoinAfriqueViewer/src/logging"
)

// RunScreenshotsMode renders every available chart of every dataset and
// writes them as PNGs under outDir. It runs headlessly without creating a UI window.
func RunScreenshotsMode(cat *catalog.Catalog, store *cache.Store, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	col, err := dataset.LoadAll(context.Background(), cat, store)
	if err != nil {
		return err
	}
	st := &uiState{cat: cat, store: store, col: col}

	toRender := []struct {
		kind charts.Kind
		fn   func(*uiState) image.Image
	}{
		{charts.KindScatter, renderScatterChart},
		{charts.KindBox, renderBoxChart},
		{charts.KindBar, renderBarChart},
	}
	written := 0
	for _, ds := range col.All() {
		if ds.Failed() {
			logging.Warnf("[viewer] skip %s: %v", ds.Name, ds.Err)
			continue
		}
		st.selected = ds.Name
		for _, item := range toRender {
			img := item.fn(st)
			if img == nil {
				continue
			}
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return fmt.Errorf("png encode %s: %w", item.kind, err)
			}
			outPath := filepath.Join(outDir, charts.FileName(ds.Name, item.kind))
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			written++
		}
	}
	logging.Infof("[viewer] wrote %d charts to %s", written, outDir)
	return nil
}
