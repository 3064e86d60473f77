package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iafilius/CoinAfriqueViewer/src/analysis"
	"github.com/iafilius/CoinAfriqueViewer/src/charts"
)

var renderWidth int

var renderCmd = &cobra.Command{
	Use:               "render <dataset> <dir>",
	Short:             "Write the charts of a dataset as PNG files",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeDatasetNames,
	RunE:              runRender,
}

func init() {
	renderCmd.Flags().IntVar(&renderWidth, "width", 1100, "chart width in pixels (min 800)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cat, col, err := loadCollection(cmd)
	if err != nil {
		return err
	}
	ds, err := lookup(col, args[0])
	if err != nil {
		return err
	}
	if ds.Failed() {
		return fmt.Errorf("Erreur lors du chargement du fichier %s: %w", ds.Path, ds.Err)
	}
	outDir := args[1]
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	w, h := charts.Size(renderWidth)
	out := cmd.OutOrStdout()

	write := func(kind charts.Kind, png []byte, err error) error {
		if err != nil {
			return err
		}
		p := filepath.Join(outDir, charts.FileName(ds.Name, kind))
		if err := os.WriteFile(p, png, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		fmt.Fprintln(out, colorGreen.Sprint("écrit"), p)
		return nil
	}

	if sc, ok := analysis.ScatterPoints(ds); ok {
		png, err := charts.ScatterPNG(sc, w, h)
		if err := write(charts.KindScatter, png, err); err != nil {
			return err
		}
	}
	boxes, err := analysis.BoxByCategory(ds, cat.CategoryColumn, cat.PriceColumn)
	if err != nil {
		fmt.Fprintln(out, colorYellow.Sprint(analysis.MissingColumnsWarning(cat.CategoryColumn, cat.PriceColumn)))
		return nil
	}
	png, err := charts.BoxPNG(boxes, w, h)
	if err := write(charts.KindBox, png, err); err != nil {
		return err
	}
	means, err := analysis.MeanByCategory(ds, cat.CategoryColumn, cat.PriceColumn)
	if err != nil {
		return err
	}
	png, err = charts.BarPNG(means, w, h)
	return write(charts.KindBar, png, err)
}
