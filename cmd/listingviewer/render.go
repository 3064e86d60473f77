package main

import (
	"fmt"
	"image"
	png "image/png"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/iafilius/CoinAfriqueViewer/src/analysis"
	"github.com/iafilius/CoinAfriqueViewer/src/charts"
	"github.com/iafilius/CoinAfriqueViewer/src/logging"
)

// screenshotWidthOverride forces the chart width when no window exists (tests, -screenshots).
var screenshotWidthOverride int

// chartSize computes a chart size based on the current window width so charts use more X-axis space.
func chartSize(state *uiState) (int, int) {
	if state == nil || state.window == nil || state.window.Canvas() == nil {
		if screenshotWidthOverride > 0 {
			return charts.Size(screenshotWidthOverride)
		}
		return charts.Size(1100)
	}
	sz := state.window.Canvas().Size()
	// ~95% of the available width, minus a small margin for scrollbars/padding
	return charts.Size(int(sz.Width*0.95) - 12)
}

// renderScatterChart returns nil when the dataset has fewer than six columns.
func renderScatterChart(state *uiState) image.Image {
	ds := currentDataset(state)
	sc, ok := analysis.ScatterPoints(ds)
	if !ok {
		return nil
	}
	w, h := chartSize(state)
	img, err := charts.Scatter(sc, w, h)
	if err != nil {
		logging.Warnf("[viewer] scatter: %v", err)
		return charts.Blank(w, h)
	}
	if state.showHints && sc.Dropped > 0 {
		img = charts.DrawHint(img, fmt.Sprintf("%d lignes sans valeur numérique ignorées", sc.Dropped))
	}
	return img
}

// renderBoxChart returns nil when the category or price column is missing.
func renderBoxChart(state *uiState) image.Image {
	ds := currentDataset(state)
	boxes, err := analysis.BoxByCategory(ds, state.cat.CategoryColumn, state.cat.PriceColumn)
	if err != nil {
		return nil
	}
	w, h := chartSize(state)
	img, err := charts.Box(boxes, w, h)
	if err != nil {
		logging.Warnf("[viewer] box plot: %v", err)
		return charts.Blank(w, h)
	}
	if state.showHints {
		img = charts.DrawHint(img, "Boîte: Q1 à Q3, trait: médiane, moustaches: 1,5 × IQR")
	}
	return img
}

// renderBarChart returns nil when the category or price column is missing.
func renderBarChart(state *uiState) image.Image {
	ds := currentDataset(state)
	means, err := analysis.MeanByCategory(ds, state.cat.CategoryColumn, state.cat.PriceColumn)
	if err != nil {
		return nil
	}
	w, h := chartSize(state)
	img, err := charts.Bar(means, w, h)
	if err != nil {
		logging.Warnf("[viewer] bar plot: %v", err)
		return charts.Blank(w, h)
	}
	if state.showHints && len(means) > 0 {
		total := 0
		for _, m := range means {
			total += m.N
		}
		img = charts.DrawHint(img, fmt.Sprintf("%d annonces avec un prix dans %d catégories", total, len(means)))
	}
	return img
}

func setChart(state *uiState, c *canvas.Image, img image.Image) {
	if c == nil || img == nil {
		return
	}
	c.Image = img
	cw, chh := chartSize(state)
	c.SetMinSize(fyne.NewSize(float32(cw), float32(chh)))
	c.Refresh()
}

// redrawCharts shows the scatter when available, then either the two
// category charts or the missing-columns warning.
func redrawCharts(state *uiState) {
	if state == nil || state.scatterImgCanvas == nil {
		return
	}
	if img := renderScatterChart(state); img != nil {
		setChart(state, state.scatterImgCanvas, img)
		state.scatterSection.Show()
	} else {
		state.scatterImgCanvas.Image = nil
		state.scatterSection.Hide()
	}
	box, bar := renderBoxChart(state), renderBarChart(state)
	if box != nil && bar != nil {
		setChart(state, state.boxImgCanvas, box)
		setChart(state, state.barImgCanvas, bar)
		state.categorySection.Show()
		state.warningLabel.Hide()
		return
	}
	state.boxImgCanvas.Image = nil
	state.barImgCanvas.Image = nil
	state.categorySection.Hide()
	state.warningLabel.SetText(analysis.MissingColumnsWarning(state.cat.CategoryColumn, state.cat.PriceColumn))
	state.warningLabel.Show()
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, kind charts.Kind) {
	if state == nil || state.window == nil {
		return
	}
	if img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "Aucun graphique à exporter.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := png.Encode(wc, img.Image); err != nil {
			dialog.ShowError(err, state.window)
		}
	}, state.window)
	fs.SetFileName(charts.FileName(state.selected, kind))
	fs.Show()
}

// menus and shortcuts
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, d := range recentDataDirs(state) {
		d := d
		items = append(items, fyne.NewMenuItem(dataDirText(d), func() { setDataDir(state, d) }))
	}
	clearRecent := fyne.NewMenuItem("Effacer la liste", func() { clearRecentDataDirs(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Dossiers récents", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("Fichier",
		fyne.NewMenuItem("Ouvrir un dossier…", func() { openDataDirDialog(state) }),
		fyne.NewMenuItem("Recharger", func() { loadAll(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exporter le nuage de points…", func() { exportChartPNG(state, state.scatterImgCanvas, charts.KindScatter) }),
		fyne.NewMenuItem("Exporter la distribution des prix…", func() { exportChartPNG(state, state.boxImgCanvas, charts.KindBox) }),
		fyne.NewMenuItem("Exporter les prix moyens…", func() { exportChartPNG(state, state.barImgCanvas, charts.KindBar) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quitter", func() { state.window.Close() }),
	)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, recentMenu))

	canv := state.window.Canvas()
	if canv != nil {
		for _, mod := range []fyne.KeyModifier{fyne.KeyModifierSuper, fyne.KeyModifierControl} {
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: mod}, func(fyne.Shortcut) { loadAll(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { openDataDirDialog(state) })
			canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: mod}, func(fyne.Shortcut) { state.window.Close() })
		}
	}
}
