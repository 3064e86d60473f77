package main

import (
	"context"
	"fmt"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/iafilius/CoinAfriqueViewer/cmd/listingviewer/uihelpers"
	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
	"github.com/iafilius/CoinAfriqueViewer/src/logging"
	"github.com/iafilius/CoinAfriqueViewer/src/watch"
)

// cells longer than this are cut in the preview table
const maxCellRunes = 80

// loadAll (re)reads every catalog dataset and refreshes the selected one.
func loadAll(state *uiState) error {
	col, err := dataset.LoadAll(context.Background(), state.cat, state.store)
	if err != nil {
		logging.Errorf("[viewer] load: %v", err)
		if state.window != nil {
			dialog.ShowError(err, state.window)
		}
		return err
	}
	state.col = col
	state.errShownFor = ""
	if _, ok := col.Get(state.selected); !ok {
		state.selected = ""
		if names := col.Names(); len(names) > 0 {
			state.selected = names[0]
		}
	}
	if state.datasetSelect != nil {
		state.datasetSelect.Options = col.Names()
		state.datasetSelect.Selected = state.selected
		state.datasetSelect.Refresh()
	}
	if state.dataDirLabel != nil {
		state.dataDirLabel.SetText(dataDirText(state.cat.DataDir))
	}
	refreshDataset(state)
	return nil
}

func currentDataset(state *uiState) *dataset.Dataset {
	if state == nil {
		return nil
	}
	ds, _ := state.col.Get(state.selected)
	return ds
}

// refreshDataset updates titles, table and charts for the selected dataset.
func refreshDataset(state *uiState) {
	ds := currentDataset(state)
	if state.previewTitle != nil {
		state.previewTitle.SetText("Aperçu des données : " + state.selected)
	}
	rows, cols := ds.Shape()
	if state.dimsLabel != nil {
		state.dimsLabel.SetText(uihelpers.DimensionsText(rows, cols))
	}
	if state.errorLabel != nil {
		if ds != nil && ds.Err != nil {
			state.errorLabel.SetText(loadErrorText(ds))
			state.errorLabel.Show()
		} else {
			state.errorLabel.Hide()
		}
	}
	if ds != nil && ds.Err != nil && state.window != nil && state.errShownFor != ds.Name {
		state.errShownFor = ds.Name
		dialog.ShowError(fmt.Errorf("%s", loadErrorText(ds)), state.window)
	}
	if state.table != nil {
		updateColumnWidths(state)
		state.table.ScrollToTop()
		state.table.Refresh()
	}
	redrawCharts(state)
}

func loadErrorText(ds *dataset.Dataset) string {
	return fmt.Sprintf("Erreur lors du chargement du fichier %s: %v", ds.Path, ds.Err)
}

// tableSize is one header row plus the data rows.
func tableSize(state *uiState) (int, int) {
	ds := currentDataset(state)
	rows, cols := ds.Shape()
	return rows + 1, cols
}

func tableCell(state *uiState, row, col int) string {
	ds := currentDataset(state)
	if row == 0 {
		return ds.Column(col)
	}
	return uihelpers.TruncateCell(ds.Cell(row-1, col), maxCellRunes)
}

func updateColumnWidths(state *uiState) {
	if state == nil || state.table == nil || state.window == nil || state.window.Canvas() == nil {
		return
	}
	ds := currentDataset(state)
	winW := state.window.Canvas().Size().Width
	for i, w := range uihelpers.ComputeTableColumnWidths(winW, ds.Columns(), ds.Rows(50)) {
		state.table.SetColumnWidth(i, w)
	}
}

// startWatcher reloads when a CSV file of the data directory changes.
func startWatcher(state *uiState) {
	if state.watcher != nil {
		state.watcher.Stop()
		state.watcher = nil
	}
	w, err := watch.New(watch.DefaultDebounce)
	if err != nil {
		logging.Warnf("[viewer] file watching disabled: %v", err)
		return
	}
	if err := w.Watch(state.cat.DataDir, func(path string) {
		logging.Infof("[viewer] %s changed, reloading", path)
		fyne.Do(func() { loadAll(state) })
	}); err != nil {
		logging.Warnf("[viewer] cannot watch %s: %v", state.cat.DataDir, err)
		w.Stop()
		return
	}
	state.watcher = w
}

// openDataDirDialog points the catalog at another directory of CSV files.
func openDataDirDialog(state *uiState) {
	d := dialog.NewFolderOpen(func(lu fyne.ListableURI, err error) {
		if err != nil || lu == nil {
			return
		}
		setDataDir(state, lu.Path())
	}, state.window)
	d.Show()
}

func setDataDir(state *uiState, dir string) {
	state.cat.DataDir = dir
	addRecentDataDir(state, dir)
	if state.app != nil {
		state.app.Preferences().SetString("dataDir", dir)
	}
	loadAll(state)
	startWatcher(state)
	buildMenus(state)
}
