package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/CoinAfriqueViewer/cmd/listingviewer/uihelpers"
	"github.com/iafilius/CoinAfriqueViewer/src/cache"
	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
	"github.com/iafilius/CoinAfriqueViewer/src/logging"
	"github.com/iafilius/CoinAfriqueViewer/src/watch"
)

type uiState struct {
	app    fyne.App
	window fyne.Window

	cat      *catalog.Catalog
	store    *cache.Store
	col      *dataset.Collection
	selected string
	// data dir given on the command line; wins over the one stored in prefs
	dataDirFlag bool

	showHints bool
	darkMode  bool

	// widgets
	header        *widget.RichText
	datasetSelect *widget.Select
	previewTitle  *widget.Label
	dimsLabel     *widget.Label
	errorLabel    *widget.Label
	dataDirLabel  *widget.Label
	table         *widget.Table

	scatterImgCanvas *canvas.Image
	boxImgCanvas     *canvas.Image
	barImgCanvas     *canvas.Image
	scatterSection   *fyne.Container
	categorySection  *fyne.Container
	warningLabel     *widget.Label

	watcher *watch.Watcher
	// last dataset an error dialog was shown for, so reloads do not repeat it
	errShownFor string
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var (
		configFlag      string
		dataDirFlag     string
		datasetFlag     string
		screenshotsFlag string
		logLevelFlag    string
		cacheFlag       string
	)
	flag.StringVar(&configFlag, "config", catalog.DefaultFileName, "Path to the dataset catalog (YAML); built-in defaults when missing")
	flag.StringVar(&dataDirFlag, "data-dir", "", "Directory holding the CSV files (overrides the catalog)")
	flag.StringVar(&datasetFlag, "dataset", "", "Dataset selected on start")
	flag.StringVar(&screenshotsFlag, "screenshots", "", "Render every chart as PNG into this directory and exit")
	flag.StringVar(&logLevelFlag, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&cacheFlag, "cache", "", "Path to a bbolt file caching parsed CSV files (empty disables)")
	flag.Parse()

	if !logging.SetLogLevel(logLevelFlag) {
		fmt.Fprintf(os.Stderr, "[viewer] unknown log level %q\n", logLevelFlag)
	}
	cat, err := catalog.Load(configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[viewer] %v\n", err)
		os.Exit(2)
	}
	if dataDirFlag != "" {
		cat.DataDir = dataDirFlag
	}
	if datasetFlag != "" {
		if _, ok := cat.Find(datasetFlag); !ok {
			logging.Warnf("[viewer] unknown dataset %q, starting with %q", datasetFlag, cat.Names()[0])
			datasetFlag = ""
		}
	}
	var store *cache.Store
	if cacheFlag != "" {
		if store, err = cache.Open(cacheFlag); err != nil {
			logging.Warnf("[viewer] cache disabled: %v", err)
			store = nil
		}
	}
	defer store.Close()

	if screenshotsFlag != "" {
		if err := RunScreenshotsMode(cat, store, screenshotsFlag); err != nil {
			fmt.Fprintf(os.Stderr, "[viewer] screenshots: %v\n", err)
			os.Exit(1)
		}
		return
	}

	a := app.NewWithID("com.coinafrique.viewer")
	w := a.NewWindow(cat.Title)
	w.Resize(fyne.NewSize(1200, 860))

	state := &uiState{
		app:         a,
		window:      w,
		cat:         cat,
		store:       store,
		selected:    datasetFlag,
		dataDirFlag: dataDirFlag != "",
	}
	state.showHints = a.Preferences().BoolWithFallback("showHints", false)
	state.darkMode = a.Preferences().BoolWithFallback("darkMode", false)
	if state.darkMode {
		a.Settings().SetTheme(&darkTheme{})
	}

	state.header = widget.NewRichTextFromMarkdown(headerMarkdown(cat))
	state.header.Wrapping = fyne.TextWrapWord

	state.datasetSelect = widget.NewSelect(nil, func(v string) {
		if v == "" || v == state.selected {
			return
		}
		state.selected = v
		logging.Debugf("[viewer] dataset changed to %q", v)
		savePrefs(state)
		refreshDataset(state)
	})
	state.datasetSelect.PlaceHolder = "Sélectionnez un dataset"

	state.previewTitle = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	state.dimsLabel = widget.NewLabel("")
	state.errorLabel = widget.NewLabel("")
	state.errorLabel.Importance = widget.DangerImportance
	state.errorLabel.Wrapping = fyne.TextWrapWord
	state.errorLabel.Hide()
	state.dataDirLabel = widget.NewLabel(dataDirText(cat.DataDir))

	state.table = widget.NewTable(
		func() (int, int) { return tableSize(state) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			lbl.TextStyle.Bold = id.Row == 0
			lbl.SetText(tableCell(state, id.Row, id.Col))
		},
	)

	newChart := func() *canvas.Image {
		c := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 100, 60)))
		c.FillMode = canvas.ImageFillContain
		c.SetMinSize(fyne.NewSize(900, 320))
		return c
	}
	state.scatterImgCanvas = newChart()
	state.boxImgCanvas = newChart()
	state.barImgCanvas = newChart()
	state.warningLabel = widget.NewLabel("")
	state.warningLabel.Importance = widget.WarningImportance
	state.warningLabel.Wrapping = fyne.TextWrapWord

	state.scatterSection = container.NewVBox(state.scatterImgCanvas, widget.NewSeparator())
	state.categorySection = container.NewVBox(state.boxImgCanvas, widget.NewSeparator(), state.barImgCanvas)
	chartsColumn := container.NewVBox(
		state.scatterSection,
		widget.NewLabelWithStyle("Visualisations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		state.categorySection,
		state.warningLabel,
	)
	chartsScroll := container.NewVScroll(chartsColumn)
	chartsScroll.SetMinSize(fyne.NewSize(900, 600))

	hintsChk := widget.NewCheck("Indications", func(b bool) {
		state.showHints = b
		savePrefs(state)
		redrawCharts(state)
	})
	hintsChk.SetChecked(state.showHints)
	darkChk := widget.NewCheck("Thème sombre", func(b bool) {
		state.darkMode = b
		savePrefs(state)
		if b {
			state.app.Settings().SetTheme(&darkTheme{})
		} else {
			state.app.Settings().SetTheme(theme.DefaultTheme())
		}
	})
	darkChk.SetChecked(state.darkMode)

	top := container.NewVBox(
		state.header,
		container.NewHBox(
			widget.NewLabel("Sélectionnez un dataset :"), state.datasetSelect,
			widget.NewButton("Recharger", func() { loadAll(state) }),
			widget.NewButton("Dossier…", func() { openDataDirDialog(state) }),
			hintsChk, darkChk,
			widget.NewLabel("Données :"), state.dataDirLabel,
		),
		state.previewTitle,
		state.dimsLabel,
		state.errorLabel,
	)
	tabs := container.NewAppTabs(
		container.NewTabItem("Données", state.table),
		container.NewTabItem("Graphiques", chartsScroll),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(ti *container.TabItem) {
		state.app.Preferences().SetInt("selectedTabIndex", tabs.SelectedIndex())
	}
	w.SetContent(container.NewBorder(top, nil, nil, nil, tabs))

	// Redraw charts and re-size table columns when the window width changes
	done := make(chan struct{})
	w.SetOnClosed(func() {
		savePrefs(state)
		if state.watcher != nil {
			state.watcher.Stop()
		}
		close(done)
	})
	go func() {
		prevW := 0
		t := time.NewTicker(300 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				c := w.Canvas()
				if c == nil {
					continue
				}
				curW := int(c.Size().Width)
				if curW != prevW {
					prevW = curW
					fyne.Do(func() {
						updateColumnWidths(state)
						redrawCharts(state)
					})
				}
			}
		}
	}()

	buildMenus(state)
	loadPrefs(state, tabs)
	loadAll(state)
	startWatcher(state)

	w.ShowAndRun()
}

// headerMarkdown is the page title followed by the catalog description.
func headerMarkdown(cat *catalog.Catalog) string {
	return "# " + cat.Title + "\n\n" + cat.Description
}

func dataDirText(dir string) string {
	return uihelpers.TruncatePath(dir, 60)
}
