package main

import (
	"os"
	"strings"

	"fyne.io/fyne/v2/container"
)

const maxRecentDataDirs = 10

// recent data directory helpers
func recentDataDirs(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentDataDirs", "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, "\n") {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			out = append(out, p)
		}
	}
	return out
}

func addRecentDataDir(state *uiState, dir string) {
	if state == nil || state.app == nil {
		return
	}
	filtered := []string{dir}
	for _, d := range recentDataDirs(state) {
		if d != dir && len(filtered) < maxRecentDataDirs {
			filtered = append(filtered, d)
		}
	}
	state.app.Preferences().SetString("recentDataDirs", strings.Join(filtered, "\n"))
}

func clearRecentDataDirs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentDataDirs", "")
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastDataset", state.selected)
	prefs.SetBool("showHints", state.showHints)
	prefs.SetBool("darkMode", state.darkMode)
}

// loadPrefs restores the last dataset and the data directory picked in the
// UI. Command line flags given explicitly take precedence.
func loadPrefs(state *uiState, tabs *container.AppTabs) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if state.selected == "" {
		state.selected = prefs.StringWithFallback("lastDataset", "")
	}
	if !state.dataDirFlag {
		if d := prefs.StringWithFallback("dataDir", ""); d != "" {
			if fi, err := os.Stat(d); err == nil && fi.IsDir() {
				state.cat.DataDir = d
			}
		}
	}
	state.showHints = prefs.BoolWithFallback("showHints", state.showHints)
	state.darkMode = prefs.BoolWithFallback("darkMode", state.darkMode)
	if tabs != nil {
		idx := prefs.IntWithFallback("selectedTabIndex", 0)
		if idx >= 0 && idx < len(tabs.Items) {
			tabs.SelectIndex(idx)
		}
	}
}
