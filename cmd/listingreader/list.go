package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the datasets of the catalog with their shape and load status",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	cat, col, err := loadCollection(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, colorBold.Sprint(cat.Title))
	if desc, err := renderMarkdown(cat.Description); err == nil {
		fmt.Fprint(w, desc)
	} else {
		fmt.Fprintln(w, cat.Description)
	}

	t := newTable(w, "DATASET", "FICHIER", "LIGNES", "COLONNES", "STATUT")
	for _, ds := range col.All() {
		rows, cols := ds.Shape()
		status := "OK"
		switch {
		case ds.Failed():
			status = "ERROR"
		case rows == 0:
			status = "EMPTY"
		}
		t.Append([]string{ds.Name, ds.Path, strconv.Itoa(rows), strconv.Itoa(cols), colorStatus(status)})
	}
	t.Render()
	for _, ds := range col.Failed() {
		fmt.Fprintln(w, colorRed.Sprintf("Erreur lors du chargement du fichier %s: %v", ds.Path, ds.Err))
	}
	return nil
}

// renderMarkdown renders the catalog description for the terminal; plain
// text styling when colors are off.
func renderMarkdown(md string) (string, error) {
	opt := glamour.WithAutoStyle()
	if noColor {
		opt = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(80))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
