package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	showRows  int
	showWidth int
)

var showCmd = &cobra.Command{
	Use:               "show <dataset>",
	Short:             "Print the dimensions and the first rows of a dataset",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeDatasetNames,
	RunE:              runShow,
}

func init() {
	showCmd.Flags().IntVarP(&showRows, "rows", "n", 10, "number of rows to print (0 for all)")
	showCmd.Flags().IntVar(&showWidth, "width", 32, "maximum characters per cell")
}

func runShow(cmd *cobra.Command, args []string) error {
	_, col, err := loadCollection(cmd)
	if err != nil {
		return err
	}
	ds, err := lookup(col, args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, colorBold.Sprint("Aperçu des données : "+ds.Name))
	if ds.Failed() {
		fmt.Fprintln(w, colorRed.Sprintf("Erreur lors du chargement du fichier %s: %v", ds.Path, ds.Err))
	}
	rows, cols := ds.Shape()
	fmt.Fprintf(w, "Dimensions : %d lignes, %d colonnes\n", rows, cols)
	if cols == 0 {
		return nil
	}
	headers := make([]string, cols)
	for i, c := range ds.Columns() {
		headers[i] = truncate(c, showWidth)
	}
	t := newTable(w, headers...)
	for _, r := range ds.Rows(showRows) {
		cells := make([]string, len(r))
		for i, c := range r {
			cells[i] = truncate(c, showWidth)
		}
		t.Append(cells)
	}
	t.Render()
	if shown := len(ds.Rows(showRows)); shown < rows {
		fmt.Fprintf(w, "… %d lignes de plus\n", rows-shown)
	}
	return nil
}
