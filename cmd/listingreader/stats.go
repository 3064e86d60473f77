package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iafilius/CoinAfriqueViewer/src/analysis"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:               "stats <dataset>",
	Short:             "Print the mean price and the price distribution per category",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeDatasetNames,
	RunE:              runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the summary as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	cat, col, err := loadCollection(cmd)
	if err != nil {
		return err
	}
	ds, err := lookup(col, args[0])
	if err != nil {
		return err
	}
	sum := analysis.Summarize(ds, cat.CategoryColumn, cat.PriceColumn)
	w := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	fmt.Fprintln(w, colorBold.Sprint(ds.Name))
	if sum.Error != "" {
		fmt.Fprintln(w, colorRed.Sprintf("Erreur lors du chargement du fichier %s: %s", ds.Path, sum.Error))
	}
	fmt.Fprintf(w, "Dimensions : %d lignes, %d colonnes\n", sum.Rows, sum.Cols)
	if sum.Scatter != nil {
		fmt.Fprintf(w, "Relation entre %s et %s : %d points (%d lignes ignorées)\n",
			sum.Scatter.XName, sum.Scatter.YName, sum.Scatter.Points(), sum.Scatter.Dropped)
	}
	if sum.PriceCount > 0 {
		fmt.Fprintf(w, "Prix : %d annonces, min %s, moyenne %s, max %s FCFA\n",
			sum.PriceCount, formatPrice(sum.PriceMin), formatPrice(sum.PriceMean), formatPrice(sum.PriceMax))
	}
	if !sum.HasCategory {
		fmt.Fprintln(w, colorYellow.Sprint(sum.Warning))
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, colorBold.Sprint("Prix moyen par type de chaussure"))
	mt := newTable(w, "CATÉGORIE", "N", "PRIX MOYEN (FCFA)")
	mt.SetColumnAlignment(numericColumns(3))
	for _, m := range sum.Means {
		mt.Append([]string{m.Category, strconv.Itoa(m.N), formatPrice(m.Mean)})
	}
	mt.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, colorBold.Sprint("Distribution des prix par type de chaussure"))
	bt := newTable(w, "CATÉGORIE", "N", "MIN", "Q1", "MÉDIANE", "Q3", "MAX", "ABERRANTS")
	bt.SetColumnAlignment(numericColumns(8))
	for _, b := range sum.Boxes {
		bt.Append([]string{
			b.Category, strconv.Itoa(b.N),
			formatPrice(b.LowerWhisker), formatPrice(b.Q1), formatPrice(b.Median),
			formatPrice(b.Q3), formatPrice(b.UpperWhisker), strconv.Itoa(len(b.Outliers)),
		})
	}
	bt.Render()
	return nil
}
