package analysis

import (
	"fmt"
	"math"

	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
)

// Summary is the per-dataset overview used by the reader CLI and the JSON API.
type Summary struct {
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	Rows        int         `json:"rows"`
	Cols        int         `json:"cols"`
	Columns     []string    `json:"columns"`
	Error       string      `json:"error,omitempty"`
	FromCache   bool        `json:"from_cache,omitempty"`
	Scatter     *Scatter    `json:"scatter,omitempty"`
	HasCategory bool        `json:"has_category_price"`
	PriceCount  int         `json:"price_count"`
	PriceMin    float64     `json:"price_min,omitempty"`
	PriceMax    float64     `json:"price_max,omitempty"`
	PriceMean   float64     `json:"price_mean,omitempty"`
	Means       []GroupMean `json:"means,omitempty"`
	Boxes       []BoxStats  `json:"boxes,omitempty"`
	Warning     string      `json:"warning,omitempty"`
}

// MissingColumnsWarning is shown instead of the category charts.
func MissingColumnsWarning(catCol, priceCol string) string {
	return fmt.Sprintf("Les colonnes '%s' et '%s' sont absentes des données sélectionnées.", catCol, priceCol)
}

// Summarize collects shape, scatter availability, price range and the
// per-category figures of one dataset.
func Summarize(ds *dataset.Dataset, catCol, priceCol string) Summary {
	s := Summary{Name: ds.Name, Path: ds.Path, FromCache: ds.FromCache}
	if ds.Err != nil {
		s.Error = ds.Err.Error()
	}
	s.Rows, s.Cols = ds.Shape()
	s.Columns = ds.Columns()
	if sc, ok := ScatterPoints(ds); ok {
		s.Scatter = &sc
	}
	if prices, ok := ds.NumericColumn(priceCol); ok {
		min, max, sum := math.Inf(1), math.Inf(-1), 0.0
		for _, p := range prices {
			if math.IsNaN(p) {
				continue
			}
			s.PriceCount++
			sum += p
			min = math.Min(min, p)
			max = math.Max(max, p)
		}
		if s.PriceCount > 0 {
			s.PriceMin, s.PriceMax = min, max
			s.PriceMean = sum / float64(s.PriceCount)
		}
	}
	s.HasCategory = ds.HasColumns(catCol, priceCol)
	if !s.HasCategory {
		s.Warning = MissingColumnsWarning(catCol, priceCol)
		return s
	}
	if m, err := MeanByCategory(ds, catCol, priceCol); err == nil {
		s.Means = m
	}
	if b, err := BoxByCategory(ds, catCol, priceCol); err == nil {
		s.Boxes = b
	}
	return s
}
