// Package analysis computes the figures behind the dashboard charts: the
// scatter of the 5th against the 6th column, price distribution per category
// (box plot) and mean price per category (bar plot).
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
)

// MinScatterColumns is the number of columns a dataset needs before the
// fixed 5th/6th column scatter is drawn.
const MinScatterColumns = 6

// Scatter holds the plotted pairs of two columns. A text column becomes a
// categorical axis: each distinct value gets a position 1..k in first-seen
// order and Labels[k-1] names position k.
type Scatter struct {
	XName   string    `json:"x"`
	YName   string    `json:"y"`
	X       []float64 `json:"-"`
	Y       []float64 `json:"-"`
	XLabels []string  `json:"x_labels,omitempty"`
	YLabels []string  `json:"y_labels,omitempty"`
	// Dropped counts rows where either value was missing or not numeric.
	Dropped int `json:"dropped"`
}

// Points returns the number of plotted pairs.
func (s Scatter) Points() int { return len(s.X) }

// BoxStats describes one box of a box plot.
type BoxStats struct {
	Category     string    `json:"category"`
	N            int       `json:"n"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// GroupMean is one bar of the mean price plot.
type GroupMean struct {
	Category string  `json:"category"`
	Mean     float64 `json:"mean"`
	N        int     `json:"n"`
}

// ScatterPoints pairs the 5th and 6th columns. ok is false when the dataset
// has fewer than MinScatterColumns columns.
func ScatterPoints(ds *dataset.Dataset) (Scatter, bool) {
	cols := ds.Columns()
	if len(cols) < MinScatterColumns {
		return Scatter{}, false
	}
	s := Scatter{XName: cols[4], YName: cols[5]}
	var xs, ys []float64
	xs, s.XLabels = scatterAxis(ds, s.XName)
	ys, s.YLabels = scatterAxis(ds, s.YName)
	for i := range xs {
		if i >= len(ys) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			s.Dropped++
			continue
		}
		s.X = append(s.X, xs[i])
		s.Y = append(s.Y, ys[i])
	}
	return s, true
}

// scatterAxis reads a column as numbers when at least half of its filled
// cells parse as one, otherwise as categories. labels is nil for numbers.
func scatterAxis(ds *dataset.Dataset, name string) ([]float64, []string) {
	nums, _ := ds.NumericColumn(name)
	texts, _ := ds.StringColumn(name)
	filled, parsed := 0, 0
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		filled++
		if i < len(nums) && !math.IsNaN(nums[i]) {
			parsed++
		}
	}
	if filled == 0 || parsed*2 >= filled {
		return nums, nil
	}
	var labels []string
	pos := make(map[string]int)
	out := make([]float64, len(texts))
	for i, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			out[i] = math.NaN()
			continue
		}
		p, ok := pos[t]
		if !ok {
			labels = append(labels, t)
			p = len(labels)
			pos[t] = p
		}
		out[i] = float64(p)
	}
	return out, labels
}

// pairs collects (category, value) rows with a category and a numeric value.
func pairs(ds *dataset.Dataset, catCol, valCol string) ([]string, []float64, error) {
	if !ds.HasColumns(catCol, valCol) {
		return nil, nil, fmt.Errorf("columns %q and %q not both present", catCol, valCol)
	}
	cats, _ := ds.StringColumn(catCol)
	vals, _ := ds.NumericColumn(valCol)
	outC := make([]string, 0, len(cats))
	outV := make([]float64, 0, len(cats))
	for i := range cats {
		c := strings.TrimSpace(cats[i])
		if c == "" || i >= len(vals) || math.IsNaN(vals[i]) {
			continue
		}
		outC = append(outC, c)
		outV = append(outV, vals[i])
	}
	return outC, outV, nil
}

// MeanByCategory averages valCol per distinct catCol value, sorted by category.
func MeanByCategory(ds *dataset.Dataset, catCol, valCol string) ([]GroupMean, error) {
	cats, vals, err := pairs(ds, catCol, valCol)
	if err != nil {
		return nil, err
	}
	if len(cats) == 0 {
		return nil, nil
	}
	df := dataframe.New(
		series.New(cats, series.String, "category"),
		series.New(vals, series.Float, "value"),
	)
	groups := df.GroupBy("category")
	if groups.Err != nil {
		return nil, groups.Err
	}
	agg := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN, dataframe.Aggregation_COUNT},
		[]string{"value", "value"},
	)
	if agg.Err != nil {
		return nil, agg.Err
	}
	names := agg.Col("category").Records()
	means := agg.Col("value_MEAN").Float()
	counts := agg.Col("value_COUNT").Float()
	out := make([]GroupMean, len(names))
	for i := range names {
		out[i] = GroupMean{Category: names[i], Mean: means[i], N: int(counts[i])}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// BoxByCategory computes Tukey box statistics of valCol per catCol value,
// sorted by category. Quartiles use linear interpolation between order statistics.
func BoxByCategory(ds *dataset.Dataset, catCol, valCol string) ([]BoxStats, error) {
	cats, vals, err := pairs(ds, catCol, valCol)
	if err != nil {
		return nil, err
	}
	byCat := map[string][]float64{}
	for i, c := range cats {
		byCat[c] = append(byCat[c], vals[i])
	}
	out := make([]BoxStats, 0, len(byCat))
	for c, vs := range byCat {
		out = append(out, Box(c, vs))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// Box computes box statistics for one group; NaN values are ignored.
func Box(category string, values []float64) BoxStats {
	vs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			vs = append(vs, v)
		}
	}
	sort.Float64s(vs)
	b := BoxStats{Category: category, N: len(vs)}
	if len(vs) == 0 {
		b.Q1, b.Median, b.Q3 = math.NaN(), math.NaN(), math.NaN()
		b.LowerWhisker, b.UpperWhisker = math.NaN(), math.NaN()
		return b
	}
	b.Q1 = Quantile(vs, 0.25)
	b.Median = Quantile(vs, 0.5)
	b.Q3 = Quantile(vs, 0.75)
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Q1, b.Q3
	for _, v := range vs {
		if v >= lo {
			b.LowerWhisker = v
			break
		}
	}
	for i := len(vs) - 1; i >= 0; i-- {
		if vs[i] <= hi {
			b.UpperWhisker = vs[i]
			break
		}
	}
	for _, v := range vs {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
		}
	}
	return b
}

// Quantile returns the p-quantile of sorted values using linear interpolation.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
