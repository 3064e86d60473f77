// Package charts renders the dashboard figures with go-chart: the column 5/6
// scatter, the price box plot and the mean price bar plot.
package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/CoinAfriqueViewer/src/analysis"
)

// Kind names one of the rendered charts.
type Kind string

const (
	KindScatter Kind = "scatter"
	KindBox     Kind = "box"
	KindBar     Kind = "bar"
)

// Kinds lists every chart in display order.
var Kinds = []Kind{KindScatter, KindBox, KindBar}

// ParseKind validates a chart name coming from a URL or command line.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

const (
	BoxTitle     = "Distribution des prix par type de chaussure"
	BarTitle     = "Prix moyen par type de chaussure"
	PriceAxis    = "Prix (FCFA)"
	MeanAxis     = "Prix moyen (FCFA)"
	CategoryAxis = "Type de chaussure"
	noDataHint   = "Aucune donnée numérique à afficher"
)

// ScatterTitle is the title of the column 5/6 scatter.
func ScatterTitle(x, y string) string {
	return fmt.Sprintf("Relation entre %s et %s", x, y)
}

// ScatterPNG renders the scatter as PNG bytes. A scatter without numeric
// pairs renders the placeholder. Categorical axes get one labeled tick per
// value.
func ScatterPNG(s analysis.Scatter, w, h int) ([]byte, error) {
	if s.Points() == 0 {
		return placeholderPNG(w, h)
	}
	xRange, xTicks := scatterAxis(s.X, s.XLabels, 8)
	yRange, yTicks := scatterAxis(s.Y, s.YLabels, 6)
	xAxis := chart.XAxis{Name: s.XName, Range: xRange, Ticks: xTicks}
	if s.XLabels != nil {
		xAxis.TickStyle = chart.Style{TextRotationDegrees: categoryRotation}
	}
	ch := chart.Chart{
		Title:      ScatterTitle(s.XName, s.YName),
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: s.YName, Range: yRange, Ticks: yTicks},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    s.YName,
				XValues: s.X,
				YValues: s.Y,
				Style:   pointStyle(chart.ColorBlue, 4),
			},
		},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render scatter: %w", err)
	}
	return buf.Bytes(), nil
}

// maxCategoryTicks caps the labels drawn on a categorical scatter axis.
const maxCategoryTicks = 30

func scatterAxis(vs []float64, labels []string, n int) (chart.Range, []chart.Tick) {
	if labels != nil {
		return &chart.ContinuousRange{Min: 0.5, Max: float64(len(labels)) + 0.5}, categoryTicks(labels)
	}
	min, max := bounds(vs)
	min, max = niceAxisBounds(min, max)
	return &chart.ContinuousRange{Min: min, Max: max}, niceTicks(min, max, n)
}

// categoryTicks places label i at position i+1, keeping every step-th label
// when there are more than maxCategoryTicks.
func categoryTicks(labels []string) []chart.Tick {
	step := (len(labels) + maxCategoryTicks - 1) / maxCategoryTicks
	if step < 1 {
		step = 1
	}
	ticks := make([]chart.Tick, 0, maxCategoryTicks)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: labels[i]})
	}
	return ticks
}

// BoxPNG renders one box per category: Q1..Q3 box, median line, whiskers
// and outlier dots. Categories without values are skipped.
func BoxPNG(stats []analysis.BoxStats, w, h int) ([]byte, error) {
	boxes := make([]analysis.BoxStats, 0, len(stats))
	for _, b := range stats {
		if b.N > 0 {
			boxes = append(boxes, b)
		}
	}
	if len(boxes) == 0 {
		return placeholderPNG(w, h)
	}
	yMin, yMax := math.Inf(1), math.Inf(-1)
	xs := make([]float64, len(boxes))
	medians := make([]float64, len(boxes))
	var ox, oy []float64
	ticks := make([]chart.Tick, len(boxes))
	for i, b := range boxes {
		x := float64(i + 1)
		xs[i] = x
		medians[i] = b.Median
		ticks[i] = chart.Tick{Value: x, Label: b.Category}
		yMin = math.Min(yMin, b.LowerWhisker)
		yMax = math.Max(yMax, b.UpperWhisker)
		for _, o := range b.Outliers {
			ox = append(ox, x)
			oy = append(oy, o)
			yMin = math.Min(yMin, o)
			yMax = math.Max(yMax, o)
		}
	}
	yMin, yMax = niceAxisBounds(yMin, yMax)
	xMin, xMax := 0.5, float64(len(boxes))+0.5
	colors := Magma(len(boxes))
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Médiane",
			XValues: xs,
			YValues: medians,
			Style:   pointStyle(edgeColor, 2),
		},
	}
	if len(ox) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "Valeurs aberrantes",
			XValues: ox,
			YValues: oy,
			Style:   pointStyle(edgeColor, 3),
		})
	}
	ch := chart.Chart{
		Title:      BoxTitle,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:      CategoryAxis,
			Range:     &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks:     ticks,
			TickStyle: chart.Style{TextRotationDegrees: categoryRotation},
		},
		YAxis: chart.YAxis{
			Name:  PriceAxis,
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: niceTicks(yMin, yMax, 6),
		},
		Series:   series,
		Elements: []chart.Renderable{drawBoxes(boxes, colors, xMin, xMax, yMin, yMax)},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render box plot: %w", err)
	}
	return buf.Bytes(), nil
}

var edgeColor = drawing.ColorFromHex("333333")

// drawBoxes maps the box statistics into the plot area the chart computed.
func drawBoxes(boxes []analysis.BoxStats, colors []drawing.Color, xMin, xMax, yMin, yMax float64) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, _ chart.Style) {
		xr := &chart.ContinuousRange{Min: xMin, Max: xMax, Domain: cb.Width()}
		yr := &chart.ContinuousRange{Min: yMin, Max: yMax, Domain: cb.Height()}
		px := func(v float64) int { return cb.Left + xr.Translate(v) }
		py := func(v float64) int { return cb.Bottom - yr.Translate(v) }
		half := int(float64(cb.Width()) / float64(len(boxes)) * 0.3)
		if half < 3 {
			half = 3
		}
		line := func(x0, y0, x1, y1 int) {
			r.SetStrokeColor(edgeColor)
			r.SetStrokeWidth(1.5)
			r.MoveTo(x0, y0)
			r.LineTo(x1, y1)
			r.Stroke()
		}
		for i, b := range boxes {
			cx := px(float64(i + 1))
			line(cx, py(b.LowerWhisker), cx, py(b.Q1))
			line(cx, py(b.Q3), cx, py(b.UpperWhisker))
			line(cx-half/2, py(b.LowerWhisker), cx+half/2, py(b.LowerWhisker))
			line(cx-half/2, py(b.UpperWhisker), cx+half/2, py(b.UpperWhisker))
			top, bottom := py(b.Q3), py(b.Q1)
			if bottom-top < 1 {
				bottom = top + 1
			}
			chart.Draw.Box(r, chart.Box{Top: top, Left: cx - half, Right: cx + half, Bottom: bottom}, chart.Style{
				FillColor:   colors[i],
				StrokeColor: edgeColor,
				StrokeWidth: 1.5,
			})
			line(cx-half, py(b.Median), cx+half, py(b.Median))
		}
	}
}

// BarPNG renders the mean price of each category.
func BarPNG(means []analysis.GroupMean, w, h int) ([]byte, error) {
	if len(means) == 0 {
		return placeholderPNG(w, h)
	}
	colors := Coolwarm(len(means))
	bars := make([]chart.Value, len(means))
	max := 0.0
	for i, m := range means {
		bars[i] = chart.Value{
			Value: m.Mean,
			Label: m.Category,
			Style: chart.Style{FillColor: colors[i], StrokeColor: colors[i], StrokeWidth: 1},
		}
		max = math.Max(max, m.Mean)
	}
	_, top := niceAxisBounds(0, max)
	bw := (w - 120) / len(means) * 6 / 10
	if bw < 8 {
		bw = 8
	}
	if bw > 80 {
		bw = 80
	}
	bc := chart.BarChart{
		Title:      BarTitle,
		Width:      w,
		Height:     h,
		BarWidth:   bw,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 36}},
		XAxis:      chart.Style{TextRotationDegrees: categoryRotation},
		YAxis: chart.YAxis{
			Name:  MeanAxis,
			Range: &chart.ContinuousRange{Min: 0, Max: top},
			Ticks: niceTicks(0, top, 6),
		},
		Bars:     bars,
		Elements: []chart.Renderable{axisLabel(CategoryAxis, h)},
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar plot: %w", err)
	}
	return buf.Bytes(), nil
}

// Scatter, Box and Bar decode the rendered PNG for the desktop viewer.
func Scatter(s analysis.Scatter, w, h int) (image.Image, error) {
	return decode(ScatterPNG(s, w, h))
}

func Box(stats []analysis.BoxStats, w, h int) (image.Image, error) {
	return decode(BoxPNG(stats, w, h))
}

func Bar(means []analysis.GroupMean, w, h int) (image.Image, error) {
	return decode(BarPNG(means, w, h))
}

func decode(b []byte, err error) (image.Image, error) {
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}

// EncodePNG writes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func placeholderPNG(w, h int) ([]byte, error) {
	return EncodePNG(DrawHint(Blank(w, h), noDataHint))
}

// pointStyle draws dots only; a zero StrokeWidth would inherit the default line.
func pointStyle(c drawing.Color, dot float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    dot,
		DotColor:    c,
	}
}

// categoryRotation tilts category tick labels on the box and bar charts.
const categoryRotation = 45.0

// axisLabel draws name centered under the plot, near the bottom edge of an
// image h pixels high. BarChart has no axis name of its own.
func axisLabel(name string, h int) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		st := chart.Style{FontSize: chart.DefaultAxisFontSize, FontColor: chart.DefaultTextColor}.InheritFrom(defaults)
		r.SetFont(st.GetFont())
		r.SetFontSize(st.GetFontSize())
		r.SetFontColor(st.GetFontColor())
		tb := r.MeasureText(name)
		x := cb.Left + (cb.Width()-tb.Width())/2
		r.Text(name, x, h-8)
	}
}

func bounds(vs []float64) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		if math.IsNaN(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max
}
