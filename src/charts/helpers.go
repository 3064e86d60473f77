package charts

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Size applies the width/height clamp rules used for every chart.
// Input: desired raw width (e.g. the canvas width).
func Size(rawW int) (int, int) {
	w := rawW
	if w < 800 {
		w = 800
	}
	// ~3:1 aspect ratio, with sane bounds
	h := int(float32(w) * 0.33)
	if h < 280 {
		h = 280
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers for readability.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return 0, 1
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 5% margin on both sides
	pad := span * 0.05
	a := min - pad
	b := max + pad
	// prices never go below zero; keep the axis anchored there
	if min >= 0 && a < 0 {
		a = 0
	}
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates up to n desired tick marks between [min, max] using nice increments.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	// 1, 2, 2.5, 5, 10 scaled by a power of 10
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil(span/step) + 1
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Ceil(min/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= max+bestStep*1e-9; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

// formatTick prints prices with a space as thousands separator ("15 000").
func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 1000:
		return groupThousands(fmt.Sprintf("%.0f", v))
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
	default:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	}
}

func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}

// Blank returns a dark placeholder image.
func Blank(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		w, h = Size(0)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 18, G: 18, B: 18, A: 255}), image.Point{}, draw.Src)
	return img
}

// DrawHint returns a copy of img with text written in its lower left corner
// on a dark backdrop. A nil image or blank text returns img untouched.
func DrawHint(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	const margin, inset = 8, 6
	face := basicfont.Face7x13
	base := image.Pt(bounds.Min.X+margin, bounds.Max.Y-inset)
	d := &font.Drawer{Dst: dst, Face: face}
	width := d.MeasureString(text).Ceil()
	backdrop := image.Rect(base.X-inset, base.Y-face.Metrics().Ascent.Ceil()-inset, base.X+width+inset, base.Y+inset/2)
	draw.Draw(dst, backdrop, image.NewUniform(color.RGBA{A: 200}), image.Point{}, draw.Over)

	for _, pass := range []struct {
		off int
		c   color.RGBA
	}{
		{1, color.RGBA{A: 180}},
		{0, color.RGBA{R: 255, G: 255, B: 255, A: 255}},
	} {
		d.Src = image.NewUniform(pass.c)
		d.Dot = fixed.P(base.X+pass.off, base.Y+pass.off)
		d.DrawString(text)
	}
	return dst
}

var (
	magmaStops = []drawing.Color{
		drawing.ColorFromHex("000004"),
		drawing.ColorFromHex("3b0f70"),
		drawing.ColorFromHex("8c2981"),
		drawing.ColorFromHex("de4968"),
		drawing.ColorFromHex("fe9f6d"),
		drawing.ColorFromHex("fcfdbf"),
	}
	coolwarmStops = []drawing.Color{
		drawing.ColorFromHex("3b4cc0"),
		drawing.ColorFromHex("7b9ff9"),
		drawing.ColorFromHex("c0d4f5"),
		drawing.ColorFromHex("f2cbb7"),
		drawing.ColorFromHex("ee8468"),
		drawing.ColorFromHex("b40426"),
	}
)

// Magma samples n colors of the magma ramp, skipping the near-black and
// near-white ends.
func Magma(n int) []drawing.Color { return sample(magmaStops, n, 0.15, 0.9) }

// Coolwarm samples n colors of the diverging blue-red ramp.
func Coolwarm(n int) []drawing.Color { return sample(coolwarmStops, n, 0, 1) }

func sample(stops []drawing.Color, n int, lo, hi float64) []drawing.Color {
	if n <= 0 {
		return nil
	}
	out := make([]drawing.Color, n)
	for i := range out {
		t := (lo + hi) / 2
		if n > 1 {
			t = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		out[i] = lerp(stops, t)
	}
	return out
}

func lerp(stops []drawing.Color, t float64) drawing.Color {
	pos := t * float64(len(stops)-1)
	i := int(math.Floor(pos))
	if i >= len(stops)-1 {
		return stops[len(stops)-1]
	}
	if i < 0 {
		return stops[0]
	}
	f := pos - float64(i)
	a, b := stops[i], stops[i+1]
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}
