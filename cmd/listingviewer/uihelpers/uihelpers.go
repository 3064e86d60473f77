package uihelpers

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"
)

const (
	compactBreakpoint      = 900
	ultraCompactBreakpoint = 520

	charWidth   = 7.5 // approx width of one glyph of the default theme text size
	cellPadding = 16
	minColWidth = 48
	sampleRows  = 50
)

// MaxColumnWidth caps a column for the given window width so that one long
// title column cannot push the others off screen.
func MaxColumnWidth(winW float32) float32 {
	switch {
	case winW < ultraCompactBreakpoint:
		return 140
	case winW < compactBreakpoint:
		return 220
	default:
		return 340
	}
}

// ComputeTableColumnWidths sizes each column from its header and the first
// rows of data, clamped by MaxColumnWidth. When the columns are narrower than
// the window they are widened proportionally to fill it.
func ComputeTableColumnWidths(winW float32, headers []string, rows [][]string) []float32 {
	out := make([]float32, len(headers))
	if len(headers) == 0 {
		return out
	}
	maxW := MaxColumnWidth(winW)
	var total float32
	for c, h := range headers {
		n := utf8.RuneCountInString(h)
		for r := 0; r < len(rows) && r < sampleRows; r++ {
			if c < len(rows[r]) {
				if l := utf8.RuneCountInString(rows[r][c]); l > n {
					n = l
				}
			}
		}
		w := float32(n)*charWidth + cellPadding
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxW {
			w = maxW
		}
		out[c] = w
		total += w
	}
	// leave room for the scrollbar
	avail := winW - 24
	if total > 0 && total < avail {
		f := avail / total
		for i := range out {
			out[i] *= f
		}
	}
	return out
}

// TruncateCell shortens s to n runes, ending with an ellipsis.
func TruncateCell(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// DimensionsText renders the shape line shown under the dataset title.
func DimensionsText(rows, cols int) string {
	return fmt.Sprintf("Dimensions : %d lignes, %d colonnes", rows, cols)
}

// TruncatePath keeps the file name visible when shortening a long path to
// n runes.
func TruncatePath(p string, n int) string {
	if utf8.RuneCountInString(p) <= n {
		return p
	}
	base := []rune(filepath.Base(p))
	if len(base)+4 >= n {
		return "..." + string(base)
	}
	dir := []rune(filepath.Dir(p))
	if left := n - len(base) - 4; len(dir) > left {
		dir = dir[:left]
	}
	return string(dir) + string(filepath.Separator) + "..." + string(base)
}
