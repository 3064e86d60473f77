package main

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Shared color printers.
var (
	colorRed    = color.New(color.FgRed)
	colorYellow = color.New(color.FgYellow)
	colorGreen  = color.New(color.FgGreen)
	colorBold   = color.New(color.Bold)
)

// colorStatus colors the load status of a dataset.
func colorStatus(val string) string {
	switch val {
	case "OK":
		return colorGreen.Sprint(val)
	case "ERROR":
		return colorRed.Sprint(val)
	case "EMPTY":
		return colorYellow.Sprint(val)
	default:
		return val
	}
}

// newTable returns a borderless table with headers kept as written.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(headers)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetBorders(tablewriter.Border{Left: false, Right: false, Top: false, Bottom: false})
	t.SetCenterSeparator(" ")
	t.SetColumnSeparator(" ")
	t.SetRowSeparator("-")
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// numericColumns left-aligns the first column and right-aligns the n-1 others.
func numericColumns(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = tablewriter.ALIGN_RIGHT
	}
	if n > 0 {
		out[0] = tablewriter.ALIGN_LEFT
	}
	return out
}

// truncate keeps table cells on one line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

// formatPrice prints a FCFA amount with a space as thousands separator.
func formatPrice(v float64) string {
	digits := strconv.FormatFloat(v, 'f', 0, 64)
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
