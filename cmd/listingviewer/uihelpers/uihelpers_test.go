package uihelpers

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestComputeTableColumnWidthsFillsWindow(t *testing.T) {
	headers := []string{"order", "title", "price"}
	rows := [][]string{{"1", "Baskets Nike Air Max taille 38", "15 000 CFA"}}
	ws := ComputeTableColumnWidths(1200, headers, rows)
	if len(ws) != 3 {
		t.Fatalf("want 3 widths got %d", len(ws))
	}
	var total float32
	for _, w := range ws {
		total += w
	}
	if total < 1170 || total > 1180 {
		t.Fatalf("columns should fill the window, total=%.1f", total)
	}
	if !(ws[1] > ws[0] && ws[1] > ws[2]) {
		t.Fatalf("title column should be widest: %#v", ws)
	}
}

func TestComputeTableColumnWidthsClamps(t *testing.T) {
	long := strings.Repeat("x", 400)
	headers := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	rows := [][]string{{long, long, long, long, long, long, long, long, long, long}}
	for _, winW := range []float32{400, 700, 1400} {
		max := MaxColumnWidth(winW)
		for i, w := range ComputeTableColumnWidths(winW, headers, rows) {
			if w > max {
				t.Fatalf("win %.0f col %d width %.1f exceeds %.1f", winW, i, w, max)
			}
		}
	}
	ws := ComputeTableColumnWidths(1400, []string{"x"}, nil)
	if ws[0] < minColWidth {
		t.Fatalf("min width violated: %.1f", ws[0])
	}
}

func TestComputeTableColumnWidthsRaggedAndEmpty(t *testing.T) {
	if got := ComputeTableColumnWidths(800, nil, nil); len(got) != 0 {
		t.Fatalf("expected no widths, got %#v", got)
	}
	ws := ComputeTableColumnWidths(800, []string{"a", "b"}, [][]string{{"only-one"}})
	if len(ws) != 2 {
		t.Fatalf("ragged rows must not drop columns: %#v", ws)
	}
}

func TestMaxColumnWidthBreakpoints(t *testing.T) {
	if MaxColumnWidth(519) != 140 || MaxColumnWidth(520) != 220 || MaxColumnWidth(899) != 220 || MaxColumnWidth(900) != 340 {
		t.Fatalf("unexpected breakpoints")
	}
}

func TestTruncateCell(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"court", 10, "court"},
		{"Vêtements homme", 5, "Vête…"},
		{"abc", 1, "…"},
		{"abc", 0, "abc"},
	}
	for _, c := range cases {
		if got := TruncateCell(c.in, c.n); got != c.want {
			t.Fatalf("TruncateCell(%q,%d)=%q want %q", c.in, c.n, got, c.want)
		}
	}
}

func TestDimensionsText(t *testing.T) {
	if got := DimensionsText(120, 6); got != "Dimensions : 120 lignes, 6 colonnes" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncatePath(t *testing.T) {
	p := filepath.Join("very", "long", "directory", "structure", "for", "the", "data", "Vet_homme.csv")
	got := TruncatePath(p, 30)
	if !strings.HasSuffix(got, "Vet_homme.csv") || len(got) > 30 {
		t.Fatalf("unexpected truncation %q", got)
	}
	if TruncatePath("data/a.csv", 60) != "data/a.csv" {
		t.Fatalf("short paths must be kept")
	}
}

func TestTruncatePathAccentedDirs(t *testing.T) {
	p := filepath.Join("données", "écoles", "été", "vêtements", "Chaussures_enfant.csv")
	got := TruncatePath(p, 30)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 30 {
		t.Fatalf("want 30 runes, got %d in %q", n, got)
	}
	want := "donné" + string(filepath.Separator) + "...Chaussures_enfant.csv"
	if got != want {
		t.Fatalf("TruncatePath = %q want %q", got, want)
	}
	if got := TruncatePath(filepath.Join("été", "a.csv"), 30); got != filepath.Join("été", "a.csv") {
		t.Fatalf("short accented path changed: %q", got)
	}
}
