package main

import (
	"image"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"
	"sort"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
)

const shoesCSV = "order,url,title,type_chaussure,price,note\n" +
	"1,u1,Baskets été,Baskets,10000,4\n" +
	"2,u2,Baskets,Baskets,20 000 CFA,5\n" +
	"3,u3,Sandales,Sandales,5000,3\n" +
	"4,u4,Sandales,Sandales,7000,2\n"

const clothesCSV = "titre,prix,ville\nChemise,3000,Dakar\n"

// writeLatin1 writes s encoded as ISO-8859-1, like the CoinAfrique exports.
func writeLatin1(t *testing.T, dir, name, s string) {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(b), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	dir := t.TempDir()
	writeLatin1(t, dir, "shoes.csv", shoesCSV)
	writeLatin1(t, dir, "clothes.csv", clothesCSV)
	cat := catalog.Default()
	cat.DataDir = dir
	cat.Datasets = []catalog.Entry{
		{Name: "Chaussures Homme", Path: "shoes.csv"},
		{Name: "Vêtements Homme", Path: "clothes.csv"},
		{Name: "Absent", Path: "missing.csv"},
	}
	return cat
}

func TestScreenshots_WritesAvailableCharts(t *testing.T) {
	screenshotWidthOverride = 1400
	defer func() { screenshotWidthOverride = 0 }()

	outDir := t.TempDir()
	if err := RunScreenshotsMode(testCatalog(t), nil, outDir); err != nil {
		t.Fatalf("RunScreenshotsMode: %v", err)
	}
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	want := []string{"chaussures_homme_bar.png", "chaussures_homme_box.png", "chaussures_homme_scatter.png"}
	if len(names) != len(want) {
		t.Fatalf("got files %v want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got files %v want %v", names, want)
		}
	}

	expectedW, _ := chartSize(nil)
	for _, n := range names {
		f, err := os.Open(filepath.Join(outDir, n))
		if err != nil {
			t.Fatalf("open %s: %v", n, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", n, err)
		}
		if w := img.Bounds().Dx(); w != expectedW {
			t.Fatalf("image width mismatch for %s: got %d, want %d", n, w, expectedW)
		}
	}
}

// TestScreenshots_ClampsSmallWidth guards the minimum chart width when headless.
func TestScreenshots_ClampsSmallWidth(t *testing.T) {
	screenshotWidthOverride = 480
	defer func() { screenshotWidthOverride = 0 }()

	w, h := chartSize(nil)
	if w != 800 || h != 280 {
		t.Fatalf("chartSize clamp: got %dx%d", w, h)
	}
	if err := RunScreenshotsMode(testCatalog(t), nil, t.TempDir()); err != nil {
		t.Fatalf("RunScreenshotsMode: %v", err)
	}
}

func TestScreenshots_BadEncodingFails(t *testing.T) {
	cat := testCatalog(t)
	cat.Encoding = "klingon"
	if err := RunScreenshotsMode(cat, nil, t.TempDir()); err == nil {
		t.Fatalf("expected an error for an unknown encoding")
	}
}
