package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
)

// TestWriteSummaryJSON ensures failed datasets are reported with their error
// and category figures appear only when the columns exist.
func TestWriteSummaryJSON(t *testing.T) {
	dir := t.TempDir()
	csv := "order,url,title,type_chaussure,price,note\n1,u,Baskets,Baskets,10000,4\n2,u,Sandales,Sandales,5000,3\n"
	if err := os.WriteFile(filepath.Join(dir, "shoes.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	cat := catalog.Default()
	cat.DataDir = dir
	cat.Encoding = "utf-8"
	cat.Datasets = []catalog.Entry{{Name: "Chaussures", Path: "shoes.csv"}, {Name: "Absent", Path: "missing.csv"}}
	col, err := dataset.LoadAll(context.Background(), cat, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	path := filepath.Join(dir, "summary.json")
	if err := writeSummaryJSON(path, cat, col); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(b, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	sets, ok := parsed["datasets"].([]interface{})
	if !ok || len(sets) != 2 {
		t.Fatalf("expected 2 datasets: %s", string(b))
	}
	first := sets[0].(map[string]interface{})
	if first["has_category_price"] != true {
		t.Fatalf("expected category figures for the first dataset: %v", first)
	}
	if means, _ := first["means"].([]interface{}); len(means) != 2 {
		t.Fatalf("expected 2 means: %v", first["means"])
	}
	second := sets[1].(map[string]interface{})
	if e, _ := second["error"].(string); e == "" {
		t.Fatalf("expected an error for the missing file: %v", second)
	}
}

func TestExpandHostPlaceholder(t *testing.T) {
	if got := expandHostPlaceholder("cache.db"); got != "cache.db" {
		t.Fatalf("path without placeholder changed: %s", got)
	}
	hn, err := os.Hostname()
	if err != nil || hn == "" {
		t.Skip("no hostname")
	}
	got := expandHostPlaceholder("cache_{host}.db")
	if strings.Contains(got, "{host}") {
		t.Fatalf("placeholder not expanded: %s", got)
	}
	for _, r := range strings.TrimSuffix(strings.TrimPrefix(got, "cache_"), ".db") {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			t.Fatalf("unsanitized rune %q in %s", r, got)
		}
	}
}
