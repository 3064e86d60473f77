// Package catalog describes which CSV files the dashboards offer and how to read them.
//
// A catalog is either the built-in CoinAfrique list or a YAML file:
//
//	title: MY DATA APP
//	data_dir: ./data
//	encoding: ISO-8859-1
//	category_column: type_chaussure
//	price_column: price
//	datasets:
//	  - name: Chaussures Enfant
//	    path: Chauss_enfant.csv
//
// Keys missing from the YAML keep their default values. The order of
// `datasets` is the order of the dataset selector.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no -config is given.
const DefaultFileName = "catalog.yaml"

// Entry is one selectable dataset.
type Entry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Catalog is the dashboard configuration.
type Catalog struct {
	Title          string  `yaml:"title"`
	Description    string  `yaml:"description"`
	DataDir        string  `yaml:"data_dir"`
	Encoding       string  `yaml:"encoding"`
	CategoryColumn string  `yaml:"category_column"`
	PriceColumn    string  `yaml:"price_column"`
	Datasets       []Entry `yaml:"datasets"`
}

const defaultDescription = `This app allows you to analyze data from a single CSV file.
* **Go libraries:** gota, go-chart, fyne
* **Data source:** [CoinAfrique](https://sn.coinafrique.com/)`

// Default returns the four CoinAfrique listing files with relative paths under ./data.
func Default() *Catalog {
	return &Catalog{
		Title:          "MY DATA APP",
		Description:    defaultDescription,
		DataDir:        "data",
		Encoding:       "ISO-8859-1",
		CategoryColumn: "type_chaussure",
		PriceColumn:    "price",
		Datasets: []Entry{
			{Name: "Chaussures Enfant", Path: "Chauss_enfant.csv"},
			{Name: "Chaussures Homme", Path: "chaussure_homme.csv"},
			{Name: "Vêtements Enfant", Path: "vetement_enfant.csv"},
			{Name: "Vêtements Homme", Path: "Vet_homme.csv"},
		},
	}
}

// Load reads a YAML catalog. A missing file yields the defaults and a nil error.
// Relative data_dir values are taken relative to the catalog file.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if c.DataDir != "" && !filepath.IsAbs(c.DataDir) {
		c.DataDir = filepath.Join(filepath.Dir(path), c.DataDir)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Write marshals the catalog to YAML.
func Write(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks dataset names/paths and the encoding.
func (c *Catalog) Validate() error {
	if len(c.Datasets) == 0 {
		return errors.New("no datasets configured")
	}
	seen := make(map[string]bool, len(c.Datasets))
	for i, e := range c.Datasets {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return fmt.Errorf("dataset #%d: empty name", i+1)
		}
		if strings.TrimSpace(e.Path) == "" {
			return fmt.Errorf("dataset %q: empty path", name)
		}
		if seen[name] {
			return fmt.Errorf("dataset %q: duplicate name", name)
		}
		seen[name] = true
	}
	if _, err := LookupEncoding(c.Encoding); err != nil {
		return err
	}
	return nil
}

// Names returns dataset names in selector order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.Datasets))
	for i, e := range c.Datasets {
		out[i] = e.Name
	}
	return out
}

// Find returns the entry with the given name.
func (c *Catalog) Find(name string) (Entry, bool) {
	for _, e := range c.Datasets {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Resolve joins the entry path with DataDir unless the entry path is absolute.
func (c *Catalog) Resolve(e Entry) string {
	if filepath.IsAbs(e.Path) || c.DataDir == "" {
		return e.Path
	}
	return filepath.Join(c.DataDir, e.Path)
}
