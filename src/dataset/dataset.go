// Package dataset loads the listing CSV files into gota data frames.
//
// Loading never aborts on a bad file: the failure is kept on the Dataset
// (Err) next to an empty frame and logged as a warning, so the dashboards can
// still offer the remaining files.
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding"

	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
	"github.com/iafilius/CoinAfriqueViewer/src/logging"
)

// naValues are the cells treated as missing when building the frame.
var naValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "<nil>"}

// Dataset is one loaded CSV file.
type Dataset struct {
	Name      string
	Path      string
	Frame     dataframe.DataFrame
	Err       error
	LoadedAt  time.Time
	FromCache bool

	// rows holds the decoded records (header excluded) for display.
	rows [][]string
}

// RecordCache memoises decoded CSV records. A nil RecordCache disables caching.
type RecordCache interface {
	Get(key string) ([][]string, bool)
	Put(key string, records [][]string) error
}

// Failed reports whether the file could not be loaded.
func (d *Dataset) Failed() bool { return d == nil || d.Err != nil }

// Shape returns rows, columns. Failed datasets are 0x0.
func (d *Dataset) Shape() (int, int) {
	if d.Failed() || d.Frame.Err != nil {
		return 0, 0
	}
	return d.Frame.Dims()
}

// Columns returns the (repaired) column names.
func (d *Dataset) Columns() []string {
	if d.Failed() || d.Frame.Err != nil {
		return nil
	}
	return d.Frame.Names()
}

// Column returns the name of column i, or "" when out of range.
func (d *Dataset) Column(i int) string {
	cols := d.Columns()
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}

// HasColumns reports whether every name is a column of the dataset.
func (d *Dataset) HasColumns(names ...string) bool {
	cols := d.Columns()
	for _, n := range names {
		found := false
		for _, c := range cols {
			if c == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Rows returns up to limit data rows as read from the file (limit <= 0 means all).
func (d *Dataset) Rows(limit int) [][]string {
	if d.Failed() {
		return nil
	}
	if limit <= 0 || limit > len(d.rows) {
		return d.rows
	}
	return d.rows[:limit]
}

// Cell returns the raw value at row r, column c ("" when out of range).
func (d *Dataset) Cell(r, c int) string {
	if d.Failed() || r < 0 || r >= len(d.rows) || c < 0 || c >= len(d.rows[r]) {
		return ""
	}
	return d.rows[r][c]
}

// NumericColumn returns the column as floats, NaN for missing, infinite or
// unparsable cells. Text columns go through ParsePrice so "15 000 CFA" counts as 15000.
func (d *Dataset) NumericColumn(name string) ([]float64, bool) {
	if d.Failed() {
		return nil, false
	}
	s := d.Frame.Col(name)
	if s.Err != nil {
		return nil, false
	}
	switch s.Type() {
	case series.Int, series.Float:
		out := s.Float()
		for i := 0; i < s.Len(); i++ {
			// gota reads "inf" cells as floats; they cannot be plotted or encoded
			if s.Elem(i).IsNA() || math.IsInf(out[i], 0) {
				out[i] = math.NaN()
			}
		}
		return out, true
	}
	out := make([]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() {
			out[i] = math.NaN()
			continue
		}
		out[i] = ParsePrice(el.String())
	}
	return out, true
}

// StringColumn returns the column as strings with missing cells as "".
func (d *Dataset) StringColumn(name string) ([]string, bool) {
	if d.Failed() {
		return nil, false
	}
	s := d.Frame.Col(name)
	if s.Err != nil {
		return nil, false
	}
	out := make([]string, s.Len())
	idx := d.colIndex(name)
	for i := 0; i < s.Len(); i++ {
		if s.Elem(i).IsNA() {
			continue
		}
		// keep the file's spelling (gota would render 3 as "3.000000" in float columns)
		if idx >= 0 && i < len(d.rows) && idx < len(d.rows[i]) {
			out[i] = strings.TrimSpace(d.rows[i][idx])
		} else {
			out[i] = s.Elem(i).String()
		}
	}
	return out, true
}

func (d *Dataset) colIndex(name string) int {
	for i, c := range d.Columns() {
		if c == name {
			return i
		}
	}
	return -1
}

// Load reads and decodes one CSV file. Errors are returned on the Dataset.
func Load(name, path string, enc encoding.Encoding) *Dataset {
	return load(name, path, "", enc, nil)
}

func load(name, path, encName string, enc encoding.Encoding, cache RecordCache) *Dataset {
	start := time.Now()
	defer logging.TimeTrack(start, "load "+name)
	ds := &Dataset{Name: name, Path: path, LoadedAt: start}

	key := ""
	if cache != nil {
		if k, err := cacheKey(path, encName); err == nil {
			key = k
			if recs, ok := cache.Get(key); ok {
				ds.FromCache = true
				ds.build(recs)
				return ds
			}
		}
	}

	recs, err := readRecords(path, enc)
	if err != nil {
		ds.Err = err
		ds.Frame = dataframe.DataFrame{Err: err}
		logging.Warnf("Erreur lors du chargement du fichier %s: %v", name, err)
		return ds
	}
	if key != "" {
		if err := cache.Put(key, recs); err != nil {
			logging.Debugf("cache put %s: %v", name, err)
		}
	}
	ds.build(recs)
	return ds
}

func (d *Dataset) build(recs [][]string) {
	d.Frame = buildFrame(recs)
	if d.Frame.Err != nil {
		d.Err = d.Frame.Err
		logging.Warnf("Erreur lors du chargement du fichier %s: %v", d.Name, d.Err)
		return
	}
	if len(recs) > 1 {
		d.rows = recs[1:]
	}
}

// readRecords decodes the file and splits it into rectangular records,
// header first. Short rows are padded, long rows truncated to the header width.
func readRecords(path string, enc encoding.Encoding) ([][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		raw, err = enc.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(raw))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	var recs [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("parse %s: no header", filepath.Base(path))
	}
	width := len(recs[0])
	for i := range recs[0] {
		recs[0][i] = strings.TrimSpace(recs[0][i])
	}
	for i := 1; i < len(recs); i++ {
		switch {
		case len(recs[i]) < width:
			recs[i] = append(recs[i], make([]string, width-len(recs[i]))...)
		case len(recs[i]) > width:
			recs[i] = recs[i][:width]
		}
	}
	return recs, nil
}

func buildFrame(recs [][]string) dataframe.DataFrame {
	if len(recs) == 0 {
		return dataframe.DataFrame{Err: errors.New("empty file")}
	}
	if len(recs) == 1 {
		cols := make([]series.Series, len(recs[0]))
		for i, h := range recs[0] {
			cols[i] = series.New([]string{}, series.String, h)
		}
		return dataframe.New(cols...)
	}
	return dataframe.LoadRecords(recs,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(naValues),
	)
}

func cacheKey(path, encName string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%d|%d|%s", abs, fi.Size(), fi.ModTime().UnixNano(), strings.ToLower(encName)), nil
}

// Collection is the ordered set of datasets behind a selector.
type Collection struct {
	items []*Dataset
	byKey map[string]*Dataset
}

// NewCollection keeps the given order.
func NewCollection(items ...*Dataset) *Collection {
	c := &Collection{byKey: make(map[string]*Dataset, len(items))}
	for _, d := range items {
		c.items = append(c.items, d)
		c.byKey[d.Name] = d
	}
	return c
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// All returns datasets in catalog order.
func (c *Collection) All() []*Dataset {
	if c == nil {
		return nil
	}
	return c.items
}

// Names returns dataset names in catalog order.
func (c *Collection) Names() []string {
	out := make([]string, 0, c.Len())
	for _, d := range c.All() {
		out = append(out, d.Name)
	}
	return out
}

// Get looks a dataset up by name.
func (c *Collection) Get(name string) (*Dataset, bool) {
	if c == nil {
		return nil, false
	}
	d, ok := c.byKey[name]
	return d, ok
}

// Failed returns the datasets that could not be loaded.
func (c *Collection) Failed() []*Dataset {
	var out []*Dataset
	for _, d := range c.All() {
		if d.Failed() {
			out = append(out, d)
		}
	}
	return out
}

// LoadAll loads every catalog entry in order. Per-file failures end up on the
// datasets; only context cancellation or a bad encoding fail the call.
func LoadAll(ctx context.Context, cat *catalog.Catalog, cache RecordCache) (*Collection, error) {
	enc, err := catalog.LookupEncoding(cat.Encoding)
	if err != nil {
		return nil, err
	}
	defer logging.TimeTrack(time.Now(), "load all datasets")
	items := make([]*Dataset, 0, len(cat.Datasets))
	for _, e := range cat.Datasets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items = append(items, load(e.Name, cat.Resolve(e), cat.Encoding, enc, cache))
	}
	col := NewCollection(items...)
	logging.Infof("loaded %d datasets (%d failed)", col.Len(), len(col.Failed()))
	return col, nil
}
