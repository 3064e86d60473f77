package dataset

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/iafilius/CoinAfriqueViewer/src/catalog"
)

// latin1 encodes s as ISO-8859-1 the way the CoinAfrique exports are written.
func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

const shoesCSV = `web-scraper-order,web-scraper-start-url,title,type_chaussure,price,adresse,image_lien
1,https://sn.coinafrique.com/a,Baskets,Baskets,15 000 CFA,Dakar,img1
2,https://sn.coinafrique.com/b,Sandales été,Sandales,5000,Thiès,img2
3,https://sn.coinafrique.com/c,Baskets Nike,Baskets,25000,Dakar,img3
4,https://sn.coinafrique.com/d,Mocassins,,Prix sur demande,Mbour,img4
`

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestLoadLatin1(t *testing.T) {
	p := writeFile(t, t.TempDir(), "shoes.csv", latin1(t, shoesCSV))
	ds := Load("Chaussures", p, charmap.ISO8859_1)
	require.NoError(t, ds.Err)

	rows, cols := ds.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 7, cols)
	assert.Equal(t, "price", ds.Column(4))
	assert.Equal(t, "adresse", ds.Column(5))
	assert.True(t, ds.HasColumns("type_chaussure", "price"))
	assert.False(t, ds.HasColumns("type_chaussure", "prix"))
	assert.Equal(t, "Sandales été", ds.Cell(1, 2))
	assert.Equal(t, "Thiès", ds.Cell(1, 5))
	assert.Len(t, ds.Rows(2), 2)
	assert.Len(t, ds.Rows(0), 4)
}

func TestNumericAndStringColumns(t *testing.T) {
	p := writeFile(t, t.TempDir(), "shoes.csv", latin1(t, shoesCSV))
	ds := Load("Chaussures", p, charmap.ISO8859_1)
	require.NoError(t, ds.Err)

	prices, ok := ds.NumericColumn("price")
	require.True(t, ok)
	require.Len(t, prices, 4)
	assert.Equal(t, 15000.0, prices[0])
	assert.Equal(t, 5000.0, prices[1])
	assert.Equal(t, 25000.0, prices[2])
	assert.True(t, math.IsNaN(prices[3]))

	cats, ok := ds.StringColumn("type_chaussure")
	require.True(t, ok)
	assert.Equal(t, []string{"Baskets", "Sandales", "Baskets", ""}, cats)

	orders, ok := ds.NumericColumn("web-scraper-order")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3, 4}, orders)

	_, ok = ds.NumericColumn("missing")
	assert.False(t, ok)
}

func TestLoadMissingFileKeepsEmptyDataset(t *testing.T) {
	ds := Load("Absent", filepath.Join(t.TempDir(), "absent.csv"), charmap.ISO8859_1)
	require.Error(t, ds.Err)
	assert.True(t, ds.Failed())
	r, c := ds.Shape()
	assert.Zero(t, r)
	assert.Zero(t, c)
	assert.Nil(t, ds.Columns())
	assert.Nil(t, ds.Rows(10))
}

func TestHeaderOnlyIsEmptyNotError(t *testing.T) {
	p := writeFile(t, t.TempDir(), "empty.csv", []byte("a,b,c\n"))
	ds := Load("Empty", p, nil)
	require.NoError(t, ds.Err)
	r, c := ds.Shape()
	assert.Equal(t, 0, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []string{"a", "b", "c"}, ds.Columns())
}

func TestRaggedRowsArePadded(t *testing.T) {
	p := writeFile(t, t.TempDir(), "ragged.csv", []byte("a,b,c\n1,2\n3,4,5,6\n"))
	ds := Load("Ragged", p, nil)
	require.NoError(t, ds.Err)
	r, c := ds.Shape()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, "", ds.Cell(0, 2))
	assert.Equal(t, "5", ds.Cell(1, 2))
}

func TestUTF8BOMStripped(t *testing.T) {
	p := writeFile(t, t.TempDir(), "bom.csv", []byte("\xef\xbb\xbfname,price\nx,1\n"))
	enc, err := catalog.LookupEncoding("utf-8")
	require.NoError(t, err)
	ds := Load("Bom", p, enc)
	require.NoError(t, ds.Err)
	assert.Equal(t, "name", ds.Column(0))
}

func TestDuplicateAndEmptyHeadersAreRepaired(t *testing.T) {
	p := writeFile(t, t.TempDir(), "dup.csv", []byte("a,,type_chaussure,price,price,x\n1,2,Baskets,10000,12000,y\n"))
	ds := Load("Dup", p, nil)
	require.NoError(t, ds.Err)
	assert.Equal(t, []string{"a", "X0", "type_chaussure", "price_0", "price_1", "x"}, ds.Columns())
	// the price column no longer exists under its own name
	assert.False(t, ds.HasColumns("type_chaussure", "price"))
	assert.True(t, ds.HasColumns("type_chaussure", "price_0"))
	_, ok := ds.NumericColumn("price")
	assert.False(t, ok)
}

func TestNumericColumnInfinityIsNaN(t *testing.T) {
	p := writeFile(t, t.TempDir(), "inf.csv", []byte("name,price\na,10000\nb,inf\nc,-Inf\nd,5000\n"))
	ds := Load("Inf", p, nil)
	require.NoError(t, ds.Err)
	vs, ok := ds.NumericColumn("price")
	require.True(t, ok)
	require.Len(t, vs, 4)
	assert.Equal(t, 10000.0, vs[0])
	assert.True(t, math.IsNaN(vs[1]))
	assert.True(t, math.IsNaN(vs[2]))
	assert.Equal(t, 5000.0, vs[3])
}

type memCache struct {
	data map[string][][]string
	gets int
	hits int
}

func (m *memCache) Get(key string) ([][]string, bool) {
	m.gets++
	r, ok := m.data[key]
	if ok {
		m.hits++
	}
	return r, ok
}

func (m *memCache) Put(key string, recs [][]string) error {
	m.data[key] = recs
	return nil
}

func TestLoadAllOrderFailuresAndCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Chauss_enfant.csv", latin1(t, shoesCSV))
	writeFile(t, dir, "Vet_homme.csv", latin1(t, "titre,prix\nChemise,3000\n"))

	cat := catalog.Default()
	cat.DataDir = dir
	cache := &memCache{data: map[string][][]string{}}

	col, err := LoadAll(context.Background(), cat, cache)
	require.NoError(t, err)
	assert.Equal(t, cat.Names(), col.Names())
	assert.Len(t, col.Failed(), 2)

	ok, found := col.Get("Chaussures Enfant")
	require.True(t, found)
	assert.False(t, ok.Failed())
	assert.False(t, ok.FromCache)

	again, err := LoadAll(context.Background(), cat, cache)
	require.NoError(t, err)
	d, _ := again.Get("Chaussures Enfant")
	assert.True(t, d.FromCache)
	rows, cols := d.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 7, cols)
	assert.Equal(t, 2, cache.hits)
}

func TestLoadAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadAll(ctx, catalog.Default(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadAllBadEncoding(t *testing.T) {
	cat := catalog.Default()
	cat.Encoding = "klingon"
	_, err := LoadAll(context.Background(), cat, nil)
	assert.Error(t, err)
}
