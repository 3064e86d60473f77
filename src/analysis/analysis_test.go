package analysis

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/CoinAfriqueViewer/src/dataset"
)

func loadCSV(t *testing.T, content string) *dataset.Dataset {
	t.Helper()
	p := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	ds := dataset.Load("test", p, nil)
	require.NoError(t, ds.Err)
	return ds
}

const listings = `order,url,title,type_chaussure,price,note
1,u1,a,Baskets,10000,4
2,u2,b,Baskets,20000,5
3,u3,c,Sandales,5000,3
4,u4,d,Sandales,7000,
5,u5,e,,9000,2
6,u6,f,Baskets,Prix sur demande,1
7,u7,g,Mocassins,12 000 CFA,4
`

func TestScatterUsesFifthAndSixthColumns(t *testing.T) {
	ds := loadCSV(t, listings)
	s, ok := ScatterPoints(ds)
	require.True(t, ok)
	assert.Equal(t, "price", s.XName)
	assert.Equal(t, "note", s.YName)
	// row 4 has no note, row 6 has no numeric price
	assert.Equal(t, 5, s.Points())
	assert.Equal(t, 2, s.Dropped)
	assert.Equal(t, []float64{10000, 20000, 5000, 9000, 12000}, s.X)
	assert.Equal(t, []float64{4, 5, 3, 2, 4}, s.Y)
}

func TestScatterTextColumnIsCategorical(t *testing.T) {
	ds := loadCSV(t, `order,url,title,type_chaussure,price,adresse,image_lien
1,u1,a,Baskets,15 000 CFA,Dakar,i1
2,u2,b,Sandales,5000,Thiès,i2
3,u3,c,Baskets,25000,Dakar,i3
4,u4,d,Mocassins,Prix sur demande,Mbour,i4
5,u5,e,Baskets,8000,,i5
`)
	s, ok := ScatterPoints(ds)
	require.True(t, ok)
	assert.Equal(t, "price", s.XName)
	assert.Equal(t, "adresse", s.YName)
	assert.Nil(t, s.XLabels)
	assert.Equal(t, []string{"Dakar", "Thiès", "Mbour"}, s.YLabels)
	// row 4 has no numeric price, row 5 no address
	assert.Equal(t, 3, s.Points())
	assert.Equal(t, 2, s.Dropped)
	assert.Equal(t, []float64{15000, 5000, 25000}, s.X)
	assert.Equal(t, []float64{1, 2, 1}, s.Y)
}

func TestScatterNeedsSixColumns(t *testing.T) {
	ds := loadCSV(t, "a,b,c,d,e\n1,2,3,4,5\n")
	_, ok := ScatterPoints(ds)
	assert.False(t, ok)
}

func TestMeanByCategory(t *testing.T) {
	ds := loadCSV(t, listings)
	means, err := MeanByCategory(ds, "type_chaussure", "price")
	require.NoError(t, err)
	require.Len(t, means, 3)
	assert.Equal(t, GroupMean{Category: "Baskets", Mean: 15000, N: 2}, means[0])
	assert.Equal(t, GroupMean{Category: "Mocassins", Mean: 12000, N: 1}, means[1])
	assert.Equal(t, GroupMean{Category: "Sandales", Mean: 6000, N: 2}, means[2])
}

func TestMeanByCategoryMissingColumns(t *testing.T) {
	ds := loadCSV(t, "titre,prix\nx,1\n")
	_, err := MeanByCategory(ds, "type_chaussure", "price")
	assert.Error(t, err)
	_, err = BoxByCategory(ds, "type_chaussure", "price")
	assert.Error(t, err)
}

func TestMeanByCategoryNoNumericValues(t *testing.T) {
	ds := loadCSV(t, "type_chaussure,price\nBaskets,sur demande\n")
	means, err := MeanByCategory(ds, "type_chaussure", "price")
	require.NoError(t, err)
	assert.Empty(t, means)
}

func TestBoxByCategorySorted(t *testing.T) {
	ds := loadCSV(t, listings)
	boxes, err := BoxByCategory(ds, "type_chaussure", "price")
	require.NoError(t, err)
	require.Len(t, boxes, 3)
	assert.Equal(t, "Baskets", boxes[0].Category)
	assert.Equal(t, 2, boxes[0].N)
	assert.Equal(t, 12500.0, boxes[0].Q1)
	assert.Equal(t, 15000.0, boxes[0].Median)
	assert.Equal(t, 17500.0, boxes[0].Q3)
	assert.Equal(t, "Sandales", boxes[2].Category)
}

func TestBoxWhiskersAndOutliers(t *testing.T) {
	b := Box("x", []float64{1, 2, 3, 4, 5, 6, 7, 8, 100, math.NaN()})
	assert.Equal(t, 9, b.N)
	assert.Equal(t, 3.0, b.Q1)
	assert.Equal(t, 5.0, b.Median)
	assert.Equal(t, 7.0, b.Q3)
	assert.Equal(t, 1.0, b.LowerWhisker)
	assert.Equal(t, 8.0, b.UpperWhisker)
	assert.Equal(t, []float64{100}, b.Outliers)
}

func TestBoxEmpty(t *testing.T) {
	b := Box("x", nil)
	assert.Zero(t, b.N)
	assert.True(t, math.IsNaN(b.Median))
}

func TestQuantile(t *testing.T) {
	vs := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, Quantile(vs, 0.25))
	assert.Equal(t, 2.5, Quantile(vs, 0.5))
	assert.Equal(t, 3.25, Quantile(vs, 0.75))
	assert.Equal(t, 1.0, Quantile(vs, 0))
	assert.Equal(t, 4.0, Quantile(vs, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestSummarize(t *testing.T) {
	ds := loadCSV(t, listings)
	s := Summarize(ds, "type_chaussure", "price")
	assert.Equal(t, 7, s.Rows)
	assert.Equal(t, 6, s.Cols)
	assert.True(t, s.HasCategory)
	assert.Empty(t, s.Warning)
	require.NotNil(t, s.Scatter)
	assert.Equal(t, 6, s.PriceCount)
	assert.Equal(t, 5000.0, s.PriceMin)
	assert.Equal(t, 20000.0, s.PriceMax)
	assert.Len(t, s.Means, 3)
	assert.Len(t, s.Boxes, 3)
}

func TestSummarizeWarnsWithoutCategory(t *testing.T) {
	ds := loadCSV(t, "titre,prix\nx,1\n")
	s := Summarize(ds, "type_chaussure", "price")
	assert.False(t, s.HasCategory)
	assert.Nil(t, s.Scatter)
	assert.True(t, strings.Contains(s.Warning, "'type_chaussure' et 'price'"))
}

func TestSummarizeWarnsWhenHeadersWereRepaired(t *testing.T) {
	ds := loadCSV(t, "a,,type_chaussure,price,price,x\n1,2,Baskets,10000,12000,y\n")
	s := Summarize(ds, "type_chaussure", "price")
	assert.False(t, s.HasCategory)
	assert.Equal(t, MissingColumnsWarning("type_chaussure", "price"), s.Warning)
	assert.Empty(t, s.Means)
	_, err := BoxByCategory(ds, "type_chaussure", "price")
	assert.Error(t, err)
}

func TestSummarizeEncodesWithInfinitePrices(t *testing.T) {
	ds := loadCSV(t, "order,url,title,type_chaussure,price,note\n1,u,a,Baskets,10000,4\n2,u,b,Baskets,inf,5\n")
	s := Summarize(ds, "type_chaussure", "price")
	assert.Equal(t, 1, s.PriceCount)
	assert.Equal(t, 10000.0, s.PriceMax)
	_, err := json.Marshal(s)
	assert.NoError(t, err)
}
