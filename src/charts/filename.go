package charts

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FileName builds the PNG name of a chart, e.g. "vetements_homme_box.png".
func FileName(dataset string, kind Kind) string {
	return Slug(dataset) + "_" + string(kind) + ".png"
}

// Slug lowercases s, strips accents and joins the remaining words with '_'.
func Slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	words := strings.FieldsFunc(strings.ToLower(plain), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "dataset"
	}
	return strings.Join(words, "_")
}
