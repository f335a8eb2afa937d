package level

import (
	"testing"

	"github.com/matryer/is"
)

func TestNormalizeLetter(t *testing.T) {
	is := is.New(t)
	cases := map[string]string{
		"":        "",
		"   ":     "",
		"a":       "A",
		"abc":     "C",
		" q ":     "Q",
		"e\u0301": "\u00c9",
		"\u00e9":  "\u00c9",
		"ñ":       "Ñ",
		"Z":       "Z",
		"a\xff":   "A",
		"\xff":    "",
	}
	for in, want := range cases {
		is.Equal(NormalizeLetter(in), want) // input %q
	}
}

func TestCatalogLettersMatchTypedInput(t *testing.T) {
	is := is.New(t)
	c, err := Parse([]byte(`{"levels":[{"id":"x","title":"X","grid":[[{"clue":"1A"},{"letter":"é"},{"letter":"ñ"}]],"clues":{"1A":{"answer":"ÉÑ"}}}]}`), "json")
	is.NoErr(err)
	l, _ := c.Get("x")

	cell, _ := l.Cell(0, 1)
	is.Equal(cell.Letter, NormalizeLetter("é"))
	cell, _ = l.Cell(0, 2)
	is.Equal(cell.Letter, NormalizeLetter("ñ"))
}

func TestCatalogRejectsLettersThatCannotBeTyped(t *testing.T) {
	is := is.New(t)
	for _, bad := range []string{`"ß"`, `"ab"`, `"ÿÿ"`} {
		_, err := Parse([]byte(`{"levels":[{"id":"x","title":"X","grid":[[{"letter":`+bad+`}]],"clues":{}}]}`), "json")
		is.True(err != nil) // letter must survive normalization
	}

	_, err := New(&Level{ID: "code", Grid: [][]Cell{{{Kind: KindLetter, Letter: "ß"}}}})
	is.True(err != nil)
}
