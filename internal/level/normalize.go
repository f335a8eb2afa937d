package level

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var upper = cases.Upper(language.Und)

// NormalizeLetter reduces raw input to the single uppercase character that
// is stored as a guess: invalid bytes dropped, NFC-composed, surrounding
// space trimmed, uppercased, and only the last character kept. Empty input
// yields "".
func NormalizeLetter(text string) string {
	text = strings.TrimSpace(norm.NFC.String(strings.ToValidUTF8(text, "")))
	if text == "" {
		return ""
	}
	r, _ := utf8.DecodeLastRuneInString(upper.String(text))
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// canonicalLetter returns the stored form of a catalog letter. The letter
// must be one character that uppercases to exactly one character, so that
// typing it back through NormalizeLetter can match.
func canonicalLetter(s string) (string, error) {
	composed := norm.NFC.String(strings.TrimSpace(s))
	if utf8.RuneCountInString(composed) != 1 || !utf8.ValidString(composed) {
		return "", fmt.Errorf("letter %q must be a single character", s)
	}
	up := upper.String(composed)
	if n := NormalizeLetter(composed); n == "" || n != up {
		return "", fmt.Errorf("letter %q uppercases to %q, not a single character", s, up)
	}
	return up, nil
}
