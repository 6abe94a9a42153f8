// Package textprep normalizes text before it is embedded.
package textprep

import (
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
)

func init() {
	// Numbers carry meaning in answers ("port 80", "Go 1.21").
	stopwords.DontStripDigits()
}

// Preprocess lowercases text, strips punctuation and symbols, removes English stop words
// and joins the remaining tokens with single spaces.
func Preprocess(text string) string {
	text = strings.ToLower(text)
	text = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, text)
	text = stopwords.CleanString(text, "en", false)
	return strings.Join(strings.Fields(text), " ")
}
