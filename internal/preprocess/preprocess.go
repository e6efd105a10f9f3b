// Package preprocess turns raw input text into a normalized Document.
// All downstream spans index into the text produced here, so every
// transformation happens in this package or not at all.
package preprocess

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/nmisra/clausecheck/internal/schema"
)

// hindiShare above which a document is tagged HI, and the floor above
// which it is tagged MIXED.
const (
	hindiMajority = 0.5
	hindiMinority = 0.1
)

// Prepare normalizes raw into a Document: Unicode NFC, CRLF and CR
// folded to LF, trailing whitespace stripped per line, and language
// detected from the Devanagari share of letter runes. The returned
// ok is false for input that is empty after normalization; callers
// degrade to a low-confidence empty result rather than failing.
func Prepare(raw string, hint schema.ContractType) (schema.Document, bool) {
	text := norm.NFC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	text = strings.Join(lines, "\n")

	doc := schema.Document{
		Text:     text,
		Language: detect(text),
		TypeHint: hint,
	}
	return doc, strings.TrimSpace(text) != ""
}

// detect classifies the text by the fraction of its letters in the
// Devanagari block. Non-letter runes are ignored so numbering and
// punctuation do not dilute the signal.
func detect(text string) schema.Language {
	var letters, hindi int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Devanagari, r) {
			hindi++
		}
	}
	if letters == 0 {
		return schema.LangEN
	}
	share := float64(hindi) / float64(letters)
	switch {
	case share >= hindiMajority:
		return schema.LangHI
	case share >= hindiMinority:
		return schema.LangMixed
	default:
		return schema.LangEN
	}
}
