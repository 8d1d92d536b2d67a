package html

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxSnippetChars bounds the text handed to a summarizer prompt.
const MaxSnippetChars = 8000

// PlainText strips markup from an HTML fragment, collapses whitespace and
// truncates the result to maxChars runes. A non-positive maxChars disables
// truncation. Feed descriptions are often plain text, which passes through
// with only whitespace normalized.
func PlainText(fragment string, maxChars int) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return Truncate(CollapseSpace(fragment), maxChars)
	}

	doc.Find("script, style, noscript").Remove()

	return Truncate(CollapseSpace(doc.Text()), maxChars)
}

func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts text to at most maxChars runes.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
