package pagestat

import (
	"net/url"
	"strings"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
)

// readableTextLength runs readability extraction and measures the main
// content's text length. Best-effort: any failure means 0, never an error,
// since this feeds a supplemental metric only.
func readableTextLength(rawHTML string, sourceURL string) int {
	u, err := url.Parse(sourceURL)
	if err != nil {
		u = nil
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return 0
	}

	return utf8.RuneCountInString(strings.TrimSpace(article.TextContent))
}
