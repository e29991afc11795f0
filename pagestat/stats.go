// Package pagestat extracts numeric statistics and structure fingerprints
// from HTML documents. The synthesis core consumes its outputs; it never
// sees markup itself.
package pagestat

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/sasangkyoo/slap/models"
)

// spaRootMatcher matches the conventional SPA mount points. Some sites use
// other ids, which is why hydration growth stays the primary CSR signal.
var spaRootMatcher = cascadia.MustCompile("#root, #app, #__next")

// Stats computes HtmlStats from the raw server-delivered document.
// A document that fails to parse degrades to size-only stats rather than
// failing the run.
func Stats(rawHTML string, sourceURL string) models.HtmlStats {
	stats := models.HtmlStats{TotalSize: len(rawHTML)}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return stats
	}

	stats.TagCount = doc.Find("*").Length()
	stats.LinkCount = doc.Find("a").Length()

	text := strings.Join(strings.Fields(doc.Text()), " ")
	stats.TextContentLength = utf8.RuneCountInString(text)
	if stats.TotalSize > 0 {
		stats.TextRatio = round4(float64(stats.TextContentLength) / float64(stats.TotalSize))
	}

	stats.HasRootDiv = doc.FindMatcher(spaRootMatcher).Length() > 0
	stats.Title = strings.TrimSpace(doc.Find("title").First().Text())
	stats.ReadableTextLength = readableTextLength(rawHTML, sourceURL)

	return stats
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
