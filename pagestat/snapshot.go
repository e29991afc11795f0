package pagestat

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/sasangkyoo/slap/models"
)

// Snapshot computes DomSnapshotMetrics from a markup string. scrollHeight
// is measured separately by the capturer (0 when not measurable, e.g. for
// the raw server baseline). A single tokenizer pass yields the node count,
// text length and the tag sequence for the structure fingerprint.
func Snapshot(rawHTML string, scrollHeight int) models.DomSnapshotMetrics {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))

	var tags []string
	var textLen int

loop:
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			break loop
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tags = append(tags, string(name))
		case html.TextToken:
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text != "" {
				if textLen > 0 {
					textLen++ // separator between text chunks
				}
				textLen += utf8.RuneCountInString(text)
			}
		}
	}

	return models.DomSnapshotMetrics{
		NodeCount:    len(tags),
		TextLength:   textLen,
		ScrollHeight: scrollHeight,
		Fingerprint:  StructureFingerprint(tags),
		HTML:         rawHTML,
	}
}
