// Package analysis is the signal synthesis and scoring core. Every
// function here is a pure, stateless transformation of already-captured
// evidence: same inputs always yield bit-identical outputs.
package analysis

import (
	"strings"

	"github.com/sasangkyoo/slap/models"
)

// maxSuspectedAPIs caps the de-duplicated suspected endpoint list.
const maxSuspectedAPIs = 10

// AnalyzeNetwork aggregates an ordered network log into a NetworkSummary.
// The order of entries affects only which duplicate URL is kept in
// SuspectedAPIs, never the counts. An empty log yields zero counts.
func AnalyzeNetwork(log []models.NetworkLogEntry) models.NetworkSummary {
	summary := models.NetworkSummary{
		TotalCaptured: len(log),
		BlockingSignals: map[string]int{
			models.Status401: 0,
			models.Status403: 0,
			models.Status429: 0,
		},
		DataTypes: map[string]int{
			models.BucketJSON:    0,
			models.BucketHTML:    0,
			models.BucketGraphQL: 0,
		},
		SuspectedAPIs: []string{},
	}

	for _, entry := range log {
		if entry.Type == models.ResourceXHR || entry.Type == models.ResourceFetch {
			summary.XHRFetchCount++
		}

		// Blocking signals: exact 401/403/429 only.
		switch entry.Status {
		case 401:
			summary.BlockingSignals[models.Status401]++
		case 403:
			summary.BlockingSignals[models.Status403]++
		case 429:
			summary.BlockingSignals[models.Status429]++
		}

		// Data-type bucketing is priority-ordered and mutually exclusive:
		// graphql wins over json, json over html; anything else is uncounted.
		ct := strings.ToLower(entry.ContentType)
		switch {
		case entry.IsGraphQL:
			summary.DataTypes[models.BucketGraphQL]++
		case strings.Contains(ct, "json"):
			summary.DataTypes[models.BucketJSON]++
		case strings.Contains(ct, "html"):
			summary.DataTypes[models.BucketHTML]++
		}
	}

	// Suspected API endpoints: first occurrence of each distinct xhr/fetch
	// URL that carries data (GraphQL-flagged or JSON content-type).
	seen := make(map[string]struct{})
	for _, entry := range log {
		if entry.Type != models.ResourceXHR && entry.Type != models.ResourceFetch {
			continue
		}
		if _, dup := seen[entry.URL]; dup {
			continue
		}
		if entry.IsGraphQL || strings.Contains(strings.ToLower(entry.ContentType), "json") {
			summary.SuspectedAPIs = append(summary.SuspectedAPIs, entry.URL)
			seen[entry.URL] = struct{}{}
		}
	}
	if len(summary.SuspectedAPIs) > maxSuspectedAPIs {
		summary.SuspectedAPIs = summary.SuspectedAPIs[:maxSuspectedAPIs]
	}

	return summary
}

// graphqlBodyPreviewLen limits POST body sniffing to the leading bytes.
const graphqlBodyPreviewLen = 200

// IsGraphQL classifies a single exchange as GraphQL traffic. URL-pattern
// matching alone misses roughly half of real GraphQL usage, so for POST
// requests the first 200 characters of the body are also sniffed for
// query/mutation keywords. Body inspection is best-effort: pass "" when
// the body is unavailable and the exchange will not be classified as
// GraphQL on that basis alone.
//
// The result depends only on the given fields, so classification is
// idempotent and order-independent across entries.
func IsGraphQL(method, url, contentType, postBody string) bool {
	if strings.Contains(strings.ToLower(url), "graphql") {
		return true
	}
	if strings.Contains(strings.ToLower(contentType), "application/graphql") {
		return true
	}
	if method != "POST" || postBody == "" {
		return false
	}

	preview := postBody
	if len(preview) > graphqlBodyPreviewLen {
		preview = preview[:graphqlBodyPreviewLen]
	}
	preview = strings.ToLower(preview)

	return strings.Contains(preview, `"query"`) ||
		strings.Contains(preview, `"mutation"`) ||
		strings.Contains(preview, `'query'`) ||
		strings.Contains(preview, `'mutation'`)
}
