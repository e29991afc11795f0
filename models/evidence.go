package models

import "time"

// Resource types captured by the network recorder. Asset requests
// (images, fonts, stylesheets) are filtered out at capture time.
const (
	ResourceXHR         = "xhr"
	ResourceFetch       = "fetch"
	ResourceWebSocket   = "websocket"
	ResourceEventSource = "eventsource"
	ResourceDocument    = "document"
)

// HtmlStats describes the raw server-delivered HTML document.
// Computed once per run from the t0 markup and immutable thereafter.
type HtmlStats struct {
	// TotalSize is the document size in bytes.
	TotalSize int `json:"total_size"`

	// TagCount is the number of HTML elements in the document.
	TagCount int `json:"tag_count"`

	// LinkCount is the number of <a> elements (a strong SSR indicator).
	LinkCount int `json:"link_count"`

	// TextContentLength is the length of the tag-stripped text.
	TextContentLength int `json:"text_content_length"`

	// TextRatio is TextContentLength / TotalSize, in [0, 1].
	TextRatio float64 `json:"text_ratio"`

	// HasRootDiv reports whether an SPA root marker (id="root", "app",
	// "__next") is present.
	HasRootDiv bool `json:"has_root_div"`

	// Title is the trimmed <title> text, empty when absent.
	Title string `json:"title"`

	// ReadableTextLength is the text length of the readability-extracted
	// main content. 0 when extraction found nothing.
	ReadableTextLength int `json:"readable_text_length"`
}

// NetworkLogEntry is one captured network exchange. Produced once per
// exchange by the capture recorder and read-only afterwards.
type NetworkLogEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Method      string    `json:"method"`
	URL         string    `json:"url"`
	Status      int       `json:"status"`
	Type        string    `json:"type"`
	ContentType string    `json:"content_type"`

	// IsGraphQL is attached at capture time (URL pattern, content-type,
	// or POST body sniffing; see analysis.IsGraphQL).
	IsGraphQL bool `json:"is_graphql"`
}

// DomSnapshotMetrics is one timed DOM measurement. Three exist per run:
// t0 (raw server HTML, scroll height not measurable), t1 (post-hydration)
// and t2 (post-incremental-scroll).
type DomSnapshotMetrics struct {
	NodeCount  int `json:"node_count"`
	TextLength int `json:"text_length"`

	// ScrollHeight is document.documentElement.scrollHeight in pixels,
	// 0 when not measurable (always 0 for t0).
	ScrollHeight int `json:"scroll_height"`

	// Fingerprint is a SimHash of the tag structure, used for the
	// supplemental structural-distance metrics in DomDiffResult.
	Fingerprint uint64 `json:"fingerprint"`

	// HTML is the raw markup the metrics were computed from. Not
	// serialized into result JSON; persisted separately as an artifact.
	HTML string `json:"-"`
}

// Evidence is the full input bundle the synthesis core consumes.
// The capture collaborator produces it; the core never mutates it.
type Evidence struct {
	URL        string             `json:"url"`
	StatusCode int                `json:"status_code"`
	RawHTML    string             `json:"-"`
	HtmlStats  HtmlStats          `json:"html_stats"`
	NetworkLog []NetworkLogEntry  `json:"network_log"`
	T0         DomSnapshotMetrics `json:"t0"`
	T1         DomSnapshotMetrics `json:"t1"`
	T2         DomSnapshotMetrics `json:"t2"`
	CapturedAt time.Time          `json:"captured_at"`
}
