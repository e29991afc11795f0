package models

// Blocking-signal status keys tracked in NetworkSummary. Any other
// status code is ignored for blocking purposes.
const (
	Status401 = "401"
	Status403 = "403"
	Status429 = "429"
)

// Data-type bucket keys in NetworkSummary.
const (
	BucketJSON    = "json"
	BucketHTML    = "html"
	BucketGraphQL = "graphql"
)

// NetworkSummary is the deterministic aggregation of an ordered
// NetworkLogEntry sequence.
type NetworkSummary struct {
	TotalCaptured int `json:"total_captured"`
	XHRFetchCount int `json:"xhr_fetch_count"`

	// BlockingSignals counts exchanges with status 401, 403 and 429,
	// keyed by the status code string.
	BlockingSignals map[string]int `json:"blocking_signals"`

	// DataTypes counts exchanges per bucket (graphql, json, html).
	// Bucketing is priority-ordered and mutually exclusive per entry.
	DataTypes map[string]int `json:"data_types"`

	// SuspectedAPIs lists de-duplicated xhr/fetch URLs that look like
	// data endpoints (GraphQL-flagged or JSON), capped at 10.
	SuspectedAPIs []string `json:"suspected_apis"`
}

// SnapshotStats is the serializable subset of a DOM snapshot used in
// DomDiffResult.
type SnapshotStats struct {
	NodeCount    int `json:"node_count"`
	TextLength   int `json:"text_length"`
	ScrollHeight int `json:"scroll_height"`
}

// DomDiffResult captures how the DOM evolved across the t0/t1/t2 timeline.
// Growth ratios are rounded to 4 decimal digits for output; classification
// decisions are made on the unrounded values.
type DomDiffResult struct {
	T0 SnapshotStats `json:"t0_stats"`
	T1 SnapshotStats `json:"t1_stats"`
	T2 SnapshotStats `json:"t2_stats"`

	// HydrationGrowth is (t1.nodes - t0.nodes) / t0.nodes, 0 when t0 has
	// no nodes.
	HydrationGrowth float64 `json:"hydration_growth"`

	// ScrollGrowth is (t2.nodes - t1.nodes) / t1.nodes, 0 when t1 has
	// no nodes.
	ScrollGrowth float64 `json:"scroll_growth"`

	// ScrollHeightGrowth is (t2.height - t1.height) / t1.height, 0 when
	// t1 reported no height. t0 is never a height baseline.
	ScrollHeightGrowth float64 `json:"scroll_height_growth"`

	// HydrationDistance and ScrollDistance are SimHash Hamming distances
	// between the snapshots' structure fingerprints (0-64).
	HydrationDistance int `json:"hydration_distance"`
	ScrollDistance    int `json:"scroll_distance"`

	// IsVirtualizedSuspected is true iff the scrollable extent grew far
	// faster than the materialized DOM (height growth > 0.5, node
	// growth < 0.05).
	IsVirtualizedSuspected bool `json:"is_virtualized_suspected"`

	// Interpretation is the single human-readable classification chosen
	// by priority.
	Interpretation string `json:"interpretation"`
}

// Signal states for AccessProtectionSignal.
const (
	SignalConfirmed = "confirmed"
	SignalSuspected = "suspected"
)

// Access-protection signal labels.
const (
	APAuth     = "AP-AUTH"
	APRate     = "AP-RATE"
	APLogin    = "AP-LOGIN"
	APBotScore = "AP-BOT-SCORE"
	APCaptcha  = "AP-CAPTCHA"

	// APOpen is the sentinel substituted at scoring time when no signal
	// was detected.
	APOpen = "AP-OPEN"
)

// EvidenceItem is one piece of evidence backing a protection signal.
type EvidenceItem struct {
	Source string `json:"source"`
	Key    string `json:"key"`
	Value  any    `json:"value"`
}

// AccessProtectionSignal is one detected anti-automation defense.
type AccessProtectionSignal struct {
	Label      string         `json:"label"`
	State      string         `json:"state"`
	Confidence float64        `json:"confidence"`
	Evidence   []EvidenceItem `json:"evidence"`
}

// Structure axis labels.
const (
	SCSR    = "S-CSR"
	SSSR    = "S-SSR"
	SStatic = "S-STATIC"

	SVirtualized = "S-VIRTUALIZED"
)

// Loading axis labels.
const (
	LGraphQL     = "L-GRAPHQL"
	LInteractive = "L-INTERACTIVE"
	LAPI         = "L-API"
	LStatic      = "L-STATIC"
)

// StructureLabels keeps the primary architecture ("what it is") decoupled
// from behavioral modifiers ("what it does"). Exactly one primary and
// zero-or-more modifiers exist per run.
type StructureLabels struct {
	Primary   string   `json:"primary"`
	Modifiers []string `json:"modifiers"`
}

// SlapLabels is the three-axis classification of a page.
type SlapLabels struct {
	Structure        StructureLabels `json:"structure"`
	Loading          string          `json:"loading"`
	AccessProtection []string        `json:"access_protection"`
}

// Difficulty tiers, ordered easiest to hardest.
const (
	TierEasy   = "EASY"
	TierMedium = "MEDIUM"
	TierHard   = "HARD"
	TierHell   = "HELL"
)

// ScoreBreakdown holds the weighted per-axis contributions.
type ScoreBreakdown struct {
	AP int `json:"AP"`
	S  int `json:"S"`
	L  int `json:"L"`
}

// DifficultyScore is the synthesized 0-100 crawl-difficulty verdict.
type DifficultyScore struct {
	TotalScore int            `json:"total_score"`
	Tier       string         `json:"tier"`
	Breakdown  ScoreBreakdown `json:"breakdown"`

	// Drivers ranks the labels that contributed most, score descending,
	// ties preserving AP → Structure → Loading insertion order.
	Drivers []string `json:"drivers"`
}

// Strategy severity levels, ordered by priority.
const (
	StrategyAbort   = "abort"
	StrategyWarn    = "warn"
	StrategyCaution = "caution"
	StrategyInfo    = "info"
	StrategySuccess = "success"
)

// Strategy is the single recommended action for a run. Chosen by a fixed
// priority cascade, never by aggregating multiple matching rules.
type Strategy struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}
