package models

import "time"

// InspectResponse is the response for POST /api/v1/inspect.
type InspectResponse struct {
	// Success indicates whether the inspection completed without errors.
	Success bool `json:"success"`

	// RunID identifies this inspection run.
	RunID string `json:"run_id,omitempty"`

	// URL is the inspected page.
	URL string `json:"url,omitempty"`

	// StatusCode is the HTTP status of the primary document.
	StatusCode int `json:"status_code,omitempty"`

	// HtmlStats describes the raw server-delivered document.
	HtmlStats HtmlStats `json:"html_stats"`

	// NetworkSummary aggregates the captured network exchanges.
	NetworkSummary NetworkSummary `json:"network_summary"`

	// DomDiff describes DOM evolution across the snapshot timeline.
	DomDiff DomDiffResult `json:"dom_diff"`

	// Signals lists detected access-protection signals (may be empty).
	Signals []AccessProtectionSignal `json:"ap_signals"`

	// Labels is the three-axis SLAP classification.
	Labels SlapLabels `json:"labels"`

	// Score is the weighted difficulty verdict.
	Score DifficultyScore `json:"score"`

	// Strategy is the single recommended action.
	Strategy Strategy `json:"strategy"`

	// Insight is the optional LLM-generated summary. Empty when not
	// requested or when generation failed.
	Insight string `json:"insight,omitempty"`

	// CacheStatus is "hit" or "miss" when caching was requested.
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// CaptureMs is the time spent probing, navigating and snapshotting.
	CaptureMs int64 `json:"capture_ms"`

	// AnalysisMs is the time spent in the synthesis core.
	AnalysisMs int64 `json:"analysis_ms"`
}

// RunSummary is one row of the run index (GET /api/v1/runs).
type RunSummary struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	StatusCode    int       `json:"status_code"`
	Tier          string    `json:"tier"`
	TotalScore    int       `json:"total_score"`
	StrategyLevel string    `json:"strategy_level"`
	CreatedAt     time.Time `json:"created_at"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
