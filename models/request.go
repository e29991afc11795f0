package models

// InspectRequest is the payload for POST /api/v1/inspect.
type InspectRequest struct {
	// URL is the page to inspect. Required.
	URL string `json:"url" binding:"required,url"`

	// Timeout is the maximum duration in seconds for the entire capture
	// (probe + navigation + snapshots + scroll). Default: 60. Max: 180.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=180"`

	// Stealth enables anti-bot-detection evasions during browser capture.
	// Default: false; the capturer may force it on when the domain
	// previously required it.
	Stealth bool `json:"stealth,omitempty"`

	// Headers are extra HTTP headers applied to both the raw probe and
	// the browser navigation.
	Headers map[string]string `json:"headers,omitempty"`

	// MaxAge enables the response cache: a cached verdict younger than
	// MaxAge milliseconds is returned without re-capturing. Default: 0
	// (no caching).
	MaxAge int `json:"max_age,omitempty"`

	// SaveArtifacts persists raw HTML snapshots and the network log to
	// the run directory in addition to the result JSON. Default: true.
	SaveArtifacts *bool `json:"save_artifacts,omitempty"`

	// Insight optionally requests an LLM-generated executive summary
	// (BYOK, OpenAI-compatible).
	Insight *InsightParams `json:"insight,omitempty"`

	// WebhookURL, when set, receives an inspect.completed event after
	// the run finishes.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`

	// WebhookSecret signs webhook payloads with HMAC-SHA256 when set.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// InsightParams holds per-request LLM configuration.
type InsightParams struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
}

// Defaults applies default values to unset fields.
func (r *InspectRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 60
	}
	if r.SaveArtifacts == nil {
		t := true
		r.SaveArtifacts = &t
	}
	if r.Insight != nil {
		if r.Insight.Model == "" {
			r.Insight.Model = "gpt-4o-mini"
		}
		if r.Insight.BaseURL == "" {
			r.Insight.BaseURL = "https://api.openai.com/v1"
		}
	}
}
