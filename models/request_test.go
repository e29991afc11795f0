package models

import "testing"

func TestInspectRequest_Defaults(t *testing.T) {
	req := &InspectRequest{URL: "https://example.org/"}
	req.Defaults()

	if req.Timeout != 60 {
		t.Errorf("Timeout = %d, want 60", req.Timeout)
	}
	if req.SaveArtifacts == nil || !*req.SaveArtifacts {
		t.Error("SaveArtifacts default should be true")
	}
}

func TestInspectRequest_DefaultsKeepExplicitValues(t *testing.T) {
	f := false
	req := &InspectRequest{URL: "https://example.org/", Timeout: 30, SaveArtifacts: &f}
	req.Defaults()

	if req.Timeout != 30 {
		t.Errorf("Timeout = %d, want explicit 30 kept", req.Timeout)
	}
	if *req.SaveArtifacts {
		t.Error("explicit SaveArtifacts=false overwritten")
	}
}

func TestInspectRequest_InsightDefaults(t *testing.T) {
	req := &InspectRequest{
		URL:     "https://example.org/",
		Insight: &InsightParams{APIKey: "sk-test"},
	}
	req.Defaults()

	if req.Insight.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", req.Insight.Model)
	}
	if req.Insight.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %q, want OpenAI default", req.Insight.BaseURL)
	}
}

func TestInspectError_Formatting(t *testing.T) {
	err := NewInspectError(ErrCodeTimeout, "capture deadline exceeded", nil)

	if err.Error() != "INSPECT_TIMEOUT: capture deadline exceeded" {
		t.Errorf("Error() = %q", err.Error())
	}

	detail := err.ToDetail()
	if detail.Code != ErrCodeTimeout || detail.Message != "capture deadline exceeded" {
		t.Errorf("ToDetail() = %+v", detail)
	}
}
