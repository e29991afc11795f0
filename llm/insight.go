// Package llm generates the optional AI insight: an executive summary and
// a ready-to-use automation snippet tailored to the detected obstacles.
// It talks to any OpenAI-compatible chat completion API (BYOK). Insight
// failures never fail an inspection.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sasangkyoo/slap/models"
)

// Client is a lightweight OpenAI-compatible API client for insight
// generation. It uses net/http directly — no third-party SDK needed.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new LLM client with the given http.Client.
// Pass nil to use a default client.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient}
}

// chatRequest is the OpenAI chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the minimal OpenAI chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatErrorResponse captures an API error from the LLM provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// GenerateInsight asks the model for an executive summary and automation
// snippet based on the verdict. Returns the HTML fragment to embed in the
// report.
func (c *Client) GenerateInsight(ctx context.Context, resp *models.InspectResponse, params *models.InsightParams) (string, error) {
	prompt := buildInsightPrompt(resp)

	reqBody := chatRequest{
		Model: params.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert web scraping engineer specializing in Playwright automation. Provide concise, actionable code snippets."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   1500,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(params.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+params.APIKey)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewInspectError(models.ErrCodeInsightFailure, "insight request failed", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", models.NewInspectError(models.ErrCodeInsightFailure, "failed to read insight response", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", classifyInsightError(httpResp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", models.NewInspectError(models.ErrCodeInsightFailure, "failed to parse insight response", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", models.NewInspectError(models.ErrCodeInsightFailure, "insight returned no choices", nil)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// buildInsightPrompt assembles the analysis context and obstacle-specific
// hints for the model.
func buildInsightPrompt(resp *models.InspectResponse) string {
	sPrimary := resp.Labels.Structure.Primary
	sModifiers := resp.Labels.Structure.Modifiers
	lLabel := resp.Labels.Loading
	apLabels := resp.Labels.AccessProtection

	xhrCount := resp.NetworkSummary.XHRFetchCount
	graphqlCount := resp.NetworkSummary.DataTypes[models.BucketGraphQL]

	var hints []string
	if sPrimary == models.SCSR {
		hints = append(hints, "Site uses Client-Side Rendering. Code must use headless browser and wait for hydration.")
	}
	if contains(sModifiers, models.SVirtualized) {
		hints = append(hints, "DOM is virtualized. Visual scraping will fail. Must reverse-engineer the JSON API endpoints.")
	}
	if graphqlCount > 0 {
		hints = append(hints, fmt.Sprintf("Site uses GraphQL (%d requests detected). Show how to intercept network responses.", graphqlCount))
	}
	if contains(apLabels, models.APRate) {
		hints = append(hints, "Rate limiting detected (429 errors). Add random delays and exponential backoff.")
	}
	if contains(apLabels, models.APCaptcha) || contains(apLabels, models.APAuth) {
		hints = append(hints, "Hard blocking detected. Code should include error handling for CAPTCHA/Auth challenges.")
	}
	if lLabel == models.LAPI && xhrCount > 0 {
		hints = append(hints, fmt.Sprintf("Site makes %d XHR/Fetch requests. Consider intercepting API calls instead of parsing HTML.", xhrCount))
	}

	hintBlock := "- No major obstacles detected"
	if len(hints) > 0 {
		hintBlock = "- " + strings.Join(hints, "\n- ")
	}

	modifierSuffix := ""
	if len(sModifiers) > 0 {
		modifierSuffix = " + " + strings.Join(sModifiers, ", ")
	}
	driverLine := "None"
	if len(resp.Score.Drivers) > 0 {
		driverLine = strings.Join(resp.Score.Drivers, ", ")
	}

	return fmt.Sprintf(`You are a Senior Web Scraping Engineer analyzing site: %s

SLAP Analysis Results:
- Difficulty Tier: %s (%d/100)
- Structure: %s%s
- Loading Pattern: %s
- Access Protection: %s
- Top Challenges: %s
- Network: %d XHR/Fetch, %d GraphQL

Technical Constraints:
%s

Task:
1. Write a brief Executive Summary (2-3 sentences) explaining the scraping approach
2. Generate a production-ready Python Playwright code snippet that:
   - Handles the specific obstacles detected
   - Includes proper wait strategies if CSR is detected
   - Shows API interception if GraphQL/API patterns found
   - Adds rate limiting protection if needed
   - Is copy-paste ready with minimal modifications

Format your response as HTML:
<div class="ai-summary">
<h4>Executive Summary</h4>
<p>Your summary here...</p>
</div>

<div class="ai-code">
<h4>Ready-to-Use Playwright Code</h4>
<pre><code class="language-python">
# Your Python code here
</code></pre>
</div>

Keep the code concise but functional. Focus on the detected obstacles.`,
		resp.URL,
		resp.Score.Tier, resp.Score.TotalScore,
		sPrimary, modifierSuffix,
		lLabel,
		strings.Join(apLabels, ", "),
		driverLine,
		xhrCount, graphqlCount,
		hintBlock,
	)
}

// classifyInsightError maps HTTP status codes to appropriate error codes.
func classifyInsightError(statusCode int, body []byte) *models.InspectError {
	var errResp chatErrorResponse
	msg := "insight API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewInspectError(models.ErrCodeInsightAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewInspectError(models.ErrCodeInsightRateLimited, msg, nil)
	default:
		return models.NewInspectError(models.ErrCodeInsightFailure, fmt.Sprintf("insight API returned %d: %s", statusCode, msg), nil)
	}
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
