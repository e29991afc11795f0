package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// inspectRequest mirrors the SLAP API request model.
type inspectRequest struct {
	URL     string `json:"url"`
	Timeout int    `json:"timeout,omitempty"`
	Stealth bool   `json:"stealth,omitempty"`
	MaxAge  int    `json:"max_age,omitempty"`
}

// inspectResponse mirrors the SLAP API response model, reduced to the
// fields the tool output needs.
type inspectResponse struct {
	Success    bool   `json:"success"`
	RunID      string `json:"run_id"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"`
	Labels     struct {
		Structure struct {
			Primary   string   `json:"primary"`
			Modifiers []string `json:"modifiers"`
		} `json:"structure"`
		Loading          string   `json:"loading"`
		AccessProtection []string `json:"access_protection"`
	} `json:"labels"`
	Score struct {
		TotalScore int    `json:"total_score"`
		Tier       string `json:"tier"`
		Breakdown  struct {
			AP int `json:"AP"`
			S  int `json:"S"`
			L  int `json:"L"`
		} `json:"breakdown"`
		Drivers []string `json:"drivers"`
	} `json:"score"`
	Strategy struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"strategy"`
	NetworkSummary struct {
		TotalCaptured int            `json:"total_captured"`
		XHRFetchCount int            `json:"xhr_fetch_count"`
		DataTypes     map[string]int `json:"data_types"`
		SuspectedAPIs []string       `json:"suspected_apis"`
	} `json:"network_summary"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("SLAP_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("SLAP_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "SLAP_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"slap",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	inspectURLTool := mcp.NewTool("inspect_url",
		mcp.WithDescription("Inspect a web page's crawlability: classify its rendering architecture, data loading pattern and anti-bot defenses, and return a 0-100 difficulty score with a recommended scraping strategy."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to inspect"),
		),
		mcp.WithBoolean("stealth",
			mcp.Description("Enable anti-bot-detection evasions during the browser capture"),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Maximum inspection duration in seconds (default: 60, max: 180)"),
		),
	)
	s.AddTool(inspectURLTool, handleInspectURL(apiURL, apiKey))

	getReportTool := mcp.NewTool("get_report",
		mcp.WithDescription("Fetch the Markdown crawlability report for a previous inspection run."),
		mcp.WithString("run_id",
			mcp.Required(),
			mcp.Description("The run ID returned by inspect_url"),
		),
	)
	s.AddTool(getReportTool, handleGetReport(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleInspectURL(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 240 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := inspectRequest{
			URL:     url,
			Stealth: request.GetBool("stealth", false),
			Timeout: request.GetInt("timeout", 0),
		}

		body, err := json.Marshal(reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/inspect", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-API-Key", apiKey)

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var inspectResp inspectResponse
		if err := json.Unmarshal(respBody, &inspectResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !inspectResp.Success {
			errMsg := "inspection failed"
			if inspectResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", inspectResp.Error.Code, inspectResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatVerdict(&inspectResp)), nil
	}
}

// formatVerdict renders the verdict as a compact text block for the
// calling model.
func formatVerdict(r *inspectResponse) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "SLAP verdict for %s (run %s)\n\n", r.URL, r.RunID)
	fmt.Fprintf(&sb, "Difficulty: %s tier, %d/100 (AP %d/50, S %d/30, L %d/20)\n",
		r.Score.Tier, r.Score.TotalScore,
		r.Score.Breakdown.AP, r.Score.Breakdown.S, r.Score.Breakdown.L)

	structure := r.Labels.Structure.Primary
	if len(r.Labels.Structure.Modifiers) > 0 {
		structure += " + " + strings.Join(r.Labels.Structure.Modifiers, ", ")
	}
	fmt.Fprintf(&sb, "Structure: %s\n", structure)
	fmt.Fprintf(&sb, "Loading: %s\n", r.Labels.Loading)
	fmt.Fprintf(&sb, "Protection: %s\n", strings.Join(r.Labels.AccessProtection, ", "))

	if len(r.Score.Drivers) > 0 {
		fmt.Fprintf(&sb, "Top drivers: %s\n", strings.Join(r.Score.Drivers, ", "))
	}

	fmt.Fprintf(&sb, "\nStrategy (%s): %s\n", r.Strategy.Level, r.Strategy.Message)

	fmt.Fprintf(&sb, "\nNetwork: %d captured, %d XHR/Fetch",
		r.NetworkSummary.TotalCaptured, r.NetworkSummary.XHRFetchCount)
	if n := r.NetworkSummary.DataTypes["graphql"]; n > 0 {
		fmt.Fprintf(&sb, ", %d GraphQL", n)
	}
	sb.WriteString("\n")

	if len(r.NetworkSummary.SuspectedAPIs) > 0 {
		sb.WriteString("Suspected data APIs:\n")
		for _, u := range r.NetworkSummary.SuspectedAPIs {
			sb.WriteString("  " + u + "\n")
		}
	}

	return sb.String()
}

func handleGetReport(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		runID, err := request.RequireString("run_id")
		if err != nil {
			return mcp.NewToolResultError("run_id is required"), nil
		}

		endpoint := fmt.Sprintf("%s/api/v1/runs/%s/report?format=markdown", apiURL, runID)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("X-API-Key", apiKey)

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		if resp.StatusCode != http.StatusOK {
			return mcp.NewToolResultError(fmt.Sprintf("API returned %d: %s", resp.StatusCode, string(respBody))), nil
		}

		return mcp.NewToolResultText(string(respBody)), nil
	}
}
