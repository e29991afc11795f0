package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sasangkyoo/slap/analysis"
	"github.com/sasangkyoo/slap/cache"
	"github.com/sasangkyoo/slap/capture"
	"github.com/sasangkyoo/slap/llm"
	"github.com/sasangkyoo/slap/models"
	"github.com/sasangkyoo/slap/storage"
	"github.com/sasangkyoo/slap/webhook"
)

// Inspect returns a handler for POST /api/v1/inspect.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup (opt-in via max_age).
//  3. Capturer.Capture → evidence bundle       (records capture_ms)
//  4. analysis.Evaluate → labels, score, plan  (records analysis_ms)
//  5. Optional LLM insight (best-effort).
//  6. Persist run + index row.
//  7. Fire webhook (async), cache, respond 200.
func Inspect(capt *capture.Capturer, store *storage.Store, insight *llm.Client, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.InspectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.InspectResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Cache lookup ─────────────────────────────────────────
		var cacheKey string
		if cc != nil && req.MaxAge > 0 {
			cacheKey = cache.Key(&req)
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				out := *cached
				out.CacheStatus = "hit"
				out.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, &out)
				return
			}
		}

		// ── 3. Capture ──────────────────────────────────────────────
		captureStart := time.Now()
		ev, err := capt.Capture(c.Request.Context(), &req)
		captureMs := time.Since(captureStart).Milliseconds()

		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				CaptureMs: captureMs,
			})
			return
		}

		// ── 4. Synthesize the verdict ───────────────────────────────
		analysisStart := time.Now()
		verdict := analysis.Evaluate(ev)
		analysisMs := time.Since(analysisStart).Milliseconds()

		resp := &models.InspectResponse{
			Success:        true,
			RunID:          storage.NewRunID(),
			URL:            ev.URL,
			StatusCode:     ev.StatusCode,
			HtmlStats:      ev.HtmlStats,
			NetworkSummary: verdict.NetworkSummary,
			DomDiff:        verdict.DomDiff,
			Signals:        verdict.Signals,
			Labels:         verdict.Labels,
			Score:          verdict.Score,
			Strategy:       verdict.Strategy,
			Timing: models.TimingInfo{
				TotalMs:    time.Since(totalStart).Milliseconds(),
				CaptureMs:  captureMs,
				AnalysisMs: analysisMs,
			},
		}

		// ── 5. Optional insight (never fails the run) ───────────────
		if insight != nil && req.Insight != nil && req.Insight.APIKey != "" {
			text, insightErr := insight.GenerateInsight(c.Request.Context(), resp, req.Insight)
			if insightErr != nil {
				slog.Warn("insight generation failed",
					"run_id", resp.RunID, "url", resp.URL, "error", insightErr)
			} else {
				resp.Insight = text
			}
		}

		// ── 6. Persist (never fails the response either) ────────────
		if store != nil {
			if saveErr := store.SaveRun(resp, ev, *req.SaveArtifacts); saveErr != nil {
				slog.Error("failed to persist run",
					"run_id", resp.RunID, "url", resp.URL, "error", saveErr)
			}
		}

		// ── 7. Webhook, cache, respond ──────────────────────────────
		if req.WebhookURL != "" {
			webhook.DeliverAsync(req.WebhookURL, req.WebhookSecret, &webhook.Event{
				Type:      webhook.EventInspectCompleted,
				RunID:     resp.RunID,
				Timestamp: time.Now().Unix(),
				Data:      resp,
			})
		}

		if cc != nil && req.MaxAge > 0 {
			cc.Set(cacheKey, resp)
			resp.CacheStatus = "miss"
		}

		resp.Timing.TotalMs = time.Since(totalStart).Milliseconds()
		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps an InspectError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	inspectErr, ok := err.(*models.InspectError)
	if !ok {
		inspectErr = models.NewInspectError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(inspectErr), models.InspectResponse{
		Success: false,
		Error:   inspectErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.InspectError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeProbe:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	default:
		return http.StatusInternalServerError // 500
	}
}
