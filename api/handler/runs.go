package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sasangkyoo/slap/models"
	"github.com/sasangkyoo/slap/report"
	"github.com/sasangkyoo/slap/storage"
)

// ListRuns returns a handler for GET /api/v1/runs.
// Supports ?limit=N (default 50, max 500).
func ListRuns(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if limit <= 0 {
			limit = 50
		}
		if limit > 500 {
			limit = 500
		}

		runs, err := store.ListRuns(limit)
		if err != nil {
			respondError(c, err, models.TimingInfo{})
			return
		}

		c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
	}
}

// GetRun returns a handler for GET /api/v1/runs/:id. It serves the full
// persisted result JSON for the run.
func GetRun(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := store.LoadResult(c.Param("id"))
		if err != nil {
			respondError(c, err, models.TimingInfo{})
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// GetReport returns a handler for GET /api/v1/runs/:id/report. It renders
// the persisted result as a self-contained HTML page, or Markdown with
// ?format=markdown.
func GetReport(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := store.LoadResult(c.Param("id"))
		if err != nil {
			respondError(c, err, models.TimingInfo{})
			return
		}

		if c.Query("format") == "markdown" {
			md, renderErr := report.RenderMarkdown(resp)
			if renderErr != nil {
				respondError(c, renderErr, models.TimingInfo{})
				return
			}
			c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
			return
		}

		page, renderErr := report.RenderHTML(resp)
		if renderErr != nil {
			respondError(c, renderErr, models.TimingInfo{})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}
