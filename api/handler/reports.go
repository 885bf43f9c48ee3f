package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dittomusic-JK/promo-report-dashboard/config"
	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/render"
	"github.com/dittomusic-JK/promo-report-dashboard/store"
	"github.com/dittomusic-JK/promo-report-dashboard/webhook"
)

// CreateReport returns a handler for POST /api/v1/reports.
//
// Sections are extracted sequentially: each realization owns a whole
// browser process, so one at a time keeps peak load at a single browser
// regardless of report size. A section's hard failure is recorded on that
// section and the build moves on; the report is always stored, even with
// every section failed.
func CreateReport(rd Renderer, reports *store.ReportStore, assets *store.AssetStore, hook config.WebhookConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		if !req.HasSources() {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "at least one source URL is required",
				},
			})
			return
		}

		ctx := c.Request.Context()
		now := time.Now().UTC()
		rep := &models.Report{
			ID:        uuid.NewString(),
			Title:     req.Title,
			Notes:     req.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if req.SmartLinkURL != "" {
			sec := buildSection[models.SmartLinkResult](ctx, rd, assets, models.SourceSmartLink, req.SmartLinkURL, render.Options{})
			rep.SmartLink = &sec
		}
		if req.AnalyticsURL != "" {
			// The dashboard lazy-loads its tables on scroll.
			sec := buildSection[models.AnalyticsResult](ctx, rd, assets, models.SourceAnalytics, req.AnalyticsURL, render.Options{Scroll: true})
			rep.Analytics = &sec
		}
		for _, u := range req.ArticleURLs {
			rep.Articles = append(rep.Articles, buildSection[models.ArticleResult](ctx, rd, assets, models.SourceArticle, u, render.Options{}))
		}
		for _, u := range req.PlaylistURLs {
			rep.Playlists = append(rep.Playlists, buildSection[models.PlaylistResult](ctx, rd, assets, models.SourcePlaylist, u, render.Options{}))
		}

		// Untitled reports borrow the release title when one was extracted.
		if rep.Title == "" && rep.SmartLink != nil && rep.SmartLink.Result != nil {
			rep.Title = rep.SmartLink.Result.Title
		}
		if rep.Title == "" {
			rep.Title = "Untitled Report"
		}

		if err := reports.Save(rep); err != nil {
			respondReportError(c, err)
			return
		}

		ok, failed := rep.SectionCounts()
		slog.Info("report built",
			"id", rep.ID,
			"title", rep.Title,
			"sections_ok", ok,
			"sections_failed", failed,
		)

		if hook.URL != "" {
			summary := rep.Summary()
			webhook.DeliverAsync(hook.URL, hook.Secret,
				webhook.NewReportEvent(webhook.EventReportCompleted, rep.ID, &summary))
		}

		c.JSON(http.StatusCreated, rep)
	}
}

// GetReport returns a handler for GET /api/v1/reports/:id.
func GetReport(reports *store.ReportStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep, err := reports.Get(c.Param("id"))
		if err != nil {
			respondReportError(c, err)
			return
		}
		c.JSON(http.StatusOK, rep)
	}
}

// ListReports returns a handler for GET /api/v1/reports. Newest first.
func ListReports(reports *store.ReportStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		summaries, err := reports.List()
		if err != nil {
			respondReportError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ReportListResponse{
			Reports: summaries,
			Total:   len(summaries),
		})
	}
}

// UpdateReport returns a handler for PUT /api/v1/reports/:id.
//
// Only the presentation fields move: title (kept when the request sends an
// empty one), notes (always replaced, so they can be cleared) and
// attachments (replaced when present). Extracted sections are immutable;
// re-running the report is the only way to change them.
func UpdateReport(reports *store.ReportStore, hook config.WebhookConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReportUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		rep, err := reports.Get(c.Param("id"))
		if err != nil {
			respondReportError(c, err)
			return
		}

		if req.Title != "" {
			rep.Title = req.Title
		}
		rep.Notes = req.Notes
		if req.Attachments != nil {
			rep.Attachments = req.Attachments
		}
		rep.UpdatedAt = time.Now().UTC()

		if err := reports.Save(rep); err != nil {
			respondReportError(c, err)
			return
		}

		if hook.URL != "" {
			summary := rep.Summary()
			webhook.DeliverAsync(hook.URL, hook.Secret,
				webhook.NewReportEvent(webhook.EventReportUpdated, rep.ID, &summary))
		}

		c.JSON(http.StatusOK, rep)
	}
}

// DeleteReport returns a handler for DELETE /api/v1/reports/:id.
func DeleteReport(reports *store.ReportStore, hook config.WebhookConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := reports.Delete(id); err != nil {
			respondReportError(c, err)
			return
		}

		if hook.URL != "" {
			webhook.DeliverAsync(hook.URL, hook.Secret,
				webhook.NewReportEvent(webhook.EventReportDeleted, id, nil))
		}

		c.JSON(http.StatusOK, models.ErrorResponse{Success: true})
	}
}

// buildSection runs one extraction and wraps the outcome in a Section.
// Hard failures land on the section, never on the report.
func buildSection[T any](ctx context.Context, rd Renderer, assets *store.AssetStore, source, pageURL string, opts render.Options) models.Section[T] {
	sec := models.Section[T]{SourceURL: pageURL}

	data, _, err := extractSource(ctx, rd, assets, source, pageURL, opts)
	if err != nil {
		var ee *models.ExtractError
		if !errors.As(err, &ee) {
			ee = models.NewExtractError(models.ErrCodeInternal, err.Error(), err)
		}
		sec.Error = ee.ToDetail()
		slog.Warn("report section failed",
			"source", source,
			"url", pageURL,
			"code", ee.Code,
		)
		return sec
	}

	if result, ok := data.(*T); ok {
		sec.Result = result
	}
	return sec
}

// respondReportError writes the generic error envelope for report CRUD
// failures (no timing breakdown to report).
func respondReportError(c *gin.Context, err error) {
	var ee *models.ExtractError
	if !errors.As(err, &ee) {
		ee = models.NewExtractError(models.ErrCodeInternal, err.Error(), err)
	}
	c.JSON(mapErrorToStatus(ee), models.ErrorResponse{
		Success: false,
		Error:   ee.ToDetail(),
	})
}
