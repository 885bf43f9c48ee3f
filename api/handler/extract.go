package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dittomusic-JK/promo-report-dashboard/extract"
	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/render"
	"github.com/dittomusic-JK/promo-report-dashboard/store"
)

// Renderer realizes a URL into a queryable page snapshot. *render.Renderer
// implements it; handler tests substitute prebuilt fixture snapshots.
type Renderer interface {
	Realize(ctx context.Context, pageURL string, opts render.Options) (*render.Snapshot, error)
}

// Extract returns a handler for POST /api/v1/extract.
//
// Flow:
//  1. Parse & validate ExtractRequest, apply defaults.
//  2. Realize → settled page snapshot      (records render_ms)
//  3. Source-matched extractor → result    (records extract_ms)
//  4. Screenshot → asset store, best effort.
//  5. Fill Timing, return 200.
func Extract(rd Renderer, assets *store.AssetStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ExtractResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		data, timing, err := extractSource(c.Request.Context(), rd, assets, req.Source, req.URL, render.Options{
			Scroll:         req.WantScroll(),
			Timeout:        time.Duration(req.Timeout) * time.Second,
			ViewportWidth:  req.ViewportWidth,
			ViewportHeight: req.ViewportHeight,
		})
		timing.TotalMs = time.Since(totalStart).Milliseconds()

		if err != nil {
			respondError(c, err, timing)
			return
		}

		c.JSON(http.StatusOK, models.ExtractResponse{
			Success: true,
			Source:  req.Source,
			Data:    data,
			Timing:  timing,
		})
	}
}

// extractSource realizes pageURL and runs the pipeline matching source.
// It is shared by the single-extraction endpoint and the report builder.
// The returned data is one of the models.*Result structs with Screenshot
// already stored and linked.
func extractSource(ctx context.Context, rd Renderer, assets *store.AssetStore, source, pageURL string, opts render.Options) (any, models.TimingInfo, error) {
	var timing models.TimingInfo

	renderStart := time.Now()
	snap, err := rd.Realize(ctx, pageURL, opts)
	timing.RenderMs = time.Since(renderStart).Milliseconds()
	if err != nil {
		return nil, timing, err
	}
	defer snap.Close()

	extractStart := time.Now()
	var data any
	switch source {
	case models.SourceSmartLink:
		res := extract.SmartLink(snap)
		res.Screenshot = capture(snap, assets)
		data = res
	case models.SourceAnalytics:
		res := extract.Analytics(snap)
		res.Screenshot = capture(snap, assets)
		data = res
	case models.SourceArticle:
		res := extract.Article(snap)
		res.Screenshot = capture(snap, assets)
		data = res
	case models.SourcePlaylist:
		res := extract.Playlist(snap)
		res.Screenshot = capture(snap, assets)
		data = res
	default:
		return nil, timing, models.NewExtractError(models.ErrCodeInvalidInput, "unknown source: "+source, nil)
	}
	timing.ExtractMs = time.Since(extractStart).Milliseconds()

	return data, timing, nil
}

// capture screenshots the realized page and stores it, returning the asset
// path. A missing or unstorable screenshot never fails an extraction.
func capture(snap *render.Snapshot, assets *store.AssetStore) string {
	if assets == nil {
		return ""
	}
	png, err := snap.Screenshot()
	if err != nil || len(png) == 0 {
		return ""
	}
	assetPath, err := assets.SaveScreenshot(png)
	if err != nil {
		slog.Warn("failed to store screenshot", "error", err)
		return ""
	}
	return assetPath
}

// respondError maps an ExtractError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	var ee *models.ExtractError
	if !errors.As(err, &ee) {
		ee = models.NewExtractError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(ee), models.ExtractResponse{
		Success: false,
		Error:   ee.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ExtractError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeBrowser:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
