package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/verify"
)

// Prober preflights a URL without a browser. *verify.Prober implements it.
type Prober interface {
	Probe(ctx context.Context, targetURL string) (*verify.Result, error)
}

// Verify returns a handler for POST /api/v1/verify.
//
// Lets operators check a URL before a report build spends a browser on it:
// reachability, redirects, title, and whether extraction will need JS
// rendering.
func Verify(prober Prober) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.VerifyResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		res, err := prober.Probe(c.Request.Context(), req.URL)
		if err != nil {
			var ee *models.ExtractError
			if !errors.As(err, &ee) {
				ee = models.NewExtractError(models.ErrCodeInternal, err.Error(), err)
			}
			c.JSON(mapErrorToStatus(ee), models.VerifyResponse{
				Success: false,
				Error:   ee.ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, models.VerifyResponse{
			Success:      true,
			StatusCode:   res.StatusCode,
			FinalURL:     res.FinalURL,
			Title:        res.Title,
			NeedsBrowser: res.NeedsBrowser,
		})
	}
}
