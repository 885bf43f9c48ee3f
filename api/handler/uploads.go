package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/store"
)

// Upload returns a handler for POST /api/v1/uploads.
//
// Accepts one multipart file under the "file" field (press shots, banners,
// PDFs) and returns the /assets/ path it is served from. The asset store
// enforces the extension whitelist and the size cap.
func Upload(assets *store.AssetStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.UploadResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "multipart field \"file\" is required",
				},
			})
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.UploadResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "unreadable upload",
				},
			})
			return
		}
		defer f.Close()

		assetPath, err := assets.SaveUpload(fileHeader.Filename, f)
		if err != nil {
			var ee *models.ExtractError
			if !errors.As(err, &ee) {
				ee = models.NewExtractError(models.ErrCodeInternal, err.Error(), err)
			}
			c.JSON(mapErrorToStatus(ee), models.UploadResponse{
				Success: false,
				Error:   ee.ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, models.UploadResponse{
			Success: true,
			URL:     assetPath,
		})
	}
}
