package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dittomusic-JK/promo-report-dashboard/api/middleware"
	"github.com/dittomusic-JK/promo-report-dashboard/models"
)

// Login returns a handler for POST /login. A correct password earns a
// session cookie; with no password configured the instance is open and
// login always succeeds.
func Login(sessions *middleware.SessionStore, password string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if password == "" {
			c.JSON(http.StatusOK, models.ErrorResponse{Success: true})
			return
		}

		var req models.LoginRequest
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

		if subtle.ConstantTimeCompare([]byte(req.Password), []byte(password)) != 1 {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeUnauthorized,
					Message: "wrong password",
				},
			})
			return
		}

		token, err := sessions.Issue()
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInternal,
					Message: "failed to issue session",
				},
			})
			return
		}

		c.SetCookie(middleware.SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
		c.JSON(http.StatusOK, models.ErrorResponse{Success: true})
	}
}

// Logout returns a handler for POST /logout. It revokes the current
// session and clears the cookie. Logging out without a session succeeds.
func Logout(sessions *middleware.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(middleware.SessionCookie); err == nil {
			sessions.Revoke(token)
		}
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, models.ErrorResponse{Success: true})
	}
}
