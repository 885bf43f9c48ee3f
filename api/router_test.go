package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dittomusic-JK/promo-report-dashboard/api/middleware"
	"github.com/dittomusic-JK/promo-report-dashboard/config"
	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/render"
	"github.com/dittomusic-JK/promo-report-dashboard/store"
	"github.com/dittomusic-JK/promo-report-dashboard/verify"
)

type fixtureRenderer struct{}

func (fixtureRenderer) Realize(_ context.Context, pageURL string, _ render.Options) (*render.Snapshot, error) {
	return render.FromHTML(`<html><head><meta property="og:title" content="Neon Skyline - Ada Vale"></head><body></body></html>`, pageURL)
}

type fixtureProber struct{}

func (fixtureProber) Probe(_ context.Context, targetURL string) (*verify.Result, error) {
	return &verify.Result{StatusCode: 200, FinalURL: targetURL, NeedsBrowser: true}, nil
}

func newTestRouter(t *testing.T, password string, rl config.RateLimitConfig) *gin.Engine {
	t.Helper()

	reports, err := store.NewReportStore(t.TempDir())
	require.NoError(t, err)
	assets, err := store.NewAssetStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		Auth:      config.AuthConfig{Password: password, SessionTTL: time.Hour},
		RateLimit: rl,
	}
	sessions := middleware.NewSessionStore(cfg.Auth.SessionTTL)
	return NewRouter(fixtureRenderer{}, fixtureProber{}, reports, assets, sessions, cfg, time.Now())
}

func wideOpenLimit() config.RateLimitConfig {
	return config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000}
}

func TestRouter_HealthIsOpen(t *testing.T) {
	r := newTestRouter(t, "hunter2", wideOpenLimit())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, Version, resp.Version)
}

func TestRouter_SessionGate(t *testing.T) {
	r := newTestRouter(t, "hunter2", wideOpenLimit())

	// No credentials.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong bearer password.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct bearer password.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.Header.Set("Authorization", "Bearer hunter2")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_LoginSessionLogout(t *testing.T) {
	r := newTestRouter(t, "hunter2", wideOpenLimit())

	// Login issues the session cookie.
	body, _ := json.Marshal(models.LoginRequest{Password: "hunter2"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			session = ck
		}
	}
	require.NotNil(t, session, "login must set the session cookie")
	require.NotEmpty(t, session.Value)

	// The cookie opens the API.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Logout revokes it.
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
	req.AddCookie(session)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_WrongPassword(t *testing.T) {
	r := newTestRouter(t, "hunter2", wideOpenLimit())

	body, _ := json.Marshal(models.LoginRequest{Password: "nope"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_OpenAccessWithoutPassword(t *testing.T) {
	r := newTestRouter(t, "", wideOpenLimit())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	r := newTestRouter(t, "", config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeRateLimited, resp.Error.Code)
}
