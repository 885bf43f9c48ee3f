package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dittomusic-JK/promo-report-dashboard/api/handler"
	"github.com/dittomusic-JK/promo-report-dashboard/api/middleware"
	"github.com/dittomusic-JK/promo-report-dashboard/config"
	"github.com/dittomusic-JK/promo-report-dashboard/store"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Session (if password set) → RateLimit
//
// Health, login and the asset directory sit outside the session gate:
// probes must always answer, login is how a session starts, and asset URLs
// are embedded in reports viewed without XHR credentials.
func NewRouter(
	rd handler.Renderer,
	prober handler.Prober,
	reports *store.ReportStore,
	assets *store.AssetStore,
	sessions *middleware.SessionStore,
	cfg *config.Config,
	startTime time.Time,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Open surface.
	r.GET("/health", handler.Health(startTime, Version))
	r.POST("/login", handler.Login(sessions, cfg.Auth.Password, cfg.Auth.SessionTTL))
	r.POST("/logout", handler.Logout(sessions))
	r.Static("/assets", assets.Dir())

	// Protected group: session auth + rate limit.
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Session(sessions, cfg.Auth.Password))
	v1.Use(middleware.RateLimit(cfg.RateLimit))

	// Single extraction
	v1.POST("/extract", handler.Extract(rd, assets))

	// Reports
	v1.POST("/reports", handler.CreateReport(rd, reports, assets, cfg.Webhook))
	v1.GET("/reports", handler.ListReports(reports))
	v1.GET("/reports/:id", handler.GetReport(reports))
	v1.PUT("/reports/:id", handler.UpdateReport(reports, cfg.Webhook))
	v1.DELETE("/reports/:id", handler.DeleteReport(reports, cfg.Webhook))

	// Attachments
	v1.POST("/uploads", handler.Upload(assets))

	// URL preflight
	v1.POST("/verify", handler.Verify(prober))

	return r
}
