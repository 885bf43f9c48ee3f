package models

// Source identifiers accepted by the extraction API.
const (
	SourceSmartLink = "smartlink"
	SourceAnalytics = "analytics"
	SourceArticle   = "article"
	SourcePlaylist  = "playlist"
)

// ExtractRequest is the payload for POST /api/v1/extract.
type ExtractRequest struct {
	// URL is the page to extract from. Required.
	URL string `json:"url" binding:"required,url"`

	// Source selects the extraction pipeline. Required.
	Source string `json:"source" binding:"required,oneof=smartlink analytics article playlist"`

	// Scroll forces the progressive-scroll pass on or off. When unset,
	// scrolling runs for analytics sources only (the dashboard lazy-loads
	// its tables on scroll).
	Scroll *bool `json:"scroll,omitempty"`

	// Timeout is the navigation deadline in seconds. Default: 30. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// ViewportWidth and ViewportHeight override the emulated viewport for
	// this call. Zero keeps the configured defaults.
	ViewportWidth  int `json:"viewport_width,omitempty" binding:"omitempty,min=320,max=3840"`
	ViewportHeight int `json:"viewport_height,omitempty" binding:"omitempty,min=240,max=2400"`
}

// WantScroll reports whether the realizer should run the scroll pass.
func (r *ExtractRequest) WantScroll() bool {
	if r.Scroll != nil {
		return *r.Scroll
	}
	return r.Source == SourceAnalytics
}

// Defaults applies default values to unset fields.
func (r *ExtractRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 30
	}
}

// ReportRequest is the payload for POST /api/v1/reports. At least one
// source URL must be present.
type ReportRequest struct {
	Title        string   `json:"title"`
	Notes        string   `json:"notes,omitempty"`
	SmartLinkURL string   `json:"smartlink_url,omitempty" binding:"omitempty,url"`
	AnalyticsURL string   `json:"analytics_url,omitempty" binding:"omitempty,url"`
	ArticleURLs  []string `json:"article_urls,omitempty" binding:"omitempty,dive,url"`
	PlaylistURLs []string `json:"playlist_urls,omitempty" binding:"omitempty,dive,url"`
}

// HasSources reports whether the request names at least one page to extract.
func (r *ReportRequest) HasSources() bool {
	return r.SmartLinkURL != "" || r.AnalyticsURL != "" ||
		len(r.ArticleURLs) > 0 || len(r.PlaylistURLs) > 0
}

// ReportUpdateRequest is the payload for PUT /api/v1/reports/:id. Only the
// presentation fields are mutable; extracted sections are replaced by
// re-running the report, never edited in place.
type ReportUpdateRequest struct {
	Title       string   `json:"title"`
	Notes       string   `json:"notes"`
	Attachments []string `json:"attachments"`
}

// VerifyRequest is the payload for POST /api/v1/verify.
type VerifyRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}
