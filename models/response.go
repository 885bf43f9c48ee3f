package models

// ExtractResponse is the response for POST /api/v1/extract.
type ExtractResponse struct {
	// Success indicates whether realization and extraction completed.
	Success bool `json:"success"`

	// Source echoes the requested pipeline.
	Source string `json:"source,omitempty"`

	// Data is the typed extraction result (one of the *Result structs).
	Data any `json:"data,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// RenderMs is the time spent navigating, settling and scrolling.
	RenderMs int64 `json:"render_ms"`

	// ExtractMs is the time spent running cascades and the screenshot.
	ExtractMs int64 `json:"extract_ms"`
}

// ReportListResponse is the response for GET /api/v1/reports.
type ReportListResponse struct {
	Reports []ReportSummary `json:"reports"`
	Total   int             `json:"total"`
}

// VerifyResponse is the response for POST /api/v1/verify.
type VerifyResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	FinalURL   string `json:"final_url"`
	Title      string `json:"title"`

	// NeedsBrowser reports whether the page looks like it requires JS
	// rendering before extraction would find anything useful.
	NeedsBrowser bool `json:"needs_browser"`

	Error *ErrorDetail `json:"error,omitempty"`
}

// UploadResponse is the response for POST /api/v1/uploads.
type UploadResponse struct {
	Success bool         `json:"success"`
	URL     string       `json:"url,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorResponse is the generic failure envelope used by middleware and by
// handlers with no richer payload.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
