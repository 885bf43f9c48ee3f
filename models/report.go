package models

import "time"

// Section pairs one source URL with either its extraction result or the
// hard failure that prevented one. A failed section never fails the report
// it belongs to.
type Section[T any] struct {
	SourceURL string       `json:"source_url"`
	Result    *T           `json:"result,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
}

// Report is a stored promo report: one optional smart-link and analytics
// section plus any number of article and playlist sections, assembled from
// independent extraction runs.
type Report struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SmartLink *Section[SmartLinkResult] `json:"smartlink,omitempty"`
	Analytics *Section[AnalyticsResult] `json:"analytics,omitempty"`
	Articles  []Section[ArticleResult]  `json:"articles,omitempty"`
	Playlists []Section[PlaylistResult] `json:"playlists,omitempty"`

	// Attachments are asset URLs uploaded by the user (extra press shots,
	// banners) and shown alongside the extracted sections.
	Attachments []string `json:"attachments,omitempty"`
}

// SectionCounts tallies how many sections succeeded and failed, used in
// list summaries and webhook payloads.
func (r *Report) SectionCounts() (ok, failed int) {
	count := func(errDetail *ErrorDetail) {
		if errDetail != nil {
			failed++
		} else {
			ok++
		}
	}
	if r.SmartLink != nil {
		count(r.SmartLink.Error)
	}
	if r.Analytics != nil {
		count(r.Analytics.Error)
	}
	for _, a := range r.Articles {
		count(a.Error)
	}
	for _, p := range r.Playlists {
		count(p.Error)
	}
	return ok, failed
}

// ReportSummary is the list-view projection of a Report.
type ReportSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	SectionsOK int       `json:"sections_ok"`
	SectionsKO int       `json:"sections_failed"`
}

// Summary builds the list-view projection.
func (r *Report) Summary() ReportSummary {
	ok, failed := r.SectionCounts()
	return ReportSummary{
		ID:         r.ID,
		Title:      r.Title,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		SectionsOK: ok,
		SectionsKO: failed,
	}
}
