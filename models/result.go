package models

// SmartLinkResult is the extraction result for a release smart-link page.
// Every field defaults independently; a page that yields nothing at all is
// still a valid (empty) result.
type SmartLinkResult struct {
	// Title and Artist are split from the page's og:title on the first " - ".
	Title  string `json:"title"`
	Artist string `json:"artist"`

	// ArtworkURL is the square release artwork resolved from the player
	// background, falling back to og:image (which may be a banner crop).
	ArtworkURL string `json:"artwork_url"`

	// BlurredURL is a derived CDN variant of ArtworkURL with crop/scale/blur
	// transform parameters, suitable as a report hero background. Empty when
	// the artwork is not hosted on the known CDN.
	BlurredURL string `json:"blurred_url,omitempty"`

	Screenshot string `json:"screenshot,omitempty"`
	SourceURL  string `json:"source_url"`
}

// AnalyticsResult is the extraction result for a release analytics dashboard.
type AnalyticsResult struct {
	ReleaseTitle string `json:"release_title"`
	DateRange    string `json:"date_range"`
	ReleaseLink  string `json:"release_link"`
	ArtworkURL   string `json:"artwork_url"`

	Overview  Overview         `json:"overview"`
	Referrals []ReferralMetric `json:"referrals"`
	Services  []ServiceMetric  `json:"services"`
	Countries []CountryMetric  `json:"countries"`

	Screenshot string `json:"screenshot,omitempty"`
	SourceURL  string `json:"source_url"`
}

// ArticleResult is the extraction result for a press-article page.
type ArticleResult struct {
	SiteName  string `json:"site_name"`
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	HeroImage string `json:"hero_image"`
	Logo      string `json:"logo"`

	// Content is the readable article body converted to Markdown. Best
	// effort; empty when the body could not be located.
	Content string `json:"content,omitempty"`

	Screenshot string `json:"screenshot,omitempty"`
	SourceURL  string `json:"source_url"`
}

// PlaylistResult is the extraction result for a streaming playlist page.
type PlaylistResult struct {
	Name          string `json:"name"`
	Curator       string `json:"curator"`
	CuratorAvatar string `json:"curator_avatar"`
	Followers     int    `json:"followers"`
	CoverImage    string `json:"cover_image"`

	Screenshot string `json:"screenshot,omitempty"`
	SourceURL  string `json:"source_url"`
}
