package models

// Metric is a single named count recovered from a page, with an optional
// percentage share. A metric is only kept when its count is greater than
// zero; a missing percentage is backfilled from a known total, formatted to
// one decimal place with a trailing "%".
type Metric struct {
	Name       string `json:"name"`
	Value      int    `json:"value"`
	Percentage string `json:"percentage,omitempty"`
}

// ReferralMetric is one row of the referral-sources table. The dashboard
// renders five numeric columns per referrer in a fixed order; all five are
// captured positionally from the flattened page text.
type ReferralMetric struct {
	Source          string `json:"source"`
	Visits          int    `json:"visits"`
	VisitPercent    string `json:"visit_percent,omitempty"`
	Previews        int    `json:"previews"`
	PreviewPercent  string `json:"preview_percent,omitempty"`
	ClicksToService int    `json:"clicks_to_service"`
}

// ServiceMetric is one row of the streaming-services table.
type ServiceMetric struct {
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	Clicks     int    `json:"clicks"`
	Percentage string `json:"percentage,omitempty"`
}

// CountryMetric is one row of the visits-by-country table.
type CountryMetric struct {
	Name       string `json:"name"`
	Visits     int    `json:"visits"`
	Percentage string `json:"percentage,omitempty"`
}

// Overview holds the three top-line dashboard figures. A figure the page
// does not show stays zero.
type Overview struct {
	TotalVisits   int `json:"total_visits"`
	UniqueUsers   int `json:"unique_users"`
	ServiceClicks int `json:"service_clicks"`
}
