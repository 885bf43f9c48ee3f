package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

// analyticsFixture mirrors the dashboard layout: header with the release
// name and its smart-link address, reporting period, overview figures with
// the value above the label, then referral, service and country tables.
const analyticsFixture = `<html>
<head><title>Midnight Drive | Analytics</title></head>
<body>
<header>
  <div>Overview</div>
  <h1>Midnight Drive</h1>
  <a href="https://ditto.fm/midnight-drive">ditto.fm/midnight-drive</a>
  <p class="range">Aug 1, 2025 - Aug 31, 2025</p>
</header>
<img src="https://res.cloudinary.com/ditto/image/upload/v5/midnight-artwork.jpg" alt="Midnight Drive artwork">
<section class="stats">
  <div><span>1,234</span><span>Total Visits</span></div>
  <div><span>987</span><span>Unique Users</span></div>
  <div><span>456</span><span>Clicks to Service</span></div>
</section>
<table class="referrals">
  <tr><td>Facebook</td><td>600</td><td>48.6%</td><td>120</td><td>9.7%</td><td>60</td></tr>
  <tr><td>Direct</td><td>400</td><td>32.4%</td><td>80</td><td>6.5%</td><td>40</td></tr>
  <tr><td>TikTok</td><td>0</td><td>0.0%</td><td>0</td><td>0.0%</td><td>0</td></tr>
</table>
<section class="services">
  <div>Spotify 60</div>
  <div>Apple Music 40</div>
  <div>Deezer 0</div>
</section>
<ul class="countries">
  <li>United States 500 (40.5%)</li>
  <li>Germany 300</li>
  <li>France 0</li>
</ul>
</body>
</html>`

func analyticsSnapshot(t *testing.T, rawHTML string) *render.Snapshot {
	t.Helper()
	snap, err := render.FromHTML(rawHTML, "https://app.dittomusic.com/analytics/midnight-drive")
	require.NoError(t, err)
	return snap
}

func TestAnalytics_FullDashboard(t *testing.T) {
	res := Analytics(analyticsSnapshot(t, analyticsFixture))

	assert.Equal(t, "Midnight Drive", res.ReleaseTitle)
	assert.Equal(t, "Aug 1, 2025 - Aug 31, 2025", res.DateRange)
	assert.Equal(t, "https://ditto.fm/midnight-drive", res.ReleaseLink)
	assert.Equal(t, "https://res.cloudinary.com/ditto/image/upload/v5/midnight-artwork.jpg", res.ArtworkURL)

	assert.Equal(t, 1234, res.Overview.TotalVisits)
	assert.Equal(t, 987, res.Overview.UniqueUsers)
	assert.Equal(t, 456, res.Overview.ServiceClicks)

	require.Len(t, res.Referrals, 2, "zero-visit referrers must be dropped")
	assert.Equal(t, "Facebook", res.Referrals[0].Source)
	assert.Equal(t, 600, res.Referrals[0].Visits)
	assert.Equal(t, "48.6%", res.Referrals[0].VisitPercent)
	assert.Equal(t, 120, res.Referrals[0].Previews)
	assert.Equal(t, "9.7%", res.Referrals[0].PreviewPercent)
	assert.Equal(t, 60, res.Referrals[0].ClicksToService)
	assert.Equal(t, "Direct", res.Referrals[1].Source)
	assert.Equal(t, 400, res.Referrals[1].Visits)

	require.Len(t, res.Services, 2, "zero-click services must be dropped")
	assert.Equal(t, "Spotify", res.Services[0].Name)
	assert.Equal(t, 60, res.Services[0].Clicks)
	assert.Equal(t, "60.0%", res.Services[0].Percentage)
	assert.Equal(t, "Apple Music", res.Services[1].Name)
	assert.Equal(t, 40, res.Services[1].Clicks)
	assert.Equal(t, "40.0%", res.Services[1].Percentage)

	require.Len(t, res.Countries, 2, "zero-visit countries must be dropped")
	assert.Equal(t, "United States", res.Countries[0].Name)
	assert.Equal(t, 500, res.Countries[0].Visits)
	assert.Equal(t, "40.5%", res.Countries[0].Percentage, "explicit share is kept")
	assert.Equal(t, "Germany", res.Countries[1].Name)
	assert.Equal(t, 300, res.Countries[1].Visits)
	assert.Equal(t, "24.3%", res.Countries[1].Percentage, "missing share backfills from total visits")
}

func TestAnalytics_DescendingOrder(t *testing.T) {
	res := Analytics(analyticsSnapshot(t, analyticsFixture))

	for i := 1; i < len(res.Referrals); i++ {
		assert.GreaterOrEqual(t, res.Referrals[i-1].Visits, res.Referrals[i].Visits)
	}
	for i := 1; i < len(res.Services); i++ {
		assert.GreaterOrEqual(t, res.Services[i-1].Clicks, res.Services[i].Clicks)
	}
	for i := 1; i < len(res.Countries); i++ {
		assert.GreaterOrEqual(t, res.Countries[i-1].Visits, res.Countries[i].Visits)
	}
}

// Two extractions of the same fixture must produce identical output.
func TestAnalytics_Deterministic(t *testing.T) {
	first, err := json.Marshal(Analytics(analyticsSnapshot(t, analyticsFixture)))
	require.NoError(t, err)
	second, err := json.Marshal(Analytics(analyticsSnapshot(t, analyticsFixture)))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestAnalytics_EmptyPage(t *testing.T) {
	res := Analytics(analyticsSnapshot(t, `<html><body><p>nothing to see</p></body></html>`))

	assert.Equal(t, 0, res.Overview.TotalVisits)
	assert.Equal(t, 0, res.Overview.UniqueUsers)
	assert.Equal(t, 0, res.Overview.ServiceClicks)
	assert.Empty(t, res.Referrals)
	assert.Empty(t, res.Services)
	assert.Empty(t, res.Countries)
	assert.Equal(t, "", res.ReleaseTitle)
	assert.Equal(t, "", res.DateRange)
	assert.Equal(t, "", res.ReleaseLink)
	assert.Equal(t, "", res.ArtworkURL)
}

func TestAnalytics_OverviewLabelAdjacency(t *testing.T) {
	res := Analytics(analyticsSnapshot(t, `<html><body><p>1234 Total Visits</p></body></html>`))
	assert.Equal(t, 1234, res.Overview.TotalVisits)

	res = Analytics(analyticsSnapshot(t, `<html><body><p>plenty of words, no figures</p></body></html>`))
	assert.Equal(t, 0, res.Overview.TotalVisits)
}

func TestOverviewLabelPattern(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"1234 Total Visits", 1234},
		{"1,234\nTotal Visits", 1234},
		{"Total Visits: 88", 88},
		{"Total Visits\n88", 88},
		{"no label here", 0},
		{"Total Visits pending", 0},
	}

	for _, tt := range tests {
		got := overviewPatterns.totalVisits.find(tt.text)
		assert.Equal(t, tt.want, got, "text %q", tt.text)
	}
}

func TestExtractServices_BackfillsPercentages(t *testing.T) {
	out := extractServices("Spotify 60\nApple Music 40")

	require.Len(t, out, 2)
	assert.Equal(t, "60.0%", out[0].Percentage)
	assert.Equal(t, "40.0%", out[1].Percentage)
}

func TestExtractServices_KeepsExplicitPercentage(t *testing.T) {
	out := extractServices("Spotify 75 (75.0%)\nDeezer 25")

	require.Len(t, out, 2)
	assert.Equal(t, "Spotify", out[0].Name)
	assert.Equal(t, "75.0%", out[0].Percentage)
	assert.Equal(t, "Deezer", out[1].Name)
	assert.Equal(t, "25.0%", out[1].Percentage, "missing share backfills from the click sum")
}

func TestExtractServices_ZeroClicksExcluded(t *testing.T) {
	assert.Empty(t, extractServices("Spotify 0\nTidal 0"))
}

// A bare "YouTube Music" row must not also produce a "YouTube" entry.
func TestExtractServices_LongerLabelClaimsRow(t *testing.T) {
	out := extractServices("YouTube Music 500")

	require.Len(t, out, 1)
	assert.Equal(t, "YouTube Music", out[0].Name)
	assert.Equal(t, 500, out[0].Clicks)
}

func TestExtractReferrals_SortedAndFiltered(t *testing.T) {
	out := extractReferrals("Instagram 10 5.0% 2 1.0% 1\nGoogle 90 45.0% 10 5.0% 8\nBing 0 0.0% 0 0.0% 0")

	require.Len(t, out, 2)
	assert.Equal(t, "Google", out[0].Source)
	assert.Equal(t, 90, out[0].Visits)
	assert.Equal(t, "45.0%", out[0].VisitPercent)
	assert.Equal(t, 8, out[0].ClicksToService)
	assert.Equal(t, "Instagram", out[1].Source)
}

// A referrer row missing any of its five figures does not match at all.
func TestExtractReferrals_PartialRowIgnored(t *testing.T) {
	assert.Empty(t, extractReferrals("Facebook 600 48.6%"))
}

func TestExtractCountries_BackfillFromSumWhenTotalUnknown(t *testing.T) {
	out := extractCountries("Japan 30\nBrazil 70", 0)

	require.Len(t, out, 2)
	assert.Equal(t, "Brazil", out[0].Name)
	assert.Equal(t, "70.0%", out[0].Percentage)
	assert.Equal(t, "Japan", out[1].Name)
	assert.Equal(t, "30.0%", out[1].Percentage)
}

func TestReleaseTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain header", "Midnight Drive\nditto.fm/midnight-drive", "Midnight Drive"},
		{"chrome labels stripped", "Overview\nMidnight Drive\nditto.fm/x", "Midnight Drive"},
		{"multiple labels stripped", "Promote Analytics\nNeon Nights\nditto.fm", "Neon Nights"},
		{"no marker yields nothing", "Midnight Drive and no link anywhere", ""},
		{"empty text", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, releaseTitle(tt.text))
		})
	}
}
