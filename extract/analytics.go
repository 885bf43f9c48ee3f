package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dittomusic-JK/promo-report-dashboard/catalogue"
	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

// The dashboard exposes no API, so every figure is pattern-matched out of
// the flattened visible text against the fixed catalogues. The positional
// group order in each pattern mirrors how the dashboard currently renders
// its table rows and breaks when that rendering changes; treat the
// patterns as configuration to maintain, not logic to generalize.
var (
	referralPatterns = compileReferralPatterns()
	servicePatterns  = compileServicePatterns()
	countryPatterns  = compileCountryPatterns()
	titleNoiseRe     = compileTitleNoise()

	overviewPatterns = struct {
		totalVisits, uniqueUsers, serviceClicks labelPattern
	}{
		totalVisits:   compileLabelPattern(catalogue.OverviewLabels.TotalVisits),
		uniqueUsers:   compileLabelPattern(catalogue.OverviewLabels.UniqueUsers),
		serviceClicks: compileLabelPattern(catalogue.OverviewLabels.ServiceClicks),
	}

	reDateRange = regexp.MustCompile(
		`[A-Z][a-z]{2} \d{1,2}, \d{4}\s*[-–—]\s*[A-Z][a-z]{2} \d{1,2}, \d{4}`)
)

type namedPattern struct {
	name string
	re   *regexp.Regexp
}

type servicePattern struct {
	name string
	icon string
	re   *regexp.Regexp
}

// labelPattern matches an overview figure rendered either above or after
// its label phrase. The value-first form wins when both occur.
type labelPattern struct {
	before *regexp.Regexp
	after  *regexp.Regexp
}

func compileLabelPattern(label string) labelPattern {
	q := regexp.QuoteMeta(label)
	return labelPattern{
		before: regexp.MustCompile(`(?i)(\d[\d,]*)\s*` + q),
		after:  regexp.MustCompile(`(?i)` + q + `\s*:?\s*(\d[\d,]*)`),
	}
}

func (p labelPattern) find(text string) int {
	if m := p.before.FindStringSubmatch(text); m != nil {
		return parseCount(m[1])
	}
	if m := p.after.FindStringSubmatch(text); m != nil {
		return parseCount(m[1])
	}
	return 0
}

// Referral rows render five figures after the source name: visits, visit
// share, song previews, preview share, clicks through to a service.
func compileReferralPatterns() []namedPattern {
	out := make([]namedPattern, 0, len(catalogue.Referrers))
	for _, name := range catalogue.Referrers {
		out = append(out, namedPattern{
			name: name,
			re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name) +
				`\s+(\d[\d,]*)\s+([\d.]+)\s*%\s+(\d[\d,]*)\s+([\d.]+)\s*%\s+(\d[\d,]*)`),
		})
	}
	return out
}

// Service rows render a click count directly after the service name, with
// an optional parenthesized share. The tight \s+ filler keeps "YouTube"
// from matching inside a "YouTube Music" row.
func compileServicePatterns() []servicePattern {
	out := make([]servicePattern, 0, len(catalogue.Services))
	for _, svc := range catalogue.Services {
		out = append(out, servicePattern{
			name: svc.Name,
			icon: svc.Icon,
			re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(svc.Name) +
				`\s+(\d[\d,]*)(?:\s*\(?\s*([\d.]+)\s*%\)?)?`),
		})
	}
	return out
}

// Country rows may render a flag glyph or region code between the name and
// the visit count, hence the non-digit filler.
func compileCountryPatterns() []namedPattern {
	out := make([]namedPattern, 0, len(catalogue.Countries))
	for _, name := range catalogue.Countries {
		out = append(out, namedPattern{
			name: name,
			re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name) +
				`\D*?(\d[\d,]*)(?:\s*\(?\s*([\d.]+)\s*%\)?)?`),
		})
	}
	return out
}

func compileTitleNoise() *regexp.Regexp {
	quoted := make([]string, len(catalogue.TitleNoise))
	for i, t := range catalogue.TitleNoise {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// Analytics recovers the dashboard's figures from a rendered, fully
// scrolled snapshot. Catalogue entries that never match, or match with a
// zero count, are left out; absent overview figures stay zero. An entirely
// empty result is a valid outcome, not an error.
func Analytics(s *render.Snapshot) *models.AnalyticsResult {
	text := s.Text()

	res := &models.AnalyticsResult{
		SourceURL: s.URL().String(),
		Overview: models.Overview{
			TotalVisits:   overviewPatterns.totalVisits.find(text),
			UniqueUsers:   overviewPatterns.uniqueUsers.find(text),
			ServiceClicks: overviewPatterns.serviceClicks.find(text),
		},
	}

	res.Referrals = extractReferrals(text)
	res.Services = extractServices(text)
	res.Countries = extractCountries(text, res.Overview.TotalVisits)

	res.ReleaseTitle = releaseTitle(text)
	res.DateRange = dateRange(s)
	res.ReleaseLink = releaseLink(s)
	res.ArtworkURL = releaseArtwork(s)

	return res
}

func extractReferrals(text string) []models.ReferralMetric {
	out := []models.ReferralMetric{}
	for _, p := range referralPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		visits := parseCount(m[1])
		if visits == 0 {
			continue
		}
		out = append(out, models.ReferralMetric{
			Source:          p.name,
			Visits:          visits,
			VisitPercent:    m[2] + "%",
			Previews:        parseCount(m[3]),
			PreviewPercent:  m[4] + "%",
			ClicksToService: parseCount(m[5]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Visits > out[j].Visits })
	return out
}

func extractServices(text string) []models.ServiceMetric {
	out := []models.ServiceMetric{}
	seen := make(map[string]struct{})
	total := 0
	for _, p := range servicePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		clicks := parseCount(m[1])
		if clicks == 0 {
			continue
		}
		if _, dup := seen[p.name]; dup {
			continue
		}
		seen[p.name] = struct{}{}

		sm := models.ServiceMetric{Name: p.name, Icon: p.icon, Clicks: clicks}
		if m[2] != "" {
			sm.Percentage = m[2] + "%"
		}
		out = append(out, sm)
		total += clicks
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Clicks > out[j].Clicks })
	for i := range out {
		if out[i].Percentage == "" {
			out[i].Percentage = percentOf(out[i].Clicks, total)
		}
	}
	return out
}

// extractCountries backfills missing shares against the overview's total
// visits when known, else against the sum of matched country visits.
func extractCountries(text string, totalVisits int) []models.CountryMetric {
	out := []models.CountryMetric{}
	seen := make(map[string]struct{})
	sum := 0
	for _, p := range countryPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		visits := parseCount(m[1])
		if visits == 0 {
			continue
		}
		if _, dup := seen[p.name]; dup {
			continue
		}
		seen[p.name] = struct{}{}

		cm := models.CountryMetric{Name: p.name, Visits: visits}
		if m[2] != "" {
			cm.Percentage = m[2] + "%"
		}
		out = append(out, cm)
		sum += visits
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Visits > out[j].Visits })

	base := totalVisits
	if base <= 0 {
		base = sum
	}
	for i := range out {
		if out[i].Percentage == "" {
			out[i].Percentage = percentOf(out[i].Visits, base)
		}
	}
	return out
}

// releaseTitle recovers the release name from the page header. The header
// always ends at the release's own smart-link address; everything before
// it, minus chrome labels, is the title.
func releaseTitle(text string) string {
	head := text
	if len(head) > 500 {
		head = head[:500]
	}
	idx := strings.Index(head, catalogue.LinkDomain)
	if idx < 0 {
		return ""
	}
	return collapseSpace(titleNoiseRe.ReplaceAllString(head[:idx], " "))
}

// dateRange finds the reporting-period widget. The child-count guard keeps
// an outer container that merely contains the dates among other content
// from shadowing the widget itself.
func dateRange(s *render.Snapshot) string {
	found := ""
	s.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if el.Children().Length() >= 3 {
			return true
		}
		if m := reDateRange.FindString(el.Text()); m != "" {
			found = m
			return false
		}
		return true
	})
	return found
}

func releaseLink(s *render.Snapshot) string {
	href := ""
	s.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if h, _ := a.Attr("href"); strings.Contains(h, catalogue.LinkDomain) {
			href = h
			return false
		}
		return true
	})
	return s.Resolve(href)
}

func releaseArtwork(s *render.Snapshot) string {
	src := ""
	s.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		imgSrc, _ := img.Attr("src")
		alt, _ := img.Attr("alt")
		hay := strings.ToLower(imgSrc + " " + alt)
		for _, kw := range catalogue.ArtworkKeywords {
			if strings.Contains(hay, kw) {
				src = imgSrc
				return false
			}
		}
		return true
	})
	return s.Resolve(src)
}
