package extract

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/dittomusic-JK/promo-report-dashboard/catalogue"
	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

// secondLevelTLDs lists registry labels that sit under a country TLD, so
// "example.co.uk" yields "example" rather than "co".
var secondLevelTLDs = map[string]struct{}{
	"co": {}, "com": {}, "net": {}, "org": {}, "gov": {}, "ac": {}, "edu": {},
}

// Article reads press-article metadata from a rendered page. Every field
// runs its own cascade; a page with no Open Graph tags still yields a
// best-effort record from the DOM.
func Article(s *render.Snapshot) *models.ArticleResult {
	res := &models.ArticleResult{SourceURL: s.URL().String()}

	res.SiteName = first("site_name",
		try("og:site_name", func() string {
			return metaProperty(s, "og:site_name")
		}),
		try("domain-label", func() string {
			return capitalize(registrableLabel(s.URL().Hostname()))
		}),
	)

	res.Title = first("title",
		try("og:title", func() string {
			return metaProperty(s, "og:title")
		}),
		try("first-heading", func() string {
			return collapseSpace(s.FindMatcher(catalogue.Headings).First().Text())
		}),
		try("document-title", func() string {
			return collapseSpace(s.Find("title").First().Text())
		}),
	)

	res.Excerpt = first("excerpt",
		try("og:description", func() string {
			return metaProperty(s, "og:description")
		}),
		try("meta-description", func() string {
			return metaName(s, "description")
		}),
		try("first-paragraph", func() string {
			found := ""
			s.FindMatcher(catalogue.ArticleParagraphs).EachWithBreak(func(_ int, p *goquery.Selection) bool {
				txt := collapseSpace(p.Text())
				if len([]rune(txt)) > 50 {
					found = truncate(txt, 200)
					return false
				}
				return true
			})
			return found
		}),
	)

	hero := first("hero_image",
		try("og:image", func() string {
			return metaProperty(s, "og:image")
		}),
		try("article-img", func() string {
			src, _ := s.FindMatcher(catalogue.ArticleImages).First().Attr("src")
			return src
		}),
	)
	res.HeroImage = s.Resolve(hero)
	res.Logo = s.Resolve(first("logo", attrCandidates(s, catalogue.LogoSelectors)...))

	res.Content = readableContent(s)

	return res
}

// attrCandidates turns an ordered attribute-selector table into cascade
// candidates.
func attrCandidates(s *render.Snapshot, table []catalogue.AttrSelector) []Candidate[string] {
	cands := make([]Candidate[string], 0, len(table))
	for _, as := range table {
		cands = append(cands, try(as.Name, func() string {
			v, _ := s.FindMatcher(as.Sel).First().Attr(as.Attr)
			return v
		}))
	}
	return cands
}

// registrableLabel returns the registrable part of a host: "blog.nme.com"
// gives "nme", "example.co.uk" gives "example".
func registrableLabel(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	parts := strings.Split(host, ".")
	switch {
	case len(parts) >= 3:
		if _, ok := secondLevelTLDs[parts[len(parts)-2]]; ok {
			return parts[len(parts)-3]
		}
		return parts[len(parts)-2]
	case len(parts) == 2:
		return parts[0]
	default:
		return host
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
