package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dittomusic-JK/promo-report-dashboard/catalogue"
	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

// reCSSURL pulls the reference out of a CSS url(...) token, with or without
// quotes.
var reCSSURL = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)

// SmartLink reads release artwork, title and artist from a rendered
// smart-link page.
//
// Artwork prefers the player's own background because og:image on these
// pages is a wide share banner, not the square cover. Blurred backdrop
// variants are skipped as long as a clean one exists anywhere on the page.
func SmartLink(s *render.Snapshot) *models.SmartLinkResult {
	res := &models.SmartLinkResult{SourceURL: s.URL().String()}

	artwork := first("artwork",
		try("player-background", func() string {
			style, _ := s.FindMatcher(catalogue.SmartLinkPlayer).Attr("style")
			u := cssURL(style)
			if u == "" || !strings.Contains(u, catalogue.AssetHost) {
				return ""
			}
			if strings.Contains(u, catalogue.BlurQuery) {
				return ""
			}
			return u
		}),
		try("background-scan", func() string {
			var hits []string
			s.FindMatcher(catalogue.InlineBackgrounds).Each(func(_ int, el *goquery.Selection) {
				style, _ := el.Attr("style")
				u := cssURL(style)
				if u != "" && strings.Contains(u, catalogue.AssetHost) {
					hits = append(hits, u)
				}
			})
			for _, u := range hits {
				if !strings.Contains(u, catalogue.BlurQuery) {
					return u
				}
			}
			if len(hits) > 0 {
				return hits[0]
			}
			return ""
		}),
		try("og:image", func() string {
			return metaProperty(s, "og:image")
		}),
	)
	res.ArtworkURL = s.Resolve(artwork)
	res.BlurredURL = blurVariant(res.ArtworkURL)

	ogTitle := metaProperty(s, "og:title")
	if i := strings.Index(ogTitle, " - "); i >= 0 {
		res.Title = strings.TrimSpace(ogTitle[:i])
		res.Artist = strings.TrimSpace(ogTitle[i+len(" - "):])
	} else {
		res.Title = ogTitle
	}

	return res
}

// cssURL returns the first url(...) reference in an inline style, or "".
func cssURL(style string) string {
	m := reCSSURL.FindStringSubmatch(style)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// blurVariant derives the square blurred-backdrop URL from a CDN artwork
// URL by splicing the transform chain in after the upload segment (after
// the signature token on signed URLs). Pure string rewrite; no fetch.
// Returns "" for URLs outside the CDN or without the upload segment.
func blurVariant(artworkURL string) string {
	if artworkURL == "" || !strings.Contains(artworkURL, catalogue.AssetHost) {
		return ""
	}
	idx := strings.Index(artworkURL, catalogue.UploadSegment)
	if idx < 0 {
		return ""
	}
	insert := idx + len(catalogue.UploadSegment)

	// Signed URLs carry an s--token-- segment directly after the upload
	// segment; transforms belong after it.
	if rest := artworkURL[insert:]; strings.HasPrefix(rest, "s--") {
		if end := strings.Index(rest[len("s--"):], "--"); end >= 0 {
			insert += len("s--") + end + len("--")
			if insert < len(artworkURL) && artworkURL[insert] == '/' {
				insert++
			}
		}
	}

	return artworkURL[:insert] + catalogue.BlurTransform + artworkURL[insert:]
}
