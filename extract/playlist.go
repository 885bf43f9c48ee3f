package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dittomusic-JK/promo-report-dashboard/catalogue"
	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

var (
	// Document titles render as "Name - playlist by Curator | Spotify" or
	// "Name – Spotify"; either dash form bounds the name.
	rePlaylistTitle = regexp.MustCompile(`(?i)^(.+?)\s*[-–—]\s*playlist\b`)
	rePlatformTitle = regexp.MustCompile(`(?i)^(.+?)\s*[-–—]\s*spotify\b`)

	reFollowers = regexp.MustCompile(`(?i)(\d[\d,.]*)\s*(?:likes|saves|followers)`)
)

// Playlist reads a playlist's name, curator and cover from a rendered
// playlist page. Cover selection works through strict priority tiers
// because the page routinely serves the curator's avatar through the same
// CDN and og:image slot as the cover.
func Playlist(s *render.Snapshot) *models.PlaylistResult {
	res := &models.PlaylistResult{SourceURL: s.URL().String()}

	res.Name = first("name",
		try("heading", func() string {
			found := ""
			s.FindMatcher(catalogue.Headings).EachWithBreak(func(_ int, h *goquery.Selection) bool {
				txt := collapseSpace(h.Text())
				if txt == "" || isDenylistedName(txt) {
					return true
				}
				found = txt
				return false
			})
			return found
		}),
		try("entity-title", func() string {
			return collapseSpace(s.FindMatcher(catalogue.PlaylistEntityTitle).First().Text())
		}),
		try("document-title", func() string {
			title := collapseSpace(s.Find("title").First().Text())
			if m := rePlaylistTitle.FindStringSubmatch(title); m != nil {
				return m[1]
			}
			if m := rePlatformTitle.FindStringSubmatch(title); m != nil {
				return m[1]
			}
			return ""
		}),
	)

	if anchor := s.FindMatcher(catalogue.PlaylistUserAnchor).First(); anchor.Length() > 0 {
		res.Curator = collapseSpace(anchor.Text())
		if avatar, ok := anchor.Parent().Find("img").First().Attr("src"); ok {
			res.CuratorAvatar = s.Resolve(avatar)
		}
	}

	if m := reFollowers.FindStringSubmatch(s.Text()); m != nil {
		res.Followers = parseCount(m[1])
	}

	res.CoverImage = s.Resolve(first("cover_image",
		try("og:image", func() string {
			u := metaProperty(s, "og:image")
			if u == "" || strings.Contains(u, catalogue.PlaylistAvatarCode) {
				return ""
			}
			return u
		}),
		try("cdn-cover-code", func() string {
			return findImage(s, func(src, _ string) string {
				if strings.Contains(src, catalogue.PlaylistImageCDN) &&
					strings.Contains(src, catalogue.PlaylistCoverCode) {
					return src
				}
				return ""
			})
		}),
		try("cover-or-mosaic", func() string {
			return findImage(s, func(src, srcset string) string {
				if strings.Contains(src, catalogue.PlaylistAvatarCode) {
					return ""
				}
				hay := src + " " + srcset
				if !strings.Contains(hay, catalogue.PlaylistCoverCode) &&
					!strings.Contains(hay, catalogue.MosaicMarker) {
					return ""
				}
				if srcset != "" {
					if u := largestSrcsetVariant(srcset); u != "" {
						return u
					}
				}
				return src
			})
		}),
		try("cdn-non-avatar", func() string {
			return findImage(s, func(src, _ string) string {
				if strings.Contains(src, catalogue.PlaylistImageCDN) &&
					!strings.Contains(src, catalogue.PlaylistAvatarCode) {
					return src
				}
				return ""
			})
		}),
		try("wide-non-avatar", func() string {
			found := ""
			s.Find("img[width]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
				w, _ := strconv.Atoi(img.AttrOr("width", ""))
				src := img.AttrOr("src", "")
				if w >= 100 && src != "" && !strings.Contains(src, catalogue.PlaylistAvatarCode) {
					found = src
					return false
				}
				return true
			})
			return found
		}),
	))

	return res
}

func isDenylistedName(name string) bool {
	for _, d := range catalogue.PlaylistNameDenylist {
		if strings.EqualFold(name, d) {
			return true
		}
	}
	return false
}

// findImage walks every <img> in document order and returns pick's first
// non-empty answer, handing it each image's src and srcset.
func findImage(s *render.Snapshot, pick func(src, srcset string) string) string {
	found := ""
	s.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := img.AttrOr("src", "")
		srcset := img.AttrOr("srcset", "")
		if u := pick(src, srcset); u != "" {
			found = u
			return false
		}
		return true
	})
	return found
}

// largestSrcsetVariant picks the URL of the widest candidate in a srcset
// attribute, so low-resolution thumbnails lose to the full cover.
func largestSrcsetVariant(srcset string) string {
	best, bestW := "", -1
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		w := 0
		if len(fields) > 1 && strings.HasSuffix(fields[1], "w") {
			w, _ = strconv.Atoi(strings.TrimSuffix(fields[1], "w"))
		}
		if w > bestW {
			best, bestW = fields[0], w
		}
	}
	return best
}
