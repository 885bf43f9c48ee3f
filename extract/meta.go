package extract

import (
	"strings"

	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

// metaProperty returns the content of the first <meta property="..."> tag,
// trimmed, or "" when absent. Open Graph tags use the property attribute.
func metaProperty(s *render.Snapshot, prop string) string {
	v, _ := s.Find(`meta[property="` + prop + `"]`).Attr("content")
	return strings.TrimSpace(v)
}

// metaName is metaProperty for plain <meta name="..."> tags.
func metaName(s *render.Snapshot, name string) string {
	v, _ := s.Find(`meta[name="` + name + `"]`).Attr("content")
	return strings.TrimSpace(v)
}
