package catalogue

import "github.com/andybalholm/cascadia"

// AttrSelector pairs a compiled CSS selector with the attribute carrying
// the value of interest on matched elements. Name labels the entry in
// cascade debug logs.
type AttrSelector struct {
	Name string
	Sel  cascadia.Selector
	Attr string
}

// Selectors are compiled once at package load; a malformed entry fails fast
// at startup rather than silently matching nothing. cascadia.Selector
// implements goquery.Matcher, so these plug straight into FindMatcher.
var (
	// SmartLinkPlayer is the smart-link player's background element, whose
	// inline style carries the square artwork.
	SmartLinkPlayer = cascadia.MustCompile(`div.player-background`)

	// InlineBackgrounds matches any element with an inline background style.
	InlineBackgrounds = cascadia.MustCompile(`[style*="background"]`)

	// ArticleParagraphs locates candidate excerpt paragraphs inside the
	// containers press sites use for body copy, in matching order.
	ArticleParagraphs = cascadia.MustCompile(
		`article p, main p, .post-content p, .entry-content p, .article-body p, #content p`)

	// ArticleImages locates candidate hero images inside the same containers.
	ArticleImages = cascadia.MustCompile(
		`article img, main img, .post-content img, .entry-content img, .article-body img, figure img`)

	// Headings matches the heading elements considered for titles and
	// playlist names, in document order.
	Headings = cascadia.MustCompile(`h1, h2`)

	// PlaylistEntityTitle is the platform's own title-bearing element.
	PlaylistEntityTitle = cascadia.MustCompile(`[data-testid="entityTitle"]`)

	// PlaylistUserAnchor matches curator profile links.
	PlaylistUserAnchor = cascadia.MustCompile(`a[href*="/user/"]`)
)

// LogoSelectors is the ordered cascade for a site's logo or icon. Earlier
// entries are more specific; the first match wins.
var LogoSelectors = []AttrSelector{
	{Name: "sized-icon", Sel: cascadia.MustCompile(`link[rel="icon"][sizes]`), Attr: "href"},
	{Name: "touch-icon", Sel: cascadia.MustCompile(`link[rel="apple-touch-icon"]`), Attr: "href"},
	{Name: "shortcut-icon", Sel: cascadia.MustCompile(`link[rel="shortcut icon"]`), Attr: "href"},
	{Name: "icon", Sel: cascadia.MustCompile(`link[rel="icon"]`), Attr: "href"},
	{Name: "logo-class-img", Sel: cascadia.MustCompile(`img[class*="logo"]`), Attr: "src"},
	{Name: "header-img", Sel: cascadia.MustCompile(`header img`), Attr: "src"},
	{Name: "home-link-img", Sel: cascadia.MustCompile(`a[href="/"] img`), Attr: "src"},
}
