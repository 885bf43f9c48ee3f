package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

const articleOGFixture = `<html lang="en">
<head>
<title>Review: Midnight Drive | NME</title>
<meta property="og:site_name" content="NME">
<meta property="og:title" content="Review: Midnight Drive">
<meta property="og:description" content="A dazzling debut from Aria Vance.">
<meta property="og:image" content="https://cdn.nme.com/hero/midnight.jpg">
<link rel="icon" sizes="32x32" href="/favicon-32.png">
<link rel="apple-touch-icon" href="/touch.png">
</head>
<body>
<article>
<h1>Review: Midnight Drive</h1>
<p>Aria Vance arrives fully formed on Midnight Drive, a record that glides between synthwave shimmer and late-night songwriting with total confidence from the very first track, and holds that nerve across all ten songs without once reaching for an easy hook it has not earned.</p>
<p>The production leans into analogue warmth, all tape hiss and gated drums, but the writing is what carries it: ten songs, no filler, every chorus earning its place, with arrangements that leave room for the voice even when the synths stack four layers deep.</p>
<p>Standouts come early and keep coming. The second track pairs a motorik pulse with her driest vocal take, while the mid-album ballad strips everything back to piano and a single ribbon microphone, a gamble that pays off precisely because the record around it is so dense.</p>
<p>By the time the title track closes the record, the case is made. This is one of the year's most assured debuts and a clear signal of an artist settling in for the long haul, the kind of release that makes a second album feel less like a question and more like a promise.</p>
</article>
</body>
</html>`

func TestArticle_OpenGraphFields(t *testing.T) {
	snap, err := render.FromHTML(articleOGFixture, "https://www.nme.com/reviews/midnight-drive")
	require.NoError(t, err)

	res := Article(snap)

	assert.Equal(t, "NME", res.SiteName)
	assert.Equal(t, "Review: Midnight Drive", res.Title)
	assert.Equal(t, "A dazzling debut from Aria Vance.", res.Excerpt)
	assert.Equal(t, "https://cdn.nme.com/hero/midnight.jpg", res.HeroImage,
		"absolute og:image passes through unchanged")
	assert.Equal(t, "https://www.nme.com/favicon-32.png", res.Logo,
		"sized icon wins and resolves to absolute")
	assert.Equal(t, "https://www.nme.com/reviews/midnight-drive", res.SourceURL)
}

func TestArticle_ReadableContent(t *testing.T) {
	snap, err := render.FromHTML(articleOGFixture, "https://www.nme.com/reviews/midnight-drive")
	require.NoError(t, err)

	res := Article(snap)

	assert.Contains(t, res.Content, "synthwave shimmer")
}

const articleBareFixture = `<html>
<head><title>A Night With Aria Vance - Sound Opinion</title></head>
<body>
<header>
  <img class="site-logo" src="/static/logo.svg">
</header>
<article>
  <h1>A Night With Aria Vance</h1>
  <p>Short opener.</p>
  <p>` + longParagraph + `</p>
  <img src="/img/live.jpg" alt="live shot">
</article>
</body>
</html>`

const longParagraph = "The lights went down at nine sharp and for the next two hours the room belonged entirely to her, a set built from the new record but rearranged live, stretched and bent until even the singles felt like discoveries, the crowd singing parts back before she reached them."

func TestArticle_DOMFallbacks(t *testing.T) {
	snap, err := render.FromHTML(articleBareFixture, "https://blog.soundopinion.co.uk/live/aria-vance")
	require.NoError(t, err)

	res := Article(snap)

	assert.Equal(t, "Soundopinion", res.SiteName,
		"no og:site_name falls back to the capitalized registrable label")
	assert.Equal(t, "A Night With Aria Vance", res.Title,
		"no og:title falls back to the first heading")
	assert.True(t, strings.HasSuffix(res.Excerpt, "..."),
		"long paragraph excerpt is cut with an ellipsis, got %q", res.Excerpt)
	assert.LessOrEqual(t, len([]rune(res.Excerpt)), 203)
	assert.Equal(t, "https://blog.soundopinion.co.uk/img/live.jpg", res.HeroImage,
		"relative article image resolves against the page URL")
	assert.Equal(t, "https://blog.soundopinion.co.uk/static/logo.svg", res.Logo,
		"logo-class image wins when no icon links exist")
}

func TestArticle_ShortParagraphsSkipped(t *testing.T) {
	snap, err := render.FromHTML(`<html><body>
<article><p>Too short.</p><p>Also brief.</p></article>
</body></html>`, "https://example.com/post")
	require.NoError(t, err)

	res := Article(snap)

	assert.Equal(t, "", res.Excerpt, "paragraphs of 50 characters or fewer never become the excerpt")
}

func TestArticle_DocumentTitleFallback(t *testing.T) {
	snap, err := render.FromHTML(`<html>
<head><title>Plain Page Title</title></head>
<body><p>no headings on this page</p></body>
</html>`, "https://example.com/post")
	require.NoError(t, err)

	res := Article(snap)

	assert.Equal(t, "Plain Page Title", res.Title)
}

func TestRegistrableLabel(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.nme.com", "nme"},
		{"nme.com", "nme"},
		{"blog.soundopinion.co.uk", "soundopinion"},
		{"music.example.org", "example"},
		{"example.ac.jp", "example"},
		{"localhost", "localhost"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, registrableLabel(tt.host), "host %q", tt.host)
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Nme", capitalize("nme"))
	assert.Equal(t, "Already", capitalize("Already"))
	assert.Equal(t, "", capitalize(""))
}
