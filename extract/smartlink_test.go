package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

func smartLinkSnapshot(t *testing.T, rawHTML string) *render.Snapshot {
	t.Helper()
	snap, err := render.FromHTML(rawHTML, "https://push.ditto.fm/midnight-drive")
	require.NoError(t, err)
	return snap
}

func TestSmartLink_PlayerBackgroundWins(t *testing.T) {
	snap := smartLinkSnapshot(t, `<html><head>
<meta property="og:title" content="Midnight - Aria Vance">
<meta property="og:image" content="https://res.cloudinary.com/ditto/image/upload/v10/banner.jpg">
</head><body>
<div class="player-background" style="background-image: url('https://res.cloudinary.com/ditto/image/upload/v10/cover.jpg')"></div>
</body></html>`)

	res := SmartLink(snap)

	assert.Equal(t, "https://res.cloudinary.com/ditto/image/upload/v10/cover.jpg", res.ArtworkURL)
	assert.Equal(t,
		"https://res.cloudinary.com/ditto/image/upload/c_crop,g_center,ar_1:1/c_scale,w_1200/e_blur:1500/v10/cover.jpg",
		res.BlurredURL)
	assert.Equal(t, "Midnight", res.Title)
	assert.Equal(t, "Aria Vance", res.Artist)
	assert.Equal(t, "https://push.ditto.fm/midnight-drive", res.SourceURL)
}

// A blurred player background must lose to a clean background found
// anywhere else on the page.
func TestSmartLink_PrefersNonBlurredBackground(t *testing.T) {
	snap := smartLinkSnapshot(t, `<html><body>
<div style="background: url('https://res.cloudinary.com/ditto/image/upload/v10/bg.jpg?blur=800') no-repeat"></div>
<section style="background-image: url('https://res.cloudinary.com/ditto/image/upload/v10/clean.jpg')"></section>
</body></html>`)

	res := SmartLink(snap)

	assert.Equal(t, "https://res.cloudinary.com/ditto/image/upload/v10/clean.jpg", res.ArtworkURL)
}

func TestSmartLink_AllBlurredTakesFirst(t *testing.T) {
	snap := smartLinkSnapshot(t, `<html><body>
<div style="background: url('https://res.cloudinary.com/ditto/image/upload/v10/one.jpg?blur=800')"></div>
<div style="background: url('https://res.cloudinary.com/ditto/image/upload/v10/two.jpg?blur=800')"></div>
</body></html>`)

	res := SmartLink(snap)

	assert.Equal(t, "https://res.cloudinary.com/ditto/image/upload/v10/one.jpg?blur=800", res.ArtworkURL)
}

func TestSmartLink_OGImageFallback(t *testing.T) {
	snap := smartLinkSnapshot(t, `<html><head>
<meta property="og:title" content="Midnight">
<meta property="og:image" content="/img/banner.png">
</head><body><p>no backgrounds here</p></body></html>`)

	res := SmartLink(snap)

	assert.Equal(t, "https://push.ditto.fm/img/banner.png", res.ArtworkURL,
		"relative og:image should resolve against the page URL")
	assert.Equal(t, "Midnight", res.Title)
	assert.Equal(t, "", res.Artist)
}

func TestSmartLink_EmptyPage(t *testing.T) {
	snap := smartLinkSnapshot(t, `<html><body></body></html>`)

	res := SmartLink(snap)

	assert.Equal(t, "", res.ArtworkURL)
	assert.Equal(t, "", res.BlurredURL)
	assert.Equal(t, "", res.Title)
	assert.Equal(t, "", res.Artist)
}

func TestBlurVariant(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain upload URL",
			in:   "https://res.cloudinary.com/ditto/image/upload/v10/cover.jpg",
			want: "https://res.cloudinary.com/ditto/image/upload/c_crop,g_center,ar_1:1/c_scale,w_1200/e_blur:1500/v10/cover.jpg",
		},
		{
			name: "signed upload URL splices after the signature",
			in:   "https://res.cloudinary.com/ditto/image/upload/s--AbCd1234--/v10/cover.jpg",
			want: "https://res.cloudinary.com/ditto/image/upload/s--AbCd1234--/c_crop,g_center,ar_1:1/c_scale,w_1200/e_blur:1500/v10/cover.jpg",
		},
		{
			name: "foreign host yields nothing",
			in:   "https://images.example.com/cover.jpg",
			want: "",
		},
		{
			name: "CDN URL without upload segment yields nothing",
			in:   "https://res.cloudinary.com/ditto/raw/v10/cover.jpg",
			want: "",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blurVariant(tt.in))
		})
	}
}

func TestCSSURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`background-image: url('https://a.test/x.jpg')`, "https://a.test/x.jpg"},
		{`background: url("https://a.test/x.jpg") center`, "https://a.test/x.jpg"},
		{`background: url(https://a.test/x.jpg)`, "https://a.test/x.jpg"},
		{`color: red`, ""},
		{``, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cssURL(tt.in), "style %q", tt.in)
	}
}
