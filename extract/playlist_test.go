package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

func playlistSnapshot(t *testing.T, rawHTML string) *render.Snapshot {
	t.Helper()
	snap, err := render.FromHTML(rawHTML, "https://open.spotify.com/playlist/37i9abc")
	require.NoError(t, err)
	return snap
}

// An og:image carrying the avatar asset code is the curator's photo, not
// the cover; extraction must fall through to the DOM tiers.
func TestPlaylist_AvatarOGImageRejected(t *testing.T) {
	snap := playlistSnapshot(t, `<html><head>
<title>Chill Hits - playlist by DJ Nova | Spotify</title>
<meta property="og:image" content="https://i.scdn.co/image/ab6775aabbccdd">
</head><body>
<h1>Preview</h1>
<h2>Chill Hits</h2>
<div class="curator">
  <a href="/user/djnova">DJ Nova</a>
  <img src="/avatars/djnova.png">
</div>
<img src="https://i.scdn.co/image/ab67706c0000cover123" width="300">
<p>12,345 likes</p>
</body></html>`)

	res := Playlist(snap)

	assert.Equal(t, "Chill Hits", res.Name, "denylisted heading must be skipped")
	assert.Equal(t, "DJ Nova", res.Curator)
	assert.Equal(t, "https://open.spotify.com/avatars/djnova.png", res.CuratorAvatar)
	assert.Equal(t, 12345, res.Followers)
	assert.Equal(t, "https://i.scdn.co/image/ab67706c0000cover123", res.CoverImage,
		"avatar-coded og:image falls through to the CDN cover tier")
	assert.Equal(t, "https://open.spotify.com/playlist/37i9abc", res.SourceURL)
}

func TestPlaylist_OGImageCoverAccepted(t *testing.T) {
	snap := playlistSnapshot(t, `<html><head>
<meta property="og:image" content="https://i.scdn.co/image/ab67706c0000fine">
</head><body><h1>Morning Jazz</h1></body></html>`)

	res := Playlist(snap)

	assert.Equal(t, "https://i.scdn.co/image/ab67706c0000fine", res.CoverImage)
	assert.Equal(t, "Morning Jazz", res.Name)
}

// Mosaic covers ship a srcset; the widest variant beats the plain src.
func TestPlaylist_MosaicSrcsetPrefersLargest(t *testing.T) {
	snap := playlistSnapshot(t, `<html><body>
<div data-testid="entityTitle">Focus Flow</div>
<img src="https://mosaic.scdn.co/300/abc"
     srcset="https://mosaic.scdn.co/300/abc 300w, https://mosaic.scdn.co/640/abc 640w">
</body></html>`)

	res := Playlist(snap)

	assert.Equal(t, "Focus Flow", res.Name, "entityTitle fallback when no usable heading exists")
	assert.Equal(t, "https://mosaic.scdn.co/640/abc", res.CoverImage)
}

func TestPlaylist_CDNNonAvatarTier(t *testing.T) {
	snap := playlistSnapshot(t, `<html><body>
<img src="https://i.scdn.co/image/ab6775avatar9">
<img src="https://i.scdn.co/image/plaincdn42">
</body></html>`)

	res := Playlist(snap)

	assert.Equal(t, "https://i.scdn.co/image/plaincdn42", res.CoverImage,
		"avatar-coded CDN image is skipped in favor of the next CDN image")
}

func TestPlaylist_WideImageLastResort(t *testing.T) {
	snap := playlistSnapshot(t, `<html><body>
<img src="/icons/small.png" width="48">
<img src="/media/ab6775selfie.png" width="400">
<img src="/media/board.png" width="150">
</body></html>`)

	res := Playlist(snap)

	assert.Equal(t, "https://open.spotify.com/media/board.png", res.CoverImage,
		"first wide non-avatar image wins when no CDN image exists")
}

func TestPlaylist_NameFromDocumentTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"playlist keyword", "Morning Jazz - playlist by Ana | Spotify", "Morning Jazz"},
		{"platform keyword", "Evening Beats - Spotify", "Evening Beats"},
		{"no keyword", "Some Unrelated Page", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := playlistSnapshot(t, `<html><head><title>`+tt.title+`</title></head><body></body></html>`)
			assert.Equal(t, tt.want, Playlist(snap).Name)
		})
	}
}

func TestPlaylist_FollowerUnits(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"2,041 likes", 2041},
		{"315 saves", 315},
		{"1,002,117 followers", 1002117},
		{"no counts here", 0},
	}

	for _, tt := range tests {
		snap := playlistSnapshot(t, `<html><body><p>`+tt.text+`</p></body></html>`)
		assert.Equal(t, tt.want, Playlist(snap).Followers, "text %q", tt.text)
	}
}

func TestPlaylist_NoCuratorAnchor(t *testing.T) {
	snap := playlistSnapshot(t, `<html><body><h1>Lone Playlist Name</h1></body></html>`)

	res := Playlist(snap)

	assert.Equal(t, "", res.Curator)
	assert.Equal(t, "", res.CuratorAvatar)
}

func TestLargestSrcsetVariant(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://a.test/s.jpg 300w, https://a.test/l.jpg 640w", "https://a.test/l.jpg"},
		{"https://a.test/l.jpg 640w, https://a.test/s.jpg 300w", "https://a.test/l.jpg"},
		{"https://a.test/only.jpg", "https://a.test/only.jpg"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, largestSrcsetVariant(tt.in), "srcset %q", tt.in)
	}
}

func TestIsDenylistedName(t *testing.T) {
	assert.True(t, isDenylistedName("Preview"))
	assert.True(t, isDenylistedName("your library"))
	assert.False(t, isDenylistedName("Chill Hits"))
	assert.False(t, isDenylistedName("Previews of Summer"))
}
