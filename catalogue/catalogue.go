// Package catalogue holds the fixed vocabularies driving pattern extraction:
// known referrer names, streaming services, countries, and the selector
// tables for article and playlist pages. These are maintained configuration
// tables coupled to how the source sites currently render, not derived
// logic. When a site renames a label, the fix belongs here.
package catalogue

// Referrers lists the traffic sources the analytics dashboard is known to
// report, in the dashboard's own spelling. Order does not matter; results
// are re-sorted by visit count.
var Referrers = []string{
	"Direct",
	"Facebook",
	"Instagram",
	"Twitter",
	"TikTok",
	"YouTube",
	"Snapchat",
	"Reddit",
	"WhatsApp",
	"Messenger",
	"Google",
	"Bing",
	"linktr.ee",
	"lnk.to",
	"ffm.to",
	"bit.ly",
}

// Service pairs a streaming service's dashboard label with the icon shown
// next to it in rendered reports.
type Service struct {
	Name string
	Icon string
}

// Services lists the streaming services the dashboard reports clicks for.
// "YouTube Music" must stay ahead of "YouTube" so the longer label is
// claimed first when both appear.
var Services = []Service{
	{Name: "Spotify", Icon: "🟢"},
	{Name: "Apple Music", Icon: "🍎"},
	{Name: "YouTube Music", Icon: "▶️"},
	{Name: "YouTube", Icon: "▶️"},
	{Name: "Amazon Music", Icon: "🔵"},
	{Name: "Deezer", Icon: "🎵"},
	{Name: "Tidal", Icon: "🌊"},
	{Name: "SoundCloud", Icon: "☁️"},
	{Name: "Pandora", Icon: "📻"},
	{Name: "iTunes", Icon: "🎧"},
	{Name: "Bandcamp", Icon: "🎸"},
	{Name: "Audiomack", Icon: "🔊"},
}

// Countries lists the country names the dashboard is known to render in its
// visits-by-country table.
var Countries = []string{
	"United States",
	"United Kingdom",
	"Germany",
	"France",
	"Canada",
	"Australia",
	"Netherlands",
	"Brazil",
	"Mexico",
	"Spain",
	"Italy",
	"Sweden",
	"Norway",
	"Denmark",
	"Finland",
	"Ireland",
	"Belgium",
	"Switzerland",
	"Austria",
	"Portugal",
	"Poland",
	"Japan",
	"South Korea",
	"India",
	"Indonesia",
	"Philippines",
	"Thailand",
	"Vietnam",
	"Malaysia",
	"Singapore",
	"New Zealand",
	"South Africa",
	"Nigeria",
	"Kenya",
	"Ghana",
	"Egypt",
	"Turkey",
	"Israel",
	"United Arab Emirates",
	"Saudi Arabia",
	"Argentina",
	"Colombia",
	"Chile",
	"Peru",
	"Ecuador",
	"Venezuela",
	"Dominican Republic",
	"Puerto Rico",
	"Jamaica",
	"Pakistan",
	"Bangladesh",
	"Ukraine",
	"Czech Republic",
	"Romania",
	"Hungary",
	"Greece",
}

// OverviewLabels are the top-line figures' label phrases as the dashboard
// renders them. Each is matched with digits on the same or following line,
// in either order.
var OverviewLabels = struct {
	TotalVisits   string
	UniqueUsers   string
	ServiceClicks string
}{
	TotalVisits:   "Total Visits",
	UniqueUsers:   "Unique Users",
	ServiceClicks: "Clicks to Service",
}

// TitleNoise lists chrome labels that bleed into the text preceding the
// link-domain marker and must be stripped from the recovered release title.
// Matched case-insensitively as whole words.
var TitleNoise = []string{
	"Promote",
	"Overview",
	"Analytics",
	"Dashboard",
	"Insights",
	"Share",
	"Edit",
	"Settings",
	"Back",
	"Home",
}

// PlaylistNameDenylist lists generic UI headings that must never be taken
// as a playlist name. Compared case-insensitively after trimming.
var PlaylistNameDenylist = []string{
	"Playlist",
	"Home",
	"Search",
	"Your Library",
	"Preview",
	"Sign up",
	"Log in",
	"Spotify",
}

// Host and path tokens for the asset CDNs the source pages serve media from.
// These identify which url(...) references and <img> sources are real
// artwork as opposed to chrome, avatars or blurred backdrops.
const (
	// AssetHost is the image CDN the smart-link pages load artwork from.
	AssetHost = "res.cloudinary.com"

	// BlurQuery appears in the query string of pre-blurred artwork variants.
	BlurQuery = "blur="

	// UploadSegment is the CDN path segment transform chains attach after.
	UploadSegment = "/image/upload/"

	// BlurTransform is the chain inserted after UploadSegment to derive the
	// square blurred-backdrop variant of an artwork URL. Crop to square,
	// scale up, heavy blur.
	BlurTransform = "c_crop,g_center,ar_1:1/c_scale,w_1200/e_blur:1500/"

	// LinkDomain marks the release's own smart-link address wherever the
	// dashboard renders it, and bounds the release-title region of the
	// flattened text.
	LinkDomain = "ditto.fm"

	// PlaylistImageCDN hosts playlist cover images.
	PlaylistImageCDN = "i.scdn.co"

	// PlaylistCoverCode and PlaylistAvatarCode are asset-ID prefixes the
	// platform assigns to playlist covers and user avatars respectively.
	// An og:image carrying the avatar code is the curator, not the cover.
	PlaylistCoverCode  = "ab67706c"
	PlaylistAvatarCode = "ab6775"

	// MosaicMarker appears in auto-generated four-tile cover images.
	MosaicMarker = "mosaic"
)

// ArtworkKeywords mark <img> sources or alt text that carry release artwork
// on the analytics dashboard.
var ArtworkKeywords = []string{"artwork", "cover"}
