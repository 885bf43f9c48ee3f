package render

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Snapshot is a realized page ready for extraction: a parsed DOM, the
// flattened visible text, and (when browser-backed) the live page for
// screenshots. A snapshot is owned by exactly one extraction call and must
// be closed at the end of that call; Close releases the underlying browser.
type Snapshot struct {
	doc     *goquery.Document
	text    string
	rawHTML string
	base    *url.URL

	page    *rod.Page // nil for fixture-backed snapshots
	release func()
}

// FromHTML builds a browser-free snapshot from static HTML, flattening the
// visible text with the x/net/html walker instead of the live page. Used by
// tests and anywhere a page has already been fetched. Screenshot returns no
// bytes and Close is a no-op.
func FromHTML(rawHTML, pageURL string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		doc:     doc,
		text:    FlattenHTML(rawHTML),
		rawHTML: rawHTML,
		base:    base,
	}, nil
}

// Find matches a CSS selector string against the snapshot's DOM.
func (s *Snapshot) Find(sel string) *goquery.Selection {
	return s.doc.Find(sel)
}

// FindMatcher matches a precompiled selector against the snapshot's DOM.
func (s *Snapshot) FindMatcher(m goquery.Matcher) *goquery.Selection {
	return s.doc.FindMatcher(m)
}

// Text returns the page's visible text flattened to one string, one chunk
// per line. Browser-backed snapshots capture document.body.innerText at
// realization time, so lazy-loaded rows scrolled into the DOM are included.
func (s *Snapshot) Text() string {
	return s.text
}

// HTML returns the rendered page HTML the snapshot was built from.
func (s *Snapshot) HTML() string {
	return s.rawHTML
}

// URL returns the page's final URL after redirects.
func (s *Snapshot) URL() *url.URL {
	return s.base
}

// Resolve turns a possibly-relative reference into an absolute URL against
// the page's own URL. Absolute references pass through unchanged; empty and
// unparseable ones are returned as-is.
func (s *Snapshot) Resolve(ref string) string {
	if ref == "" {
		return ""
	}
	resolved, err := s.base.Parse(ref)
	if err != nil {
		return ref
	}
	return resolved.String()
}

// Screenshot captures a full-page PNG. Fixture-backed snapshots return no
// bytes and no error.
func (s *Snapshot) Screenshot() ([]byte, error) {
	if s.page == nil {
		return nil, nil
	}
	return s.page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// Close releases the browser owning this snapshot. Safe to call more than
// once; fixture snapshots have nothing to release.
func (s *Snapshot) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
	s.page = nil
}
