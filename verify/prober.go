// Package verify preflights source URLs before they are committed to a
// report: is the URL reachable, where does it land after redirects, and
// does the page need a full browser render or would plain HTTP have been
// enough. The probe fetches over HTTP with a Chrome TLS fingerprint so
// bot-wary promo sites answer it the same way they answer the browser.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/html"

	"github.com/dittomusic-JK/promo-report-dashboard/models"
	"github.com/dittomusic-JK/promo-report-dashboard/render"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxProbeBytes caps how much of the page the probe reads. The heuristics
// only need the document shell, not the full asset payload.
const maxProbeBytes = 2 << 20

// Result is what a probe learned about a URL. A reachable page that
// answers with an error status is still a successful probe; the status
// code carries the bad news.
type Result struct {
	StatusCode   int    `json:"status_code"`
	FinalURL     string `json:"final_url"`
	Title        string `json:"title,omitempty"`
	NeedsBrowser bool   `json:"needs_browser"`
}

// Prober checks source URLs over plain HTTP.
type Prober struct {
	proxy string
}

// NewProber creates a Prober. proxy may be empty, an http(s) proxy URL, or
// a socks5 URL.
func NewProber(proxy string) *Prober {
	return &Prober{proxy: proxy}
}

// Probe fetches targetURL, following redirects, and reports status, final
// location, page title and whether extraction will need a browser. Network
// failures and context deadlines surface as *models.ExtractError; HTTP
// error statuses do not.
func (p *Prober) Probe(ctx context.Context, targetURL string) (*Result, error) {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr, p.proxy)
		},
	}
	if p.proxy != "" {
		if proxyURL, err := url.Parse(p.proxy); err == nil &&
			(proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeInvalidInput, "invalid probe URL", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, models.NewExtractError(models.ErrCodeTimeout, "probe timed out", err)
		case errors.Is(err, context.Canceled):
			return nil, models.NewExtractError(models.ErrCodeTimeout, "probe canceled", err)
		default:
			return nil, models.NewExtractError(models.ErrCodeNavigation, "probe request failed", err)
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeBytes))
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeNavigation, "failed to read probe response", err)
	}

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{
		StatusCode:   resp.StatusCode,
		FinalURL:     finalURL,
		Title:        extractTitle(body),
		NeedsBrowser: needsBrowser(body),
	}, nil
}

// dialTLSChrome establishes a TLS connection presenting a Chrome
// ClientHello via utls. socks5 proxies are dialed here; http(s) proxies
// are handled by the transport.
func dialTLSChrome(ctx context.Context, network, addr, proxy string) (net.Conn, error) {
	dialer := &net.Dialer{}

	var rawConn net.Conn
	if proxy != "" {
		if proxyURL, err := url.Parse(proxy); err == nil &&
			(proxyURL.Scheme == "socks5" || proxyURL.Scheme == "socks5h") {
			conn, dialErr := dialer.DialContext(ctx, "tcp", proxyURL.Host)
			if dialErr != nil {
				return nil, fmt.Errorf("socks5 dial: %w", dialErr)
			}
			rawConn = conn
		}
	}
	if rawConn == nil {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		rawConn = conn
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := utls.UClient(rawConn, &utls.Config{
		ServerName: host,
	}, utls.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}

// emptyShellMarkers are root containers SPAs mount into; finding one empty
// means the HTTP response is a shell with the real page behind JS.
var emptyShellMarkers = []string{
	`<div id="root"></div>`,
	`<div id="app"></div>`,
	`<div id="__next"></div>`,
}

var reNoscriptWarning = regexp.MustCompile(`<noscript[^>]*>[^<]*(enable|activate|turn on|requires?)\s+javascript`)

// needsBrowser decides whether the fetched HTML is a JS shell that only
// renders in a browser. Smart-link, dashboard and playlist pages always
// are; the probe mostly catches the plain-HTML press sites where a full
// render would be wasted.
func needsBrowser(body []byte) bool {
	visible := render.FlattenHTML(string(body))
	if len(visible) < 200 {
		return true
	}

	lower := strings.ToLower(string(body))
	for _, shell := range emptyShellMarkers {
		if strings.Contains(lower, shell) {
			return true
		}
	}
	if reNoscriptWarning.MatchString(lower) {
		return true
	}
	if strings.Count(lower, "<script") > 10 && len(visible) < 500 {
		return true
	}
	return false
}

// extractTitle pulls the <title> text out of raw HTML without a full parse.
func extractTitle(body []byte) string {
	tokenizer := html.NewTokenizer(strings.NewReader(string(body)))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}
