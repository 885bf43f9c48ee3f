// Package render turns a source URL into a queryable page snapshot: it
// navigates a freshly launched browser, waits for client-side rendering to
// settle, optionally scroll-loads lazy content, and captures the DOM, the
// flattened visible text and a screenshot capability.
package render

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/dittomusic-JK/promo-report-dashboard/config"
	"github.com/dittomusic-JK/promo-report-dashboard/models"
)

// Renderer realizes pages. Each Realize call launches and owns its own
// browser process: extraction calls share no pages, no profiles and no
// caches, so concurrent calls cannot poison each other and a crashed
// browser takes down exactly one call.
type Renderer struct {
	browserCfg config.BrowserConfig
	renderCfg  config.RenderConfig
}

// NewRenderer creates a Renderer. No browser is launched until Realize.
func NewRenderer(browserCfg config.BrowserConfig, renderCfg config.RenderConfig) *Renderer {
	return &Renderer{browserCfg: browserCfg, renderCfg: renderCfg}
}

// Options tune a single realization call.
type Options struct {
	// Scroll runs the bounded progressive-scroll pass after the initial
	// settle, for sources that lazy-load rows below the fold.
	Scroll bool

	// Timeout overrides the configured navigation deadline. Zero keeps
	// the default; values above the configured maximum are clamped.
	Timeout time.Duration

	// ViewportWidth and ViewportHeight override the configured viewport.
	// Zero keeps the defaults.
	ViewportWidth  int
	ViewportHeight int
}

// Realize navigates to pageURL and returns a Snapshot of the settled page.
//
// Lifecycle:
//
//	1. Launch browser        – one process per call, released on every exit
//	2. Open page             – fresh tab on the fresh browser
//	3. Stealth injection     – before navigation, or it has no effect
//	4. Viewport + Referer    – reproducible layout, less bot suspicion
//	5. Hijack mount          – tracker/resource blocking, before navigation
//	6. Navigate + DOM stable – under the navigation deadline
//	7. Settle                – fixed delay for client-side rendering
//	8. Scroll (optional)     – bounded pass, then a brief re-settle
//	9. Capture               – rendered HTML, innerText, final URL
//
// Navigation failures and deadline hits surface as *models.ExtractError;
// the browser is released before the error returns. On success the
// returned Snapshot owns the browser and must be closed by the caller.
func (r *Renderer) Realize(ctx context.Context, pageURL string, opts Options) (*Snapshot, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = r.renderCfg.NavTimeout
	}
	if timeout > r.renderCfg.MaxTimeout {
		timeout = r.renderCfg.MaxTimeout
	}

	// ── 1. Launch browser ─────────────────────────────────────────────
	browser, release, err := r.launch()
	if err != nil {
		return nil, err
	}

	// Until the snapshot takes ownership, every exit path releases the
	// browser here.
	owned := false
	defer func() {
		if !owned {
			release()
		}
	}()

	// ── 2. Open page ──────────────────────────────────────────────────
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeBrowser, "failed to open page", err)
	}

	// ── 3. Stealth injection ──────────────────────────────────────────
	if r.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 4. Viewport + Referer ─────────────────────────────────────────
	width, height := r.renderCfg.ViewportWidth, r.renderCfg.ViewportHeight
	if opts.ViewportWidth > 0 {
		width = opts.ViewportWidth
	}
	if opts.ViewportHeight > 0 {
		height = opts.ViewportHeight
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		slog.Warn("viewport override failed", "error", err)
	}

	// The promo sources treat refererless headless traffic as bots.
	if u, parseErr := url.Parse(pageURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(map[string]string{
				"Referer": "https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()),
			}),
		}.Call(page)
	}

	// ── 5. Hijack mount ───────────────────────────────────────────────
	router := mountHijack(page, r.renderCfg.BlockedResourceTypes, r.renderCfg.BlockTrackers)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	// ── 6. Navigate + DOM stable ──────────────────────────────────────
	// Navigation runs under its own deadline; settling, scrolling and
	// capture stay on the caller's context.
	navCtx, navCancel := context.WithTimeout(ctx, timeout)
	defer navCancel()
	nav := page.Context(navCtx)

	if err := nav.Navigate(pageURL); err != nil {
		return nil, categorizeError(err, "navigation to source page failed")
	}
	if stableErr := nav.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		if errors.Is(stableErr, context.DeadlineExceeded) || errors.Is(stableErr, context.Canceled) {
			return nil, categorizeError(stableErr, "page did not reach a stable state")
		}
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}

	p := page.Context(ctx)

	// ── 7. Settle ─────────────────────────────────────────────────────
	if !settle(ctx, r.renderCfg.SettleDelay) {
		return nil, categorizeError(ctx.Err(), "canceled while settling")
	}

	// ── 8. Scroll (optional) ──────────────────────────────────────────
	if opts.Scroll {
		progressiveScroll(p, r.renderCfg)
		if !settle(ctx, r.renderCfg.SettleDelay/2) {
			return nil, categorizeError(ctx.Err(), "canceled while settling")
		}
	}

	// ── 9. Capture ────────────────────────────────────────────────────
	rawHTML, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, "failed to capture rendered page")
	}

	// innerText reflects what a visitor actually sees, including rows the
	// scroll pass mounted. The static walker is only a fallback.
	text := evalStringOrEmpty(p, `() => document.body ? document.body.innerText : ""`)
	if text == "" {
		text = FlattenHTML(rawHTML)
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = pageURL
	}
	base, err := url.Parse(finalURL)
	if err != nil {
		if base, err = url.Parse(pageURL); err != nil {
			return nil, models.NewExtractError(models.ErrCodeNavigation, "unparseable page URL", err)
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeInternal, "failed to parse rendered page", err)
	}

	slog.Debug("page realized",
		"url", finalURL,
		"scrolled", opts.Scroll,
		"text_len", len(text),
	)

	owned = true
	return &Snapshot{
		doc:     doc,
		text:    text,
		rawHTML: rawHTML,
		base:    base,
		page:    p,
		release: release,
	}, nil
}

// launch starts a fresh browser process and returns it with its release
// function. The release function closes the CDP connection, kills the
// process and removes its temp profile.
func (r *Renderer) launch() (*rod.Browser, func(), error) {
	l := launcher.New().
		Headless(r.browserCfg.Headless).
		NoSandbox(r.browserCfg.NoSandbox)

	if r.browserCfg.Bin != "" {
		l = l.Bin(r.browserCfg.Bin)
	}
	if r.browserCfg.Proxy != "" {
		l = l.Proxy(r.browserCfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-ipc-flooding-protection"))
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-prompt-on-repost"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, models.NewExtractError(
			models.ErrCodeBrowser,
			"failed to launch browser",
			err,
		)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, nil, models.NewExtractError(
			models.ErrCodeBrowser,
			"failed to connect to browser",
			err,
		)
	}

	release := func() {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
	}
	return browser, release, nil
}

// settle sleeps for d unless the context ends first, reporting whether the
// full delay elapsed.
func settle(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError wraps raw errors into typed ExtractErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.ExtractError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewExtractError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewExtractError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewExtractError(models.ErrCodeNavigation, msg, err)
	}
}
