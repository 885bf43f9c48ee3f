package render

import (
	"github.com/go-rod/rod"

	"github.com/dittomusic-JK/promo-report-dashboard/config"
)

// progressiveScroll advances the page by a fixed step on a fixed interval
// so that lazy-loaded rows mount, then resets the scroll position to the
// top. The step budget is computed ONCE from the scrollable height observed
// when the loop starts plus an overshoot margin; the height is never
// re-sampled, so the loop terminates even on pages that keep growing as
// they load. Scroll failures end the pass quietly: a partially scrolled
// page still extracts, just more sparsely.
func progressiveScroll(p *rod.Page, cfg config.RenderConfig) {
	res, err := p.Eval(`() => document.body ? document.body.scrollHeight : 0`)
	if err != nil {
		return
	}

	budget := scrollSteps(res.Value.Int(), cfg.ScrollOvershoot, cfg.ScrollStep, cfg.ScrollMaxSteps)
	for i := 0; i < budget; i++ {
		if err := p.Mouse.Scroll(0, float64(cfg.ScrollStep), 0); err != nil {
			return
		}
		if !settle(p.GetContext(), cfg.ScrollInterval) {
			return
		}
	}

	_, _ = p.Eval(`() => window.scrollTo(0, 0)`)
}

// scrollSteps converts the height bound into an iteration count:
// enough steps to cover the initial height plus the overshoot, hard-capped
// at maxSteps.
func scrollSteps(initialHeight, overshoot, step, maxSteps int) int {
	if step <= 0 || maxSteps <= 0 {
		return 0
	}
	n := (initialHeight + overshoot + step - 1) / step
	if n < 0 {
		n = 0
	}
	if n > maxSteps {
		n = maxSteps
	}
	return n
}
