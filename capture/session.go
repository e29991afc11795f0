package capture

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/sasangkyoo/slap/models"
	"github.com/sasangkyoo/slap/pagestat"
)

// Capture runs a full evidence-gathering session for one URL.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Timeout guard        – hard deadline on the entire operation
//  2. Raw probe (t0)       – server HTML without JavaScript, Chrome TLS
//  3. Acquire page         – borrow a tab from the pool (or create one)
//  4. DEFER: cleanup       – about:blank + return to pool (leak prevention)
//  5. Stealth injection    – mask navigator.webdriver etc. (before navigation!)
//  6. Recorder setup       – CDP network listener (before navigation!)
//  7. Navigate + settle    – page load, DOM stable, hydration wait
//  8. t1 snapshot          – hydrated DOM metrics
//  9. Incremental scroll   – wheel steps with lazy-load pauses
//  10. t2 snapshot         – post-scroll DOM metrics
//
// Why this order matters:
//   - Step 2 runs before the browser touches the site so the t0 baseline
//     cannot be contaminated by browser-set cookies.
//   - Steps 5-6 MUST happen before step 7: stealth JS only takes effect
//     for navigations after it is installed, and a listener registered
//     after Navigate misses the document request itself.
//   - Step 4's about:blank uses the ORIGINAL page reference (without
//     request context), so cleanup succeeds even if the request context
//     has expired.
func (c *Capturer) Capture(ctx context.Context, req *models.InspectRequest) (*models.Evidence, error) {
	// ── 1. Timeout guard ──────────────────────────────────────────────
	timeout := time.Duration(req.Timeout) * time.Second
	if timeout > c.captureCfg.MaxTimeout {
		timeout = c.captureCfg.MaxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	domain := hostOf(req.URL)
	useStealth := req.Stealth || c.memory.NeedsStealth(domain)

	// ── 2. Raw probe for the t0 baseline ─────────────────────────────
	// Best-effort: a dead probe degrades t0 to an empty baseline instead
	// of failing the run. Error statuses are evidence, not failures.
	var rawHTML string
	var probeStatus int
	if probe, err := c.prober.fetch(ctx, req.URL, req.Headers); err == nil {
		rawHTML = probe.HTML
		probeStatus = probe.StatusCode
	} else {
		slog.Warn("raw probe failed, proceeding with empty baseline",
			"url", req.URL, "error", err)
	}

	// ── 3. Acquire page from pool ─────────────────────────────────────
	c.activePages.Add(1)
	defer c.activePages.Add(-1)

	page, acquireErr := c.pagePool.Get(func() (*rod.Page, error) {
		return c.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewInspectError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// ── 4. CRITICAL DEFER: prevent DOM memory leak + guarantee pool return
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank",
				"error", navErr,
			)
		}
		c.pagePool.Put(page)
	}()

	// ── 5. Stealth injection ──────────────────────────────────────────
	if useStealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 5b. Extra headers ────────────────────────────────────────────
	if len(req.Headers) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: toHeadersMap(req.Headers),
		}.Call(page)
	}

	// ── 6. Bind request context + start the network recorder ─────────
	p := page.Context(ctx)
	recorder := recordNetwork(ctx, page)
	defer recorder.stop()

	// ── 7. Navigate and let the page settle ───────────────────────────
	if navErr := p.Navigate(req.URL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to target URL failed")
	}

	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}
	sleepCtx(ctx, c.captureCfg.HydrationWait)
	sleepCtx(ctx, c.captureCfg.LazyLoadWait)

	// ── 7b. Status code ──────────────────────────────────────────────
	// The probe status is authoritative for the raw exchange. When the
	// probe failed, fall back to the navigation entry, which needs no CDP
	// event listeners.
	statusCode := probeStatus
	if statusCode == 0 {
		statusCode = navigationStatus(p)
	}

	// ── 8. t1 snapshot (hydrated) ─────────────────────────────────────
	t1HTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract hydrated HTML")
	}
	t1 := pagestat.Snapshot(t1HTML, scrollHeight(p))

	// ── 9. Incremental scroll ─────────────────────────────────────────
	// Wheel steps rather than an instant jump, so intersection observers
	// and infinite-scroll triggers actually fire.
	c.scrollIncrementally(ctx, p)

	// ── 10. t2 snapshot (post-scroll) ─────────────────────────────────
	t2HTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract post-scroll HTML")
	}
	t2 := pagestat.Snapshot(t2HTML, scrollHeight(p))

	recorder.stop()

	c.memory.Record(domain, useStealth)

	return &models.Evidence{
		URL:        req.URL,
		StatusCode: statusCode,
		RawHTML:    rawHTML,
		HtmlStats:  pagestat.Stats(rawHTML, req.URL),
		NetworkLog: recorder.log(),
		T0:         pagestat.Snapshot(rawHTML, 0),
		T1:         t1,
		T2:         t2,
		CapturedAt: time.Now().UTC(),
	}, nil
}

// scrollIncrementally performs the configured number of wheel steps with a
// lazy-load pause after each, verifying via window.scrollY that the wheel
// actually moved the viewport (some pages capture wheel events); if not,
// it falls back to a JS scroll.
func (c *Capturer) scrollIncrementally(ctx context.Context, p *rod.Page) {
	for i := 0; i < c.captureCfg.ScrollSteps; i++ {
		if ctx.Err() != nil {
			return
		}
		if err := p.Mouse.Scroll(0, float64(c.captureCfg.ScrollStepPixels), 1); err != nil {
			slog.Debug("mouse scroll failed", "step", i, "error", err)
		}
		sleepCtx(ctx, c.captureCfg.ScrollStepWait)
	}

	if scrollY(p) == 0 {
		_, _ = p.Eval(`(px) => window.scrollTo(0, px)`,
			c.captureCfg.ScrollSteps*c.captureCfg.ScrollStepPixels)
		sleepCtx(ctx, c.captureCfg.ScrollStepWait)
	}
}

// navigationStatus reads the HTTP status of the navigation from the
// Performance API. Best-effort; returns 0 when unavailable.
func navigationStatus(p *rod.Page) int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// scrollHeight measures document.documentElement.scrollHeight in pixels.
// Best-effort; returns 0 when unavailable.
func scrollHeight(p *rod.Page) int {
	res, err := p.Eval(`() => document.documentElement.scrollHeight`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// scrollY reads the current vertical scroll position.
func scrollY(p *rod.Page) int {
	res, err := p.Eval(`() => Math.round(window.scrollY)`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// sleepCtx sleeps for d or until the context is done, whichever is first.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
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

// categorizeError wraps raw errors into typed InspectErrors so the API
// layer can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.InspectError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewInspectError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewInspectError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewInspectError(models.ErrCodeNavigation, msg, err)
	}
}
