package analysis

import (
	"testing"

	"github.com/sasangkyoo/slap/models"
)

func emptySummary() models.NetworkSummary {
	return AnalyzeNetwork(nil)
}

func findSignal(signals []models.AccessProtectionSignal, label string) *models.AccessProtectionSignal {
	for i := range signals {
		if signals[i].Label == label {
			return &signals[i]
		}
	}
	return nil
}

func TestDetectProtection_CleanPage(t *testing.T) {
	stats := models.HtmlStats{TextRatio: 0.3, Title: "Product Catalog"}
	signals := DetectProtection("https://shop.example/products", 200, stats, emptySummary(),
		"<html><body><h1>Products</h1></body></html>", models.DomDiffResult{})

	if len(signals) != 0 {
		t.Errorf("signals = %v, want none", signals)
	}
}

func TestDetectProtection_AuthRejection(t *testing.T) {
	netsum := emptySummary()
	netsum.BlockingSignals[models.Status401] = 1

	signals := DetectProtection("https://site.example/data", 401,
		models.HtmlStats{TextRatio: 0.1}, netsum, "<html></html>", models.DomDiffResult{})

	sig := findSignal(signals, models.APAuth)
	if sig == nil {
		t.Fatal("AP-AUTH signal missing")
	}
	if sig.State != models.SignalConfirmed {
		t.Errorf("State = %q, want confirmed", sig.State)
	}
	if sig.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", sig.Confidence)
	}
	if len(sig.Evidence) != 1 || sig.Evidence[0].Key != "status_401" {
		t.Errorf("Evidence = %+v, want single status_401 item", sig.Evidence)
	}
}

func TestDetectProtection_AuthCombines401And403(t *testing.T) {
	netsum := emptySummary()
	netsum.BlockingSignals[models.Status401] = 2
	netsum.BlockingSignals[models.Status403] = 1

	signals := DetectProtection("https://site.example/", 200,
		models.HtmlStats{TextRatio: 0.1}, netsum, "", models.DomDiffResult{})

	sig := findSignal(signals, models.APAuth)
	if sig == nil {
		t.Fatal("AP-AUTH signal missing")
	}
	if len(sig.Evidence) != 2 {
		t.Fatalf("Evidence = %+v, want status_401 and status_403 items", sig.Evidence)
	}
	if sig.Evidence[0].Key != "status_401" || sig.Evidence[1].Key != "status_403" {
		t.Errorf("Evidence keys = %q, %q", sig.Evidence[0].Key, sig.Evidence[1].Key)
	}
}

func TestDetectProtection_RateLimit(t *testing.T) {
	netsum := emptySummary()
	netsum.BlockingSignals[models.Status429] = 3

	signals := DetectProtection("https://site.example/", 200,
		models.HtmlStats{TextRatio: 0.1}, netsum, "", models.DomDiffResult{})

	sig := findSignal(signals, models.APRate)
	if sig == nil {
		t.Fatal("AP-RATE signal missing")
	}
	if sig.Confidence != 1.0 || sig.State != models.SignalConfirmed {
		t.Errorf("got confidence %v state %q, want 1.0 confirmed", sig.Confidence, sig.State)
	}
	if len(sig.Evidence) != 1 || sig.Evidence[0].Value != 3 {
		t.Errorf("Evidence = %+v, want status_429 count 3", sig.Evidence)
	}
}

func TestDetectProtection_LoginKeywordInURL(t *testing.T) {
	signals := DetectProtection("https://site.example/signin?next=/account", 200,
		models.HtmlStats{TextRatio: 0.1, Title: "Welcome"}, emptySummary(), "", models.DomDiffResult{})

	sig := findSignal(signals, models.APLogin)
	if sig == nil {
		t.Fatal("AP-LOGIN signal missing")
	}
	if sig.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0 for URL match", sig.Confidence)
	}
	if len(sig.Evidence) != 1 || sig.Evidence[0].Source != "url" {
		t.Errorf("Evidence = %+v, want single url item", sig.Evidence)
	}
}

func TestDetectProtection_LoginKeywordInTitleOnly(t *testing.T) {
	signals := DetectProtection("https://site.example/account", 200,
		models.HtmlStats{TextRatio: 0.1, Title: "Login - Example"}, emptySummary(), "", models.DomDiffResult{})

	sig := findSignal(signals, models.APLogin)
	if sig == nil {
		t.Fatal("AP-LOGIN signal missing")
	}
	if sig.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8 for title-only match", sig.Confidence)
	}
	if len(sig.Evidence) != 1 || sig.Evidence[0].Source != "html" {
		t.Errorf("Evidence = %+v, want single title item", sig.Evidence)
	}
}

func TestDetectProtection_AuthorURLDoesNotReadAsLogin(t *testing.T) {
	signals := DetectProtection("https://site.example/author/jane", 200,
		models.HtmlStats{TextRatio: 0.1, Title: "Jane's Posts"}, emptySummary(), "", models.DomDiffResult{})

	if sig := findSignal(signals, models.APLogin); sig != nil {
		t.Errorf("AP-LOGIN raised for author URL: %+v", sig)
	}
}

func TestDetectProtection_BotScoreSuspected(t *testing.T) {
	stats := models.HtmlStats{TextRatio: 0.01}
	signals := DetectProtection("https://site.example/", 200, stats, emptySummary(),
		"", models.DomDiffResult{HydrationGrowth: 0.0})

	sig := findSignal(signals, models.APBotScore)
	if sig == nil {
		t.Fatal("AP-BOT-SCORE signal missing")
	}
	if sig.State != models.SignalSuspected {
		t.Errorf("State = %q, want suspected", sig.State)
	}
	if sig.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", sig.Confidence)
	}
	if len(sig.Evidence) != 4 {
		t.Errorf("Evidence has %d items, want 4", len(sig.Evidence))
	}
}

func TestDetectProtection_BotScoreHydrationGuard(t *testing.T) {
	// A CSR app also ships an empty shell; hydration growth clears it.
	stats := models.HtmlStats{TextRatio: 0.01}
	signals := DetectProtection("https://site.example/", 200, stats, emptySummary(),
		"", models.DomDiffResult{HydrationGrowth: 0.5})

	if sig := findSignal(signals, models.APBotScore); sig != nil {
		t.Errorf("AP-BOT-SCORE raised despite hydration: %+v", sig)
	}
}

func TestDetectProtection_BotScoreNeeds200(t *testing.T) {
	stats := models.HtmlStats{TextRatio: 0.01}
	signals := DetectProtection("https://site.example/", 503, stats, emptySummary(),
		"", models.DomDiffResult{})

	if sig := findSignal(signals, models.APBotScore); sig != nil {
		t.Errorf("AP-BOT-SCORE raised for non-200 status: %+v", sig)
	}
}

func TestDetectProtection_CaptchaKeywords(t *testing.T) {
	html := `<html><head><script src="https://www.google.com/recaptcha/api.js"></script></head>
	<body>Please complete the security check.</body></html>`

	signals := DetectProtection("https://site.example/", 200,
		models.HtmlStats{TextRatio: 0.1}, emptySummary(), html, models.DomDiffResult{})

	sig := findSignal(signals, models.APCaptcha)
	if sig == nil {
		t.Fatal("AP-CAPTCHA signal missing")
	}
	if sig.Confidence != 0.95 || sig.State != models.SignalConfirmed {
		t.Errorf("got confidence %v state %q, want 0.95 confirmed", sig.Confidence, sig.State)
	}
	found, ok := sig.Evidence[0].Value.([]string)
	if !ok {
		t.Fatalf("Evidence value = %T, want []string", sig.Evidence[0].Value)
	}
	if len(found) != 2 {
		t.Errorf("matched keywords = %v, want recaptcha and security check", found)
	}
}

func TestDetectProtection_CaptchaEvidenceCapped(t *testing.T) {
	html := "recaptcha hcaptcha turnstile cloudflare verify you are human"

	signals := DetectProtection("https://site.example/", 200,
		models.HtmlStats{TextRatio: 0.1}, emptySummary(), html, models.DomDiffResult{})

	sig := findSignal(signals, models.APCaptcha)
	if sig == nil {
		t.Fatal("AP-CAPTCHA signal missing")
	}
	found, _ := sig.Evidence[0].Value.([]string)
	if len(found) != 3 {
		t.Errorf("evidence keywords = %v, want capped at 3", found)
	}
}

func TestDetectProtection_MultipleSignalsCoexist(t *testing.T) {
	netsum := emptySummary()
	netsum.BlockingSignals[models.Status403] = 1

	signals := DetectProtection("https://site.example/login", 403,
		models.HtmlStats{TextRatio: 0.1, Title: "Sign in"}, netsum,
		"cloudflare challenge", models.DomDiffResult{})

	for _, label := range []string{models.APAuth, models.APLogin, models.APCaptcha} {
		if findSignal(signals, label) == nil {
			t.Errorf("%s signal missing", label)
		}
	}
	// Rule order is preserved in the output.
	if signals[0].Label != models.APAuth {
		t.Errorf("signals[0] = %s, want AP-AUTH first", signals[0].Label)
	}
}
