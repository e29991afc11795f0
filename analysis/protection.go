package analysis

import (
	"strings"

	"github.com/sasangkyoo/slap/models"
)

// loginKeywords are explicit authentication terms matched against the URL
// and page title. A bare "auth" substring is deliberately excluded: it
// over-matches unrelated words like "author" and "authority".
var loginKeywords = []string{
	"login", "signin", "sign-in", "sign_in", "authenticate", "authentication",
}

// captchaKeywords is the CAPTCHA/challenge vocabulary scanned in the
// lower-cased page markup.
var captchaKeywords = []string{
	"recaptcha", "hcaptcha", "turnstile",
	"pardon our interruption", "verify you are human",
	"verify you're human", "complete the captcha",
	"security check", "cloudflare",
}

// Thresholds for the suspected bot-score rule. The hydration-growth guard
// keeps legitimate client-rendered applications (also initially an empty
// shell) from being misclassified as bot-blocked.
const (
	botScoreTextRatioCeil = 0.02
	botScoreHydrationCeil = 0.1
)

// maxCaptchaEvidence limits how many matched keywords are reported.
const maxCaptchaEvidence = 3

// DetectProtection synthesizes access-protection signals from all captured
// evidence. Each rule is evaluated independently; multiple signals may
// co-occur. The returned order follows rule order. An empty result means
// no hard blocker evidence was found (scoring substitutes AP-OPEN).
func DetectProtection(
	url string,
	statusCode int,
	stats models.HtmlStats,
	netsum models.NetworkSummary,
	rawHTML string,
	diff models.DomDiffResult,
) []models.AccessProtectionSignal {
	var signals []models.AccessProtectionSignal

	// 1. AP-AUTH: any 401/403 exchange is hard evidence.
	auth401 := netsum.BlockingSignals[models.Status401]
	auth403 := netsum.BlockingSignals[models.Status403]
	if auth401 > 0 || auth403 > 0 {
		var evidence []models.EvidenceItem
		if auth401 > 0 {
			evidence = append(evidence, models.EvidenceItem{Source: "network", Key: "status_401", Value: auth401})
		}
		if auth403 > 0 {
			evidence = append(evidence, models.EvidenceItem{Source: "network", Key: "status_403", Value: auth403})
		}
		signals = append(signals, models.AccessProtectionSignal{
			Label:      models.APAuth,
			State:      models.SignalConfirmed,
			Confidence: 1.0,
			Evidence:   evidence,
		})
	}

	// 2. AP-RATE: any 429 exchange.
	if rate429 := netsum.BlockingSignals[models.Status429]; rate429 > 0 {
		signals = append(signals, models.AccessProtectionSignal{
			Label:      models.APRate,
			State:      models.SignalConfirmed,
			Confidence: 1.0,
			Evidence: []models.EvidenceItem{
				{Source: "network", Key: "status_429", Value: rate429},
			},
		})
	}

	// 3. AP-LOGIN: login-intent keyword in the URL or title. A URL match
	// carries higher confidence than a title-only match.
	urlLower := strings.ToLower(url)
	titleLower := strings.ToLower(stats.Title)
	urlMatch := containsAny(urlLower, loginKeywords)
	titleMatch := containsAny(titleLower, loginKeywords)
	if urlMatch || titleMatch {
		confidence := 0.8
		if urlMatch {
			confidence = 1.0
		}
		var evidence []models.EvidenceItem
		if urlMatch {
			evidence = append(evidence, models.EvidenceItem{Source: "url", Key: "url", Value: url})
		}
		if titleMatch {
			evidence = append(evidence, models.EvidenceItem{Source: "html", Key: "title", Value: stats.Title})
		}
		signals = append(signals, models.AccessProtectionSignal{
			Label:      models.APLogin,
			State:      models.SignalConfirmed,
			Confidence: confidence,
			Evidence:   evidence,
		})
	}

	// 4. AP-BOT-SCORE: a 200 that delivered an empty shell, loaded no data
	// and never hydrated is circumstantial evidence of soft blocking.
	if statusCode == 200 &&
		stats.TextRatio < botScoreTextRatioCeil &&
		netsum.XHRFetchCount == 0 &&
		diff.HydrationGrowth < botScoreHydrationCeil {
		signals = append(signals, models.AccessProtectionSignal{
			Label:      models.APBotScore,
			State:      models.SignalSuspected,
			Confidence: 0.8,
			Evidence: []models.EvidenceItem{
				{Source: "http", Key: "status_code", Value: statusCode},
				{Source: "html", Key: "text_ratio", Value: round4(stats.TextRatio)},
				{Source: "network", Key: "xhr_fetch_count", Value: netsum.XHRFetchCount},
				{Source: "dom", Key: "hydration_growth", Value: round4(diff.HydrationGrowth)},
			},
		})
	}

	// 5. AP-CAPTCHA: challenge vocabulary anywhere in the markup.
	htmlLower := strings.ToLower(rawHTML)
	var found []string
	for _, kw := range captchaKeywords {
		if strings.Contains(htmlLower, kw) {
			found = append(found, kw)
		}
	}
	if len(found) > 0 {
		if len(found) > maxCaptchaEvidence {
			found = found[:maxCaptchaEvidence]
		}
		signals = append(signals, models.AccessProtectionSignal{
			Label:      models.APCaptcha,
			State:      models.SignalConfirmed,
			Confidence: 0.95,
			Evidence: []models.EvidenceItem{
				{Source: "html", Key: "captcha_keywords", Value: found},
			},
		})
	}

	return signals
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
