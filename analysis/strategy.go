package analysis

import (
	"slices"

	"github.com/sasangkyoo/slap/models"
)

// strategyRule pairs a predicate with the strategy it produces. Rules are
// evaluated in order and the first match wins; keeping the cascade as a
// table makes each rule testable on its own.
type strategyRule struct {
	match func(models.SlapLabels) bool
	build func(models.SlapLabels) models.Strategy
}

var strategyRules = []strategyRule{
	// 1. Hard blockers: a CAPTCHA wall or auth rejection means standard
	// automation cannot proceed at all.
	{
		match: func(l models.SlapLabels) bool {
			return slices.Contains(l.AccessProtection, models.APCaptcha) ||
				slices.Contains(l.AccessProtection, models.APAuth)
		},
		build: func(l models.SlapLabels) models.Strategy {
			blocker := "valid Credentials"
			if slices.Contains(l.AccessProtection, models.APCaptcha) {
				blocker = "CAPTCHA Solver"
			}
			return models.Strategy{
				Level:   models.StrategyAbort,
				Message: "ABORT: Hard blocking detected. Requires commercial " + blocker + ". Standard automation will fail.",
			}
		},
	},
	// 2. Virtualized DOM: the visible markup is a fiction.
	{
		match: func(l models.SlapLabels) bool {
			return slices.Contains(l.Structure.Modifiers, models.SVirtualized)
		},
		build: func(models.SlapLabels) models.Strategy {
			return models.Strategy{
				Level:   models.StrategyWarn,
				Message: "WARN: DOM is virtualized (infinite scroll/fake rendering). Visual scraping will fail. You MUST reverse-engineer the internal JSON API.",
			}
		},
	},
	// 3. Soft blocking: survivable with discipline.
	{
		match: func(l models.SlapLabels) bool {
			return slices.Contains(l.AccessProtection, models.APRate) ||
				slices.Contains(l.AccessProtection, models.APBotScore)
		},
		build: func(l models.SlapLabels) models.Strategy {
			issue := "Soft-blocking"
			if slices.Contains(l.AccessProtection, models.APRate) {
				issue = "Throttling (429)"
			}
			return models.Strategy{
				Level:   models.StrategyCaution,
				Message: "CAUTION: " + issue + " detected. Use exponential backoff, request rotation, and session management.",
			}
		},
	},
	// 4. Client-side rendering: standard complexity.
	{
		match: func(l models.SlapLabels) bool {
			return l.Structure.Primary == models.SCSR
		},
		build: func(models.SlapLabels) models.Strategy {
			return models.Strategy{
				Level:   models.StrategyInfo,
				Message: "INFO: Client-Side Rendering detected. Headless browser required. Wait for hydration (network idle) before extracting data.",
			}
		},
	},
	// 5. Login gate without hard rejection.
	{
		match: func(l models.SlapLabels) bool {
			return slices.Contains(l.AccessProtection, models.APLogin)
		},
		build: func(models.SlapLabels) models.Strategy {
			return models.Strategy{
				Level:   models.StrategyInfo,
				Message: "INFO: Login page detected. You can POST credentials or use authenticated sessions to access protected content.",
			}
		},
	},
}

// Advise maps the label set to exactly one recommended strategy via the
// fixed priority cascade. The drivers list is accepted for parity with the
// synthesis output but does not influence rule selection.
func Advise(labels models.SlapLabels, _ []string) models.Strategy {
	for _, rule := range strategyRules {
		if rule.match(labels) {
			return rule.build(labels)
		}
	}
	return models.Strategy{
		Level:   models.StrategySuccess,
		Message: "SUCCESS: Standard HTTP requests with HTML parsing should work. No major obstacles detected.",
	}
}
