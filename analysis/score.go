package analysis

import (
	"sort"

	"github.com/sasangkyoo/slap/models"
)

// Per-axis label scores.
const (
	scoreCSR    = 60
	scoreSSR    = 20
	scoreStatic = 0

	scoreVirtualized = 90

	scoreGraphQL     = 80
	scoreInteractive = 50
	scoreAPI         = 30
)

// Structure-axis thresholds, evaluated strictly in cascade order.
const (
	csrStrongHydration   = 0.5
	csrModerateHydration = 0.2
	ssrTextRatioFloor    = 0.05
	ssrHydrationCeil     = 0.1
)

// Loading-axis thresholds.
const (
	interactiveScrollGrowth = 0.1
	apiXHRFetchFloor        = 5
	apiJSONRatioFloor       = 0.5
)

// apSeverity maps each protection label to its axis score. The axis takes
// the maximum over all detected signals.
var apSeverity = map[string]int{
	models.APCaptcha:  100,
	models.APAuth:     100,
	models.APRate:     80,
	models.APBotScore: 60,
	models.APLogin:    40,
}

// Axis weights. Access protection is deliberately the dominant half of
// difficulty: hard blocking outweighs rendering complexity.
const (
	weightAP = 0.5
	weightS  = 0.3
	weightL  = 0.2
)

// Tier bands, inclusive lower bounds on the total score.
const (
	tierHellFloor   = 81
	tierHardFloor   = 51
	tierMediumFloor = 21
)

// Synthesize combines the analyzers' outputs into the three-axis SLAP
// labels and the weighted difficulty score.
func Synthesize(
	stats models.HtmlStats,
	netsum models.NetworkSummary,
	diff models.DomDiffResult,
	signals []models.AccessProtectionSignal,
) (models.SlapLabels, models.DifficultyScore) {
	// ── Structure axis: primary architecture, first match wins ──────
	var sPrimary string
	var sArchScore int
	switch {
	case diff.HydrationGrowth > csrStrongHydration:
		sPrimary, sArchScore = models.SCSR, scoreCSR
	case diff.HydrationGrowth > csrModerateHydration || stats.HasRootDiv:
		sPrimary, sArchScore = models.SCSR, scoreCSR
	case stats.TextRatio > ssrTextRatioFloor && diff.HydrationGrowth < ssrHydrationCeil:
		sPrimary, sArchScore = models.SSSR, scoreSSR
	default:
		sPrimary, sArchScore = models.SStatic, scoreStatic
	}

	// ── Structure axis: behavioral modifiers ────────────────────────
	sModifiers := []string{}
	sModifierScore := 0
	if diff.IsVirtualizedSuspected {
		sModifiers = append(sModifiers, models.SVirtualized)
		sModifierScore = scoreVirtualized
	}

	// A modifier can dominate a weaker primary but never double-counts.
	sScore := sArchScore
	if sModifierScore > sScore {
		sScore = sModifierScore
	}

	// ── Loading axis, first match wins ──────────────────────────────
	jsonRatio := 0.0
	if netsum.TotalCaptured > 0 {
		jsonRatio = float64(netsum.DataTypes[models.BucketJSON]) / float64(netsum.TotalCaptured)
	}

	var lLabel string
	var lScore int
	switch {
	case netsum.DataTypes[models.BucketGraphQL] > 0:
		lLabel, lScore = models.LGraphQL, scoreGraphQL
	case diff.ScrollGrowth > interactiveScrollGrowth:
		lLabel, lScore = models.LInteractive, scoreInteractive
	case netsum.XHRFetchCount > apiXHRFetchFloor && jsonRatio > apiJSONRatioFloor:
		lLabel, lScore = models.LAPI, scoreAPI
	default:
		lLabel, lScore = models.LStatic, scoreStatic
	}

	// ── Access-protection axis: max severity over detected signals ──
	apLabels := []string{}
	apScore := 0
	for _, signal := range signals {
		apLabels = append(apLabels, signal.Label)
		if sev := apSeverity[signal.Label]; sev > apScore {
			apScore = sev
		}
	}
	if len(apLabels) == 0 {
		apLabels = []string{models.APOpen}
	}

	// ── Weighted total ──────────────────────────────────────────────
	apWeighted := float64(apScore) * weightAP
	sWeighted := float64(sScore) * weightS
	lWeighted := float64(lScore) * weightL
	total := int(apWeighted + sWeighted + lWeighted)

	var tier string
	switch {
	case total >= tierHellFloor:
		tier = models.TierHell
	case total >= tierHardFloor:
		tier = models.TierHard
	case total >= tierMediumFloor:
		tier = models.TierMedium
	default:
		tier = models.TierEasy
	}

	// ── Driver ranking ──────────────────────────────────────────────
	// The structure driver is the modifier only when it beat the primary.
	sDriver := ""
	if sScore > 0 {
		if sModifierScore > sArchScore && len(sModifiers) > 0 {
			sDriver = sModifiers[0]
		} else {
			sDriver = sPrimary
		}
	}
	apDriver := ""
	if apLabels[0] != models.APOpen {
		apDriver = apLabels[0]
	}
	lDriver := ""
	if lScore > 0 {
		lDriver = lLabel
	}

	type scoredLabel struct {
		score int
		label string
	}
	// Insertion order (AP, Structure, Loading) is the tie-break; the
	// stable sort preserves it for equal scores.
	candidates := []scoredLabel{
		{apScore, apDriver},
		{sScore, sDriver},
		{lScore, lDriver},
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	drivers := []string{}
	for _, c := range candidates {
		if c.label != "" && c.score > 0 {
			drivers = append(drivers, c.label)
		}
	}

	labels := models.SlapLabels{
		Structure: models.StructureLabels{
			Primary:   sPrimary,
			Modifiers: sModifiers,
		},
		Loading:          lLabel,
		AccessProtection: apLabels,
	}
	score := models.DifficultyScore{
		TotalScore: total,
		Tier:       tier,
		Breakdown: models.ScoreBreakdown{
			AP: int(apWeighted),
			S:  int(sWeighted),
			L:  int(lWeighted),
		},
		Drivers: drivers,
	}

	return labels, score
}
