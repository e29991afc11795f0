package analysis

import "github.com/sasangkyoo/slap/models"

// Verdict bundles the complete synthesis output for one run.
type Verdict struct {
	NetworkSummary models.NetworkSummary
	DomDiff        models.DomDiffResult
	Signals        []models.AccessProtectionSignal
	Labels         models.SlapLabels
	Score          models.DifficultyScore
	Strategy       models.Strategy
}

// Evaluate runs the full synthesis pipeline over one run's evidence:
// network aggregation → DOM timeline diff → protection detection →
// label/score synthesis → strategy selection. Pure; the evidence is
// never mutated.
func Evaluate(ev *models.Evidence) Verdict {
	netsum := AnalyzeNetwork(ev.NetworkLog)
	diff := DiffSnapshots(ev.T0, ev.T1, ev.T2)
	signals := DetectProtection(ev.URL, ev.StatusCode, ev.HtmlStats, netsum, ev.RawHTML, diff)
	labels, score := Synthesize(ev.HtmlStats, netsum, diff, signals)
	strategy := Advise(labels, score.Drivers)

	return Verdict{
		NetworkSummary: netsum,
		DomDiff:        diff,
		Signals:        signals,
		Labels:         labels,
		Score:          score,
		Strategy:       strategy,
	}
}
