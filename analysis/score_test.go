package analysis

import (
	"slices"
	"testing"

	"github.com/sasangkyoo/slap/models"
)

func signal(label string) models.AccessProtectionSignal {
	return models.AccessProtectionSignal{
		Label:      label,
		State:      models.SignalConfirmed,
		Confidence: 1.0,
	}
}

func TestSynthesize_AllQuiet(t *testing.T) {
	labels, score := Synthesize(models.HtmlStats{}, emptySummary(), models.DomDiffResult{}, nil)

	if labels.Structure.Primary != models.SStatic {
		t.Errorf("Structure.Primary = %s, want S-STATIC", labels.Structure.Primary)
	}
	if len(labels.Structure.Modifiers) != 0 {
		t.Errorf("Modifiers = %v, want none", labels.Structure.Modifiers)
	}
	if labels.Loading != models.LStatic {
		t.Errorf("Loading = %s, want L-STATIC", labels.Loading)
	}
	if len(labels.AccessProtection) != 1 || labels.AccessProtection[0] != models.APOpen {
		t.Errorf("AccessProtection = %v, want [AP-OPEN]", labels.AccessProtection)
	}
	if score.TotalScore != 0 {
		t.Errorf("TotalScore = %d, want 0", score.TotalScore)
	}
	if score.Tier != models.TierEasy {
		t.Errorf("Tier = %s, want EASY", score.Tier)
	}
	if len(score.Drivers) != 0 {
		t.Errorf("Drivers = %v, want none", score.Drivers)
	}
}

func TestSynthesize_StructureCascade(t *testing.T) {
	cases := []struct {
		name        string
		stats       models.HtmlStats
		diff        models.DomDiffResult
		wantPrimary string
	}{
		{"strong hydration", models.HtmlStats{}, models.DomDiffResult{HydrationGrowth: 0.6}, models.SCSR},
		{"moderate hydration", models.HtmlStats{}, models.DomDiffResult{HydrationGrowth: 0.3}, models.SCSR},
		{"spa root alone", models.HtmlStats{HasRootDiv: true}, models.DomDiffResult{}, models.SCSR},
		{"text rich no hydration", models.HtmlStats{TextRatio: 0.2}, models.DomDiffResult{HydrationGrowth: 0.05}, models.SSSR},
		{"text rich but hydrating", models.HtmlStats{TextRatio: 0.2}, models.DomDiffResult{HydrationGrowth: 0.15}, models.SStatic},
		{"bare shell", models.HtmlStats{TextRatio: 0.01}, models.DomDiffResult{}, models.SStatic},
	}

	for _, tc := range cases {
		labels, _ := Synthesize(tc.stats, emptySummary(), tc.diff, nil)
		if labels.Structure.Primary != tc.wantPrimary {
			t.Errorf("%s: primary = %s, want %s", tc.name, labels.Structure.Primary, tc.wantPrimary)
		}
	}
}

func TestSynthesize_VirtualizedModifierDominates(t *testing.T) {
	diff := models.DomDiffResult{HydrationGrowth: 0.6, IsVirtualizedSuspected: true}
	labels, score := Synthesize(models.HtmlStats{}, emptySummary(), diff, nil)

	if labels.Structure.Primary != models.SCSR {
		t.Errorf("primary = %s, want S-CSR", labels.Structure.Primary)
	}
	if !slices.Contains(labels.Structure.Modifiers, models.SVirtualized) {
		t.Errorf("Modifiers = %v, want S-VIRTUALIZED", labels.Structure.Modifiers)
	}
	// Structure axis takes max(60, 90) = 90; weighted 0.3 → 27.
	if score.Breakdown.S != 27 {
		t.Errorf("Breakdown.S = %d, want 27", score.Breakdown.S)
	}
	// The modifier beat the primary so it is the structure driver.
	if len(score.Drivers) == 0 || score.Drivers[0] != models.SVirtualized {
		t.Errorf("Drivers = %v, want S-VIRTUALIZED first", score.Drivers)
	}
}

func TestSynthesize_LoadingCascade(t *testing.T) {
	graphqlSum := emptySummary()
	graphqlSum.TotalCaptured = 1
	graphqlSum.DataTypes[models.BucketGraphQL] = 1

	apiSum := emptySummary()
	apiSum.TotalCaptured = 10
	apiSum.XHRFetchCount = 8
	apiSum.DataTypes[models.BucketJSON] = 7

	fewCallsSum := emptySummary()
	fewCallsSum.TotalCaptured = 3
	fewCallsSum.XHRFetchCount = 3
	fewCallsSum.DataTypes[models.BucketJSON] = 3

	cases := []struct {
		name   string
		netsum models.NetworkSummary
		diff   models.DomDiffResult
		want   string
	}{
		{"graphql wins", graphqlSum, models.DomDiffResult{ScrollGrowth: 0.5}, models.LGraphQL},
		{"interactive scroll", emptySummary(), models.DomDiffResult{ScrollGrowth: 0.15}, models.LInteractive},
		{"json api", apiSum, models.DomDiffResult{}, models.LAPI},
		{"too few calls for api", fewCallsSum, models.DomDiffResult{}, models.LStatic},
		{"nothing", emptySummary(), models.DomDiffResult{}, models.LStatic},
	}

	for _, tc := range cases {
		labels, _ := Synthesize(models.HtmlStats{}, tc.netsum, tc.diff, nil)
		if labels.Loading != tc.want {
			t.Errorf("%s: loading = %s, want %s", tc.name, labels.Loading, tc.want)
		}
	}
}

func TestSynthesize_ProtectionAxisTakesMaxSeverity(t *testing.T) {
	signals := []models.AccessProtectionSignal{
		signal(models.APLogin),
		signal(models.APRate),
	}
	labels, score := Synthesize(models.HtmlStats{}, emptySummary(), models.DomDiffResult{}, signals)

	if len(labels.AccessProtection) != 2 {
		t.Errorf("AccessProtection = %v, want both labels", labels.AccessProtection)
	}
	// max(40, 80) = 80; weighted 0.5 → 40.
	if score.Breakdown.AP != 40 {
		t.Errorf("Breakdown.AP = %d, want 40", score.Breakdown.AP)
	}
}

func TestSynthesize_WeightedTotalAndBreakdown(t *testing.T) {
	// CAPTCHA (100) + CSR (60) + GraphQL (80) → 50 + 18 + 16 = 84.
	netsum := emptySummary()
	netsum.TotalCaptured = 1
	netsum.DataTypes[models.BucketGraphQL] = 1
	diff := models.DomDiffResult{HydrationGrowth: 0.6}

	_, score := Synthesize(models.HtmlStats{}, netsum, diff, []models.AccessProtectionSignal{signal(models.APCaptcha)})

	if score.Breakdown.AP != 50 || score.Breakdown.S != 18 || score.Breakdown.L != 16 {
		t.Errorf("Breakdown = %+v, want AP 50 / S 18 / L 16", score.Breakdown)
	}
	if score.TotalScore != 84 {
		t.Errorf("TotalScore = %d, want 84", score.TotalScore)
	}
	if score.Tier != models.TierHell {
		t.Errorf("Tier = %s, want HELL", score.Tier)
	}
}

func TestSynthesize_TierBoundaries(t *testing.T) {
	cases := []struct {
		total int
		want  string
	}{
		{0, models.TierEasy},
		{20, models.TierEasy},
		{21, models.TierMedium},
		{50, models.TierMedium},
		{51, models.TierHard},
		{80, models.TierHard},
		{81, models.TierHell},
		{100, models.TierHell},
	}

	for _, tc := range cases {
		got := tierFor(tc.total)
		if got != tc.want {
			t.Errorf("tier(%d) = %s, want %s", tc.total, got, tc.want)
		}
	}
}

// tierFor mirrors the band assignment so the boundaries are pinned down
// independently of any particular evidence combination.
func tierFor(total int) string {
	switch {
	case total >= tierHellFloor:
		return models.TierHell
	case total >= tierHardFloor:
		return models.TierHard
	case total >= tierMediumFloor:
		return models.TierMedium
	default:
		return models.TierEasy
	}
}

func TestSynthesize_DriverRanking(t *testing.T) {
	// Rate limiting (AP 80) vs CSR (S 60) vs GraphQL (L 80): the AP axis
	// wins the tie with loading because of insertion order.
	netsum := emptySummary()
	netsum.TotalCaptured = 1
	netsum.DataTypes[models.BucketGraphQL] = 1
	diff := models.DomDiffResult{HydrationGrowth: 0.6}

	_, score := Synthesize(models.HtmlStats{}, netsum, diff, []models.AccessProtectionSignal{signal(models.APRate)})

	want := []string{models.APRate, models.LGraphQL, models.SCSR}
	if len(score.Drivers) != len(want) {
		t.Fatalf("Drivers = %v, want %v", score.Drivers, want)
	}
	for i := range want {
		if score.Drivers[i] != want[i] {
			t.Errorf("Drivers[%d] = %s, want %s", i, score.Drivers[i], want[i])
		}
	}
}

func TestSynthesize_OpenAccessNeverADriver(t *testing.T) {
	diff := models.DomDiffResult{HydrationGrowth: 0.6}
	labels, score := Synthesize(models.HtmlStats{}, emptySummary(), diff, nil)

	if labels.AccessProtection[0] != models.APOpen {
		t.Fatalf("AccessProtection = %v, want AP-OPEN sentinel", labels.AccessProtection)
	}
	if slices.Contains(score.Drivers, models.APOpen) {
		t.Errorf("Drivers = %v, AP-OPEN must not appear", score.Drivers)
	}
}

func TestSynthesize_ScoreBounds(t *testing.T) {
	// Worst case on every axis still lands inside [0, 100].
	netsum := emptySummary()
	netsum.TotalCaptured = 1
	netsum.DataTypes[models.BucketGraphQL] = 1
	diff := models.DomDiffResult{HydrationGrowth: 2.0, IsVirtualizedSuspected: true}
	signals := []models.AccessProtectionSignal{signal(models.APCaptcha), signal(models.APAuth)}

	_, score := Synthesize(models.HtmlStats{}, netsum, diff, signals)

	if score.TotalScore < 0 || score.TotalScore > 100 {
		t.Errorf("TotalScore = %d, want within [0,100]", score.TotalScore)
	}
	if score.TotalScore != 93 {
		t.Errorf("TotalScore = %d, want 93 (50 + 27 + 16)", score.TotalScore)
	}
}
