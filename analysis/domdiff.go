package analysis

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/sasangkyoo/slap/models"
)

// Classification thresholds for the DOM timeline. Comparisons always use
// the unrounded ratios so display rounding cannot flip a verdict.
const (
	hydrationThreshold    = 0.5  // t0→t1 node growth above this means heavy CSR
	scrollThreshold       = 0.2  // t1→t2 node growth above this means infinite scroll
	virtualHeightGrowth   = 0.5  // scrollable extent grew by more than half...
	virtualNodeGrowthCeil = 0.05 // ...while almost no nodes materialized
)

// DiffSnapshots computes growth ratios across the three DOM snapshots and
// classifies the rendering pattern. Ratios degrade to 0 when their
// baseline snapshot has no nodes or no measurable height; t0's height is
// never used as a baseline because it is not measurable pre-hydration.
func DiffSnapshots(t0, t1, t2 models.DomSnapshotMetrics) models.DomDiffResult {
	var hydrationGrowth, scrollGrowth, scrollHeightGrowth float64

	if t0.NodeCount > 0 {
		hydrationGrowth = float64(t1.NodeCount-t0.NodeCount) / float64(t0.NodeCount)
	}
	if t1.NodeCount > 0 {
		scrollGrowth = float64(t2.NodeCount-t1.NodeCount) / float64(t1.NodeCount)
	}
	if t1.ScrollHeight > 0 {
		scrollHeightGrowth = float64(t2.ScrollHeight-t1.ScrollHeight) / float64(t1.ScrollHeight)
	}

	// Virtualization signature: the page reports far more scrollable
	// content than it actually materialized as DOM nodes.
	virtualized := scrollHeightGrowth > virtualHeightGrowth && scrollGrowth < virtualNodeGrowthCeil

	var interpretation string
	switch {
	case virtualized:
		interpretation = fmt.Sprintf("Height grew %.0f%% but nodes only %.0f%% -> Virtualized rendering",
			scrollHeightGrowth*100, scrollGrowth*100)
	case scrollGrowth > scrollThreshold:
		interpretation = fmt.Sprintf("Nodes grew %.0f%% after scroll -> Infinite scroll", scrollGrowth*100)
	case hydrationGrowth > hydrationThreshold:
		interpretation = fmt.Sprintf("Nodes grew %.0f%% during hydration -> Heavy CSR", hydrationGrowth*100)
	default:
		interpretation = "Minimal DOM changes detected"
	}

	return models.DomDiffResult{
		T0:                     snapshotStats(t0),
		T1:                     snapshotStats(t1),
		T2:                     snapshotStats(t2),
		HydrationGrowth:        round4(hydrationGrowth),
		ScrollGrowth:           round4(scrollGrowth),
		ScrollHeightGrowth:     round4(scrollHeightGrowth),
		HydrationDistance:      fingerprintDistance(t0.Fingerprint, t1.Fingerprint),
		ScrollDistance:         fingerprintDistance(t1.Fingerprint, t2.Fingerprint),
		IsVirtualizedSuspected: virtualized,
		Interpretation:         interpretation,
	}
}

func snapshotStats(m models.DomSnapshotMetrics) models.SnapshotStats {
	return models.SnapshotStats{
		NodeCount:    m.NodeCount,
		TextLength:   m.TextLength,
		ScrollHeight: m.ScrollHeight,
	}
}

// fingerprintDistance is the Hamming distance between two SimHash
// structure fingerprints. 0 when either snapshot had no fingerprint.
func fingerprintDistance(a, b uint64) int {
	if a == 0 || b == 0 {
		return 0
	}
	return bits.OnesCount64(a ^ b)
}

// round4 rounds to 4 decimal digits for output.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
