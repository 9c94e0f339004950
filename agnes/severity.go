package agnes

import (
	"sort"

	"go-hotspot/types"
)

// Severity weights and caps. Frequency contributes at most 40 points,
// casualties at most 60, so the total is bounded by 100.
const (
	killedWeight  = 10
	injuredWeight = 5

	frequencyWeight = 2
	frequencyCap    = 40.0
	casualtyCap     = 60.0
)

// TierBands holds the severity-score edges for the quality tiers. The
// edges are configuration, not part of the scoring contract.
type TierBands struct {
	Critical float64
	High     float64
	Medium   float64
}

// DefaultTierBands matches the dashboard banding: >=70 critical,
// >=50 high, >=30 medium, else low.
var DefaultTierBands = TierBands{Critical: 70, High: 50, Medium: 30}

// SeverityScore combines accident frequency and casualty impact into a
// bounded [0,100] risk score. Pure function of the counts.
func SeverityScore(accidentCount, killed, injured int) float64 {
	frequency := float64(accidentCount * frequencyWeight)
	if frequency > frequencyCap {
		frequency = frequencyCap
	}
	casualty := float64(killed*killedWeight + injured*injuredWeight)
	if casualty > casualtyCap {
		casualty = casualtyCap
	}
	return frequency + casualty
}

// Tier bands a severity score per the given edges.
func (b TierBands) Tier(score float64) types.Severity {
	switch {
	case score >= b.Critical:
		return types.Critical
	case score >= b.High:
		return types.High
	case score >= b.Medium:
		return types.Medium
	default:
		return types.Low
	}
}

// ScoreClusters assigns severity scores and tiers in place, then sorts
// clusters by severity descending, accident count descending, primary
// location ascending. The ordering is deterministic so repeated runs on
// identical input produce identical output.
func ScoreClusters(clusters []types.Cluster, bands TierBands) {
	for i := range clusters {
		c := &clusters[i]
		c.SeverityScore = SeverityScore(c.AccidentCount, c.KilledCount, c.InjuredCount)
		c.Severity = bands.Tier(c.SeverityScore)
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		if clusters[i].SeverityScore != clusters[j].SeverityScore {
			return clusters[i].SeverityScore > clusters[j].SeverityScore
		}
		if clusters[i].AccidentCount != clusters[j].AccidentCount {
			return clusters[i].AccidentCount > clusters[j].AccidentCount
		}
		return clusters[i].PrimaryLocation < clusters[j].PrimaryLocation
	})
}
