package agnes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-hotspot/types"
)

func TestSeverityScoreScenarios(t *testing.T) {
	tests := []struct {
		name                       string
		accidents, killed, injured int
		want                       float64
	}{
		{"frequency and casualties mid-range", 10, 2, 3, 55}, // 20 + 35
		{"both components capped", 30, 10, 10, 100},          // 40 + 60
		{"empty cluster", 0, 0, 0, 0},
		{"frequency only", 5, 0, 0, 10},
		{"casualty cap alone", 3, 6, 0, 66}, // 6 + 60
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityScore(tt.accidents, tt.killed, tt.injured))
		})
	}
}

func TestSeverityScoreBounds(t *testing.T) {
	for _, counts := range [][3]int{{0, 0, 0}, {1, 0, 0}, {1000, 0, 0}, {0, 1000, 1000}, {500, 500, 500}} {
		s := SeverityScore(counts[0], counts[1], counts[2])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
	}
}

func TestTierBands(t *testing.T) {
	b := DefaultTierBands
	assert.Equal(t, types.Critical, b.Tier(100))
	assert.Equal(t, types.Critical, b.Tier(70))
	assert.Equal(t, types.High, b.Tier(69.9))
	assert.Equal(t, types.High, b.Tier(50))
	assert.Equal(t, types.Medium, b.Tier(30))
	assert.Equal(t, types.Low, b.Tier(29.9))
	assert.Equal(t, types.Low, b.Tier(0))
}

func TestScoreClustersOrdering(t *testing.T) {
	clusters := []types.Cluster{
		{AccidentCount: 3, PrimaryLocation: "Cabadbaran"},                                // score 6
		{AccidentCount: 30, KilledCount: 10, PrimaryLocation: "Butuan"},                  // score 100
		{AccidentCount: 3, PrimaryLocation: "Bayugan"},                                   // score 6, same count: location breaks tie
		{AccidentCount: 10, KilledCount: 2, InjuredCount: 3, PrimaryLocation: "Surigao"}, // score 55
		{AccidentCount: 4, KilledCount: 0, InjuredCount: 0, PrimaryLocation: "Tandag"},   // score 8
	}
	ScoreClusters(clusters, DefaultTierBands)

	got := make([]string, len(clusters))
	for i, c := range clusters {
		got[i] = c.PrimaryLocation
	}
	assert.Equal(t, []string{"Butuan", "Surigao", "Tandag", "Bayugan", "Cabadbaran"}, got)

	assert.Equal(t, types.Critical, clusters[0].Severity)
	assert.Equal(t, types.High, clusters[1].Severity)
	assert.Equal(t, types.Low, clusters[2].Severity)
}

func TestScoreClustersDeterministic(t *testing.T) {
	build := func() []types.Cluster {
		return []types.Cluster{
			{AccidentCount: 5, PrimaryLocation: "B"},
			{AccidentCount: 5, PrimaryLocation: "A"},
			{AccidentCount: 7, PrimaryLocation: "C"},
		}
	}
	c1, c2 := build(), build()
	ScoreClusters(c1, DefaultTierBands)
	ScoreClusters(c2, DefaultTierBands)
	assert.Equal(t, c1, c2)
}
