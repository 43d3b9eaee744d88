package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		points int64
		want   Tier
	}{
		{-10, TierExplorer},
		{0, TierExplorer},
		{99, TierExplorer},
		{100, TierCurator},
		{499, TierCurator},
		{500, TierTastemaker},
		{1999, TierTastemaker},
		{2000, TierOracle},
		{1 << 40, TierOracle},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.points), "points=%d", tt.points)
	}
}

func TestTierForMonotonic(t *testing.T) {
	rank := map[Tier]int{TierExplorer: 0, TierCurator: 1, TierTastemaker: 2, TierOracle: 3}

	prev := TierFor(0)
	for p := int64(1); p <= 2500; p++ {
		cur := TierFor(p)
		if rank[cur] < rank[prev] {
			t.Fatalf("Tier decreased from %s to %s at points=%d", prev, cur, p)
		}
		prev = cur
	}
}

func TestProgressToNext(t *testing.T) {
	// 10 points short of curator.
	p := ProgressToNext(ThresholdCurator - 10)
	assert.Equal(t, TierCurator, p.NextTier)
	assert.Equal(t, int64(10), p.PointsToNext)
	assert.Equal(t, 90, p.ProgressPercent)

	// Exactly at a threshold: progress restarts within the new tier.
	p = ProgressToNext(ThresholdCurator)
	assert.Equal(t, TierTastemaker, p.NextTier)
	assert.Equal(t, int64(ThresholdTastemaker-ThresholdCurator), p.PointsToNext)
	assert.Equal(t, 0, p.ProgressPercent)
}

func TestProgressToNextTopTier(t *testing.T) {
	p := ProgressToNext(ThresholdOracle + 5000)
	assert.Equal(t, 100, p.ProgressPercent)
	assert.Equal(t, int64(0), p.PointsToNext)
	assert.Empty(t, p.NextTier)
}

func TestProgressPercentClamped(t *testing.T) {
	for p := int64(-50); p <= 3000; p += 7 {
		prog := ProgressToNext(p)
		assert.GreaterOrEqual(t, prog.ProgressPercent, 0, "points=%d", p)
		assert.LessOrEqual(t, prog.ProgressPercent, 100, "points=%d", p)
		assert.GreaterOrEqual(t, prog.PointsToNext, int64(0), "points=%d", p)
	}
}
