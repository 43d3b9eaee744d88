// Package reputation derives a contributor's discrete tier from
// cumulative points. Tiers are never stored; they are recomputed from
// points so the two cannot drift apart.
package reputation

// Tier is a discrete reputation bracket.
type Tier string

const (
	TierExplorer   Tier = "explorer"
	TierCurator    Tier = "curator"
	TierTastemaker Tier = "tastemaker"
	TierOracle     Tier = "oracle"
)

// Point thresholds per tier, totally ordered and non-overlapping.
const (
	ThresholdExplorer   = 0
	ThresholdCurator    = 100
	ThresholdTastemaker = 500
	ThresholdOracle     = 2000
)

// tierOrder lists tiers lowest first with their entry thresholds.
var tierOrder = []struct {
	tier      Tier
	threshold int64
}{
	{TierExplorer, ThresholdExplorer},
	{TierCurator, ThresholdCurator},
	{TierTastemaker, ThresholdTastemaker},
	{TierOracle, ThresholdOracle},
}

// ContributorStats summarizes a contributor for the dashboard.
type ContributorStats struct {
	TotalContributions int64    `json:"total_contributions"`
	TotalPoints        int64    `json:"total_points"`
	CurrentTier        Tier     `json:"current_tier"`
	TasteScore         float64  `json:"taste_score"` // in [0,1]
	ExpertiseTags      []string `json:"expertise_tags"`
	ConsentEnabled     bool     `json:"consent_enabled"`
}

// Progress describes the distance to the next tier.
type Progress struct {
	ProgressPercent int   `json:"progress_percent"` // 0..100
	PointsToNext    int64 `json:"points_to_next"`
	NextTier        Tier  `json:"next_tier,omitempty"` // empty at the top tier
}

// TierFor returns the tier for a point total. Monotonic non-decreasing
// in points; negative points clamp to the lowest tier.
func TierFor(points int64) Tier {
	current := TierExplorer
	for _, entry := range tierOrder {
		if points >= entry.threshold {
			current = entry.tier
		}
	}
	return current
}

// ProgressToNext computes linear progress within the current tier's
// point range. At the top tier it returns 100%, zero points to next,
// and no next tier. The percent is clamped to [0,100] even if points
// transiently exceed the next threshold.
func ProgressToNext(points int64) Progress {
	current := TierFor(points)

	for i, entry := range tierOrder {
		if entry.tier != current {
			continue
		}
		if i == len(tierOrder)-1 {
			return Progress{ProgressPercent: 100, PointsToNext: 0}
		}

		next := tierOrder[i+1]
		span := next.threshold - entry.threshold
		within := points - entry.threshold

		percent := int(within * 100 / span)
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}

		toNext := next.threshold - points
		if toNext < 0 {
			toNext = 0
		}

		return Progress{
			ProgressPercent: percent,
			PointsToNext:    toNext,
			NextTier:        next.tier,
		}
	}

	// Unreachable: TierFor always returns a tier from tierOrder.
	return Progress{ProgressPercent: 100, PointsToNext: 0}
}
