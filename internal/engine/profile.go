package engine

import (
	"promptpilot/internal/logging"
	"promptpilot/internal/reputation"
	"promptpilot/internal/store"
	"promptpilot/internal/tastepack"
)

// maxFrequentKeywords caps the frequent-keyword counter in the profile.
const maxFrequentKeywords = 20

// expertiseTagThreshold is the number of liked vocabulary matches in a
// dimension before it counts as an expertise area.
const expertiseTagThreshold = 3

// TasteProfile aggregates the ledger into the categorical preference
// lists the rewrite request builder consumes. Derived from the ledger
// on read, so it can never drift from the underlying scores.
type TasteProfile struct {
	VisualStyles     []string       `json:"visual_styles"`
	ColorPalettes    []string       `json:"color_palettes"`
	Lighting         []string       `json:"lighting"`
	AudioGenres      []string       `json:"audio_genres"`
	Moods            []string       `json:"moods"`
	FrequentKeywords map[string]int `json:"frequent_keywords"`
	AvoidKeywords    []string       `json:"avoid_keywords"`
}

// DeepPreferences exposes the raw ledger for the dashboard's
// explainability view: every keyword score plus the aggregate stats.
type DeepPreferences struct {
	KeywordScores map[string]map[string]store.KeywordScore `json:"keyword_scores"`
	Stats         store.Counters                           `json:"stats"`
	ReasonCounts  map[string]int                           `json:"reason_counts"`
}

// GetTasteProfile builds the profile from liked and avoided keywords,
// bucketing liked keywords into catalog dimensions by vocabulary.
func (e *Engine) GetTasteProfile() (*TasteProfile, error) {
	timer := logging.StartTimer(logging.CategoryEngine, "GetTasteProfile")
	defer timer.Stop()

	liked, err := e.store.LikedKeywords(store.LikedThreshold)
	if err != nil {
		return nil, err
	}
	avoid, err := e.store.AvoidKeywords(store.AvoidThreshold)
	if err != nil {
		return nil, err
	}

	profile := &TasteProfile{FrequentKeywords: make(map[string]int)}

	for _, ks := range liked {
		switch dimensionFor(ks.Keyword) {
		case tastepack.DimVisualStyle:
			profile.VisualStyles = append(profile.VisualStyles, ks.Keyword)
		case tastepack.DimColorPalette:
			profile.ColorPalettes = append(profile.ColorPalettes, ks.Keyword)
		case tastepack.DimLighting:
			profile.Lighting = append(profile.Lighting, ks.Keyword)
		case tastepack.DimAudioGenre:
			profile.AudioGenres = append(profile.AudioGenres, ks.Keyword)
		case tastepack.DimMood:
			profile.Moods = append(profile.Moods, ks.Keyword)
		}

		if len(profile.FrequentKeywords) < maxFrequentKeywords {
			profile.FrequentKeywords[ks.Keyword] = ks.Score
		}
	}

	for _, ks := range avoid {
		profile.AvoidKeywords = append(profile.AvoidKeywords, ks.Keyword)
	}

	return profile, nil
}

// GetDeepPreferences returns the raw keyword scores and stats.
func (e *Engine) GetDeepPreferences() (*DeepPreferences, error) {
	scores, err := e.store.Scores()
	if err != nil {
		return nil, err
	}
	counters, err := e.store.Counters()
	if err != nil {
		return nil, err
	}
	reasons, err := e.store.ReasonCounts()
	if err != nil {
		return nil, err
	}

	return &DeepPreferences{
		KeywordScores: scores,
		Stats:         counters,
		ReasonCounts:  reasons,
	}, nil
}

// GetContributorStats derives the contributor summary. The tier is a
// pure function of points, never stored.
func (e *Engine) GetContributorStats() (*reputation.ContributorStats, error) {
	counters, err := e.store.Counters()
	if err != nil {
		return nil, err
	}

	stats := &reputation.ContributorStats{
		TotalContributions: counters.TotalContributions,
		TotalPoints:        counters.TotalPoints,
		CurrentTier:        reputation.TierFor(counters.TotalPoints),
		TasteScore:         e.tasteScore(),
		ExpertiseTags:      e.expertiseTags(),
		ConsentEnabled:     e.user.ConsentEnabled,
	}
	return stats, nil
}

// tasteScore is the fraction of scored keywords with a positive score,
// in [0,1]. Zero when nothing is scored yet.
func (e *Engine) tasteScore() float64 {
	scores, err := e.store.Scores()
	if err != nil {
		return 0
	}

	totals := make(map[string]int)
	for _, kws := range scores {
		for kw, ks := range kws {
			totals[kw] += ks.Score
		}
	}

	scored, positive := 0, 0
	for _, total := range totals {
		if total == 0 {
			continue
		}
		scored++
		if total > 0 {
			positive++
		}
	}
	if scored == 0 {
		return 0
	}
	return float64(positive) / float64(scored)
}

// expertiseTags unions the user's self-declared tags with dimensions
// where enough liked keywords fall in the dimension's vocabulary.
func (e *Engine) expertiseTags() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, tag := range e.user.ExpertiseTags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	liked, err := e.store.LikedKeywords(store.LikedThreshold)
	if err != nil {
		return tags
	}

	matches := make(map[string]int)
	for _, ks := range liked {
		if dim := dimensionFor(ks.Keyword); dim != "" {
			matches[dim]++
		}
	}
	for _, d := range tastepack.Catalog() {
		if d.FreeForm {
			continue
		}
		if matches[d.ID] >= expertiseTagThreshold {
			if _, dup := seen[d.ID]; !dup {
				seen[d.ID] = struct{}{}
				tags = append(tags, d.ID)
			}
		}
	}
	return tags
}

// dimensionFor returns the ID of the first fixed-vocabulary dimension
// containing the keyword, or empty if none does.
func dimensionFor(kw string) string {
	for _, d := range tastepack.Catalog() {
		if d.FreeForm {
			continue
		}
		if d.Accepts(kw) {
			return d.ID
		}
	}
	return ""
}
