package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpilot/internal/config"
	"promptpilot/internal/feedback"
	"promptpilot/internal/reputation"
	"promptpilot/internal/store"
	"promptpilot/internal/tastepack"
)

func newTestEngine(t *testing.T) (*Engine, *store.LocalStore) {
	t.Helper()

	st, err := store.NewLocalStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.DefaultConfig()
	cfg.Sweep.Interval = "10ms"

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	e := New(cfg, st, func() time.Time { return now })
	t.Cleanup(func() { e.Close() })

	return e, st
}

func TestRecordFeedbackBuildsLikedSet(t *testing.T) {
	e, st := newTestEngine(t)

	ev := feedback.RatingEvent{Content: "neon cyberpunk city", Stars: 5}
	require.NoError(t, e.RecordFeedback(ev))
	require.NoError(t, e.RecordFeedback(ev))

	liked, err := st.LikedKeywords(store.LikedThreshold)
	require.NoError(t, err)
	require.Len(t, liked, 3)

	kws := make(map[string]int)
	for _, ks := range liked {
		kws[ks.Keyword] = ks.Score
	}
	assert.Equal(t, 2, kws["neon"])
	assert.Equal(t, 2, kws["cyberpunk"])
	assert.Equal(t, 2, kws["city"])
}

func TestRecordFeedbackNilEvent(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.RecordFeedback(nil))

	prefs, err := e.GetDeepPreferences()
	require.NoError(t, err)
	assert.Empty(t, prefs.KeywordScores)
	assert.Zero(t, prefs.Stats.TotalContributions)
}

func TestRecordFeedbackEmptyContentIsNoop(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.RecordFeedback(feedback.RatingEvent{Stars: 5}))

	prefs, err := e.GetDeepPreferences()
	require.NoError(t, err)
	assert.Empty(t, prefs.KeywordScores)
	// The event still counts as a contribution.
	assert.Equal(t, int64(1), prefs.Stats.TotalContributions)
}

func TestAddLineageNodeAwardsPoints(t *testing.T) {
	e, _ := newTestEngine(t)

	node, err := e.AddLineageNode("a neon city", "midjourney", "", "enhance")
	require.NoError(t, err)
	require.NotNil(t, node)

	stats, err := e.GetContributorStats()
	require.NoError(t, err)
	assert.Equal(t, int64(pointsPerLineageInsert), stats.TotalPoints)
}

func TestGetLineageChain(t *testing.T) {
	e, _ := newTestEngine(t)

	root, err := e.AddLineageNode("v0", "sora", "", "enhance")
	require.NoError(t, err)
	a, err := e.AddLineageNode("v1", "sora", root.ID, "refine")
	require.NoError(t, err)
	b, err := e.AddLineageNode("v2", "sora", a.ID, "shorten")
	require.NoError(t, err)

	chain, err := e.GetLineage(b.ID)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, root.ID, chain[0].ID)
	assert.Equal(t, a.ID, chain[1].ID)
	assert.Equal(t, b.ID, chain[2].ID)
}

func TestAddLineageNodeUnknownParent(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.AddLineageNode("child", "sora", "no-such-id", "refine")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestContributorStatsTierProgression(t *testing.T) {
	e, st := newTestEngine(t)

	stats, err := e.GetContributorStats()
	require.NoError(t, err)
	assert.Equal(t, reputation.TierExplorer, stats.CurrentTier)

	require.NoError(t, st.IncrementCounter(store.CounterPoints, 150))

	stats, err = e.GetContributorStats()
	require.NoError(t, err)
	assert.Equal(t, reputation.TierCurator, stats.CurrentTier)
}

func TestTasteProfileBucketsDimensions(t *testing.T) {
	e, _ := newTestEngine(t)

	// "cyberpunk" is visual_style vocabulary, "neon" is color_palette,
	// "skyline" is free-form.
	ev := feedback.RatingEvent{Content: "cyberpunk neon skyline", Stars: 5}
	require.NoError(t, e.RecordFeedback(ev))
	require.NoError(t, e.RecordFeedback(ev))

	profile, err := e.GetTasteProfile()
	require.NoError(t, err)
	assert.Contains(t, profile.VisualStyles, "cyberpunk")
	assert.Contains(t, profile.ColorPalettes, "neon")
	assert.Contains(t, profile.FrequentKeywords, "skyline")
	assert.Empty(t, profile.AvoidKeywords)
}

func TestTasteProfileAvoidKeywords(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.RecordFeedback(feedback.TrashEvent{Content: "oversaturated glare", Reason: "wrong_style"}))

	profile, err := e.GetTasteProfile()
	require.NoError(t, err)
	assert.Contains(t, profile.AvoidKeywords, "oversaturated")
	assert.Contains(t, profile.AvoidKeywords, "glare")
}

func TestExportImportRoundTripReplace(t *testing.T) {
	e, _ := newTestEngine(t)

	ev := feedback.RatingEvent{Content: "cyberpunk neon skyline", Stars: 5}
	require.NoError(t, e.RecordFeedback(ev))
	require.NoError(t, e.RecordFeedback(ev))

	pack, err := e.ExportTastePack("my taste", "test pack", []string{"visual"})
	require.NoError(t, err)
	require.NoError(t, pack.Validate())
	require.Len(t, pack.Dimensions, 3)

	// Pollute the ledger, then restore via replace import.
	require.NoError(t, e.RecordFeedback(feedback.RatingEvent{Content: "pastel watercolor meadow", Stars: 5}))

	require.NoError(t, e.ImportTastePack(pack, tastepack.ImportReplace))

	restored, err := e.ExportTastePack("restored", "", nil)
	require.NoError(t, err)

	exported := func(p *tastepack.TastePack) map[string]int {
		m := make(map[string]int)
		for _, dv := range p.Dimensions {
			m[dv.DimensionID+"/"+dv.Value] = dv.Weight
		}
		return m
	}
	assert.Equal(t, exported(pack), exported(restored))
}

func TestImportMergeAddsWeights(t *testing.T) {
	e, _ := newTestEngine(t)

	ev := feedback.RatingEvent{Content: "neon skyline", Stars: 5}
	require.NoError(t, e.RecordFeedback(ev))
	require.NoError(t, e.RecordFeedback(ev))

	pack := &tastepack.TastePack{
		FormatVersion: tastepack.FormatVersion,
		Name:          "boost",
		Dimensions: []tastepack.DimensionValue{
			{DimensionID: tastepack.DimColorPalette, Value: "neon", Weight: 3},
		},
	}
	require.NoError(t, e.ImportTastePack(pack, tastepack.ImportMerge))

	prefs, err := e.GetDeepPreferences()
	require.NoError(t, err)
	// 2 from feedback + 3 imported.
	assert.Equal(t, 5, prefs.KeywordScores[feedback.CategoryGeneral]["neon"].Score)
	// Merge must not discard unrelated existing scores.
	assert.Equal(t, 2, prefs.KeywordScores[feedback.CategoryGeneral]["skyline"].Score)
}

func TestImportRejectsMalformedPackWithoutSideEffects(t *testing.T) {
	e, _ := newTestEngine(t)

	require.NoError(t, e.RecordFeedback(feedback.RatingEvent{Content: "neon skyline", Stars: 5}))
	before, err := e.GetDeepPreferences()
	require.NoError(t, err)

	bad := &tastepack.TastePack{
		FormatVersion: 99,
		Name:          "bad",
		Dimensions: []tastepack.DimensionValue{
			{DimensionID: tastepack.DimMood, Value: "dark", Weight: 2},
		},
	}
	err = e.ImportTastePack(bad, tastepack.ImportReplace)
	assert.ErrorIs(t, err, tastepack.ErrInvalidFormat)

	after, err := e.GetDeepPreferences()
	require.NoError(t, err)
	assert.Equal(t, before.KeywordScores, after.KeywordScores)
}

func TestImportRejectsUnknownDimension(t *testing.T) {
	e, _ := newTestEngine(t)

	bad := &tastepack.TastePack{
		FormatVersion: tastepack.FormatVersion,
		Name:          "bad",
		Dimensions: []tastepack.DimensionValue{
			{DimensionID: "shoe_size", Value: "42", Weight: 1},
		},
	}
	err := e.ImportTastePack(bad, tastepack.ImportMerge)
	assert.ErrorIs(t, err, tastepack.ErrDimensionNotFound)
}

func TestSimilarTo(t *testing.T) {
	e, _ := newTestEngine(t)

	got := e.SimilarTo("neon cyberpunk city", []string{
		"neon cyberpunk alley",
		"pastel watercolor meadow",
	}, 0.3)
	require.Len(t, got, 1)
	assert.Equal(t, "neon cyberpunk alley", got[0])
}
