package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHighRating(t *testing.T) {
	c := Classify(RatingEvent{Content: "neon cyberpunk city", Stars: 5})

	require.Len(t, c.Deltas, 3)
	for _, d := range c.Deltas {
		assert.Equal(t, CategoryGeneral, d.Category)
		assert.Equal(t, 1, d.Delta)
	}
	assert.Equal(t, 1, c.Points)
	assert.Empty(t, c.Reason)
}

func TestClassifyRatingWeights(t *testing.T) {
	tests := []struct {
		stars int
		want  int
	}{
		{5, 1},
		{4, 1},
		{3, 0},
		{2, -1},
		{1, -1},
		{0, 0},  // out of range, neutral
		{99, 0}, // out of range, neutral
	}

	for _, tt := range tests {
		c := Classify(RatingEvent{Content: "neon city", Stars: tt.stars})
		if tt.want == 0 {
			assert.Empty(t, c.Deltas, "stars=%d should produce no deltas", tt.stars)
			continue
		}
		require.NotEmpty(t, c.Deltas, "stars=%d", tt.stars)
		assert.Equal(t, tt.want, c.Deltas[0].Delta, "stars=%d", tt.stars)
	}
}

func TestClassifyReaction(t *testing.T) {
	liked := Classify(ReactionEvent{Content: "soft pastel colors", Liked: true})
	assert.Equal(t, 1, liked.Likes)
	assert.Equal(t, 0, liked.Dislikes)
	require.NotEmpty(t, liked.Deltas)
	assert.Equal(t, 1, liked.Deltas[0].Delta)

	disliked := Classify(ReactionEvent{Content: "soft pastel colors", Liked: false})
	assert.Equal(t, 1, disliked.Dislikes)
	require.NotEmpty(t, disliked.Deltas)
	assert.Equal(t, -1, disliked.Deltas[0].Delta)
}

func TestClassifyTrashScopedToReason(t *testing.T) {
	c := Classify(TrashEvent{Content: "blurry low quality render", Reason: "low_quality"})

	assert.Equal(t, "low_quality", c.Reason)
	assert.Equal(t, 1, c.Deletes)
	require.NotEmpty(t, c.Deltas)
	for _, d := range c.Deltas {
		assert.Equal(t, "low_quality", d.Category)
		assert.Equal(t, -2, d.Delta)
	}
}

func TestClassifyRejection(t *testing.T) {
	c := Classify(RejectionEvent{Content: "generic bland landscape", Reason: "too_generic"})

	assert.Equal(t, "too_generic", c.Reason)
	for _, d := range c.Deltas {
		assert.Equal(t, "too_generic", d.Category)
		assert.Equal(t, -2, d.Delta)
	}
}

func TestClassifyRejectionWithoutReasonFallsBackToGeneral(t *testing.T) {
	c := Classify(RejectionEvent{Content: "moody forest"})
	require.NotEmpty(t, c.Deltas)
	assert.Equal(t, CategoryGeneral, c.Deltas[0].Category)
}

func TestClassifyCustomSmallerMagnitude(t *testing.T) {
	pos := Classify(CustomEvent{Text: "love the dramatic lighting", Positive: true})
	require.NotEmpty(t, pos.Deltas)
	for _, d := range pos.Deltas {
		assert.Equal(t, CategoryCustom, d.Category)
		assert.Equal(t, 1, d.Delta)
	}

	neg := Classify(CustomEvent{Text: "hate the dramatic lighting", Positive: false})
	require.NotEmpty(t, neg.Deltas)
	assert.Equal(t, -1, neg.Deltas[0].Delta)
}

func TestClassifyEmptyContent(t *testing.T) {
	events := []Event{
		RatingEvent{Stars: 5},
		ReactionEvent{Liked: true},
		RejectionEvent{Reason: "too_generic"},
		TrashEvent{Reason: "low_quality"},
		CustomEvent{Positive: true},
	}

	for _, ev := range events {
		c := Classify(ev)
		assert.Empty(t, c.Deltas, "kind=%s should emit zero deltas on empty content", ev.Kind())
	}
}

func TestClassifyNil(t *testing.T) {
	c := Classify(nil)
	assert.Empty(t, c.Deltas)
	assert.Zero(t, c.Points)
}
