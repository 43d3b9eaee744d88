package feedback

import (
	"promptpilot/internal/keyword"
	"promptpilot/internal/logging"
)

// Ledger categories. Structured rejection and trash deltas are scoped to
// the reason label so reason-specific aversions stay separable from the
// general taste signal.
const (
	CategoryGeneral = "general"
	CategoryCustom  = "custom"
)

// Delta magnitudes. Structured rejection and trash signals carry double
// weight; free-text custom feedback stays at single weight, reflecting
// lower confidence than a deliberate structured action.
const (
	weightPositive       = 1  // rating >= 4, like
	weightNegative       = -1 // rating <= 2, dislike
	weightStrongNegative = -2 // structured rejection, trash
	weightCustom         = 1  // free-text feedback, either polarity
)

// ScoreDelta is one keyword score adjustment for the ledger.
type ScoreDelta struct {
	Category string
	Keyword  string
	Delta    int
}

// Classification is the full outcome of classifying one event: the score
// deltas plus the aggregate counter and reason bookkeeping the ledger
// tracks alongside keyword scores.
type Classification struct {
	Deltas   []ScoreDelta
	Reason   string // non-empty for rejection/trash events
	Likes    int
	Dislikes int
	Deletes  int
	Points   int // contribution points earned by this event
}

// Classify maps a feedback event to weighted score deltas. Pure and
// total: malformed or empty events degrade to zero deltas, never errors.
func Classify(ev Event) Classification {
	if ev == nil {
		return Classification{}
	}

	var c Classification
	c.Points = 1 // every feedback event counts as a contribution

	switch e := ev.(type) {
	case RatingEvent:
		c.Deltas = contentDeltas(e.Content, CategoryGeneral, ratingWeight(e.Stars))

	case ReactionEvent:
		w := weightPositive
		if e.Liked {
			c.Likes = 1
		} else {
			w = weightNegative
			c.Dislikes = 1
		}
		c.Deltas = contentDeltas(e.Content, CategoryGeneral, w)

	case RejectionEvent:
		c.Reason = e.Reason
		c.Deltas = contentDeltas(e.Content, reasonCategory(e.Reason), weightStrongNegative)

	case TrashEvent:
		c.Reason = e.Reason
		c.Deletes = 1
		c.Deltas = contentDeltas(e.Content, reasonCategory(e.Reason), weightStrongNegative)

	case CustomEvent:
		w := weightCustom
		if !e.Positive {
			w = -weightCustom
		}
		c.Deltas = contentDeltas(e.Text, CategoryCustom, w)

	default:
		logging.FeedbackDebug("Unknown feedback event kind, ignoring")
		c.Points = 0
	}

	logging.FeedbackDebug("Classified %s event: %d deltas, reason=%q", ev.Kind(), len(c.Deltas), c.Reason)
	return c
}

// ratingWeight maps a 1-5 star rating to a delta weight. Ratings of 3
// are neutral and out-of-range values are treated as neutral too.
func ratingWeight(stars int) int {
	switch {
	case stars >= 4 && stars <= 5:
		return weightPositive
	case stars >= 1 && stars <= 2:
		return weightNegative
	default:
		return 0
	}
}

// reasonCategory scopes deltas under the reason label. Events without a
// reason fall back to the general category.
func reasonCategory(reason string) string {
	if reason == "" {
		return CategoryGeneral
	}
	return reason
}

// contentDeltas extracts keywords from content and builds one delta per
// keyword. A zero weight or empty content produces no deltas.
func contentDeltas(content, category string, weight int) []ScoreDelta {
	if weight == 0 {
		return nil
	}

	kws := keyword.Extract(content)
	if len(kws) == 0 {
		return nil
	}

	deltas := make([]ScoreDelta, 0, len(kws))
	for _, kw := range kws {
		deltas = append(deltas, ScoreDelta{Category: category, Keyword: kw, Delta: weight})
	}
	return deltas
}
