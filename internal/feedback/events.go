// Package feedback classifies structured feedback events into weighted
// keyword score deltas for the preference ledger.
package feedback

// EventKind identifies a feedback event variant.
type EventKind string

const (
	KindRating    EventKind = "rating"
	KindReaction  EventKind = "reaction"
	KindRejection EventKind = "rejection"
	KindTrash     EventKind = "trash"
	KindCustom    EventKind = "custom"
)

// Event is the tagged union over the five feedback variants.
// Each variant carries the content it refers to; classification
// tolerates empty content by emitting zero deltas.
type Event interface {
	Kind() EventKind
}

// RatingEvent is a 1-5 star rating of a generated prompt.
type RatingEvent struct {
	Content string
	Stars   int
}

func (RatingEvent) Kind() EventKind { return KindRating }

// ReactionEvent is a like/dislike toggle.
type ReactionEvent struct {
	Content string
	Liked   bool
}

func (ReactionEvent) Kind() EventKind { return KindReaction }

// RejectionEvent is a structured rejection of a suggested rewrite,
// with a reason label (e.g. "too_generic", "wrong_style").
type RejectionEvent struct {
	Content string
	Reason  string
}

func (RejectionEvent) Kind() EventKind { return KindRejection }

// TrashEvent marks a prompt as trash, with a reason label.
type TrashEvent struct {
	Content string
	Reason  string
}

func (TrashEvent) Kind() EventKind { return KindTrash }

// CustomEvent is free-text feedback typed by the user. Positive controls
// the polarity; the text itself supplies the keywords.
type CustomEvent struct {
	Text     string
	Positive bool
}

func (CustomEvent) Kind() EventKind { return KindCustom }
