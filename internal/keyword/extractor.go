// Package keyword extracts significant keywords from prompt text.
// The same extraction feeds both preference scoring and similarity
// comparison so the two always agree on what counts as a keyword.
package keyword

import (
	"strings"
	"unicode"
)

// MinTokenLength is the shortest token kept after stop-word filtering.
const MinTokenLength = 3

// stopWords are tokens that carry no preference signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"are": {}, "was": {}, "were": {}, "been": {}, "have": {}, "has": {},
	"had": {}, "not": {}, "but": {}, "all": {}, "can": {}, "will": {},
	"would": {}, "should": {}, "could": {}, "from": {}, "into": {},
	"onto": {}, "over": {}, "under": {}, "very": {}, "more": {}, "most": {},
	"some": {}, "such": {}, "like": {}, "than": {}, "then": {}, "them": {},
	"they": {}, "their": {}, "there": {}, "here": {}, "where": {},
	"when": {}, "what": {}, "which": {}, "who": {}, "how": {}, "why": {},
	"you": {}, "your": {}, "our": {}, "its": {}, "his": {}, "her": {},
	"about": {}, "after": {}, "before": {}, "between": {}, "each": {},
	"make": {}, "made": {}, "making": {}, "use": {}, "using": {}, "used": {},
	"please": {}, "also": {}, "just": {}, "only": {}, "any": {}, "out": {},
	"image": {}, "video": {}, "generate": {}, "create": {}, "prompt": {},
}

// Extract tokenizes free text into a deduplicated set of significant
// keywords: lower-cased, punctuation stripped (internal hyphens kept),
// stop-words and short tokens discarded. Pure function, no I/O.
func Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)

	// Split on anything that is not a letter, digit, or hyphen.
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	seen := make(map[string]struct{}, len(fields))
	var keywords []string
	for _, tok := range fields {
		// Leading/trailing hyphens are punctuation, internal ones are not.
		tok = strings.Trim(tok, "-")
		if len(tok) < MinTokenLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}

	return keywords
}

// ExtractSet returns the extracted keywords as a set.
func ExtractSet(text string) map[string]struct{} {
	kws := Extract(text)
	set := make(map[string]struct{}, len(kws))
	for _, kw := range kws {
		set[kw] = struct{}{}
	}
	return set
}

// Similarity computes the Jaccard index over the keyword sets of two
// texts. Returns 0 when the union is empty.
func Similarity(a, b string) float64 {
	setA := ExtractSet(a)
	setB := ExtractSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for kw := range setA {
		if _, ok := setB[kw]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// IsStopWord reports whether a token is in the stop-word set.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}
