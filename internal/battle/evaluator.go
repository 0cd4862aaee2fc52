package battle

import "strings"

const defaultSimilarityThreshold = 0.7

// Evaluator decides whether a submitted answer matches a card's canonical
// answer. Pure comparison, no I/O.
type Evaluator struct {
	threshold float64
}

// NewEvaluator creates an evaluator with the given Jaccard similarity
// threshold (0 picks the default of 0.7).
func NewEvaluator(threshold float64) *Evaluator {
	if threshold <= 0 || threshold > 1 {
		threshold = defaultSimilarityThreshold
	}
	return &Evaluator{threshold: threshold}
}

// Evaluate normalizes all strings and checks, in order: exact match against
// the canonical answer, exact match against any acceptable alternative, then
// token-set Jaccard similarity against the canonical answer. A missing
// canonical answer yields false.
func (e *Evaluator) Evaluate(canonical string, alternatives []string, submitted string) bool {
	sub := normalizeAnswer(submitted)
	if sub == "" {
		return false
	}

	canon := normalizeAnswer(canonical)
	if canon != "" && sub == canon {
		return true
	}
	for _, alt := range alternatives {
		if a := normalizeAnswer(alt); a != "" && sub == a {
			return true
		}
	}
	if canon == "" {
		return false
	}
	return jaccardSimilarity(sub, canon) >= e.threshold
}

// normalizeAnswer trims, lowercases, and collapses internal whitespace.
func normalizeAnswer(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// jaccardSimilarity computes |A∩B| / |A∪B| over whitespace-tokenized word
// sets. Inputs are assumed normalized.
func jaccardSimilarity(a, b string) float64 {
	setA := map[string]struct{}{}
	for _, tok := range strings.Fields(a) {
		setA[tok] = struct{}{}
	}
	setB := map[string]struct{}{}
	for _, tok := range strings.Fields(b) {
		setB[tok] = struct{}{}
	}

	inter := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
