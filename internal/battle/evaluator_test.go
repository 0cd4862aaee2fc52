package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateNormalizesWhitespaceAndCase(t *testing.T) {
	e := NewEvaluator(0)

	assert.True(t, e.Evaluate("Paris", nil, "  paris "))
	assert.True(t, e.Evaluate("Paris", nil, "PARIS"))
	assert.True(t, e.Evaluate("New   York", nil, "new york"))
}

func TestEvaluateAcceptableAlternatives(t *testing.T) {
	e := NewEvaluator(0)

	assert.True(t, e.Evaluate("United States", []string{"USA", "US"}, "usa"))
	assert.False(t, e.Evaluate("United States", []string{"USA"}, "america"))
}

func TestEvaluateSimilarity(t *testing.T) {
	e := NewEvaluator(0.7)

	canonical := "the process by which plants make food using sunlight"

	// Same token set in a different order clears the threshold.
	assert.True(t, e.Evaluate(canonical, nil, "plants make food using sunlight by the process which"))

	// Unrelated answers do not.
	assert.False(t, e.Evaluate(canonical, nil, "cellular respiration in animals"))
}

func TestEvaluateEmptyInputs(t *testing.T) {
	e := NewEvaluator(0)

	assert.False(t, e.Evaluate("Paris", nil, ""))
	assert.False(t, e.Evaluate("Paris", nil, "   "))
	assert.False(t, e.Evaluate("", nil, "anything"))
	assert.False(t, e.Evaluate("", []string{""}, "anything"))
}

func TestEvaluateInvalidThresholdFallsBack(t *testing.T) {
	e := NewEvaluator(1.5)
	assert.Equal(t, defaultSimilarityThreshold, e.threshold)

	e = NewEvaluator(-0.2)
	assert.Equal(t, defaultSimilarityThreshold, e.threshold)
}

func TestJaccardSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, jaccardSimilarity("a b c", "c b a"))
	assert.Equal(t, 0.5, jaccardSimilarity("a b c", "a b d"))
	assert.Equal(t, 0.0, jaccardSimilarity("a", "b"))
}
