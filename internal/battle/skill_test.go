package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateSkillEmptyHistory(t *testing.T) {
	assert.Equal(t, 0.5, EstimateSkill(nil, 50))
	assert.Equal(t, 0.5, EstimateSkill([]bool{}, 50))
}

func TestEstimateSkillAccuracyRatio(t *testing.T) {
	outcomes := []bool{true, true, true, true, true, true, true, false, false, false}
	assert.InDelta(t, 0.7, EstimateSkill(outcomes, 50), 1e-9)

	assert.Equal(t, 1.0, EstimateSkill([]bool{true, true}, 50))
	assert.Equal(t, 0.0, EstimateSkill([]bool{false, false, false}, 50))
}

func TestEstimateSkillWindowTruncation(t *testing.T) {
	// 3 correct then 7 wrong; a window of 3 only sees the correct ones.
	outcomes := []bool{true, true, true, false, false, false, false, false, false, false}
	assert.Equal(t, 1.0, EstimateSkill(outcomes, 3))
	assert.InDelta(t, 0.3, EstimateSkill(outcomes, 10), 1e-9)
}

func TestEstimateSkillDefaultWindow(t *testing.T) {
	outcomes := make([]bool, 60)
	for i := 0; i < 60; i++ {
		outcomes[i] = true
	}
	// window <= 0 falls back to the default of 50
	assert.Equal(t, 1.0, EstimateSkill(outcomes, 0))
}
