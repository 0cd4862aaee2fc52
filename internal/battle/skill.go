package battle

// DefaultSkillWindow bounds how much history feeds a skill estimate.
const DefaultSkillWindow = 50

// EstimateSkill computes a rolling accuracy ratio over at most windowSize of
// the given outcomes, ordered most recent first. An empty history returns the
// neutral prior 0.5. The result is clamped to [0,1].
func EstimateSkill(outcomes []bool, windowSize int) float64 {
	if windowSize <= 0 {
		windowSize = DefaultSkillWindow
	}
	if len(outcomes) == 0 {
		return 0.5
	}
	if len(outcomes) > windowSize {
		outcomes = outcomes[:windowSize]
	}

	correct := 0
	for _, ok := range outcomes {
		if ok {
			correct++
		}
	}
	return clamp01(float64(correct) / float64(len(outcomes)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
