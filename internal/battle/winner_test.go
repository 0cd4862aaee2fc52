package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func battleWith(mode string, participants ...Participant) *Battle {
	return &Battle{
		ID:           "b1",
		Mode:         mode,
		Participants: participants,
	}
}

func TestResolveFastestPicksLowestLatency(t *testing.T) {
	b := battleWith(ModeFastest,
		Participant{ID: "u1", Answers: []Answer{{QuestionID: "q1", Correct: true, TimeMs: 1200}}},
		Participant{ID: "u2", Answers: []Answer{{QuestionID: "q1", Correct: true, TimeMs: 900}}},
	)

	res := Resolve(b)
	assert.Equal(t, "u2", res.WinnerID)
	assert.True(t, res.Finished)
}

func TestResolveFastestLaterFasterAnswerStillWins(t *testing.T) {
	// u1 answered first at 1200ms and the battle finished; u2's 900ms answer
	// arriving afterwards takes the win, while finished stays latched.
	b := battleWith(ModeFastest,
		Participant{ID: "u1", Answers: []Answer{{QuestionID: "q1", Correct: true, TimeMs: 1200}}},
	)
	res := Resolve(b)
	assert.Equal(t, "u1", res.WinnerID)
	assert.True(t, res.Finished)
	b.Winner = res.WinnerID
	b.Finished = res.Finished

	b.Participants = append(b.Participants, Participant{
		ID: "u2", Answers: []Answer{{QuestionID: "q1", Correct: true, TimeMs: 900}},
	})
	res = Resolve(b)
	assert.Equal(t, "u2", res.WinnerID)
	assert.True(t, res.Finished)
}

func TestResolveFastestTieKeepsFirstRecorded(t *testing.T) {
	b := battleWith(ModeFastest,
		Participant{ID: "u1", Answers: []Answer{{QuestionID: "q1", Correct: true, TimeMs: 1000}}},
		Participant{ID: "u2", Answers: []Answer{{QuestionID: "q1", Correct: true, TimeMs: 1000}}},
	)

	res := Resolve(b)
	assert.Equal(t, "u1", res.WinnerID)
	assert.True(t, res.Finished)
}

func TestResolveFastestIgnoresIncorrectAnswers(t *testing.T) {
	b := battleWith(ModeFastest,
		Participant{ID: "u1", Answers: []Answer{{QuestionID: "q1", Correct: false, TimeMs: 100}}},
		Participant{ID: "u2", Answers: []Answer{{QuestionID: "q1", Correct: true, TimeMs: 2500}}},
	)

	res := Resolve(b)
	assert.Equal(t, "u2", res.WinnerID)
	assert.True(t, res.Finished)
}

func TestResolveFastestNoCorrectAnswersNotFinished(t *testing.T) {
	b := battleWith(ModeFastest,
		Participant{ID: "u1", Answers: []Answer{{QuestionID: "q1", Correct: false, TimeMs: 100}}},
	)

	res := Resolve(b)
	assert.Empty(t, res.WinnerID)
	assert.False(t, res.Finished)
}

func TestResolvePointsStrictMaxWins(t *testing.T) {
	b := battleWith(ModePoints,
		Participant{ID: "u1", Score: 25},
		Participant{ID: "u2", Score: 40},
		Participant{ID: "u3", Score: 10},
	)

	res := Resolve(b)
	assert.Equal(t, "u2", res.WinnerID)
	assert.False(t, res.Finished)
}

func TestResolvePointsTieLeavesWinnerUnset(t *testing.T) {
	b := battleWith(ModePoints,
		Participant{ID: "u1", Score: 30},
		Participant{ID: "u2", Score: 30},
	)

	res := Resolve(b)
	assert.Empty(t, res.WinnerID)
	assert.False(t, res.Finished)
}

func TestResolvePointsFinishedPassesThrough(t *testing.T) {
	b := battleWith(ModePoints,
		Participant{ID: "u1", Score: 30},
		Participant{ID: "u2", Score: 10},
	)
	b.Finished = true

	res := Resolve(b)
	assert.Equal(t, "u1", res.WinnerID)
	assert.True(t, res.Finished)
}
