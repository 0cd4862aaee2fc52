package battle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSkillSource struct {
	outcomes []bool
	err      error
}

func (s *stubSkillSource) RecentOutcomes(ctx context.Context, participantID string, limit int) ([]bool, error) {
	return s.outcomes, s.err
}

type stubSuggester struct {
	text string
	err  error
}

func (s *stubSuggester) SuggestAnswer(ctx context.Context, prompt string, wantCorrect bool) (string, error) {
	return s.text, s.err
}

type slowSuggester struct {
	sleep time.Duration
	text  string
}

func (s *slowSuggester) SuggestAnswer(ctx context.Context, prompt string, wantCorrect bool) (string, error) {
	time.Sleep(s.sleep)
	return s.text, nil
}

// noJitterConfig removes the random delay components so timing assertions are
// exact.
func noJitterConfig() AIConfig {
	cfg := DefaultAIConfig()
	cfg.Jitter = 0
	return cfg
}

func TestShouldSpawn(t *testing.T) {
	c := NewAIController(DefaultAIConfig(), nil, nil, zerolog.Nop())

	lone := &Battle{Participants: []Participant{{ID: "u1"}}}
	assert.True(t, c.ShouldSpawn(lone))

	withAI := &Battle{Participants: []Participant{{ID: "u1"}, {ID: AIParticipantID, IsAI: true}}}
	assert.False(t, c.ShouldSpawn(withAI))

	twoHumans := &Battle{Participants: []Participant{{ID: "u1"}, {ID: "u2"}}}
	assert.False(t, c.ShouldSpawn(twoHumans))

	empty := &Battle{}
	assert.False(t, c.ShouldSpawn(empty))
}

func TestCalibrateAccuracyTracksSkill(t *testing.T) {
	c := NewAIController(noJitterConfig(), nil, nil, zerolog.Nop())

	acc, _ := c.Calibrate(0.5)
	assert.InDelta(t, 0.78, acc, 1e-9)

	acc, _ = c.Calibrate(1.0)
	assert.InDelta(t, 0.93, acc, 1e-9)

	// clamped at the bounds
	acc, _ = c.Calibrate(0.0)
	assert.InDelta(t, 0.63, acc, 1e-9)

	cfg := noJitterConfig()
	cfg.BaseAccuracy = 0.95
	c = NewAIController(cfg, nil, nil, zerolog.Nop())
	acc, _ = c.Calibrate(1.0)
	assert.InDelta(t, 0.95, acc, 1e-9)
}

func TestCalibrateDelayShrinksWithSkill(t *testing.T) {
	c := NewAIController(noJitterConfig(), nil, nil, zerolog.Nop())

	_, slow := c.Calibrate(0.0)
	assert.Equal(t, 4200*time.Millisecond, slow)

	_, fast := c.Calibrate(1.0)
	assert.Equal(t, 3700*time.Millisecond, fast)

	assert.Less(t, fast, slow)
}

func TestCalibrateDelayFloorsWholeMilliseconds(t *testing.T) {
	c := NewAIController(noJitterConfig(), nil, nil, zerolog.Nop())

	// 0.777 * 500 = 388.5, floored to a 388ms reduction
	_, delay := c.Calibrate(0.777)
	assert.Equal(t, 3812*time.Millisecond, delay)
	assert.Zero(t, delay%time.Millisecond)
}

func TestPlanAnswerUsesPlaceholderWithoutSuggester(t *testing.T) {
	cfg := noJitterConfig()
	cfg.MinAccuracy = 1.0
	cfg.MaxAccuracy = 1.0
	c := NewAIController(cfg, nil, nil, zerolog.Nop())

	plan := c.PlanAnswer(context.Background(), "u1", "What is 2+2?")
	assert.True(t, plan.Correct)
	assert.Equal(t, "ai: correct", plan.Text)
}

func TestPlanAnswerSuggesterFailureFallsBack(t *testing.T) {
	cfg := noJitterConfig()
	cfg.MinAccuracy = 0.0
	cfg.MaxAccuracy = 0.0
	c := NewAIController(cfg, nil, &stubSuggester{err: errors.New("boom")}, zerolog.Nop())

	plan := c.PlanAnswer(context.Background(), "u1", "What is 2+2?")
	assert.False(t, plan.Correct)
	assert.Equal(t, "ai: wrong", plan.Text)
}

func TestPlanAnswerUsesSuggestedText(t *testing.T) {
	cfg := noJitterConfig()
	cfg.MinAccuracy = 1.0
	cfg.MaxAccuracy = 1.0
	c := NewAIController(cfg, &stubSkillSource{outcomes: []bool{true, true}}, &stubSuggester{text: "four"}, zerolog.Nop())

	plan := c.PlanAnswer(context.Background(), "u1", "What is 2+2?")
	assert.True(t, plan.Correct)
	assert.Equal(t, "four", plan.Text)
}

func TestPlanAnswerSkillLookupFailureUsesNeutralPrior(t *testing.T) {
	cfg := noJitterConfig()
	c := NewAIController(cfg, &stubSkillSource{err: errors.New("redis down")}, nil, zerolog.Nop())

	// neutral prior 0.5 gives the base delay plus half the slack
	plan := c.PlanAnswer(context.Background(), "u1", "")
	assert.Equal(t, 3950*time.Millisecond, plan.Delay)
}

func TestScheduleAnswerSubmitsPlannedOutcome(t *testing.T) {
	cfg := noJitterConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.SkillSlack = 0
	cfg.SkillStep = 0
	cfg.MinAccuracy = 1.0
	cfg.MaxAccuracy = 1.0
	c := NewAIController(cfg, nil, nil, zerolog.Nop())

	var (
		mu   sync.Mutex
		got  []any
		done = make(chan struct{})
	)
	submit := func(ctx context.Context, battleID, participantID, questionID, rawText string, timeMs int64, correct bool) error {
		mu.Lock()
		got = []any{battleID, participantID, questionID, rawText, timeMs, correct}
		mu.Unlock()
		close(done)
		return nil
	}

	c.ScheduleAnswer(context.Background(), ScheduleRequest{
		BattleID:   "b1",
		QuestionID: "q1",
		OpponentID: "u1",
	}, submit)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deferred submit never ran")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 6)
	assert.Equal(t, "b1", got[0])
	assert.Equal(t, AIParticipantID, got[1])
	assert.Equal(t, "q1", got[2])
	assert.Equal(t, "ai: correct", got[3])
	assert.Equal(t, int64(1), got[4])
	assert.Equal(t, true, got[5])
}

func TestScheduleAnswerDoesNotBlockOnPlanning(t *testing.T) {
	cfg := noJitterConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.SkillSlack = 0
	cfg.SkillStep = 0
	cfg.MinAccuracy = 1.0
	cfg.MaxAccuracy = 1.0
	c := NewAIController(cfg, nil, &slowSuggester{sleep: 500 * time.Millisecond, text: "four"}, zerolog.Nop())

	done := make(chan string, 1)
	submit := func(ctx context.Context, battleID, participantID, questionID, rawText string, timeMs int64, correct bool) error {
		done <- rawText
		return nil
	}

	start := time.Now()
	c.ScheduleAnswer(context.Background(), ScheduleRequest{
		BattleID:   "b1",
		QuestionID: "q1",
		OpponentID: "u1",
		Prompt:     "What is 2+2?",
	}, submit)
	assert.Less(t, time.Since(start), 250*time.Millisecond)

	select {
	case text := <-done:
		assert.Equal(t, "four", text)
	case <-time.After(3 * time.Second):
		t.Fatal("deferred submit never ran")
	}
}

func TestScheduleAnswerCanceledContext(t *testing.T) {
	cfg := noJitterConfig()
	cfg.BaseDelay = time.Hour
	c := NewAIController(cfg, nil, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	called := make(chan struct{}, 1)
	submit := func(ctx context.Context, battleID, participantID, questionID, rawText string, timeMs int64, correct bool) error {
		called <- struct{}{}
		return nil
	}

	c.ScheduleAnswer(ctx, ScheduleRequest{BattleID: "b1", QuestionID: "q1"}, submit)
	cancel()

	select {
	case <-called:
		t.Fatal("submit ran despite canceled context")
	case <-time.After(100 * time.Millisecond):
	}
}
