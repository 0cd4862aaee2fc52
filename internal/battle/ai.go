package battle

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SkillSource provides a participant's recent answer outcomes, most recent
// first. Backed by the history collaborator; may be nil.
type SkillSource interface {
	RecentOutcomes(ctx context.Context, participantID string, limit int) ([]bool, error)
}

// AnswerSuggester produces answer text consistent with a pre-drawn outcome.
// Optional; the controller falls back to placeholder text without it.
type AnswerSuggester interface {
	SuggestAnswer(ctx context.Context, prompt string, wantCorrect bool) (string, error)
}

// SubmitFunc is the battle's submit-answer operation, re-entered by the
// deferred AI task. correct carries the pre-drawn outcome; the battle records
// it as-is instead of re-evaluating the generated text.
type SubmitFunc func(ctx context.Context, battleID, participantID, questionID, rawText string, timeMs int64, correct bool) error

// AIConfig holds calibration constants (defaults match requirements).
type AIConfig struct {
	BaseAccuracy float64       // default: 0.78
	MinAccuracy  float64       // default: 0.55
	MaxAccuracy  float64       // default: 0.95
	BaseDelay    time.Duration // default: 2200ms
	SkillSlack   time.Duration // default: 2000ms, extra wait that shrinks with skill
	SkillStep    time.Duration // default: 500ms per unit of skill
	Jitter       time.Duration // default: 1200ms, uniform in [0, Jitter)
	SkillWindow  int           // default: 50
}

// DefaultAIConfig returns production defaults.
func DefaultAIConfig() AIConfig {
	return AIConfig{
		BaseAccuracy: 0.78,
		MinAccuracy:  0.55,
		MaxAccuracy:  0.95,
		BaseDelay:    2200 * time.Millisecond,
		SkillSlack:   2000 * time.Millisecond,
		SkillStep:    500 * time.Millisecond,
		Jitter:       1200 * time.Millisecond,
		SkillWindow:  DefaultSkillWindow,
	}
}

// AIController decides when an AI opponent joins a battle, calibrates its
// difficulty to the human's estimated skill, and schedules its delayed
// answers.
type AIController struct {
	config    AIConfig
	skills    SkillSource
	suggester AnswerSuggester
	logger    zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAIController creates a controller. skills and suggester may be nil.
func NewAIController(cfg AIConfig, skills SkillSource, suggester AnswerSuggester, logger zerolog.Logger) *AIController {
	if cfg.BaseAccuracy == 0 {
		cfg = DefaultAIConfig()
	}
	return &AIController{
		config:    cfg,
		skills:    skills,
		suggester: suggester,
		logger:    logger.With().Str("component", "ai_opponent").Logger(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ShouldSpawn reports whether an AI opponent must join: exactly one human
// participant and no AI participant yet.
func (c *AIController) ShouldSpawn(b *Battle) bool {
	return b.HumanCount() == 1 && b.AIParticipant() == nil
}

// Calibrate derives the AI's answer accuracy and response delay from the
// opponent's skill estimate. Accuracy tracks skill inside configured bounds;
// delay shrinks as skill grows, plus random jitter.
func (c *AIController) Calibrate(skill float64) (accuracy float64, delay time.Duration) {
	accuracy = c.config.BaseAccuracy + (skill-0.5)*0.3
	if accuracy < c.config.MinAccuracy {
		accuracy = c.config.MinAccuracy
	}
	if accuracy > c.config.MaxAccuracy {
		accuracy = c.config.MaxAccuracy
	}

	// the skill reduction floors at whole milliseconds
	stepMs := c.config.SkillStep.Milliseconds()
	extra := c.config.SkillSlack - time.Duration(math.Floor(skill*float64(stepMs)))*time.Millisecond
	if extra < 0 {
		extra = 0
	}
	delay = c.config.BaseDelay + extra
	if c.config.Jitter > 0 {
		c.mu.Lock()
		delay += time.Duration(c.rng.Int63n(int64(c.config.Jitter)))
		c.mu.Unlock()
	}
	return accuracy, delay
}

// AnswerPlan fixes the AI's outcome and timing before any text is generated.
type AnswerPlan struct {
	Correct bool
	Delay   time.Duration
	Text    string
}

// PlanAnswer estimates the opponent's skill, draws the outcome from the
// calibrated accuracy, and produces answer text for it. Suggestion failures
// fall back to a placeholder tagged with the outcome.
func (c *AIController) PlanAnswer(ctx context.Context, opponentID, prompt string) AnswerPlan {
	skill := 0.5
	if c.skills != nil && opponentID != "" {
		outcomes, err := c.skills.RecentOutcomes(ctx, opponentID, c.config.SkillWindow)
		if err != nil {
			c.logger.Warn().Err(err).Str("participant_id", opponentID).Msg("skill lookup failed, using neutral prior")
		} else {
			skill = EstimateSkill(outcomes, c.config.SkillWindow)
		}
	}

	accuracy, delay := c.Calibrate(skill)

	c.mu.Lock()
	correct := c.rng.Float64() < accuracy
	c.mu.Unlock()

	plan := AnswerPlan{Correct: correct, Delay: delay}
	plan.Text = c.answerText(ctx, prompt, correct)

	c.logger.Debug().
		Float64("skill", skill).
		Float64("accuracy", accuracy).
		Dur("delay", delay).
		Bool("correct", correct).
		Msg("ai answer planned")
	return plan
}

func (c *AIController) answerText(ctx context.Context, prompt string, correct bool) string {
	placeholder := "ai: wrong"
	if correct {
		placeholder = "ai: correct"
	}
	if c.suggester == nil || prompt == "" {
		return placeholder
	}

	text, err := c.suggester.SuggestAnswer(ctx, prompt, correct)
	if err != nil {
		c.logger.Warn().Err(err).Msg("answer suggestion failed, using placeholder")
		return placeholder
	}
	if text == "" {
		return placeholder
	}
	return text
}

// ScheduleRequest identifies the deferred answer to produce.
type ScheduleRequest struct {
	BattleID   string
	QuestionID string
	OpponentID string
	Prompt     string
}

// ScheduleAnswer plans and submits the AI's answer entirely in the
// background: the skill lookup, outcome draw, text generation and the
// calibrated wait all run in a goroutine, so the caller never blocks on them.
// Submission errors are logged and swallowed; the submit operation itself
// no-ops when the battle finished or disappeared in the meantime.
func (c *AIController) ScheduleAnswer(ctx context.Context, req ScheduleRequest, submit SubmitFunc) {
	go func() {
		plan := c.PlanAnswer(ctx, req.OpponentID, req.Prompt)

		timer := time.NewTimer(plan.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		timeMs := plan.Delay.Milliseconds()
		if err := submit(ctx, req.BattleID, AIParticipantID, req.QuestionID, plan.Text, timeMs, plan.Correct); err != nil {
			c.logger.Warn().Err(err).
				Str("battle_id", req.BattleID).
				Str("question_id", req.QuestionID).
				Msg("deferred ai answer dropped")
		}
	}()
}
