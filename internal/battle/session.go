package battle

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/luna-ray-dot/flashcard/internal/battle/scoring"
	"github.com/luna-ray-dot/flashcard/internal/metrics"
)

// CardLookup supplies canonical answers for evaluation. A failed lookup is
// recovered locally: the answer is scored incorrect, never surfaced.
type CardLookup interface {
	GetCard(ctx context.Context, questionID string) (*Card, error)
}

// HistoryRecorder receives human answer outcomes for later skill estimation.
// Fire-and-forget; optional.
type HistoryRecorder interface {
	RecordOutcome(ctx context.Context, participantID string, correct bool, timeMs int64) error
}

// PointsSink awards XP outside the battle. Fire-and-forget; optional.
type PointsSink interface {
	AwardPoints(ctx context.Context, participantID string, amount int) error
}

// Notifier receives a snapshot after every battle mutation plus a terminal
// winner notification. Optional.
type Notifier interface {
	BattleUpdated(snap Snapshot)
	WinnerDeclared(snap Snapshot)
}

// SessionOptions configures optional collaborators and tunables.
type SessionOptions struct {
	History             HistoryRecorder
	XP                  PointsSink
	Notifier            Notifier
	Scoring             scoring.Config
	SimilarityThreshold float64
	CorrectXP           int // default: 10
	IncorrectXP         int // default: 2
}

// Session owns the authoritative battle state machine. All mutations to one
// battle are serialized through a per-battle lock; different battles proceed
// in parallel.
type Session struct {
	repo      Repository
	cards     CardLookup
	ai        *AIController
	evaluator *Evaluator
	policy    *scoring.Policy
	history   HistoryRecorder
	xp        PointsSink
	notifier  Notifier
	logger    zerolog.Logger

	correctXP   int
	incorrectXP int

	lockMu sync.Mutex
	locks  map[string]*battleLock
}

// battleLock is a reference-counted mutex entry; the table entry is evicted
// once the last holder releases it, so the map stays bounded by in-flight
// battles rather than every battle ever touched.
type battleLock struct {
	mu   sync.Mutex
	refs int
}

// NewSession creates the battle session service.
func NewSession(repo Repository, cards CardLookup, ai *AIController, opts SessionOptions, logger zerolog.Logger) *Session {
	scoringCfg := opts.Scoring
	if scoringCfg.CorrectBase == 0 {
		scoringCfg = scoring.DefaultConfig()
	}
	correctXP := opts.CorrectXP
	if correctXP == 0 {
		correctXP = 10
	}
	incorrectXP := opts.IncorrectXP
	if incorrectXP == 0 {
		incorrectXP = 2
	}

	return &Session{
		repo:        repo,
		cards:       cards,
		ai:          ai,
		evaluator:   NewEvaluator(opts.SimilarityThreshold),
		policy:      scoring.NewPolicy(scoringCfg),
		history:     opts.History,
		xp:          opts.XP,
		notifier:    opts.Notifier,
		logger:      logger.With().Str("component", "battle_session").Logger(),
		correctXP:   correctXP,
		incorrectXP: incorrectXP,
		locks:       make(map[string]*battleLock),
	}
}

// SetNotifier installs the presentation-layer notifier. Called once during
// wiring, before the session serves traffic (the WS handler needs the session
// first).
func (s *Session) SetNotifier(n Notifier) {
	s.notifier = n
}

// lockBattle serializes mutations for one battle id and returns the unlock.
func (s *Session) lockBattle(battleID string) func() {
	s.lockMu.Lock()
	l, ok := s.locks[battleID]
	if !ok {
		l = &battleLock{}
		s.locks[battleID] = l
	}
	l.refs++
	s.lockMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.lockMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, battleID)
		}
		s.lockMu.Unlock()
	}
}

// Create initializes a battle over a fixed, non-empty question set.
func (s *Session) Create(ctx context.Context, questionIDs []string, mode string) (*Snapshot, error) {
	if len(questionIDs) == 0 {
		return nil, fmt.Errorf("question ids required: %w", ErrInvalidArgument)
	}
	if mode == "" {
		mode = ModeFastest
	}
	if mode != ModeFastest && mode != ModePoints {
		return nil, fmt.Errorf("unknown mode %q: %w", mode, ErrInvalidArgument)
	}

	b := &Battle{
		ID:                uuid.NewString(),
		QuestionIDs:       append([]string(nil), questionIDs...),
		Mode:              mode,
		Status:            StatusWaiting,
		CreatedAt:         time.Now(),
		CurrentQuestionID: questionIDs[0],
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create battle: %w", err)
	}

	metrics.BattlesCreated.Inc()
	s.logger.Info().
		Str("battle_id", b.ID).
		Str("mode", mode).
		Int("question_count", len(questionIDs)).
		Msg("battle created")

	snap := b.Snapshot()
	s.notifyUpdate(snap)
	return &snap, nil
}

// Join adds a participant. Repeat joins by the same id are idempotent. After
// a human joins, the AI spawn rule runs: a lone human gets an AI opponent
// immediately.
func (s *Session) Join(ctx context.Context, battleID, participantID string, isAI bool) (*Snapshot, error) {
	unlock := s.lockBattle(battleID)
	defer unlock()

	b, err := s.repo.Get(ctx, battleID)
	if err != nil {
		return nil, err
	}

	if p := b.Participant(participantID); p != nil {
		snap := b.Snapshot()
		return &snap, nil
	}

	now := time.Now()
	b.Participants = append(b.Participants, Participant{
		ID:       participantID,
		IsAI:     isAI,
		Answers:  []Answer{},
		JoinedAt: now,
	})
	if b.Status == StatusWaiting {
		b.Status = StatusInProgress
	}

	if !isAI && s.ai != nil && s.ai.ShouldSpawn(b) {
		b.Participants = append(b.Participants, Participant{
			ID:       AIParticipantID,
			IsAI:     true,
			Answers:  []Answer{},
			JoinedAt: now,
		})
		s.logger.Info().Str("battle_id", battleID).Msg("ai opponent joined")
	}

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save battle: %w", err)
	}

	s.logger.Info().
		Str("battle_id", battleID).
		Str("participant_id", participantID).
		Bool("is_ai", isAI).
		Int("participant_count", len(b.Participants)).
		Msg("participant joined")

	snap := b.Snapshot()
	s.notifyUpdate(snap)
	return &snap, nil
}

// SubmitAnswer evaluates and records one answer, applies scoring, re-resolves
// the winner, and — when an AI participant still owes an answer for the
// question — schedules the AI's deferred response without blocking. The
// returned snapshot reflects only this submission.
//
// A duplicate submission for a question the participant already answered is
// accepted but records nothing: at-most-once scoring.
func (s *Session) SubmitAnswer(ctx context.Context, battleID, participantID, questionID, rawText string, timeMs int64) (*Snapshot, error) {
	return s.submit(ctx, battleID, participantID, questionID, rawText, timeMs, nil)
}

// submit is the serialized submission path. forced, when non-nil, overrides
// evaluation with a pre-drawn outcome (the AI's deferred answer).
func (s *Session) submit(ctx context.Context, battleID, participantID, questionID, rawText string, timeMs int64, forced *bool) (*Snapshot, error) {
	unlock := s.lockBattle(battleID)
	defer unlock()

	b, err := s.repo.Get(ctx, battleID)
	if err != nil {
		return nil, err
	}
	p := b.Participant(participantID)
	if p == nil {
		return nil, fmt.Errorf("participant %s: %w", participantID, ErrNotFound)
	}

	// Deferred AI tasks no-op once the battle is decided.
	if p.IsAI && b.Finished {
		snap := b.Snapshot()
		return &snap, nil
	}

	if p.HasAnswered(questionID) {
		s.logger.Debug().
			Str("battle_id", battleID).
			Str("participant_id", participantID).
			Str("question_id", questionID).
			Msg("duplicate submission ignored")
		snap := b.Snapshot()
		return &snap, nil
	}

	if timeMs < 0 {
		timeMs = 0
	}

	var correct bool
	if forced != nil {
		correct = *forced
	} else {
		correct = s.evaluate(ctx, questionID, rawText)
	}

	p.Answers = append(p.Answers, Answer{
		QuestionID: questionID,
		RawText:    rawText,
		Correct:    correct,
		TimeMs:     timeMs,
		CreatedAt:  time.Now(),
	})
	delta := s.policy.ScoreDelta(b.Mode, correct, timeMs)
	p.Score = s.policy.Apply(p.Score, delta)

	wasFinished := b.Finished
	prevWinner := b.Winner
	res := Resolve(b)
	b.Winner = res.WinnerID
	b.Finished = res.Finished
	if b.Finished {
		b.Status = StatusFinished
	}

	if err := s.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save battle: %w", err)
	}

	metrics.AnswersSubmitted.WithLabelValues(strconv.FormatBool(correct), strconv.FormatBool(p.IsAI)).Inc()
	metrics.AnswerLatency.Observe(float64(timeMs))
	if b.Finished && !wasFinished {
		metrics.BattlesFinished.Inc()
	}

	s.logger.Info().
		Str("battle_id", battleID).
		Str("participant_id", participantID).
		Str("question_id", questionID).
		Bool("correct", correct).
		Int64("time_ms", timeMs).
		Int("score", p.Score).
		Bool("finished", b.Finished).
		Msg("answer submitted")

	if !p.IsAI {
		s.recordSideEffects(participantID, correct, timeMs)
	}
	s.maybeScheduleAI(ctx, b, participantID, questionID)

	snap := b.Snapshot()
	s.notifyUpdate(snap)
	if b.Finished && b.Winner != "" && (!wasFinished || b.Winner != prevWinner) {
		s.notifyWinner(snap)
	}
	return &snap, nil
}

// Get returns a read-only snapshot.
func (s *Session) Get(ctx context.Context, battleID string) (*Snapshot, error) {
	b, err := s.repo.Get(ctx, battleID)
	if err != nil {
		return nil, err
	}
	snap := b.Snapshot()
	return &snap, nil
}

// evaluate resolves the card and compares the submission. Missing cards or a
// failing lookup score as incorrect.
func (s *Session) evaluate(ctx context.Context, questionID, rawText string) bool {
	if s.cards == nil {
		return false
	}
	card, err := s.cards.GetCard(ctx, questionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("question_id", questionID).Msg("card lookup failed, scoring incorrect")
		return false
	}
	if card == nil {
		return false
	}
	return s.evaluator.Evaluate(card.CanonicalAnswer, card.AcceptableAnswers, rawText)
}

// recordSideEffects pushes history and XP updates for a human answer. Both
// are fire-and-forget and never affect battle correctness.
func (s *Session) recordSideEffects(participantID string, correct bool, timeMs int64) {
	amount := s.incorrectXP
	if correct {
		amount = s.correctXP
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.history != nil {
			if err := s.history.RecordOutcome(ctx, participantID, correct, timeMs); err != nil {
				s.logger.Warn().Err(err).Str("participant_id", participantID).Msg("history record failed")
			}
		}
		if s.xp != nil {
			if err := s.xp.AwardPoints(ctx, participantID, amount); err != nil {
				s.logger.Warn().Err(err).Str("participant_id", participantID).Msg("xp award failed")
			}
		}
	}()
}

// maybeScheduleAI triggers the AI's deferred answer when an AI participant
// has not yet answered the question. Runs after a human submission, under the
// battle lock, so only the in-memory guards happen here; the prompt lookup and
// answer planning run off the lock, and the deferred task re-enters the
// submission path on its own lock turn.
func (s *Session) maybeScheduleAI(ctx context.Context, b *Battle, submitterID, questionID string) {
	if s.ai == nil || b.Finished {
		return
	}
	aiP := b.AIParticipant()
	if aiP == nil || aiP.ID == submitterID || aiP.HasAnswered(questionID) {
		return
	}

	opponentID := ""
	for i := range b.Participants {
		if !b.Participants[i].IsAI {
			opponentID = b.Participants[i].ID
			break
		}
	}

	battleID := b.ID
	bgCtx := context.WithoutCancel(ctx)
	go func() {
		prompt := ""
		if s.cards != nil {
			if card, err := s.cards.GetCard(bgCtx, questionID); err == nil && card != nil {
				prompt = card.Prompt
			}
		}

		s.ai.ScheduleAnswer(bgCtx, ScheduleRequest{
			BattleID:   battleID,
			QuestionID: questionID,
			OpponentID: opponentID,
			Prompt:     prompt,
		}, s.submitDeferred)
	}()
}

// submitDeferred adapts the serialized submission path to the AI controller's
// SubmitFunc, carrying the pre-drawn outcome.
func (s *Session) submitDeferred(ctx context.Context, battleID, participantID, questionID, rawText string, timeMs int64, correct bool) error {
	_, err := s.submit(ctx, battleID, participantID, questionID, rawText, timeMs, &correct)
	return err
}

func (s *Session) notifyUpdate(snap Snapshot) {
	if s.notifier != nil {
		s.notifier.BattleUpdated(snap)
	}
}

func (s *Session) notifyWinner(snap Snapshot) {
	if s.notifier != nil {
		s.notifier.WinnerDeclared(snap)
	}
}
