package battle

import (
	"errors"
	"time"
)

// BattleMode constants.
const (
	ModeFastest = "fastest"
	ModePoints  = "points"
)

// Battle lifecycle states.
const (
	StatusWaiting    = "waiting_for_participants"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

// AIParticipantID is the reserved id for the automatically matched opponent.
const AIParticipantID = "AI_BOT"

// Sentinel errors surfaced to callers. Collaborator failures (card lookup,
// suggestion service) are recovered locally and never reach these.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
)

// Answer records one submission. Immutable once appended.
type Answer struct {
	QuestionID string    `json:"question_id"`
	RawText    string    `json:"raw_text"`
	Correct    bool      `json:"correct"`
	TimeMs     int64     `json:"time_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Participant is a human or AI actor within a battle.
type Participant struct {
	ID       string    `json:"id"`
	IsAI     bool      `json:"is_ai"`
	Answers  []Answer  `json:"answers"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joined_at"`
}

// HasAnswered reports whether the participant already answered a question.
func (p *Participant) HasAnswered(questionID string) bool {
	for _, a := range p.Answers {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}

// Battle is the aggregate root for one timed competitive session.
// It is mutated only by Session under the per-battle lock; participants keep
// join order, which the fastest-mode tie-break relies on.
type Battle struct {
	ID                string        `json:"id"`
	QuestionIDs       []string      `json:"question_ids"`
	Mode              string        `json:"mode"`
	Status            string        `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	Participants      []Participant `json:"participants"`
	Winner            string        `json:"winner,omitempty"`
	Finished          bool          `json:"finished"`
	CurrentQuestionID string        `json:"current_question_id,omitempty"`
}

// Participant returns a pointer into the battle's participant slice, or nil.
func (b *Battle) Participant(id string) *Participant {
	for i := range b.Participants {
		if b.Participants[i].ID == id {
			return &b.Participants[i]
		}
	}
	return nil
}

// HumanCount returns the number of non-AI participants.
func (b *Battle) HumanCount() int {
	n := 0
	for i := range b.Participants {
		if !b.Participants[i].IsAI {
			n++
		}
	}
	return n
}

// AIParticipant returns the AI participant if one joined.
func (b *Battle) AIParticipant() *Participant {
	for i := range b.Participants {
		if b.Participants[i].IsAI {
			return &b.Participants[i]
		}
	}
	return nil
}

// Clone returns a deep copy so stores and snapshots never share mutable state.
func (b *Battle) Clone() *Battle {
	cp := *b
	cp.QuestionIDs = append([]string(nil), b.QuestionIDs...)
	cp.Participants = make([]Participant, len(b.Participants))
	for i, p := range b.Participants {
		cp.Participants[i] = p
		cp.Participants[i].Answers = append([]Answer(nil), p.Answers...)
	}
	return &cp
}

// Snapshot is the read model handed to the presentation layer.
type Snapshot struct {
	ID                string                `json:"id"`
	QuestionIDs       []string              `json:"question_ids"`
	Mode              string                `json:"mode"`
	Status            string                `json:"status"`
	CreatedAt         time.Time             `json:"created_at"`
	Participants      []ParticipantSnapshot `json:"participants"`
	Winner            string                `json:"winner,omitempty"`
	Finished          bool                  `json:"finished"`
	CurrentQuestionID string                `json:"current_question_id,omitempty"`
}

// ParticipantSnapshot includes the derived average answer latency.
type ParticipantSnapshot struct {
	ID           string   `json:"id"`
	IsAI         bool     `json:"is_ai"`
	Score        int      `json:"score"`
	AvgLatencyMs int64    `json:"avg_latency_ms"`
	Answers      []Answer `json:"answers"`
}

// Snapshot builds the read model from the current battle state.
func (b *Battle) Snapshot() Snapshot {
	snap := Snapshot{
		ID:                b.ID,
		QuestionIDs:       append([]string(nil), b.QuestionIDs...),
		Mode:              b.Mode,
		Status:            b.Status,
		CreatedAt:         b.CreatedAt,
		Winner:            b.Winner,
		Finished:          b.Finished,
		CurrentQuestionID: b.CurrentQuestionID,
		Participants:      make([]ParticipantSnapshot, len(b.Participants)),
	}
	for i, p := range b.Participants {
		var avg int64
		if len(p.Answers) > 0 {
			var sum int64
			for _, a := range p.Answers {
				sum += a.TimeMs
			}
			avg = sum / int64(len(p.Answers))
		}
		snap.Participants[i] = ParticipantSnapshot{
			ID:           p.ID,
			IsAI:         p.IsAI,
			Score:        p.Score,
			AvgLatencyMs: avg,
			Answers:      append([]Answer(nil), p.Answers...),
		}
	}
	return snap
}

// Card is the battle-side view of a flashcard, supplied by the card lookup
// collaborator.
type Card struct {
	ID                string
	Prompt            string
	CanonicalAnswer   string
	AcceptableAnswers []string
}
