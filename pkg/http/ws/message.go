package ws

import "encoding/json"

// MessageType constants for the battle WebSocket protocol.
const (
	// Client -> Server
	TypeJoinBattle   = "join_battle"
	TypeSubmitAnswer = "submit_answer"
	TypeLeaveBattle  = "leave_battle"
	TypeRequestState = "request_state"

	// Server -> Client
	TypeBattleUpdate   = "battle_update"
	TypeWinnerDeclared = "winner_declared"
	TypeError          = "error"
	TypePing           = "ping"
	TypePong           = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client Messages (incoming)

type JoinBattlePayload struct {
	BattleID string `json:"battle_id"`
}

type SubmitAnswerPayload struct {
	BattleID   string `json:"battle_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	TimeMs     int64  `json:"time_ms"`
}

type LeaveBattlePayload struct {
	BattleID string `json:"battle_id"`
	Reason   string `json:"reason"`
}

type RequestStatePayload struct {
	BattleID string `json:"battle_id"`
}

// Server Messages (outgoing)

// BattleUpdatePayload carries a full battle snapshot after every mutation.
type BattleUpdatePayload struct {
	Battle json.RawMessage `json:"battle"`
}

// WinnerDeclaredPayload is the terminal notification once a winner exists.
type WinnerDeclaredPayload struct {
	BattleID string `json:"battle_id"`
	WinnerID string `json:"winner_id"`
	Mode     string `json:"mode"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
