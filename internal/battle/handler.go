package battle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	httperrors "github.com/luna-ray-dot/flashcard/pkg/http/errors"
	ws "github.com/luna-ray-dot/flashcard/pkg/http/ws"
)

// WSUpgrader handles WebSocket upgrades (configure CORS/security as needed).
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the frontend host list is settled
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler manages WebSocket connections and routes battle messages. It also
// implements Notifier, so every battle mutation fans out to connected
// participants as a battle_update, with a terminal winner_declared.
type Handler struct {
	session *Session
	hub     *ws.Hub
	logger  zerolog.Logger
}

var _ Notifier = (*Handler)(nil)

// NewHandler creates a battle WebSocket handler.
func NewHandler(session *Session, hub *ws.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		session: session,
		hub:     hub,
		logger:  logger,
	}
}

// HandleWebSocket upgrades the HTTP connection and pumps messages. The
// participant identifies itself via the participant_id query parameter;
// authentication is owned by an outer layer.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("participant_id")
	if participantID == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "participant_id query parameter required")
		return
	}

	conn, err := WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.RegisterConnection(participantID, wsConn)

	go wsConn.WritePump()

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(context.Background(), participantID, msg)
	})

	h.hub.UnregisterConnection(participantID)
}

// handleMessage routes incoming WebSocket messages.
func (h *Handler) handleMessage(ctx context.Context, participantID string, msg ws.Message) error {
	switch msg.Type {
	case ws.TypeJoinBattle:
		return h.handleJoin(ctx, participantID, msg.Payload)
	case ws.TypeSubmitAnswer:
		return h.handleSubmit(ctx, participantID, msg.Payload)
	case ws.TypeLeaveBattle:
		return h.handleLeave(participantID, msg.Payload)
	case ws.TypeRequestState:
		return h.handleRequestState(ctx, participantID, msg.Payload)
	case ws.TypePing:
		return h.hub.SendToParticipant(participantID, ws.Message{Type: ws.TypePong})
	default:
		return h.sendError(participantID, httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

func (h *Handler) handleJoin(ctx context.Context, participantID string, payload json.RawMessage) error {
	var req ws.JoinBattlePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return h.sendError(participantID, httperrors.ErrCodeInvalidPayload, "Invalid join_battle payload")
	}

	snap, err := h.session.Join(ctx, req.BattleID, participantID, false)
	if err != nil {
		return h.sendError(participantID, httperrors.ErrCodeJoinFailed, err.Error())
	}

	h.hub.JoinBattle(req.BattleID, participantID)
	return h.sendSnapshot(participantID, *snap)
}

func (h *Handler) handleSubmit(ctx context.Context, participantID string, payload json.RawMessage) error {
	var req ws.SubmitAnswerPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return h.sendError(participantID, httperrors.ErrCodeInvalidPayload, "Invalid submit_answer payload")
	}

	snap, err := h.session.SubmitAnswer(ctx, req.BattleID, participantID, req.QuestionID, req.Answer, req.TimeMs)
	if err != nil {
		return h.sendError(participantID, httperrors.ErrCodeSubmitFailed, err.Error())
	}
	return h.sendSnapshot(participantID, *snap)
}

func (h *Handler) handleLeave(participantID string, payload json.RawMessage) error {
	var req ws.LeaveBattlePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return h.sendError(participantID, httperrors.ErrCodeInvalidPayload, "Invalid leave_battle payload")
	}

	h.hub.LeaveBattle(req.BattleID, participantID)
	return nil
}

func (h *Handler) handleRequestState(ctx context.Context, participantID string, payload json.RawMessage) error {
	var req ws.RequestStatePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return h.sendError(participantID, httperrors.ErrCodeInvalidPayload, "Invalid request_state payload")
	}

	snap, err := h.session.Get(ctx, req.BattleID)
	if err != nil {
		return h.sendError(participantID, httperrors.ErrCodeBattleNotFound, err.Error())
	}
	return h.sendSnapshot(participantID, *snap)
}

// BattleUpdated broadcasts the snapshot to every participant of the battle.
func (h *Handler) BattleUpdated(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Warn().Err(err).Msg("marshal snapshot failed")
		return
	}
	payload, _ := json.Marshal(ws.BattleUpdatePayload{Battle: data})
	h.hub.BroadcastToBattle(snap.ID, ws.Message{Type: ws.TypeBattleUpdate, Payload: payload})
}

// WinnerDeclared broadcasts the terminal winner notification.
func (h *Handler) WinnerDeclared(snap Snapshot) {
	payload, _ := json.Marshal(ws.WinnerDeclaredPayload{
		BattleID: snap.ID,
		WinnerID: snap.Winner,
		Mode:     snap.Mode,
	})
	h.hub.BroadcastToBattle(snap.ID, ws.Message{Type: ws.TypeWinnerDeclared, Payload: payload})

	h.logger.Info().
		Str("battle_id", snap.ID).
		Str("winner_id", snap.Winner).
		Msg("winner declared")
}

func (h *Handler) sendSnapshot(participantID string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	payload, _ := json.Marshal(ws.BattleUpdatePayload{Battle: data})
	return h.hub.SendToParticipant(participantID, ws.Message{Type: ws.TypeBattleUpdate, Payload: payload})
}

func (h *Handler) sendError(participantID, code, message string) error {
	payload, _ := json.Marshal(ws.ErrorPayload{Code: code, Message: message})
	return h.hub.SendToParticipant(participantID, ws.Message{Type: ws.TypeError, Payload: payload})
}
