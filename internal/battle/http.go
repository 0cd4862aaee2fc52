package battle

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/luna-ray-dot/flashcard/pkg/http/errors"
)

// HTTPHandlers exposes the battle session over plain JSON endpoints.
type HTTPHandlers struct {
	session *Session
	logger  zerolog.Logger
}

// NewHTTPHandlers creates the battle HTTP surface.
func NewHTTPHandlers(session *Session, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{session: session, logger: logger}
}

// CreateBattleRequest is the POST /v1/battles payload.
type CreateBattleRequest struct {
	QuestionIDs []string `json:"question_ids"`
	Mode        string   `json:"mode,omitempty"` // "fastest" (default) or "points"
}

// JoinBattleRequest is the POST /v1/battles/{battleID}/join payload.
type JoinBattleRequest struct {
	ParticipantID string `json:"participant_id"`
}

// SubmitAnswerRequest is the POST /v1/battles/{battleID}/answers payload.
type SubmitAnswerRequest struct {
	ParticipantID string `json:"participant_id"`
	QuestionID    string `json:"question_id"`
	Answer        string `json:"answer"`
	TimeMs        int64  `json:"time_ms"`
}

// CreateBattle handles POST /v1/battles.
func (h *HTTPHandlers) CreateBattle(w http.ResponseWriter, r *http.Request) {
	var req CreateBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Malformed JSON body")
		return
	}

	snap, err := h.session.Create(r.Context(), req.QuestionIDs, req.Mode)
	if err != nil {
		h.respondError(w, err, httperrors.ErrCodeBattleCreationFailed)
		return
	}
	h.respondJSON(w, http.StatusCreated, snap)
}

// JoinBattle handles POST /v1/battles/{battleID}/join.
func (h *HTTPHandlers) JoinBattle(w http.ResponseWriter, r *http.Request) {
	var req JoinBattleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Malformed JSON body")
		return
	}
	if req.ParticipantID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "participant_id is required", "participant_id")
		return
	}

	snap, err := h.session.Join(r.Context(), r.PathValue("battleID"), req.ParticipantID, false)
	if err != nil {
		h.respondError(w, err, httperrors.ErrCodeJoinFailed)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

// SubmitAnswer handles POST /v1/battles/{battleID}/answers.
func (h *HTTPHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Malformed JSON body")
		return
	}
	if req.ParticipantID == "" || req.QuestionID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "participant_id and question_id are required", "participant_id")
		return
	}

	snap, err := h.session.SubmitAnswer(r.Context(), r.PathValue("battleID"), req.ParticipantID, req.QuestionID, req.Answer, req.TimeMs)
	if err != nil {
		h.respondError(w, err, httperrors.ErrCodeSubmitFailed)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

// GetBattle handles GET /v1/battles/{battleID}.
func (h *HTTPHandlers) GetBattle(w http.ResponseWriter, r *http.Request) {
	snap, err := h.session.Get(r.Context(), r.PathValue("battleID"))
	if err != nil {
		h.respondError(w, err, httperrors.ErrCodeInternalError)
		return
	}
	h.respondJSON(w, http.StatusOK, snap)
}

func (h *HTTPHandlers) respondError(w http.ResponseWriter, err error, fallbackCode string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeBattleNotFound, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	default:
		h.logger.Error().Err(err).Msg("battle request failed")
		httperrors.RespondError(w, http.StatusInternalServerError, fallbackCode, "internal error")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn().Err(err).Msg("encode response failed")
	}
}
