package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"

	// Resource errors
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Battle errors
	ErrCodeBattleCreationFailed = "battle_creation_failed"
	ErrCodeBattleNotFound       = "battle_not_found"
	ErrCodeParticipantNotFound  = "participant_not_found"
	ErrCodeEmptyQuestionSet     = "empty_question_set"
	ErrCodeInvalidBattleMode    = "invalid_battle_mode"
	ErrCodeJoinFailed           = "join_failed"
	ErrCodeSubmitFailed         = "submit_failed"

	// Card errors
	ErrCodeCardNotFound = "card_not_found"

	// Leaderboard errors
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeConnectionError    = "connection_error"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"
)
