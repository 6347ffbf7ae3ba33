package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeMissingField     = "missing_field"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodePayloadTooLarge  = "payload_too_large"

	// Resource errors
	ErrCodeGameNotFound = "game_not_found"

	// Game state errors
	ErrCodeNotEditable          = "not_editable"
	ErrCodeNotPlaying           = "not_playing"
	ErrCodeGenerationInProgress = "generation_in_progress"
	ErrCodeGenerationCancelled  = "generation_cancelled"
	ErrCodeMalformedBoard       = "malformed_board"

	// Generation errors
	ErrCodeGenerationFailed = "generation_failed"

	// WebSocket errors
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server errors
	ErrCodeInternalError = "internal_error"
	ErrCodeUpstreamError = "upstream_error"
)
