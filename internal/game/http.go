package game

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ai-jeopardy/internal/board"
	httperrors "github.com/gokatarajesh/ai-jeopardy/pkg/http/errors"
)

const maxBodyBytes = 16 << 10

// HTTPHandlers provides REST endpoints for game sessions.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for game endpoints.
func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "game_http").Logger(),
	}
}

type renameCategoryRequest struct {
	Name *string `json:"name"`
}

// CreateGame handles POST /v1/games
func (h *HTTPHandlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.Create(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, g)
}

// GetGame handles GET /v1/games/{id}
func (h *HTTPHandlers) GetGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, g)
}

// RenameCategory handles PUT /v1/games/{id}/categories/{categoryID}
func (h *HTTPHandlers) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req renameCategoryRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httperrors.RespondError(w, http.StatusRequestEntityTooLarge, httperrors.ErrCodePayloadTooLarge, "Request body too large")
			return
		}
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Name == nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "name is required", "name")
		return
	}

	g, err := h.service.RenameCategory(r.Context(), r.PathValue("id"), r.PathValue("categoryID"), *req.Name)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, g)
}

// StartGame handles POST /v1/games/{id}/start
func (h *HTTPHandlers) StartGame(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Start(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, res)
}

// RevealQuestion handles POST /v1/games/{id}/questions/{questionID}/reveal
func (h *HTTPHandlers) RevealQuestion(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.RevealQuestion(r.Context(), r.PathValue("id"), r.PathValue("questionID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, g)
}

// ResetGame handles POST /v1/games/{id}/reset
func (h *HTTPHandlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, g)
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGameNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeGameNotFound, "Game not found")
	case errors.Is(err, ErrNotEditable):
		httperrors.RespondConflict(w, httperrors.ErrCodeNotEditable, "Game can only be changed in edit mode")
	case errors.Is(err, ErrNotPlaying):
		httperrors.RespondConflict(w, httperrors.ErrCodeNotPlaying, "Questions can only be revealed in play mode")
	case errors.Is(err, ErrGenerationInProgress):
		httperrors.RespondConflict(w, httperrors.ErrCodeGenerationInProgress, "Questions are already being generated")
	case errors.Is(err, ErrGenerationCancelled):
		httperrors.RespondConflict(w, httperrors.ErrCodeGenerationCancelled, "Game was reset while questions were being generated")
	case errors.Is(err, board.ErrMalformed):
		h.logger.Error().Err(err).Msg("malformed board")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeMalformedBoard, GenerationFailedMessage)
	default:
		h.logger.Error().Err(err).Msg("game request failed")
		httperrors.RespondInternalError(w, "Internal server error")
	}
}
