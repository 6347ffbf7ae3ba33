package question

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ai-jeopardy/internal/board"
	httperrors "github.com/gokatarajesh/ai-jeopardy/pkg/http/errors"
)

const maxBodyBytes = 16 << 10

// HTTPHandler exposes single-slot generation for clients that build boards themselves.
type HTTPHandler struct {
	generator Generator
	logger    zerolog.Logger
}

// NewHTTPHandler constructs the generation endpoint. The generator should
// report failures as errors so they can be answered with a 500.
func NewHTTPHandler(generator Generator, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		generator: generator,
		logger:    logger.With().Str("component", "question_http").Logger(),
	}
}

type generateRequest struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
}

// GenerationErrorResponse keeps the sentinel pair alongside the error so
// clients can render the slot without special casing.
type GenerationErrorResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// HandleGenerate handles POST /generate-question
func (h *HTTPHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	var req generateRequest
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

	if strings.TrimSpace(req.Category) == "" || req.Value == 0 {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeMissingField, "Category and value are required")
		return
	}

	genReq := Request{Category: req.Category, Value: board.Value(req.Value)}
	pair, err := h.generator.Generate(r.Context(), genReq)
	if err == nil && (pair.Question == "" || pair.Answer == "") {
		err = ErrEmptyPair
	}
	if err != nil {
		h.logger.Error().Err(err).
			Str("category", req.Category).
			Int("value", req.Value).
			Msg("api error generating question")
		httperrors.RespondJSON(w, http.StatusInternalServerError, GenerationErrorResponse{
			Error:    httperrors.ErrCodeGenerationFailed,
			Message:  "Failed to generate question",
			Question: SentinelQuestion,
			Answer:   SentinelAnswer,
		})
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, pair)
}
