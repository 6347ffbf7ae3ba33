package game

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/ai-jeopardy/internal/board"
	httperrors "github.com/gokatarajesh/ai-jeopardy/pkg/http/errors"
)

func newTestMux(svc *Service) *http.ServeMux {
	h := NewHTTPHandlers(svc, zerolog.New(io.Discard))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/games", h.CreateGame)
	mux.HandleFunc("GET /v1/games/{id}", h.GetGame)
	mux.HandleFunc("PUT /v1/games/{id}/categories/{categoryID}", h.RenameCategory)
	mux.HandleFunc("POST /v1/games/{id}/start", h.StartGame)
	mux.HandleFunc("POST /v1/games/{id}/questions/{questionID}/reveal", h.RevealQuestion)
	mux.HandleFunc("POST /v1/games/{id}/reset", h.ResetGame)
	return mux
}

func doRequest(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func decodeGame(t *testing.T, rec *httptest.ResponseRecorder) Game {
	t.Helper()
	var g Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	return g
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httperrors.ErrorResponse {
	t.Helper()
	var resp httperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGameHTTPFlow(t *testing.T) {
	mux := newTestMux(newTestService(&stubGenerator{}, nil))

	rec := doRequest(t, mux, http.MethodPost, "/v1/games", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	g := decodeGame(t, rec)
	assert.Equal(t, ModeEdit, g.Mode)

	catID := g.Board.Categories[2].ID
	rec = doRequest(t, mux, http.MethodPut, "/v1/games/"+g.ID+"/categories/"+catID, `{"name":"Famous Scientists of the Renaissance Era"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	renamed := decodeGame(t, rec)
	assert.Equal(t, "Famous Scientists of the Renai", renamed.Board.Categories[2].Name)
	assert.Len(t, []rune(renamed.Board.Categories[2].Name), board.MaxCategoryNameLength)

	rec = doRequest(t, mux, http.MethodGet, "/v1/games/"+g.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, renamed.Board, decodeGame(t, rec).Board)

	rec = doRequest(t, mux, http.MethodPost, "/v1/games/"+g.ID+"/start", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var started StartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	assert.Equal(t, ModePlay, started.Game.Mode)
	assert.Equal(t, 25, started.Report.Generated)

	qID := started.Game.Board.Categories[0].Questions[3].ID
	rec = doRequest(t, mux, http.MethodPost, "/v1/games/"+g.ID+"/questions/"+qID+"/reveal", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeGame(t, rec).Board.Categories[0].Questions[3].Revealed)

	rec = doRequest(t, mux, http.MethodPost, "/v1/games/"+g.ID+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	reset := decodeGame(t, rec)
	assert.Equal(t, ModeEdit, reset.Mode)
	assert.Equal(t, 25, reset.Board.Pending())
}

func TestGameHTTPErrors(t *testing.T) {
	svc := newTestService(&stubGenerator{}, nil)
	mux := newTestMux(svc)
	ctx := context.Background()

	g, err := svc.Create(ctx)
	require.NoError(t, err)
	catPath := "/v1/games/" + g.ID + "/categories/" + g.Board.Categories[0].ID
	qID := g.Board.Categories[0].Questions[0].ID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown game", http.MethodGet, "/v1/games/missing", "", http.StatusNotFound, httperrors.ErrCodeGameNotFound},
		{"start unknown game", http.MethodPost, "/v1/games/missing/start", "", http.StatusNotFound, httperrors.ErrCodeGameNotFound},
		{"rename bad json", http.MethodPut, catPath, `{"name":`, http.StatusBadRequest, httperrors.ErrCodeInvalidRequest},
		{"rename missing name", http.MethodPut, catPath, `{}`, http.StatusBadRequest, httperrors.ErrCodeMissingField},
		{"reveal in edit mode", http.MethodPost, "/v1/games/" + g.ID + "/questions/" + qID + "/reveal", "", http.StatusConflict, httperrors.ErrCodeNotPlaying},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, mux, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Error)
		})
	}

	_, err = svc.Start(ctx, g.ID)
	require.NoError(t, err)

	rec := doRequest(t, mux, http.MethodPut, catPath, `{"name":"Late"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeNotEditable, decodeError(t, rec).Error)
}

func TestGameHTTPStartFailure(t *testing.T) {
	gen := boardGeneratorFunc(func(_ context.Context, b board.Board, _ ProgressFunc) (board.Board, Report, error) {
		return b, Report{}, board.ErrMalformed
	})
	svc := NewService(NewMemoryStore(time.Hour), gen, nil, zerolog.New(io.Discard))
	mux := newTestMux(svc)

	g, err := svc.Create(context.Background())
	require.NoError(t, err)

	rec := doRequest(t, mux, http.MethodPost, "/v1/games/"+g.ID+"/start", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, httperrors.ErrCodeMalformedBoard, resp.Error)
	assert.Equal(t, GenerationFailedMessage, resp.Message)

	rec = doRequest(t, mux, http.MethodGet, "/v1/games/"+g.ID, "")
	assert.Equal(t, GenerationFailedMessage, decodeGame(t, rec).Error)
}

func TestGameHTTPRenameRejectsOversizedBody(t *testing.T) {
	svc := newTestService(&stubGenerator{}, nil)
	mux := newTestMux(svc)

	g, err := svc.Create(context.Background())
	require.NoError(t, err)
	catPath := "/v1/games/" + g.ID + "/categories/" + g.Board.Categories[0].ID

	rec := doRequest(t, mux, http.MethodPut, catPath, `{"name":"`+strings.Repeat("x", maxBodyBytes)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, httperrors.ErrCodePayloadTooLarge, decodeError(t, rec).Error)

	stored, err := svc.Get(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Board, stored.Board)
}

func TestGameHTTPStartCancelledByReset(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	var gameID string
	gen := boardGeneratorFunc(func(ctx context.Context, b board.Board, _ ProgressFunc) (board.Board, Report, error) {
		g, err := store.Get(ctx, gameID)
		if err != nil {
			return b, Report{}, err
		}
		g.Mode = ModeEdit
		return b, Report{}, store.Save(ctx, g)
	})
	svc := NewService(store, gen, nil, zerolog.New(io.Discard))
	mux := newTestMux(svc)

	g, err := svc.Create(context.Background())
	require.NoError(t, err)
	gameID = g.ID

	rec := doRequest(t, mux, http.MethodPost, "/v1/games/"+g.ID+"/start", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, httperrors.ErrCodeGenerationCancelled, decodeError(t, rec).Error)
}
