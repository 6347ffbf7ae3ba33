package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/ai-jeopardy/internal/question"
)

type stubBackend struct {
	system, prompt string
	reply          string
	err            error
}

func (s *stubBackend) Complete(_ context.Context, system, prompt string) (string, error) {
	s.system, s.prompt = system, prompt
	return s.reply, s.err
}

func TestExtractPair(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain", `{"question":"It orbits the Earth","answer":"What is the Moon?"}`},
		{"json fence", "```json\n{\"question\":\"It orbits the Earth\",\"answer\":\"What is the Moon?\"}\n```"},
		{"bare fence", "```\n{\"question\":\"It orbits the Earth\",\"answer\":\"What is the Moon?\"}\n```"},
		{"chatter", "Sure! Here you go:\n{\"question\":\"It orbits the Earth\",\"answer\":\"What is the Moon?\"}\nEnjoy."},
		{"padded fields", `{"question":"  It orbits the Earth ","answer":" What is the Moon?"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pair, err := ExtractPair(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, question.Pair{Question: "It orbits the Earth", Answer: "What is the Moon?"}, pair)
		})
	}
}

func TestExtractPairErrors(t *testing.T) {
	_, err := ExtractPair("   ")
	assert.ErrorIs(t, err, ErrNoContent)

	_, err = ExtractPair("not json at all")
	assert.Error(t, err)

	_, err = ExtractPair(`{"question":"clue without answer"}`)
	assert.ErrorIs(t, err, question.ErrEmptyPair)
}

func TestGeneratorGenerate(t *testing.T) {
	backend := &stubBackend{reply: "```json\n{\"question\":\"This composer wrote The Magic Flute\",\"answer\":\"Who is Mozart?\"}\n```"}
	gen := NewGenerator(backend, zerolog.New(io.Discard))

	pair, err := gen.Generate(context.Background(), question.Request{Category: "Opera", Value: 300})

	require.NoError(t, err)
	assert.Equal(t, "Who is Mozart?", pair.Answer)
	assert.Equal(t, question.SystemPrompt, backend.system)
	assert.Contains(t, backend.prompt, `"Opera"`)
	assert.Contains(t, backend.prompt, question.DifficultyMedium)
}

func TestGeneratorPropagatesBackendErrors(t *testing.T) {
	backend := &stubBackend{err: ErrMissingAPIKey}
	gen := NewGenerator(backend, zerolog.New(io.Discard))

	_, err := gen.Generate(context.Background(), question.Request{Category: "Opera", Value: 300})

	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(Config{})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIBackend{}, b)

	b, err = NewBackend(Config{Provider: "Gemini"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiBackend{}, b)

	_, err = NewBackend(Config{Provider: "parrot"})
	assert.Error(t, err)
}

func TestOpenAIBackendComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"question\":\"q\",\"answer\":\"a\"}"}}]}`))
	}))
	defer srv.Close()

	backend := NewOpenAIBackend(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1/", JSONMode: true}, srv.Client())
	content, err := backend.Complete(context.Background(), "system", "prompt")

	require.NoError(t, err)
	assert.Equal(t, `{"question":"q","answer":"a"}`, content)
	assert.Equal(t, defaultOpenAIModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "prompt", got.Messages[1].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestOpenAIBackendErrors(t *testing.T) {
	_, err := NewOpenAIBackend(Config{}, http.DefaultClient).Complete(context.Background(), "s", "p")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit reached"}}`))
	}))
	defer srv.Close()

	_, err = NewOpenAIBackend(Config{APIKey: "k", BaseURL: srv.URL}, srv.Client()).Complete(context.Background(), "s", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit reached")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer empty.Close()

	_, err = NewOpenAIBackend(Config{APIKey: "k", BaseURL: empty.URL}, empty.Client()).Complete(context.Background(), "s", "p")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestOpenAIBackendHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := &http.Client{Timeout: 20 * time.Millisecond}
	_, err := NewOpenAIBackend(Config{APIKey: "k", BaseURL: srv.URL}, client).Complete(context.Background(), "s", "p")
	assert.Error(t, err)
}

func TestGeminiBackendComplete(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":""},{"text":"{\"question\":\"q\",\"answer\":\"a\"}"}]}}]}`))
	}))
	defer srv.Close()

	backend := NewGeminiBackend(Config{APIKey: "g-key", BaseURL: srv.URL + "/v1beta", Model: "gemini-test"}, srv.Client())
	content, err := backend.Complete(context.Background(), "system", "prompt")

	require.NoError(t, err)
	assert.Equal(t, `{"question":"q","answer":"a"}`, content)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "system", got.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "prompt", got.Contents[0].Parts[0].Text)
	assert.Equal(t, "application/json", got.GenerationConfig["responseMimeType"])
}

func TestGeminiBackendErrors(t *testing.T) {
	_, err := NewGeminiBackend(Config{}, http.DefaultClient).Complete(context.Background(), "s", "p")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err = NewGeminiBackend(Config{APIKey: "k", BaseURL: srv.URL}, srv.Client()).Complete(context.Background(), "s", "p")
	assert.True(t, errors.Is(err, ErrNoContent))
}
