package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ai-jeopardy/internal/question"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// ErrMissingAPIKey is returned by backends that were configured without a credential.
var ErrMissingAPIKey = errors.New("language model api key is not configured")

// Backend sends one system+user prompt to a language model and returns the raw text reply.
type Backend interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Config holds connection details for the language-model backend.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	JSONMode    bool
	Temperature float64
	Timeout     time.Duration
}

// NewBackend builds the backend named by cfg.Provider.
func NewBackend(cfg Config) (Backend, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAIBackend(cfg, httpClient), nil
	case ProviderGemini:
		return NewGeminiBackend(cfg, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// Generator implements question.Generator on top of a language-model backend.
type Generator struct {
	backend Backend
	logger  zerolog.Logger
}

var _ question.Generator = (*Generator)(nil)

func NewGenerator(backend Backend, logger zerolog.Logger) *Generator {
	return &Generator{
		backend: backend,
		logger:  logger.With().Str("component", "ai_generator").Logger(),
	}
}

// Generate asks the model for a single clue and parses its JSON reply.
func (g *Generator) Generate(ctx context.Context, req question.Request) (question.Pair, error) {
	content, err := g.backend.Complete(ctx, question.SystemPrompt, question.BuildPrompt(req))
	if err != nil {
		return question.Pair{}, fmt.Errorf("complete prompt: %w", err)
	}

	pair, err := ExtractPair(content)
	if err != nil {
		g.logger.Debug().Str("category", req.Category).Str("content", content).Msg("unparseable model reply")
		return question.Pair{}, err
	}
	return pair, nil
}
