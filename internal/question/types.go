package question

import (
	"context"
	"errors"

	"github.com/gokatarajesh/ai-jeopardy/internal/board"
)

// Sentinel text shown on the board when a slot could not be generated.
const (
	SentinelQuestion = "Error generating question. Please try again."
	SentinelAnswer   = "Error"
)

// Sentinel is the placeholder pair for an unrecoverable generation failure.
var Sentinel = Pair{Question: SentinelQuestion, Answer: SentinelAnswer}

// ErrEmptyPair is returned when a backend answers without usable content.
var ErrEmptyPair = errors.New("generated pair is empty")

// Request identifies a single board slot to generate content for.
type Request struct {
	Category string      `json:"category"`
	Value    board.Value `json:"value"`
}

// Pair is a generated clue and its response.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// IsSentinel reports whether p is the failure placeholder.
func IsSentinel(p Pair) bool {
	return p == Sentinel
}

// Generator produces a question/answer pair for a category and point value.
type Generator interface {
	Generate(ctx context.Context, req Request) (Pair, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (Pair, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (Pair, error) {
	return f(ctx, req)
}
