package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gokatarajesh/ai-jeopardy/internal/question"
)

// ErrNoContent is returned when the model reply carries no text.
var ErrNoContent = errors.New("no content in response")

// ExtractPair decodes a question/answer pair from a model reply, tolerating
// fenced code blocks and chatter around the JSON object.
func ExtractPair(raw string) (question.Pair, error) {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return question.Pair{}, ErrNoContent
	}

	var pair question.Pair
	if err := json.Unmarshal([]byte(cleaned), &pair); err != nil {
		return question.Pair{}, fmt.Errorf("parse model JSON: %w", err)
	}

	pair.Question = strings.TrimSpace(pair.Question)
	pair.Answer = strings.TrimSpace(pair.Answer)
	if pair.Question == "" || pair.Answer == "" {
		return question.Pair{}, question.ErrEmptyPair
	}
	return pair, nil
}

func cleanJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	// Cut off leading junk before first {
	if i := strings.Index(raw, "{"); i > 0 {
		raw = raw[i:]
	}

	// Cut off trailing junk after last }
	if j := strings.LastIndex(raw, "}"); j > 0 && j+1 < len(raw) {
		raw = raw[:j+1]
	}

	return strings.TrimSpace(raw)
}
