package question

import (
	"fmt"
	"strings"

	"github.com/gokatarajesh/ai-jeopardy/internal/board"
)

// SystemPrompt sets the persona of the language model.
const SystemPrompt = "You are a Jeopardy question writer."

// Difficulty descriptors per point value.
const (
	DifficultyVeryEasy = "very easy"
	DifficultyEasy     = "easy"
	DifficultyMedium   = "medium"
	DifficultyHard     = "hard"
	DifficultyVeryHard = "very hard"
)

var difficultyByValue = map[board.Value]string{
	100: DifficultyVeryEasy,
	200: DifficultyEasy,
	300: DifficultyMedium,
	400: DifficultyHard,
	500: DifficultyVeryHard,
}

// Difficulty maps a point value to a descriptor; unknown values are medium.
func Difficulty(value board.Value) string {
	if d, ok := difficultyByValue[value]; ok {
		return d
	}
	return DifficultyMedium
}

// BuildPrompt renders the user prompt for a single slot.
func BuildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a Jeopardy-style question and answer about %q.\n", req.Category)
	fmt.Fprintf(&b, "The difficulty level should be %s (%d point value in Jeopardy).\n", Difficulty(req.Value), req.Value)
	b.WriteString("Format the response as a JSON object with \"question\" and \"answer\" properties.\n")
	b.WriteString("The \"question\" must be phrased as a statement or fact, and the contestant has to respond in the form of a question.\n")
	b.WriteString("The answer must not simply be the category name.\n")
	b.WriteString("Return JSON only. No markdown. No commentary.\n")
	return b.String()
}
