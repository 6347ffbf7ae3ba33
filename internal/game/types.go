package game

import (
	"errors"
	"time"

	"github.com/gokatarajesh/ai-jeopardy/internal/board"
)

// Mode is the UI state of a game.
type Mode string

// Game modes.
const (
	ModeEdit       Mode = "edit"
	ModeGenerating Mode = "generating"
	ModePlay       Mode = "play"
)

// GenerationFailedMessage is the banner shown after a failed generation pass.
const GenerationFailedMessage = "Failed to generate questions. Please try again."

// Session errors.
var (
	ErrGameNotFound         = errors.New("game not found")
	ErrNotEditable          = errors.New("game is not in edit mode")
	ErrNotPlaying           = errors.New("game is not in play mode")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrGenerationCancelled  = errors.New("game was reset during generation")
)

// Game is one board plus the UI state around it.
type Game struct {
	ID        string      `json:"id"`
	Mode      Mode        `json:"mode"`
	Board     board.Board `json:"board"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// SlotFailure records a slot the generator could not fill.
type SlotFailure struct {
	CategoryID   string      `json:"category_id"`
	CategoryName string      `json:"category_name"`
	QuestionID   string      `json:"question_id"`
	Value        board.Value `json:"value"`
	Error        string      `json:"error"`
}

// Report summarises a generation pass.
type Report struct {
	Attempted int           `json:"attempted"`
	Generated int           `json:"generated"`
	Sentinel  int           `json:"sentinel"`
	Failures  []SlotFailure `json:"failures,omitempty"`
}

// SlotResult is the outcome of one slot, handed to progress callbacks.
type SlotResult struct {
	CategoryID   string
	CategoryName string
	QuestionID   string
	Value        board.Value
	Sentinel     bool
	Err          error
	Completed    int
	Total        int
}

// ProgressFunc observes slot results. Calls are serialized.
type ProgressFunc func(SlotResult)
