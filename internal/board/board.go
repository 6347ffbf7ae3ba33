package board

import (
	"fmt"

	"github.com/google/uuid"
)

// Board dimensions are fixed for the lifetime of a board.
const (
	CategoryCount        = 5
	QuestionsPerCategory = 5

	// MaxCategoryNameLength mirrors the input limit of the category header.
	MaxCategoryNameLength = 30
)

// Value is the point value of a question.
type Value int

// Values lists the point values of a category, ascending.
var Values = [QuestionsPerCategory]Value{100, 200, 300, 400, 500}

// Question is a single trivia clue on the board.
type Question struct {
	ID         string `json:"id"`
	CategoryID string `json:"category"`
	Value      Value  `json:"value"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Revealed   bool   `json:"revealed"`
}

// IsEmpty reports whether the question still needs generated content.
func (q Question) IsEmpty() bool {
	return q.Question == "" || q.Answer == ""
}

// Category is a named column of questions, one per value.
type Category struct {
	ID        string                         `json:"id"`
	Name      string                         `json:"name"`
	Questions [QuestionsPerCategory]Question `json:"questions"`
}

// Board is the full game grid. It is a plain value: arrays are copied on
// assignment, so every transform below returns an independent board.
type Board struct {
	Categories [CategoryCount]Category `json:"categories"`
}

// New builds an empty board with placeholder category names.
func New() Board {
	return build(uuid.NewString)
}

func build(newID func() string) Board {
	var b Board
	for i := range b.Categories {
		cat := Category{
			ID:   newID(),
			Name: DefaultCategoryName(i + 1),
		}
		for j, value := range Values {
			cat.Questions[j] = Question{
				ID:         newID(),
				CategoryID: cat.ID,
				Value:      value,
			}
		}
		b.Categories[i] = cat
	}
	return b
}

// DefaultCategoryName returns the placeholder name of the n-th category (1-based).
func DefaultCategoryName(n int) string {
	return fmt.Sprintf("Category %d", n)
}

// RenameCategory returns a copy of b with the matching category renamed.
// Names longer than MaxCategoryNameLength runes are truncated. An unknown
// categoryID leaves the board unchanged.
func RenameCategory(b Board, categoryID, name string) Board {
	name = clampName(name)
	for i := range b.Categories {
		if b.Categories[i].ID == categoryID {
			b.Categories[i].Name = name
			break
		}
	}
	return b
}

// RevealQuestion returns a copy of b with the matching question revealed.
// Revealing twice, or an unknown id, is a no-op.
func RevealQuestion(b Board, questionID string) Board {
	for i := range b.Categories {
		for j := range b.Categories[i].Questions {
			if b.Categories[i].Questions[j].ID == questionID {
				b.Categories[i].Questions[j].Revealed = true
				return b
			}
		}
	}
	return b
}

// FindCategory looks up a category by id.
func (b Board) FindCategory(id string) (Category, bool) {
	for _, cat := range b.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// FindQuestion looks up a question by id.
func (b Board) FindQuestion(id string) (Question, bool) {
	for _, cat := range b.Categories {
		for _, q := range cat.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// Pending counts questions without generated content.
func (b Board) Pending() int {
	n := 0
	for _, cat := range b.Categories {
		for _, q := range cat.Questions {
			if q.IsEmpty() {
				n++
			}
		}
	}
	return n
}

// Unrevealed counts questions the player has not opened yet.
func (b Board) Unrevealed() int {
	n := 0
	for _, cat := range b.Categories {
		for _, q := range cat.Questions {
			if !q.Revealed {
				n++
			}
		}
	}
	return n
}

func clampName(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxCategoryNameLength {
		return name
	}
	return string(runes[:MaxCategoryNameLength])
}
