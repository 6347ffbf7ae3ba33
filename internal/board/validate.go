package board

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned when a board does not have the expected shape.
var ErrMalformed = errors.New("malformed board")

// Validate checks ids and values of a board decoded from an untrusted source.
func Validate(b Board) error {
	seen := make(map[string]struct{}, CategoryCount*(QuestionsPerCategory+1))
	for i, cat := range b.Categories {
		if cat.ID == "" {
			return fmt.Errorf("%w: category %d has no id", ErrMalformed, i+1)
		}
		if _, dup := seen[cat.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrMalformed, cat.ID)
		}
		seen[cat.ID] = struct{}{}

		for j, q := range cat.Questions {
			if q.ID == "" {
				return fmt.Errorf("%w: category %d question %d has no id", ErrMalformed, i+1, j+1)
			}
			if _, dup := seen[q.ID]; dup {
				return fmt.Errorf("%w: duplicate id %q", ErrMalformed, q.ID)
			}
			seen[q.ID] = struct{}{}

			if q.CategoryID != cat.ID {
				return fmt.Errorf("%w: question %q belongs to %q, found under %q", ErrMalformed, q.ID, q.CategoryID, cat.ID)
			}
			if q.Value != Values[j] {
				return fmt.Errorf("%w: question %q has value %d, want %d", ErrMalformed, q.ID, q.Value, Values[j])
			}
		}
	}
	return nil
}
