package board

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardShape(t *testing.T) {
	b := New()

	require.Len(t, b.Categories, CategoryCount)
	ids := map[string]struct{}{}
	for i, cat := range b.Categories {
		assert.Equal(t, DefaultCategoryName(i+1), cat.Name)
		assert.NotEmpty(t, cat.ID)
		ids[cat.ID] = struct{}{}

		require.Len(t, cat.Questions, QuestionsPerCategory)
		for j, q := range cat.Questions {
			assert.Equal(t, Values[j], q.Value)
			assert.Equal(t, cat.ID, q.CategoryID)
			assert.Empty(t, q.Question)
			assert.Empty(t, q.Answer)
			assert.False(t, q.Revealed)
			assert.True(t, q.IsEmpty())
			ids[q.ID] = struct{}{}
		}
	}

	assert.Len(t, ids, CategoryCount*(QuestionsPerCategory+1), "ids must be unique")
	assert.Equal(t, "Category 1", b.Categories[0].Name)
	assert.Equal(t, 25, b.Pending())
	assert.Equal(t, 25, b.Unrevealed())
	assert.NoError(t, Validate(b))
}

func TestNewBoardsDoNotShareIDs(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a.Categories[0].ID, b.Categories[0].ID)
	assert.NotEqual(t, a.Categories[0].Questions[0].ID, b.Categories[0].Questions[0].ID)
}

func TestRenameCategory(t *testing.T) {
	b := New()
	target := b.Categories[2].ID

	renamed := RenameCategory(b, target, "History")

	assert.Equal(t, "History", renamed.Categories[2].Name)
	assert.Equal(t, "Category 3", b.Categories[2].Name, "input board must not change")

	expected := b
	expected.Categories[2].Name = "History"
	assert.Equal(t, expected, renamed, "only the targeted name changes")
}

func TestRenameCategoryUnknownIDIsNoop(t *testing.T) {
	b := New()
	assert.Equal(t, b, RenameCategory(b, "missing", "History"))
}

func TestRenameCategoryClampsLongNames(t *testing.T) {
	b := New()
	long := strings.Repeat("é", MaxCategoryNameLength+10)

	renamed := RenameCategory(b, b.Categories[0].ID, long)

	assert.Equal(t, strings.Repeat("é", MaxCategoryNameLength), renamed.Categories[0].Name)
}

func TestRevealQuestion(t *testing.T) {
	b := New()
	target := b.Categories[0].Questions[0].ID

	revealed := RevealQuestion(b, target)

	assert.True(t, revealed.Categories[0].Questions[0].Revealed)
	assert.False(t, b.Categories[0].Questions[0].Revealed, "input board must not change")
	assert.Equal(t, 24, revealed.Unrevealed())

	for i, cat := range revealed.Categories {
		for j, q := range cat.Questions {
			if i == 0 && j == 0 {
				continue
			}
			assert.False(t, q.Revealed, "question %d/%d", i, j)
		}
	}
}

func TestRevealQuestionIdempotent(t *testing.T) {
	b := New()
	target := b.Categories[3].Questions[4].ID

	once := RevealQuestion(b, target)
	twice := RevealQuestion(once, target)

	assert.Equal(t, once, twice)
}

func TestRevealQuestionUnknownIDIsNoop(t *testing.T) {
	b := New()
	assert.Equal(t, b, RevealQuestion(b, "missing"))
}

func TestFindHelpers(t *testing.T) {
	b := New()
	q := b.Categories[1].Questions[2]

	found, ok := b.FindQuestion(q.ID)
	require.True(t, ok)
	assert.Equal(t, q, found)

	cat, ok := b.FindCategory(q.CategoryID)
	require.True(t, ok)
	assert.Equal(t, b.Categories[1].ID, cat.ID)

	_, ok = b.FindQuestion("missing")
	assert.False(t, ok)
	_, ok = b.FindCategory("missing")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b *Board)
	}{
		{"missing category id", func(b *Board) { b.Categories[1].ID = "" }},
		{"missing question id", func(b *Board) { b.Categories[1].Questions[3].ID = "" }},
		{"duplicate id", func(b *Board) { b.Categories[4].Questions[0].ID = b.Categories[0].ID }},
		{"wrong owner", func(b *Board) { b.Categories[2].Questions[1].CategoryID = b.Categories[0].ID }},
		{"wrong value", func(b *Board) { b.Categories[0].Questions[0].Value = 500 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := New()
			tc.mutate(&b)
			assert.ErrorIs(t, Validate(b), ErrMalformed)
		})
	}
}

func TestValidateRejectsTruncatedJSON(t *testing.T) {
	var b Board
	require.NoError(t, json.Unmarshal([]byte(`{"categories":[{"id":"c1","name":"Only","questions":[]}]}`), &b))
	assert.ErrorIs(t, Validate(b), ErrMalformed)
}

func TestBoardJSONShape(t *testing.T) {
	raw, err := json.Marshal(New())
	require.NoError(t, err)

	var decoded map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded["categories"], CategoryCount)

	first := decoded["categories"][0]
	assert.Equal(t, "Category 1", first["name"])
	questions := first["questions"].([]interface{})
	require.Len(t, questions, QuestionsPerCategory)
	q := questions[0].(map[string]interface{})
	assert.Equal(t, float64(100), q["value"])
	assert.Equal(t, first["id"], q["category"])
	assert.Equal(t, false, q["revealed"])
}
