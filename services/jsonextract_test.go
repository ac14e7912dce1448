package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONFencedBlock(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"a\": 1}\n```\nHope this helps!"
	got, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, got)
}

func TestExtractJSONBareLiteral(t *testing.T) {
	got, err := ExtractJSON(`[{"q": "x"}, {"q": "y"}]`)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"q": "x"}, {"q": "y"}]`, got)
}

func TestExtractJSONWithSurroundingProse(t *testing.T) {
	raw := `Sure! The flashcards are: [{"question": "Q1", "answer": "A1"}] — let me know if you need more.`
	got, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"question": "Q1", "answer": "A1"}]`, got)
}

// Ngoặc vuông trong văn xuôi phía trước không được nhầm là JSON
func TestExtractJSONSkipsProseBrackets(t *testing.T) {
	raw := `As shown in [see note one], the answer follows. {"answer": 42}`
	got, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer": 42}`, got)
}

func TestExtractJSONBracketsInsideStrings(t *testing.T) {
	raw := `Result: {"note": "use arr[0] and obj{} carefully", "ok": true} done`
	got, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"note": "use arr[0] and obj{} carefully", "ok": true}`, got)
}

func TestExtractJSONIdempotent(t *testing.T) {
	first, err := ExtractJSON("```json\n[1, 2, 3]\n```")
	require.NoError(t, err)

	second, err := ExtractJSON(first)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExtractJSONNoJSON(t *testing.T) {
	_, err := ExtractJSON("I'm sorry, I can't produce that.")
	assert.Error(t, err)

	_, err = ExtractJSON("")
	assert.Error(t, err)

	// Ngoặc mở nhưng không bao giờ đóng
	_, err = ExtractJSON(`{"a": [1, 2`)
	assert.Error(t, err)
}
