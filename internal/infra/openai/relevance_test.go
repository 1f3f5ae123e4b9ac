package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelevanceResponse(t *testing.T) {
	content := `{"relevant_scenes": [1, 3], "reasoning": "scenes 1 and 3 cover the topic"}`

	indices, err := parseRelevanceResponse(content, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, indices)
}

func TestParseRelevanceResponse_StripsCodeFences(t *testing.T) {
	content := "```json\n{\"relevant_scenes\": [2], \"reasoning\": \"x\"}\n```"

	indices, err := parseRelevanceResponse(content, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, indices)
}

func TestParseRelevanceResponse_SkipsOutOfRange(t *testing.T) {
	content := `{"relevant_scenes": [0, 1, 99], "reasoning": "x"}`

	indices, err := parseRelevanceResponse(content, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, indices)
}

func TestParseRelevanceResponse_EmptySelection(t *testing.T) {
	content := `{"relevant_scenes": [], "reasoning": "none match"}`

	indices, err := parseRelevanceResponse(content, 3)
	require.NoError(t, err)
	assert.Empty(t, indices)
}

func TestParseRelevanceResponse_InvalidJSON(t *testing.T) {
	_, err := parseRelevanceResponse("the scenes 1 and 2 look relevant", 3)
	require.ErrorIs(t, err, ErrInvalidResponseFormat)
}

func TestTruncateTokens_ShortTextUnchanged(t *testing.T) {
	text := "short lecture transcript"
	assert.Equal(t, text, truncateTokens(text, 500))
}
