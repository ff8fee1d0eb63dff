package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "plain json",
			input: `{"label": "POSITIVE", "score": 0.8, "confidence": 0.9, "topics": ["earnings"]}`,
		},
		{
			name: "markdown fenced",
			input: "```json\n" + `{"label": "POSITIVE", "score": 0.8, "confidence": 0.9, "topics": ["earnings"]}` + "\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseScoreResponse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "POSITIVE", result.Label)
			assert.Equal(t, 0.8, result.Score)
			assert.Equal(t, 0.9, result.Confidence)
			assert.Equal(t, []string{"earnings"}, result.Topics)
		})
	}
}

func TestParseScoreResponseClamps(t *testing.T) {
	result, err := parseScoreResponse(`{"label": "NEGATIVE", "score": -3.5, "confidence": 1.7, "topics": ["a", "b", "c", "d"]}`)
	require.NoError(t, err)
	assert.Equal(t, -1.0, result.Score)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Len(t, result.Topics, 3)
}

func TestParseScoreResponseRejectsBadLabel(t *testing.T) {
	_, err := parseScoreResponse(`{"label": "MEH", "score": 0, "confidence": 0}`)
	assert.Error(t, err)

	_, err = parseScoreResponse("not json at all")
	assert.Error(t, err)
}
