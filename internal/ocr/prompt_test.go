package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/scorecard/internal/core"
)

// promptCard is a transcription written the way ScorecardPrompt asks:
// an unreadable name as "?", names as single words and "?" for a missing score.
const promptCard = `Mary Bob
1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17 18 Total
4 4 4 4 4 4 4 4 4 4 4 4 4 4 4 4 4 4 72
Mary 4 5 3 4 5 4 3 4 5 4 5 3 4 5 4 3 4 5 74
? 5 5 5 5 5 5 5 5 5 5 5 5 5 5 5 5 5 5 90
Bob 4 4 4 4 ? 4 4 4 4 4 4 4 4 4 4 4 4 4 72`

func TestScorecardPrompt_Instructions(t *testing.T) {
	assert.Contains(t, ScorecardPrompt, "write ? in place of the name")
	assert.Contains(t, ScorecardPrompt, "single word")
	assert.NotContains(t, ScorecardPrompt, "Unknown Golfer",
		"a multi-word placeholder would not fit the one-token name slot")
}

func TestScorecardPrompt_OutputParses(t *testing.T) {
	result, err := core.Parse(promptCard, core.DefaultParseOptions())
	require.NoError(t, err)

	require.Len(t, result.Records, 3)
	assert.Empty(t, result.Skipped)

	assert.Equal(t, "Mary", result.Records[0].PlayerName)
	assert.Equal(t, "Unknown Golfer 1", result.Records[1].PlayerName)
	assert.False(t, result.Records[1].NameDetected)
	assert.Equal(t, core.Present(90), result.Records[1].TotalScore)

	bob := result.Records[2]
	assert.Equal(t, "Bob", bob.PlayerName)
	assert.False(t, bob.Scores[4].Valid)
	assert.False(t, bob.TotalScore.Valid, "recomputed total is missing when a hole is missing")
}
