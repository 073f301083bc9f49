package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSentimentValid(t *testing.T) {
	for _, s := range []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative, SentimentMixed} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Sentiment("angry").Valid())
	assert.False(t, Sentiment("").Valid())
}

func TestAnalysisResultIsFallback(t *testing.T) {
	score := 0.4
	fallback := AnalysisResult{
		Sentiment:      SentimentNeutral,
		Topics:         []string{},
		Summary:        FallbackSummary,
		Recommendation: FallbackRecommendation,
	}
	assert.True(t, fallback.IsFallback())

	withScore := fallback
	withScore.SentimentScore = &score
	assert.False(t, withScore.IsFallback())

	withTopics := fallback
	withTopics.Topics = []string{"shipping"}
	assert.False(t, withTopics.IsFallback())

	withSummary := fallback
	withSummary.Summary = "Customer loves it"
	assert.False(t, withSummary.IsFallback())
}

func TestNewBatchEventCollectsSucceededIDs(t *testing.T) {
	now := time.Now()
	result := BatchResult{
		Total:     3,
		Succeeded: 2,
		Failed:    1,
		Results: []ProcessedItemResult{
			{Index: 0, Success: true, FeedbackID: "a"},
			{Index: 1, Success: false, FeedbackID: "b", Error: "boom"},
			{Index: 2, Success: true, FeedbackID: "c"},
		},
	}

	event := NewBatchEvent("user-1", result, now)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, []string{"a", "c"}, event.FeedbackIDs)
	assert.Equal(t, 2, event.Succeeded)
	assert.Equal(t, now, event.ProcessedAt)
}
