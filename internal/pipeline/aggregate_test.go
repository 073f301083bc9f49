package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spacesedan/feedbackflow/internal/models"
)

func fallbackAnalysis() *models.AnalysisResult {
	return &models.AnalysisResult{
		Sentiment:      models.SentimentNeutral,
		Topics:         []string{},
		Summary:        models.FallbackSummary,
		Recommendation: models.FallbackRecommendation,
	}
}

func healthyAnalysis() *models.AnalysisResult {
	score := 0.7
	return &models.AnalysisResult{
		Sentiment:      models.SentimentPositive,
		SentimentScore: &score,
		Topics:         []string{"support"},
		Summary:        "Support was quick.",
		Recommendation: "Keep response times low.",
	}
}

func TestAggregateCounts(t *testing.T) {
	batch := Aggregate([]models.ProcessedItemResult{
		{Index: 0, Success: true, Analysis: healthyAnalysis()},
		{Index: 1, Success: false, Error: "failed to save feedback: boom"},
		{Index: 2, Success: true, Analysis: healthyAnalysis()},
	})

	assert.True(t, batch.Success)
	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, "Analyzed 2 of 3 feedback items (1 failed)", batch.Message)
	assert.Empty(t, batch.Warning)
}

func TestAggregateAllSucceeded(t *testing.T) {
	batch := Aggregate([]models.ProcessedItemResult{
		{Index: 0, Success: true, Analysis: healthyAnalysis()},
	})
	assert.Equal(t, "Successfully analyzed 1 feedback items", batch.Message)
	assert.True(t, batch.Success)
}

func TestAggregateAllFailed(t *testing.T) {
	batch := Aggregate([]models.ProcessedItemResult{
		{Index: 0, Success: false, Error: "x"},
		{Index: 1, Success: false, Error: "y"},
	})
	assert.False(t, batch.Success)
	assert.Equal(t, 2, batch.Failed)
	assert.Equal(t, "Failed to analyze all 2 feedback items", batch.Message)
}

func TestAggregateWarnsOnFallbackSignature(t *testing.T) {
	batch := Aggregate([]models.ProcessedItemResult{
		{Index: 0, Success: true, Analysis: healthyAnalysis()},
		{Index: 1, Success: true, Analysis: fallbackAnalysis()},
	})

	assert.NotEmpty(t, batch.Warning)
	assert.Contains(t, batch.Warning, "1 of 2")
	assert.Contains(t, batch.Warning, usageDashboardURL)
}

func TestAggregateIgnoresFallbackOnFailedItems(t *testing.T) {
	batch := Aggregate([]models.ProcessedItemResult{
		{Index: 0, Success: false, Analysis: fallbackAnalysis(), Error: "failed to save analysis"},
		{Index: 1, Success: true, Analysis: healthyAnalysis()},
	})
	assert.Empty(t, batch.Warning)
}

func TestAggregatePartialFallbackDoesNotWarn(t *testing.T) {
	// summary fell back but topics and score are present: not the outage signature
	partial := healthyAnalysis()
	partial.Summary = models.FallbackSummary
	partial.Recommendation = models.FallbackRecommendation

	batch := Aggregate([]models.ProcessedItemResult{{Index: 0, Success: true, Analysis: partial}})
	assert.Empty(t, batch.Warning)
}
