package pipeline

import (
	"fmt"

	"github.com/spacesedan/feedbackflow/internal/models"
)

const usageDashboardURL = "https://platform.openai.com/usage"

// Aggregate summarizes per-item results into the batch response.
func Aggregate(results []models.ProcessedItemResult) models.BatchResult {
	total := len(results)
	succeeded := 0
	degraded := 0
	for _, r := range results {
		if !r.Success {
			continue
		}
		succeeded++
		if r.Analysis != nil && r.Analysis.IsFallback() {
			degraded++
		}
	}
	failed := total - succeeded

	batch := models.BatchResult{
		Success:   succeeded > 0,
		Total:     total,
		Succeeded: succeeded,
		Failed:    failed,
		Results:   results,
	}

	switch {
	case failed == 0:
		batch.Message = fmt.Sprintf("Successfully analyzed %d feedback items", total)
	case succeeded == 0:
		batch.Message = fmt.Sprintf("Failed to analyze all %d feedback items", total)
	default:
		batch.Message = fmt.Sprintf("Analyzed %d of %d feedback items (%d failed)", succeeded, total, failed)
	}

	if degraded > 0 {
		batch.Warning = fmt.Sprintf(
			"%d of %d analyzed items used fallback values. This usually means the AI provider's API quota or billing limit has been reached. Check your usage at %s",
			degraded, succeeded, usageDashboardURL)
	}

	return batch
}

func totalFailure(results []models.ProcessedItemResult) models.BatchResult {
	return models.BatchResult{
		Success:   false,
		Message:   fmt.Sprintf("Failed to save any of the %d feedback items", len(results)),
		Total:     len(results),
		Succeeded: 0,
		Failed:    len(results),
		Results:   results,
	}
}
