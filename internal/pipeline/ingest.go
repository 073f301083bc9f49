package pipeline

import (
	"context"
	"log/slog"

	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/utils"
)

type ingestOutcome struct {
	feedbackID string
	err        error
}

// ingest saves every item in parallel without a cap. Failed items get their
// terminal result here; the rest are returned in input order.
func (p *Pipeline) ingest(ctx context.Context, userID string, items []models.FeedbackItem, results []models.ProcessedItemResult) []survivor {
	outcomes := utils.RunBounded(ctx, items, len(items), func(ctx context.Context, _ int, item models.FeedbackItem) ingestOutcome {
		record, err := p.store.InsertFeedback(ctx, userID, item.Text, item.Metadata())
		if err != nil {
			return ingestOutcome{err: err}
		}
		return ingestOutcome{feedbackID: record.ID}
	})

	survivors := make([]survivor, 0, len(items))
	for i, outcome := range outcomes {
		if outcome.err != nil {
			slog.Error("[Pipeline] Failed to save feedback",
				slog.Int("index", i),
				slog.String("error", outcome.err.Error()))
			results[i] = models.ProcessedItemResult{
				Index:   i,
				Success: false,
				Error:   "failed to save feedback: " + outcome.err.Error(),
			}
			continue
		}
		survivors = append(survivors, survivor{index: i, feedbackID: outcome.feedbackID, item: items[i]})
	}
	return survivors
}
