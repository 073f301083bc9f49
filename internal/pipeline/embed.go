package pipeline

import (
	"context"
	"log/slog"

	"github.com/spacesedan/feedbackflow/internal/utils"
)

// embed attaches a vector to each saved item. Failures are logged and ignored.
func (p *Pipeline) embed(ctx context.Context, survivors []survivor) {
	utils.RunBounded(ctx, survivors, p.opts.EmbedConcurrency, func(ctx context.Context, _ int, s survivor) struct{} {
		vector, err := p.embedder.Embed(ctx, s.item.Text)
		if err != nil {
			slog.Warn("[Pipeline] Failed to generate embedding",
				slog.Int("index", s.index),
				slog.String("feedback_id", s.feedbackID),
				slog.String("error", err.Error()))
			return struct{}{}
		}

		if err := p.store.UpdateEmbedding(ctx, s.feedbackID, vector); err != nil {
			slog.Warn("[Pipeline] Failed to store embedding",
				slog.Int("index", s.index),
				slog.String("feedback_id", s.feedbackID),
				slog.String("error", err.Error()))
		}
		return struct{}{}
	})
}
