package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spacesedan/feedbackflow/internal/models"
)

const (
	DefaultEmbedConcurrency    = 5
	DefaultAnalysisConcurrency = 3
	DefaultMaxBatchSize        = 200
)

// ErrNoItemsIngested is returned alongside a failed BatchResult when no item
// could be saved.
var ErrNoItemsIngested = errors.New("no feedback items could be saved")

type Options struct {
	EmbedConcurrency    int
	AnalysisConcurrency int
	MaxBatchSize        int
}

type Pipeline struct {
	store     Store
	embedder  Embedder
	completer Completer
	opts      Options
}

func New(store Store, embedder Embedder, completer Completer, opts Options) *Pipeline {
	if opts.EmbedConcurrency <= 0 {
		opts.EmbedConcurrency = DefaultEmbedConcurrency
	}
	if opts.AnalysisConcurrency <= 0 {
		opts.AnalysisConcurrency = DefaultAnalysisConcurrency
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultMaxBatchSize
	}
	return &Pipeline{
		store:     store,
		embedder:  embedder,
		completer: completer,
		opts:      opts,
	}
}

func (p *Pipeline) MaxBatchSize() int {
	return p.opts.MaxBatchSize
}

// survivor is an item that was saved and continues through the later stages.
type survivor struct {
	index      int
	feedbackID string
	item       models.FeedbackItem
}

// AnalyzeBatch saves, embeds and analyzes every item of a batch.
//
// A *ValidationError means nothing was attempted. ErrNoItemsIngested comes
// with a failed BatchResult that still has one entry per item. Otherwise the
// error is nil and each item reports its own outcome.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, userID string, items []models.FeedbackItem) (models.BatchResult, error) {
	if err := ValidateBatch(userID, items, p.opts.MaxBatchSize); err != nil {
		slog.Warn("[Pipeline] Rejected batch",
			slog.String("user_id", userID),
			slog.Int("items", len(items)),
			slog.String("error", err.Error()))
		return models.BatchResult{}, err
	}

	start := time.Now()
	slog.Info("[Pipeline] Processing batch",
		slog.String("user_id", userID),
		slog.Int("batch_size", len(items)))

	results := make([]models.ProcessedItemResult, len(items))
	for i := range results {
		results[i].Index = i
	}

	survivors := p.ingest(ctx, userID, items, results)
	if len(survivors) == 0 {
		slog.Error("[Pipeline] No feedback items were saved, skipping analysis",
			slog.String("user_id", userID),
			slog.Int("batch_size", len(items)))
		return totalFailure(results), ErrNoItemsIngested
	}

	p.embed(ctx, survivors)
	p.analyze(ctx, survivors, results)

	batch := Aggregate(results)
	slog.Info("[Pipeline] Batch complete",
		slog.String("user_id", userID),
		slog.Int("succeeded", batch.Succeeded),
		slog.Int("failed", batch.Failed),
		slog.Bool("degraded", batch.Warning != ""),
		slog.Duration("elapsed", time.Since(start)))

	return batch, nil
}
