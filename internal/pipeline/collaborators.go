package pipeline

import (
	"context"

	"github.com/spacesedan/feedbackflow/internal/models"
)

// Store persists feedback, embeddings and analyses.
type Store interface {
	InsertFeedback(ctx context.Context, userID, text string, metadata models.FeedbackMetadata) (models.FeedbackRecord, error)
	UpdateEmbedding(ctx context.Context, feedbackID string, vector []float32) error
	InsertAnalysis(ctx context.Context, feedbackID string, analysis models.AnalysisResult) (models.AnalysisRecord, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}
