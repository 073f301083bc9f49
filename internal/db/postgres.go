package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spacesedan/feedbackflow/internal/models"
)

// PgxQuerier is satisfied by *pgxpool.Pool.
type PgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore keeps feedback in PostgreSQL with embeddings in a pgvector
// column. See schema.sql.
type PostgresStore struct {
	DB PgxQuerier
}

func NewPostgresStore(db PgxQuerier) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) InsertFeedback(ctx context.Context, userID, text string, metadata models.FeedbackMetadata) (models.FeedbackRecord, error) {
	query := `
        INSERT INTO feedback (user_id, text, rating, source, product_id, username, created_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NOW())
        RETURNING id::text, created_at
    `

	record := models.FeedbackRecord{
		UserID:   userID,
		Text:     text,
		Metadata: metadata,
	}
	err := s.DB.QueryRow(ctx, query,
		userID, text, metadata.Rating, metadata.Source, metadata.ProductID, metadata.Username,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("failed to insert feedback: %w", err)
	}

	return record, nil
}

func (s *PostgresStore) UpdateEmbedding(ctx context.Context, feedbackID string, vector []float32) error {
	query := `
        UPDATE feedback SET embedding = $1::vector WHERE id = $2::uuid
    `

	tag, err := s.DB.Exec(ctx, query, VectorLiteral(vector), feedbackID)
	if err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update embedding: feedback %s not found", feedbackID)
	}
	return nil
}

func (s *PostgresStore) InsertAnalysis(ctx context.Context, feedbackID string, analysis models.AnalysisResult) (models.AnalysisRecord, error) {
	query := `
        INSERT INTO analysis (feedback_id, sentiment, sentiment_score, topics, summary, recommendation, created_at)
        VALUES ($1::uuid, $2, $3, $4, $5, $6, NOW())
        RETURNING id::text, created_at
    `

	topics := analysis.Topics
	if topics == nil {
		topics = []string{}
	}

	record := models.AnalysisRecord{
		FeedbackID: feedbackID,
		Analysis:   analysis,
	}
	err := s.DB.QueryRow(ctx, query,
		feedbackID, string(analysis.Sentiment), analysis.SentimentScore, topics, analysis.Summary, analysis.Recommendation,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("failed to insert analysis: %w", err)
	}

	return record, nil
}

// VectorLiteral formats a vector in pgvector's text input form, e.g. [1,0.5].
func VectorLiteral(vector []float32) string {
	parts := make([]string, len(vector))
	for i, v := range vector {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
