package db

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/spacesedan/feedbackflow/internal/models"
)

// DynamoAPI is the subset of *dynamodb.Client the store uses.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

type DynamoStore struct {
	client        DynamoAPI
	feedbackTable string
	analysisTable string
	now           func() time.Time
}

func NewDynamoStore(client DynamoAPI, feedbackTable, analysisTable string) *DynamoStore {
	return &DynamoStore{
		client:        client,
		feedbackTable: feedbackTable,
		analysisTable: analysisTable,
		now:           time.Now,
	}
}

func (s *DynamoStore) InsertFeedback(ctx context.Context, userID, text string, metadata models.FeedbackMetadata) (models.FeedbackRecord, error) {
	record := models.FeedbackRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		Metadata:  metadata,
		CreatedAt: s.now().UTC(),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("[DynamoStore] failed to marshal feedback: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.feedbackTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(feedback_id)"),
	})
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("[DynamoStore] failed to insert feedback: %w", err)
	}

	slog.Debug("[DynamoStore] Stored feedback",
		slog.String("feedback_id", record.ID),
		slog.String("user_id", userID))
	return record, nil
}

func (s *DynamoStore) UpdateEmbedding(ctx context.Context, feedbackID string, vector []float32) error {
	embedding, err := attributevalue.Marshal(vector)
	if err != nil {
		return fmt.Errorf("[DynamoStore] failed to marshal embedding: %w", err)
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.feedbackTable),
		Key: map[string]types.AttributeValue{
			"feedback_id": &types.AttributeValueMemberS{Value: feedbackID},
		},
		UpdateExpression:    aws.String("SET embedding = :embedding, embedded_at = :embedded_at"),
		ConditionExpression: aws.String("attribute_exists(feedback_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":embedding":   embedding,
			":embedded_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(s.now().Unix(), 10)},
		},
	})
	if err != nil {
		return fmt.Errorf("[DynamoStore] failed to update embedding for %s: %w", feedbackID, err)
	}
	return nil
}

func (s *DynamoStore) InsertAnalysis(ctx context.Context, feedbackID string, analysis models.AnalysisResult) (models.AnalysisRecord, error) {
	record := models.AnalysisRecord{
		ID:         uuid.NewString(),
		FeedbackID: feedbackID,
		Analysis:   analysis,
		CreatedAt:  s.now().UTC(),
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.analysisTable),
		Item:      AnalysisToDynamoDBItem(record),
	})
	if err != nil {
		return models.AnalysisRecord{}, fmt.Errorf("[DynamoStore] failed to insert analysis: %w", err)
	}

	slog.Debug("[DynamoStore] Stored analysis",
		slog.String("analysis_id", record.ID),
		slog.String("feedback_id", feedbackID))
	return record, nil
}

func AnalysisToDynamoDBItem(record models.AnalysisRecord) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue)

	item["analysis_id"] = &types.AttributeValueMemberS{Value: record.ID}
	item["feedback_id"] = &types.AttributeValueMemberS{Value: record.FeedbackID}
	item["sentiment"] = &types.AttributeValueMemberS{Value: string(record.Analysis.Sentiment)}
	item["summary"] = &types.AttributeValueMemberS{Value: record.Analysis.Summary}
	item["recommendation"] = &types.AttributeValueMemberS{Value: record.Analysis.Recommendation}
	item["created_at"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(record.CreatedAt.Unix(), 10)}

	topics := make([]types.AttributeValue, 0, len(record.Analysis.Topics))
	for _, topic := range record.Analysis.Topics {
		topics = append(topics, &types.AttributeValueMemberS{Value: topic})
	}
	item["topics"] = &types.AttributeValueMemberL{Value: topics}

	// Optional fields
	if record.Analysis.SentimentScore != nil {
		item["sentiment_score"] = &types.AttributeValueMemberN{
			Value: strconv.FormatFloat(*record.Analysis.SentimentScore, 'f', -1, 64),
		}
	}

	return item
}
