package models

import "time"

// FeedbackItem is one piece of customer feedback submitted for analysis.
type FeedbackItem struct {
	Text      string   `json:"text"`
	Rating    *float64 `json:"rating,omitempty"`
	Source    string   `json:"source,omitempty"`
	ProductID string   `json:"productId,omitempty"`
	Username  string   `json:"username,omitempty"`
}

func (f FeedbackItem) Metadata() FeedbackMetadata {
	return FeedbackMetadata{
		Rating:    f.Rating,
		Source:    f.Source,
		ProductID: f.ProductID,
		Username:  f.Username,
	}
}

type FeedbackMetadata struct {
	Rating    *float64 `json:"rating,omitempty" dynamodbav:"rating,omitempty"`
	Source    string   `json:"source,omitempty" dynamodbav:"source,omitempty"`
	ProductID string   `json:"product_id,omitempty" dynamodbav:"product_id,omitempty"`
	Username  string   `json:"username,omitempty" dynamodbav:"username,omitempty"`
}

type FeedbackRecord struct {
	ID        string           `json:"id" dynamodbav:"feedback_id"`
	UserID    string           `json:"user_id" dynamodbav:"user_id"`
	Text      string           `json:"text" dynamodbav:"text"`
	Metadata  FeedbackMetadata `json:"metadata" dynamodbav:"metadata"`
	CreatedAt time.Time        `json:"created_at" dynamodbav:"created_at"`
}

type AnalysisRecord struct {
	ID         string         `json:"id" dynamodbav:"analysis_id"`
	FeedbackID string         `json:"feedback_id" dynamodbav:"feedback_id"`
	Analysis   AnalysisResult `json:"analysis" dynamodbav:"analysis"`
	CreatedAt  time.Time      `json:"created_at" dynamodbav:"created_at"`
}
