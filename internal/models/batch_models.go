package models

import "time"

type ProcessedItemResult struct {
	Index      int             `json:"index"`
	Success    bool            `json:"success"`
	FeedbackID string          `json:"feedbackId,omitempty"`
	Analysis   *AnalysisResult `json:"analysis,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type BatchResult struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	Warning   string                `json:"warning,omitempty"`
	Results   []ProcessedItemResult `json:"results"`
}

// BatchEvent is published once per analyzed batch.
type BatchEvent struct {
	UserID      string    `json:"user_id"`
	Total       int       `json:"total"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	Warning     string    `json:"warning,omitempty"`
	FeedbackIDs []string  `json:"feedback_ids"`
	ProcessedAt time.Time `json:"processed_at"`
}

func NewBatchEvent(userID string, result BatchResult, processedAt time.Time) BatchEvent {
	ids := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		if r.Success && r.FeedbackID != "" {
			ids = append(ids, r.FeedbackID)
		}
	}
	return BatchEvent{
		UserID:      userID,
		Total:       result.Total,
		Succeeded:   result.Succeeded,
		Failed:      result.Failed,
		Warning:     result.Warning,
		FeedbackIDs: ids,
		ProcessedAt: processedAt,
	}
}
