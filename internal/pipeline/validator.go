package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spacesedan/feedbackflow/internal/models"
)

// ValidationError rejects a whole batch before anything is persisted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func checkBatchSize(n, maxBatchSize int) error {
	if n == 0 {
		return invalid("at least one item is required")
	}
	if n > maxBatchSize {
		return invalid("batch size exceeds maximum: received %d items, maximum is %d", n, maxBatchSize)
	}
	return nil
}

// ValidateBatch checks the batch as a unit. One bad item rejects all of them.
func ValidateBatch(userID string, items []models.FeedbackItem, maxBatchSize int) error {
	if strings.TrimSpace(userID) == "" {
		return invalid("user id is required")
	}
	if err := checkBatchSize(len(items), maxBatchSize); err != nil {
		return err
	}
	for i, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			return invalid("invalid item at index %d: text is required", i)
		}
	}
	return nil
}

// DecodeItems decodes request items, rejecting any item whose text is missing
// or not a string with the same messages ValidateBatch uses.
func DecodeItems(raw []json.RawMessage, maxBatchSize int) ([]models.FeedbackItem, error) {
	if err := checkBatchSize(len(raw), maxBatchSize); err != nil {
		return nil, err
	}

	items := make([]models.FeedbackItem, len(raw))
	for i, r := range raw {
		var probe struct {
			Text any `json:"text"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return nil, invalid("invalid item at index %d: expected an object", i)
		}
		text, ok := probe.Text.(string)
		if !ok || strings.TrimSpace(text) == "" {
			return nil, invalid("invalid item at index %d: text is required", i)
		}
		if err := json.Unmarshal(r, &items[i]); err != nil {
			return nil, invalid("invalid item at index %d: %s", i, err.Error())
		}
	}
	return items, nil
}
