package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spacesedan/feedbackflow/internal/models"
)

var errMissingTextColumn = errors.New("csv must have a text column")

// parseFeedbackCSV reads a header row followed by one feedback item per row.
// Reading stops one row past maxRows so oversized files fail validation
// without being read in full.
func parseFeedbackCSV(r io.Reader, maxRows int) ([]models.FeedbackItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errMissingTextColumn
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := columns[key]; !seen {
			columns[key] = i
		}
	}
	if _, ok := columns["text"]; !ok {
		return nil, errMissingTextColumn
	}

	field := func(row []string, names ...string) string {
		for _, name := range names {
			if i, ok := columns[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	var items []models.FeedbackItem
	for len(items) <= maxRows {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv row %d: %w", len(items)+1, err)
		}

		item := models.FeedbackItem{
			Text:      field(row, "text"),
			Source:    field(row, "source"),
			ProductID: field(row, "product_id", "productid"),
			Username:  field(row, "username"),
		}
		if raw := field(row, "rating"); raw != "" {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				item.Rating = &rating
			}
		}
		items = append(items, item)
	}

	return items, nil
}
