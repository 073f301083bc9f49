package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedbackCSVColumns(t *testing.T) {
	input := "\ufeffText, Source ,product_id,username\nFast delivery,app,sku-3,ana\n"

	items, err := parseFeedbackCSV(strings.NewReader(input), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Fast delivery", items[0].Text)
	assert.Equal(t, "app", items[0].Source)
	assert.Equal(t, "sku-3", items[0].ProductID)
	assert.Equal(t, "ana", items[0].Username)
	assert.Nil(t, items[0].Rating)
}

func TestParseFeedbackCSVStopsPastLimit(t *testing.T) {
	input := "text\na\nb\nc\nd\n"

	items, err := parseFeedbackCSV(strings.NewReader(input), 2)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestParseFeedbackCSVEmpty(t *testing.T) {
	_, err := parseFeedbackCSV(strings.NewReader(""), 10)
	assert.ErrorIs(t, err, errMissingTextColumn)
}

func TestParseFeedbackCSVShortRows(t *testing.T) {
	items, err := parseFeedbackCSV(strings.NewReader("text,rating\nonly text\n"), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "only text", items[0].Text)
}
