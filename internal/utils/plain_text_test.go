package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Great product!", PlainText("Great product!"))
	assert.Equal(t, "Love the new dashboard", PlainText("**Love** the *new* dashboard"))
	assert.Equal(t, "see the docs please", PlainText("see [the docs](https://example.com/docs) please"))
	assert.Equal(t, "Title Broken checkout flow", PlainText("# Title\n\n- Broken checkout\n- flow"))
	assert.Equal(t, "Tom & Jerry", PlainText("Tom & Jerry"))
}

func TestPlainTextKeepsLiteralText(t *testing.T) {
	tests := []string{
		"The <button> on checkout does nothing",
		"Price went up from $5 to $10 <sigh>",
		"#1 feature request: dark mode",
		"a < b and c > d",
		"<b>not bold</b> just typed",
	}

	for _, input := range tests {
		assert.Equal(t, input, PlainText(input))
	}
}
