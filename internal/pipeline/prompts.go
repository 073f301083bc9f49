package pipeline

import "fmt"

const (
	sentimentMaxTokens = 100
	topicsMaxTokens    = 150
	summaryMaxTokens   = 300
)

func buildSentimentPrompt(text string) string {
	return fmt.Sprintf(`Analyze the sentiment of the following customer feedback.

Respond only with a valid JSON object. Do not include any additional text or commentary.

Expected JSON response format:
{"sentiment": "positive" | "neutral" | "negative" | "mixed", "confidence": <number between 0 and 1>}

Feedback:
%s`, text)
}

func buildTopicsPrompt(text string) string {
	return fmt.Sprintf(`Extract the main topics discussed in the following customer feedback.

Instructions:
- Return between 1 and 5 topics.
- Each topic is a short lowercase phrase (1-3 words), e.g. "shipping speed", "pricing".

Respond only with a valid JSON object. Do not include any additional text or commentary.

Expected JSON response format:
{"topics": ["topic one", "topic two"]}

Feedback:
%s`, text)
}

func buildSummaryPrompt(text string) string {
	return fmt.Sprintf(`Summarize the following customer feedback and recommend one action the business should take.

Instructions:
- summary: one or two sentences describing what the customer is saying.
- recommendation: one concrete, actionable next step for the product team.

Respond only with a valid JSON object. Do not include any additional text or commentary.

Expected JSON response format:
{"summary": "...", "recommendation": "..."}

Feedback:
%s`, text)
}
