package models

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentMixed    Sentiment = "mixed"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentMixed:
		return true
	}
	return false
}

// Values substituted when the summary sub-call fails. The aggregator looks for
// them to detect a degraded batch.
const (
	FallbackSummary        = "Unable to generate summary"
	FallbackRecommendation = "Review feedback manually"
)

type AnalysisResult struct {
	Sentiment      Sentiment `json:"sentiment" dynamodbav:"sentiment"`
	SentimentScore *float64  `json:"sentiment_score,omitempty" dynamodbav:"sentiment_score,omitempty"`
	Topics         []string  `json:"topics" dynamodbav:"topics"`
	Summary        string    `json:"summary" dynamodbav:"summary"`
	Recommendation string    `json:"recommendation" dynamodbav:"recommendation"`
}

// IsFallback reports whether every field carries its fallback value.
func (a AnalysisResult) IsFallback() bool {
	return a.Summary == FallbackSummary &&
		a.Recommendation == FallbackRecommendation &&
		len(a.Topics) == 0 &&
		a.SentimentScore == nil
}
