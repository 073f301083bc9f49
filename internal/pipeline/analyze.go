package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/utils"
)

var errUnusableResponse = errors.New("model response did not match the expected shape")

// subCall is the outcome of one model call. Value always holds something
// usable; err records why the fallback was used, if it was.
type subCall[T any] struct {
	value T
	err   error
}

type sentimentOutcome struct {
	sentiment models.Sentiment
	score     *float64
}

type summaryOutcome struct {
	summary        string
	recommendation string
}

// analyze runs the three sub-calls for every saved item and persists the
// combined analysis. Each item writes only its own index in results.
func (p *Pipeline) analyze(ctx context.Context, survivors []survivor, results []models.ProcessedItemResult) {
	outcomes := utils.RunBounded(ctx, survivors, p.opts.AnalysisConcurrency, func(ctx context.Context, _ int, s survivor) models.ProcessedItemResult {
		return p.analyzeItem(ctx, s)
	})

	for i, outcome := range outcomes {
		results[survivors[i].index] = outcome
	}
}

func (p *Pipeline) analyzeItem(ctx context.Context, s survivor) models.ProcessedItemResult {
	text := promptText(s.item.Text)

	sentiment := p.classifySentiment(ctx, text)
	topics := p.extractTopics(ctx, text)
	summary := p.summarize(ctx, text)

	logFallback(s, "sentiment", sentiment.err)
	logFallback(s, "topics", topics.err)
	logFallback(s, "summary", summary.err)

	analysis := models.AnalysisResult{
		Sentiment:      sentiment.value.sentiment,
		SentimentScore: sentiment.value.score,
		Topics:         topics.value,
		Summary:        summary.value.summary,
		Recommendation: summary.value.recommendation,
	}

	if _, err := p.store.InsertAnalysis(ctx, s.feedbackID, analysis); err != nil {
		slog.Error("[Pipeline] Failed to save analysis",
			slog.Int("index", s.index),
			slog.String("feedback_id", s.feedbackID),
			slog.String("error", err.Error()))
		return models.ProcessedItemResult{
			Index:      s.index,
			Success:    false,
			FeedbackID: s.feedbackID,
			Error:      "failed to save analysis: " + err.Error(),
		}
	}

	return models.ProcessedItemResult{
		Index:      s.index,
		Success:    true,
		FeedbackID: s.feedbackID,
		Analysis:   &analysis,
	}
}

func logFallback(s survivor, name string, err error) {
	if err == nil {
		return
	}
	slog.Warn("[Pipeline] Analysis sub-call fell back to default",
		slog.Int("index", s.index),
		slog.String("feedback_id", s.feedbackID),
		slog.String("sub_call", name),
		slog.String("error", err.Error()))
}

func promptText(text string) string {
	if plain := utils.PlainText(text); plain != "" {
		return plain
	}
	return strings.TrimSpace(text)
}

func (p *Pipeline) classifySentiment(ctx context.Context, text string) subCall[sentimentOutcome] {
	fallback := sentimentOutcome{sentiment: models.SentimentNeutral}

	raw, err := p.completer.Complete(ctx, buildSentimentPrompt(text), sentimentMaxTokens)
	if err != nil {
		return subCall[sentimentOutcome]{value: fallback, err: err}
	}

	type response struct {
		Sentiment  any `json:"sentiment"`
		Confidence any `json:"confidence"`
	}
	parsed := utils.ParseJSONWithFallback[*response](raw, nil)
	if parsed == nil {
		return subCall[sentimentOutcome]{value: fallback, err: errUnusableResponse}
	}

	label, ok := parsed.Sentiment.(string)
	if !ok || !models.Sentiment(label).Valid() {
		return subCall[sentimentOutcome]{value: fallback, err: errUnusableResponse}
	}

	outcome := sentimentOutcome{sentiment: models.Sentiment(label)}
	if confidence, ok := parsed.Confidence.(float64); ok {
		outcome.score = &confidence
	}
	return subCall[sentimentOutcome]{value: outcome}
}

func (p *Pipeline) extractTopics(ctx context.Context, text string) subCall[[]string] {
	raw, err := p.completer.Complete(ctx, buildTopicsPrompt(text), topicsMaxTokens)
	if err != nil {
		return subCall[[]string]{value: []string{}, err: err}
	}

	type response struct {
		Topics []any `json:"topics"`
	}
	parsed := utils.ParseJSONWithFallback[*response](raw, nil)
	if parsed == nil {
		return subCall[[]string]{value: []string{}, err: errUnusableResponse}
	}

	topics := make([]string, 0, len(parsed.Topics))
	for _, t := range parsed.Topics {
		if topic, ok := t.(string); ok {
			topics = append(topics, topic)
		}
	}
	return subCall[[]string]{value: topics}
}

func (p *Pipeline) summarize(ctx context.Context, text string) subCall[summaryOutcome] {
	fallback := summaryOutcome{
		summary:        models.FallbackSummary,
		recommendation: models.FallbackRecommendation,
	}

	raw, err := p.completer.Complete(ctx, buildSummaryPrompt(text), summaryMaxTokens)
	if err != nil {
		return subCall[summaryOutcome]{value: fallback, err: err}
	}

	type response struct {
		Summary        any `json:"summary"`
		Recommendation any `json:"recommendation"`
	}
	parsed := utils.ParseJSONWithFallback[*response](raw, nil)
	if parsed == nil {
		return subCall[summaryOutcome]{value: fallback, err: errUnusableResponse}
	}

	outcome := fallback
	var missing error
	if summary, ok := nonEmptyString(parsed.Summary); ok {
		outcome.summary = summary
	} else {
		missing = errUnusableResponse
	}
	if recommendation, ok := nonEmptyString(parsed.Recommendation); ok {
		outcome.recommendation = recommendation
	} else {
		missing = errUnusableResponse
	}
	return subCall[summaryOutcome]{value: outcome, err: missing}
}

// nonEmptyString accepts a string with visible content and returns it as the
// model wrote it.
func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
