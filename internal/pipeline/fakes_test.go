package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spacesedan/feedbackflow/internal/models"
)

type fakeStore struct {
	mu sync.Mutex

	insertFeedbackErr func(text string) error
	updateEmbedErr    func(feedbackID string) error
	insertAnalysisErr func(feedbackID string) error

	nextID     int
	feedback   map[string]string
	embeddings map[string][]float32
	analyses   map[string]models.AnalysisResult

	feedbackCalls atomic.Int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		feedback:   map[string]string{},
		embeddings: map[string][]float32{},
		analyses:   map[string]models.AnalysisResult{},
	}
}

func (s *fakeStore) InsertFeedback(ctx context.Context, userID, text string, metadata models.FeedbackMetadata) (models.FeedbackRecord, error) {
	s.feedbackCalls.Add(1)
	if s.insertFeedbackErr != nil {
		if err := s.insertFeedbackErr(text); err != nil {
			return models.FeedbackRecord{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("fb-%d", s.nextID)
	s.feedback[id] = text
	return models.FeedbackRecord{ID: id, UserID: userID, Text: text, Metadata: metadata, CreatedAt: time.Now()}, nil
}

func (s *fakeStore) UpdateEmbedding(ctx context.Context, feedbackID string, vector []float32) error {
	if s.updateEmbedErr != nil {
		if err := s.updateEmbedErr(feedbackID); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings[feedbackID] = vector
	return nil
}

func (s *fakeStore) InsertAnalysis(ctx context.Context, feedbackID string, analysis models.AnalysisResult) (models.AnalysisRecord, error) {
	if s.insertAnalysisErr != nil {
		if err := s.insertAnalysisErr(feedbackID); err != nil {
			return models.AnalysisRecord{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[feedbackID] = analysis
	return models.AnalysisRecord{ID: "an-" + feedbackID, FeedbackID: feedbackID, Analysis: analysis}, nil
}

func (s *fakeStore) textFor(feedbackID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback[feedbackID]
}

func (s *fakeStore) persisted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.feedback)
}

type concurrencyProbe struct {
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (c *concurrencyProbe) enter() {
	n := c.inFlight.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (c *concurrencyProbe) exit() {
	c.inFlight.Add(-1)
}

type fakeEmbedder struct {
	fail  func(text string) bool
	calls sync.Map
	probe concurrencyProbe
	delay time.Duration
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.probe.enter()
	defer e.probe.exit()
	e.calls.Store(text, true)
	time.Sleep(e.delay)
	if e.fail != nil && e.fail(text) {
		return nil, errors.New("embedding service unavailable")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type subCallKind string

const (
	kindSentiment subCallKind = "sentiment"
	kindTopics    subCallKind = "topics"
	kindSummary   subCallKind = "summary"
)

func kindOf(prompt string) subCallKind {
	switch {
	case strings.HasPrefix(prompt, "Analyze the sentiment"):
		return kindSentiment
	case strings.HasPrefix(prompt, "Extract the main topics"):
		return kindTopics
	default:
		return kindSummary
	}
}

// fakeCompleter answers each prompt through respond. Unset kinds get a
// well-formed default response.
type fakeCompleter struct {
	respond func(kind subCallKind, prompt string) (string, error)
	probe   concurrencyProbe
	delay   time.Duration
	calls   atomic.Int64
}

func (c *fakeCompleter) Complete(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	c.probe.enter()
	defer c.probe.exit()
	c.calls.Add(1)
	time.Sleep(c.delay)

	kind := kindOf(prompt)
	if c.respond != nil {
		return c.respond(kind, prompt)
	}
	return defaultResponse(kind), nil
}

func defaultResponse(kind subCallKind) string {
	switch kind {
	case kindSentiment:
		return `{"sentiment":"positive","confidence":0.8}`
	case kindTopics:
		return `{"topics":["quality"]}`
	default:
		return `{"summary":"Customer is happy.","recommendation":"Keep it up."}`
	}
}

func feedbackItems(texts ...string) []models.FeedbackItem {
	items := make([]models.FeedbackItem, len(texts))
	for i, t := range texts {
		items[i] = models.FeedbackItem{Text: t}
	}
	return items
}

func numberedItems(n int) []models.FeedbackItem {
	items := make([]models.FeedbackItem, n)
	for i := range items {
		items[i] = models.FeedbackItem{Text: fmt.Sprintf("feedback number %d", i)}
	}
	return items
}
