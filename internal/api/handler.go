package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/pipeline"
)

const (
	UserIDHeader          = "X-User-ID"
	DefaultPublishTimeout = 10 * time.Second
)

type Analyzer interface {
	AnalyzeBatch(ctx context.Context, userID string, items []models.FeedbackItem) (models.BatchResult, error)
	MaxBatchSize() int
}

type QuotaService interface {
	CheckQuota(ctx context.Context, userID string) (models.QuotaStatus, error)
	IncrementUsage(ctx context.Context, userID string, n int) error
}

type EventPublisher interface {
	PublishBatchEvent(ctx context.Context, event models.BatchEvent) error
}

// Readiness reports the last known health of downstream dependencies.
type Readiness interface {
	Healthy() bool
	Status() map[string]bool
}

type Handler struct {
	analyzer  Analyzer
	quota     QuotaService
	publisher EventPublisher
	readiness Readiness
	now       func() time.Time

	publishTimeout time.Duration
	pending        sync.WaitGroup
}

func NewHandler(analyzer Analyzer, quota QuotaService, publisher EventPublisher) *Handler {
	return &Handler{
		analyzer:  analyzer,
		quota:     quota,
		publisher: publisher,
		now:       time.Now,

		publishTimeout: DefaultPublishTimeout,
	}
}

func (h *Handler) WithReadiness(readiness Readiness) *Handler {
	h.readiness = readiness
	return h
}

type analyzeRequest struct {
	UserID string            `json:"userId"`
	Items  []json.RawMessage `json:"items"`
}

func errorBody(message string) gin.H {
	return gin.H{"error": message}
}

// userID prefers the authenticated header over the body value.
func userID(c *gin.Context, fallback string) string {
	if id := strings.TrimSpace(c.GetHeader(UserIDHeader)); id != "" {
		return id
	}
	return strings.TrimSpace(fallback)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Ready(c *gin.Context) {
	if h.readiness == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	if !h.readiness.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependencies": h.readiness.Status()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": h.readiness.Status()})
}

func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	items, err := pipeline.DecodeItems(req.Items, h.analyzer.MaxBatchSize())
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	h.process(c, userID(c, req.UserID), items)
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("a csv file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("failed to open uploaded file"))
		return
	}
	defer file.Close()

	items, err := parseFeedbackCSV(file, h.analyzer.MaxBatchSize())
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	h.process(c, userID(c, c.PostForm("userId")), items)
}

func (h *Handler) Usage(c *gin.Context) {
	id := userID(c, c.Param("userId"))

	status, err := h.quota.CheckQuota(c.Request.Context(), id)
	if err != nil {
		slog.Error("[Handler] Failed to check quota",
			slog.String("user_id", id),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorBody("failed to check quota"))
		return
	}

	c.JSON(http.StatusOK, status)
}

// process runs the batch detached from the request context: a client that
// disconnects mid-batch must not cancel saves, model calls or usage counting.
func (h *Handler) process(c *gin.Context, userID string, items []models.FeedbackItem) {
	ctx := context.WithoutCancel(c.Request.Context())

	if err := pipeline.ValidateBatch(userID, items, h.analyzer.MaxBatchSize()); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	status, err := h.quota.CheckQuota(ctx, userID)
	if err != nil {
		slog.Error("[Handler] Failed to check quota",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorBody("failed to check quota"))
		return
	}
	if !status.Allowed || status.Remaining < int64(len(items)) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": fmt.Sprintf("monthly quota exceeded: %d items requested, %d remaining", len(items), status.Remaining),
			"quota": status,
		})
		return
	}

	result, err := h.analyzer.AnalyzeBatch(ctx, userID, items)
	var validationErr *pipeline.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, errorBody(validationErr.Message))
		return
	}

	defer h.publishAsync(ctx, userID, result)

	if err != nil {
		if !errors.Is(err, pipeline.ErrNoItemsIngested) {
			slog.Error("[Handler] Batch failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
		}
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	if err := h.quota.IncrementUsage(ctx, userID, result.Succeeded); err != nil {
		slog.Error("[Handler] Failed to record usage",
			slog.String("user_id", userID),
			slog.Int("succeeded", result.Succeeded),
			slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, result)
}

// publishAsync sends the batch event in the background, bounded by
// publishTimeout, so the response never waits on the broker.
func (h *Handler) publishAsync(ctx context.Context, userID string, result models.BatchResult) {
	event := models.NewBatchEvent(userID, result, h.now())

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()

		ctx, cancel := context.WithTimeout(ctx, h.publishTimeout)
		defer cancel()

		if err := h.publisher.PublishBatchEvent(ctx, event); err != nil {
			slog.Warn("[Handler] Failed to publish batch event",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
		}
	}()
}

// Wait blocks until every in-flight batch event publish has finished.
func (h *Handler) Wait() {
	h.pending.Wait()
}
