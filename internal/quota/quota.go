package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/feedbackflow/internal/models"
)

// usage keys outlive the month they count so late reads still work
const usageTTL = 35 * 24 * time.Hour

// Counter is the key/value surface the service needs. *clients.ValkeyClient
// satisfies it.
type Counter interface {
	GetInt(ctx context.Context, key string) (int64, bool, error)
	IncrByWithTTL(ctx context.Context, key string, n int64, ttl time.Duration) (int64, error)
}

// Service tracks analyzed-item usage per user per calendar month (UTC).
type Service struct {
	counter      Counter
	defaultLimit int64
	now          func() time.Time
}

func NewService(counter Counter, defaultLimit int64) *Service {
	return &Service{
		counter:      counter,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

func period(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func usageKey(userID, period string) string {
	return "usage:" + userID + ":" + period
}

func limitKey(userID string) string {
	return "quota:limit:" + userID
}

func (s *Service) CheckQuota(ctx context.Context, userID string) (models.QuotaStatus, error) {
	p := period(s.now())

	used, _, err := s.counter.GetInt(ctx, usageKey(userID, p))
	if err != nil {
		return models.QuotaStatus{}, fmt.Errorf("[QuotaService] failed to read usage: %w", err)
	}

	limit := s.defaultLimit
	override, found, err := s.counter.GetInt(ctx, limitKey(userID))
	if err != nil {
		return models.QuotaStatus{}, fmt.Errorf("[QuotaService] failed to read limit: %w", err)
	}
	if found {
		limit = override
	}

	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}

	return models.QuotaStatus{
		Allowed:   remaining > 0,
		Used:      used,
		Limit:     limit,
		Remaining: remaining,
		Period:    p,
	}, nil
}

// IncrementUsage adds n analyzed items to the user's usage with a single
// atomic increment.
func (s *Service) IncrementUsage(ctx context.Context, userID string, n int) error {
	if n <= 0 {
		return nil
	}

	total, err := s.counter.IncrByWithTTL(ctx, usageKey(userID, period(s.now())), int64(n), usageTTL)
	if err != nil {
		return fmt.Errorf("[QuotaService] failed to increment usage: %w", err)
	}

	slog.Info("[QuotaService] Usage incremented",
		slog.String("user_id", userID),
		slog.Int("added", n),
		slog.Int64("total", total))
	return nil
}
