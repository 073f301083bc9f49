package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HealthcheckInterval = 15 * time.Second

// Check reports a dependency as healthy by returning nil.
type Check func(ctx context.Context) error

type probe struct {
	name    string
	check   Check
	healthy atomic.Bool
}

// Health polls dependency checks on a ticker and keeps the latest result for
// each one. Every dependency starts healthy until its first failed check.
type Health struct {
	probes   []*probe
	interval time.Duration
}

func NewHealth(interval time.Duration) *Health {
	if interval <= 0 {
		interval = HealthcheckInterval
	}
	return &Health{interval: interval}
}

func (h *Health) Register(name string, check Check) {
	p := &probe{name: name, check: check}
	p.healthy.Store(true)
	h.probes = append(h.probes, p)
}

// Run checks once immediately, then on every tick until ctx is done. Register
// every check before calling it.
func (h *Health) Run(ctx context.Context) {
	h.CheckNow(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.CheckNow(ctx)
		}
	}
}

func (h *Health) CheckNow(ctx context.Context) {
	for _, p := range h.probes {
		checkCtx, cancel := context.WithTimeout(ctx, h.interval/2)
		err := p.check(checkCtx)
		cancel()

		wasHealthy := p.healthy.Swap(err == nil)
		if err != nil {
			slog.Warn("[HealthCheck] Dependency is unhealthy",
				slog.String("dependency", p.name),
				slog.String("error", err.Error()))
		} else if !wasHealthy {
			slog.Info("[HealthCheck] Dependency recovered",
				slog.String("dependency", p.name))
		}
	}
}

func (h *Health) Status() map[string]bool {
	status := make(map[string]bool, len(h.probes))
	for _, p := range h.probes {
		status[p.name] = p.healthy.Load()
	}
	return status
}

func (h *Health) Healthy() bool {
	for _, p := range h.probes {
		if !p.healthy.Load() {
			return false
		}
	}
	return true
}
