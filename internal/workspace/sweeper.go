package workspace

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically drops workspaces left idle for longer than a TTL.
type Sweeper struct {
	store    *Store
	interval time.Duration
	ttl      time.Duration
}

func NewSweeper(store *Store, interval, ttl time.Duration) *Sweeper {
	return &Sweeper{store: store, interval: interval, ttl: ttl}
}

// Start sweeps on every tick. Runs until context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Sweeper] Starting idle workspace sweeper", "interval", s.interval, "idle_ttl", s.ttl)

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-ctx.Done():
			slog.Info("[Sweeper] Stopping (context cancelled)")
			return nil
		}
	}
}

func (s *Sweeper) sweep() {
	if n := s.store.EvictIdle(s.ttl); n > 0 {
		slog.Info("[Sweeper] Evicted idle workspaces", "evicted", n, "remaining", s.store.Len())
	}
}
