// Package sessioncleanup evicts idle chat sessions on a fixed interval.
package sessioncleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/xcorat/araliya-bot/store"
)

// Runner periodically sweeps the session store for sessions idle longer
// than the configured timeout. It is an optional component: when the
// process does not start it, stale sessions linger until an explicit
// RunOnce call or a restart.
type Runner struct {
	store    *store.SessionStore
	interval time.Duration
	timeout  time.Duration
}

func NewRunner(s *store.SessionStore, interval, timeout time.Duration) *Runner {
	return &Runner{store: s, interval: interval, timeout: timeout}
}

// Run sweeps every interval until ctx is canceled. A failed sweep is
// logged and never terminates the loop.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single sweep. Safe to call from maintenance paths
// while the periodic loop is running; the store serializes them.
func (r *Runner) RunOnce(_ context.Context) {
	defer func() {
		if v := recover(); v != nil {
			slog.Error("session cleanup sweep failed", "panic", v)
		}
	}()
	r.store.CleanupExpiredSessions(r.timeout)
}
