package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	errorvalues "journal-dashboard/internal/error_values"
)

// Refresher reloads every view of a dashboard.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// StartAutoRefresh starts a background goroutine that periodically reloads
// the dashboard. The worker stops when ctx is done; interval <= 0 disables it.
func StartAutoRefresh(ctx context.Context, interval time.Duration, target func() Refresher) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("auto refresh: shutting down")
				return
			case <-ticker.C:
				r := target()
				if r == nil {
					// nobody is signed in
					continue
				}
				err := r.RefreshAll(ctx)
				if err != nil && !errors.Is(err, errorvalues.ErrSuperseded) {
					slog.Warn("auto refresh failed", slog.String("error", err.Error()))
				}
			}
		}
	}()
}
