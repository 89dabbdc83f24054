package source

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// StartRefreshLoop pushes a fresh dataset into sink immediately and then on
// every interval until ctx is cancelled.
func StartRefreshLoop(ctx context.Context, wg *sync.WaitGroup, fetcher Fetcher, sink Sink, interval time.Duration) {
	defer wg.Done()
	slog.Info("Starting dataset refresh loop", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	refresh(ctx, fetcher, sink)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Dataset refresh loop stopping due to context cancellation")
			return
		case <-ticker.C:
			refresh(ctx, fetcher, sink)
		}
	}
}

func refresh(ctx context.Context, fetcher Fetcher, sink Sink) bool {
	ds, err := fetcher.Fetch(ctx)
	if err != nil {
		slog.Error("Failed to fetch dataset", "error", err)
		return false
	}

	outcome, err := sink.Update(ctx, ds)
	if err != nil {
		slog.Error("Failed to reconcile dataset", "error", err)
		return false
	}
	if outcome.Changed {
		slog.Info("Widget configuration updated from source",
			"origin", outcome.Origin,
			"rows", len(ds.Rows))
	}
	return true
}
