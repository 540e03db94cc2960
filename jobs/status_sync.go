// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package jobs runs background maintenance tasks.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/ballotbox/metrics"
)

// StatusSyncer rewrites stored election status snapshots, returning how
// many changed
type StatusSyncer interface {
	SyncStatuses(ctx context.Context) (int, error)
}

const syncTimeout = 10 * time.Second

// StartStatusSyncJob runs syncer every interval until ctx is cancelled.
// A non-positive interval disables the job.
func StartStatusSyncJob(ctx context.Context, interval time.Duration, syncer StatusSyncer) {
	if interval <= 0 {
		slog.Info("status sync job disabled")
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce(ctx, syncer)
			}
		}
	}()
}

func runOnce(ctx context.Context, syncer StatusSyncer) {
	tickCtx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	n, err := syncer.SyncStatuses(tickCtx)
	if err != nil {
		slog.Error("status sync failed", "error", err)
		return
	}
	if n > 0 {
		metrics.StatusTransitions.Add(float64(n))
		slog.Info("election statuses synced", "changed", n)
	}
}
