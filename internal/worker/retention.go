package worker

import (
	"context"
	"time"
)

type notificationPruner interface {
	Prune(ctx context.Context) (int64, error)
}

// RetentionWorker periodically prunes notifications beyond the per-recipient
// retention window, keeping the collection bounded.
type RetentionWorker struct {
	notifications notificationPruner
	interval      time.Duration
}

func NewRetentionWorker(notifications notificationPruner, interval time.Duration) *RetentionWorker {
	if interval <= 0 {
		interval = time.Hour
	}

	return &RetentionWorker{
		notifications: notifications,
		interval:      interval,
	}
}

func (w *RetentionWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger(ctx).Info("retention worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("retention worker stopped")
			return ctx.Err()
		case <-ticker.C:
			w.pruneOnce(ctx)
		}
	}
}

func (w *RetentionWorker) pruneOnce(ctx context.Context) {
	pruned, err := w.notifications.Prune(ctx)
	if err != nil {
		logger(ctx).Error("notification prune failed", "error", err)
		return
	}

	if pruned > 0 {
		notificationsPruned.Add(float64(pruned))
		logger(ctx).Info("notifications pruned", "count", pruned)
	}
}
