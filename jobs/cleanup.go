package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// KeyPurger is the slice of the idempotency store the cleanup task needs.
type KeyPurger interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// IdempotencyCleanup purges idempotency keys older than the retention window.
type IdempotencyCleanup struct {
	store     KeyPurger
	retention time.Duration
	logger    *slog.Logger
}

func NewIdempotencyCleanup(store KeyPurger, retention time.Duration, logger *slog.Logger) *IdempotencyCleanup {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &IdempotencyCleanup{store: store, retention: retention, logger: logger}
}

// Handle is the asynq handler for TaskTypeIdempotencyCleanup.
func (c *IdempotencyCleanup) Handle(ctx context.Context, _ *asynq.Task) error {
	if err := c.store.Cleanup(ctx, c.retention); err != nil {
		return err
	}
	if c.logger != nil {
		c.logger.InfoContext(ctx, "idempotency keys purged", "retention", c.retention.String())
	}
	return nil
}
