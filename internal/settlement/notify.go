package settlement

import (
	"context"
	"time"

	"gfuture/internal/logger"
)

const notifyTimeout = 3 * time.Second

// notify queues a mail to userID. Failures are logged and never reach the
// caller; the settlement has already committed.
func (o *Orchestrator) notify(ctx context.Context, userID string, send func(ctx context.Context, to, name string) error) {
	if o.mailer == nil || o.users == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	u, err := o.users.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("notification skipped", "user_id", userID, "error", err)
		return
	}
	if err := send(ctx, u.Email, u.Name); err != nil {
		logger.WithError(err).Warnw("notification not queued", "user_id", userID)
	}
}
