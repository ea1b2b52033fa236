package repositories

import (
	"context"

	"github.com/wicaksana/garda/domain/entities"
)

// PushSender delivers a notification to the push endpoint addressed by
// token. Implementations must honor ctx cancellation; delivery is
// best-effort and callers are expected to swallow failures.
type PushSender interface {
	Send(ctx context.Context, token string, notification entities.PushNotification) error
}
