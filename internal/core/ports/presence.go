package ports

import (
	"context"

	"github.com/quillpost/blog-api/internal/core/domain"
)

// PresenceNotifier accepts presence events without blocking and without
// reporting failure to the caller.
type PresenceNotifier interface {
	Notify(ctx context.Context, event domain.PresenceEvent)
}

// PresencePublisher is the broadcast transport behind a PresenceNotifier.
type PresencePublisher interface {
	Publish(ctx context.Context, event domain.PresenceEvent) error
}

// PresenceTracker answers whether an account currently has a live session.
type PresenceTracker interface {
	IsOnline(ctx context.Context, accountID string) (bool, error)
}
