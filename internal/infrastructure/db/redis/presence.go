package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quillpost/blog-api/internal/core/domain"
)

const (
	// PresenceChannel is the Pub/Sub channel connected sessions subscribe to.
	PresenceChannel = "presence"

	defaultOnlineTTL = 12 * time.Hour
)

// Presence broadcasts presence events over Redis Pub/Sub and keeps an
// online marker per account.
// Key format: presence:online:<account_id>
type Presence struct {
	client    *redis.Client
	onlineTTL time.Duration
}

// NewPresence wraps client. onlineTTL bounds how long an account stays
// online without logging out; <= 0 selects defaultOnlineTTL.
func NewPresence(client *redis.Client, onlineTTL time.Duration) *Presence {
	if onlineTTL <= 0 {
		onlineTTL = defaultOnlineTTL
	}
	return &Presence{client: client, onlineTTL: onlineTTL}
}

// Publish updates the online marker and publishes the event in one MULTI block.
func (p *Presence) Publish(ctx context.Context, event domain.PresenceEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("presence marshal: %w", err)
	}

	pipe := p.client.TxPipeline()
	switch event.Name {
	case domain.PresenceOnline:
		pipe.Set(ctx, onlineKey(event.AccountID), event.At.Unix(), p.onlineTTL)
	case domain.PresenceOffline:
		pipe.Del(ctx, onlineKey(event.AccountID))
	}
	pipe.Publish(ctx, PresenceChannel, payload)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("presence publish: %w", err)
	}
	return nil
}

// IsOnline reports whether the account has an unexpired online marker.
func (p *Presence) IsOnline(ctx context.Context, accountID string) (bool, error) {
	n, err := p.client.Exists(ctx, onlineKey(accountID)).Result()
	if err != nil {
		return false, fmt.Errorf("presence check: %w", err)
	}
	return n > 0, nil
}

func onlineKey(accountID string) string {
	return "presence:online:" + accountID
}
