// Package eventbroker holds the presence publishers that do not need a
// database: NATS core subjects and a log-only fallback.
package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/quillpost/blog-api/internal/core/domain"
)

// SubjectPrefix namespaces every presence subject: presence.user.online, presence.user.offline.
const SubjectPrefix = "presence"

// Connect dials NATS with unlimited reconnects; presence is best-effort and
// a temporarily absent broker must not take the API down.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("blog-api"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return nc, nil
}

// NatsPublisher publishes presence events as JSON on core NATS subjects.
type NatsPublisher struct {
	nc *nats.Conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

func (p *NatsPublisher) Publish(_ context.Context, event domain.PresenceEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(Subject(event.Name), data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Subject maps an event name such as "user:online" to "presence.user.online".
func Subject(eventName string) string {
	return SubjectPrefix + "." + strings.ReplaceAll(eventName, ":", ".")
}

// LogPublisher only logs events. Used when PRESENCE_BACKEND=none.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.PresenceEvent) error {
	p.log.Debug().Str("event", event.Name).Str("account_id", event.AccountID).Msg("presence")
	return nil
}
