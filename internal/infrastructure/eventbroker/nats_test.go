package eventbroker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"

	"github.com/quillpost/blog-api/internal/core/domain"
)

func TestSubject(t *testing.T) {
	cases := map[string]string{
		domain.PresenceOnline:  "presence.user.online",
		domain.PresenceOffline: "presence.user.offline",
		"custom":               "presence.custom",
	}
	for in, want := range cases {
		if got := Subject(in); got != want {
			t.Fatalf("Subject(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLogPublisher_NeverFails(t *testing.T) {
	p := NewLogPublisher(zerolog.Nop())
	if err := p.Publish(context.Background(), domain.PresenceEvent{Name: domain.PresenceOnline}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func runServer(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	if err != nil {
		t.Fatalf("nats server: %v", err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(ns.Shutdown)
	return ns
}

func TestNatsPublisher_PublishesOnEventSubject(t *testing.T) {
	ns := runServer(t)
	nc, err := Connect(ns.ClientURL())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer nc.Close()

	sub, err := nc.SubscribeSync("presence.>")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := nc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	p := NewNatsPublisher(nc)
	event := domain.PresenceEvent{ID: "evt-1", Name: domain.PresenceOffline, AccountID: "acc-1", At: time.Now().UTC()}
	if err := p.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatalf("next msg: %v", err)
	}
	if msg.Subject != "presence.user.offline" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	var got domain.PresenceEvent
	if err := json.Unmarshal(msg.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "evt-1" || got.AccountID != "acc-1" || got.Name != domain.PresenceOffline {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestNatsPublisher_ClosedConnection(t *testing.T) {
	ns := runServer(t)
	nc, err := Connect(ns.ClientURL())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	nc.Close()

	err = NewNatsPublisher(nc).Publish(context.Background(), domain.PresenceEvent{Name: domain.PresenceOnline})
	if err == nil {
		t.Fatal("expected error on closed connection")
	}
}
