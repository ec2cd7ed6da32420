package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// Notification kinds published on the event bus. The notification
// service downstream turns the e-mail kinds into actual mail.
const (
	KindVerificationEmail  = "verification-email"
	KindPasswordResetEmail = "password-reset-email"
	KindFriendRequest      = "friend-request"
	KindFriendAccepted     = "friend-accepted"
	KindPostLiked          = "post-liked"
	KindPostCommented      = "post-commented"
)

// Notifier dispatches notifications fire-and-forget: failures are
// logged, never surfaced to the mutating operation that triggered them.
type Notifier interface {
	Send(ctx context.Context, kind string, payload any)
}

// NATSNotifier publishes JSON payloads to notify.<kind>.
type NATSNotifier struct {
	nc *nats.Conn
}

func NewNATSNotifier(nc *nats.Conn) *NATSNotifier {
	return &NATSNotifier{nc: nc}
}

func (n *NATSNotifier) Send(_ context.Context, kind string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("notification payload marshal failed", "kind", kind, "error", err)
		return
	}
	if err := n.nc.Publish("notify."+kind, data); err != nil {
		slog.Error("notification publish failed", "kind", kind, "error", err)
		return
	}
	slog.Info("notification published", "kind", kind)
}

// Nop is used when no NATS URL is configured.
type Nop struct{}

func (Nop) Send(_ context.Context, kind string, _ any) {
	slog.Debug("notification dropped, no broker configured", "kind", kind)
}
