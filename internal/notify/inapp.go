package notify

import (
	"context"

	"subpay/internal/domain"
	"subpay/internal/ws"
)

// InAppAdapter pushes notifications to a user's open WebSocket
// connections. Recipient is the user id. Delivery is broadcast-style: a
// user with no open connection is not an error.
type InAppAdapter struct {
	hub *ws.Hub
}

func NewInAppAdapter(hub *ws.Hub) *InAppAdapter {
	return &InAppAdapter{hub: hub}
}

func (a *InAppAdapter) Name() string { return domain.ChannelInApp }

func (a *InAppAdapter) IsConfigured() bool { return a.hub != nil }

func (a *InAppAdapter) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.hub.SendToUser(msg.Recipient, map[string]any{
		"type":     "notification",
		"subject":  msg.Subject,
		"body":     msg.Body,
		"metadata": msg.Metadata,
	})
	return nil
}
