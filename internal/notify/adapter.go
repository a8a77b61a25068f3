package notify

import "context"

// Message is a channel-agnostic outbound notification.
type Message struct {
	Recipient string
	Subject   string
	Body      string
	Metadata  map[string]string
}

// Adapter delivers a message through one external medium. Adapters are
// stateless; an unconfigured adapter reports so instead of failing sends.
type Adapter interface {
	Name() string
	IsConfigured() bool
	Send(ctx context.Context, msg Message) error
}
