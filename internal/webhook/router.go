package webhook

import (
	"context"
	"fmt"
	"sync"

	"subpay/internal/apperr"

	"go.uber.org/zap"
)

// HandlerFunc processes a verified, parsed event. Handlers must be
// idempotent: the router does not deduplicate by event id, and gateways
// deliver at least once.
type HandlerFunc func(ctx context.Context, event *Event) error

type registration struct {
	handler HandlerFunc
	secret  []byte
}

// Router maps event types to handlers and enforces per-type signature
// requirements. It is constructed once at startup and passed to the
// ingress handler; registrations after that point are legal but the
// registry is expected to be read-mostly.
type Router struct {
	mu     sync.RWMutex
	routes map[string]registration
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		routes: make(map[string]registration),
		logger: logger,
	}
}

// Register associates a handler and an optional shared secret with an
// event type. Registering the same type again replaces the previous
// handler. A nil or empty secret means events of this type are accepted
// unsigned and the verifier is bypassed entirely.
func (r *Router) Register(eventType string, handler HandlerFunc, secret []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[eventType] = registration{handler: handler, secret: secret}
}

// Process runs the ingestion pipeline: parse, verify when the event type
// requires it, dispatch. Handler faults (returned errors and panics) are
// wrapped as HANDLER_ERROR and never propagate raw.
func (r *Router) Process(ctx context.Context, rawBody []byte, signatureHeader string) error {
	event, err := Parse(rawBody)
	if err != nil {
		return err
	}

	r.mu.RLock()
	reg, registered := r.routes[event.Type]
	r.mu.RUnlock()

	if registered && len(reg.secret) > 0 {
		if signatureHeader == "" {
			return apperr.New(apperr.CodeInvalidSignature, "signature header required")
		}
		if result := Verify(rawBody, signatureHeader, reg.secret); !result.Valid {
			r.logger.Warn("webhook signature rejected",
				zap.String("event_id", event.ID),
				zap.String("event_type", event.Type),
				zap.String("reason", result.Reason))
			return apperr.New(apperr.CodeInvalidSignature, result.Reason)
		}
	}

	if !registered {
		return apperr.Newf(apperr.CodeHandlerNotFound, "no handler registered for %q", event.Type)
	}

	if err := r.dispatch(ctx, reg.handler, event); err != nil {
		r.logger.Error("webhook handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type),
			zap.Error(err))
		return apperr.Wrap(apperr.CodeHandlerError, "handler failed", err)
	}
	return nil
}

func (r *Router) dispatch(ctx context.Context, handler HandlerFunc, event *Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return handler(ctx, event)
}
