package handler

import (
	"context"

	"subpay/config"
	"subpay/internal/apperr"
	"subpay/internal/domain"
	"subpay/internal/service"
	"subpay/internal/webhook"

	"go.uber.org/zap"
)

// RegisterGatewayHandlers binds gateway event types to the payment and
// subscription state machines. Payment events carry the payment family
// secret, subscription events the subscription family secret; an empty
// secret leaves that family unsigned.
//
// Handlers here must stay idempotent: gateways redeliver, and the router
// does not deduplicate. A state transition that already happened is
// treated as success.
func RegisterGatewayHandlers(
	router *webhook.Router,
	payments *service.PaymentService,
	subs *service.SubscriptionService,
	cfg config.WebhookConfig,
	logger *zap.Logger,
) {
	paymentSecret := []byte(cfg.PaymentSecret)
	subscriptionSecret := []byte(cfg.SubscriptionSecret)
	if len(paymentSecret) == 0 {
		paymentSecret = nil
	}
	if len(subscriptionSecret) == 0 {
		subscriptionSecret = nil
	}

	ackOnly := func(ctx context.Context, event *webhook.Event) error {
		logger.Info("acknowledged gateway event",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type))
		return nil
	}

	router.Register(domain.EventPaymentCreated, ackOnly, paymentSecret)

	router.Register(domain.EventPaymentConfirmed, func(ctx context.Context, event *webhook.Event) error {
		data, err := event.PaymentData()
		if err != nil {
			return err
		}
		_, err = payments.Confirm(ctx, data.TenantID, data.PaymentID, data.ConfirmedBy)
		return swallowAlreadyProcessed(err)
	}, paymentSecret)

	router.Register(domain.EventPaymentRejected, func(ctx context.Context, event *webhook.Event) error {
		data, err := event.PaymentData()
		if err != nil {
			return err
		}
		_, err = payments.Reject(ctx, data.TenantID, data.PaymentID, data.ConfirmedBy, data.RejectionReason)
		return swallowAlreadyProcessed(err)
	}, paymentSecret)

	router.Register(domain.EventPaymentExpired, func(ctx context.Context, event *webhook.Event) error {
		data, err := event.PaymentData()
		if err != nil {
			return err
		}
		_, err = payments.Expire(ctx, data.TenantID, data.PaymentID)
		return swallowAlreadyProcessed(err)
	}, paymentSecret)

	router.Register(domain.EventSubscriptionCreated, ackOnly, subscriptionSecret)

	router.Register(domain.EventSubscriptionCanceled, func(ctx context.Context, event *webhook.Event) error {
		data, err := event.SubscriptionData()
		if err != nil {
			return err
		}
		_, err = subs.Cancel(data.TenantID, data.SubscriptionID)
		return err
	}, subscriptionSecret)

	router.Register(domain.EventSubscriptionExpired, ackOnly, subscriptionSecret)
}

// swallowAlreadyProcessed maps a redelivered transition onto success so
// the gateway stops retrying.
func swallowAlreadyProcessed(err error) error {
	if apperr.Is(err, apperr.CodePaymentAlreadyProcessed) {
		return nil
	}
	return err
}
