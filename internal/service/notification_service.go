package service

import (
	"context"
	"fmt"
	"time"

	"subpay/config"
	"subpay/internal/apperr"
	"subpay/internal/domain"
	"subpay/internal/models"
	"subpay/internal/notify"
	"subpay/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// channelsByType is the static notification-type to channel mapping. The
// runtime channel switch and each adapter's IsConfigured are intersected
// with it when resolving enabled channels.
var channelsByType = map[string][]string{
	domain.NotifyPaymentConfirmed:      {domain.ChannelTelegram, domain.ChannelEmail, domain.ChannelInApp},
	domain.NotifyPaymentRejected:       {domain.ChannelTelegram, domain.ChannelEmail, domain.ChannelInApp},
	domain.NotifyPaymentExpired:        {domain.ChannelEmail, domain.ChannelInApp},
	domain.NotifySubscriptionActivated: {domain.ChannelTelegram, domain.ChannelEmail, domain.ChannelInApp},
	domain.NotifySubscriptionCanceled:  {domain.ChannelEmail, domain.ChannelInApp},
	domain.NotifySubscriptionExpired:   {domain.ChannelTelegram, domain.ChannelEmail, domain.ChannelInApp},
}

type SendNotificationInput struct {
	TenantID  string
	Type      string
	Channel   string
	Recipient string
	Subject   string
	Body      string
	Metadata  map[string]string
}

// BroadcastInput fans one message out to every enabled channel for its
// type. Recipients maps channel name to the channel-specific address
// (chat id, email address, user id).
type BroadcastInput struct {
	TenantID   string
	Type       string
	Subject    string
	Body       string
	Metadata   map[string]string
	Recipients map[string]string
}

// NotificationService dispatches outbound messages to channel adapters
// with bounded exponential-backoff retry. Delivery is at-most-best-effort:
// callers treat errors as advisory and never roll back business state.
type NotificationService struct {
	repo     repository.NotificationRepository
	adapters map[string]notify.Adapter
	enabled  map[string]bool
	cfg      config.NotifyConfig
	wait     func(time.Duration)
	logger   *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, adapters []notify.Adapter, cfg config.NotifyConfig, logger *zap.Logger) *NotificationService {
	byName := make(map[string]notify.Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	enabled := make(map[string]bool, len(cfg.EnabledChannels))
	for _, ch := range cfg.EnabledChannels {
		enabled[ch] = true
	}
	return &NotificationService{
		repo:     repo,
		adapters: byName,
		enabled:  enabled,
		cfg:      cfg,
		wait:     time.Sleep,
		logger:   logger,
	}
}

// GetEnabledChannels returns the channels a notification of this type
// would go out on: the static mapping intersected with the runtime
// channel switch and adapter configuration.
func (s *NotificationService) GetEnabledChannels(notificationType string) []string {
	var out []string
	for _, ch := range channelsByType[notificationType] {
		if !s.enabled[ch] {
			continue
		}
		a, ok := s.adapters[ch]
		if !ok || !a.IsConfigured() {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// Send delivers one message through one channel, retrying per the
// configured backoff policy. The returned Notification always carries a
// terminal status; pending is never visible to the caller.
func (s *NotificationService) Send(ctx context.Context, input SendNotificationInput) (*models.Notification, error) {
	n := &models.Notification{
		ID:        uuid.NewString(),
		TenantID:  input.TenantID,
		Type:      input.Type,
		Channel:   input.Channel,
		Recipient: input.Recipient,
		Subject:   input.Subject,
		Body:      input.Body,
		Status:    domain.NotificationStatusPending,
	}
	n.SetMetadataMap(input.Metadata)
	if err := s.repo.Create(n); err != nil {
		return nil, err
	}

	adapter, ok := s.adapters[input.Channel]
	if !ok || !adapter.IsConfigured() {
		n.Status = domain.NotificationStatusFailed
		if err := s.repo.Update(n); err != nil {
			s.logger.Error("failed to persist notification status", zap.String("notification_id", n.ID), zap.Error(err))
		}
		return n, apperr.Newf(apperr.CodeChannelNotConfigured, "channel %q is not configured", input.Channel)
	}

	msg := notify.Message{
		Recipient: input.Recipient,
		Subject:   input.Subject,
		Body:      input.Body,
		Metadata:  input.Metadata,
	}

	var lastErr error
	sched := newRetrySchedule(s.cfg)
	for {
		err := adapter.Send(ctx, msg)
		if err == nil {
			now := time.Now()
			n.Status = domain.NotificationStatusSent
			n.SentAt = &now
			if err := s.repo.Update(n); err != nil {
				s.logger.Error("failed to persist notification status", zap.String("notification_id", n.ID), zap.Error(err))
			}
			return n, nil
		}
		lastErr = err
		s.logger.Warn("notification send attempt failed",
			zap.String("notification_id", n.ID),
			zap.String("channel", input.Channel),
			zap.Error(err))
		delay, more := sched.Next()
		if !more {
			break
		}
		s.wait(delay)
	}

	n.Status = domain.NotificationStatusFailed
	if err := s.repo.Update(n); err != nil {
		s.logger.Error("failed to persist notification status", zap.String("notification_id", n.ID), zap.Error(err))
	}
	if lastErr == nil {
		lastErr = apperr.New(apperr.CodeRetryExhausted, "retry budget exhausted without a recorded error")
	}
	return n, apperr.Wrap(apperr.CodeChannelSendFailed, fmt.Sprintf("channel %q delivery failed", input.Channel), lastErr)
}

// SendToAllChannels fans out to every enabled channel for the
// notification's type. Overall success requires at least one channel to
// succeed; otherwise the first encountered error is surfaced.
func (s *NotificationService) SendToAllChannels(ctx context.Context, input BroadcastInput) ([]*models.Notification, error) {
	var (
		results  []*models.Notification
		firstErr error
		sentAny  bool
	)
	for _, ch := range s.GetEnabledChannels(input.Type) {
		recipient := input.Recipients[ch]
		if recipient == "" {
			continue
		}
		n, err := s.Send(ctx, SendNotificationInput{
			TenantID:  input.TenantID,
			Type:      input.Type,
			Channel:   ch,
			Recipient: recipient,
			Subject:   input.Subject,
			Body:      input.Body,
			Metadata:  input.Metadata,
		})
		if n != nil {
			results = append(results, n)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sentAny = true
	}
	if sentAny {
		return results, nil
	}
	if firstErr == nil {
		firstErr = apperr.Newf(apperr.CodeChannelNotConfigured, "no enabled channels for notification type %q", input.Type)
	}
	return results, firstErr
}

func recipientsFor(u *models.User) map[string]string {
	if u == nil {
		return nil
	}
	return map[string]string{
		domain.ChannelTelegram: u.TelegramChat,
		domain.ChannelEmail:    u.Email,
		domain.ChannelInApp:    u.ID,
	}
}

func formatAmount(amountCents int64, currency string) string {
	return fmt.Sprintf("%s %.2f", currency, float64(amountCents)/100)
}

// NotifyPaymentConfirmed announces a confirmed payment to the paying user
// on every enabled channel.
func (s *NotificationService) NotifyPaymentConfirmed(ctx context.Context, u *models.User, p *models.Payment) error {
	_, err := s.SendToAllChannels(ctx, BroadcastInput{
		TenantID:   p.TenantID,
		Type:       domain.NotifyPaymentConfirmed,
		Subject:    "Payment confirmed",
		Body:       fmt.Sprintf("Your payment of %s was confirmed.", formatAmount(p.AmountCents, p.Currency)),
		Metadata:   map[string]string{"payment_id": p.ID},
		Recipients: recipientsFor(u),
	})
	return err
}

func (s *NotificationService) NotifyPaymentRejected(ctx context.Context, u *models.User, p *models.Payment) error {
	body := fmt.Sprintf("Your payment of %s was rejected.", formatAmount(p.AmountCents, p.Currency))
	if p.RejectionReason != "" {
		body += " Reason: " + p.RejectionReason
	}
	_, err := s.SendToAllChannels(ctx, BroadcastInput{
		TenantID:   p.TenantID,
		Type:       domain.NotifyPaymentRejected,
		Subject:    "Payment rejected",
		Body:       body,
		Metadata:   map[string]string{"payment_id": p.ID},
		Recipients: recipientsFor(u),
	})
	return err
}

func (s *NotificationService) NotifyPaymentExpired(ctx context.Context, u *models.User, p *models.Payment) error {
	_, err := s.SendToAllChannels(ctx, BroadcastInput{
		TenantID:   p.TenantID,
		Type:       domain.NotifyPaymentExpired,
		Subject:    "Payment expired",
		Body:       fmt.Sprintf("Your pending payment of %s expired before it was completed.", formatAmount(p.AmountCents, p.Currency)),
		Metadata:   map[string]string{"payment_id": p.ID},
		Recipients: recipientsFor(u),
	})
	return err
}

func (s *NotificationService) NotifySubscriptionActivated(ctx context.Context, u *models.User, sub *models.Subscription, plan *models.SubscriptionPlan) error {
	_, err := s.SendToAllChannels(ctx, BroadcastInput{
		TenantID:   sub.TenantID,
		Type:       domain.NotifySubscriptionActivated,
		Subject:    "Subscription active",
		Body:       fmt.Sprintf("Your %s subscription is active until %s.", plan.Name, sub.CurrentPeriodEnd.Format("2006-01-02")),
		Metadata:   map[string]string{"subscription_id": sub.ID, "plan_id": plan.ID},
		Recipients: recipientsFor(u),
	})
	return err
}
