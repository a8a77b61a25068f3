package domain

// Payment lifecycle. Pending is the only non-terminal state.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusRejected  = "rejected"
	PaymentStatusExpired   = "expired"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
	SubscriptionStatusPastDue  = "past_due"
)

const (
	IntervalMonthly  = "monthly"
	IntervalYearly   = "yearly"
	IntervalLifetime = "lifetime"
)

const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

const (
	ChannelTelegram = "telegram"
	ChannelEmail    = "email"
	ChannelInApp    = "inapp"
)

// Notification types routed by the dispatcher.
const (
	NotifyPaymentConfirmed      = "payment_confirmed"
	NotifyPaymentRejected       = "payment_rejected"
	NotifyPaymentExpired        = "payment_expired"
	NotifySubscriptionActivated = "subscription_activated"
	NotifySubscriptionCanceled  = "subscription_canceled"
	NotifySubscriptionExpired   = "subscription_expired"
)

// Gateway webhook event types.
const (
	EventPaymentCreated       = "payment.created"
	EventPaymentConfirmed     = "payment.confirmed"
	EventPaymentRejected      = "payment.rejected"
	EventPaymentExpired       = "payment.expired"
	EventSubscriptionCreated  = "subscription.created"
	EventSubscriptionCanceled = "subscription.canceled"
	EventSubscriptionExpired  = "subscription.expired"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// IsTerminalPaymentStatus reports whether no further transition is legal.
func IsTerminalPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusConfirmed, PaymentStatusRejected, PaymentStatusExpired:
		return true
	}
	return false
}

func IsValidInterval(interval string) bool {
	switch interval {
	case IntervalMonthly, IntervalYearly, IntervalLifetime:
		return true
	}
	return false
}
