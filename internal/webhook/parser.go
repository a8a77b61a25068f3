package webhook

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"subpay/internal/apperr"
)

// Event is the decoded envelope common to all gateway events. It is not
// persisted; the payment/subscription mutations it causes are the durable
// record of receipt.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Family returns the dot-prefixed grouping of the event type, e.g.
// "payment" for "payment.confirmed".
func (e *Event) Family() string {
	if i := strings.IndexByte(e.Type, '.'); i >= 0 {
		return e.Type[:i]
	}
	return e.Type
}

// PaymentEventData is the payload shape shared by all payment.* events.
type PaymentEventData struct {
	PaymentID       string     `json:"paymentId"`
	TenantID        string     `json:"tenantId"`
	UserID          string     `json:"userId"`
	Amount          int64      `json:"amount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	Method          string     `json:"method"`
	PlanID          string     `json:"planId,omitempty"`
	ConfirmedBy     string     `json:"confirmedBy,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// SubscriptionEventData is the payload shape shared by subscription.* events.
type SubscriptionEventData struct {
	SubscriptionID string `json:"subscriptionId"`
	TenantID       string `json:"tenantId"`
	PlanID         string `json:"planId,omitempty"`
	Status         string `json:"status,omitempty"`
}

// Parse decodes rawBody into an event envelope and validates its shape.
// The envelope is checked first, then the payload against the event
// family's validator; unrecognized families get envelope validation only.
// Every failure is INVALID_PAYLOAD with a human-readable detail.
func Parse(rawBody []byte) (*Event, error) {
	var env Event
	if err := json.Unmarshal(rawBody, &env); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidPayload, "body is not valid JSON", err)
	}
	if env.ID == "" {
		return nil, apperr.New(apperr.CodeInvalidPayload, "missing event id")
	}
	if env.Type == "" {
		return nil, apperr.New(apperr.CodeInvalidPayload, "missing event type")
	}
	if env.Timestamp.IsZero() {
		return nil, apperr.New(apperr.CodeInvalidPayload, "missing or invalid event timestamp")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, apperr.New(apperr.CodeInvalidPayload, "missing event data")
	}

	switch env.Family() {
	case "payment":
		if err := validatePaymentData(env.Data); err != nil {
			return nil, err
		}
	case "subscription":
		if err := validateSubscriptionData(env.Data); err != nil {
			return nil, err
		}
	}
	return &env, nil
}

// PaymentData decodes the payload of a payment.* event.
func (e *Event) PaymentData() (*PaymentEventData, error) {
	var d PaymentEventData
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidPayload, "payment data does not match expected shape", err)
	}
	return &d, nil
}

// SubscriptionData decodes the payload of a subscription.* event.
func (e *Event) SubscriptionData() (*SubscriptionEventData, error) {
	var d SubscriptionEventData
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidPayload, "subscription data does not match expected shape", err)
	}
	return &d, nil
}

func validatePaymentData(raw json.RawMessage) error {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return apperr.Wrap(apperr.CodeInvalidPayload, "payment data is not an object", err)
	}
	for _, key := range []string{"paymentId", "tenantId", "userId", "status", "method"} {
		if err := requireString(fields, key); err != nil {
			return err
		}
	}
	amount, ok := fields["amount"].(float64)
	if !ok || amount <= 0 || amount != math.Trunc(amount) {
		return apperr.New(apperr.CodeInvalidPayload, "amount must be a positive integer")
	}
	currency, ok := fields["currency"].(string)
	if !ok || len(currency) != 3 {
		return apperr.New(apperr.CodeInvalidPayload, "currency must be a 3-letter code")
	}
	return nil
}

func validateSubscriptionData(raw json.RawMessage) error {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return apperr.Wrap(apperr.CodeInvalidPayload, "subscription data is not an object", err)
	}
	for _, key := range []string{"subscriptionId", "tenantId"} {
		if err := requireString(fields, key); err != nil {
			return err
		}
	}
	return nil
}

func requireString(fields map[string]any, key string) error {
	v, present := fields[key]
	if !present {
		return apperr.Newf(apperr.CodeInvalidPayload, "missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return apperr.Newf(apperr.CodeInvalidPayload, "field %q must be a string", key)
	}
	if s == "" {
		return apperr.Newf(apperr.CodeInvalidPayload, "field %q must not be empty", key)
	}
	return nil
}
