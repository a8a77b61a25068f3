package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	// Webhook pipeline.
	CodeInvalidSignature Code = "INVALID_SIGNATURE"
	CodeInvalidPayload   Code = "INVALID_PAYLOAD"
	CodeHandlerNotFound  Code = "HANDLER_NOT_FOUND"
	CodeHandlerError     Code = "HANDLER_ERROR"

	// Payments.
	CodePaymentNotFound         Code = "PAYMENT_NOT_FOUND"
	CodePaymentAlreadyProcessed Code = "PAYMENT_ALREADY_PROCESSED"
	CodeInvalidPaymentData      Code = "INVALID_PAYMENT_DATA"

	// Subscriptions and plans.
	CodeSubscriptionNotFound Code = "SUBSCRIPTION_NOT_FOUND"
	CodePlanNotFound         Code = "PLAN_NOT_FOUND"
	CodePlanInactive         Code = "PLAN_INACTIVE"

	// Notifications.
	CodeChannelNotConfigured Code = "CHANNEL_NOT_CONFIGURED"
	CodeChannelSendFailed    Code = "CHANNEL_SEND_FAILED"
	CodeRetryExhausted       Code = "RETRY_EXHAUSTED"

	CodeInternal Code = "INTERNAL"
)

// Error is a coded error. Handlers map codes to HTTP statuses; services
// return them instead of raising.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from err, or CodeInternal for plain errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
