package webhook

import (
	"fmt"
	"testing"

	"subpay/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPaymentEvent = `{
	"id": "evt_1",
	"type": "payment.confirmed",
	"timestamp": "2026-01-15T10:30:00Z",
	"data": {
		"paymentId": "pay_1",
		"tenantId": "ten_1",
		"userId": "usr_1",
		"amount": 2900,
		"currency": "USD",
		"status": "confirmed",
		"method": "card"
	}
}`

func TestParseValidPaymentEvent(t *testing.T) {
	event, err := Parse([]byte(validPaymentEvent))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "payment.confirmed", event.Type)
	assert.Equal(t, "payment", event.Family())

	data, err := event.PaymentData()
	require.NoError(t, err)
	assert.Equal(t, "pay_1", data.PaymentID)
	assert.Equal(t, int64(2900), data.Amount)
	assert.Equal(t, "USD", data.Currency)
}

func TestParseRejectsNonJSON(t *testing.T) {
	_, err := Parse([]byte("definitely not json"))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidPayload, apperr.CodeOf(err))
}

func TestParseEnvelopeValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing id", `{"type":"payment.created","timestamp":"2026-01-15T10:30:00Z","data":{}}`},
		{"missing type", `{"id":"evt_1","timestamp":"2026-01-15T10:30:00Z","data":{}}`},
		{"missing timestamp", `{"id":"evt_1","type":"payment.created","data":{}}`},
		{"missing data", `{"id":"evt_1","type":"payment.created","timestamp":"2026-01-15T10:30:00Z"}`},
		{"null data", `{"id":"evt_1","type":"payment.created","timestamp":"2026-01-15T10:30:00Z","data":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, apperr.CodeInvalidPayload, apperr.CodeOf(err))
		})
	}
}

func TestParsePaymentFamilyValidation(t *testing.T) {
	base := func(data string) string {
		return fmt.Sprintf(`{"id":"evt_1","type":"payment.confirmed","timestamp":"2026-01-15T10:30:00Z","data":%s}`, data)
	}
	tests := []struct {
		name string
		data string
	}{
		{"missing paymentId", `{"tenantId":"t","userId":"u","amount":100,"currency":"USD","status":"confirmed","method":"card"}`},
		{"mistyped paymentId", `{"paymentId":12,"tenantId":"t","userId":"u","amount":100,"currency":"USD","status":"confirmed","method":"card"}`},
		{"zero amount", `{"paymentId":"p","tenantId":"t","userId":"u","amount":0,"currency":"USD","status":"confirmed","method":"card"}`},
		{"negative amount", `{"paymentId":"p","tenantId":"t","userId":"u","amount":-5,"currency":"USD","status":"confirmed","method":"card"}`},
		{"fractional amount", `{"paymentId":"p","tenantId":"t","userId":"u","amount":10.5,"currency":"USD","status":"confirmed","method":"card"}`},
		{"bad currency", `{"paymentId":"p","tenantId":"t","userId":"u","amount":100,"currency":"US","status":"confirmed","method":"card"}`},
		{"missing method", `{"paymentId":"p","tenantId":"t","userId":"u","amount":100,"currency":"USD","status":"confirmed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(base(tt.data)))
			require.Error(t, err)
			assert.Equal(t, apperr.CodeInvalidPayload, apperr.CodeOf(err))
		})
	}
}

func TestParseSubscriptionFamilyValidation(t *testing.T) {
	valid := `{"id":"evt_2","type":"subscription.canceled","timestamp":"2026-01-15T10:30:00Z","data":{"subscriptionId":"sub_1","tenantId":"ten_1"}}`
	event, err := Parse([]byte(valid))
	require.NoError(t, err)
	data, err := event.SubscriptionData()
	require.NoError(t, err)
	assert.Equal(t, "sub_1", data.SubscriptionID)

	invalid := `{"id":"evt_2","type":"subscription.canceled","timestamp":"2026-01-15T10:30:00Z","data":{"tenantId":"ten_1"}}`
	_, err = Parse([]byte(invalid))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidPayload, apperr.CodeOf(err))
}

func TestParseUnrecognizedFamilyGetsEnvelopeValidationOnly(t *testing.T) {
	body := `{"id":"evt_3","type":"invoice.settled","timestamp":"2026-01-15T10:30:00Z","data":{"anything":"goes"}}`
	event, err := Parse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "invoice", event.Family())
}
