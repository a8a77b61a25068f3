package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"subpay/config"
	"subpay/internal/domain"
	"subpay/internal/models"
	"subpay/internal/service"
	"subpay/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memPaymentRepo struct {
	rows map[string]models.Payment
}

func (r *memPaymentRepo) Create(p *models.Payment) error {
	r.rows[p.ID] = *p
	return nil
}

func (r *memPaymentRepo) GetByID(tenantID, id string) (*models.Payment, error) {
	p, ok := r.rows[id]
	if !ok || p.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memPaymentRepo) Update(p *models.Payment) error {
	r.rows[p.ID] = *p
	return nil
}

func (r *memPaymentRepo) ListByTenant(tenantID string, limit, offset int) ([]models.Payment, error) {
	return nil, nil
}

func (r *memPaymentRepo) ListPendingExpiredBefore(cutoff time.Time) ([]models.Payment, error) {
	return nil, nil
}

type memSubRepo struct {
	rows map[string]models.Subscription
}

func (r *memSubRepo) Create(s *models.Subscription) error {
	r.rows[s.ID] = *s
	return nil
}

func (r *memSubRepo) GetByID(tenantID, id string) (*models.Subscription, error) {
	s, ok := r.rows[id]
	if !ok || s.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := s
	return &cp, nil
}

func (r *memSubRepo) Update(s *models.Subscription) error {
	r.rows[s.ID] = *s
	return nil
}

func (r *memSubRepo) ListActiveByTenant(tenantID string) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range r.rows {
		if s.TenantID == tenantID && s.Status == domain.SubscriptionStatusActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSubRepo) ListActiveEndedBefore(tenantID string, cutoff time.Time) ([]models.Subscription, error) {
	return nil, nil
}

func (r *memSubRepo) ListByTenant(tenantID string) ([]models.Subscription, error) {
	return nil, nil
}

type memPlanRepo struct {
	rows map[string]models.SubscriptionPlan
}

func (r *memPlanRepo) Create(p *models.SubscriptionPlan) error {
	r.rows[p.ID] = *p
	return nil
}

func (r *memPlanRepo) GetByID(id string) (*models.SubscriptionPlan, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := p
	return &cp, nil
}

func (r *memPlanRepo) GetByName(name string) (*models.SubscriptionPlan, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *memPlanRepo) Update(p *models.SubscriptionPlan) error {
	r.rows[p.ID] = *p
	return nil
}

func (r *memPlanRepo) List(activeOnly bool) ([]models.SubscriptionPlan, error) {
	return nil, nil
}

const testSecret = "whsec_test"

type webhookFixture struct {
	engine   *gin.Engine
	payments *memPaymentRepo
	subs     *memSubRepo
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	payments := &memPaymentRepo{rows: map[string]models.Payment{}}
	subs := &memSubRepo{rows: map[string]models.Subscription{}}
	plans := &memPlanRepo{rows: map[string]models.SubscriptionPlan{
		"plan-1": {ID: "plan-1", Name: "Pro", PriceCents: 2900, Currency: "USD", Interval: domain.IntervalMonthly, Active: true},
	}}

	subSvc := service.NewSubscriptionService(subs, plans, logger)
	paymentSvc := service.NewPaymentService(payments, plans, nil, nil, subSvc, nil, 0, logger)

	router := webhook.NewRouter(logger)
	RegisterGatewayHandlers(router, paymentSvc, subSvc, config.WebhookConfig{
		PaymentSecret:      testSecret,
		SubscriptionSecret: testSecret,
	}, logger)

	engine := gin.New()
	engine.POST("/api/v1/webhooks", NewWebhookHandler(router).Receive)

	planID := "plan-1"
	payments.rows["pay-1"] = models.Payment{
		ID:          "pay-1",
		TenantID:    "t1",
		UserID:      "u1",
		PlanID:      &planID,
		AmountCents: 2900,
		Currency:    "USD",
		Status:      domain.PaymentStatusPending,
		Method:      "bank_transfer",
	}
	return &webhookFixture{engine: engine, payments: payments, subs: subs}
}

func paymentConfirmedBody(t *testing.T, eventID, paymentID string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":        eventID,
		"type":      domain.EventPaymentConfirmed,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"data": map[string]any{
			"paymentId":   paymentID,
			"tenantId":    "t1",
			"userId":      "u1",
			"amount":      2900,
			"currency":    "USD",
			"status":      "confirmed",
			"method":      "bank_transfer",
			"confirmedBy": "gateway",
		},
	})
	require.NoError(t, err)
	return body
}

func (f *webhookFixture) deliver(t *testing.T, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestWebhookConfirmFlow(t *testing.T) {
	f := newWebhookFixture(t)
	body := paymentConfirmedBody(t, "evt-1", "pay-1")
	sig := webhook.Sign(body, []byte(testSecret))

	rec := f.deliver(t, body, sig)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())

	p := f.payments.rows["pay-1"]
	assert.Equal(t, domain.PaymentStatusConfirmed, p.Status)

	actives, err := f.subs.ListActiveByTenant("t1")
	require.NoError(t, err)
	require.Len(t, actives, 1)
	assert.Equal(t, "plan-1", actives[0].PlanID)
}

func TestWebhookRedeliveryIsNoOp(t *testing.T) {
	f := newWebhookFixture(t)
	body := paymentConfirmedBody(t, "evt-1", "pay-1")
	sig := webhook.Sign(body, []byte(testSecret))

	require.Equal(t, http.StatusOK, f.deliver(t, body, sig).Code)
	// The gateway redelivers the same event; the handler acknowledges
	// without stacking a second subscription.
	require.Equal(t, http.StatusOK, f.deliver(t, body, sig).Code)

	actives, err := f.subs.ListActiveByTenant("t1")
	require.NoError(t, err)
	assert.Len(t, actives, 1)
}

func TestWebhookTamperedSignature(t *testing.T) {
	f := newWebhookFixture(t)
	body := paymentConfirmedBody(t, "evt-1", "pay-1")
	sig := webhook.Sign(body, []byte("wrong-secret"))

	rec := f.deliver(t, body, sig)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_SIGNATURE")

	// No state mutated.
	p := f.payments.rows["pay-1"]
	assert.Equal(t, domain.PaymentStatusPending, p.Status)
	assert.Empty(t, f.subs.rows)
}

func TestWebhookMissingSignature(t *testing.T) {
	f := newWebhookFixture(t)
	body := paymentConfirmedBody(t, "evt-1", "pay-1")
	rec := f.deliver(t, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookUnknownEventType(t *testing.T) {
	f := newWebhookFixture(t)
	body, err := json.Marshal(map[string]any{
		"id":        "evt-9",
		"type":      "invoice.created",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"data":      map[string]any{"anything": "goes"},
	})
	require.NoError(t, err)

	rec := f.deliver(t, body, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "HANDLER_NOT_FOUND")
}

func TestWebhookMalformedBody(t *testing.T) {
	f := newWebhookFixture(t)
	rec := f.deliver(t, []byte("{not json"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_PAYLOAD")
}

func TestWebhookUnknownPaymentFails(t *testing.T) {
	f := newWebhookFixture(t)
	body := paymentConfirmedBody(t, "evt-2", "pay-missing")
	sig := webhook.Sign(body, []byte(testSecret))

	rec := f.deliver(t, body, sig)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "HANDLER_ERROR")
}
