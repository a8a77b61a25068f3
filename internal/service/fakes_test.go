package service

import (
	"context"
	"sort"
	"time"

	"subpay/internal/domain"
	"subpay/internal/models"
	"subpay/internal/notify"

	"gorm.io/gorm"
)

// In-memory repository fakes. They copy on read and write so tests never
// share struct pointers with the service under test.

type fakePaymentRepo struct {
	rows map[string]models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{rows: map[string]models.Payment{}}
}

func (r *fakePaymentRepo) Create(p *models.Payment) error {
	p.CreatedAt = time.Now()
	r.rows[p.ID] = *p
	return nil
}

func (r *fakePaymentRepo) GetByID(tenantID, id string) (*models.Payment, error) {
	p, ok := r.rows[id]
	if !ok || p.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := p
	return &cp, nil
}

func (r *fakePaymentRepo) Update(p *models.Payment) error {
	if _, ok := r.rows[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rows[p.ID] = *p
	return nil
}

func (r *fakePaymentRepo) ListByTenant(tenantID string, limit, offset int) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.rows {
		if p.TenantID == tenantID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePaymentRepo) ListPendingExpiredBefore(cutoff time.Time) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range r.rows {
		if p.Status == domain.PaymentStatusPending && p.ExpiresAt != nil && p.ExpiresAt.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	rows map[string]models.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{rows: map[string]models.Subscription{}}
}

func (r *fakeSubscriptionRepo) Create(s *models.Subscription) error {
	s.CreatedAt = time.Now()
	r.rows[s.ID] = *s
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(tenantID, id string) (*models.Subscription, error) {
	s, ok := r.rows[id]
	if !ok || s.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := s
	return &cp, nil
}

func (r *fakeSubscriptionRepo) Update(s *models.Subscription) error {
	if _, ok := r.rows[s.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rows[s.ID] = *s
	return nil
}

func (r *fakeSubscriptionRepo) ListActiveByTenant(tenantID string) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range r.rows {
		if s.TenantID == tenantID && s.Status == domain.SubscriptionStatusActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) ListActiveEndedBefore(tenantID string, cutoff time.Time) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range r.rows {
		if s.Status != domain.SubscriptionStatusActive || !s.CurrentPeriodEnd.Before(cutoff) {
			continue
		}
		if tenantID != "" && s.TenantID != tenantID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) ListByTenant(tenantID string) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range r.rows {
		if s.TenantID == tenantID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakePlanRepo struct {
	rows map[string]models.SubscriptionPlan
}

func newFakePlanRepo(plans ...models.SubscriptionPlan) *fakePlanRepo {
	r := &fakePlanRepo{rows: map[string]models.SubscriptionPlan{}}
	for _, p := range plans {
		r.rows[p.ID] = p
	}
	return r
}

func (r *fakePlanRepo) Create(p *models.SubscriptionPlan) error {
	r.rows[p.ID] = *p
	return nil
}

func (r *fakePlanRepo) GetByID(id string) (*models.SubscriptionPlan, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := p
	return &cp, nil
}

func (r *fakePlanRepo) GetByName(name string) (*models.SubscriptionPlan, error) {
	for _, p := range r.rows {
		if p.Name == name {
			cp := p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePlanRepo) Update(p *models.SubscriptionPlan) error {
	if _, ok := r.rows[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rows[p.ID] = *p
	return nil
}

func (r *fakePlanRepo) List(activeOnly bool) ([]models.SubscriptionPlan, error) {
	var out []models.SubscriptionPlan
	for _, p := range r.rows {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeNotificationRepo struct {
	rows map[string]models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: map[string]models.Notification{}}
}

func (r *fakeNotificationRepo) Create(n *models.Notification) error {
	n.CreatedAt = time.Now()
	r.rows[n.ID] = *n
	return nil
}

func (r *fakeNotificationRepo) Update(n *models.Notification) error {
	if _, ok := r.rows[n.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rows[n.ID] = *n
	return nil
}

func (r *fakeNotificationRepo) ListByTenant(tenantID string, limit, offset int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.rows {
		if n.TenantID == tenantID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(tenantID, id string) error {
	n, ok := r.rows[id]
	if !ok || n.TenantID != tenantID {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	n.ReadAt = &now
	r.rows[id] = n
	return nil
}

type fakeUserRepo struct {
	rows map[string]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{rows: map[string]models.User{}}
	for _, u := range users {
		r.rows[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(u *models.User) error {
	r.rows[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.rows {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(u *models.User) error {
	if _, ok := r.rows[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.rows[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) ListByTenant(tenantID string) ([]models.User, error) {
	var out []models.User
	for _, u := range r.rows {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeTenantRepo struct {
	rows map[string]models.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{rows: map[string]models.Tenant{}}
}

func (r *fakeTenantRepo) Create(t *models.Tenant) error {
	r.rows[t.ID] = *t
	return nil
}

func (r *fakeTenantRepo) GetByID(id string) (*models.Tenant, error) {
	t, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := t
	return &cp, nil
}

type fakeAuditRepo struct {
	rows []models.AuditLog
}

func (r *fakeAuditRepo) Create(entry *models.AuditLog) error {
	r.rows = append(r.rows, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByTenant(tenantID string, limit, offset int) ([]models.AuditLog, error) {
	var out []models.AuditLog
	for _, e := range r.rows {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeAdapter is a channel adapter that fails the first failures calls to
// Send and succeeds afterwards.
type fakeAdapter struct {
	name       string
	configured bool
	failures   int
	failWith   error
	calls      int
	sent       []notify.Message
}

func (a *fakeAdapter) Name() string       { return a.name }
func (a *fakeAdapter) IsConfigured() bool { return a.configured }

func (a *fakeAdapter) Send(ctx context.Context, msg notify.Message) error {
	a.calls++
	if a.calls <= a.failures {
		return a.failWith
	}
	a.sent = append(a.sent, msg)
	return nil
}
