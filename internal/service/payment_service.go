package service

import (
	"context"
	"errors"
	"time"

	"subpay/internal/apperr"
	"subpay/internal/domain"
	"subpay/internal/models"
	"subpay/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService owns the payment state machine. Status only moves
// forward from pending to one of the terminal states; every entry point
// (admin action or webhook) converges on the same transition logic here.
type PaymentService struct {
	payments repository.PaymentRepository
	plans    repository.PlanRepository
	users    repository.UserRepository
	audits   repository.AuditLogRepository
	subs     *SubscriptionService
	notifier *NotificationService
	expiry   time.Duration
	logger   *zap.Logger
}

func NewPaymentService(
	payments repository.PaymentRepository,
	plans repository.PlanRepository,
	users repository.UserRepository,
	audits repository.AuditLogRepository,
	subs *SubscriptionService,
	notifier *NotificationService,
	expiry time.Duration,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		plans:    plans,
		users:    users,
		audits:   audits,
		subs:     subs,
		notifier: notifier,
		expiry:   expiry,
		logger:   logger,
	}
}

type CreatePaymentInput struct {
	TenantID    string
	UserID      string
	PlanID      *string
	AmountCents int64
	Currency    string
	Method      string
	Metadata    map[string]string
}

// Create records a new pending payment. When the payment references a
// plan, the client-supplied amount must equal the plan's current price;
// anything else is rejected so a tampered client cannot buy a plan for
// less.
func (s *PaymentService) Create(input CreatePaymentInput) (*models.Payment, error) {
	if input.AmountCents <= 0 {
		return nil, apperr.New(apperr.CodeInvalidPaymentData, "amount must be positive")
	}
	if len(input.Currency) != 3 {
		return nil, apperr.New(apperr.CodeInvalidPaymentData, "currency must be a 3-letter code")
	}
	if input.Method == "" {
		return nil, apperr.New(apperr.CodeInvalidPaymentData, "method is required")
	}
	if input.PlanID != nil {
		plan, err := s.plans.GetByID(*input.PlanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.Newf(apperr.CodePlanNotFound, "plan %s not found", *input.PlanID)
			}
			return nil, err
		}
		if !plan.Active {
			return nil, apperr.Newf(apperr.CodePlanInactive, "plan %s is inactive", *input.PlanID)
		}
		if input.AmountCents != plan.PriceCents {
			return nil, apperr.Newf(apperr.CodeInvalidPaymentData,
				"amount %d does not match plan price %d", input.AmountCents, plan.PriceCents)
		}
	}

	p := &models.Payment{
		ID:          uuid.NewString(),
		TenantID:    input.TenantID,
		UserID:      input.UserID,
		PlanID:      input.PlanID,
		AmountCents: input.AmountCents,
		Currency:    input.Currency,
		Status:      domain.PaymentStatusPending,
		Method:      input.Method,
	}
	p.SetMetadataMap(input.Metadata)
	if s.expiry > 0 {
		expiresAt := time.Now().Add(s.expiry)
		p.ExpiresAt = &expiresAt
	}
	if err := s.payments.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) Get(tenantID, paymentID string) (*models.Payment, error) {
	return s.load(tenantID, paymentID)
}

func (s *PaymentService) List(tenantID string, limit, offset int) ([]models.Payment, error) {
	return s.payments.ListByTenant(tenantID, limit, offset)
}

func (s *PaymentService) load(tenantID, paymentID string) (*models.Payment, error) {
	p, err := s.payments.GetByID(tenantID, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.CodePaymentNotFound, "payment %s not found", paymentID)
		}
		return nil, err
	}
	return p, nil
}

// Confirm moves a pending payment to confirmed and, when the payment
// references a plan, activates the subscription. The payment transition
// is the source of truth: a failed activation is logged and the request
// still succeeds, rather than leaving the payment state ambiguous.
func (s *PaymentService) Confirm(ctx context.Context, tenantID, paymentID, actorID string) (*models.Payment, error) {
	p, err := s.load(tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentStatusPending {
		return nil, apperr.Newf(apperr.CodePaymentAlreadyProcessed, "payment %s is already %s", paymentID, p.Status)
	}
	now := time.Now()
	p.Status = domain.PaymentStatusConfirmed
	p.ConfirmedBy = &actorID
	p.ConfirmedAt = &now
	if err := s.payments.Update(p); err != nil {
		return nil, err
	}
	s.audit(tenantID, actorID, "payment_confirmed", p.ID, "")

	var sub *models.Subscription
	if p.PlanID != nil {
		sub, err = s.subs.Activate(p.TenantID, *p.PlanID)
		if err != nil {
			s.logger.Error("subscription activation failed after payment confirmation",
				zap.String("payment_id", p.ID),
				zap.String("tenant_id", p.TenantID),
				zap.String("plan_id", *p.PlanID),
				zap.Error(err))
			sub = nil
		}
	}

	s.notifyConfirmed(ctx, p, sub)
	return p, nil
}

// Reject moves a pending payment to rejected with a reason.
func (s *PaymentService) Reject(ctx context.Context, tenantID, paymentID, actorID, reason string) (*models.Payment, error) {
	p, err := s.load(tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentStatusPending {
		return nil, apperr.Newf(apperr.CodePaymentAlreadyProcessed, "payment %s is already %s", paymentID, p.Status)
	}
	now := time.Now()
	p.Status = domain.PaymentStatusRejected
	p.ConfirmedBy = &actorID
	p.ConfirmedAt = &now
	p.RejectionReason = reason
	if err := s.payments.Update(p); err != nil {
		return nil, err
	}
	s.audit(tenantID, actorID, "payment_rejected", p.ID, reason)

	if s.notifier != nil {
		if u := s.userOf(p); u != nil {
			if err := s.notifier.NotifyPaymentRejected(ctx, u, p); err != nil {
				s.logger.Warn("payment rejection notification failed", zap.String("payment_id", p.ID), zap.Error(err))
			}
		}
	}
	return p, nil
}

// Expire moves a pending payment to expired. Only legal from pending.
func (s *PaymentService) Expire(ctx context.Context, tenantID, paymentID string) (*models.Payment, error) {
	p, err := s.load(tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentStatusPending {
		return nil, apperr.Newf(apperr.CodePaymentAlreadyProcessed, "payment %s is already %s", paymentID, p.Status)
	}
	p.Status = domain.PaymentStatusExpired
	if err := s.payments.Update(p); err != nil {
		return nil, err
	}
	s.audit(tenantID, "", "payment_expired", p.ID, "")

	if s.notifier != nil {
		if u := s.userOf(p); u != nil {
			if err := s.notifier.NotifyPaymentExpired(ctx, u, p); err != nil {
				s.logger.Warn("payment expiry notification failed", zap.String("payment_id", p.ID), zap.Error(err))
			}
		}
	}
	return p, nil
}

// UploadProof links a proof-of-payment file to a pending payment without
// changing its status.
func (s *PaymentService) UploadProof(tenantID, paymentID, fileID string) (*models.Payment, error) {
	p, err := s.load(tenantID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentStatusPending {
		return nil, apperr.Newf(apperr.CodePaymentAlreadyProcessed, "payment %s is already %s", paymentID, p.Status)
	}
	p.ProofFileID = &fileID
	if err := s.payments.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// SweepExpired expires pending payments whose claim window has lapsed.
func (s *PaymentService) SweepExpired(ctx context.Context) (int, error) {
	overdue, err := s.payments.ListPendingExpiredBefore(time.Now())
	if err != nil {
		return 0, err
	}
	swept := 0
	for i := range overdue {
		if _, err := s.Expire(ctx, overdue[i].TenantID, overdue[i].ID); err != nil {
			// Already-processed races with a concurrent confirm are fine.
			if !apperr.Is(err, apperr.CodePaymentAlreadyProcessed) {
				s.logger.Error("failed to expire payment", zap.String("payment_id", overdue[i].ID), zap.Error(err))
			}
			continue
		}
		swept++
	}
	return swept, nil
}

func (s *PaymentService) notifyConfirmed(ctx context.Context, p *models.Payment, sub *models.Subscription) {
	if s.notifier == nil {
		return
	}
	u := s.userOf(p)
	if u == nil {
		return
	}
	if err := s.notifier.NotifyPaymentConfirmed(ctx, u, p); err != nil {
		s.logger.Warn("payment confirmation notification failed", zap.String("payment_id", p.ID), zap.Error(err))
	}
	if sub != nil {
		plan, err := s.plans.GetByID(sub.PlanID)
		if err != nil {
			return
		}
		if err := s.notifier.NotifySubscriptionActivated(ctx, u, sub, plan); err != nil {
			s.logger.Warn("subscription activation notification failed", zap.String("subscription_id", sub.ID), zap.Error(err))
		}
	}
}

func (s *PaymentService) userOf(p *models.Payment) *models.User {
	if s.users == nil {
		return nil
	}
	u, err := s.users.GetByID(p.UserID)
	if err != nil {
		return nil
	}
	return u
}

func (s *PaymentService) audit(tenantID, actorID, action, resourceID, detail string) {
	if s.audits == nil {
		return
	}
	entry := &models.AuditLog{
		TenantID:   tenantID,
		Action:     action,
		Resource:   "payment",
		ResourceID: resourceID,
		Detail:     detail,
	}
	if actorID != "" {
		entry.ActorID = &actorID
	}
	if err := s.audits.Create(entry); err != nil {
		s.logger.Warn("audit log write failed", zap.String("action", action), zap.Error(err))
	}
}
