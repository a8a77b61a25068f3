package service

import (
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

// SubscriptionService owns subscription lifecycle: activation, renewal,
// cancellation and the periodic expiry sweep.
type SubscriptionService struct {
	subs   repository.SubscriptionRepository
	plans  repository.PlanRepository
	logger *zap.Logger
}

func NewSubscriptionService(subs repository.SubscriptionRepository, plans repository.PlanRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{subs: subs, plans: plans, logger: logger}
}

func (s *SubscriptionService) activePlan(planID string) (*models.SubscriptionPlan, error) {
	plan, err := s.plans.GetByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.CodePlanNotFound, "plan %s not found", planID)
		}
		return nil, err
	}
	if !plan.Active {
		return nil, apperr.Newf(apperr.CodePlanInactive, "plan %s is inactive", planID)
	}
	return plan, nil
}

// Activate gives the tenant a new active subscription on the plan. Any
// currently active subscription is canceled first, before the new row is
// created: if activation dies between the two steps the tenant has zero
// active subscriptions rather than two.
func (s *SubscriptionService) Activate(tenantID, planID string) (*models.Subscription, error) {
	plan, err := s.activePlan(planID)
	if err != nil {
		return nil, err
	}

	// Resolve the new period up front so a corrupt plan row fails the
	// whole activation without canceling the current subscription.
	now := time.Now()
	end, err := domain.PeriodEnd(now, plan.Interval)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodePlanInactive, "plan has an unusable billing interval", err)
	}

	actives, err := s.subs.ListActiveByTenant(tenantID)
	if err != nil {
		return nil, err
	}
	for i := range actives {
		prev := &actives[i]
		prev.Status = domain.SubscriptionStatusCanceled
		prev.CanceledAt = &now
		if err := s.subs.Update(prev); err != nil {
			return nil, err
		}
		s.logger.Info("superseded active subscription",
			zap.String("tenant_id", tenantID),
			zap.String("subscription_id", prev.ID))
	}

	sub := &models.Subscription{
		ID:                 uuid.NewString(),
		TenantID:           tenantID,
		PlanID:             plan.ID,
		Status:             domain.SubscriptionStatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   end,
	}
	if err := s.subs.Create(sub); err != nil {
		return nil, err
	}
	s.logger.Info("subscription activated",
		zap.String("tenant_id", tenantID),
		zap.String("subscription_id", sub.ID),
		zap.String("plan", plan.Name))
	return sub, nil
}

// Cancel marks the subscription canceled. Canceling an already-canceled
// subscription is a no-op.
func (s *SubscriptionService) Cancel(tenantID, subscriptionID string) (*models.Subscription, error) {
	sub, err := s.subs.GetByID(tenantID, subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.CodeSubscriptionNotFound, "subscription %s not found", subscriptionID)
		}
		return nil, err
	}
	if sub.Status == domain.SubscriptionStatusCanceled {
		return sub, nil
	}
	now := time.Now()
	sub.Status = domain.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	if err := s.subs.Update(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Renew extends the subscription by one plan interval, starting where the
// current period ends. The plan must still exist and be active.
func (s *SubscriptionService) Renew(tenantID, subscriptionID string) (*models.Subscription, error) {
	sub, err := s.subs.GetByID(tenantID, subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.CodeSubscriptionNotFound, "subscription %s not found", subscriptionID)
		}
		return nil, err
	}
	plan, err := s.activePlan(sub.PlanID)
	if err != nil {
		return nil, err
	}
	start := sub.CurrentPeriodEnd
	end, err := domain.PeriodEnd(start, plan.Interval)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodePlanInactive, "plan has an unusable billing interval", err)
	}
	sub.CurrentPeriodStart = start
	sub.CurrentPeriodEnd = end
	sub.Status = domain.SubscriptionStatusActive
	if err := s.subs.Update(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Current returns the tenant's active subscription, or nil when there is
// none. With the at-most-one-active invariant the first match wins.
func (s *SubscriptionService) Current(tenantID string) (*models.Subscription, error) {
	actives, err := s.subs.ListActiveByTenant(tenantID)
	if err != nil {
		return nil, err
	}
	if len(actives) == 0 {
		return nil, nil
	}
	return &actives[0], nil
}

// SweepExpired marks active subscriptions whose period has lapsed as
// expired. An empty tenantID sweeps all tenants. Status is only
// authoritative after a sweep; between sweeps callers compare against
// CurrentPeriodEnd themselves.
func (s *SubscriptionService) SweepExpired(tenantID string) (int, error) {
	lapsed, err := s.subs.ListActiveEndedBefore(tenantID, time.Now())
	if err != nil {
		return 0, err
	}
	swept := 0
	for i := range lapsed {
		sub := &lapsed[i]
		sub.Status = domain.SubscriptionStatusExpired
		if err := s.subs.Update(sub); err != nil {
			s.logger.Error("failed to expire subscription",
				zap.String("subscription_id", sub.ID),
				zap.Error(err))
			continue
		}
		swept++
	}
	if swept > 0 {
		s.logger.Info("expired lapsed subscriptions", zap.Int("count", swept))
	}
	return swept, nil
}
