package handler

import (
	"net/http"

	"subpay/internal/middleware"
	"subpay/internal/repository"
	"subpay/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	svc  *service.SubscriptionService
	repo repository.SubscriptionRepository
}

func NewSubscriptionHandler(svc *service.SubscriptionService, repo repository.SubscriptionRepository) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc, repo: repo}
}

// Current returns the tenant's active subscription, or 404 when there is
// none.
func (h *SubscriptionHandler) Current(c *gin.Context) {
	sub, err := h.svc.Current(middleware.GetTenantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	list, err := h.repo.ListByTenant(middleware.GetTenantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": list})
}

type activateRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// Activate is the admin escape hatch for granting a subscription without
// a payment (migrations, comps). The normal path goes through payment
// confirmation.
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sub, err := h.svc.Activate(middleware.GetTenantID(c), req.PlanID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	sub, err := h.svc.Cancel(middleware.GetTenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) Renew(c *gin.Context) {
	sub, err := h.svc.Renew(middleware.GetTenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}
