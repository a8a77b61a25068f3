package handler

import (
	"errors"
	"net/http"

	"subpay/internal/domain"
	"subpay/internal/models"
	"subpay/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanHandler struct {
	repo repository.PlanRepository
}

func NewPlanHandler(repo repository.PlanRepository) *PlanHandler {
	return &PlanHandler{repo: repo}
}

// List returns active plans. Admins can pass all=true to include retired
// ones.
func (h *PlanHandler) List(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	list, err := h.repo.List(activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": list})
}

func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

type planRequest struct {
	Name       string               `json:"name" binding:"required"`
	PriceCents int64                `json:"price_cents" binding:"required"`
	Currency   string               `json:"currency" binding:"required,len=3"`
	Interval   string               `json:"interval" binding:"required"`
	Features   []models.PlanFeature `json:"features"`
	Limits     map[string]int64     `json:"limits"`
	Active     *bool                `json:"active"`
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.IsValidInterval(req.Interval) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval must be monthly, yearly or lifetime"})
		return
	}
	if req.PriceCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}
	plan := &models.SubscriptionPlan{
		ID:         uuid.NewString(),
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
		Interval:   req.Interval,
		Active:     true,
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}
	plan.SetFeatureList(req.Features)
	plan.SetLimitMap(req.Limits)
	if err := h.repo.Create(plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan": plan})
}

// Update changes plan attributes going forward. Periods already computed
// for existing subscriptions are untouched.
func (h *PlanHandler) Update(c *gin.Context) {
	plan, err := h.repo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.IsValidInterval(req.Interval) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "interval must be monthly, yearly or lifetime"})
		return
	}
	plan.Name = req.Name
	plan.PriceCents = req.PriceCents
	plan.Currency = req.Currency
	plan.Interval = req.Interval
	plan.SetFeatureList(req.Features)
	plan.SetLimitMap(req.Limits)
	if req.Active != nil {
		plan.Active = *req.Active
	}
	if err := h.repo.Update(plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}
