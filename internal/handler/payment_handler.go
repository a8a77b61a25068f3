package handler

import (
	"net/http"
	"strconv"

	"subpay/internal/middleware"
	"subpay/internal/service"
	"subpay/pkg/proofstore"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc    *service.PaymentService
	proofs proofstore.Client
}

func NewPaymentHandler(svc *service.PaymentService, proofs proofstore.Client) *PaymentHandler {
	return &PaymentHandler{svc: svc, proofs: proofs}
}

type createPaymentRequest struct {
	PlanID      *string           `json:"plan_id"`
	AmountCents int64             `json:"amount_cents" binding:"required"`
	Currency    string            `json:"currency" binding:"required"`
	Method      string            `json:"method" binding:"required"`
	Metadata    map[string]string `json:"metadata"`
}

func (h *PaymentHandler) Create(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Create(service.CreatePaymentInput{
		TenantID:    middleware.GetTenantID(c),
		UserID:      middleware.GetUserID(c),
		PlanID:      req.PlanID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Method:      req.Method,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": p})
}

func (h *PaymentHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(middleware.GetTenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

func (h *PaymentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.svc.List(middleware.GetTenantID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

func (h *PaymentHandler) Confirm(c *gin.Context) {
	p, err := h.svc.Confirm(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

type rejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *PaymentHandler) Reject(c *gin.Context) {
	var req rejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.svc.Reject(c.Request.Context(), middleware.GetTenantID(c), c.Param("id"), middleware.GetUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

// UploadProof stores a proof-of-payment image and links it to the
// payment. Only pending payments accept proofs.
func (h *PaymentHandler) UploadProof(c *gin.Context) {
	if h.proofs == nil || !h.proofs.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "proof storage is not configured"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	tenantID := middleware.GetTenantID(c)
	paymentID := c.Param("id")
	proof, err := h.proofs.Upload(c.Request.Context(), f, tenantID, paymentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	p, err := h.svc.UploadProof(tenantID, paymentID, proof.FileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p, "proof_url": proof.URL})
}
