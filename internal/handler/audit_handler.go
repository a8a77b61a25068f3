package handler

import (
	"net/http"
	"strconv"

	"subpay/internal/middleware"
	"subpay/internal/repository"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	repo repository.AuditLogRepository
}

func NewAuditHandler(repo repository.AuditLogRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

func (h *AuditHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListByTenant(middleware.GetTenantID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": list})
}
