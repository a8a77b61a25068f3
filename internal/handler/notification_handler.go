package handler

import (
	"net/http"
	"strconv"

	"subpay/internal/middleware"
	"subpay/internal/repository"
	"subpay/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	repo repository.NotificationRepository
	svc  *service.NotificationService
}

func NewNotificationHandler(repo repository.NotificationRepository, svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{repo: repo, svc: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListByTenant(middleware.GetTenantID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.repo.MarkRead(middleware.GetTenantID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Channels reports which channels a notification type would fan out on
// with the current configuration. Useful for admin diagnostics.
func (h *NotificationHandler) Channels(c *gin.Context) {
	notificationType := c.Query("type")
	if notificationType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type query parameter required"})
		return
	}
	channels := h.svc.GetEnabledChannels(notificationType)
	if channels == nil {
		channels = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"type": notificationType, "channels": channels})
}
