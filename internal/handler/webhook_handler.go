package handler

import (
	"io"
	"net/http"

	"subpay/internal/apperr"
	"subpay/internal/webhook"

	"github.com/gin-gonic/gin"
)

// Signature headers accepted on webhook ingress, checked in order. The
// first non-empty one wins.
var signatureHeaders = []string{"X-Webhook-Signature", "X-Signature", "X-Hub-Signature-256"}

type WebhookHandler struct {
	router *webhook.Router
}

func NewWebhookHandler(router *webhook.Router) *WebhookHandler {
	return &WebhookHandler{router: router}
}

// Receive is the single ingress endpoint for gateway callbacks. The body
// is read raw because the signature covers the exact bytes sent.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var signature string
	for _, name := range signatureHeaders {
		if v := c.GetHeader(name); v != "" {
			signature = v
			break
		}
	}

	if err := h.router.Process(c.Request.Context(), body, signature); err != nil {
		status, code := webhookErrorStatus(err)
		c.JSON(status, gin.H{"error": code})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func webhookErrorStatus(err error) (int, string) {
	code := apperr.CodeOf(err)
	switch code {
	case apperr.CodeInvalidSignature:
		return http.StatusUnauthorized, string(code)
	case apperr.CodeInvalidPayload:
		return http.StatusBadRequest, string(code)
	case apperr.CodeHandlerNotFound:
		return http.StatusNotFound, string(code)
	default:
		return http.StatusInternalServerError, string(apperr.CodeHandlerError)
	}
}
