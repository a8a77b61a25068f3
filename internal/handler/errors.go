package handler

import (
	"net/http"

	"subpay/internal/apperr"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error's code onto an HTTP status and a
// stable machine-readable error string.
func respondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperr.CodePaymentNotFound, apperr.CodeSubscriptionNotFound, apperr.CodePlanNotFound:
		status = http.StatusNotFound
	case apperr.CodePaymentAlreadyProcessed:
		status = http.StatusConflict
	case apperr.CodeInvalidPaymentData, apperr.CodePlanInactive, apperr.CodeInvalidPayload:
		status = http.StatusBadRequest
	case apperr.CodeChannelNotConfigured:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": string(code)})
}
