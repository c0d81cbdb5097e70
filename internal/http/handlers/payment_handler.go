package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moricehq/morice-backend/internal/http/handlers/common"
	"github.com/moricehq/morice-backend/internal/service"
)

// PaymentHandler обслуживает симулированную оплату анализа.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler создаёт хэндлер.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// ConfirmFee обрабатывает POST /payments/processing-fee.
func (h *PaymentHandler) ConfirmFee(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.payments.ConfirmProcessingFee(userID))
}
