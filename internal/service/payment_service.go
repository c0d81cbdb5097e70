package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/moricehq/morice-backend/internal/logger"
)

// Фиксированные параметры оплаты анализа. Интеграция со Stripe не
// подключена, оплата симулируется.
const (
	processingFeeAmount   = 150.00
	processingFeeCurrency = "CAD"
)

// FeeConfirmation - подтверждение симулированной оплаты.
type FeeConfirmation struct {
	Reference string    `json:"reference"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	PaidAt    time.Time `json:"paid_at"`
}

// PaymentService симулирует приём разового платежа за анализ дела.
type PaymentService struct{}

// NewPaymentService создаёт сервис оплаты.
func NewPaymentService() *PaymentService {
	return &PaymentService{}
}

// ConfirmProcessingFee подтверждает оплату без обращения к провайдеру.
// Возвращает референс, который клиент передаёт при отправке дела.
func (s *PaymentService) ConfirmProcessingFee(userID uuid.UUID) *FeeConfirmation {
	confirmation := &FeeConfirmation{
		Reference: fmt.Sprintf("SIM-%s", uuid.NewString()[:8]),
		Amount:    processingFeeAmount,
		Currency:  processingFeeCurrency,
		Status:    "succeeded",
		PaidAt:    time.Now(),
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":   userID.String(),
		"reference": confirmation.Reference,
		"amount":    confirmation.Amount,
		"currency":  confirmation.Currency,
	}).Info("payment service: paiement simulé accepté")

	return confirmation
}
