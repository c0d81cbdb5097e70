package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/moricehq/morice-backend/internal/logger"
)

func TestPaymentService_ConfirmProcessingFee(t *testing.T) {
	logger.Init("error")

	svc := NewPaymentService()

	confirmation := svc.ConfirmProcessingFee(uuid.New())

	assert.True(t, strings.HasPrefix(confirmation.Reference, "SIM-"))
	assert.Len(t, confirmation.Reference, len("SIM-")+8)
	assert.Equal(t, 150.00, confirmation.Amount)
	assert.Equal(t, "CAD", confirmation.Currency)
	assert.Equal(t, "succeeded", confirmation.Status)
	assert.False(t, confirmation.PaidAt.IsZero())
}

func TestPaymentService_ReferencesAreUnique(t *testing.T) {
	logger.Init("error")

	svc := NewPaymentService()

	seen := make(map[string]struct{})
	for i := 0; i < 10; i++ {
		ref := svc.ConfirmProcessingFee(uuid.New()).Reference
		if _, ok := seen[ref]; ok {
			t.Fatalf("референс %q выдан повторно", ref)
		}
		seen[ref] = struct{}{}
	}
}
