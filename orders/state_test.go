package orders

import (
	"testing"

	"velour/models"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	allowed := [][2]string{
		{models.OrderPending, models.OrderProcessing},
		{models.OrderPending, models.OrderCancelled},
		{models.OrderProcessing, models.OrderShipped},
		{models.OrderProcessing, models.OrderCancelled},
		{models.OrderShipped, models.OrderDelivered},
	}
	for _, tr := range allowed {
		assert.True(t, ValidTransition(tr[0], tr[1]), "%s -> %s should be allowed", tr[0], tr[1])
	}

	denied := [][2]string{
		{models.OrderPending, models.OrderDelivered},
		{models.OrderShipped, models.OrderCancelled},
		{models.OrderDelivered, models.OrderPending},
		{models.OrderCancelled, models.OrderProcessing},
		{models.OrderDelivered, models.OrderDelivered},
	}
	for _, tr := range denied {
		assert.False(t, ValidTransition(tr[0], tr[1]), "%s -> %s should be denied", tr[0], tr[1])
	}
}

func TestValidPaymentTransition(t *testing.T) {
	assert.True(t, ValidPaymentTransition(models.PaymentPending, models.PaymentCompleted))
	assert.True(t, ValidPaymentTransition(models.PaymentPending, models.PaymentFailed))
	assert.False(t, ValidPaymentTransition(models.PaymentCompleted, models.PaymentFailed))
	assert.False(t, ValidPaymentTransition(models.PaymentFailed, models.PaymentCompleted))
}
