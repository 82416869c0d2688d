package orders

import "velour/models"

// Order status machine: pending → processing → shipped → delivered,
// with cancelled reachable from pending or processing only.
var orderTransitions = map[string][]string{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

// Payment status is an orthogonal axis: pending → completed | failed.
var paymentTransitions = map[string][]string{
	models.PaymentPending:   {models.PaymentCompleted, models.PaymentFailed},
	models.PaymentCompleted: {},
	models.PaymentFailed:    {},
}

func ValidTransition(from, to string) bool {
	for _, v := range orderTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

func ValidPaymentTransition(from, to string) bool {
	for _, v := range paymentTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}
