package cart

import (
	"time"

	"velour/apperr"
	"velour/models"
	"velour/promo"
)

// Subtotal is Σ(unit price × quantity) over the lines.
func Subtotal(items []models.CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Price * int64(it.Quantity)
	}
	return sum
}

// Total is the subtotal minus any applied discount, floored at zero.
func Total(subtotal, discount int64) int64 {
	t := subtotal - discount
	if t < 0 {
		return 0
	}
	return t
}

// NormalizeQuantity clamps an add/increment quantity to the minimum of 1.
// Removal is an explicit operation, never a zero-quantity line.
func NormalizeQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// applyPromo fills the aggregate's discount and total for an optional
// promo code. A rejected code keeps discount at zero and surfaces the
// rejection as a warning instead of being silently dropped.
func applyPromo(aggregate *models.Cart, code string, now time.Time) {
	if code != "" {
		discount, err := promo.Apply(code, aggregate.Subtotal, now)
		if err != nil {
			aggregate.Warnings = append(aggregate.Warnings, err.Error())
		} else {
			aggregate.Discount = discount
			aggregate.PromoCode = code
		}
	}
	aggregate.Total = Total(aggregate.Subtotal, aggregate.Discount)
}

// ValidateVariant checks the chosen size and color against the product's
// own declared variant lists.
func ValidateVariant(p *models.Product, size, color string) error {
	if !p.HasSize(size) {
		return apperr.Newf(apperr.InvalidVariant, "size %q not offered for %s", size, p.Name)
	}
	if !p.HasColor(color) {
		return apperr.Newf(apperr.InvalidVariant, "color %q not offered for %s", color, p.Name)
	}
	return nil
}
