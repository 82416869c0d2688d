package promo

import (
	"strings"
	"time"

	"velour/apperr"
)

// Discount types.
const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
)

// Code is a promo entry. The table is static and in-memory: promo
// management never went through the database.
type Code struct {
	Code          string
	DiscountType  string
	DiscountValue int64 // percent for percentage codes, naira for fixed
	MinPurchase   int64
	MaxDiscount   int64 // 0 = uncapped
	ValidFrom     time.Time
	ValidUntil    time.Time
	Active        bool
}

var table = map[string]Code{
	"SAVE10": {
		Code:          "SAVE10",
		DiscountType:  TypePercentage,
		DiscountValue: 10,
		ValidFrom:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	},
	"WELCOME20": {
		Code:          "WELCOME20",
		DiscountType:  TypePercentage,
		DiscountValue: 20,
		MinPurchase:   5000,
		MaxDiscount:   10000,
		ValidFrom:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	},
	"SUMMER15": {
		Code:          "SUMMER15",
		DiscountType:  TypePercentage,
		DiscountValue: 15,
		ValidFrom:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:    time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	},
	"FLAT500": {
		Code:          "FLAT500",
		DiscountType:  TypeFixed,
		DiscountValue: 500,
		MinPurchase:   2000,
		ValidFrom:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	},
}

// Lookup returns the entry for a code, case-insensitively.
func Lookup(code string) (Code, bool) {
	c, ok := table[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Apply computes the absolute discount a code grants against a subtotal
// at the given instant. Every rejection is an InvalidPromoCode failure;
// callers decide whether that blocks anything (order commit does not).
func Apply(code string, subtotal int64, now time.Time) (int64, error) {
	if strings.TrimSpace(code) == "" {
		return 0, nil
	}

	c, ok := Lookup(code)
	if !ok {
		return 0, apperr.New(apperr.InvalidPromoCode, "promo code not recognized")
	}
	if !c.Active {
		return 0, apperr.New(apperr.InvalidPromoCode, "promo code inactive")
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return 0, apperr.New(apperr.InvalidPromoCode, "promo code expired")
	}
	if subtotal < c.MinPurchase {
		return 0, apperr.Newf(apperr.InvalidPromoCode, "minimum purchase of %d not met", c.MinPurchase)
	}

	var discount int64
	switch c.DiscountType {
	case TypePercentage:
		discount = subtotal * c.DiscountValue / 100
	case TypeFixed:
		discount = c.DiscountValue
	default:
		return 0, apperr.New(apperr.InvalidPromoCode, "promo code misconfigured")
	}

	if c.MaxDiscount > 0 && discount > c.MaxDiscount {
		discount = c.MaxDiscount
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount, nil
}
