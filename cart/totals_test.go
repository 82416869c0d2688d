package cart

import (
	"testing"
	"time"

	"velour/apperr"
	"velour/models"
	"velour/promo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shirt() *models.Product {
	return &models.Product{
		ProductID: "prd_shirt",
		Name:      "Oxford Shirt",
		Price:     4500,
		Sizes:     []string{"S", "M", "L"},
		Colors: []models.Color{
			{Name: "White", Hex: "#ffffff"},
			{Name: "Navy", Hex: "#001f3f"},
		},
		InStock:       true,
		StockQuantity: 10,
	}
}

func TestSubtotal(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "prd_shirt", Price: 4500, Quantity: 2},
		{ProductID: "prd_belt", Price: 1000, Quantity: 1},
	}
	assert.Equal(t, int64(10000), Subtotal(items))
}

func TestSubtotalEmptyCart(t *testing.T) {
	assert.Zero(t, Subtotal(nil))
}

func TestTotal(t *testing.T) {
	t.Run("SubtotalMinusDiscount", func(t *testing.T) {
		assert.Equal(t, int64(9000), Total(10000, 1000))
	})

	t.Run("NeverNegative", func(t *testing.T) {
		assert.Zero(t, Total(500, 1000))
	})
}

// total == subtotal - discount for every promo the table accepts.
func TestTotalMatchesPromoApplication(t *testing.T) {
	items := []models.CartItem{{Price: 2500, Quantity: 4}}
	sub := Subtotal(items)
	require.Equal(t, int64(10000), sub)

	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	discount, err := promo.Apply("SAVE10", sub, now)
	require.NoError(t, err)
	assert.Equal(t, sub-discount, Total(sub, discount))
	assert.Equal(t, int64(9000), Total(sub, discount))
}

func TestApplyPromo(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Accepted", func(t *testing.T) {
		aggregate := models.Cart{Subtotal: 10000}
		applyPromo(&aggregate, "SAVE10", now)
		assert.Equal(t, int64(1000), aggregate.Discount)
		assert.Equal(t, int64(9000), aggregate.Total)
		assert.Equal(t, "SAVE10", aggregate.PromoCode)
		assert.Empty(t, aggregate.Warnings)
	})

	t.Run("RejectedCodeWarns", func(t *testing.T) {
		aggregate := models.Cart{Subtotal: 10000}
		applyPromo(&aggregate, "BOGUS", now)
		assert.Zero(t, aggregate.Discount)
		assert.Equal(t, int64(10000), aggregate.Total)
		assert.Empty(t, aggregate.PromoCode)
		require.Len(t, aggregate.Warnings, 1)
	})

	t.Run("NoCode", func(t *testing.T) {
		aggregate := models.Cart{Subtotal: 10000}
		applyPromo(&aggregate, "", now)
		assert.Zero(t, aggregate.Discount)
		assert.Equal(t, int64(10000), aggregate.Total)
		assert.Empty(t, aggregate.Warnings)
	})
}

func TestNormalizeQuantity(t *testing.T) {
	assert.Equal(t, 1, NormalizeQuantity(0))
	assert.Equal(t, 1, NormalizeQuantity(-5))
	assert.Equal(t, 1, NormalizeQuantity(1))
	assert.Equal(t, 7, NormalizeQuantity(7))
}

func TestValidateVariant(t *testing.T) {
	p := shirt()

	t.Run("Accepted", func(t *testing.T) {
		require.NoError(t, ValidateVariant(p, "M", "Navy"))
	})

	t.Run("BadSize", func(t *testing.T) {
		err := ValidateVariant(p, "XXL", "Navy")
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.InvalidVariant))
	})

	t.Run("BadColor", func(t *testing.T) {
		err := ValidateVariant(p, "M", "Chartreuse")
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.InvalidVariant))
	})
}
