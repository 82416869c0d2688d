package orders

import (
	"testing"
	"time"

	"velour/apperr"
	"velour/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commitTime = time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

func testProduct(id, name string, price int64, stock int) *models.Product {
	return &models.Product{
		ProductID:     id,
		Name:          name,
		Price:         price,
		Images:        []string{id + ".jpg"},
		Sizes:         []string{"S", "M", "L"},
		Colors:        []models.Color{{Name: "Black", Hex: "#000"}},
		InStock:       stock > 0,
		StockQuantity: stock,
	}
}

func testLines() []models.CartItem {
	return []models.CartItem{
		{
			ItemID: "ci_1", ProductID: "prd_shirt", Size: "M", Color: "Black",
			Quantity: 2, Price: 4000, // stale add-time price, must be ignored
			Product: testProduct("prd_shirt", "Oxford Shirt", 4500, 5),
		},
		{
			ItemID: "ci_2", ProductID: "prd_belt", Size: "S", Color: "Black",
			Quantity: 1, Price: 1000,
			Product: testProduct("prd_belt", "Leather Belt", 1000, 3),
		},
	}
}

func baseRequest() CommitRequest {
	return CommitRequest{
		UserID: "u_1",
		Email:  "a@b.co",
		ShippingAddress: models.Address{
			Street: "1 Marina Rd", City: "Lagos", State: "Lagos", Country: "Nigeria",
		},
		PaymentMethod: models.PayPaystack,
	}
}

func TestBuildCommit(t *testing.T) {
	t.Run("TotalsFromCatalogPrice", func(t *testing.T) {
		plan, err := BuildCommit(baseRequest(), testLines(), commitTime)
		require.NoError(t, err)

		// 2×4500 + 1×1000, not the stale cart prices.
		assert.Equal(t, int64(10000), plan.Order.Subtotal)
		assert.Equal(t, int64(0), plan.Order.Discount)
		assert.Equal(t, plan.Order.Subtotal-plan.Order.Discount+plan.Order.Shipping, plan.Order.Total)
	})

	t.Run("OneItemPerLineWithSnapshot", func(t *testing.T) {
		plan, err := BuildCommit(baseRequest(), testLines(), commitTime)
		require.NoError(t, err)

		require.Len(t, plan.Items, 2)
		first := plan.Items[0]
		assert.Equal(t, plan.Order.OrderID, first.OrderID)
		assert.Equal(t, "Oxford Shirt", first.ProductName)
		assert.Equal(t, "prd_shirt.jpg", first.Image)
		assert.Equal(t, "M", first.Size)
		assert.Equal(t, 2, first.Quantity)
		assert.Equal(t, int64(4500), first.PriceAtPurchase)
	})

	t.Run("StockDeltaPerProduct", func(t *testing.T) {
		plan, err := BuildCommit(baseRequest(), testLines(), commitTime)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"prd_shirt": 2, "prd_belt": 1}, plan.StockDelta)
	})

	t.Run("InitialStatuses", func(t *testing.T) {
		plan, err := BuildCommit(baseRequest(), testLines(), commitTime)
		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, plan.Order.OrderStatus)
		assert.Equal(t, models.PaymentPending, plan.Order.PaymentStatus)
	})

	t.Run("OutOfStockFailsWholeCommit", func(t *testing.T) {
		lines := testLines()
		lines[1].Quantity = 4 // only 3 belts in stock

		plan, err := BuildCommit(baseRequest(), lines, commitTime)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.OutOfStock))
		assert.Nil(t, plan)
	})

	t.Run("SameProductAcrossLinesCountsCombined", func(t *testing.T) {
		shirt := testProduct("prd_shirt", "Oxford Shirt", 4500, 5)
		lines := []models.CartItem{
			{ItemID: "ci_1", ProductID: "prd_shirt", Size: "M", Color: "Black", Quantity: 3, Product: shirt},
			{ItemID: "ci_2", ProductID: "prd_shirt", Size: "L", Color: "Black", Quantity: 3, Product: shirt},
		}
		_, err := BuildCommit(baseRequest(), lines, commitTime)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.OutOfStock))
	})

	t.Run("PromoApplied", func(t *testing.T) {
		req := baseRequest()
		req.PromoCode = "SAVE10"

		plan, err := BuildCommit(req, testLines(), commitTime)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), plan.Order.Discount)
		assert.Equal(t, int64(9000), plan.Order.Total)
		assert.Equal(t, "SAVE10", plan.Order.PromoCode)
		assert.Empty(t, plan.Warnings)
	})

	t.Run("BadPromoWarnsButCommits", func(t *testing.T) {
		req := baseRequest()
		req.PromoCode = "BOGUS"

		plan, err := BuildCommit(req, testLines(), commitTime)
		require.NoError(t, err)
		assert.Equal(t, int64(0), plan.Order.Discount)
		assert.Equal(t, int64(10000), plan.Order.Total)
		assert.Empty(t, plan.Order.PromoCode)
		require.Len(t, plan.Warnings, 1)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		_, err := BuildCommit(baseRequest(), nil, commitTime)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.OrderCommitFailed))
	})

	t.Run("MissingProduct", func(t *testing.T) {
		lines := testLines()
		lines[0].Product = nil
		_, err := BuildCommit(baseRequest(), lines, commitTime)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.NotFound))
	})

	t.Run("DefaultPaymentMethod", func(t *testing.T) {
		req := baseRequest()
		req.PaymentMethod = ""
		plan, err := BuildCommit(req, testLines(), commitTime)
		require.NoError(t, err)
		assert.Equal(t, models.PayPaystack, plan.Order.PaymentMethod)
	})

	t.Run("UnsupportedPaymentMethod", func(t *testing.T) {
		req := baseRequest()
		req.PaymentMethod = "cowries"
		_, err := BuildCommit(req, testLines(), commitTime)
		require.Error(t, err)
	})
}
