package promo

import (
	"testing"
	"time"

	"velour/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)

func TestApply(t *testing.T) {
	t.Run("TenPercent", func(t *testing.T) {
		d, err := Apply("SAVE10", 10000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), d)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		d, err := Apply("save10", 10000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), d)
	})

	t.Run("UnknownCode", func(t *testing.T) {
		d, err := Apply("NOPE", 10000, now)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.InvalidPromoCode))
		assert.Zero(t, d)
	})

	t.Run("EmptyCodeIsNoDiscount", func(t *testing.T) {
		d, err := Apply("", 10000, now)
		require.NoError(t, err)
		assert.Zero(t, d)
	})

	t.Run("OutsideWindow", func(t *testing.T) {
		_, err := Apply("SUMMER15", 10000, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.InvalidPromoCode))
	})

	t.Run("InsideWindow", func(t *testing.T) {
		d, err := Apply("SUMMER15", 10000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), d)
	})

	t.Run("MinPurchaseNotMet", func(t *testing.T) {
		_, err := Apply("WELCOME20", 4999, now)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.InvalidPromoCode))
	})

	t.Run("MaxDiscountCap", func(t *testing.T) {
		// 20% of 100_000 would be 20_000; capped at 10_000.
		d, err := Apply("WELCOME20", 100000, now)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), d)
	})

	t.Run("FixedAmount", func(t *testing.T) {
		d, err := Apply("FLAT500", 2500, now)
		require.NoError(t, err)
		assert.Equal(t, int64(500), d)
	})

	t.Run("DiscountNeverExceedsSubtotal", func(t *testing.T) {
		d, err := Apply("FLAT500", 2000, now)
		require.NoError(t, err)
		assert.LessOrEqual(t, d, int64(2000))
	})
}
