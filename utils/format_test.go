package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		assert.Equal(t, "₦950", FormatCurrency(950))
	})

	t.Run("Thousands", func(t *testing.T) {
		assert.Equal(t, "₦12,345", FormatCurrency(12345))
		assert.Equal(t, "₦1,234,567", FormatCurrency(1234567))
	})

	t.Run("Zero", func(t *testing.T) {
		assert.Equal(t, "₦0", FormatCurrency(0))
	})

	t.Run("Negative", func(t *testing.T) {
		assert.Equal(t, "-₦1,000", FormatCurrency(-1000))
	})
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, time.March, 2, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2 March 2025", FormatDate(d))
}

func TestDiscountPercent(t *testing.T) {
	t.Run("Markdown", func(t *testing.T) {
		assert.Equal(t, 25, DiscountPercent(20000, 15000))
	})

	t.Run("Rounds", func(t *testing.T) {
		assert.Equal(t, 33, DiscountPercent(30000, 20000))
	})

	t.Run("NoMarkdown", func(t *testing.T) {
		assert.Equal(t, 0, DiscountPercent(10000, 10000))
		assert.Equal(t, 0, DiscountPercent(10000, 12000))
		assert.Equal(t, 0, DiscountPercent(0, 500))
	})
}
