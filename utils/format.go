package utils

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FormatCurrency renders a whole-naira amount as ₦1,234,567 (no decimals).
func FormatCurrency(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return "-₦" + string(out)
	}
	return "₦" + string(out)
}

// FormatDate renders a timestamp as e.g. "2 January 2006".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), t.Month().String(), t.Year())
}

// DiscountPercent is the rounded percent saved between the original and
// the current price. Zero when there is no real markdown.
func DiscountPercent(originalPrice, currentPrice int64) int {
	if originalPrice <= 0 || currentPrice >= originalPrice {
		return 0
	}
	return int(math.Round(float64(originalPrice-currentPrice) / float64(originalPrice) * 100))
}
