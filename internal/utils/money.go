package utils

import (
	"fmt"
	"math"
)

// Round2 rounds half away from zero to 2 decimals. Every computed
// money field goes through this so stored totals line up with the
// provider's cent representation at charge time.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ToMinorUnits converts a 2-decimal amount to provider minor units
// (bani/cents).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
