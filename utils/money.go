package utils

import (
	"fmt"
	"math"
)

// RoundMoney membulatkan nilai uang ke 2 desimal (sen).
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatMoney formats an amount with two decimals and thousands separators, e.g. 15000.5 -> "15,000.50".
func FormatMoney(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	cents := int64(math.Round(amount * 100))
	integer := cents / 100
	decimal := cents % 100

	digits := fmt.Sprintf("%d", integer)
	var grouped []byte
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, digits[i])
	}
	return fmt.Sprintf("%s%s.%02d", sign, grouped, decimal)
}
