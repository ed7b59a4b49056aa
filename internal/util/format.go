package util

import (
	"fmt"
	"strings"
)

const (
	centsPerUnit = 100
	groupSize    = 3
)

// FormatPrice renders an amount in cents as "1,234.56".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	units := fmt.Sprintf("%d", cents/centsPerUnit)

	var grouped strings.Builder
	for i, digit := range units {
		if i > 0 && (len(units)-i)%groupSize == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	return fmt.Sprintf("%s%s.%02d", sign, grouped.String(), cents%centsPerUnit)
}

// FormatRating renders an optional rating, "No rating" when unset.
func FormatRating(rating *float64) string {
	if rating == nil {
		return "No rating"
	}
	return fmt.Sprintf("%.1f / 5", *rating)
}
