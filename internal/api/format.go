package api

import (
	"fmt"
	"math"
)

// FormatLiquidity renders a USD amount as $2.40M, $18.5K or $950.
func FormatLiquidity(usd float64) string {
	switch {
	case usd >= 1_000_000:
		return fmt.Sprintf("$%.2fM", usd/1_000_000)
	case usd >= 1_000:
		return fmt.Sprintf("$%.1fK", usd/1_000)
	default:
		return fmt.Sprintf("$%.0f", math.Max(usd, 0))
	}
}

// FormatAge renders minutes as 14m, 2h 0m or 2d.
func FormatAge(minutes int64) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", max(minutes, 0))
	case minutes < 1440:
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	default:
		return fmt.Sprintf("%dd", minutes/1440)
	}
}
