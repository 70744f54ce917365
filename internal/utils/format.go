package utils

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatScore renders v with exactly two decimals after Round2.
func FormatScore(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

// FormatPercent renders v as "12.34%".
func FormatPercent(v float64) string {
	return FormatScore(v) + "%"
}

var printer = message.NewPrinter(language.English)

// FormatCount renders an integer with thousands separators ("12,345").
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
