// Package normalize converts scraped text into numbers.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

const thousand = 1000

// periodSuffixes is the boilerplate GitHub appends to the period star gain.
var periodSuffixes = []string{"stars today", "stars this week", "stars this month"}

// ParseCount converts counts such as "1,234", "1.2k" or "300 stars" into an
// integer. Unparsable input yields 0; it never fails.
func ParseCount(text string) int {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0
	}

	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(s)

	if mantissa, ok := strings.CutSuffix(s, "k"); ok {
		f, err := strconv.ParseFloat(mantissa, 64)
		if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0
		}
		n := math.Round(f * thousand)
		if n >= math.MaxInt {
			return 0
		}
		return int(n)
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// StripPeriodSuffix removes the "stars today" style phrase from a star gain label.
func StripPeriodSuffix(text string) string {
	s := strings.TrimSpace(text)
	for _, suffix := range periodSuffixes {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	return s
}
