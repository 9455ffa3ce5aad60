package screening

import (
	"math"
	"strconv"
	"strings"
)

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// findYears returns every 19xx/20xx year in text, in document order.
func findYears(text string) []int {
	matches := yearPattern.FindAllString(text, -1)
	years := make([]int, 0, len(matches))
	for _, m := range matches {
		year, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		years = append(years, year)
	}
	return years
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
