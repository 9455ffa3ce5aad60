package screening

import (
	"fmt"
	"slices"
	"strings"
)

// Experience is the career span inferred from the years found in a résumé.
type Experience struct {
	TotalYears    float64
	RelevantYears float64
}

// ExtractExperience measures the span between the earliest and the latest
// year in the résumé. Fewer than two years yields zero.
func ExtractExperience(resume string) Experience {
	years := findYears(resume)
	if len(years) < 2 {
		return Experience{}
	}

	total := float64(slices.Max(years) - slices.Min(years))
	return Experience{
		TotalYears:    total,
		RelevantYears: min(total, total*0.8),
	}
}

// ExtractEducation returns the catalog degree tokens present in the résumé,
// in catalog order.
func ExtractEducation(resume string, degrees []string) []string {
	lower := strings.ToLower(resume)
	found := make([]string, 0)
	for _, degree := range degrees {
		if degree != "" && strings.Contains(lower, strings.ToLower(degree)) {
			found = append(found, degree)
		}
	}
	return found
}

const (
	minGapYears       = 4
	gapThresholdYears = 2
)

// CareerGap is the first spacing of more than two years between
// consecutive résumé years.
type CareerGap struct {
	From int
	To   int
}

func (g CareerGap) Months() int {
	return (g.To - g.From) * 12
}

func (g CareerGap) String() string {
	return fmt.Sprintf("Potential %d month gap detected between %d and %d", g.Months(), g.From, g.To)
}

// DetectCareerGap needs at least four years in the résumé and reports only
// the first gap found after sorting.
func DetectCareerGap(resume string) (CareerGap, bool) {
	years := findYears(resume)
	if len(years) < minGapYears {
		return CareerGap{}, false
	}

	slices.Sort(years)
	for i := 1; i < len(years); i++ {
		if years[i]-years[i-1] > gapThresholdYears {
			return CareerGap{From: years[i-1], To: years[i]}, true
		}
	}
	return CareerGap{}, false
}
