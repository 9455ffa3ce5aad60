package screening

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	maxCompanies        = 5
	defaultTenureMonths = 12
	tier1Rationale      = "Major tech company / MNC with global presence and strong brand recognition"
	tier3Rationale      = "Startup, consulting, or small-medium business"
	suffixRationale     = "Established mid-size company with formal structure"
	defaultRationale    = "Mid-size product or services company"
)

// ExtractCompanies detects employer names, classifies their tier and
// estimates tenure. At most five companies are returned in the order they
// were first detected. Names are deduplicated case-sensitively.
func ExtractCompanies(resume string, catalog Catalog, now time.Time) []CompanyFinding {
	names := detectCompanyNames(resume)
	lines := splitLines(resume)

	companies := make([]CompanyFinding, 0, len(names))
	for _, name := range names {
		tier, rationale := ClassifyCompany(name, catalog)
		context := companyContext(lines, name)

		evidence := []string{}
		if context != "" {
			evidence = append(evidence, context)
		}

		companies = append(companies, CompanyFinding{
			Name:         name,
			Tier:         tier,
			Rationale:    rationale,
			TenureMonths: estimateTenure(context, now),
			Evidence:     evidence,
		})
	}
	return companies
}

func detectCompanyNames(resume string) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0, maxCompanies)

	for _, pattern := range []*regexp.Regexp{companyAtPattern, companyRolePattern} {
		for _, m := range pattern.FindAllStringSubmatch(resume, -1) {
			name := cleanCompanyName(m[1])
			if len(name) <= 2 || len(name) >= 50 {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
			if len(names) == maxCompanies {
				return names
			}
		}
	}
	return names
}

func cleanCompanyName(raw string) string {
	name := strings.TrimSpace(raw)
	if strings.HasSuffix(name, ",") || strings.HasSuffix(name, ".") {
		name = name[:len(name)-1]
	}
	return name
}

// ClassifyCompany maps a company name to a tier. Rules are checked in order
// and the first hit wins: Tier 1 brands, then Tier 3 keywords, then
// corporate suffixes (Tier 2), then the Tier 2 default.
func ClassifyCompany(name string, catalog Catalog) (Tier, string) {
	lower := strings.ToLower(name)

	switch {
	case containsAny(lower, catalog.Tier1Companies):
		return Tier1, tier1Rationale
	case containsAny(lower, catalog.Tier3Keywords):
		return Tier3, tier3Rationale
	case containsAny(lower, catalog.CorporateSuffixes):
		return Tier2, suffixRationale
	default:
		return Tier2, defaultRationale
	}
}

// companyContext joins the first line mentioning the company with one line
// before and two lines after it.
func companyContext(lines []string, name string) string {
	for i, line := range lines {
		if !strings.Contains(line, name) {
			continue
		}
		from := max(0, i-1)
		to := min(len(lines), i+3)
		return strings.TrimSpace(strings.Join(lines[from:to], " "))
	}
	return ""
}

// estimateTenure uses the first two year tokens of the context. A
// "present"/"current" token counts as the year of now, but only once a
// start year has been seen.
func estimateTenure(context string, now time.Time) int {
	years := make([]int, 0, 2)
	for _, token := range tenureTokenPattern.FindAllString(context, -1) {
		year, err := strconv.Atoi(token)
		switch {
		case err == nil:
			years = append(years, year)
		case len(years) > 0:
			years = append(years, now.Year())
		default:
			continue
		}
		if len(years) == 2 {
			break
		}
	}

	if len(years) < 2 {
		return defaultTenureMonths
	}
	return max(1, (years[1]-years[0])*12)
}
