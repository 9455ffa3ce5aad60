package screening

import (
	"strconv"
	"strings"
)

const (
	defaultRequiredYears  = 3
	titleSimilarity       = 0.7
	defaultEducationScore = 50
	defaultCompanyScore   = 50
	defaultCompensation   = 70
	maxTenureWeightMonths = 36
	unknownTierValue      = 0.5
)

var (
	bachelorTerms = []string{"bachelor", "b.tech", "bs", "be"}
	masterJDTerms = []string{"master", "m.tech", "ms", "mba"}
	masterTerms   = []string{"master", "m.tech", "ms", "mba", "me"}
	phdTerms      = []string{"phd", "ph.d"}

	tierValues = map[Tier]float64{
		Tier1: 1.0,
		Tier2: 0.8,
		Tier3: 0.6,
	}
)

// SkillScore is the rounded mean depth score, or 0 without skills.
func SkillScore(skills []SkillFinding) int {
	if len(skills) == 0 {
		return 0
	}

	total := 0
	for _, skill := range skills {
		total += skill.DepthScore
	}
	return roundHalfUp(float64(total) / float64(len(skills)))
}

// RequiredYears parses "<N>+ years" from the job description, defaulting to 3.
func RequiredYears(jobDescription string) int {
	m := requiredYearsPattern.FindStringSubmatch(strings.ToLower(jobDescription))
	if m == nil {
		return defaultRequiredYears
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultRequiredYears
	}
	return years
}

// ExperienceScore blends relevant and total years against the requirement.
// The title-similarity term is a fixed 0.7. A zero-year requirement is
// always met.
func ExperienceScore(exp Experience, jobDescription string) int {
	required := float64(RequiredYears(jobDescription))

	relevantRatio, totalRatio := 1.0, 1.0
	if required > 0 {
		relevantRatio = min(1, exp.RelevantYears/required)
		totalRatio = min(1, exp.TotalYears/(required*1.5))
	}

	score := (0.5*relevantRatio + 0.3*totalRatio + 0.2*titleSimilarity) * 100
	return clamp(roundHalfUp(score), 0, 100)
}

// EducationScore applies the tiered degree lookup. An empty education list
// scores 50.
func EducationScore(education []string, jobDescription string) int {
	if len(education) == 0 {
		return defaultEducationScore
	}

	jd := strings.ToLower(jobDescription)
	requiresBachelors := containsAny(jd, bachelorTerms)
	requiresMasters := containsAny(jd, masterJDTerms)
	requiresPhD := containsAny(jd, phdTerms)

	hasBachelors := holdsAny(education, bachelorTerms)
	hasMasters := holdsAny(education, masterTerms)
	hasPhD := holdsAny(education, phdTerms)

	switch {
	case requiresPhD && hasPhD:
		return 100
	case requiresMasters && hasMasters:
		return 90
	case requiresMasters && hasBachelors:
		return 70
	case requiresBachelors && hasBachelors:
		return 85
	case hasBachelors:
		return 75
	default:
		return defaultEducationScore
	}
}

func holdsAny(education, terms []string) bool {
	for _, degree := range education {
		if containsAny(strings.ToLower(degree), terms) {
			return true
		}
	}
	return false
}

// CompanyScore is the tenure-weighted mean tier value, or 50 without companies.
func CompanyScore(companies []CompanyFinding) int {
	if len(companies) == 0 {
		return defaultCompanyScore
	}

	var totalScore, totalWeight float64
	for _, company := range companies {
		value, ok := tierValues[company.Tier]
		if !ok {
			value = unknownTierValue
		}
		weight := float64(min(company.TenureMonths, maxTenureWeightMonths)) / maxTenureWeightMonths
		totalScore += value * weight * 100
		totalWeight += weight
	}

	if totalWeight <= 0 {
		return defaultCompanyScore
	}
	return clamp(roundHalfUp(totalScore/totalWeight), 0, 100)
}

// CompensationScore maps the expected raise to a score. Missing or
// unparsable figures score 70.
func CompensationScore(current, expected string) int {
	cur, ok := parseCompensation(current)
	if !ok || cur <= 0 {
		return defaultCompensation
	}
	exp, ok := parseCompensation(expected)
	if !ok {
		return defaultCompensation
	}

	increase := float64(exp-cur) / float64(cur) * 100
	switch {
	case increase < 20:
		return 90
	case increase < 30:
		return 80
	case increase < 50:
		return 70
	default:
		return 50
	}
}

func parseCompensation(raw string) (int64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}
	run := compensationPattern.FindString(raw)
	if run == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(strings.ReplaceAll(run, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// CertificationScore compares certification terms in the job description
// and the résumé.
func CertificationScore(resume, jobDescription string, keywords []string) int {
	if !containsAny(strings.ToLower(jobDescription), keywords) {
		return 75
	}
	if containsAny(strings.ToLower(resume), keywords) {
		return 90
	}
	return 40
}

// JobTitleMatchScore is the share of title words (all words count towards
// the denominator, only words longer than three characters can match) found
// in the résumé.
func JobTitleMatchScore(resume, title string) int {
	resumeLower := strings.ToLower(resume)
	words := strings.Fields(strings.ToLower(title))

	matched := 0
	for _, word := range words {
		if len(word) > minKeywordLength && strings.Contains(resumeLower, word) {
			matched++
		}
	}
	return roundHalfUp(float64(matched) / float64(max(len(words), 1)) * 100)
}

// KeywordMatchRate is the matched share of the (capped) keyword lists, or 0
// when the job description produced no keywords.
func KeywordMatchRate(match KeywordMatch) int {
	total := len(match.Matched) + len(match.Missing)
	if total == 0 {
		return 0
	}
	return roundHalfUp(float64(len(match.Matched)) / float64(total) * 100)
}
