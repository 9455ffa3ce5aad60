package screening

import (
	"fmt"
	"strings"
)

const (
	summarySkills   = 5
	summaryKeywords = 5
)

// Summarize builds the three-sentence narrative: overall band, Tier 1
// exposure, keyword match band.
func Summarize(overall int, skills []SkillFinding, companies []CompanyFinding, keywords KeywordMatch) []string {
	return []string{
		scoreSentence(overall, skills),
		employerSentence(companies),
		keywordSentence(keywords),
	}
}

func scoreSentence(overall int, skills []SkillFinding) string {
	names := make([]string, 0, summarySkills)
	for _, skill := range skills[:min(len(skills), summarySkills)] {
		names = append(names, skill.Name)
	}
	top := strings.Join(names, ", ")

	switch {
	case overall >= 80:
		return fmt.Sprintf("Strong candidate with %d/100 overall score. Demonstrates excellent proficiency in %s with proven track record.", overall, top)
	case overall >= 60:
		return fmt.Sprintf("Solid candidate with %d/100 overall score. Shows competency in %s with room for growth.", overall, top)
	default:
		return fmt.Sprintf("Below-average candidate with %d/100 overall score. Limited proficiency in required areas including %s.", overall, top)
	}
}

func employerSentence(companies []CompanyFinding) string {
	var tier1 []string
	for _, company := range companies {
		if company.Tier == Tier1 {
			tier1 = append(tier1, company.Name)
		}
	}

	if len(tier1) == 0 {
		return "Work experience primarily at Tier 2-3 companies. May need additional mentoring to adapt to enterprise-level best practices."
	}

	noun := "companies"
	if len(tier1) == 1 {
		noun = "company"
	}
	return fmt.Sprintf("Has valuable experience at %d Tier 1 %s (%s), indicating exposure to high-quality engineering practices.",
		len(tier1), noun, strings.Join(tier1, ", "))
}

func keywordSentence(keywords KeywordMatch) string {
	rate := KeywordMatchRate(keywords)

	switch {
	case rate >= 70:
		return fmt.Sprintf("Excellent keyword match (%d%%) with job requirements. Resume aligns well with role expectations and required skill set.", rate)
	case rate >= 50:
		return fmt.Sprintf("Moderate keyword match (%d%%) with job requirements. Some skill gaps identified but candidate shows transferable experience.", rate)
	default:
		missing := keywords.Missing[:min(len(keywords.Missing), summaryKeywords)]
		return fmt.Sprintf("Low keyword match (%d%%) with job requirements. Significant skill gaps in %s. May not be ideal fit for this role.",
			rate, strings.Join(missing, ", "))
	}
}
