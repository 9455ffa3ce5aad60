package screening

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxSkills           = 12
	maxSkillYears       = 15
	maxSkillEvidence    = 3
	minSkillEvidence    = 20
	baseDepthScore      = 40
	depthPerYear        = 8
	depthPerOccurrence  = 3
	jobDescriptionBoost = 15
)

// skillMatcher is a catalog skill with its years pattern compiled once.
type skillMatcher struct {
	name  string
	lower string
	years *regexp.Regexp
}

func compileSkills(names []string) []skillMatcher {
	matchers := make([]skillMatcher, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		matchers = append(matchers, skillMatcher{
			name:  name,
			lower: strings.ToLower(name),
			years: compileSkillYearsPattern(name),
		})
	}
	return matchers
}

// ExtractSkills finds every catalog skill mentioned in the résumé and
// estimates its depth. The result holds at most 12 findings sorted by depth
// score, ties keeping catalog order.
func ExtractSkills(resume, jobDescription string, skills []string) []SkillFinding {
	return extractSkills(resume, jobDescription, compileSkills(skills))
}

func extractSkills(resume, jobDescription string, matchers []skillMatcher) []SkillFinding {
	resumeLower := strings.ToLower(resume)
	jdLower := strings.ToLower(jobDescription)
	lines := splitLines(resume)

	findings := make([]SkillFinding, 0)
	for _, skill := range matchers {
		if !strings.Contains(resumeLower, skill.lower) {
			continue
		}

		years, ok := explicitSkillYears(resume, skill)
		if !ok {
			years = estimateSkillYears(lines, skill.lower)
		}

		occurrences := strings.Count(resumeLower, skill.lower)
		depth := min(100, baseDepthScore+years*depthPerYear+occurrences*depthPerOccurrence)
		if strings.Contains(jdLower, skill.lower) {
			depth = min(100, depth+jobDescriptionBoost)
		}

		findings = append(findings, SkillFinding{
			Name:            skill.name,
			YearsExperience: years,
			DepthScore:      depth,
			Evidence:        skillEvidence(lines, skill.lower),
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].DepthScore > findings[j].DepthScore
	})

	if len(findings) > maxSkills {
		findings = findings[:maxSkills]
	}
	return findings
}

// explicitSkillYears looks for "5 years ... skill" or "skill ... 5 yrs".
func explicitSkillYears(resume string, skill skillMatcher) (int, bool) {
	m := skill.years.FindStringSubmatch(resume)
	if m == nil {
		return 0, false
	}

	raw := m[1]
	if raw == "" {
		raw = m[2]
	}

	years, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return min(years, maxSkillYears), true
}

// estimateSkillYears sums the year spans found on lines mentioning the skill.
func estimateSkillYears(lines []string, skillLower string) int {
	totalMonths := 0
	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line), skillLower) {
			continue
		}
		years := findYears(line)
		if len(years) >= 2 {
			totalMonths += (years[len(years)-1] - years[0]) * 12
		}
	}
	return clamp(totalMonths/12, 1, maxSkillYears)
}

func skillEvidence(lines []string, skillLower string) []string {
	evidence := make([]string, 0, maxSkillEvidence)
	for _, line := range lines {
		if utf8.RuneCountInString(line) <= minSkillEvidence || !strings.Contains(strings.ToLower(line), skillLower) {
			continue
		}
		evidence = append(evidence, strings.TrimSpace(line))
		if len(evidence) == maxSkillEvidence {
			break
		}
	}
	return evidence
}
