package screening

import (
	"strings"
	"unicode/utf8"
)

const (
	maxKeywords      = 30
	minKeywordLength = 3
	maxEvidence      = 20
	minEvidenceChars = 30
	defaultJobTitle  = "Software Engineer"
)

// ExtractKeywordMatch checks every unique job-description word longer than
// three characters against the lower-cased résumé. Each list is capped at 30.
func ExtractKeywordMatch(resume, jobDescription string) KeywordMatch {
	resumeLower := strings.ToLower(resume)
	seen := make(map[string]struct{})

	match := KeywordMatch{Matched: []string{}, Missing: []string{}}
	for _, word := range keywordSplitPattern.Split(strings.ToLower(jobDescription), -1) {
		if len(word) <= minKeywordLength {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}

		if strings.Contains(resumeLower, word) {
			match.Matched = append(match.Matched, word)
		} else {
			match.Missing = append(match.Missing, word)
		}
	}

	if len(match.Matched) > maxKeywords {
		match.Matched = match.Matched[:maxKeywords]
	}
	if len(match.Missing) > maxKeywords {
		match.Missing = match.Missing[:maxKeywords]
	}
	return match
}

// ExtractJobTitle takes the first line when it looks like a title, then a
// "Position:" style line, then falls back to "Software Engineer".
func ExtractJobTitle(jobDescription string) string {
	first := strings.TrimSpace(splitLines(jobDescription)[0])
	if n := utf8.RuneCountInString(first); n > 5 && n < 100 {
		if loc := titlePrefixPattern.FindStringIndex(first); loc != nil {
			first = first[:loc[0]] + first[loc[1]:]
		}
		return strings.TrimSpace(first)
	}

	if m := titleLinePattern.FindStringSubmatch(jobDescription); m != nil {
		return strings.TrimSpace(m[1])
	}
	return defaultJobTitle
}

// ExtractEvidence returns the first 20 résumé lines longer than 30
// characters, trimmed, in document order.
func ExtractEvidence(resume string) []string {
	evidence := make([]string, 0, maxEvidence)
	for _, line := range splitLines(resume) {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) <= minEvidenceChars {
			continue
		}
		evidence = append(evidence, trimmed)
		if len(evidence) == maxEvidence {
			break
		}
	}
	return evidence
}
