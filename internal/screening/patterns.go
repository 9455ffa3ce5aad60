package screening

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// yearExpr matches a four-digit 19xx/20xx year anywhere, including inside
	// longer digit runs.
	yearExpr = `(?:19|20)\d{2}`

	// skillYearsExpr is formatted with the quoted, lower-cased skill name
	// twice: "<N> years ... skill" or "skill ... <N> years".
	skillYearsExpr = `(?i)(\d+)\+?\s*(?:years?|yrs?).*%[1]s|%[1]s.*?(\d+)\+?\s*(?:years?|yrs?)`

	requiredYearsExpr = `(\d+)\+?\s*years?`

	// companyAtExpr captures "at Acme" / "@ Acme" up to a dash, a year, or the end of the line.
	companyAtExpr = `(?:at|@)\s+([A-Z][A-Za-z\s&,.]+?)(?:\s+[-–|]|\s+\d{4}|\n|$)`

	// companyRoleExpr captures "Acme - Senior Engineer" at the start of a line.
	companyRoleExpr = `(?m)^([A-Z][A-Za-z\s&,.]+?)\s*[-–|]\s*(?:Software|Engineer|Developer|Manager|Lead|Senior|Junior)`

	// tenureTokenExpr matches years and open-ended markers in a company context.
	tenureTokenExpr = `(?i)` + yearExpr + `|\bpresent\b|\bcurrent\b`

	compensationExpr = `\d[\d,]*`
	keywordSplitExpr = `\W+`
	titlePrefixExpr  = `(?i)job title:|position:|role:`
	titleLineExpr    = `(?i)(?:position|role|job title):\s*([^\n]+)`
)

var (
	yearPattern          = regexp.MustCompile(yearExpr)
	requiredYearsPattern = regexp.MustCompile(requiredYearsExpr)
	companyAtPattern     = regexp.MustCompile(companyAtExpr)
	companyRolePattern   = regexp.MustCompile(companyRoleExpr)
	tenureTokenPattern   = regexp.MustCompile(tenureTokenExpr)
	compensationPattern  = regexp.MustCompile(compensationExpr)
	keywordSplitPattern  = regexp.MustCompile(keywordSplitExpr)
	titlePrefixPattern   = regexp.MustCompile(titlePrefixExpr)
	titleLinePattern     = regexp.MustCompile(titleLineExpr)
)

func compileSkillYearsPattern(skill string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(strings.ToLower(skill))
	return regexp.MustCompile(fmt.Sprintf(skillYearsExpr, quoted))
}
