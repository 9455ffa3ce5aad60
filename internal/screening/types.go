package screening

// Tier is a coarse employer-prestige classification.
type Tier string

const (
	Tier1 Tier = "Tier 1"
	Tier2 Tier = "Tier 2"
	Tier3 Tier = "Tier 3"
)

// Recommendation is the hiring disposition derived from the overall score.
type Recommendation string

const (
	StrongHire Recommendation = "Strong Hire"
	Consider   Recommendation = "Consider"
	Weak       Recommendation = "Weak"
	Reject     Recommendation = "Reject"
)

const noInterviewHistory = "No interview history available."

type SkillFinding struct {
	Name            string   `json:"skillName"`
	YearsExperience int      `json:"yearsExperience"`
	DepthScore      int      `json:"depthScore"`
	Evidence        []string `json:"evidence"`
}

type CompanyFinding struct {
	Name         string   `json:"companyName"`
	Tier         Tier     `json:"tier"`
	Rationale    string   `json:"rationale"`
	TenureMonths int      `json:"tenureMonths"`
	Evidence     []string `json:"evidence"`
}

// KeywordMatch splits the unique job-description terms into those found in
// the résumé and those that are not. Both lists keep job-description order.
type KeywordMatch struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// CategoryScores is the relevancy breakdown shown next to the overall score.
// Every value is an independent 0-100 integer.
type CategoryScores struct {
	JobTitleMatch       int `json:"jobTitleMatch"`
	SkillsMatch         int `json:"skillsMatch"`
	CertificationsMatch int `json:"certificationsMatch"`
	EducationMatch      int `json:"educationMatch"`
	ExperienceMatch     int `json:"experienceMatch"`
	SkillScore          int `json:"skillScore"`
}

// OverallAssessment is the aggregated verdict for one candidate.
type OverallAssessment struct {
	Score          int            `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
	CareerGap      string         `json:"careerGap"`
	Summary        []string       `json:"summary"`
}

type CandidateBasicDetails struct {
	CandidateID    string         `json:"candidateId"`
	Name           string         `json:"candidateName"`
	Mobile         string         `json:"candidateMobile"`
	LinkedIn       string         `json:"candidateLinkedIn"`
	RoleAppliedFor string         `json:"roleAppliedFor"`
	Location       string         `json:"candidateLocation"`
	ScreenedOn     string         `json:"aiScreenedOn"`
	Recommendation Recommendation `json:"aiCandidateRecommendation"`
	Resume         string         `json:"candidateResume"`
	OverallScore   int            `json:"candidateOverallScore"`
	CurrentCTC     string         `json:"currentCTC"`
	ExpectedCTC    string         `json:"expectedCTC"`
	Relocation     string         `json:"relocation"`
	CareerGap      string         `json:"careerGap"`
}

type DetailedSummary struct {
	ThreeBulletSummary          []string         `json:"threeBulletSummary"`
	InterviewExperience         string           `json:"candidateInterviewExperience"`
	Skills                      []SkillFinding   `json:"candidateSkillDepthAnalysis"`
	Companies                   []CompanyFinding `json:"companyTierAnalysis"`
	Keywords                    KeywordMatch     `json:"keywordSkillMatch"`
	Relevancy                   CategoryScores   `json:"aiRelevancyDetails"`
	InterviewPerformanceSummary string           `json:"interviewPerformanceSummary"`
}

// AnalysisOutput is the complete, self-contained record produced by one
// analysis. It is built once by Analyzer.Analyze and must not be modified
// afterwards; every call returns a fresh value.
type AnalysisOutput struct {
	Basic    CandidateBasicDetails `json:"candidateBasicDetails"`
	Summary  DetailedSummary       `json:"candidateDetailedSummary"`
	Evidence []string              `json:"evidence"`
}

// Assessment returns the overall verdict carried by the record.
func (o *AnalysisOutput) Assessment() OverallAssessment {
	return OverallAssessment{
		Score:          o.Basic.OverallScore,
		Recommendation: o.Basic.Recommendation,
		CareerGap:      o.Basic.CareerGap,
		Summary:        o.Summary.ThreeBulletSummary,
	}
}
