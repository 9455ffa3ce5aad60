package screening

import (
	"time"

	"go.uber.org/zap"
)

// Analyzer runs the screening pipeline. It holds only read-only
// configuration, so one Analyzer may serve concurrent Analyze calls.
type Analyzer struct {
	catalog Catalog
	skills  []skillMatcher
	now     func() time.Time
	newID   func(time.Time) string
	logger  *zap.Logger
}

type Option func(*Analyzer)

// WithCatalog replaces the default term lists.
func WithCatalog(catalog Catalog) Option {
	return func(a *Analyzer) {
		a.catalog = catalog
	}
}

// WithClock sets the source of the "screened on" timestamp and of the year
// used for open-ended tenures.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

func WithIDGenerator(newID func(time.Time) string) Option {
	return func(a *Analyzer) {
		if newID != nil {
			a.newID = newID
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		catalog: DefaultCatalog(),
		now:     time.Now,
		newID:   NewCandidateID,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.skills = compileSkills(a.catalog.Skills)
	return a
}

// Catalog returns the term lists the analyzer matches against.
func (a *Analyzer) Catalog() Catalog {
	return a.catalog
}

// Analyze validates the input and produces a complete record, or an error
// wrapping ErrInvalidInput. No partial record is ever returned.
func (a *Analyzer) Analyze(in RawInput) (*AnalysisOutput, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := a.now()
	resume, jd := in.Resume, in.JobDescription

	skills := extractSkills(resume, jd, a.skills)
	companies := ExtractCompanies(resume, a.catalog, now)
	experience := ExtractExperience(resume)
	education := ExtractEducation(resume, a.catalog.Degrees)
	gap, hasGap := DetectCareerGap(resume)
	keywords := ExtractKeywordMatch(resume, jd)
	title := ExtractJobTitle(jd)

	components := ComponentScores{
		Skill:        SkillScore(skills),
		Experience:   ExperienceScore(experience, jd),
		Education:    EducationScore(education, jd),
		Company:      CompanyScore(companies),
		Compensation: CompensationScore(in.Candidate.CurrentCTC, in.Candidate.ExpectedCTC),
	}

	overall := OverallScore(components, hasGap)
	recommendation := Recommend(overall)

	careerGap := ""
	if hasGap {
		careerGap = gap.String()
	}

	out := &AnalysisOutput{
		Basic: CandidateBasicDetails{
			CandidateID:    a.newID(now),
			Name:           in.Candidate.Name,
			Mobile:         in.Candidate.Mobile,
			LinkedIn:       in.Candidate.LinkedIn,
			RoleAppliedFor: title,
			Location:       in.Candidate.Location,
			ScreenedOn:     now.UTC().Format(time.RFC3339),
			Recommendation: recommendation,
			Resume:         resume,
			OverallScore:   overall,
			CurrentCTC:     in.Candidate.CurrentCTC,
			ExpectedCTC:    in.Candidate.ExpectedCTC,
			Relocation:     in.Candidate.Relocation,
			CareerGap:      careerGap,
		},
		Summary: DetailedSummary{
			ThreeBulletSummary:  Summarize(overall, skills, companies, keywords),
			InterviewExperience: noInterviewHistory,
			Skills:              skills,
			Companies:           companies,
			Keywords:            keywords,
			Relevancy: CategoryScores{
				JobTitleMatch:       JobTitleMatchScore(resume, title),
				SkillsMatch:         KeywordMatchRate(keywords),
				CertificationsMatch: CertificationScore(resume, jd, a.catalog.CertificationKeywords),
				EducationMatch:      components.Education,
				ExperienceMatch:     components.Experience,
				SkillScore:          components.Skill,
			},
			InterviewPerformanceSummary: noInterviewHistory,
		},
		Evidence: ExtractEvidence(resume),
	}

	a.logger.Debug("candidate analyzed",
		zap.String("candidate_id", out.Basic.CandidateID),
		zap.String("role", title),
		zap.Int("overall_score", overall),
		zap.String("recommendation", string(recommendation)),
		zap.Int("skills", len(skills)),
		zap.Int("companies", len(companies)),
		zap.Bool("career_gap", hasGap),
	)

	return out, nil
}
