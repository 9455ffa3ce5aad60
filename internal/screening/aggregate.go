package screening

// Weights of the overall score. The interview component has no data source
// and always contributes zero.
const (
	skillWeight        = 0.35
	experienceWeight   = 0.20
	educationWeight    = 0.10
	companyWeight      = 0.10
	compensationWeight = 0.05
	interviewWeight    = 0.15

	careerGapPenalty = -5
)

// ComponentScores are the inputs of the weighted overall score.
type ComponentScores struct {
	Skill        int
	Experience   int
	Education    int
	Company      int
	Compensation int
	Interview    int
}

// OverallScore rounds the weighted sum (with the career-gap penalty applied
// before rounding) and clamps the result to [0, 100].
func OverallScore(c ComponentScores, hasGap bool) int {
	penalty := 0.0
	if hasGap {
		penalty = careerGapPenalty
	}

	raw := skillWeight*float64(c.Skill) +
		experienceWeight*float64(c.Experience) +
		educationWeight*float64(c.Education) +
		companyWeight*float64(c.Company) +
		compensationWeight*float64(c.Compensation) +
		interviewWeight*float64(c.Interview) +
		penalty

	return clamp(roundHalfUp(raw), 0, 100)
}

// Recommend maps an overall score to its label using inclusive lower bounds.
func Recommend(score int) Recommendation {
	switch {
	case score >= 80:
		return StrongHire
	case score >= 60:
		return Consider
	case score >= 40:
		return Weak
	default:
		return Reject
	}
}
