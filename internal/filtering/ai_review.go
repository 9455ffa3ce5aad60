package filtering

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/shortlist"
)

type AIReviewConfig struct {
	Enabled         bool
	Provider        string
	MinimumFitScore float64
	// DropUnfit removes candidates the reviewer rejects; otherwise they are
	// only annotated.
	DropUnfit bool
}

type AIReviewDeps struct {
	Reviewer    ai.Reviewer
	ExcludeFile string
	Logger      *zap.Logger
}

type aiReviewFilter struct {
	toggle
	config *AIReviewConfig
	deps   *AIReviewDeps
}

// NewAIReview asks the reviewer for a second opinion on every candidate. It
// never changes the deterministic score. Review failures are recorded on
// the candidate and the candidate is kept.
func NewAIReview(cfg *AIReviewConfig, deps *AIReviewDeps) Filter {
	if cfg == nil {
		cfg = &AIReviewConfig{}
	}
	f := &aiReviewFilter{toggle: toggle{enabled: cfg.Enabled}, config: cfg, deps: deps}
	if !cfg.Enabled {
		f.reason = "ai review is disabled in config"
	}
	return f
}

func (f *aiReviewFilter) Name() string { return "ai_review" }

func (f *aiReviewFilter) Validate() error {
	if f.deps == nil || f.deps.Reviewer == nil {
		return errors.New("reviewer is not initialized: filter is not usable")
	}
	if f.deps.Logger == nil {
		f.deps.Logger = zap.NewNop()
	}
	return nil
}

func (f *aiReviewFilter) Apply(ctx context.Context, list *shortlist.Shortlist) (*shortlist.Shortlist, Step, error) {
	initial := list.Len()
	logger := f.deps.Logger

	var rejected []*shortlist.Candidate
	for _, c := range list.Items {
		if err := ctx.Err(); err != nil {
			return list, Step{}, err
		}

		assessment, err := f.deps.Reviewer.Review(ctx, c.Analysis.Basic.Resume, list.JobDescription, c.Analysis)
		if err != nil {
			logger.Warn("AI review failed", zap.String("candidate_id", c.ID()), zap.Error(err))
			c.Review = &shortlist.Review{Error: err.Error()}
			continue
		}

		c.Review = shortlist.NewReview(assessment)
		if assessment.Fit {
			logger.Info("candidate approved by AI",
				zap.String("candidate_id", c.ID()),
				zap.Float64("ai_score", assessment.Score),
			)
			continue
		}

		logger.Info("candidate rejected by AI",
			zap.String("candidate_id", c.ID()),
			zap.Float64("ai_score", assessment.Score),
			zap.String("reason", assessment.Reason),
		)
		rejected = append(rejected, c)
	}

	if f.config.DropUnfit && len(rejected) > 0 {
		list.Keep(func(c *shortlist.Candidate) bool {
			return c.Review == nil || c.Review.Error != "" || c.Review.Fit
		})
		f.appendToExcludeFile(rejected)
	}

	left := list.Len()
	return list, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *aiReviewFilter) appendToExcludeFile(rejected []*shortlist.Candidate) {
	path := strings.TrimSpace(f.deps.ExcludeFile)
	if path == "" {
		return
	}

	excluded := &shortlist.ExcludedCandidates{}
	for _, c := range rejected {
		batch := (&shortlist.Shortlist{Items: []*shortlist.Candidate{c}}).ToExcluded(shortlist.ExcludeActorAI, c.Review.Reason)
		excluded.Append(batch)
	}

	if err := shortlist.AppendToFile(path, excluded); err != nil {
		f.deps.Logger.Warn("failed to append candidates to exclude file", zap.String("exclude_file", path), zap.Error(err))
		return
	}

	f.deps.Logger.Info("candidates appended to exclude file",
		zap.Int("count", len(excluded.Items)),
		zap.String("exclude_file", path),
	)
}

func (f *aiReviewFilter) Status() Status {
	details := map[string]string{
		"drop_unfit":        strconv.FormatBool(f.config.DropUnfit),
		"minimum_fit_score": strconv.FormatFloat(f.config.MinimumFitScore, 'f', -1, 64),
	}
	if f.config.Provider != "" {
		details["provider"] = f.config.Provider
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}
