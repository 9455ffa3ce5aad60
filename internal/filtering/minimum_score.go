package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/shortlist"
)

type minimumScoreFilter struct {
	toggle
	minimum int
	logger  *zap.Logger
}

// NewMinimumScore drops candidates whose overall score is below minimum. A
// non-positive minimum disables the filter.
func NewMinimumScore(minimum int, logger *zap.Logger) Filter {
	f := &minimumScoreFilter{toggle: toggle{enabled: true}, minimum: minimum, logger: nopIfNil(logger)}
	if minimum <= 0 {
		f.Disable("minimum score is not set")
	}
	return f
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Validate() error {
	if f.minimum > 100 {
		return fmt.Errorf("minimum score %d is above 100", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, list *shortlist.Shortlist) (*shortlist.Shortlist, Step, error) {
	initial := list.Len()
	dropped := list.Keep(func(c *shortlist.Candidate) bool {
		return c.Analysis.Basic.OverallScore >= f.minimum
	})

	if len(dropped) > 0 {
		f.logger.Info("excluding candidates below minimum score",
			zap.Int("minimum_score", f.minimum),
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", list.Len()),
		)
	}

	return list, Step{Initial: initial, Dropped: len(dropped), Left: list.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"minimum_score": strconv.Itoa(f.minimum)},
	}
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
