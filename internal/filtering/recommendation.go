package filtering

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/shortlist"
)

var knownRecommendations = []screening.Recommendation{
	screening.StrongHire, screening.Consider, screening.Weak, screening.Reject,
}

type recommendationFilter struct {
	toggle
	allowed []screening.Recommendation
	logger  *zap.Logger
}

// NewRecommendation keeps only candidates whose label is in allowed. An
// empty list disables the filter.
func NewRecommendation(allowed []string, logger *zap.Logger) Filter {
	f := &recommendationFilter{toggle: toggle{enabled: true}, logger: nopIfNil(logger)}
	for _, label := range allowed {
		if label = strings.TrimSpace(label); label != "" {
			f.allowed = append(f.allowed, screening.Recommendation(label))
		}
	}
	if len(f.allowed) == 0 {
		f.Disable("no recommendations configured")
	}
	return f
}

func (f *recommendationFilter) Name() string { return "recommendation" }

func (f *recommendationFilter) Validate() error {
	for _, label := range f.allowed {
		if !slices.Contains(knownRecommendations, label) {
			return fmt.Errorf("unknown recommendation %q", label)
		}
	}
	return nil
}

func (f *recommendationFilter) Apply(_ context.Context, list *shortlist.Shortlist) (*shortlist.Shortlist, Step, error) {
	initial := list.Len()
	dropped := list.Keep(func(c *shortlist.Candidate) bool {
		return slices.Contains(f.allowed, c.Analysis.Basic.Recommendation)
	})

	if len(dropped) > 0 {
		f.logger.Info("excluding candidates by recommendation",
			zap.Strings("excluded_candidates", dropped),
			zap.Int("candidates_left", list.Len()),
		)
	}

	return list, Step{Initial: initial, Dropped: len(dropped), Left: list.Len()}, nil
}

func (f *recommendationFilter) Status() Status {
	labels := make([]string, 0, len(f.allowed))
	for _, label := range f.allowed {
		labels = append(labels, string(label))
	}
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"allowed": strings.Join(labels, ", ")},
	}
}
