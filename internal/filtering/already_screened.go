package filtering

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/shortlist"
)

const forceFlagSetMsg = "force flag is set"

// ResumeLookup reports whether a résumé was already analyzed for a role.
type ResumeLookup interface {
	HasResume(ctx context.Context, resumeHash, role string) (bool, error)
}

type alreadyScreenedFilter struct {
	lookup ResumeLookup
	ignore bool
	logger *zap.Logger
}

// NewAlreadyScreened drops candidates whose résumé was stored before for the
// same role. With ignore set the filter keeps everybody.
func NewAlreadyScreened(lookup ResumeLookup, ignore bool, logger *zap.Logger) Filter {
	return &alreadyScreenedFilter{lookup: lookup, ignore: ignore, logger: nopIfNil(logger)}
}

func (f *alreadyScreenedFilter) Name() string { return "already_screened" }

func (f *alreadyScreenedFilter) Disable(string) {}

func (f *alreadyScreenedFilter) IsEnabled() bool { return true }

func (f *alreadyScreenedFilter) Validate() error {
	if f.lookup == nil && !f.ignore {
		return errors.New("store is required")
	}
	return nil
}

func (f *alreadyScreenedFilter) Apply(ctx context.Context, list *shortlist.Shortlist) (*shortlist.Shortlist, Step, error) {
	initial := list.Len()
	if f.ignore {
		f.logger.Info("keeping already screened candidates", zap.String("reason", forceFlagSetMsg))
		return list, Step{Initial: initial, Left: initial}, nil
	}

	var seen []string
	for _, c := range list.Items {
		found, err := f.lookup.HasResume(ctx, c.ResumeHash(), c.Analysis.Basic.RoleAppliedFor)
		if err != nil {
			return list, Step{}, fmt.Errorf("lookup candidate %s: %w", c.ID(), err)
		}
		if found {
			seen = append(seen, c.ID())
		}
	}

	excluded := list.Exclude(shortlist.CandidateIDField, seen)
	if len(excluded) > 0 {
		f.logger.Info("excluding candidates screened before",
			zap.Strings("excluded_candidates", excluded),
			zap.Int("candidates_left", list.Len()),
		)
	}

	return list, Step{Initial: initial, Dropped: len(excluded), Left: list.Len()}, nil
}

func (f *alreadyScreenedFilter) Status() Status {
	reason := ""
	if f.ignore {
		reason = "skip requested via flag"
	}
	return Status{
		Name:    f.Name(),
		Enabled: true,
		Reason:  reason,
		Details: map[string]string{"exclude_screened": strconv.FormatBool(!f.ignore)},
	}
}
