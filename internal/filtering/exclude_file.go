package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/shortlist"
)

type excludeFileFilter struct {
	path   string
	logger *zap.Logger
}

// NewExcludeFile creates a filter that removes candidates listed in the
// exclude file. An empty path makes it a no-op.
func NewExcludeFile(path string, logger *zap.Logger) Filter {
	return &excludeFileFilter{path: strings.TrimSpace(path), logger: nopIfNil(logger)}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate() error { return nil }

func (f *excludeFileFilter) Apply(_ context.Context, list *shortlist.Shortlist) (*shortlist.Shortlist, Step, error) {
	initial := list.Len()
	if f.path == "" {
		return list, Step{Initial: initial, Left: initial}, nil
	}

	excluded, err := shortlist.GetExcludedFromFile(f.path)
	if err != nil {
		return list, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := list.Exclude(shortlist.ResumeHashField, excluded.ResumeHashes())
	if len(removed) > 0 {
		f.logger.Info("excluding candidates based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_candidates", removed),
			zap.Int("candidates_left", list.Len()),
		)
	}

	return list, Step{Initial: initial, Dropped: len(removed), Left: list.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
