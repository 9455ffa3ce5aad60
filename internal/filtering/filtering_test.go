package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/shortlist"
)

func output(id string, score int, rec screening.Recommendation) *screening.AnalysisOutput {
	return &screening.AnalysisOutput{
		Basic: screening.CandidateBasicDetails{
			CandidateID:    id,
			RoleAppliedFor: "Backend Engineer",
			Resume:         "resume " + id,
			OverallScore:   score,
			Recommendation: rec,
		},
	}
}

func sampleList() *shortlist.Shortlist {
	list := shortlist.New("Backend Engineer\nGo")
	list.Add("a.txt", output("A", 82, screening.StrongHire))
	list.Add("b.txt", output("B", 65, screening.Consider))
	list.Add("c.txt", output("C", 30, screening.Reject))
	list.Add("d.txt", output("D", 45, screening.Weak))
	return list
}

func ids(list *shortlist.Shortlist) []string {
	out := make([]string, 0, list.Len())
	for _, c := range list.Items {
		out = append(out, c.ID())
	}
	return out
}

type fakeLookup struct {
	seen map[string]bool
	err  error
}

func (f *fakeLookup) HasResume(_ context.Context, hash, _ string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.seen[hash], nil
}

type fakeReviewer struct {
	fit  map[string]bool
	fail map[string]bool
	jds  []string
}

func (f *fakeReviewer) Review(_ context.Context, _, jd string, out *screening.AnalysisOutput) (*ai.Assessment, error) {
	f.jds = append(f.jds, jd)
	id := out.Basic.CandidateID
	if f.fail[id] {
		return nil, errors.New("provider unavailable")
	}
	return &ai.Assessment{Fit: f.fit[id], Score: 0.5, Reason: "reason " + id}, nil
}

func TestMinimumScore(t *testing.T) {
	list, step, err := NewMinimumScore(60, nil).Apply(context.Background(), sampleList())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !slices.Equal(ids(list), []string{"A", "B"}) {
		t.Fatalf("unexpected ids: %q", ids(list))
	}
	if step != (Step{Initial: 4, Dropped: 2, Left: 2}) {
		t.Fatalf("unexpected step: %+v", step)
	}

	if NewMinimumScore(0, nil).IsEnabled() {
		t.Fatalf("zero minimum must disable the filter")
	}
	if err := NewMinimumScore(120, nil).Validate(); err == nil {
		t.Fatalf("expected validation error above 100")
	}
}

func TestRecommendation(t *testing.T) {
	f := NewRecommendation([]string{"Strong Hire", " Consider "}, nil)
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	list, _, err := f.Apply(context.Background(), sampleList())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !slices.Equal(ids(list), []string{"A", "B"}) {
		t.Fatalf("unexpected ids: %q", ids(list))
	}

	if err := NewRecommendation([]string{"Maybe"}, nil).Validate(); err == nil {
		t.Fatalf("expected unknown label error")
	}
	if NewRecommendation(nil, nil).IsEnabled() {
		t.Fatalf("empty list must disable the filter")
	}
}

func TestExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")

	seed := sampleList()
	seed.Keep(func(c *shortlist.Candidate) bool { return c.ID() == "B" })
	if err := shortlist.AppendToFile(path, seed.ToExcluded(shortlist.ExcludeActorManual, "")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	list, step, err := NewExcludeFile(path, nil).Apply(context.Background(), sampleList())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !slices.Equal(ids(list), []string{"A", "C", "D"}) || step.Dropped != 1 {
		t.Fatalf("unexpected result: %q %+v", ids(list), step)
	}

	list, step, err = NewExcludeFile("", nil).Apply(context.Background(), sampleList())
	if err != nil || list.Len() != 4 || step.Dropped != 0 {
		t.Fatalf("empty path must be a no-op")
	}
}

func TestAlreadyScreened(t *testing.T) {
	list := sampleList()
	lookup := &fakeLookup{seen: map[string]bool{list.FindByID("C").ResumeHash(): true}}

	f := NewAlreadyScreened(lookup, false, nil)
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	list, step, err := f.Apply(context.Background(), list)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !slices.Equal(ids(list), []string{"A", "B", "D"}) || step.Dropped != 1 {
		t.Fatalf("unexpected result: %q %+v", ids(list), step)
	}

	ignored, _, err := NewAlreadyScreened(nil, true, nil).Apply(context.Background(), sampleList())
	if err != nil || ignored.Len() != 4 {
		t.Fatalf("ignore flag must keep everybody")
	}

	if err := NewAlreadyScreened(nil, false, nil).Validate(); err == nil {
		t.Fatalf("expected error without store")
	}

	_, _, err = NewAlreadyScreened(&fakeLookup{err: errors.New("db down")}, false, nil).Apply(context.Background(), sampleList())
	if err == nil {
		t.Fatalf("expected lookup error")
	}
}

func TestAIReviewAnnotatesAndDrops(t *testing.T) {
	excludeFile := filepath.Join(t.TempDir(), "excluded.json")
	reviewer := &fakeReviewer{
		fit:  map[string]bool{"A": true, "B": false, "D": false},
		fail: map[string]bool{"C": true},
	}

	f := NewAIReview(&AIReviewConfig{Enabled: true, DropUnfit: true}, &AIReviewDeps{
		Reviewer:    reviewer,
		ExcludeFile: excludeFile,
	})
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	list, step, err := f.Apply(context.Background(), sampleList())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if !slices.Equal(ids(list), []string{"A", "C"}) {
		t.Fatalf("unexpected ids: %q", ids(list))
	}
	if step != (Step{Initial: 4, Dropped: 2, Left: 2}) {
		t.Fatalf("unexpected step: %+v", step)
	}
	if list.FindByID("C").Review.Error != "provider unavailable" {
		t.Fatalf("failed review must be recorded")
	}
	if list.FindByID("A").Analysis.Basic.OverallScore != 82 {
		t.Fatalf("review must not change the score")
	}
	if reviewer.jds[0] != "Backend Engineer\nGo" {
		t.Fatalf("reviewer must receive the job description")
	}

	excluded, err := shortlist.GetExcludedFromFile(excludeFile)
	if err != nil {
		t.Fatalf("read exclude file: %v", err)
	}
	if len(excluded.Items) != 2 || excluded.Items[0].Actor != shortlist.ExcludeActorAI || excluded.Items[0].Reason != "reason B" {
		t.Fatalf("unexpected exclude file: %+v", excluded.Items)
	}
}

func TestAIReviewAnnotateOnly(t *testing.T) {
	reviewer := &fakeReviewer{fit: map[string]bool{}}
	f := NewAIReview(&AIReviewConfig{Enabled: true}, &AIReviewDeps{Reviewer: reviewer})
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	list, _, err := f.Apply(context.Background(), sampleList())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if list.Len() != 4 {
		t.Fatalf("annotate-only review must keep everybody")
	}
	for _, c := range list.Items {
		if c.Review == nil || c.Review.Fit {
			t.Fatalf("expected unfit annotation on %s", c.ID())
		}
	}
}

func TestRunFilters(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	aiReview := NewAIReview(&AIReviewConfig{Enabled: false}, nil)
	pipeline := New([]Filter{
		NewMinimumScore(40, logger),
		NewRecommendation([]string{"Strong Hire", "Consider", "Weak"}, logger),
		NewExcludeFile("", logger),
		aiReview,
	}, logger)

	list, err := pipeline.RunFilters(context.Background(), sampleList())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !slices.Equal(ids(list), []string{"A", "B", "D"}) {
		t.Fatalf("unexpected ids: %q", ids(list))
	}

	if got := observed.FilterMessage("filter step").Len(); got != 3 {
		t.Fatalf("expected 3 filter step entries, got %d", got)
	}
	if got := observed.FilterMessage("filter disabled").Len(); got != 1 {
		t.Fatalf("expected 1 disabled entry, got %d", got)
	}

	statuses := pipeline.Describe()
	if len(statuses) != 4 {
		t.Fatalf("expected 4 statuses, got %d", len(statuses))
	}
	if statuses[3].Name != "ai_review" || statuses[3].Enabled || statuses[3].Reason == "" {
		t.Fatalf("unexpected ai status: %+v", statuses[3])
	}
}

func TestRunFiltersValidatesFirst(t *testing.T) {
	reviewer := &fakeReviewer{}
	pipeline := New([]Filter{
		NewAIReview(&AIReviewConfig{Enabled: true}, &AIReviewDeps{Reviewer: reviewer}),
		NewRecommendation([]string{"Maybe"}, nil),
	}, nil)

	if _, err := pipeline.RunFilters(context.Background(), sampleList()); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(reviewer.jds) != 0 {
		t.Fatalf("no filter may run when validation fails")
	}

	pipeline.DisableByName("recommendation", "test")
	list, err := pipeline.RunFilters(context.Background(), sampleList())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if list.Len() != 4 {
		t.Fatalf("annotate-only review must keep everybody")
	}
}
