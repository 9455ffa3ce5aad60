package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/cv-screener/internal/screening"
)

const (
	testResume = `Senior Engineer at Google - 2018 to 2021
Built Go and Kubernetes services, 5 years of Docker
Developer at Acme Inc 2015 2017`
	testJD = "Backend Engineer\nWe need 3+ years of Go and Docker."
)

func analyze(t *testing.T, id, resume string) *screening.AnalysisOutput {
	t.Helper()
	a := screening.NewAnalyzer(
		screening.WithClock(func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC) }),
		screening.WithIDGenerator(func(time.Time) string { return id }),
	)
	out, err := a.Analyze(screening.RawInput{
		Resume:         resume,
		JobDescription: testJD,
		Candidate:      screening.CandidateInfo{Name: "Candidate " + id},
	})
	require.NoError(t, err)
	return out
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "screener.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGetAnalysis(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	out := analyze(t, "CND-1-AAAAAAA", testResume)
	rowID, err := s.SaveAnalysis(ctx, out)
	require.NoError(t, err)
	assert.Len(t, rowID, 36)

	got, err := s.GetAnalysis(ctx, "CND-1-AAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, out, got)

	var skills, companies int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM candidate_skills`).Scan(&skills))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM company_history`).Scan(&companies))
	assert.Equal(t, len(out.Summary.Skills), skills)
	assert.Equal(t, len(out.Summary.Companies), companies)
}

func TestGetAnalysisNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetAnalysis(context.Background(), "CND-0-MISSING")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAnalysisRejectsDuplicateDisplayID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	out := analyze(t, "CND-1-DUPLICA", testResume)
	_, err := s.SaveAnalysis(ctx, out)
	require.NoError(t, err)

	_, err = s.SaveAnalysis(ctx, out)
	require.Error(t, err)

	var candidates int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM candidates`).Scan(&candidates))
	assert.Equal(t, 1, candidates, "failed save must roll back the candidate row")
}

func TestListAnalyses(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := range 3 {
		_, err := s.SaveAnalysis(ctx, analyze(t, fmt.Sprintf("CND-%d-LISTING", i), testResume))
		require.NoError(t, err)
	}
	weak := analyze(t, "CND-9-NOSKILL", "Worked 2015 through 2016.\nReturned 2019 until 2020.")
	_, err := s.SaveAnalysis(ctx, weak)
	require.NoError(t, err)

	all, err := s.ListAnalyses(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "CND-9-NOSKILL", all[0].CandidateID, "newest first")
	assert.Equal(t, "Candidate CND-9-NOSKILL", all[0].Name)
	assert.Equal(t, "Backend Engineer", all[0].Role)

	limited, err := s.ListAnalyses(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	rejected, err := s.ListAnalyses(ctx, ListFilter{Recommendation: weak.Basic.Recommendation})
	require.NoError(t, err)
	for _, sum := range rejected {
		assert.Equal(t, weak.Basic.Recommendation, sum.Recommendation)
	}
	assert.NotEmpty(t, rejected)

	none, err := s.ListAnalyses(ctx, ListFilter{Recommendation: "Unknown"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestHasResume(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	hash := ResumeHash(testResume)
	found, err := s.HasResume(ctx, hash, "Backend Engineer")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = s.SaveAnalysis(ctx, analyze(t, "CND-1-HASHED1", testResume))
	require.NoError(t, err)

	found, err = s.HasResume(ctx, hash, "Backend Engineer")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.HasResume(ctx, hash, "Data Scientist")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = s.HasResume(ctx, hash, "")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestResumeHash(t *testing.T) {
	assert.Equal(t, ResumeHash("resume"), ResumeHash("  resume\n"))
	assert.NotEqual(t, ResumeHash("resume"), ResumeHash("résumé"))
	assert.Len(t, ResumeHash(""), 64)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.SaveAnalysis(context.Background(), analyze(t, "CND-1-MEMORY1", testResume))
	require.NoError(t, err)

	_, err = Open("  ")
	require.Error(t, err)
}
