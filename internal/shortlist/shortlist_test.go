package shortlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spigell/cv-screener/internal/screening"
)

func candidate(id, resume string, score int, rec screening.Recommendation) *screening.AnalysisOutput {
	return &screening.AnalysisOutput{
		Basic: screening.CandidateBasicDetails{
			CandidateID:    id,
			Name:           "Name " + id,
			RoleAppliedFor: "Backend Engineer",
			Resume:         resume,
			OverallScore:   score,
			Recommendation: rec,
		},
	}
}

func sampleList() *Shortlist {
	list := New("jd")
	list.Add("a.txt", candidate("A", "resume a", 82, screening.StrongHire))
	list.Add("b.txt", candidate("B", "resume b", 65, screening.Consider))
	list.Add("c.txt", candidate("C", "resume c", 30, screening.Reject))
	list.Add("d.txt", candidate("D", "resume d", 61, screening.Consider))
	return list
}

func ids(list *Shortlist) []string {
	out := make([]string, 0, list.Len())
	for _, c := range list.Items {
		out = append(out, c.ID())
	}
	return out
}

func TestExcludeKeepsOrder(t *testing.T) {
	list := sampleList()

	removed := list.Exclude(CandidateIDField, []string{"C", "A", "missing"})
	if !slices.Equal(removed, []string{"A", "C"}) {
		t.Fatalf("unexpected removed ids: %q", removed)
	}
	if !slices.Equal(ids(list), []string{"B", "D"}) {
		t.Fatalf("unexpected remaining ids: %q", ids(list))
	}

	hash := list.FindByID("D").ResumeHash()
	removed = list.Exclude(ResumeHashField, []string{hash})
	if !slices.Equal(removed, []string{"D"}) {
		t.Fatalf("unexpected removed by hash: %q", removed)
	}
	if list.FindByID("D") != nil {
		t.Fatalf("D must be gone")
	}
}

func TestKeep(t *testing.T) {
	list := sampleList()

	dropped := list.Keep(func(c *Candidate) bool { return c.Analysis.Basic.OverallScore >= 60 })
	if !slices.Equal(dropped, []string{"C"}) {
		t.Fatalf("unexpected dropped: %q", dropped)
	}
	if !slices.Equal(ids(list), []string{"A", "B", "D"}) {
		t.Fatalf("unexpected kept: %q", ids(list))
	}
}

func TestReportByRecommendation(t *testing.T) {
	list := sampleList()
	list.FindByID("B").Review = &Review{Fit: true, Score: 0.91, Reason: "Matches stack"}
	list.FindByID("D").Review = &Review{Error: "timeout"}

	report := list.ReportByRecommendation()

	consider := report[string(screening.Consider)]
	if len(consider) != 2 {
		t.Fatalf("expected 2 Consider entries, got %d", len(consider))
	}
	if consider[0]["id"] != "B" || consider[0]["score"] != "65" || consider[0]["source"] != "b.txt" {
		t.Fatalf("unexpected entry: %v", consider[0])
	}
	if consider[0]["ai_fit"] != "true" || consider[0]["ai_score"] != "0.91" || consider[0]["ai_reason"] != "Matches stack" {
		t.Fatalf("unexpected ai fields: %v", consider[0])
	}
	if consider[1]["ai_error"] != "timeout" {
		t.Fatalf("expected ai_error, got %v", consider[1])
	}
	if _, ok := consider[1]["ai_fit"]; ok {
		t.Fatalf("errored review must not report fit")
	}
	if len(report[string(screening.Reject)]) != 1 {
		t.Fatalf("expected one Reject entry")
	}
}

func TestDumpToTmpFile(t *testing.T) {
	list := sampleList()

	name, err := list.DumpToTmpFile()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var decoded Shortlist
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if decoded.Len() != 4 || decoded.JobDescription != "jd" {
		t.Fatalf("unexpected dump content: %+v", decoded)
	}
}

func TestExcludedFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")

	missing, err := GetExcludedFromFile(path)
	if err != nil {
		t.Fatalf("missing file must be empty: %v", err)
	}
	if len(missing.Items) != 0 {
		t.Fatalf("expected empty list")
	}

	list := sampleList()
	list.Keep(func(c *Candidate) bool { return c.ID() == "A" || c.ID() == "C" })

	if err := AppendToFile(path, list.ToExcluded(ExcludeActorManual, "")); err != nil {
		t.Fatalf("append: %v", err)
	}
	second := New("jd")
	second.Add("e.txt", candidate("E", "resume e", 10, screening.Reject))
	if err := AppendToFile(path, second.ToExcluded(ExcludeActorAI, "not a fit")); err != nil {
		t.Fatalf("append: %v", err)
	}

	excluded, err := GetExcludedFromFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(excluded.Items) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(excluded.Items))
	}
	if excluded.Items[2].Actor != ExcludeActorAI || excluded.Items[2].Reason != "not a fit" {
		t.Fatalf("unexpected last entry: %+v", excluded.Items[2])
	}

	fresh := sampleList()
	removed := fresh.Exclude(ResumeHashField, excluded.ResumeHashes())
	if !slices.Equal(removed, []string{"A", "C"}) {
		t.Fatalf("unexpected removed: %q", removed)
	}
}

func TestGetExcludedFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	excluded, err := GetExcludedFromFile(path)
	if err != nil || len(excluded.Items) != 0 {
		t.Fatalf("expected empty list, got %+v, %v", excluded, err)
	}
}
