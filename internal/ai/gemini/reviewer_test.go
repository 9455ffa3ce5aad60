package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/screening"
)

type stubGenerator struct {
	response    string
	err         error
	lastSystem  string
	lastMessage string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastMessage = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func sampleOutput() *screening.AnalysisOutput {
	return &screening.AnalysisOutput{
		Basic: screening.CandidateBasicDetails{
			CandidateID:    "CND-1-ABCDEFG",
			RoleAppliedFor: "Backend Engineer",
			OverallScore:   64,
			Recommendation: screening.Consider,
		},
		Summary: screening.DetailedSummary{
			Skills:   []screening.SkillFinding{{Name: "Go"}, {Name: "Docker"}},
			Keywords: screening.KeywordMatch{Matched: []string{"golang"}, Missing: []string{"kafka"}},
		},
	}
}

func TestReviewerReview(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"fit\": true, \"score\": 0.82, \"reason\": \" Strong Go background \", \"concerns\": [\"no Kafka\", \"\"]}\n```"}
	reviewer := NewReviewer(stub, 0.5, 0, zap.NewNop())

	assessment, err := reviewer.Review(context.Background(), "resume text", "jd text", sampleOutput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !assessment.Fit || assessment.Score != 0.82 {
		t.Fatalf("unexpected assessment: %+v", assessment)
	}
	if assessment.Reason != "Strong Go background" {
		t.Fatalf("unexpected reason %q", assessment.Reason)
	}
	if len(assessment.Concerns) != 1 || assessment.Concerns[0] != "no Kafka" {
		t.Fatalf("unexpected concerns %q", assessment.Concerns)
	}
	if stub.lastSystem != systemPrompt {
		t.Fatalf("expected embedded system prompt")
	}

	var payload reviewPayload
	if err := json.Unmarshal([]byte(stub.lastMessage), &payload); err != nil {
		t.Fatalf("message is not json: %v", err)
	}
	if payload.Resume != "resume text" || payload.JobDescription != "jd text" {
		t.Fatalf("unexpected payload texts: %+v", payload)
	}
	if payload.Screening.Score != 64 || payload.Screening.Recommendation != "Consider" {
		t.Fatalf("unexpected screening reference: %+v", payload.Screening)
	}
	if len(payload.Screening.Skills) != 2 || payload.Screening.MissingKeywords[0] != "kafka" {
		t.Fatalf("unexpected screening reference: %+v", payload.Screening)
	}
}

func TestReviewerThreshold(t *testing.T) {
	stub := &stubGenerator{response: `{"fit": true, "score": 0.3, "reason": "weak"}`}
	reviewer := NewReviewer(stub, 0.5, 0, zap.NewNop())

	assessment, err := reviewer.Review(context.Background(), "r", "j", sampleOutput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assessment.Fit {
		t.Fatalf("score below threshold must not be fit")
	}
	if assessment.Concerns == nil {
		t.Fatalf("concerns must be non-nil")
	}
}

func TestReviewerErrors(t *testing.T) {
	tests := []struct {
		name string
		stub *stubGenerator
		out  *screening.AnalysisOutput
	}{
		{name: "missing output", stub: &stubGenerator{response: `{"fit": true}`}},
		{name: "generator error", stub: &stubGenerator{err: errors.New("boom")}, out: sampleOutput()},
		{name: "invalid json", stub: &stubGenerator{response: "not json"}, out: sampleOutput()},
		{name: "missing fit", stub: &stubGenerator{response: `{"score": 0.9}`}, out: sampleOutput()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviewer := NewReviewer(tt.stub, 0, 0, nil)
			if _, err := reviewer.Review(context.Background(), "r", "j", tt.out); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseResponseCoercion(t *testing.T) {
	assessment, err := parseResponse(`{"fit": "true", "score": "1.7"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !assessment.Fit {
		t.Fatalf("string true must be fit")
	}
	if assessment.Score != 1 {
		t.Fatalf("score must be clamped to 1, got %v", assessment.Score)
	}
}
