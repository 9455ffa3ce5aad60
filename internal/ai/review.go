package ai

import (
	"context"

	"github.com/spigell/cv-screener/internal/screening"
)

// Assessment is an LLM second opinion on an already analyzed candidate. It
// never replaces the deterministic score.
type Assessment struct {
	Fit      bool     `json:"fit"`
	Score    float64  `json:"score"`
	Reason   string   `json:"reason"`
	Concerns []string `json:"concerns,omitempty"`
	Raw      string   `json:"-"`
}

type Reviewer interface {
	Review(ctx context.Context, resume, jobDescription string, out *screening.AnalysisOutput) (*Assessment, error)
}
