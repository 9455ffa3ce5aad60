package shortlist

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/store"
)

const (
	CandidateIDField = "ID"
	ResumeHashField  = "ResumeHash"
)

// Shortlist is the set of candidates screened against one job description.
type Shortlist struct {
	JobDescription string       `json:"jobDescription"`
	Items          []*Candidate `json:"items"`
}

type Candidate struct {
	// Source is where the résumé was read from, usually a file path.
	Source   string                    `json:"source,omitempty"`
	Analysis *screening.AnalysisOutput `json:"analysis"`
	Review   *Review                   `json:"review,omitempty"`
}

// Review is the optional LLM opinion attached by the ai_review filter.
type Review struct {
	Fit      bool     `json:"fit"`
	Score    float64  `json:"score"`
	Reason   string   `json:"reason,omitempty"`
	Concerns []string `json:"concerns,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func NewReview(a *ai.Assessment) *Review {
	return &Review{Fit: a.Fit, Score: a.Score, Reason: a.Reason, Concerns: a.Concerns}
}

func New(jobDescription string) *Shortlist {
	return &Shortlist{JobDescription: jobDescription}
}

func (s *Shortlist) Add(source string, out *screening.AnalysisOutput) {
	s.Items = append(s.Items, &Candidate{Source: source, Analysis: out})
}

func (s *Shortlist) Len() int {
	return len(s.Items)
}

func (c *Candidate) ID() string {
	return c.Analysis.Basic.CandidateID
}

func (c *Candidate) ResumeHash() string {
	return store.ResumeHash(c.Analysis.Basic.Resume)
}

func (c *Candidate) GetStringField(name string) string {
	switch name {
	case CandidateIDField:
		return c.ID()
	case ResumeHashField:
		return c.ResumeHash()
	default:
		return ""
	}
}

func (s *Shortlist) FindByID(id string) *Candidate {
	for _, c := range s.Items {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// Exclude drops every candidate whose field matches one of targets and
// returns the dropped candidate ids in list order.
func (s *Shortlist) Exclude(field string, targets []string) []string {
	var excluded []string
	for idx := len(s.Items) - 1; idx >= 0; idx-- {
		c := s.Items[idx]
		if slices.Contains(targets, c.GetStringField(field)) {
			s.RemoveByIndex(idx)
			excluded = append(excluded, c.ID())
		}
	}
	slices.Reverse(excluded)
	return excluded
}

// Keep retains only the candidates for which keep returns true and returns
// the ids of the dropped ones.
func (s *Shortlist) Keep(keep func(*Candidate) bool) []string {
	var dropped []string
	kept := s.Items[:0]
	for _, c := range s.Items {
		if keep(c) {
			kept = append(kept, c)
			continue
		}
		dropped = append(dropped, c.ID())
	}
	clear(s.Items[len(kept):])
	s.Items = kept
	return dropped
}

// RemoveByIndex removes one candidate and keeps the order of the rest.
func (s *Shortlist) RemoveByIndex(idx int) {
	s.Items = slices.Delete(s.Items, idx, idx+1)
}

// ReportByRecommendation groups the candidates by recommendation label.
func (s *Shortlist) ReportByRecommendation() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, c := range s.Items {
		basic := c.Analysis.Basic
		entry := map[string]string{
			"id":    basic.CandidateID,
			"name":  basic.Name,
			"role":  basic.RoleAppliedFor,
			"score": strconv.Itoa(basic.OverallScore),
		}
		if c.Source != "" {
			entry["source"] = c.Source
		}
		if basic.CareerGap != "" {
			entry["career_gap"] = basic.CareerGap
		}
		if c.Review != nil {
			if c.Review.Error != "" {
				entry["ai_error"] = c.Review.Error
			} else {
				entry["ai_fit"] = strconv.FormatBool(c.Review.Fit)
				entry["ai_score"] = strconv.FormatFloat(c.Review.Score, 'f', -1, 64)
				entry["ai_reason"] = c.Review.Reason
			}
		}

		key := string(basic.Recommendation)
		report[key] = append(report[key], entry)
	}
	return report
}

// Outputs returns the analysis records in list order.
func (s *Shortlist) Outputs() []*screening.AnalysisOutput {
	outputs := make([]*screening.AnalysisOutput, 0, len(s.Items))
	for _, c := range s.Items {
		outputs = append(outputs, c.Analysis)
	}
	return outputs
}

func (s *Shortlist) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("encode shortlist: %w", err)
	}
	return file.Name(), nil
}
