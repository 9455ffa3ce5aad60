package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/utils"
)

//go:embed prompt.md
var systemPrompt string

const (
	defaultMaxLogLength = 200
	maxConcerns         = 5
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Reviewer asks Gemini for a fit opinion on an analyzed candidate.
type Reviewer struct {
	generator contentGenerator
	minScore  float64
	maxLogLen int
	logger    *zap.Logger
}

func NewReviewer(generator contentGenerator, minScore float64, maxLogLength int, logger *zap.Logger) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reviewer{
		generator: generator,
		minScore:  max(minScore, 0),
		maxLogLen: maxLogLength,
		logger:    logger,
	}
}

var _ ai.Reviewer = (*Reviewer)(nil)

type reviewPayload struct {
	JobDescription string             `json:"jobDescription"`
	Resume         string             `json:"resume"`
	Screening      screeningReference `json:"screening"`
}

type screeningReference struct {
	Score           int      `json:"score"`
	Recommendation  string   `json:"recommendation"`
	Role            string   `json:"role"`
	Skills          []string `json:"skills"`
	MissingKeywords []string `json:"missingKeywords"`
}

func (r *Reviewer) Review(ctx context.Context, resume, jobDescription string, out *screening.AnalysisOutput) (*ai.Assessment, error) {
	if out == nil {
		return nil, errors.New("analysis output is required")
	}

	message, err := buildMessage(resume, jobDescription, out)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini review request",
		zap.String("candidate_id", out.Basic.CandidateID),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini review response",
		zap.String("candidate_id", out.Basic.CandidateID),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if r.minScore > 0 && assessment.Score < r.minScore {
		r.logger.Debug("set fit to false by score threshold",
			zap.String("candidate_id", out.Basic.CandidateID),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", r.minScore),
		)
		assessment.Fit = false
	}

	return assessment, nil
}

func buildMessage(resume, jobDescription string, out *screening.AnalysisOutput) (string, error) {
	skills := make([]string, 0, len(out.Summary.Skills))
	for _, skill := range out.Summary.Skills {
		skills = append(skills, skill.Name)
	}

	payload := reviewPayload{
		JobDescription: strings.TrimSpace(jobDescription),
		Resume:         strings.TrimSpace(resume),
		Screening: screeningReference{
			Score:           out.Basic.OverallScore,
			Recommendation:  string(out.Basic.Recommendation),
			Role:            out.Basic.RoleAppliedFor,
			Skills:          skills,
			MissingKeywords: out.Summary.Keywords.Missing,
		},
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal review payload: %w", err)
	}
	return string(data), nil
}

func parseResponse(raw string) (*ai.Assessment, error) {
	cleaned := extractJSON(raw)
	if !gjson.Valid(cleaned) {
		return nil, fmt.Errorf("parse gemini response: invalid json")
	}

	fit := gjson.Get(cleaned, "fit")
	if !fit.Exists() {
		return nil, fmt.Errorf("parse gemini response: missing fit")
	}

	score := gjson.Get(cleaned, "score").Float()
	score = min(max(score, 0), 1)

	concerns := make([]string, 0)
	for _, c := range gjson.Get(cleaned, "concerns").Array() {
		text := strings.TrimSpace(c.String())
		if text == "" {
			continue
		}
		concerns = append(concerns, text)
		if len(concerns) == maxConcerns {
			break
		}
	}

	return &ai.Assessment{
		Fit:      fit.Bool(),
		Score:    score,
		Reason:   strings.TrimSpace(gjson.Get(cleaned, "reason").String()),
		Concerns: concerns,
		Raw:      raw,
	}, nil
}

// extractJSON strips markdown code fences around the model output.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}
