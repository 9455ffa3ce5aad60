package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/logger"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/store"
)

var errNoRepository = fiber.NewError(fiber.StatusServiceUnavailable, "analysis history is not configured")

type analyzeResponse struct {
	ID       string                    `json:"id,omitempty"`
	Analysis *screening.AnalysisOutput `json:"analysis"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return success(c, fiber.StatusOK, "ok", nil)
}

func (s *Server) analyze(c *fiber.Ctx) error {
	var in screening.RawInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "request body must be a JSON object")
	}

	out, err := s.analyzer.Analyze(in)
	if err != nil {
		if errors.Is(err, screening.ErrInvalidInput) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		return err
	}

	resp := analyzeResponse{Analysis: out}
	if s.repo != nil {
		id, err := s.repo.SaveAnalysis(c.UserContext(), out)
		if err != nil {
			return err
		}
		resp.ID = id
	}

	assessment := out.Assessment()
	logger.WithFields(s.logger, logger.ScreeningFields(
		out.Basic.CandidateID, out.Basic.RoleAppliedFor, string(assessment.Recommendation), assessment.Score,
	)...).Info("analysis served")

	return success(c, fiber.StatusCreated, "candidate analyzed", resp)
}

func (s *Server) listAnalyses(c *fiber.Ctx) error {
	if s.repo == nil {
		return errNoRepository
	}

	filter := store.ListFilter{Limit: c.QueryInt("limit", 0)}
	if filter.Limit < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must not be negative")
	}

	if raw := strings.TrimSpace(c.Query("recommendation")); raw != "" {
		rec, ok := parseRecommendation(raw)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "unknown recommendation: "+raw)
		}
		filter.Recommendation = rec
	}

	items, err := s.repo.ListAnalyses(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if items == nil {
		items = []store.Summary{}
	}

	return success(c, fiber.StatusOK, "", items)
}

func (s *Server) getAnalysis(c *fiber.Ctx) error {
	if s.repo == nil {
		return errNoRepository
	}

	id := c.Params("id")
	out, err := s.repo.GetAnalysis(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "analysis "+id+" not found")
		}
		s.logger.Warn("failed to load analysis", zap.String(logger.FieldCandidateID, id), zap.Error(err))
		return err
	}

	return success(c, fiber.StatusOK, "", out)
}

func parseRecommendation(raw string) (screening.Recommendation, bool) {
	for _, rec := range []screening.Recommendation{screening.StrongHire, screening.Consider, screening.Weak, screening.Reject} {
		if strings.EqualFold(raw, string(rec)) {
			return rec, true
		}
	}
	return "", false
}
