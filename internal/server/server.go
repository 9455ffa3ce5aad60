package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Analyzer runs a single screening.
type Analyzer interface {
	Analyze(in screening.RawInput) (*screening.AnalysisOutput, error)
}

// Repository persists analyses. It is optional.
type Repository interface {
	SaveAnalysis(ctx context.Context, out *screening.AnalysisOutput) (string, error)
	GetAnalysis(ctx context.Context, candidateID string) (*screening.AnalysisOutput, error)
	ListAnalyses(ctx context.Context, filter store.ListFilter) ([]store.Summary, error)
}

type Server struct {
	app      *fiber.App
	analyzer Analyzer
	repo     Repository
	logger   *zap.Logger
}

type Option func(*Server)

func WithRepository(repo Repository) Option {
	return func(s *Server) {
		s.repo = repo
	}
}

func New(analyzer Analyzer, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		analyzer: analyzer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "cv-screener",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(s.logRequest)

	s.app.Get("/healthz", s.health)
	s.app.Post("/analyze", s.analyze)
	s.app.Get("/analyses", s.listAnalyses)
	s.app.Get("/analyses/:id", s.getAnalysis)

	return s
}

// App exposes the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("address", addr))
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if message == "" {
		message = "Internal Server Error"
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}

	return errorResponse(c, code, message)
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	s.logger.Debug("request served",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}
