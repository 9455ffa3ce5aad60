package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/ai"
	"github.com/spigell/cv-screener/internal/ai/gemini"
	"github.com/spigell/cv-screener/internal/logger"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/secrets"
	"github.com/spigell/cv-screener/internal/store"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

// bootstrap builds the logger and the config every command starts from.
func bootstrap() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func redacted(config *Config) *Config {
	c := *config
	if c.AI != nil && c.AI.Gemini != nil && c.AI.Gemini.APIKey != "" {
		aiCfg := *c.AI
		g := *aiCfg.Gemini
		g.APIKey = "***"
		aiCfg.Gemini = &g
		c.AI = &aiCfg
	}
	return &c
}

func newAnalyzer(config *Config, logger *zap.Logger) *screening.Analyzer {
	catalog, err := config.catalog()
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}

	return screening.NewAnalyzer(
		screening.WithCatalog(catalog),
		screening.WithLogger(logger),
	)
}

// openStore returns nil when no history path is configured.
func openStore(config *Config, logger *zap.Logger) *store.Store {
	path := strings.TrimSpace(config.Store.Path)
	if path == "" {
		logger.Debug("history store is disabled")
		return nil
	}

	s, err := store.Open(path)
	if err != nil {
		logger.Fatal("opening history store", zap.Error(err), zap.String("path", path))
	}

	logger.Debug("history store opened", zap.String("path", path))
	return s
}

func readText(path, what string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("%s file is required", what)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", what, err)
	}
	return string(data), nil
}

func newAIReviewer(ctx context.Context, cfg *AIConfig, base *zap.Logger) (ai.Reviewer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	genLogger := logger.WithProvider(base, "gemini", cfg.Gemini.Model).
		With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	reviewerLogger := logger.WithProvider(base, "gemini", generator.Model()).
		With(zap.Float64("minimum_fit_score", minScore))

	return gemini.NewReviewer(generator, minScore, cfg.Gemini.MaxLogLength, reviewerLogger), nil
}
