package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/cv-screener/internal/export"
	"github.com/spigell/cv-screener/internal/filtering"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/shortlist"
	"github.com/spigell/cv-screener/internal/store"
)

var resumeExtensions = []string{".txt", ".md", ".text"}

var batchCmd = &cobra.Command{
	Use:   "batch [resume files or directories...]",
	Short: "Screen many résumés against one job description and filter the results",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		batch(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("jd", "", "file with the job description text")
	batchCmd.Flags().IntP("workers", "w", 0, "number of résumés analyzed in parallel")
	batchCmd.Flags().BoolP("force", "f", false, "do not drop résumés already screened for this role")
	batchCmd.Flags().BoolP("auto-approve", "y", false, "do not prompt; save and export right away")
	batchCmd.Flags().StringP("output", "o", "", "write the remaining candidates to this Excel workbook")
	batchCmd.Flags().IntP("minimum-score", "m", 0, "drop candidates scoring below this value")
	batchCmd.Flags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")
	batchCmd.Flags().StringSlice("skip-filter", nil, "names of filters to disable for this run")

	viper.BindPFlag("batch.workers", batchCmd.Flags().Lookup("workers"))
	viper.BindPFlag("filters.minimum-score", batchCmd.Flags().Lookup("minimum-score"))
	viper.BindPFlag("filters.exclude-file", batchCmd.Flags().Lookup("exclude-file"))
}

func batch(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, config := bootstrap()
	logger.Info("starting the cv-screener", zap.String("version", version))

	flags := cmd.Flags()
	jdPath, _ := flags.GetString("jd")
	jd, err := readText(jdPath, "job description")
	if err != nil {
		logger.Fatal("reading input", zap.Error(err))
	}

	files, err := collectResumes(args)
	if err != nil {
		logger.Fatal("collecting résumés", zap.Error(err))
	}
	if len(files) == 0 {
		logger.Info("exiting", zap.String("reason", "no résumés found"))
		return
	}

	logger.Info("screening résumés", zap.Int("count", len(files)), zap.Int("workers", config.Batch.Workers))

	list, err := screenFiles(ctx, newAnalyzer(config, logger), files, jd, config.Batch.Workers, logger)
	if err != nil {
		logger.Fatal("screening failed", zap.Error(err))
	}

	db := openStore(config, logger)
	if db != nil {
		defer db.Close()
	}

	force, _ := flags.GetBool("force")
	filters := prepareFilters(ctx, db, config, force, logger)

	skip, _ := flags.GetStringSlice("skip-filter")
	for _, name := range skip {
		filters.DisableByName(strings.TrimSpace(name), "disabled from the command line")
	}

	for _, status := range filters.Describe() {
		logger.Debug("filter configured",
			zap.String("filter", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	list, err = filters.RunFilters(ctx, list)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if list.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	if auto, _ := flags.GetBool("auto-approve"); auto {
		if db != nil {
			if err := saveShortlist(ctx, db, list, logger); err != nil {
				logger.Fatal("saving analyses", zap.Error(err))
			}
		}
		output, _ := flags.GetString("output")
		if output != "" {
			if err := exportTo(list, output, logger); err != nil {
				logger.Fatal("export failed", zap.Error(err))
			}
		}
		return
	}

	if err := actionLoop(ctx, db, config, list, logger); err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
}

// collectResumes expands directories into the résumé files they contain.
// The result is sorted and free of duplicates.
func collectResumes(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			files = append(files, filepath.Clean(arg))
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !slices.Contains(resumeExtensions, strings.ToLower(filepath.Ext(e.Name()))) {
				continue
			}
			files = append(files, filepath.Join(arg, e.Name()))
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// screenFiles analyzes every file on a bounded worker pool. The shortlist
// keeps the order of files. Unreadable or invalid résumés are logged and
// skipped.
func screenFiles(ctx context.Context, analyzer *screening.Analyzer, files []string, jd string, workers int, logger *zap.Logger) (*shortlist.Shortlist, error) {
	if workers <= 0 {
		workers = 1
	}

	results := make([]*screening.AnalysisOutput, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			resume, err := readText(file, "resume")
			if err != nil {
				logger.Warn("skipping résumé", zap.String("file", file), zap.Error(err))
				return nil
			}

			out, err := analyzer.Analyze(screening.RawInput{
				Resume:         resume,
				JobDescription: jd,
				Candidate:      screening.CandidateInfo{Name: candidateNameFromFile(file)},
			})
			if err != nil {
				logger.Warn("skipping résumé", zap.String("file", file), zap.Error(err))
				return nil
			}

			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screen résumés: %w", err)
	}

	list := shortlist.New(jd)
	for i, out := range results {
		if out != nil {
			list.Add(files[i], out)
		}
	}

	logger.Info("screened résumés", zap.Int("analyzed", list.Len()), zap.Int("skipped", len(files)-list.Len()))
	return list, nil
}

// candidateNameFromFile turns "jane_doe.txt" into "jane doe".
func candidateNameFromFile(file string) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(name))
}

func exportTo(list *shortlist.Shortlist, path string, logger *zap.Logger) error {
	saved, err := export.ToExcel(list.Outputs(), path)
	if err != nil {
		return fmt.Errorf("export to excel: %w", err)
	}
	logger.Info("exported to excel", zap.String("filename", saved), zap.Int("count", list.Len()))
	return nil
}

func prepareFilters(ctx context.Context, db *store.Store, config *Config, force bool, logger *zap.Logger) *filtering.Filtering {
	steps := []filtering.Filter{
		filtering.NewExcludeFile(config.Filters.ExcludeFile, logger),
	}

	if db != nil {
		steps = append(steps, filtering.NewAlreadyScreened(db, force, logger))
	}

	steps = append(steps,
		filtering.NewMinimumScore(config.Filters.MinimumScore, logger),
		filtering.NewRecommendation(config.Filters.Recommendations, logger),
		prepareAIFilter(ctx, config, logger),
	)

	return filtering.New(steps, logger)
}

func prepareAIFilter(ctx context.Context, config *Config, logger *zap.Logger) filtering.Filter {
	cfg := &filtering.AIReviewConfig{
		Enabled:         config.AI.Enabled,
		Provider:        config.AI.Provider,
		MinimumFitScore: config.AI.MinimumFitScore,
		DropUnfit:       config.AI.DropUnfit,
	}

	if !cfg.Enabled {
		return filtering.NewAIReview(cfg, nil)
	}

	reviewer, err := newAIReviewer(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping AI filter", zap.Error(err))
		cfg.Enabled = false
		return filtering.NewAIReview(cfg, nil)
	}

	return filtering.NewAIReview(cfg, &filtering.AIReviewDeps{
		Reviewer:    reviewer,
		ExcludeFile: config.Filters.ExcludeFile,
		Logger:      logger,
	})
}
