package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/export"
	"github.com/spigell/cv-screener/internal/logger"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/shortlist"
	"github.com/spigell/cv-screener/internal/store"
)

const (
	PromptSave                = "Save to history"
	PromptExcel               = "Export to Excel"
	PromptDumpToFile          = "Dump to file"
	PromptReport              = "Report by recommendation"
	PromptManualReview        = "Review candidates one by one"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
	PromptExclude             = "Exclude candidate"

	defaultWorkbook = "screening.xlsx"
)

var errExit = errors.New("exit requested")

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one résumé against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "file with the résumé text")
	analyzeCmd.Flags().String("jd", "", "file with the job description text")
	analyzeCmd.Flags().BoolP("auto-approve", "y", false, "print the analysis as JSON and exit without prompting")
	analyzeCmd.Flags().String("name", "", "candidate name")
	analyzeCmd.Flags().String("mobile", "", "candidate phone number")
	analyzeCmd.Flags().String("linkedin", "", "candidate LinkedIn URL")
	analyzeCmd.Flags().String("location", "", "candidate location")
	analyzeCmd.Flags().String("current-ctc", "", "current compensation")
	analyzeCmd.Flags().String("expected-ctc", "", "expected compensation")
	analyzeCmd.Flags().String("relocation", "", "relocation preference")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := bootstrap()
	logger.Info("starting the cv-screener", zap.String("version", version))

	flags := cmd.Flags()
	resumePath, _ := flags.GetString("resume")
	jdPath, _ := flags.GetString("jd")

	resume, err := readText(resumePath, "resume")
	if err != nil {
		logger.Fatal("reading input", zap.Error(err))
	}
	jd, err := readText(jdPath, "job description")
	if err != nil {
		logger.Fatal("reading input", zap.Error(err))
	}

	in := screening.RawInput{
		Resume:         resume,
		JobDescription: jd,
		Candidate:      candidateFromFlags(cmd),
	}

	out, err := newAnalyzer(config, logger).Analyze(in)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	list := shortlist.New(jd)
	list.Add(resumePath, out)

	db := openStore(config, logger)
	if db != nil {
		defer db.Close()
	}

	if auto, _ := flags.GetBool("auto-approve"); auto {
		if db != nil {
			if err := saveShortlist(ctx, db, list, logger); err != nil {
				logger.Fatal("saving analysis", zap.Error(err))
			}
		}
		if err := export.ToJSON(os.Stdout, list.Outputs()); err != nil {
			logger.Fatal("printing analysis", zap.Error(err))
		}
		return
	}

	if err := actionLoop(ctx, db, config, list, logger); err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}
}

func candidateFromFlags(cmd *cobra.Command) screening.CandidateInfo {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	return screening.CandidateInfo{
		Name:        get("name"),
		Mobile:      get("mobile"),
		LinkedIn:    get("linkedin"),
		Location:    get("location"),
		CurrentCTC:  get("current-ctc"),
		ExpectedCTC: get("expected-ctc"),
		Relocation:  get("relocation"),
	}
}

// actionLoop keeps asking what to do with the shortlist until the user exits.
func actionLoop(ctx context.Context, db *store.Store, config *Config, list *shortlist.Shortlist, logger *zap.Logger) error {
	for {
		if list.Len() == 0 {
			logger.Info("exiting", zap.String("reason", "no candidates left"))
			return nil
		}

		items := []string{PromptReport, PromptManualReview, PromptExcel, PromptDumpToFile}
		if db != nil {
			items = append(items, PromptSave)
		}
		if config.Filters.ExcludeFile != "" {
			items = append(items, PromptAppendToExcludeFile)
		}
		items = append(items, PromptExit)

		prompt := promptui.Select{
			Label: "Proceed?",
			Items: items,
		}

		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		logger.Info("current list of candidates", zap.Int("count", list.Len()))

		if err := handleAction(ctx, action, db, config, list, logger); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func handleAction(ctx context.Context, action string, db *store.Store, config *Config, list *shortlist.Shortlist, logger *zap.Logger) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptSave:
		return saveShortlist(ctx, db, list, logger)
	case PromptReport:
		pretty, _ := json.MarshalIndent(list.ReportByRecommendation(), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", list.Len()))
		return nil
	case PromptManualReview:
		return manualReview(config, list, logger)
	case PromptExcel:
		return exportToExcel(list, logger)
	case PromptDumpToFile:
		filename, err := list.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(config.Filters.ExcludeFile, list, list.Outputs(), logger)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func saveShortlist(ctx context.Context, db *store.Store, list *shortlist.Shortlist, log *zap.Logger) error {
	for _, c := range list.Items {
		id, err := db.SaveAnalysis(ctx, c.Analysis)
		if err != nil {
			return fmt.Errorf("save %s: %w", c.ID(), err)
		}
		assessment := c.Analysis.Assessment()
		logger.WithFields(log, logger.ScreeningFields(
			c.ID(), c.Analysis.Basic.RoleAppliedFor, string(assessment.Recommendation), assessment.Score,
		)...).Debug("analysis saved", zap.String("row_id", id))
	}

	log.Info("saved analyses to history", zap.Int("count", list.Len()))
	return nil
}

func exportToExcel(list *shortlist.Shortlist, logger *zap.Logger) error {
	prompt := promptui.Prompt{
		Label:   "Workbook path",
		Default: defaultWorkbook,
	}

	path, err := prompt.Run()
	if err != nil {
		return err
	}

	return exportTo(list, path, logger)
}

// appendToExcludeFile stores the given candidates in the exclude file and
// removes them from the shortlist.
func appendToExcludeFile(path string, list *shortlist.Shortlist, outputs []*screening.AnalysisOutput, logger *zap.Logger) error {
	selected := &shortlist.Shortlist{JobDescription: list.JobDescription}
	for _, out := range outputs {
		if c := list.FindByID(out.Basic.CandidateID); c != nil {
			selected.Items = append(selected.Items, c)
		}
	}

	excluded := selected.ToExcluded(shortlist.ExcludeActorManual, "excluded from the prompt")
	if err := shortlist.AppendToFile(path, excluded); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", path), zap.Int("count", selected.Len()))

	list.Exclude(shortlist.ResumeHashField, excluded.ResumeHashes())
	return nil
}

func manualReview(config *Config, list *shortlist.Shortlist, logger *zap.Logger) error {
	for {
		if list.Len() == 0 {
			return nil
		}

		items := make([]string, 0, list.Len()+1)
		for _, c := range list.Items {
			b := c.Analysis.Basic
			items = append(items, fmt.Sprintf("%s %s / %d / %s", b.CandidateID, b.Name, b.OverallScore, b.Recommendation))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		idx, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		c := list.Items[idx]
		pretty, _ := json.MarshalIndent(c.Analysis.Assessment(), "", "  ")
		logger.Info(string(pretty), zap.String("candidate_id", c.ID()), zap.String("source", c.Source))

		actions := []string{PromptBack}
		if config.Filters.ExcludeFile != "" {
			actions = append(actions, PromptExclude)
		}

		actionPrompt := promptui.Select{
			Label: "What to do with " + c.ID(),
			Items: actions,
		}

		_, action, err := actionPrompt.Run()
		if err != nil {
			return err
		}
		if action == PromptExclude {
			if err := appendToExcludeFile(config.Filters.ExcludeFile, list, []*screening.AnalysisOutput{c.Analysis}, logger); err != nil {
				return err
			}
		}
	}
}
