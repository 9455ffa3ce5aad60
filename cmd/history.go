package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/export"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [candidate id]",
	Short: "List stored analyses or print one of them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		history(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringP("recommendation", "r", "", "show only analyses with this recommendation")
	historyCmd.Flags().IntP("limit", "n", 0, "maximum number of analyses to list")
}

func history(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, config := bootstrap()

	db := openStore(config, logger)
	if db == nil {
		logger.Fatal("history store is not configured", zap.String("hint", "set store.path, --store or CV_SCREENER_STORE_PATH"))
	}
	defer db.Close()

	if len(args) == 1 {
		out, err := db.GetAnalysis(ctx, args[0])
		if err != nil {
			logger.Fatal("loading analysis", zap.String("candidate_id", args[0]), zap.Error(err))
		}
		if err := export.ToJSON(os.Stdout, []*screening.AnalysisOutput{out}); err != nil {
			logger.Fatal("printing analysis", zap.Error(err))
		}
		return
	}

	rec, _ := cmd.Flags().GetString("recommendation")
	limit, _ := cmd.Flags().GetInt("limit")

	filter := store.ListFilter{Recommendation: screening.Recommendation(rec), Limit: limit}
	items, err := db.ListAnalyses(ctx, filter)
	if err != nil {
		logger.Fatal("listing analyses", zap.Error(err))
	}

	if len(items) == 0 {
		logger.Info("no analyses found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CANDIDATE\tNAME\tROLE\tSCORE\tRECOMMENDATION\tANALYZED AT")
	for _, s := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", s.CandidateID, s.Name, s.Role, s.Score, s.Recommendation, s.AnalyzedAt)
	}
	if err := w.Flush(); err != nil {
		logger.Fatal("printing history", zap.Error(err))
	}
}
