package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the screening HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := bootstrap()
	logger.Info("starting the cv-screener", zap.String("version", version))

	var opts []server.Option
	if db := openStore(config, logger); db != nil {
		defer db.Close()
		opts = append(opts, server.WithRepository(db))
	} else {
		logger.Warn("history store is not configured; analyses will not be saved",
			zap.String("hint", "set store.path or CV_SCREENER_STORE_PATH"),
		)
	}

	srv := server.New(newAnalyzer(config, logger), logger, opts...)
	if err := srv.Run(ctx, config.Server.Listen); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
