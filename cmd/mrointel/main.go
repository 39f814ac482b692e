package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"MROIntel/internal/app"
	"MROIntel/internal/config"
	"MROIntel/internal/logging"
)

var (
	configPath string
	runOnce    bool
	noCache    bool
	noAI       bool
)

var rootCmd = &cobra.Command{
	Use:   "mrointel",
	Short: "Generates MRO market intelligence reports",
	Long: "mrointel gathers research narratives, trade interventions, and economic\n" +
		"series, scores them against the distributor profile, and renders a\n" +
		"sector-organized report. Runs once or on a cron schedule.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "generate one report and exit")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")
	rootCmd.Flags().BoolVar(&noAI, "no-ai", false, "use template statements instead of AI enrichment")
}

func run(ctx context.Context) error {
	// Missing .env is fine; real deployments use environment variables.
	_ = godotenv.Load()

	cfg := config.Load(configPath)
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, app.Options{NoCache: noCache, NoAI: noAI}, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runOnce {
		defer func() {
			if err := application.Stop(context.Background()); err != nil {
				logger.Warn("shutdown incomplete", "error", err)
			}
		}()
		return application.RunOnce(ctx)
	}

	if err := application.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return application.Stop(context.Background())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logging.New("error").Error("application stopped", "error", err)
		os.Exit(1)
	}
}
