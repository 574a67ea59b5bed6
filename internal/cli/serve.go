package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the onboarding, plan and dashboard HTTP API.

Configuration comes from the environment (ADDR, DATABASE_URL, PLANS_API_URL,
EXPERIMENTS_FORCE_CONTROL, ...). Flags override it.

Examples:
  despertar serve
  despertar serve --addr :3000 --force-control`,
	RunE: runServe,
}

var (
	serveAddr         string
	serveDB           string
	serveForceControl bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides ADDR)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Database URL (overrides DATABASE_URL)")
	serveCmd.Flags().BoolVar(&serveForceControl, "force-control", false, "Assign every user to variant A")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := app.New()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveDB != "" {
		cfg.DatabaseURL = serveDB
	}
	if serveForceControl {
		cfg.Experiments.ForceControl = true
	}

	logger, err := app.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
