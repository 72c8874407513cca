package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/stackprep/internal/app"
	"github.com/abhisek/stackprep/internal/explain"
	"github.com/abhisek/stackprep/internal/llm"
	"github.com/abhisek/stackprep/internal/screens/home"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, dsn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	logger, closeLog, err := fileLogger(cfg, dsn)
	if err != nil {
		return err
	}
	defer closeLog()

	repo, err := newRepository(cfg, logger)
	if err != nil {
		return err
	}

	eventRepo := st.EventRepo()
	timer, _ := cmd.Flags().GetString("timer")
	deps := home.Deps{
		Repo:      repo,
		Events:    eventRepo,
		Snapshots: st.SnapshotRepo(),
		Logger:    logger,
		Filter:    filterFromFlags(cmd),
		TimerMode: timer,
	}

	if cfg.LLM.Enabled() {
		provider, err := llm.NewProvider(ctx, cfg.LLM, eventRepo, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Explanations will be unavailable.")
		} else {
			deps.Explainer = explain.NewService(provider, explain.DefaultConfig())
		}
	}

	logger.Info("starting", "data", cfg.Data.Dir, "url", cfg.Data.URL, "llm", cfg.LLM.Provider)
	return app.Run(deps)
}
