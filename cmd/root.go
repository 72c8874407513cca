package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/stackprep/internal/bank"
	"github.com/abhisek/stackprep/internal/config"
	"github.com/abhisek/stackprep/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "stackprep",
	Short: "Data engineering interview practice in the terminal",
	Long: "stackprep quizzes you on data engineering stacks (Spark, PySpark, Airflow, Python, Java, SQL)\n" +
		"with flashcards, timed MCQ sessions and a survival mode, and reports per-topic strengths.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default ./stackprep.yaml or the user config dir)")
	pf.String("data", "", "Question bank directory or http(s) URL (overrides data.dir / data.url)")
	pf.String("db", "", "SQLite file or Postgres DSN (overrides STACKPREP_DB and db.dsn)")

	addFilterFlags(rootCmd)
	rootCmd.Flags().String("timer", "", "MCQ practice type: none, overall or per-question")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if d, _ := cmd.Flags().GetString("data"); d != "" {
		if strings.HasPrefix(d, "http://") || strings.HasPrefix(d, "https://") {
			cfg.Data.URL = d
		} else {
			cfg.Data.Dir, cfg.Data.URL = d, ""
		}
	}
	if db, _ := cmd.Flags().GetString("db"); db != "" {
		cfg.DB.DSN = db
	}
	return cfg, nil
}

// resolveDSN returns the database DSN, falling back to the default sqlite
// path for an empty sqlite DSN.
func resolveDSN(cfg *config.Config) (string, error) {
	if cfg.DB.DSN != "" {
		if isSQLite(cfg) {
			if err := os.MkdirAll(filepath.Dir(cfg.DB.DSN), 0o755); err != nil {
				return "", fmt.Errorf("create database dir: %w", err)
			}
		}
		return cfg.DB.DSN, nil
	}
	if !isSQLite(cfg) {
		return "", fmt.Errorf("db.dsn is required for the %s driver", cfg.DB.Driver)
	}
	return store.DefaultDBPath()
}

func isSQLite(cfg *config.Config) bool {
	switch strings.ToLower(cfg.DB.Driver) {
	case "", store.DriverSQLite, "sqlite3":
		return true
	}
	return false
}

// openStore opens the history store described by cfg.
func openStore(cfg *config.Config) (*store.Store, string, error) {
	dsn, err := resolveDSN(cfg)
	if err != nil {
		return nil, "", fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(cfg.DB.Driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open store: %w", err)
	}
	return st, dsn, nil
}

// newRepository builds the question repository for the configured source.
func newRepository(cfg *config.Config, logger *slog.Logger) (*bank.Repository, error) {
	if cfg.Data.URL != "" {
		src, err := bank.NewHTTPSource(cfg.Data.URL, nil)
		if err != nil {
			return nil, err
		}
		return bank.NewRepository(src, bank.WithLogger(logger)), nil
	}
	if _, err := os.Stat(cfg.Data.Dir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	return bank.NewRepository(bank.NewDirSource(os.DirFS(cfg.Data.Dir)), bank.WithLogger(logger)), nil
}

// stderrLogger is the logger for non-interactive commands.
func stderrLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
}

// fileLogger is the logger for the TUI, which owns the terminal. An empty
// log.file puts the log next to a sqlite database; with another driver the
// output is discarded.
func fileLogger(cfg *config.Config, dsn string) (*slog.Logger, func() error, error) {
	path := cfg.Log.File
	if path == "" && isSQLite(cfg) {
		path = filepath.Join(filepath.Dir(dsn), "stackprep.log")
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})), f.Close, nil
}

func addFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("stack", nil, "Tech stacks to include (repeatable or comma separated)")
	f.StringSlice("difficulty", nil, "Difficulties to include: Easy, Medium, Hard")
	f.StringSlice("topic", nil, "Topics to include")
}

func filterFromFlags(cmd *cobra.Command) bank.Filter {
	stacks, _ := cmd.Flags().GetStringSlice("stack")
	diffs, _ := cmd.Flags().GetStringSlice("difficulty")
	topics, _ := cmd.Flags().GetStringSlice("topic")
	return bank.Filter{Difficulties: diffs, TechStacks: stacks, Topics: topics}
}
