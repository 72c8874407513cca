package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points every lookup location at an empty temp dir and clears
// the vendor API key variables.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
	if cfg.Data.Dir != "data" || cfg.Data.URL != "" {
		t.Errorf("Data = %+v", cfg.Data)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.DSN != "" {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.Server.Addr != ":8080" || len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.LLM.Enabled() {
		t.Errorf("LLM provider = %q, want none", cfg.LLM.Provider)
	}
	if cfg.LLM.Timeout != 30*time.Second || cfg.LLM.Retry.MaxAttempts != 3 {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.Anthropic.Model != "claude-haiku" {
		t.Errorf("Anthropic.Model = %q", cfg.LLM.Anthropic.Model)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "custom.yaml")
	content := `data:
  url: http://localhost:8080/data/
db:
  driver: postgres
  dsn: postgres://prep@localhost/prep
llm:
  provider: openai
  timeout: 10s
  openai:
    api_key: sk-file
    model: gpt-4.1-mini
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.File != path {
		t.Errorf("File = %q, want %q", cfg.File, path)
	}
	if cfg.Data.URL != "http://localhost:8080/data/" {
		t.Errorf("Data.URL = %q", cfg.Data.URL)
	}
	if cfg.DB.Driver != "postgres" || cfg.DB.DSN != "postgres://prep@localhost/prep" {
		t.Errorf("DB = %+v", cfg.DB)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.OpenAI.APIKey != "sk-file" || cfg.LLM.OpenAI.Model != "gpt-4.1-mini" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 10*time.Second {
		t.Errorf("Timeout = %s", cfg.LLM.Timeout)
	}
	// Untouched keys keep their defaults.
	if cfg.Data.Dir != "data" {
		t.Errorf("Data.Dir = %q", cfg.Data.Dir)
	}
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "stackprep.yaml"), []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.File == "" {
		t.Error("expected File to be set")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("STACKPREP_DB_DRIVER", "postgres")
	t.Setenv("STACKPREP_DATA_DIR", "/srv/questions")
	t.Setenv("STACKPREP_LLM_PROVIDER", "anthropic")
	t.Setenv("STACKPREP_LLM_ANTHROPIC_API_KEY", "sk-env")
	t.Setenv("STACKPREP_LLM_TIMEOUT", "5s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Driver != "postgres" {
		t.Errorf("DB.Driver = %q", cfg.DB.Driver)
	}
	if cfg.Data.Dir != "/srv/questions" {
		t.Errorf("Data.Dir = %q", cfg.Data.Dir)
	}
	if cfg.LLM.Provider != "anthropic" || cfg.LLM.Anthropic.APIKey != "sk-env" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.LLM.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s", cfg.LLM.Timeout)
	}
}

func TestLoadDiscoversVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "gm-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Provider != "gemini" || cfg.LLM.Gemini.APIKey != "gm-key" {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (LogConfig{Level: tt.level}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
