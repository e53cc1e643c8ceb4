package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvLogLevel, EnvTargetLang, EnvTranslator, EnvRedisAddr} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Summarizer.Ratio != 0.45 {
		t.Errorf("Ratio = %v, want 0.45", cfg.Summarizer.Ratio)
	}
	if cfg.Translator.Type != "libre" || cfg.Translator.Target != "hi" {
		t.Errorf("Translator = %+v", cfg.Translator)
	}
	if cfg.Translator.Attempts != 3 || cfg.Translator.RetryDelay() != 2*time.Second || cfg.Translator.Timeout() != 30*time.Second {
		t.Errorf("retry settings = %+v", cfg.Translator)
	}
	if cfg.Stopwords.Sources["hi"] == "" {
		t.Error("default Hindi stopword source missing")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadPartialFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
summarizer:
  ratio: 0.3
translator:
  type: gemini
  target: ta
cache:
  type: redis
  redis:
    addr: localhost:6379
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Summarizer.Ratio != 0.3 || cfg.Translator.Target != "ta" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Translator.Gemini == nil || cfg.Translator.Gemini.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("gemini defaults missing: %+v", cfg.Translator.Gemini)
	}
	if cfg.Watcher.MaxConcurrent != 2 || cfg.Logging.Format != "text" {
		t.Errorf("defaults missing: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("summarizer: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvTargetLang, "Bengali")
	t.Setenv(EnvTranslator, "OpenAI")
	t.Setenv(EnvRedisAddr, "redis:6379")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	if cfg.Translator.Target != "bn" {
		t.Errorf("Target = %q, want bn", cfg.Translator.Target)
	}
	if cfg.Translator.Type != "openai" || cfg.Translator.OpenAI == nil || cfg.Translator.OpenAI.Model == "" {
		t.Errorf("Translator = %+v", cfg.Translator)
	}
	if cfg.Cache.Type != "redis" || cfg.Cache.Redis.Addr != "redis:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"ratio too large", func(c *AppConfig) { c.Summarizer.Ratio = 1.5 }},
		{"ratio negative", func(c *AppConfig) { c.Summarizer.Ratio = -0.1 }},
		{"unknown target", func(c *AppConfig) { c.Translator.Target = "fr" }},
		{"unknown translator", func(c *AppConfig) { c.Translator.Type = "babel" }},
		{"unknown cache", func(c *AppConfig) { c.Cache.Type = "disk" }},
		{"redis without addr", func(c *AppConfig) { c.Cache.Type = "redis"; c.Cache.Redis = nil }},
		{"unknown output format", func(c *AppConfig) { c.Output.Format = "pdf" }},
		{"unknown log format", func(c *AppConfig) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.Translator.Target = "ur"
	cfg.Extractor.OCRLanguages = []string{"en", "ur"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Translator.Target != "ur" || len(got.Extractor.OCRLanguages) != 2 || !got.Extractor.OCR {
		t.Errorf("loaded = %+v", got)
	}
}

func TestLoadResolvesStopwordSources(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	list := filepath.Join(dir, "lists", "hi.txt")
	if err := os.MkdirAll(filepath.Dir(list), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(list, []byte("और\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	abs := filepath.Join(dir, "abs.txt")
	path := filepath.Join(dir, "config.yaml")
	data := "stopwords:\n  sources:\n    hi: lists/hi.txt\n    bn: missing/bn.txt\n    mr: " + abs + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	tests := []struct {
		lang string
		want string
	}{
		{"hi", list},
		{"bn", filepath.Join("missing", "bn.txt")},
		{"mr", abs},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := cfg.Stopwords.Sources[tt.lang]; got != tt.want {
				t.Errorf("Sources[%s] = %q, want %q", tt.lang, got, tt.want)
			}
		})
	}
}

func TestLoadDefaultsResolveAgainstConfigDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	list := filepath.Join(dir, "assets", "stopwords", "hi.txt")
	if err := os.MkdirAll(filepath.Dir(list), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(list, []byte("और\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, "none.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Stopwords.Sources["hi"]; got != list {
		t.Errorf("Sources[hi] = %q, want %q", got, list)
	}
}
