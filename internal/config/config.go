package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"docsum/internal/languages"
)

// SummarizerConfig configures extractive summarization.
type SummarizerConfig struct {
	Ratio     float64 `yaml:"ratio"`
	Normalize bool    `yaml:"normalize"`
	Keywords  int     `yaml:"keywords"`
}

// StopwordsConfig maps language codes to word-list files.
type StopwordsConfig struct {
	Sources map[string]string `yaml:"sources"`
}

// LibreConfig holds configuration for a LibreTranslate-compatible server.
type LibreConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Source    string `yaml:"source"`
}

// GeminiConfig configures the Gemini translator.
type GeminiConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// OpenAIConfig configures the OpenAI-compatible translator.
type OpenAIConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// TranslatorConfig selects and configures the translation backend.
type TranslatorConfig struct {
	Type        string        `yaml:"type"`
	Target      string        `yaml:"target"`
	Attempts    int           `yaml:"attempts"`
	DelaySecs   int           `yaml:"delay_secs"`
	TimeoutSecs int           `yaml:"timeout_secs"`
	Libre       *LibreConfig  `yaml:"libre,omitempty"`
	Gemini      *GeminiConfig `yaml:"gemini,omitempty"`
	OpenAI      *OpenAIConfig `yaml:"openai,omitempty"`
}

// RedisConfig contains connection details for the redis cache.
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	PasswordEnv string `yaml:"password_env"`
	DB          int    `yaml:"db"`
	TTLSecs     int    `yaml:"ttl_secs"`
}

// CacheConfig selects the translation cache.
type CacheConfig struct {
	Type       string       `yaml:"type"`
	MaxEntries int          `yaml:"max_entries"`
	Redis      *RedisConfig `yaml:"redis,omitempty"`
}

// DetectorConfig configures language detection.
type DetectorConfig struct {
	Strict bool `yaml:"strict"`
}

// ExtractorConfig configures text extraction and OCR.
type ExtractorConfig struct {
	OCR          bool     `yaml:"ocr"`
	OCRImages    bool     `yaml:"ocr_images"`
	MaxImages    int      `yaml:"max_images"`
	Tesseract    string   `yaml:"tesseract"`
	OCRLanguages []string `yaml:"ocr_languages"`
}

// OutputConfig configures report files.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

// WatcherConfig configures the inbox watcher.
type WatcherConfig struct {
	Dir           string `yaml:"dir"`
	MaxConcurrent int    `yaml:"max_concurrent"`
	SettleMillis  int    `yaml:"settle_ms"`
	ScanExisting  bool   `yaml:"scan_existing"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Stopwords  StopwordsConfig  `yaml:"stopwords"`
	Translator TranslatorConfig `yaml:"translator"`
	Cache      CacheConfig      `yaml:"cache"`
	Detector   DetectorConfig   `yaml:"detector"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Output     OutputConfig     `yaml:"output"`
	Watcher    WatcherConfig    `yaml:"watcher"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Environment variables that override file settings.
const (
	EnvLogLevel   = "DOCSUM_LOG_LEVEL"
	EnvTargetLang = "DOCSUM_TARGET_LANG"
	EnvTranslator = "DOCSUM_TRANSLATOR"
	EnvRedisAddr  = "DOCSUM_REDIS_ADDR"
)

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			resolveSources(cfg, filepath.Dir(path))
			return cfg, nil
		}
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	applyConfigDefaults(&cfg)
	applyEnv(&cfg)
	resolveSources(&cfg, filepath.Dir(path))
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docsum/config.yaml.
// If neither exists, it writes defaults to ~/.config/docsum/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	applyEnv(cfg)
	resolveSources(cfg, filepath.Dir(userPath))
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "create config dir")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return eris.Wrap(err, "encode config")
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports the first setting that cannot work.
func (c *AppConfig) Validate() error {
	r := c.Summarizer.Ratio
	if math.IsNaN(r) || r <= 0 || r > 1 {
		return eris.Errorf("summarizer.ratio must be within (0, 1], got %v", r)
	}
	if !languages.Valid(c.Translator.Target) {
		return eris.Errorf("translator.target %q is not one of %s", c.Translator.Target, strings.Join(languages.Codes(), ", "))
	}
	if !slices.Contains([]string{"libre", "gemini", "openai", "none"}, c.Translator.Type) {
		return eris.Errorf("unknown translator: %s", c.Translator.Type)
	}
	if !slices.Contains([]string{"memory", "redis", "none"}, c.Cache.Type) {
		return eris.Errorf("unknown cache: %s", c.Cache.Type)
	}
	if c.Cache.Type == "redis" && (c.Cache.Redis == nil || c.Cache.Redis.Addr == "") {
		return eris.New("cache.redis.addr is required for the redis cache")
	}
	if !slices.Contains([]string{"md", "markdown", "docx"}, strings.ToLower(c.Output.Format)) {
		return eris.Errorf("unknown output format: %s", c.Output.Format)
	}
	if !slices.Contains([]string{"text", "json"}, c.Logging.Format) {
		return eris.Errorf("unknown log format: %s", c.Logging.Format)
	}
	return nil
}

// RetryDelay is the pause between translation attempts.
func (t TranslatorConfig) RetryDelay() time.Duration {
	return time.Duration(t.DelaySecs) * time.Second
}

// SettleDelay is the wait between a create event and processing.
func (w WatcherConfig) SettleDelay() time.Duration {
	return time.Duration(w.SettleMillis) * time.Millisecond
}

// Timeout bounds a single translation attempt.
func (t TranslatorConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSecs) * time.Second
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "resolve home dir")
	}
	return filepath.Join(home, ".config", "docsum", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Summarizer: SummarizerConfig{Ratio: 0.45, Keywords: 8},
		Stopwords: StopwordsConfig{Sources: map[string]string{
			"hi": filepath.Join("assets", "stopwords", "hi.txt"),
		}},
		Translator: TranslatorConfig{Type: "libre", Target: "hi"},
		Cache:      CacheConfig{Type: "memory"},
		Extractor: ExtractorConfig{
			OCR:          true,
			OCRImages:    true,
			MaxImages:    20,
			OCRLanguages: []string{"en", "hi"},
		},
		Output:  OutputConfig{Dir: "reports", Format: "md"},
		Watcher: WatcherConfig{Dir: "inbox", ScanExisting: true},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Stopwords.Sources == nil {
		cfg.Stopwords.Sources = map[string]string{
			"hi": filepath.Join("assets", "stopwords", "hi.txt"),
		}
	}
	if cfg.Summarizer.Ratio == 0 {
		cfg.Summarizer.Ratio = 0.45
	}
	if cfg.Translator.Type == "" {
		cfg.Translator.Type = "libre"
	}
	if cfg.Translator.Target == "" {
		cfg.Translator.Target = "hi"
	}
	if cfg.Translator.Attempts == 0 {
		cfg.Translator.Attempts = 3
	}
	if cfg.Translator.DelaySecs == 0 {
		cfg.Translator.DelaySecs = 2
	}
	if cfg.Translator.TimeoutSecs == 0 {
		cfg.Translator.TimeoutSecs = 30
	}
	switch cfg.Translator.Type {
	case "libre":
		if cfg.Translator.Libre == nil {
			cfg.Translator.Libre = &LibreConfig{}
		}
		if cfg.Translator.Libre.BaseURL == "" {
			cfg.Translator.Libre.BaseURL = "http://localhost:5000"
		}
	case "gemini":
		if cfg.Translator.Gemini == nil {
			cfg.Translator.Gemini = &GeminiConfig{}
		}
		if cfg.Translator.Gemini.APIKeyEnv == "" {
			cfg.Translator.Gemini.APIKeyEnv = "GEMINI_API_KEY"
		}
		if cfg.Translator.Gemini.Model == "" {
			cfg.Translator.Gemini.Model = "gemini-2.0-flash"
		}
	case "openai":
		if cfg.Translator.OpenAI == nil {
			cfg.Translator.OpenAI = &OpenAIConfig{}
		}
		if cfg.Translator.OpenAI.APIKeyEnv == "" {
			cfg.Translator.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Translator.OpenAI.Model == "" {
			cfg.Translator.OpenAI.Model = "gpt-4o-mini"
		}
	}
	if cfg.Cache.Type == "" {
		cfg.Cache.Type = "memory"
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 1000
	}
	if cfg.Extractor.Tesseract == "" {
		cfg.Extractor.Tesseract = "tesseract"
	}
	if len(cfg.Extractor.OCRLanguages) == 0 {
		cfg.Extractor.OCRLanguages = []string{"en"}
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "reports"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "md"
	}
	if cfg.Watcher.Dir == "" {
		cfg.Watcher.Dir = "inbox"
	}
	if cfg.Watcher.MaxConcurrent == 0 {
		cfg.Watcher.MaxConcurrent = 2
	}
	if cfg.Watcher.SettleMillis == 0 {
		cfg.Watcher.SettleMillis = 500
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func applyEnv(cfg *AppConfig) {
	if v := getEnv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := getEnv(EnvTargetLang); v != "" {
		if l, ok := languages.Lookup(v); ok {
			v = l.Code
		}
		cfg.Translator.Target = v
	}
	if v := getEnv(EnvTranslator); v != "" {
		cfg.Translator.Type = strings.ToLower(v)
		applyConfigDefaults(cfg)
	}
	if v := getEnv(EnvRedisAddr); v != "" {
		if cfg.Cache.Redis == nil {
			cfg.Cache.Redis = &RedisConfig{}
		}
		cfg.Cache.Redis.Addr = v
		cfg.Cache.Type = "redis"
	}
}

// resolveSources makes relative stopword paths independent of the working
// directory. Candidates are tried in order: the config file's directory, the
// working directory, then the executable's directory. Paths found nowhere are
// left untouched so the loader can report them.
func resolveSources(cfg *AppConfig, configDir string) {
	dirs := []string{configDir, "."}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	for lang, p := range cfg.Stopwords.Sources {
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		for _, dir := range dirs {
			candidate := filepath.Join(dir, p)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				if abs, err := filepath.Abs(candidate); err == nil {
					candidate = abs
				}
				cfg.Stopwords.Sources[lang] = candidate
				break
			}
		}
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
