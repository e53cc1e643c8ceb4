package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"docsum/internal/cache/memory"
	"docsum/internal/cache/redis"
	"docsum/internal/config"
	"docsum/internal/detect"
	"docsum/internal/domain"
	"docsum/internal/extract"
	"docsum/internal/logger"
	"docsum/internal/service"
	"docsum/internal/stopwords"
	"docsum/internal/summarizer"
	"docsum/internal/tokenizer"
	"docsum/internal/translate"
	"docsum/internal/translate/gemini"
	"docsum/internal/translate/libre"
	"docsum/internal/translate/openai"
	"docsum/pkg/executor"
)

// app holds the assembled pipeline and whatever needs closing afterwards.
type app struct {
	cfg      *config.AppConfig
	log      logger.Logger
	pipeline *service.Pipeline
	cache    domain.Cache
}

func (a *app) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

// assemble builds every component selected by cfg.
func assemble(ctx context.Context, cfg *config.AppConfig, log logger.Logger) (*app, error) {
	tok, err := tokenizer.New()
	if err != nil {
		return nil, err
	}
	sw := stopwords.NewLoader(cfg.Stopwords.Sources, log)
	sum := summarizer.NewExtractive(tok, sw, cfg.Summarizer.Normalize, log)

	tr, err := newRetryingTranslator(cfg, log)
	if err != nil {
		return nil, err
	}

	cache, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		tr = translate.NewCached(tr, cache, log)
	}

	var rec domain.Recognizer
	if cfg.Extractor.OCR {
		tess := extract.NewTesseract(executor.New(), cfg.Extractor.Tesseract, extract.TesseractLanguages(cfg.Extractor.OCRLanguages))
		if tess.Available() {
			rec = tess
		} else {
			log.Warn(ctx, "%s not found on PATH, OCR disabled", cfg.Extractor.Tesseract)
		}
	}
	ext := extract.New(rec, extract.Options{
		OCRImages: cfg.Extractor.OCRImages,
		MaxImages: cfg.Extractor.MaxImages,
	}, log)

	pipeline := service.NewPipeline(sum, tr, detect.New(cfg.Detector.Strict, log), ext, service.Options{
		Ratio:        cfg.Summarizer.Ratio,
		KeywordLimit: cfg.Summarizer.Keywords,
	}, log)

	return &app{cfg: cfg, log: log, pipeline: pipeline, cache: cache}, nil
}

// newRetryingTranslator wraps the configured backend so that Retrying alone
// decides how many requests a translation makes.
func newRetryingTranslator(cfg *config.AppConfig, log logger.Logger) (domain.Translator, error) {
	backend, err := newTranslator(cfg, log)
	if err != nil {
		return nil, err
	}
	return translate.NewRetrying(backend, translate.RetryConfig{
		Attempts: cfg.Translator.Attempts,
		Delay:    cfg.Translator.RetryDelay(),
		Timeout:  cfg.Translator.Timeout(),
	}, log), nil
}

func newTranslator(cfg *config.AppConfig, log logger.Logger) (domain.Translator, error) {
	t := cfg.Translator
	switch t.Type {
	case "libre", "":
		lc := config.LibreConfig{}
		if t.Libre != nil {
			lc = *t.Libre
		}
		return libre.NewClient(libre.Config{
			BaseURL:    lc.BaseURL,
			APIKeyEnv:  lc.APIKeyEnv,
			Source:     lc.Source,
			Timeout:    t.Timeout(),
			MaxRetries: 0,
		})
	case "gemini":
		if t.Gemini == nil {
			return nil, eris.New("gemini translator config missing")
		}
		return gemini.NewClient(gemini.Config{APIKeyEnv: t.Gemini.APIKeyEnv, Model: t.Gemini.Model}, log)
	case "openai":
		if t.OpenAI == nil {
			return nil, eris.New("openai translator config missing")
		}
		return openai.NewClient(openai.Config{
			BaseURL:   t.OpenAI.BaseURL,
			APIKeyEnv: t.OpenAI.APIKeyEnv,
			Model:     t.OpenAI.Model,
		})
	case "none":
		return translate.NewIdentity(), nil
	default:
		return nil, eris.Errorf("unknown translator: %s", t.Type)
	}
}

func newCache(ctx context.Context, cfg *config.AppConfig) (domain.Cache, error) {
	switch cfg.Cache.Type {
	case "memory", "":
		return memory.NewStorage(cfg.Cache.MaxEntries), nil
	case "redis":
		if cfg.Cache.Redis == nil {
			return nil, eris.New("redis cache config missing")
		}
		rc := cfg.Cache.Redis
		var password string
		if rc.PasswordEnv != "" {
			password = os.Getenv(rc.PasswordEnv)
		}
		storage, err := redis.NewStorage(ctx, redis.Config{
			Addr:     rc.Addr,
			Password: password,
			DB:       rc.DB,
			TTL:      time.Duration(rc.TTLSecs) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return storage, nil
	case "none":
		return nil, nil
	default:
		return nil, eris.Errorf("unknown cache: %s", cfg.Cache.Type)
	}
}
