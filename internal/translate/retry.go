package translate

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"docsum/internal/domain"
	"docsum/internal/logger"
)

// RetryConfig bounds each translation call.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
	Timeout  time.Duration
}

// DefaultRetryConfig is three attempts, two seconds apart, thirty seconds each.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, Delay: 2 * time.Second, Timeout: 30 * time.Second}
}

// Retrying retries a translator on errors and on empty output.
type Retrying struct {
	next   domain.Translator
	cfg    RetryConfig
	logger logger.Logger
}

// NewRetrying wraps next. Zero fields of cfg take their defaults.
func NewRetrying(next domain.Translator, cfg RetryConfig, log logger.Logger) *Retrying {
	def := DefaultRetryConfig()
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	return &Retrying{next: next, cfg: cfg, logger: log}
}

func (r *Retrying) Name() string { return r.next.Name() }

// Translate returns the first non-empty translation. Empty input is returned
// as-is without calling the backend.
func (r *Retrying) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	ctx = logger.WithComponent(ctx, "translate")

	var lastErr error
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		out, err := r.attempt(ctx, text, target)
		if err == nil {
			return out, nil
		}
		lastErr = err
		r.logger.Warn(ctx, "Translation attempt %d/%d via %s failed: %v", attempt, r.cfg.Attempts, r.next.Name(), err)

		if attempt < r.cfg.Attempts {
			if err := sleepWithCtx(ctx, r.cfg.Delay); err != nil {
				return "", eris.Wrap(err, "translation cancelled")
			}
		}
	}
	return "", eris.Wrapf(domain.ErrRetriesExhausted, "%s after %d attempts: %v", r.next.Name(), r.cfg.Attempts, lastErr)
}

func (r *Retrying) attempt(ctx context.Context, text, target string) (string, error) {
	actx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	out, err := r.next.Translate(actx, text, target)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", eris.Wrap(domain.ErrTranslationFailed, "empty translation")
	}
	return out, nil
}
