package translate

import (
	"context"
	"errors"

	"docsum/internal/domain"
	"docsum/internal/logger"
)

// Cached serves repeated translations from a domain.Cache. Cache failures are
// logged and bypassed.
type Cached struct {
	next   domain.Translator
	cache  domain.Cache
	logger logger.Logger
}

// NewCached wraps next with cache.
func NewCached(next domain.Translator, cache domain.Cache, log logger.Logger) *Cached {
	return &Cached{next: next, cache: cache, logger: log}
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Translate(ctx context.Context, text, target string) (string, error) {
	ctx = logger.WithComponent(ctx, "translate-cache")
	key := CacheKey(c.next.Name(), target, text)

	hit, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		c.logger.Debug(ctx, "Cache hit for %s translation (%d bytes)", target, len(text))
		return hit, nil
	case !errors.Is(err, domain.ErrCacheMiss):
		c.logger.Warn(ctx, "Cache lookup failed: %v", err)
	}

	out, err := c.next.Translate(ctx, text, target)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, out); err != nil {
		c.logger.Warn(ctx, "Cache store failed: %v", err)
	}
	return out, nil
}
