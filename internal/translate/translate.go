// Package translate wraps translation backends with retry and caching.
package translate

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// Identity returns text unchanged. It backs the "none" translator.
type Identity struct{}

// NewIdentity creates the no-op translator.
func NewIdentity() Identity { return Identity{} }

func (Identity) Name() string { return "none" }

func (Identity) Translate(_ context.Context, text, _ string) (string, error) { return text, nil }

// CacheKey derives the cache key for text translated into target by backend.
func CacheKey(backend, target, text string) string {
	h := sha1.New()
	h.Write([]byte(backend))
	h.Write([]byte{0})
	h.Write([]byte(target))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "docsum:tr:" + hex.EncodeToString(h.Sum(nil))
}

// sleepWithCtx waits for d or until ctx is done.
func sleepWithCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
