// Package gemini translates with Google Gemini models.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"

	"docsum/internal/domain"
	"docsum/internal/languages"
	"docsum/internal/logger"
)

const translatePrompt = `Translate the text below into %s (language code %s).
Reply with the translation only. Keep numbers, names and line breaks.

---
%s
---`

// Config configures the Gemini translator.
type Config struct {
	// APIKeyEnv names an env var holding one key or several separated by commas.
	APIKeyEnv string
	Model     string
}

// Client implements domain.Translator and rotates API keys on quota errors.
type Client struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	mu         sync.Mutex
	currentKey int
}

// NewClient reads the API keys from the environment.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "GEMINI_API_KEY"
	}
	keys := ParseKeys(os.Getenv(cfg.APIKeyEnv))
	if len(keys) == 0 {
		return nil, eris.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	return &Client{apiKeys: keys, model: cfg.Model, logger: log}, nil
}

// ParseKeys splits a comma separated key list, dropping blanks.
func ParseKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func (c *Client) Name() string { return "gemini" }

// Translate asks the model for a translation, trying each key once.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	prompt := buildPrompt(text, target)
	ctx = logger.WithComponent(ctx, "gemini")

	var lastErr error
	for range c.apiKeys {
		key, idx := c.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = eris.Wrap(err, "create client")
			c.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
		if err != nil {
			if isQuotaError(err) {
				c.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				c.rotateKey()
				lastErr = err
				continue
			}
			return "", eris.Wrap(err, "generate content")
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var sb strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
			return strings.TrimSpace(sb.String()), nil
		}
		return "", eris.Wrap(domain.ErrTranslationFailed, "empty response from Gemini")
	}
	return "", eris.Wrapf(domain.ErrTranslationFailed, "all API keys exhausted: %v", lastErr)
}

func (c *Client) key() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKeys[c.currentKey], c.currentKey
}

func (c *Client) rotateKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func buildPrompt(text, target string) string {
	name := target
	if l, ok := languages.Lookup(target); ok {
		name = l.Name
	}
	return fmt.Sprintf(translatePrompt, name, target, text)
}
