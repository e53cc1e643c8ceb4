// Package libre translates through a LibreTranslate-compatible HTTP API.
package libre

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"docsum/internal/domain"
)

// Client implements domain.Translator against POST {baseURL}/translate.
type Client struct {
	baseURL    string
	apiKey     string
	source     string
	client     *http.Client
	maxRetries int
}

// Config configures the LibreTranslate client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Source    string
	Timeout   time.Duration
	// MaxRetries applies to 429 and 5xx responses only.
	MaxRetries int
}

// NewClient creates a LibreTranslate client. The API key is optional; when
// APIKeyEnv is set the variable must be non-empty.
func NewClient(cfg Config) (*Client, error) {
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, eris.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://libretranslate.com"
	}
	if cfg.Source == "" {
		cfg.Source = "auto"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     key,
		source:     cfg.Source,
		client:     &http.Client{Timeout: t},
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (c *Client) Name() string { return "libre" }

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate sends text to the server and returns translatedText.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	url := fmt.Sprintf("%s/translate", c.baseURL)
	data, err := json.Marshal(request{Q: text, Source: c.source, Target: target, Format: "text", APIKey: c.apiKey})
	if err != nil {
		return "", eris.Wrap(err, "encode translate request")
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", eris.Wrap(err, "build translate request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return "", eris.Wrap(err, "libre translate request")
		}
		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return "", eris.Wrap(err, "read translate response")
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if attempt < c.maxRetries {
				if err := wait(ctx, retryAfter(resp.Header.Get("Retry-After"), attempt)); err != nil {
					return "", eris.Wrap(err, "libre translate")
				}
				continue
			}
			return "", eris.Wrapf(domain.ErrTranslationFailed, "libre translate: %s", resp.Status)
		}

		var out response
		if err := json.Unmarshal(payload, &out); err != nil {
			return "", eris.Wrapf(err, "decode translate response (%s)", resp.Status)
		}
		if resp.StatusCode >= 300 {
			msg := out.Error
			if msg == "" {
				msg = resp.Status
			}
			return "", eris.Wrapf(domain.ErrTranslationFailed, "libre translate: %s", msg)
		}
		return out.TranslatedText, nil
	}
}

func retryAfter(header string, attempt int) time.Duration {
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return retryDelay(attempt)
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
