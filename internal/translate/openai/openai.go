// Package openai translates with OpenAI-compatible chat completion models.
package openai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rotisserie/eris"

	"docsum/internal/domain"
	"docsum/internal/languages"
)

const systemPrompt = "You are a translation engine. Translate the user's text into %s (language code %s). " +
	"Reply with the translation only, without notes or quotes."

// Config configures the OpenAI translator.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
}

// Client implements domain.Translator.
type Client struct {
	client openai.Client
	model  string
}

// NewClient reads the API key from the environment.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, eris.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{client: openai.NewClient(opts...), model: cfg.Model}, nil
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemMessage(target)),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "openai chat completion")
	}
	return extractText(resp)
}

func extractText(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", eris.Wrap(domain.ErrTranslationFailed, "no choices returned from openai")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func systemMessage(target string) string {
	name := target
	if l, ok := languages.Lookup(target); ok {
		name = l.Name
	}
	return fmt.Sprintf(systemPrompt, name, target)
}
