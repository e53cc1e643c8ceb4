package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"

	"docsum/internal/domain"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *openai.ChatCompletion
		want    string
		wantErr bool
	}{
		{name: "nil response", resp: nil, wantErr: true},
		{name: "no choices", resp: &openai.ChatCompletion{}, wantErr: true},
		{
			name: "trims content",
			resp: &openai.ChatCompletion{
				Choices: []openai.ChatCompletionChoice{
					{Message: openai.ChatCompletionMessage{Content: "  नमस्ते  "}},
				},
			},
			want: "नमस्ते",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractText(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("extractText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, domain.ErrTranslationFailed) {
				t.Errorf("error = %v, want ErrTranslationFailed", err)
			}
			if got != tt.want {
				t.Errorf("extractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSystemMessage(t *testing.T) {
	if m := systemMessage("bn"); !strings.Contains(m, "Bengali") {
		t.Errorf("systemMessage(bn) = %q", m)
	}
}

func TestTranslateAgainstCompatibleServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Model != "test-model" || len(body.Messages) != 2 {
			t.Errorf("unexpected request body %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"test-model",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Bonjour"}}]}`))
	}))
	defer srv.Close()

	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	c, err := NewClient(Config{BaseURL: srv.URL + "/v1/", APIKeyEnv: "TEST_OPENAI_KEY", Model: "test-model"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	got, err := c.Translate(context.Background(), "Hello", "fr")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "Bonjour" {
		t.Errorf("Translate() = %q, want Bonjour", got)
	}
}

func TestNewClientMissingKey(t *testing.T) {
	t.Setenv("TEST_OPENAI_MISSING", "")
	if _, err := NewClient(Config{APIKeyEnv: "TEST_OPENAI_MISSING"}); err == nil {
		t.Error("expected error for missing key")
	}
}
