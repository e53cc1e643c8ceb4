package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"docsum/internal/config"
	"docsum/internal/domain"
	"docsum/internal/logger"
)

func libreConfig(url string) *config.AppConfig {
	return &config.AppConfig{
		Translator: config.TranslatorConfig{
			Type:        "libre",
			Target:      "hi",
			Attempts:    3,
			TimeoutSecs: 5,
			Libre:       &config.LibreConfig{BaseURL: url},
		},
		Cache: config.CacheConfig{Type: "none"},
	}
}

func TestRetryingTranslatorRequestBudget(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusServiceUnavailable},
		{"rate limited", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			tr, err := newRetryingTranslator(libreConfig(srv.URL), logger.NewNop())
			if err != nil {
				t.Fatal(err)
			}
			_, err = tr.Translate(context.Background(), "hello", "hi")
			if !errors.Is(err, domain.ErrRetriesExhausted) {
				t.Errorf("Translate() error = %v, want ErrRetriesExhausted", err)
			}
			if got := calls.Load(); got != 3 {
				t.Errorf("server called %d times, want 3", got)
			}
		})
	}
}

func TestRetryingTranslatorRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"translatedText": "नमस्ते"})
	}))
	defer srv.Close()

	tr, err := newRetryingTranslator(libreConfig(srv.URL), logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	got, err := tr.Translate(context.Background(), "hello", "hi")
	if err != nil || got != "नमस्ते" {
		t.Fatalf("Translate() = %q, %v", got, err)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestNewTranslatorUnknownType(t *testing.T) {
	cfg := libreConfig("http://localhost")
	cfg.Translator.Type = "carrier-pigeon"
	if _, err := newRetryingTranslator(cfg, logger.NewNop()); err == nil {
		t.Error("expected error for unknown translator type")
	}
}
