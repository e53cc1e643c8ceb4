package domain

import (
	"context"
	"time"
)

// Sentinel strings returned in place of a result when a stage degrades.
const (
	SentinelTranslationError       = "Translation error"
	SentinelSummaryUnavailable     = "Summary not available"
	SentinelSummaryTranslationFail = "Summary translation not available"
	UnknownLanguage                = "unknown"
)

// DefaultRatio is the fraction of sentences kept when the caller does not choose one.
const DefaultRatio = 0.45

// Result is the two-part output of summarize-and-translate plus the local summary.
type Result struct {
	SourceLanguage     string
	Summary            string
	TranslatedOriginal string
	TranslatedSummary  string
}

// ExtractionResult holds the text pulled out of a single file.
type ExtractionResult struct {
	Text        string
	PageCount   int
	ImageCount  int
	Diagnostics []string
}

// Report is everything produced for one processed file.
type Report struct {
	ID                string
	Path              string
	Title             string
	Text              string
	SourceLanguage    string
	TargetLanguage    string
	TranslatedText    string
	Summary           string
	TranslatedSummary string
	Keywords          []string
	Accuracy          int
	Diagnostics       []string
	CreatedAt         time.Time
}

// Translator maps text into the target language.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, target string) (string, error)
}

// Detector guesses the ISO-639-1 code of a text. It never fails: callers get
// UnknownLanguage instead.
type Detector interface {
	Detect(text string) string
}

// Extractor pulls plain text out of a document on disk.
type Extractor interface {
	Extract(ctx context.Context, path string) (*ExtractionResult, error)
}

// Recognizer runs OCR over a single encoded image.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Cache stores translated text keyed by an opaque string.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Summarizer selects a subset of sentences from text.
type Summarizer interface {
	Summarize(text string, ratio float64, language string) (string, error)
}
