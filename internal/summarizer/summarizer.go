// Package summarizer implements extractive summarization: sentences are
// scored by TF-IDF and the top fraction is returned in document order.
package summarizer

import (
	"context"
	"strings"

	"docsum/internal/logger"
	"docsum/internal/stopwords"
	"docsum/internal/tokenizer"
)

// Extractive is the default domain.Summarizer.
type Extractive struct {
	tokenizer *tokenizer.Tokenizer
	stopwords *stopwords.Loader
	scorer    Scorer
	logger    logger.Logger
}

// NewExtractive creates an extractive summarizer. normalize enables L2
// normalisation of per-sentence term weights.
func NewExtractive(tok *tokenizer.Tokenizer, sw *stopwords.Loader, normalize bool, log logger.Logger) *Extractive {
	return &Extractive{
		tokenizer: tok,
		stopwords: sw,
		scorer:    Scorer{Normalize: normalize},
		logger:    log,
	}
}

// Summarize keeps floor(sentences × ratio) sentences of text, highest scores
// first, and joins them in their original order with single spaces.
func (e *Extractive) Summarize(text string, ratio float64, language string) (string, error) {
	// Validate the ratio before touching the text so bad input always errors.
	if _, err := Count(0, ratio); err != nil {
		return "", err
	}

	sentences := e.tokenizer.Sentences(text, language)
	count, _ := Count(len(sentences), ratio)
	if count == 0 {
		return "", nil
	}

	stop := e.stopwords.Load(language)
	terms := make([][]string, len(sentences))
	for i, s := range sentences {
		terms[i] = stopwords.Filter(e.tokenizer.Words(s), stop)
	}

	scores := e.scorer.Score(terms)
	selected := Select(scores, count)

	e.logger.Debug(logger.WithComponent(context.Background(), "summarizer"),
		"Selected %d of %d sentences (ratio %.2f, language %s)", len(selected), len(sentences), ratio, language)

	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, sentences[idx])
	}
	return strings.Join(out, " "), nil
}
