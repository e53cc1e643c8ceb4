// Package detect guesses the language of a text.
package detect

import (
	"context"
	"strings"

	"github.com/abadojack/whatlanggo"

	"docsum/internal/domain"
	"docsum/internal/logger"
)

// Detector implements domain.Detector with trigram and script statistics.
type Detector struct {
	logger logger.Logger
	// strict drops detections whatlanggo itself marks unreliable.
	strict bool
}

// New creates a Detector.
func New(strict bool, log logger.Logger) *Detector {
	return &Detector{logger: log, strict: strict}
}

// Detect returns the ISO-639-1 code of text or domain.UnknownLanguage.
func (d *Detector) Detect(text string) (code string) {
	ctx := logger.WithComponent(context.Background(), "detect")
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn(ctx, "Language detection panicked: %v", r)
			code = domain.UnknownLanguage
		}
	}()

	if strings.TrimSpace(text) == "" {
		return domain.UnknownLanguage
	}
	info := whatlanggo.Detect(text)
	if d.strict && !info.IsReliable() {
		d.logger.Debug(ctx, "Unreliable detection (%s, confidence %.2f)", info.Lang.String(), info.Confidence)
		return domain.UnknownLanguage
	}
	iso := info.Lang.Iso6391()
	if iso == "" {
		return domain.UnknownLanguage
	}
	return iso
}
