// Package extract turns PDFs and raster images into plain text.
package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"docsum/internal/domain"
	"docsum/internal/logger"
)

// Options tunes extraction.
type Options struct {
	// OCRImages runs OCR over images embedded in PDFs.
	OCRImages bool
	// MaxImages caps the embedded images OCR'd per PDF; 0 means no cap.
	MaxImages int
}

// Extractor implements domain.Extractor. recognizer may be nil, in which case
// images are skipped with a diagnostic.
type Extractor struct {
	recognizer domain.Recognizer
	opts       Options
	logger     logger.Logger
}

// New creates an Extractor.
func New(recognizer domain.Recognizer, opts Options, log logger.Logger) *Extractor {
	return &Extractor{recognizer: recognizer, opts: opts, logger: log}
}

// Extract reads path. Only an unreadable or unsupported file is an error;
// per-page and per-image problems end up in Diagnostics.
func (e *Extractor) Extract(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	ctx = logger.WithComponent(ctx, "extract")

	kind, err := Sniff(path)
	if err != nil {
		return nil, err
	}

	var res *domain.ExtractionResult
	switch kind {
	case KindPDF:
		res, err = e.extractPDF(ctx, path)
	case KindImage:
		res, err = e.extractImage(ctx, path)
	default:
		return nil, eris.Wrapf(domain.ErrUnsupportedFormat, "%s", path)
	}
	if err != nil {
		return nil, err
	}

	for _, d := range res.Diagnostics {
		e.logger.Debug(ctx, "%s: %s", path, d)
	}
	e.logger.Info(ctx, "Extracted %d characters from %s (%d pages, %d images)",
		len([]rune(res.Text)), path, res.PageCount, res.ImageCount)
	return res, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	text, pages, diags, err := pdfText(path)
	if err != nil {
		return nil, err
	}
	res := &domain.ExtractionResult{PageCount: pages, Diagnostics: diags}
	parts := []string{text}

	if e.opts.OCRImages {
		imageText, count, imageDiags := e.ocrEmbedded(ctx, path)
		res.ImageCount = count
		res.Diagnostics = append(res.Diagnostics, imageDiags...)
		parts = append(parts, imageText...)
	}

	res.Text = joinNonEmpty(parts)
	return res, nil
}

func (e *Extractor) ocrEmbedded(ctx context.Context, path string) ([]string, int, []string) {
	images, err := pdfImages(path, e.opts.MaxImages)
	if err != nil {
		return nil, len(images), []string{fmt.Sprintf("Could not extract images: %v", err)}
	}
	if len(images) == 0 {
		return nil, 0, nil
	}
	if e.recognizer == nil {
		return nil, len(images), []string{fmt.Sprintf("Skipped %d images: OCR is not configured", len(images))}
	}

	var texts, diags []string
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			diags = append(diags, fmt.Sprintf("OCR cancelled: %v", err))
			break
		}
		text, err := e.recognizer.Recognize(ctx, img.Data)
		if err != nil {
			diags = append(diags, fmt.Sprintf("OCR failed for %s: %v", img.label(), err))
			continue
		}
		if strings.TrimSpace(text) == "" {
			diags = append(diags, fmt.Sprintf("No text found in %s", img.label()))
			continue
		}
		texts = append(texts, text)
	}
	return texts, len(images), diags
}

func (e *Extractor) extractImage(ctx context.Context, path string) (*domain.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	res := &domain.ExtractionResult{ImageCount: 1}
	if e.recognizer == nil {
		res.Diagnostics = []string{"OCR is not configured"}
		return res, nil
	}
	text, err := e.recognizer.Recognize(ctx, data)
	if err != nil {
		res.Diagnostics = []string{fmt.Sprintf("OCR failed: %v", err)}
		return res, nil
	}
	res.Text = strings.TrimSpace(text)
	if res.Text == "" {
		res.Diagnostics = []string{"No text found in image"}
	}
	return res, nil
}

func joinNonEmpty(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
