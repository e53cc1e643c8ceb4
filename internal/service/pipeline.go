// Package service composes extraction, detection, summarization and
// translation into the document pipeline.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"docsum/internal/domain"
	"docsum/internal/languages"
	"docsum/internal/logger"
	"docsum/internal/summarizer"
)

// TitleLength is the number of runes of text kept in a generated title.
const TitleLength = 50

// Options tunes the pipeline.
type Options struct {
	Ratio        float64
	KeywordLimit int
}

// Pipeline is safe for concurrent use as long as its collaborators are.
type Pipeline struct {
	summarizer domain.Summarizer
	translator domain.Translator
	detector   domain.Detector
	extractor  domain.Extractor
	logger     logger.Logger
	opts       Options
	now        func() time.Time
}

// NewPipeline wires the collaborators. extractor may be nil when only text
// entry points are used.
func NewPipeline(
	sum domain.Summarizer,
	tr domain.Translator,
	det domain.Detector,
	ext domain.Extractor,
	opts Options,
	log logger.Logger,
) *Pipeline {
	if opts.Ratio == 0 {
		opts.Ratio = domain.DefaultRatio
	}
	return &Pipeline{
		summarizer: sum,
		translator: tr,
		detector:   det,
		extractor:  ext,
		logger:     log,
		opts:       opts,
		now:        time.Now,
	}
}

// Summarize runs the extractive summarizer, turning panics into errors.
func (p *Pipeline) Summarize(ctx context.Context, document string, ratio float64, language string) (summary string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("summarizer panicked: %v", r)
		}
	}()
	return p.summarizer.Summarize(document, ratio, language)
}

// DetectLanguage never fails; a misbehaving detector yields "unknown".
func (p *Pipeline) DetectLanguage(ctx context.Context, text string) (code string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn(logger.WithComponent(ctx, "pipeline"), "Language detection panicked: %v", r)
			code = domain.UnknownLanguage
		}
	}()
	code = p.detector.Detect(text)
	if code == "" {
		code = domain.UnknownLanguage
	}
	return code
}

// SummarizeAndTranslate summarizes document in its detected language and
// translates the document and the summary into target concurrently. It never
// fails: every degraded stage is replaced with its sentinel string. ratio is
// used as given, so 0 yields an empty summary; Options.Ratio only applies to
// ProcessFile.
func (p *Pipeline) SummarizeAndTranslate(ctx context.Context, document string, ratio float64, target string) domain.Result {
	ctx = logger.WithComponent(ctx, "pipeline")
	res := domain.Result{SourceLanguage: p.DetectLanguage(ctx, document)}

	summaryOK := true
	summary, err := p.Summarize(ctx, document, ratio, res.SourceLanguage)
	if err != nil {
		p.logger.Error(ctx, "Error during summarization: %v", err)
		summary = domain.SentinelSummaryUnavailable
		summaryOK = false
	}
	res.Summary = summary

	var g errgroup.Group
	g.Go(func() error {
		res.TranslatedOriginal = p.translate(ctx, document, target, domain.SentinelTranslationError, "original")
		return nil
	})
	g.Go(func() error {
		switch {
		case !summaryOK:
			res.TranslatedSummary = domain.SentinelSummaryUnavailable
		case summary == "":
			res.TranslatedSummary = ""
		default:
			res.TranslatedSummary = p.translate(ctx, summary, target, domain.SentinelSummaryTranslationFail, "summary")
		}
		return nil
	})
	_ = g.Wait()
	return res
}

// translate returns sentinel instead of an error and recovers backend panics.
func (p *Pipeline) translate(ctx context.Context, text, target, sentinel, what string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(ctx, "Translator panicked on %s: %v", what, r)
			out = sentinel
		}
	}()
	if strings.TrimSpace(text) == "" {
		return ""
	}
	out, err := p.translator.Translate(ctx, text, target)
	if err != nil {
		p.logger.Error(ctx, "Error during %s translation to %s: %v", what, target, err)
		return sentinel
	}
	return out
}

// ProcessFile extracts path and runs the full pipeline on its text. Problems
// are reported in Report.Diagnostics; the only error is a cancelled ctx.
func (p *Pipeline) ProcessFile(ctx context.Context, path, target string, summarize bool) (*domain.Report, error) {
	ctx = logger.WithComponent(ctx, "pipeline")
	rep := &domain.Report{
		ID:             uuid.NewString(),
		Path:           path,
		TargetLanguage: target,
		Accuracy:       languages.Accuracy(target),
		CreatedAt:      p.now(),
	}

	if p.extractor == nil {
		rep.Diagnostics = append(rep.Diagnostics, "No extractor configured")
		return rep, nil
	}
	ext, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.logger.Error(ctx, "Extraction of %s failed: %v", path, err)
		rep.Diagnostics = append(rep.Diagnostics, describeExtractError(err))
		return rep, ctx.Err()
	}
	rep.Diagnostics = append(rep.Diagnostics, ext.Diagnostics...)
	rep.Text = ext.Text
	if strings.TrimSpace(rep.Text) == "" {
		rep.Diagnostics = append(rep.Diagnostics, "No text could be extracted")
		return rep, ctx.Err()
	}
	rep.Title = GenerateTitle(rep.Text)

	if summarize {
		res := p.SummarizeAndTranslate(ctx, rep.Text, p.opts.Ratio, target)
		rep.SourceLanguage = res.SourceLanguage
		rep.TranslatedText = res.TranslatedOriginal
		rep.Summary = res.Summary
		rep.TranslatedSummary = res.TranslatedSummary
	} else {
		rep.SourceLanguage = p.DetectLanguage(ctx, rep.Text)
		rep.TranslatedText = p.translate(ctx, rep.Text, target, domain.SentinelTranslationError, "original")
	}

	if p.opts.KeywordLimit > 0 {
		rep.Keywords = summarizer.Keywords(rep.Text, p.opts.KeywordLimit)
	}

	p.logger.Info(ctx, "Processed %s: language %s -> %s, %d diagnostics",
		path, rep.SourceLanguage, target, len(rep.Diagnostics))
	return rep, ctx.Err()
}

func describeExtractError(err error) string {
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		return "Unsupported file format"
	}
	return "Could not read file: " + err.Error()
}

// GenerateTitle returns the first TitleLength runes of text with whitespace
// collapsed, followed by "..." when text was cut.
func GenerateTitle(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= TitleLength {
		return flat
	}
	return strings.TrimSpace(string(runes[:TitleLength])) + "..."
}
