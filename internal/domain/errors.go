package domain

import "github.com/rotisserie/eris"

var (
	ErrUnsupportedFormat = eris.New("unsupported file format")
	ErrEmptyText         = eris.New("no text extracted")
	ErrInvalidRatio      = eris.New("ratio must be within (0, 1]")
	ErrTranslationFailed = eris.New("translation failed")
	ErrRetriesExhausted  = eris.New("retries exhausted")
	ErrCacheMiss         = eris.New("cache miss")
)
