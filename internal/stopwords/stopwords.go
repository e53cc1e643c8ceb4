// Package stopwords resolves per-language stopword sets and filters tokens.
package stopwords

import (
	"bufio"
	"context"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/rotisserie/eris"

	"docsum/internal/logger"
)

// Set is a read-only collection of words to drop.
type Set map[string]struct{}

// Contains reports whether w is in the set.
func (s Set) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

// NewSet builds a Set from words, lowercasing and trimming each one.
func NewSet(words []string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		s[w] = struct{}{}
	}
	return s
}

// English returns the built-in English set.
func English() Set { return NewSet(englishWords) }

// Filter keeps tokens made only of letters, marks and digits that are not in set.
func Filter(words []string, set Set) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !IsAlphanumeric(w) || set.Contains(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// IsAlphanumeric reports whether w is non-empty and every rune is a letter,
// a combining mark or a digit.
func IsAlphanumeric(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// LoadFile reads one word per line from a UTF-8 file.
func LoadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open stopword list %s", path)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		words = append(words, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "read stopword list %s", path)
	}
	return NewSet(words), nil
}

// Loader resolves a language code to its stopword set and memoizes the result.
// English is built in; other languages need a file in sources. Languages
// without a source, and sources that fail to load, get an empty set.
type Loader struct {
	sources map[string]string
	logger  logger.Logger

	mu    sync.RWMutex
	cache map[string]Set
}

// NewLoader creates a Loader. sources maps language codes to word-list files.
func NewLoader(sources map[string]string, log logger.Logger) *Loader {
	src := make(map[string]string, len(sources))
	for k, v := range sources {
		src[strings.ToLower(k)] = v
	}
	return &Loader{sources: src, logger: log, cache: make(map[string]Set)}
}

// Load returns the set for language. It never fails.
func (l *Loader) Load(language string) Set {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" || lang == "unknown" {
		lang = "en"
	}

	l.mu.RLock()
	s, ok := l.cache[lang]
	l.mu.RUnlock()
	if ok {
		return s
	}

	s = l.resolve(lang)

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.cache[lang]; ok {
		return cached
	}
	l.cache[lang] = s
	return s
}

func (l *Loader) resolve(lang string) Set {
	ctx := logger.WithComponent(context.Background(), "stopwords")
	if path, ok := l.sources[lang]; ok && path != "" {
		s, err := LoadFile(path)
		if err != nil {
			l.logger.Warn(ctx, "Error loading stopwords for %s, filtering disabled: %v", lang, err)
			return Set{}
		}
		l.logger.Debug(ctx, "Loaded %d stopwords for %s from %s", len(s), lang, path)
		return s
	}
	if lang == "en" {
		return English()
	}
	l.logger.Debug(ctx, "No stopword source for %s, using empty set", lang)
	return Set{}
}
