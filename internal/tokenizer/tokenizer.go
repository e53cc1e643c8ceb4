// Package tokenizer splits documents into sentences and lowercase word tokens.
package tokenizer

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/rotisserie/eris"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

type sentenceSplitter interface {
	Tokenize(text string) []*sentences.Sentence
}

// Tokenizer segments text. English goes through a punkt model that knows
// common abbreviations; every other language uses terminal-mark rules.
type Tokenizer struct {
	mu       sync.Mutex
	english  sentenceSplitter
	wordExpr *regexp.Regexp
}

// New loads the English punkt model. The model is parsed once; reuse the
// returned Tokenizer.
func New() (*Tokenizer, error) {
	en, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, eris.Wrap(err, "load english sentence model")
	}
	return &Tokenizer{
		english:  en,
		wordExpr: regexp.MustCompile(`[\p{L}\p{M}\p{N}]+(?:['’][\p{L}\p{M}\p{N}]+)*|[^\s\p{L}\p{M}\p{N}]`),
	}, nil
}

// Tokenize returns the sentences of document in order and its word tokens.
func (t *Tokenizer) Tokenize(document, language string) ([]string, []string) {
	return t.Sentences(document, language), t.Words(document)
}

// Sentences splits document into trimmed, non-empty sentences in original order.
// A document without terminal punctuation comes back as a single sentence.
func (t *Tokenizer) Sentences(document, language string) []string {
	if strings.TrimSpace(document) == "" {
		return nil
	}
	var raw []string
	if usesEnglishModel(language) {
		t.mu.Lock()
		for _, s := range t.english.Tokenize(document) {
			raw = append(raw, s.Text)
		}
		t.mu.Unlock()
	} else {
		raw = splitOnTerminals(document)
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{strings.TrimSpace(document)}
	}
	return out
}

// Words lowercases document and splits it into word runs and single
// punctuation tokens. Clitics are separate tokens: "alice's" gives "alice"
// and "'s", "didn't" gives "did" and "n't".
func (t *Tokenizer) Words(document string) []string {
	lower := strings.ToLower(document)
	raw := t.wordExpr.FindAllString(lower, -1)
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		out = append(out, splitClitics(w)...)
	}
	return out
}

// splitClitics peels apostrophe suffixes off a word run, last one first.
func splitClitics(word string) []string {
	var tail []string
	for {
		i := strings.LastIndexAny(word, "'’")
		if i <= 0 {
			break
		}
		head, clitic := word[:i], word[i:]
		if (clitic == "'t" || clitic == "’t") && len(head) > 1 && strings.HasSuffix(head, "n") {
			head, clitic = head[:len(head)-1], "n"+clitic
		}
		tail = append(tail, clitic)
		word = head
	}
	out := make([]string, 0, len(tail)+1)
	out = append(out, word)
	for i := len(tail) - 1; i >= 0; i-- {
		out = append(out, tail[i])
	}
	return out
}

func usesEnglishModel(language string) bool {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "", "en", "unknown":
		return true
	}
	return false
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '।', '॥', '۔', '؟':
		return true
	}
	return false
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’', '»':
		return true
	}
	return false
}

// splitOnTerminals cuts after a run of terminal marks (plus closing quotes)
// that is followed by whitespace or the end of text.
func splitOnTerminals(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && (isTerminal(runes[j]) || isCloser(runes[j])) {
			j++
		}
		if j == len(runes) || unicode.IsSpace(runes[j]) {
			out = append(out, string(runes[start:j]))
			start = j
		}
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}
