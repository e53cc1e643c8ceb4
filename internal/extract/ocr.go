package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"docsum/pkg/executor"
)

// tesseractLangs maps the supported ISO-639-1 codes to tesseract traineddata names.
var tesseractLangs = map[string]string{
	"en": "eng",
	"hi": "hin",
	"bn": "ben",
	"te": "tel",
	"mr": "mar",
	"ta": "tam",
	"gu": "guj",
	"kn": "kan",
	"ml": "mal",
	"pa": "pan",
	"ur": "urd",
	"as": "asm",
	"or": "ori",
	"sa": "san",
}

// TesseractLanguages converts codes such as ["en", "hi"] to "eng+hin".
// Unknown codes are passed through unchanged.
func TesseractLanguages(codes []string) string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if t, ok := tesseractLangs[c]; ok {
			c = t
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return "eng"
	}
	return strings.Join(out, "+")
}

// Tesseract implements domain.Recognizer with the tesseract CLI.
type Tesseract struct {
	exec      executor.Executor
	binary    string
	languages string
}

// NewTesseract creates a recognizer. languages is passed to -l, e.g.
// "eng+hin".
func NewTesseract(exec executor.Executor, binary, languages string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if languages == "" {
		languages = "eng"
	}
	return &Tesseract{exec: exec, binary: binary, languages: languages}
}

// Available reports whether the tesseract binary is on PATH.
func (t *Tesseract) Available() bool {
	_, err := t.exec.LookPath(t.binary)
	return err == nil
}

// Recognize pipes image through tesseract and returns the recognised text.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", eris.New("empty image")
	}
	out, err := t.exec.Execute(ctx, bytes.NewReader(image), t.binary, "stdin", "stdout", "-l", t.languages)
	if err != nil {
		return "", eris.Wrap(err, "tesseract")
	}
	return strings.TrimSpace(out), nil
}
