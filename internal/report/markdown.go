// Package report renders processed documents as markdown or docx files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"docsum/internal/domain"
	"docsum/internal/languages"
)

// Format selects the output file type.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatDocx     Format = "docx"
)

// ParseFormat accepts "md", "markdown" and "docx".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "docx":
		return FormatDocx, nil
	}
	return "", eris.Errorf("unknown report format %q", s)
}

// Write renders rep into dir and returns the file path.
func Write(rep *domain.Report, dir string, format Format) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", eris.Wrap(err, "create output dir")
	}
	path := filepath.Join(dir, FileName(rep, format))

	switch format {
	case FormatDocx:
		if err := writeDocx(rep, path); err != nil {
			return "", eris.Wrapf(err, "write %s", path)
		}
	default:
		if err := os.WriteFile(path, []byte(Markdown(rep)), 0644); err != nil {
			return "", eris.Wrapf(err, "write %s", path)
		}
	}
	return path, nil
}

var reUnsafe = regexp.MustCompile(`[^\p{L}\p{M}\p{N}]+`)

// FileName is the source file's base name plus the target language.
func FileName(rep *domain.Report, format Format) string {
	base := strings.TrimSuffix(filepath.Base(rep.Path), filepath.Ext(rep.Path))
	base = strings.Trim(reUnsafe.ReplaceAllString(base, "-"), "-")
	if base == "" || base == "." {
		base = rep.ID
	}
	if rep.TargetLanguage != "" {
		base += "." + rep.TargetLanguage
	}
	return base + "." + string(format)
}

func languageName(code string) string {
	if l, ok := languages.Lookup(code); ok {
		return l.Name
	}
	if code == "" {
		return domain.UnknownLanguage
	}
	return code
}

// Markdown renders rep. Empty sections are omitted.
func Markdown(rep *domain.Report) string {
	var b strings.Builder
	title := rep.Title
	if title == "" {
		title = filepath.Base(rep.Path)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "_%s_\n\n", rep.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "- **Source:** %s\n", rep.Path)
	fmt.Fprintf(&b, "- **Detected language:** %s\n", languageName(rep.SourceLanguage))
	fmt.Fprintf(&b, "- **Target language:** %s\n", languageName(rep.TargetLanguage))
	fmt.Fprintf(&b, "- **Estimated translation accuracy:** %d%%\n", rep.Accuracy)

	section(&b, "Keywords", strings.Join(rep.Keywords, ", "))
	section(&b, "Summary", rep.Summary)
	section(&b, fmt.Sprintf("Summary (%s)", languageName(rep.TargetLanguage)), rep.TranslatedSummary)
	section(&b, fmt.Sprintf("Translated Text (%s)", languageName(rep.TargetLanguage)), rep.TranslatedText)
	section(&b, "Original Text", rep.Text)

	if len(rep.Diagnostics) > 0 {
		b.WriteString("\n## Diagnostics\n\n")
		for _, d := range rep.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}
	return b.String()
}

func section(b *strings.Builder, heading, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n%s\n", heading, body)
}
