package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"docsum/internal/domain"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		ID:                "0d9c1c9e-0000-4000-8000-000000000000",
		Path:              "/tmp/in/Annual Report 2024.pdf",
		Title:             "Annual report...",
		Text:              "Revenue grew. Costs fell.",
		SourceLanguage:    "en",
		TargetLanguage:    "hi",
		TranslatedText:    "राजस्व बढ़ा। लागत घटी।",
		Summary:           "Revenue grew.",
		TranslatedSummary: "राजस्व बढ़ा।",
		Keywords:          []string{"revenue grew", "costs fell"},
		Accuracy:          90,
		Diagnostics:       []string{"No text found on page 2"},
		CreatedAt:         time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())
	for _, want := range []string{
		"# Annual report...",
		"_2024-05-01 10:30_",
		"**Detected language:** English",
		"**Target language:** Hindi",
		"accuracy:** 90%",
		"## Keywords\n\nrevenue grew, costs fell",
		"## Summary\n\nRevenue grew.",
		"## Summary (Hindi)\n\nराजस्व बढ़ा।",
		"## Translated Text (Hindi)",
		"## Original Text",
		"- No text found on page 2",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdownOmitsEmptySections(t *testing.T) {
	rep := sampleReport()
	rep.Summary, rep.TranslatedSummary, rep.Keywords, rep.Diagnostics = "", "", nil, nil
	md := Markdown(rep)
	for _, absent := range []string{"## Summary", "## Keywords", "## Diagnostics"} {
		if strings.Contains(md, absent) {
			t.Errorf("markdown should omit %q", absent)
		}
	}
}

func TestFileName(t *testing.T) {
	rep := sampleReport()
	if got := FileName(rep, FormatMarkdown); got != "Annual-Report-2024.hi.md" {
		t.Errorf("FileName() = %q", got)
	}
	rep.Path = "/tmp/###.pdf"
	if got := FileName(rep, FormatDocx); got != rep.ID+".hi.docx" {
		t.Errorf("FileName() = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"MD", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"docx", FormatDocx, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	rep := sampleReport()

	mdPath, err := Write(rep, dir, FormatMarkdown)
	if err != nil {
		t.Fatalf("Write(md) error = %v", err)
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Markdown(rep) {
		t.Error("markdown file differs from Markdown()")
	}

	docxPath, err := Write(rep, dir, FormatDocx)
	if err != nil {
		t.Fatalf("Write(docx) error = %v", err)
	}
	data, err = os.ReadFile(docxPath)
	if err != nil {
		t.Fatal(err)
	}
	// docx files are zip archives
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("docx output is not a zip archive")
	}
}
