package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsum/internal/domain"
	"docsum/internal/logger"
)

// buildPDF renders a minimal single-font PDF with one content stream per page.
// An empty string yields a page without text.
func buildPDF(pages []string) []byte {
	var objs []string
	n := len(pages)
	// 1: catalog, 2: pages, 3: font, then page/content pairs
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		var content string
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type fakeRecognizer struct {
	text  string
	err   error
	calls int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		want Kind
	}{
		{"pdf extension", "a.PDF", nil, KindPDF},
		{"png extension", "a.png", nil, KindImage},
		{"jpeg extension", "a.jpeg", nil, KindImage},
		{"pdf magic", "scan.bin", []byte("%PDF-1.7\n"), KindPDF},
		{"png magic", "noext", []byte("\x89PNG\r\n\x1a\nrest"), KindImage},
		{"jpeg magic", "photo.dat", []byte{0xFF, 0xD8, 0xFF, 0xE0}, KindImage},
		{"text file", "notes.txt", []byte("hello"), KindUnknown},
		{"empty file", "empty", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.data)
			got, err := Sniff(path)
			if err != nil {
				t.Fatalf("Sniff() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Sniff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractPDF(t *testing.T) {
	path := writeFile(t, "doc.pdf", buildPDF([]string{"Hello world.", "", "Second page."}))
	e := New(nil, Options{}, logger.NewNop())

	res, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", res.PageCount)
	}
	if !strings.Contains(res.Text, "Hello world.") || !strings.Contains(res.Text, "Second page.") {
		t.Errorf("Text = %q", res.Text)
	}
	if strings.Index(res.Text, "Hello") > strings.Index(res.Text, "Second") {
		t.Errorf("pages out of order: %q", res.Text)
	}
	found := false
	for _, d := range res.Diagnostics {
		if d == "No text found on page 2" {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %q, want empty page 2 reported", res.Diagnostics)
	}
}

func TestExtractPDFWithoutImagesSkipsOCR(t *testing.T) {
	path := writeFile(t, "doc.pdf", buildPDF([]string{"Only text here."}))
	rec := &fakeRecognizer{text: "should not be used"}
	e := New(rec, Options{OCRImages: true}, logger.NewNop())

	res, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times for a PDF without images", rec.calls)
	}
	if !strings.Contains(res.Text, "Only text here.") {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestExtractImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	tests := []struct {
		name     string
		rec      domain.Recognizer
		wantText string
		wantDiag string
	}{
		{"recognised", &fakeRecognizer{text: "  scanned words \n"}, "scanned words", ""},
		{"ocr error degrades", &fakeRecognizer{err: errors.New("tesseract missing")}, "", "OCR failed"},
		{"blank image", &fakeRecognizer{text: " "}, "", "No text found in image"},
		{"no recognizer", nil, "", "OCR is not configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "page.png", png)
			res, err := New(tt.rec, Options{}, logger.NewNop()).Extract(context.Background(), path)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if res.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", res.Text, tt.wantText)
			}
			if res.ImageCount != 1 {
				t.Errorf("ImageCount = %d, want 1", res.ImageCount)
			}
			if tt.wantDiag != "" && (len(res.Diagnostics) == 0 || !strings.Contains(res.Diagnostics[0], tt.wantDiag)) {
				t.Errorf("Diagnostics = %q, want %q", res.Diagnostics, tt.wantDiag)
			}
		})
	}
}

func TestExtractErrors(t *testing.T) {
	e := New(nil, Options{}, logger.NewNop())
	ctx := context.Background()

	txt := writeFile(t, "notes.txt", []byte("plain text"))
	if _, err := e.Extract(ctx, txt); !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Errorf("Extract(txt) error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := e.Extract(ctx, filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Extract(missing.pdf) should fail")
	}

	broken := writeFile(t, "broken.pdf", []byte("%PDF-1.4\nnot really"))
	if _, err := e.Extract(ctx, broken); err == nil {
		t.Error("Extract(broken.pdf) should fail")
	}
}

type fakeExecutor struct {
	stdin []byte
	name  string
	args  []string
	out   string
	err   error
}

func (f *fakeExecutor) Execute(ctx context.Context, stdin io.Reader, name string, args ...string) (string, error) {
	if stdin != nil {
		f.stdin, _ = io.ReadAll(stdin)
	}
	f.name, f.args = name, args
	return f.out, f.err
}

func (f *fakeExecutor) LookPath(name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "/usr/bin/" + name, nil
}

func TestTesseract(t *testing.T) {
	ex := &fakeExecutor{out: "  recognised text\n\n"}
	tess := NewTesseract(ex, "", "eng+hin")

	got, err := tess.Recognize(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if got != "recognised text" {
		t.Errorf("Recognize() = %q", got)
	}
	if ex.name != "tesseract" || strings.Join(ex.args, " ") != "stdin stdout -l eng+hin" {
		t.Errorf("ran %s %q", ex.name, ex.args)
	}
	if string(ex.stdin) != "img" {
		t.Errorf("stdin = %q", ex.stdin)
	}
	if !tess.Available() {
		t.Error("Available() = false")
	}

	if _, err := tess.Recognize(context.Background(), nil); err == nil {
		t.Error("Recognize(nil) should fail")
	}

	ex.err = errors.New("exit status 1")
	if _, err := tess.Recognize(context.Background(), []byte("img")); err == nil {
		t.Error("executor failure should surface")
	}
}

func TestTesseractLanguages(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, "eng"},
		{[]string{"en"}, "eng"},
		{[]string{"en", "HI", " bn "}, "eng+hin+ben"},
		{[]string{"deu"}, "deu"},
	}
	for _, tt := range tests {
		if got := TesseractLanguages(tt.in); got != tt.want {
			t.Errorf("TesseractLanguages(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
