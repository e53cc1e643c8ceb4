package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// pdfText reads the plain text of every page. Pages that are empty or fail to
// decode are skipped and reported in diagnostics.
func pdfText(path string) (text string, pages int, diagnostics []string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, nil, eris.Wrapf(err, "could not read PDF %s", path)
	}
	defer f.Close()

	pages = r.NumPage()
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		pageText, err := pageText(r, i)
		if err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("Could not read text on page %d: %v", i, err))
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			diagnostics = append(diagnostics, fmt.Sprintf("No text found on page %d", i))
			continue
		}
		parts = append(parts, pageText)
	}
	return strings.Join(parts, " "), pages, diagnostics, nil
}

// pageText guards against the panics the pdf package raises on malformed
// content streams.
func pageText(r *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = eris.Errorf("malformed page: %v", rec)
		}
	}()
	page := r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
