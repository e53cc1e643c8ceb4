package extract

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Kind is the document family a file belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindPDF
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

var (
	magicPDF  = []byte("%PDF-")
	magicPNG  = []byte("\x89PNG\r\n\x1a\n")
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
)

// Sniff classifies path by extension, falling back to the file's leading bytes.
func Sniff(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return KindPDF, nil
	case ".png", ".jpg", ".jpeg":
		return KindImage, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	head := make([]byte, 8)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return KindUnknown, eris.Wrapf(err, "read %s", path)
	}
	return sniffBytes(head[:n]), nil
}

func sniffBytes(head []byte) Kind {
	switch {
	case bytes.HasPrefix(head, magicPDF):
		return KindPDF
	case bytes.HasPrefix(head, magicPNG), bytes.HasPrefix(head, magicJPEG):
		return KindImage
	default:
		return KindUnknown
	}
}
