package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"
)

// embeddedImage is one raster image found inside a PDF.
type embeddedImage struct {
	Page     int
	Name     string
	FileType string
	Data     []byte
}

func (i embeddedImage) label() string {
	return fmt.Sprintf("image %s on page %d", i.Name, i.Page)
}

// pdfImages returns the embedded images of path in page order, at most limit
// of them when limit > 0.
func pdfImages(path string, limit int) (images []embeddedImage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = eris.Errorf("pdfcpu panicked: %v", rec)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pages, err := api.ExtractImagesRaw(f, nil, conf)
	if err != nil {
		return nil, eris.Wrap(err, "pdfcpu extract images")
	}

	for _, byObj := range pages {
		objNrs := make([]int, 0, len(byObj))
		for nr := range byObj {
			objNrs = append(objNrs, nr)
		}
		slices.Sort(objNrs)
		for _, nr := range objNrs {
			img := byObj[nr]
			var buf bytes.Buffer
			if img.Reader != nil {
				if _, err := io.Copy(&buf, img); err != nil {
					return images, eris.Wrapf(err, "read image %s", img.Name)
				}
			}
			images = append(images, embeddedImage{
				Page:     img.PageNr,
				Name:     img.Name,
				FileType: img.FileType,
				Data:     buf.Bytes(),
			})
			if limit > 0 && len(images) >= limit {
				return images, nil
			}
		}
	}
	return images, nil
}
