// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfcpu otherwise creates a config directory under the user's home and
// exits the process when it cannot.
func init() {
	model.ConfigPath = "disable"
}

// PDFImageSource lists embedded images straight from the PDF's image
// XObjects using pdfcpu. Images are keyed by page and object number.
type PDFImageSource struct {
	conf *model.Configuration
}

// NewPDFImageSource returns a source using relaxed pdfcpu validation.
func NewPDFImageSource() *PDFImageSource {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFImageSource{conf: conf}
}

// Pictures reads every image in pdfPath. Image payloads are buffered
// before the file is closed.
func (s *PDFImageSource) Pictures(ctx context.Context, pdfPath string) (PictureSet, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return PictureSet{}, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	pages, err := api.ExtractImagesRaw(f, nil, s.conf)
	if err != nil {
		return PictureSet{}, fmt.Errorf("extracting images: %w", err)
	}

	keyed := make(map[PictureKey]Picture)
	for _, page := range pages {
		for objNr, img := range page {
			if err := ctx.Err(); err != nil {
				return PictureSet{}, err
			}
			pic, err := readPicture(objNr, img)
			if err != nil {
				return PictureSet{}, err
			}
			keyed[PictureKey{Page: pic.Page, Object: pic.Object}] = pic
		}
	}
	if len(keyed) == 0 {
		return PictureSet{}, nil
	}
	return KeyedPictures(keyed), nil
}

func readPicture(objNr int, img model.Image) (Picture, error) {
	pic := Picture{
		Page:   img.PageNr,
		Object: img.ObjNr,
		Name:   img.Name,
		Format: img.FileType,
	}
	if pic.Object == 0 {
		pic.Object = objNr
	}
	if img.Reader == nil {
		return pic, nil
	}
	data, err := io.ReadAll(img.Reader)
	if err != nil {
		return Picture{}, fmt.Errorf("reading image %s on page %d: %w", img.Name, img.PageNr, err)
	}
	pic.Data = data
	return pic, nil
}
