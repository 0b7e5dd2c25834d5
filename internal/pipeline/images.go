// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/arxiv-extract/internal/convert"
)

// SaveImages writes the i-th picture of doc (1-based) to
// outDir/figure_<i>.png and returns the written paths in order. A picture
// that cannot be decoded or written is reported on w and skipped.
func SaveImages(doc *convert.Document, outDir string, w io.Writer) []string {
	paths := []string{}
	for i, pic := range doc.Pictures.Normalize() {
		path := filepath.Join(outDir, fmt.Sprintf("figure_%d.png", i+1))
		if err := savePNG(pic, path); err != nil {
			fmt.Fprintf(w, "warning: could not save image %d: %v\n", i+1, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func savePNG(pic convert.Picture, path string) error {
	img, err := pic.Image()
	if err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("picture has no image data")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
