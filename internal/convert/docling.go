// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-extract/internal/container"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// DoclingConverter runs a host-installed docling CLI, which writes
// <stem>.md into an output directory.
type DoclingConverter struct {
	bin  string
	exec container.Executor
}

// NewDoclingConverter resolves bin on PATH. An empty bin selects
// types.DefaultDoclingBin.
func NewDoclingConverter(bin string) (*DoclingConverter, error) {
	return newDoclingConverter(bin, container.DefaultExecutor)
}

func newDoclingConverter(bin string, exec container.Executor) (*DoclingConverter, error) {
	if bin == "" {
		bin = types.DefaultDoclingBin
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("docling not available: %w", err)
	}
	return &DoclingConverter{bin: path, exec: exec}, nil
}

// Name implements Converter.
func (d *DoclingConverter) Name() string { return string(types.BackendDocling) }

// Convert renders pdfPath into a scratch directory and returns the markdown
// docling wrote there.
func (d *DoclingConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	outDir, err := os.MkdirTemp("", "docling-*")
	if err != nil {
		return "", fmt.Errorf("creating docling output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	cmd := container.Cmd{
		Name:   d.bin,
		Args:   []string{pdfPath, "--to", "md", "--image-export-mode", "placeholder", "--output", outDir},
		Stdout: io.Discard,
	}
	if err := d.exec.Run(ctx, cmd); err != nil {
		return "", fmt.Errorf("converting %s with docling: %w", pdfPath, err)
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	data, err := os.ReadFile(filepath.Join(outDir, stem+".md"))
	if err != nil {
		return "", fmt.Errorf("reading docling output: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", fmt.Errorf("docling produced empty output for %s", pdfPath)
	}
	return string(data), nil
}
