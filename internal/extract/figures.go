// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// figureCaptionRe matches "Figure 3: caption" or "Fig. 3. caption", case
// insensitively. The caption runs lazily to the next blank line or the end
// of the text and may span several lines.
var figureCaptionRe = regexp.MustCompile(`(?is)(?:Figure|Fig\.?)\s*(\d+)[.:]\s*(.*?)(?:\n\n|\z)`)

// Figures returns every figure caption in markdown in document order.
func Figures(markdown string) []types.Figure {
	figures := []types.Figure{}
	for _, m := range figureCaptionRe.FindAllStringSubmatch(markdown, -1) {
		figures = append(figures, types.Figure{
			Number:  m[1],
			Caption: strings.TrimSpace(m[2]),
		})
	}
	return figures
}
