// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// Font-size ratios relative to the body size at which a line becomes a
// heading of the given level.
var headingRatios = []struct {
	ratio float64
	level int
}{
	{1.8, 1},
	{1.5, 2},
	{1.2, 3},
}

const (
	// maxHeadingRunes keeps large-font paragraphs out of the heading set.
	maxHeadingRunes = 150

	// paragraphGap is the vertical gap, in multiples of the line's font
	// size, above which a blank line is inserted.
	paragraphGap = 1.8

	// wordGap is the horizontal gap, in multiples of the font size, above
	// which two runs are separated by a space.
	wordGap = 0.15
)

// NativeConverter reads the PDF text layer in-process with
// github.com/ledongthuc/pdf. Headings are inferred from font size; scanned
// PDFs without a text layer are rejected.
type NativeConverter struct{}

// Name implements Converter.
func (NativeConverter) Name() string { return string(types.BackendNative) }

// Convert implements Converter.
func (NativeConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var pages [][]textLine
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		lines, err := pageLines(p)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, pdfPath, err)
		}
		pages = append(pages, lines)
	}

	md := renderMarkdown(pages)
	if strings.TrimSpace(md) == "" {
		return "", fmt.Errorf("native conversion found no text layer in %s", pdfPath)
	}
	return md, nil
}

// textRun is a positioned piece of text in a single font size.
type textRun struct {
	X, W, Size float64
	S          string
}

// textLine is one visual row of a page. Y grows upward, as in PDF user
// space.
type textLine struct {
	Y    float64
	Runs []textRun
}

// pageLines reads the positioned glyphs of p. The pdf package panics on
// malformed content streams.
func pageLines(p pdf.Page) (lines []textLine, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return groupLines(p.Content().Text), nil
}

// groupLines collects glyphs sharing a baseline (to the nearest point) into
// lines ordered top to bottom.
func groupLines(texts []pdf.Text) []textLine {
	var lines []textLine
	byBaseline := make(map[int64]int)
	for _, t := range texts {
		if t.S == "" || t.S == "\n" || t.S == "\r" {
			continue
		}
		key := int64(math.Round(t.Y))
		i, ok := byBaseline[key]
		if !ok {
			i = len(lines)
			byBaseline[key] = i
			lines = append(lines, textLine{Y: t.Y})
		}
		lines[i].Runs = append(lines[i].Runs, textRun{X: t.X, W: t.W, Size: math.Abs(t.FontSize), S: t.S})
	}
	sort.SliceStable(lines, func(a, b int) bool { return lines[a].Y > lines[b].Y })
	return lines
}

// renderMarkdown lays out pages top to bottom. Lines set noticeably larger
// than the body size become headings; large vertical gaps become paragraph
// breaks. The result is NFKC-normalized so ligatures read as plain letters.
func renderMarkdown(pages [][]textLine) string {
	body := bodyFontSize(pages)

	var b strings.Builder
	for _, lines := range pages {
		blankLine(&b)
		var prev *textLine
		var prevSize float64
		for i := range lines {
			line := &lines[i]
			text := strings.TrimSpace(line.text())
			if text == "" {
				continue
			}
			size := line.size()

			if level := headingFor(size, body, text); level > 0 {
				blankLine(&b)
				b.WriteString(strings.Repeat("#", level))
				b.WriteByte(' ')
				b.WriteString(text)
				b.WriteString("\n\n")
			} else {
				if prev != nil && prev.Y-line.Y > paragraphGap*math.Max(size, prevSize) {
					blankLine(&b)
				}
				b.WriteString(text)
				b.WriteByte('\n')
			}
			prev, prevSize = line, size
		}
	}
	return norm.NFKC.String(strings.TrimLeft(b.String(), "\n"))
}

// blankLine ends b with an empty line unless b is empty or already does.
func blankLine(b *strings.Builder) {
	s := b.String()
	switch {
	case s == "", strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		b.WriteByte('\n')
	default:
		b.WriteString("\n\n")
	}
}

func headingFor(size, body float64, text string) int {
	if body <= 0 || utf8.RuneCountInString(text) > maxHeadingRunes {
		return 0
	}
	for _, h := range headingRatios {
		if size >= body*h.ratio {
			return h.level
		}
	}
	return 0
}

// text joins the runs left to right, inserting a space wherever the gap
// between two runs is wider than a fraction of the font size.
func (l *textLine) text() string {
	runs := make([]textRun, len(l.Runs))
	copy(runs, l.Runs)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			p := runs[i-1]
			gap := r.X - (p.X + p.W)
			if gap > wordGap*math.Max(r.Size, 1) &&
				!strings.HasSuffix(p.S, " ") && !strings.HasPrefix(r.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(r.S)
	}
	return b.String()
}

// size is the font size covering the most characters in the line.
func (l *textLine) size() float64 {
	counts := make(map[float64]int)
	for _, r := range l.Runs {
		counts[roundSize(r.Size)] += utf8.RuneCountInString(strings.TrimSpace(r.S))
	}
	return dominant(counts)
}

// bodyFontSize is the font size covering the most characters in the
// document.
func bodyFontSize(pages [][]textLine) float64 {
	counts := make(map[float64]int)
	for _, lines := range pages {
		for _, l := range lines {
			for _, r := range l.Runs {
				counts[roundSize(r.Size)] += utf8.RuneCountInString(strings.TrimSpace(r.S))
			}
		}
	}
	return dominant(counts)
}

// dominant returns the key with the highest count, preferring the smaller
// size on ties.
func dominant(counts map[float64]int) float64 {
	var best float64
	bestN := 0
	for size, n := range counts {
		if n > bestN || (n == bestN && n > 0 && size < best) {
			best, bestN = size, n
		}
	}
	return best
}

func roundSize(s float64) float64 {
	return math.Round(s*2) / 2
}
