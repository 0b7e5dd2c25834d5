// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// Sections splits markdown into heading-delimited sections in document
// order. Text before the first heading goes to an "Abstract" section with
// no level. Any line starting with '#' is a heading; its level is the
// number of leading '#' characters. Sections whose body is blank are
// dropped.
func Sections(markdown string) []types.Section {
	sections := []types.Section{}
	current := types.Section{Title: types.AbstractTitle}
	var body strings.Builder

	flush := func() {
		current.Content = body.String()
		if !isBlank(current.Content) {
			sections = append(sections, current)
		}
		body.Reset()
	}

	for _, line := range splitLines(markdown) {
		if strings.HasPrefix(line, "#") {
			flush()
			current = types.Section{
				Title: stripHeadingPrefix(line),
				Level: headingLevel(line),
			}
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}

	flush()
	return sections
}

// headingLevel counts the leading '#' characters.
func headingLevel(line string) int {
	return len(line) - len(strings.TrimLeft(line, "#"))
}

// stripHeadingPrefix removes the leading # characters and whitespace.
func stripHeadingPrefix(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}
