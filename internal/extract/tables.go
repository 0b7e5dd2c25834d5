// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "strings"

// Tables returns the table blocks found in markdown. A row is any line
// containing a '|'. A block starts at the first row and ends at the next
// blank line; rows are joined with "\n". A block still open at the end of
// the text is returned as well.
//
// A non-blank line without '|' inside an open block does not close it; it
// is kept as part of the block.
func Tables(markdown string) []string {
	tables := []string{}
	var current []string
	inTable := false

	for _, line := range splitLines(markdown) {
		switch {
		case isRow(line):
			inTable = true
			current = append(current, line)
		case inTable && isBlank(line):
			tables = append(tables, strings.Join(current, "\n"))
			current = nil
			inTable = false
		case inTable:
			current = append(current, line)
		}
	}

	if len(current) > 0 {
		tables = append(tables, strings.Join(current, "\n"))
	}
	return tables
}

func isRow(line string) bool {
	return strings.Contains(line, "|")
}
