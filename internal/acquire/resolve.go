// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// ErrInvalidIdentifier is returned when an input matches none of the
// supported arXiv URL or ID forms.
var ErrInvalidIdentifier = errors.New("invalid arXiv identifier")

// arxivPDFBase is the download endpoint for resolved identifiers.
const arxivPDFBase = "https://arxiv.org/pdf/"

// idPatterns are tried in order; the first match wins. Each captures the
// ID with its optional version suffix.
var idPatterns = []*regexp.Regexp{
	// https://arxiv.org/abs/2301.07041v2
	regexp.MustCompile(`arxiv\.org/abs/(\d+\.\d+(?:v\d+)?)`),
	// https://arxiv.org/pdf/2301.07041v2
	regexp.MustCompile(`arxiv\.org/pdf/(\d+\.\d+(?:v\d+)?)`),
	// 2301.07041v2
	regexp.MustCompile(`^(\d+\.\d+(?:v\d+)?)$`),
}

// Resolve turns an arXiv URL or bare ID into an Identifier with its PDF URL.
// It fails with ErrInvalidIdentifier when no pattern matches.
func Resolve(input string) (types.Identifier, error) {
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return types.Identifier{
				ID:     m[1],
				Input:  input,
				PDFURL: arxivPDFBase + m[1],
			}, nil
		}
	}
	return types.Identifier{}, fmt.Errorf("%w: could not extract arXiv ID from %q", ErrInvalidIdentifier, input)
}
