// Package acquire resolves arXiv identifiers, fetches paper metadata from the
// arXiv API, and downloads PDFs.
package acquire

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-extract/internal/httputil"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

// ErrPaperNotFound is returned when the arXiv API has no entry for an ID.
var ErrPaperNotFound = errors.New("no paper found")

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// MetadataClient looks up paper metadata in the arXiv Atom API.
type MetadataClient struct {
	Client    *http.Client
	UserAgent string
}

// Fetch retrieves the metadata record for id. The version suffix is
// dropped before the lookup. A missing entry yields ErrPaperNotFound; the
// request is not retried.
func (c *MetadataClient) Fetch(ctx context.Context, id types.Identifier) (*types.PaperMetadata, error) {
	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, url.QueryEscape(id.BaseID()))

	resp, err := httputil.Get(ctx, c.Client, apiURL, c.UserAgent, "application/atom+xml")
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	entry, ok := feed.firstPaper()
	if !ok {
		return nil, fmt.Errorf("%w for arXiv ID: %s", ErrPaperNotFound, id.ID)
	}
	return entry.metadata(id), nil
}

// arXiv Atom feed XML structures. Element names are matched by local name,
// so arxiv:primary_category, arxiv:doi and arxiv:comment need no namespace.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID              string         `xml:"id"`
	Title           string         `xml:"title"`
	Summary         string         `xml:"summary"`
	Published       string         `xml:"published"`
	Updated         string         `xml:"updated"`
	Authors         []atomAuthor   `xml:"author"`
	Categories      []atomCategory `xml:"category"`
	PrimaryCategory atomCategory   `xml:"primary_category"`
	Links           []atomLink     `xml:"link"`
	DOI             string         `xml:"doi"`
	Comment         string         `xml:"comment"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

// firstPaper returns the first entry that describes a paper. arXiv reports
// malformed IDs as an entry whose id points at /api/errors.
func (f atomFeed) firstPaper() (atomEntry, bool) {
	for _, e := range f.Entries {
		if strings.Contains(e.ID, "/abs/") {
			return e, true
		}
	}
	return atomEntry{}, false
}

func (e atomEntry) metadata(id types.Identifier) *types.PaperMetadata {
	md := &types.PaperMetadata{
		Title:           collapseSpace(e.Title),
		Summary:         strings.TrimSpace(e.Summary),
		PrimaryCategory: e.PrimaryCategory.Term,
		ArxivURL:        strings.TrimSpace(e.ID),
		DOI:             optional(e.DOI),
		Comment:         optional(e.Comment),
		PDFURL:          id.PDFURL,
		Authors:         []string{},
		Categories:      []string{},
	}

	for _, a := range e.Authors {
		md.Authors = append(md.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			md.Categories = append(md.Categories, c.Term)
		}
	}
	for _, l := range e.Links {
		if l.Title == "pdf" && l.Href != "" {
			md.PDFURL = l.Href
			break
		}
	}

	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		md.Published = t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated)); err == nil {
		md.Updated = &t
	}
	return md
}

// optional trims s and returns nil when nothing is left.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Downloader fetches PDFs over HTTP.
type Downloader struct {
	Client    *http.Client
	UserAgent string

	// Timeout bounds the whole download, including reading the body.
	// Zero means no bound.
	Timeout time.Duration
}

// Download fetches url into destPath and returns the number of bytes
// written. The body goes to a temporary file in the destination directory
// that is renamed over destPath on success, so a failed download never
// leaves a truncated PDF behind.
func (d *Downloader) Download(ctx context.Context, url, destPath string) (int64, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	resp, err := httputil.Get(ctx, d.Client, url, d.UserAgent, "application/pdf")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	n, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return n, nil
}
