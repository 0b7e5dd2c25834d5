// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/arxiv-extract/internal/httputil"
	"github.com/pdiddy/arxiv-extract/pkg/types"
)

const sampleArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <id>http://arxiv.org/api/query-id</id>
  <title>ArXiv Query: id_list=2301.07041</title>
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <updated>2023-02-01T10:00:00Z</updated>
    <published>2023-01-17T18:58:28Z</published>
    <title>Test Paper
      Title</title>
    <summary>  This is the abstract of the test paper.
</summary>
    <author><name>Alice Smith</name></author>
    <author><name>Bob Jones</name></author>
    <arxiv:doi>10.1000/test.1</arxiv:doi>
    <arxiv:comment>12 pages, 3 figures</arxiv:comment>
    <link href="http://arxiv.org/abs/2301.07041v2" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2301.07041v2" rel="related" type="application/pdf"/>
    <arxiv:primary_category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.CL" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
  </entry>
</feed>`

const bareArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <published>2023-01-01T00:00:00Z</published>
    <title>Bare</title>
    <summary>Nothing else.</summary>
  </entry>
</feed>`

const emptyArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query: id_list=9999.99999</title>
</feed>`

const errorArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_1234</id>
    <title>Error</title>
    <summary>incorrect id format for 1234</summary>
  </entry>
</feed>`

const fakePDFContent = "%PDF-1.4 fake"

// newTestServer serves the arXiv API at /api/query (keyed by id_list) and
// PDFs under /pdf/.
func newTestServer(t *testing.T, gotIDList *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/query":
			idList := r.URL.Query().Get("id_list")
			if gotIDList != nil {
				*gotIDList = idList
			}
			w.Header().Set("Content-Type", "application/atom+xml")
			switch idList {
			case "2301.07041":
				fmt.Fprint(w, sampleArxivXML)
			case "1234":
				fmt.Fprint(w, errorArxivXML)
			case "2301.00001":
				fmt.Fprint(w, bareArxivXML)
			default:
				fmt.Fprint(w, emptyArxivXML)
			}
		case strings.HasPrefix(r.URL.Path, "/pdf/"):
			w.Header().Set("Content-Type", "application/pdf")
			fmt.Fprint(w, fakePDFContent)
		default:
			http.NotFound(w, r)
		}
	}))
}

func overrideAPIBase(t *testing.T, tsURL string) {
	t.Helper()
	orig := arxivAPIBase
	arxivAPIBase = tsURL + "/api/query"
	t.Cleanup(func() { arxivAPIBase = orig })
}

func TestMetadataClientFetch(t *testing.T) {
	var idList string
	ts := newTestServer(t, &idList)
	defer ts.Close()
	overrideAPIBase(t, ts.URL)

	c := &MetadataClient{Client: ts.Client(), UserAgent: "arxiv-extract-test/0.1"}
	id := types.Identifier{ID: "2301.07041v2", PDFURL: "https://arxiv.org/pdf/2301.07041v2"}

	md, err := c.Fetch(context.Background(), id)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if idList != "2301.07041" {
		t.Errorf("id_list = %q, want version stripped", idList)
	}
	if md.Title != "Test Paper Title" {
		t.Errorf("Title = %q", md.Title)
	}
	if md.Summary != "This is the abstract of the test paper." {
		t.Errorf("Summary = %q", md.Summary)
	}
	if got := strings.Join(md.Authors, ";"); got != "Alice Smith;Bob Jones" {
		t.Errorf("Authors = %q", got)
	}
	if got := strings.Join(md.Categories, ","); got != "cs.CL,cs.LG" {
		t.Errorf("Categories = %q", got)
	}
	if md.PrimaryCategory != "cs.CL" {
		t.Errorf("PrimaryCategory = %q", md.PrimaryCategory)
	}
	if md.PDFURL != "http://arxiv.org/pdf/2301.07041v2" {
		t.Errorf("PDFURL = %q", md.PDFURL)
	}
	if md.ArxivURL != "http://arxiv.org/abs/2301.07041v2" {
		t.Errorf("ArxivURL = %q", md.ArxivURL)
	}
	if md.DOI == nil || *md.DOI != "10.1000/test.1" {
		t.Errorf("DOI = %v", md.DOI)
	}
	if md.Comment == nil || *md.Comment != "12 pages, 3 figures" {
		t.Errorf("Comment = %v", md.Comment)
	}
	wantPub := time.Date(2023, 1, 17, 18, 58, 28, 0, time.UTC)
	if !md.Published.Equal(wantPub) {
		t.Errorf("Published = %v, want %v", md.Published, wantPub)
	}
	if md.Updated == nil || !md.Updated.Equal(time.Date(2023, 2, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Updated = %v", md.Updated)
	}
}

func TestMetadataClientBareEntry(t *testing.T) {
	ts := newTestServer(t, nil)
	defer ts.Close()
	overrideAPIBase(t, ts.URL)

	c := &MetadataClient{Client: ts.Client()}
	md, err := c.Fetch(context.Background(), types.Identifier{ID: "2301.00001", PDFURL: "https://arxiv.org/pdf/2301.00001"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if md.Authors == nil || len(md.Authors) != 0 {
		t.Errorf("Authors = %#v, want empty non-nil", md.Authors)
	}
	if md.Categories == nil || len(md.Categories) != 0 {
		t.Errorf("Categories = %#v, want empty non-nil", md.Categories)
	}
	if md.DOI != nil || md.Comment != nil {
		t.Errorf("DOI = %v, Comment = %v, want nil", md.DOI, md.Comment)
	}
	if md.Updated != nil {
		t.Errorf("Updated = %v, want nil", md.Updated)
	}
	if md.PDFURL != "https://arxiv.org/pdf/2301.00001" {
		t.Errorf("PDFURL = %q, want resolver URL when no pdf link", md.PDFURL)
	}
}

func TestMetadataClientNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	defer ts.Close()
	overrideAPIBase(t, ts.URL)

	c := &MetadataClient{Client: ts.Client()}

	for _, raw := range []string{"9999.99999", "1234"} {
		t.Run(raw, func(t *testing.T) {
			_, err := c.Fetch(context.Background(), types.Identifier{ID: raw})
			if !errors.Is(err, ErrPaperNotFound) {
				t.Errorf("Fetch(%q) error = %v, want ErrPaperNotFound", raw, err)
			}
		})
	}
}

func TestMetadataClientHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	overrideAPIBase(t, ts.URL)

	c := &MetadataClient{Client: ts.Client()}
	_, err := c.Fetch(context.Background(), types.Identifier{ID: "2301.07041"})

	var se *httputil.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *httputil.StatusError", err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", se.StatusCode)
	}
}

func TestDownload(t *testing.T) {
	ts := newTestServer(t, nil)
	defer ts.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "2301.07041.pdf")
	d := &Downloader{Client: ts.Client(), Timeout: 10 * time.Second}

	n, err := d.Download(context.Background(), ts.URL+"/pdf/2301.07041", dest)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(len(fakePDFContent)) {
		t.Errorf("bytes = %d, want %d", n, len(fakePDFContent))
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}
	if string(data) != fakePDFContent {
		t.Errorf("PDF content = %q", string(data))
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}
}

func TestDownloadHTTPError(t *testing.T) {
	ts := newTestServer(t, nil)
	defer ts.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "missing.pdf")
	d := &Downloader{Client: ts.Client()}

	_, err := d.Download(context.Background(), ts.URL+"/nope", dest)
	var se *httputil.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("error = %v, want HTTP 404 StatusError", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("destination should not exist after a failed download")
	}
}

func TestDownloadTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	d := &Downloader{Client: ts.Client(), Timeout: 50 * time.Millisecond}
	_, err := d.Download(context.Background(), ts.URL+"/pdf/slow", filepath.Join(t.TempDir(), "slow.pdf"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
}
