package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/poker-board/internal/tournament"
)

const (
	UserAgent = "poker-board/1.0 (github.com/pfrederiksen/poker-board)"
	Timeout   = 30 * time.Second

	// maxBodySize bounds a sheet download.
	maxBodySize = 16 << 20
)

var (
	// ErrFetch wraps every failure to obtain the sheet.
	ErrFetch = errors.New("fetching listings")

	// ErrStatus is returned for a non-200 response.
	ErrStatus = errors.New("unexpected status code")
)

// Format is the encoding of the published sheet.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name; "" selects FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatCSV, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown source format %q", s)
}

// RowFetcher yields the raw rows of the sheet.
type RowFetcher interface {
	FetchRows(ctx context.Context) ([]tournament.Row, error)
}

// Fetcher reads the sheet from an http(s) URL or a local path.
type Fetcher struct {
	client *http.Client
	url    string
	format Format
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithFormat forces the sheet encoding instead of detecting it.
func WithFormat(format Format) Option {
	return func(f *Fetcher) {
		f.format = format
	}
}

// New creates a Fetcher for location, an http(s) URL or a file path.
func New(location string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: Timeout},
		url:    location,
		format: FormatAuto,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchRows downloads or reads the sheet and parses it.
func (f *Fetcher) FetchRows(ctx context.Context) ([]tournament.Row, error) {
	var (
		body        []byte
		contentType string
		err         error
	)
	if isRemote(f.url) {
		body, contentType, err = f.download(ctx)
	} else {
		body, err = readFile(f.url)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	rows, err := f.parse(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return rows, nil
}

func (f *Fetcher) download(ctx context.Context) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, "", fmt.Errorf("reading body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (f *Fetcher) parse(body []byte, contentType string) ([]tournament.Row, error) {
	format := f.format
	if format == FormatAuto || format == "" {
		format = detectFormat(body, contentType, f.url)
	}
	if format == FormatHTML {
		return ParseHTMLTable(bytes.NewReader(body))
	}
	return ParseCSV(bytes.NewReader(body))
}

// detectFormat picks HTML for text/html responses, .html paths, and bodies
// starting with a tag; everything else is CSV.
func detectFormat(body []byte, contentType, location string) Format {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return FormatHTML
	}
	lower := strings.ToLower(location)
	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") {
		return FormatHTML
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(body, utf8BOM), " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return FormatHTML
	}
	return FormatCSV
}

func isRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func readFile(location string) ([]byte, error) {
	path := strings.TrimPrefix(location, "file://")
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return body, nil
}
