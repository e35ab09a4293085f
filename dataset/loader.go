package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/badgerinventory/perfdash/engine"
)

// ============================================================================
// LOADER — Reads the export from a file or an http(s) URL
// ============================================================================

// DefaultTimeout bounds a fetch when the caller sets none.
const DefaultTimeout = 30 * time.Second

// maxErrorBody is how much of a failed response body is kept in errors.
const maxErrorBody = 200

// Source yields the raw export payload.
type Source interface {
	// Location names the source in errors and logs.
	Location() string
	Fetch(ctx context.Context) ([]byte, error)
}

// FileSource reads the export from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Location() string { return s.Path }

// Fetch reads the whole file.
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: s.Path, Op: "open", Err: err}
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &LoadError{Source: s.Path, Op: "open", Err: err}
	}
	return data, nil
}

// HTTPSource fetches the export with a GET request.
type HTTPSource struct {
	URL    string
	client *http.Client
}

// NewHTTPSource creates an HTTP source. timeout <= 0 uses DefaultTimeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPSource{
		URL: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPSource) Location() string { return s.URL }

// Fetch performs the request. Non-2xx responses are errors.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &LoadError{Source: s.URL, Op: "fetch", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: s.URL, Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: s.URL, Op: "read", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{
			Source: s.URL,
			Op:     "status",
			Err:    fmt.Errorf("HTTP error! status: %d: %s", resp.StatusCode, truncate(string(body), maxErrorBody)),
		}
	}
	return body, nil
}

// NewSource picks an HTTPSource for http(s) locations and a FileSource
// otherwise.
func NewSource(location string, timeout time.Duration) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, timeout)
	}
	return FileSource{Path: location}
}

// Load fetches and parses the export. Every failure is a *LoadError.
func Load(ctx context.Context, src Source) ([]engine.EmployeeRecord, error) {
	payload, err := src.Fetch(ctx)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, &LoadError{Source: src.Location(), Op: "fetch", Err: err}
	}

	records, err := Parse(payload)
	if err != nil {
		return nil, &LoadError{Source: src.Location(), Op: "decode", Err: err}
	}
	return records, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
