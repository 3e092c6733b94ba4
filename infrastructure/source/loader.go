// Package source acquires survey exports: a remote fetch with a local cache
// fallback, and a reader that turns the semicolon-delimited payload into rows.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/helixml/pulse/domain/ingest"
)

// DefaultURL is the upstream export used when no source is configured.
const DefaultURL = "https://raw.githubusercontent.com/pin-people/tech_playground/refs/heads/main/data.csv"

// DefaultTimeout bounds a remote fetch.
const DefaultTimeout = 30 * time.Second

// ErrNoData indicates neither the source nor the cache produced a payload.
var ErrNoData = errors.New("no data available")

// Loader fetches raw export payloads.
type Loader struct {
	client *http.Client
	logger *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithTimeout sets the fetch timeout. The client in use is copied, so a
// client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			c := *l.client
			c.Timeout = d
			l.client = &c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: DefaultTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the payload of src. When localOnly is set, src is empty, or
// the fetch fails, the cache is read instead. Load never writes the cache.
func (l *Loader) Load(ctx context.Context, src, cachePath string, localOnly bool) ([]byte, error) {
	data, _, err := l.load(ctx, src, cachePath, localOnly)
	return data, err
}

// Rows loads src like Load and parses the payload into table rows. A
// fetched payload replaces the cache only once it parses into at least one
// row.
func (l *Loader) Rows(ctx context.Context, src, cachePath string, localOnly bool) ([]ingest.Row, error) {
	data, fetched, err := l.load(ctx, src, cachePath, localOnly)
	if err != nil {
		return nil, err
	}
	rows, err := ReadTable(data)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	if fetched && cachePath != "" {
		if len(rows) == 0 {
			l.logger.WarnContext(ctx, "source has no rows, keeping cache", slog.String("source", src), slog.String("path", cachePath))
		} else if werr := writeAtomic(cachePath, data); werr != nil {
			l.logger.WarnContext(ctx, "failed to refresh source cache", slog.String("path", cachePath), slog.Any("error", werr))
		}
	}
	return rows, nil
}

// load reports whether the payload came from src rather than the cache.
func (l *Loader) load(ctx context.Context, src, cachePath string, localOnly bool) ([]byte, bool, error) {
	if !localOnly && src != "" {
		data, err := l.fetch(ctx, src)
		if err == nil {
			l.logger.InfoContext(ctx, "source fetched", slog.String("source", src), slog.Int("bytes", len(data)))
			return data, true, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		l.logger.WarnContext(ctx, "source fetch failed, falling back to cache",
			slog.String("source", src),
			slog.String("cache", cachePath),
			slog.Any("error", err),
		)
	}

	if cachePath == "" {
		return nil, false, fmt.Errorf("%w: no cache path configured", ErrNoData)
	}

	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false, fmt.Errorf("%w: read cache %s: %w", ErrNoData, cachePath, err)
	}
	l.logger.InfoContext(ctx, "source loaded from cache", slog.String("path", cachePath), slog.Int("bytes", len(data)))
	return data, false, nil
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	if path, ok := localPath(src); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read source file: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch source: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read source body: %w", err)
	}
	return data, nil
}

// IsRemote reports whether src is an http or https URL.
func IsRemote(src string) bool {
	_, local := localPath(src)
	return !local
}

// localPath reports whether src names a file rather than an HTTP resource.
func localPath(src string) (string, bool) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		return src, true
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return u.Path, true
	case "http", "https":
		return "", false
	}
	return src, true
}

// writeAtomic writes data through a temp file in the same directory and
// renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".source-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
