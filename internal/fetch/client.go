package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Clouded-Sabre/chnroutes/internal/progress"
)

// Common errors.
var (
	ErrNotFound     = errors.New("fetch: resource not found")
	ErrForbidden    = errors.New("fetch: access forbidden")
	ErrUnauthorized = errors.New("fetch: unauthorized")
	ErrServerError  = errors.New("fetch: server error")
)

// DefaultChunkSize is the per-read size used by Download when none is
// configured. Small chunks keep the progress display lively.
const DefaultChunkSize = 8 * 1024

// defaultUserAgent identifies the client to registry mirrors.
const defaultUserAgent = "chnroutes/1.0"

// Options configures the HTTP client.
type Options struct {
	// Timeout bounds an entire request including reading the body. Zero
	// means no timeout.
	// Default: 0
	Timeout time.Duration

	// UserAgent is sent with every request.
	// Default: "chnroutes/1.0"
	UserAgent string

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 2
	MaxIdleConnsPerHost int
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:           defaultUserAgent,
		MaxIdleConnsPerHost: 2,
	}
}

// Response is the readable result of a successful Get. The caller owns
// Body and must close it.
type Response struct {
	Body          io.ReadCloser
	ContentLength int64 // -1 when the server did not report a length
}

// Client fetches delegation files over HTTP.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a client with the given options.
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 2
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  true, // keep Content-Length meaningful for progress
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// Get performs a single GET request against url.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if err := checkStatusCode(resp.StatusCode, resp.Status); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return &Response{
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
	}, nil
}

// DownloadOptions configures a single download.
type DownloadOptions struct {
	// ChunkSize is the read size per iteration.
	// Default: DefaultChunkSize
	ChunkSize int

	// Progress is where the progress display is drawn. nil disables the
	// display.
	Progress io.Writer

	// Now supplies the clock for progress sampling.
	// Default: time.Now
	Now func() time.Time
}

// Download fetches url and streams the body to w, updating the progress
// display after each chunk when opts.Progress is set. The context is
// checked once per chunk, so cancellation takes effect mid-transfer.
// Returns the number of bytes written to w.
func (c *Client) Download(ctx context.Context, url string, w io.Writer, opts DownloadOptions) (int64, error) {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}

	resp, err := c.Get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var reporter *progress.Reporter
	if opts.Progress != nil {
		reporter = progress.NewReporter(progress.Options{
			Total:  resp.ContentLength,
			Output: opts.Progress,
			Now:    opts.Now,
		})
		reporter.Start()
		defer reporter.Stop()
	}

	buf := make([]byte, opts.ChunkSize)
	var written int64

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			nw, writeErr := w.Write(buf[:n])
			written += int64(nw)
			if writeErr != nil {
				return written, fmt.Errorf("write: %w", writeErr)
			}
			if reporter != nil {
				reporter.Advance(n)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, fmt.Errorf("read body: %w", readErr)
		}
	}

	return written, nil
}

// checkStatusCode returns an appropriate error for non-success status
// codes.
func checkStatusCode(code int, status string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500:
		return fmt.Errorf("%w: %s", ErrServerError, status)
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("unexpected status code: %d", code)
	}
}
