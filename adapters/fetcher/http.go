// Package fetcher provides scheme-specific byte stream fetchers.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/Skryldev/image-loader/errors"
	"github.com/Skryldev/image-loader/utils"
)

// HTTP fetches byte streams over HTTP(S) using net/http.  Safe for
// concurrent use; the underlying client pools connections, but each Fetch
// returns an independent stream the caller must close.
type HTTP struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	Timeout   time.Duration // whole-request timeout; 0 = client default
	UserAgent string
	MaxBytes  int64 // reject bodies larger than this; 0 = no limit
	// Client overrides the internal client entirely (tests, custom TLS).
	Client *http.Client
}

// NewHTTP creates an HTTP fetcher.
func NewHTTP(opts HTTPOptions) *HTTP {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTP{client: client, userAgent: opts.UserAgent, maxBytes: opts.MaxBytes}
}

func (f *HTTP) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryNetwork, "http.fetch", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryNetwork, "http.fetch", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, apperrors.New(apperrors.CategoryNetwork, "http.fetch",
			fmt.Errorf("%w: %d for %s", apperrors.ErrBadStatus, resp.StatusCode, uri))
	}

	if f.maxBytes > 0 {
		return &limitedReadCloser{
			Reader: &utils.LimitedReader{R: resp.Body, Max: f.maxBytes},
			body:   resp.Body,
		}, nil
	}
	return resp.Body, nil
}

// limitedReadCloser pairs a size-capped reader with the response body's
// Close.
type limitedReadCloser struct {
	io.Reader
	body io.Closer
}

func (l *limitedReadCloser) Close() error { return l.body.Close() }
