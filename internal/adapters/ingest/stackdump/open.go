package stackdump

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	perr "dumpx/internal/platform/errors"
)

// Stdin is the location that reads the dump from standard input
const Stdin = "-"

// Fetcher opens a remote dump
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher streams a dump over http(s) without buffering it to disk
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcherWithTimeout creates a new HTTPFetcher; zero means no timeout
func NewHTTPFetcherWithTimeout(d time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: d}}
}

// Fetch returns the response body for url
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeConfig, "bad input url"), "input")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, perr.FromStream(err, "stackdump.fetch")
	}
	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		code := perr.ErrorCodeStream
		if resp.StatusCode == http.StatusNotFound {
			code = perr.ErrorCodeNotFound
		}
		msg := fmt.Sprintf("stackdump: unexpected status %d for %s", resp.StatusCode, url)
		if closeErr != nil {
			msg += fmt.Sprintf("; error closing body: %v", closeErr)
		}
		return nil, perr.WithOp(perr.New(code, msg), "stackdump.fetch")
	}
	return resp.Body, nil
}

// IsRemote reports whether location is fetched over http(s)
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Open resolves location to a byte stream: "-" is stdin, http(s) goes through f, anything else is a file
// f may be nil, in which case a default HTTPFetcher is used for remote inputs
func Open(ctx context.Context, location string, f Fetcher) (io.ReadCloser, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, perr.WithField(perr.Configf("no input given"), "input")
	case location == Stdin:
		return io.NopCloser(os.Stdin), nil
	case IsRemote(location):
		if f == nil {
			f = NewHTTPFetcherWithTimeout(0)
		}
		return f.Fetch(ctx, location)
	}

	fh, err := os.Open(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.WithField(perr.NotFoundf("input %s not found", location), "input")
		}
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeStream, "open %s", location), "input")
	}
	if fi, err := fh.Stat(); err == nil && fi.IsDir() {
		_ = fh.Close()
		return nil, perr.WithField(perr.Configf("input %s is a directory", location), "input")
	}
	return fh, nil
}

// OpenReader opens location and wraps it in a Reader
func OpenReader(ctx context.Context, location string, f Fetcher, opts ...Option) (*Reader, error) {
	rc, err := Open(ctx, location, f)
	if err != nil {
		return nil, err
	}
	return NewReader(rc, opts...)
}
