package datasource

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
)

// Fetcher retrieves the raw bytes of a data file addressed by a slash
// separated path such as "aid-data/aid-data.csv".
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// HTTPFetcher downloads data files relative to a base URL, retrying
// transient failures with a constant backoff.
type HTTPFetcher struct {
	BaseURL  string
	Client   *http.Client
	Retries  uint64
	Interval time.Duration
}

// NewHTTPFetcher returns a fetcher for baseURL. timeout bounds each attempt.
func NewHTTPFetcher(baseURL string, retries uint64, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   &http.Client{Timeout: timeout},
		Retries:  retries,
		Interval: 100 * time.Millisecond,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	target, err := url.JoinPath(f.BaseURL, path)
	if err != nil {
		return nil, errors.Wrapf(err, "build url for %q", path)
	}

	var body []byte
	err = backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}
			resp, httpErr := f.Client.Do(req)
			if httpErr != nil {
				return errors.Wrap(httpErr, "http get")
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return backoff.Permanent(errors.Wrapf(ErrNotFound, "%s", target))
			case resp.StatusCode != http.StatusOK:
				return errors.Newf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			data, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				return errors.Wrap(readErr, "read body")
			}
			body = data
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(f.Interval), f.Retries),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// DirFetcher reads data files from a local directory.
type DirFetcher struct {
	Root string
}

func (f DirFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := filepath.Join(f.Root, filepath.FromSlash(path))
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(ErrNotFound, "%s", full)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", full)
	}
	return data, nil
}

// NewFetcher prefers an HTTP base URL and falls back to a directory.
func NewFetcher(baseURL, dir string, retries uint64, timeout time.Duration) Fetcher {
	if baseURL != "" {
		return NewHTTPFetcher(baseURL, retries, timeout)
	}
	return DirFetcher{Root: dir}
}
