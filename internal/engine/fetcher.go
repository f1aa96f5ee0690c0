package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-calendar/internal/config"
)

// VCardFetcher downloads an address book for the birthday importer.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher fetches address books over HTTP(S) with optional Basic Auth.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher bounded by config.HTTPTimeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch GETs targetURL. Only http and https are accepted and the body is
// capped at config.MaxHTTPResponseSize. Query strings never reach the logs.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug(config.MsgFetchStart)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchBadStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %d %s", config.ErrFetchStatus, resp.StatusCode, resp.Status)
	}

	log.Info(config.MsgFetchDownload, slog.Int64(config.LogKeySizeBytes, resp.ContentLength))

	return &limitedReadCloser{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// limitedReadCloser reads through the limit and closes the response body.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}
