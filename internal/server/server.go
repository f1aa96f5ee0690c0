package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// cacheItem is one rendered representation and its HTTP caching metadata.
type cacheItem struct {
	data         []byte
	contentType  string
	etag         string
	lastModified string // RFC1123, as required by HTTP headers
}

// feed groups the representations published together, so a reader never
// mixes an old ICS with a new JSON list.
type feed struct {
	ics  *cacheItem
	json *cacheItem
}

// FeedServer publishes the event list on localhost as an iCalendar feed
// (for calendar clients) and as the raw JSON list.
type FeedServer struct {
	// Read on every request, replaced only when the event list changes.
	cache atomic.Pointer[feed]
	Port  string
}

// NewFeedServer creates a server for the given port. Nothing is served until Publish.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{
		Port: port,
	}
}

// Handler returns the route table.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleRoot)
	mux.HandleFunc(config.RouteICS, s.serve(func(f *feed) *cacheItem { return f.ics }))
	mux.HandleFunc(config.RouteJSON, s.serve(func(f *feed) *cacheItem { return f.json }))
	return mux
}

// Start listens on 127.0.0.1 and blocks until ctx is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Publish renders events in both formats and swaps them in atomically.
// On error the previous feed keeps being served.
func (s *FeedServer) Publish(events []engine.Event, now time.Time, opts engine.ExportOptions) error {
	ics, err := engine.Export(events, now, opts)
	if err != nil {
		return err
	}

	if events == nil {
		events = []engine.Event{}
	}
	list, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrJSONEncode, err)
	}

	lastMod := now.UTC().Format(http.TimeFormat)
	next := &feed{
		ics:  newCacheItem(ics, config.MimeTextCalendar, lastMod),
		json: newCacheItem(list, config.MimeJSON, lastMod),
	}
	s.cache.Store(next)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyCount, len(events),
		config.LogKeySizeBytes, len(ics),
		config.LogKeyETag, next.ics.etag,
	)
	return nil
}

func newCacheItem(data []byte, contentType, lastModified string) *cacheItem {
	hash := sha256.Sum256(data)
	return &cacheItem{
		data:         data,
		contentType:  contentType,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: lastModified,
	}
}

// handleRoot serves the ICS feed on "/" and rejects every other unmatched path.
func (s *FeedServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != config.RouteRoot {
		http.NotFound(w, r)
		return
	}
	s.serve(func(f *feed) *cacheItem { return f.ics })(w, r)
}

// serve returns a handler for one representation with HTTP caching support.
func (s *FeedServer) serve(pick func(*feed) *cacheItem) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}

		f := s.cache.Load()
		if f == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}
		item := pick(f)

		w.Header().Set(config.HeaderContentType, item.contentType)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, item.etag)
		w.Header().Set(config.HeaderLastModified, item.lastModified)

		if notModified(r, item) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyRoute, r.URL.Path,
					config.LogKeyError, err,
				)
			}
		}
	}
}

// notModified evaluates If-None-Match first, then If-Modified-Since.
func notModified(r *http.Request, item *cacheItem) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, item.lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}
