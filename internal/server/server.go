// Package server publishes the latest rendered clock frame over HTTP.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-analogclock/internal/config"
)

// frameItem stores an encoded frame and its metadata for HTTP caching.
type frameItem struct {
	data        []byte
	etag        string
	modified    time.Time // truncated to seconds, the resolution of HTTP dates
	description string
}

// SnapshotServer serves the last painted clock face as a PNG, plus the metrics endpoint.
type SnapshotServer struct {
	// cache uses atomic.Pointer for lock-free reads.
	// Frames are replaced once per tick while clients may poll at any rate.
	cache   atomic.Pointer[frameItem]
	metrics http.Handler
	Port    string
}

// NewSnapshotServer creates a new instance of the server.
// A nil metrics handler disables the metrics route.
func NewSnapshotServer(port string, metrics http.Handler) *SnapshotServer {
	return &SnapshotServer{
		Port:    port,
		metrics: metrics,
	}
}

// Handler returns the routing table of the server.
func (s *SnapshotServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleFrameRequest)
	if s.metrics != nil {
		mux.Handle(config.RouteMetrics, s.metrics)
	}
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *SnapshotServer) Start(ctx context.Context) error {
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// UpdateImage encodes img as PNG and publishes it.
func (s *SnapshotServer) UpdateImage(img image.Image, description string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%s: %w", config.ErrPNGEncode, err)
	}
	s.Update(buf.Bytes(), description)
	return nil
}

// Update atomically replaces the served frame. Identical frames keep their
// Last-Modified date so conditional requests keep hitting.
func (s *SnapshotServer) Update(data []byte, description string) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	if prev := s.cache.Load(); prev != nil && prev.etag == etag && prev.description == description {
		return
	}

	item := &frameItem{
		data:        data,
		etag:        etag,
		modified:    time.Now().UTC().Truncate(time.Second),
		description: description,
	}
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
		config.LogKeyTime, description,
	)
}

// handleFrameRequest serves the PNG frame with HTTP caching support.
func (s *SnapshotServer) handleFrameRequest(w http.ResponseWriter, r *http.Request) {
	// 1. Method Validation
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	// 2. Load Data (Atomic / Lock-Free)
	item := s.cache.Load()

	// 3. Readiness Check: nothing painted yet.
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	// 4. Set Response Headers
	w.Header().Set(config.HeaderContentType, config.MimeImagePNG)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.modified.Format(http.TimeFormat))
	w.Header().Set(config.HeaderClockTime, item.description)

	// 5. Conditional Requests
	if notModified(r, item) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	// 6. Serve Content
	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// notModified reports whether the client copy of item is current. If-None-Match
// takes precedence over If-Modified-Since.
func notModified(r *http.Request, item *frameItem) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	t, err := http.ParseTime(since)
	if err != nil {
		return false
	}
	return !item.modified.After(t)
}
