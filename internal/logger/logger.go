// Package logger provides structured logging for the search widget and its
// hosts. The TUI writes to a file because bubbletea owns the terminal; CLI
// commands write to stderr.
package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Logger wraps slog.Logger with a few domain helpers.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to w. Format "json" selects the JSON handler;
// anything else uses the text handler. Debug enables debug-level records.
func New(w io.Writer, format string, debug bool) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// CatalogLoaded logs a successful catalog load.
func (l *Logger) CatalogLoaded(source string, records int) {
	l.Info("catalog_loaded",
		slog.String("source", source),
		slog.Int("records", records),
	)
}

// CatalogLoadFailed logs a failed catalog load. The widget keeps running with
// an empty catalog.
func (l *Logger) CatalogLoadFailed(source string, err error) {
	l.Error("catalog_load_failed",
		slog.String("source", source),
		slog.String("error", err.Error()),
	)
}

// Committed logs a committed selection.
func (l *Logger) Committed(city, stateCode, zip string, lat, lon float64) {
	l.Info("location_selected",
		slog.String("city", city),
		slog.String("state", stateCode),
		slog.String("zip", zip),
		slog.Float64("lat", lat),
		slog.Float64("lon", lon),
	)
}

// LocateFailed logs a failed "locate me" request.
func (l *Logger) LocateFailed(err error) {
	l.Warn("locate_failed", slog.String("error", err.Error()))
}

// HTTPRequest logs a served request at debug level.
func (l *Logger) HTTPRequest(method, path string, status int, latency time.Duration, clientIP string) {
	l.Debug("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.String("client_ip", clientIP),
	)
}

// RateLimitExceeded logs a request rejected by the rate limiter.
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
