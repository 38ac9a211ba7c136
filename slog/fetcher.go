// Package slog decorates docplan services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docplan"
)

// Ensure LoggingFetcher implements docplan.Fetcher.
var _ docplan.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   docplan.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next docplan.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingRenderer implements docplan.Renderer.
var _ docplan.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   docplan.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next docplan.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render logs the rendered URL and delegates to the wrapped renderer.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// Ensure LoggingBrowser implements docplan.Browser.
var _ docplan.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser so that every session it opens logs its
// navigations.
type LoggingBrowser struct {
	next   docplan.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next docplan.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// NewSession opens a session on the wrapped browser.
func (b *LoggingBrowser) NewSession(ctx context.Context) (docplan.Session, error) {
	session, err := b.next.NewSession(ctx)
	if err != nil {
		b.logger.Error("session open failed", "err", err)
		return nil, err
	}
	return &loggingSession{next: session, logger: b.logger}, nil
}

type loggingSession struct {
	next   docplan.Session
	logger *slog.Logger
}

func (s *loggingSession) Navigate(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("navigate",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Navigate(ctx, url)
}

func (s *loggingSession) Close() error {
	return s.next.Close()
}
