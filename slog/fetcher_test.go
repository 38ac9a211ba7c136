package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/docplan"
	"github.com/fwojciec/docplan/mock"
	docslog "github.com/fwojciec/docplan/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := docslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://example.com/docs")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", &docplan.StatusError{URL: url, StatusCode: 404}
			},
		}

		_, err := docslog.NewLoggingFetcher(inner, logger).Fetch(context.Background(), "https://example.com/missing")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "HTTP 404")
	})

	t.Run("delegates close", func(t *testing.T) {
		t.Parallel()

		closed := false
		inner := &mock.Fetcher{CloseFn: func() error { closed = true; return nil }}

		require.NoError(t, docslog.NewLoggingFetcher(inner, slog.New(slog.DiscardHandler)).Close())
		assert.True(t, closed)
	})
}

func TestLoggingRenderer_Render(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Renderer{
		RenderFn: func(ctx context.Context, url string) (string, error) {
			return "<html></html>", nil
		},
	}

	html, err := docslog.NewLoggingRenderer(inner, logger).Render(context.Background(), "https://example.com/")

	require.NoError(t, err)
	assert.Equal(t, "<html></html>", html)
	assert.Contains(t, buf.String(), "msg=render")
	assert.Contains(t, buf.String(), "bytes=13")
}

func TestLoggingBrowser_NewSession(t *testing.T) {
	t.Parallel()

	t.Run("logs navigations of the wrapped session", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		closed := false
		inner := &mock.Browser{
			NewSessionFn: func(ctx context.Context) (docplan.Session, error) {
				return &mock.Session{
					NavigateFn: func(ctx context.Context, url string) (string, error) { return "<p>x</p>", nil },
					CloseFn:    func() error { closed = true; return nil },
				}, nil
			},
		}

		session, err := docslog.NewLoggingBrowser(inner, logger).NewSession(context.Background())
		require.NoError(t, err)

		_, err = session.Navigate(context.Background(), "https://example.com/a")
		require.NoError(t, err)
		require.NoError(t, session.Close())

		assert.True(t, closed)
		assert.Contains(t, buf.String(), "msg=navigate")
		assert.Contains(t, buf.String(), "url=https://example.com/a")
	})

	t.Run("logs session failures", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Browser{
			NewSessionFn: func(ctx context.Context) (docplan.Session, error) {
				return nil, errors.New("chrome crashed")
			},
		}

		_, err := docslog.NewLoggingBrowser(inner, logger).NewSession(context.Background())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "chrome crashed")
	})
}
