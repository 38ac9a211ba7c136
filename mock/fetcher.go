package mock

import (
	"context"

	"github.com/fwojciec/docplan"
)

var _ docplan.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docplan.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ docplan.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of docplan.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (string, error)
}

func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	return r.RenderFn(ctx, url)
}

var _ docplan.Browser = (*Browser)(nil)

// Browser is a mock implementation of docplan.Browser.
type Browser struct {
	NewSessionFn func(ctx context.Context) (docplan.Session, error)
}

func (b *Browser) NewSession(ctx context.Context) (docplan.Session, error) {
	return b.NewSessionFn(ctx)
}

var _ docplan.Session = (*Session)(nil)

// Session is a mock implementation of docplan.Session.
type Session struct {
	NavigateFn func(ctx context.Context, url string) (string, error)
	CloseFn    func() error
}

func (s *Session) Navigate(ctx context.Context, url string) (string, error) {
	return s.NavigateFn(ctx, url)
}

func (s *Session) Close() error {
	return s.CloseFn()
}
