package docplan

import "context"

// Fetcher retrieves raw HTML from URLs without executing JavaScript.
type Fetcher interface {
	// Fetch returns the response body for url.
	// A non-success status is reported as a *StatusError.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases transport resources.
	Close() error
}

// Renderer renders a page in a browser and returns the final HTML.
type Renderer interface {
	Render(ctx context.Context, url string) (html string, err error)
}

// Browser opens browser sessions for the dynamic fetch strategy.
type Browser interface {
	// NewSession opens a session that the caller owns exclusively.
	// The session must be closed when the caller is done with it.
	NewSession(ctx context.Context) (Session, error)
}

// Session is a single browser tab navigated sequentially.
// A Session is not safe for concurrent use.
type Session interface {
	// Navigate loads url, waits for the network to go idle,
	// and returns the rendered HTML.
	Navigate(ctx context.Context, url string) (html string, err error)

	// Close releases the tab.
	Close() error
}
