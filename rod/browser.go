// Package rod provides the dynamic fetch strategy: a headless Chrome driven
// through github.com/go-rod/rod that waits for client-side rendering to settle.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docplan"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultNavigateTimeout bounds a single navigation including the wait for
// network idle.
const DefaultNavigateTimeout = 30 * time.Second

// DefaultMaxPages is the default number of navigations before the browser
// is recycled.
const DefaultMaxPages = 75

// Ensure Browser implements the browser interfaces at compile time.
var (
	_ docplan.Browser  = (*Browser)(nil)
	_ docplan.Renderer = (*Browser)(nil)
	_ docplan.Session  = (*Session)(nil)
)

// Browser owns a headless Chrome process and hands out sessions on it.
// Chrome accumulates memory over long runs, so the process is replaced
// after maxPages navigations once no session is open.
//
// Browser is safe for concurrent use.
type Browser struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	sessions int

	timeout   time.Duration
	maxPages  int64
	stealth   bool
	pageCount atomic.Int64
	closed    atomic.Bool
}

// Option configures a Browser.
type Option func(*Browser)

// WithTimeout sets the per-navigation timeout.
func WithTimeout(d time.Duration) Option {
	return func(b *Browser) {
		b.timeout = d
	}
}

// WithMaxPages sets the number of navigations before the browser is recycled.
func WithMaxPages(n int64) Option {
	return func(b *Browser) {
		b.maxPages = n
	}
}

// WithStealth opens tabs with the go-rod/stealth evasions injected, for
// documentation hosts that serve a challenge page to headless Chrome.
func WithStealth(enabled bool) Option {
	return func(b *Browser) {
		b.stealth = enabled
	}
}

// NewBrowser launches a headless Chrome browser.
// Close must be called when the Browser is no longer needed.
func NewBrowser(opts ...Option) (*Browser, error) {
	b := &Browser{
		timeout:  DefaultNavigateTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.launch(); err != nil {
		return nil, err
	}
	return b, nil
}

// Render opens a one-off session, navigates to url and closes the session.
func (b *Browser) Render(ctx context.Context, url string) (string, error) {
	session, err := b.NewSession(ctx)
	if err != nil {
		return "", err
	}
	defer session.Close()

	return session.Navigate(ctx, url)
}

// NewSession opens a new tab. The caller owns the session and must close it.
func (b *Browser) NewSession(ctx context.Context) (docplan.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.closed.Load() {
		return nil, docplan.Errorf(docplan.EINTERNAL, "browser closed")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sessions == 0 && b.pageCount.Load() >= b.maxPages {
		b.recycle()
	}

	page, err := b.newPage()
	if err != nil {
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	b.sessions++

	return &Session{page: page, browser: b}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.shutdown()
}

// LauncherPID returns the process ID of the browser launcher.
func (b *Browser) LauncherPID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

// newPage opens a blank tab. Must be called with mu held.
func (b *Browser) newPage() (*rod.Page, error) {
	if b.stealth {
		return stealth.Page(b.browser)
	}
	return b.browser.Page(proto.TargetCreateTarget{})
}

func (b *Browser) release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions--
}

// launch starts a new browser instance with stability flags.
func (b *Browser) launch() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.browser = browser
	b.launcher = lnchr
	return nil
}

// shutdown closes the current browser and launcher. Must be called with mu held.
func (b *Browser) shutdown() error {
	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

// recycle replaces the browser process, keeping the old one if the new
// launch fails. Must be called with mu held and no open sessions.
func (b *Browser) recycle() {
	oldBrowser, oldLauncher := b.browser, b.launcher
	b.browser, b.launcher = nil, nil

	if err := b.launch(); err != nil {
		b.browser, b.launcher = oldBrowser, oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	b.pageCount.Store(0)
}

// Session is one browser tab. It is not safe for concurrent use.
type Session struct {
	page    *rod.Page
	browser *Browser
	once    sync.Once
}

// Navigate loads url and returns the HTML once the network has gone idle.
func (s *Session) Navigate(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page := s.page.Context(ctx).Timeout(s.browser.timeout)
	defer page.CancelTimeout()

	// The wait must be armed before navigating or the idle event can be missed.
	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	wait()
	s.browser.pageCount.Add(1)

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return html, nil
}

// Close closes the tab. Close is safe to call multiple times.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		err = s.page.Close()
		s.browser.release()
	})
	return err
}
